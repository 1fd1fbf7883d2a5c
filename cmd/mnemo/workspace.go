package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewWorkspaceCommand creates the workspace command group.
func NewWorkspaceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Show or switch the active workspace",
	}
	cmd.AddCommand(newWorkspaceShowCommand(rootOpts))
	cmd.AddCommand(newWorkspaceSelectCommand(rootOpts))
	return cmd
}

func newWorkspaceShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active workspace and its allow-list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			name := a.resolver.Active()
			ws, ok := a.cfg.Workspaces[name]
			if !ok {
				return fmt.Errorf("workspace %q is not defined in the configuration", name)
			}

			if rootOpts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), struct {
					Name            string   `json:"name"`
					Chains          []string `json:"chains"`
					IncludeDefaults bool     `json:"include_defaults"`
					Tags            []string `json:"tags,omitempty"`
				}{name, ws.Chains, ws.IncludeDefaults, ws.Tags})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(name))
			fmt.Fprintf(out, "  chains: %s\n", strings.Join(ws.Chains, ", "))
			if ws.IncludeDefaults {
				fmt.Fprintln(out, dimStyle.Render("  (plus default chains)"))
			}
			if len(ws.Tags) > 0 {
				fmt.Fprintf(out, "  tags:   %s\n", strings.Join(ws.Tags, ", "))
			}
			return nil
		},
	}
}

func newWorkspaceSelectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "select <name>",
		Short: "Persist a workspace selection for future commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.resolver.Select(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s active workspace is now %s\n",
				okStyle.Render("ok:"), args[0])
			return nil
		},
	}
}
