package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mnemo-ai/mnemo/pkg/vault"
)

// NewVaultCommand creates the vault command group. The vault chain is
// subject to the same workspace guard as every other chain, so these
// commands only work in a workspace that allows "vault".
func NewVaultCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Manage encrypted secrets on the vault chain",
	}
	cmd.AddCommand(newVaultPutCommand(rootOpts))
	cmd.AddCommand(newVaultGetCommand(rootOpts))
	cmd.AddCommand(newVaultListCommand(rootOpts))
	cmd.AddCommand(newVaultRevokeCommand(rootOpts))
	return cmd
}

func newVaultPutCommand(rootOpts *RootOptions) *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "put <key-id> <ciphertext>",
		Short: "Store a new version of an encrypted secret",
		Long: `Append a secret to the vault chain. The value must already be
encrypted; mnemo stores ciphertext and never sees plaintext.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			b, err := vault.New(a.store).Put(cmd.Context(), args[0], args[1], tags)
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), b)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s stored %s as block #%d\n",
				okStyle.Render("ok:"), args[0], b.Index)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tags, "tags", nil, "tags to attach (comma separated)")
	return cmd
}

func newVaultGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key-id>",
		Short: "Fetch the active version of a secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			b, err := vault.New(a.store).Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), b)
			}
			fmt.Fprintln(cmd.OutOrStdout(), b.Data.Content)
			return nil
		},
	}
}

func newVaultListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active (non-revoked) secrets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			active, err := vault.New(a.store).Active(cmd.Context())
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), active)
			}
			if len(active) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("no active secrets"))
				return nil
			}
			for _, b := range active {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n",
					headerStyle.Render(b.Data.KeyID),
					dimStyle.Render(fmt.Sprintf("block #%d, %s", b.Index, b.Timestamp)))
			}
			return nil
		},
	}
}

func newVaultRevokeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <key-id>",
		Short: "Revoke a secret without erasing its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			b, err := vault.New(a.store).Revoke(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), b)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s revoked %s (marker block #%d)\n",
				okStyle.Render("ok:"), args[0], b.Index)
			return nil
		},
	}
}
