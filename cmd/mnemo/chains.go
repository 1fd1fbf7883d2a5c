package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mnemo-ai/mnemo/pkg/ledger"
)

// NewChainsCommand creates the chains command.
func NewChainsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chains",
		Short: "List chains visible in the active workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			chains, err := a.store.ListChains(cmd.Context())
			if err != nil {
				return err
			}

			if rootOpts.Format == "json" {
				type entry struct {
					Chain string `json:"chain"`
					ledger.Stats
				}
				out := make([]entry, 0, len(chains))
				for _, c := range chains {
					stats, err := a.store.ChainStats(cmd.Context(), c)
					if err != nil {
						return err
					}
					out = append(out, entry{Chain: c, Stats: stats})
				}
				return printJSON(cmd.OutOrStdout(), out)
			}

			if len(chains) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("no chains"))
				return nil
			}
			for _, c := range chains {
				stats, err := a.store.ChainStats(cmd.Context(), c)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n",
					headerStyle.Render(c),
					dimStyle.Render(fmt.Sprintf("%d blocks, last %s", stats.Blocks, stats.Last)))
			}
			return nil
		},
	}
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <chain>",
		Short: "Show block count and time range for a chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.store.ChainStats(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if rootOpts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n  blocks: %d\n  first:  %s\n  last:   %s\n",
				headerStyle.Render(args[0]), stats.Blocks, stats.First, stats.Last)
			return nil
		},
	}
}
