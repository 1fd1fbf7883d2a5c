package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mnemo-ai/mnemo/pkg/config"
	"github.com/mnemo-ai/mnemo/pkg/ledger/repair"
	"github.com/mnemo-ai/mnemo/pkg/ledger/storage"
)

// loadFileConfig loads config for the maintenance commands, which
// operate directly on the on-disk chain files and therefore only work
// against the file backend.
func loadFileConfig(rootOpts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(rootOpts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if cfg.Backend != "" && cfg.Backend != storage.BackendFile {
		return nil, fmt.Errorf("backend %q does not support on-disk maintenance", cfg.Backend)
	}
	return cfg, nil
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [chain]",
		Short: "Strictly verify chain integrity",
		Long: `Re-validate every block of a chain: hash linkage, index sequence,
timestamp order and payload rules. Without an argument, verifies all
chains. Exits non-zero when any chain is broken.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadFileConfig(rootOpts)
			if err != nil {
				return err
			}

			var reports []*repair.Report
			if len(args) == 1 {
				r, err := repair.Verify(cfg.BasePath, args[0])
				if err != nil {
					return err
				}
				reports = append(reports, r)
			} else {
				if reports, err = repair.VerifyAll(cfg.BasePath); err != nil {
					return err
				}
			}

			if rootOpts.Format == "json" {
				if err := printJSON(cmd.OutOrStdout(), reports); err != nil {
					return err
				}
			} else {
				for _, r := range reports {
					printReport(cmd.OutOrStdout(), r)
				}
			}

			for _, r := range reports {
				if !r.Valid {
					return errors.New("verification failed")
				}
			}
			return nil
		},
	}
}

func printReport(w io.Writer, r *repair.Report) {
	if r.Valid {
		fmt.Fprintf(w, "%s %s (%d blocks)\n", okStyle.Render("✓"), r.Chain, r.Blocks)
		return
	}
	fmt.Fprintf(w, "%s %s broken at block %d: %s\n", failStyle.Render("✗"), r.Chain, r.BrokenAt, r.Reason)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "    %s\n", dimStyle.Render(e))
	}
}

// NewRepairCommand creates the repair command.
func NewRepairCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		dryRun    bool
		blockOnly bool
	)

	cmd := &cobra.Command{
		Use:   "repair <chain>",
		Short: "Quarantine damaged blocks from a chain",
		Long: `Verify a chain strictly and move damaged blocks into a quarantine
directory. Blocks are moved, never deleted. By default the whole
suffix from the break is quarantined so the surviving prefix remains
a consistent hash chain.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadFileConfig(rootOpts)
			if err != nil {
				return err
			}

			plan, err := repair.Repair(cfg.BasePath, args[0], repair.Options{
				DryRun:    dryRun,
				BlockOnly: blockOnly,
			})
			if err != nil {
				return err
			}

			if rootOpts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), plan)
			}

			out := cmd.OutOrStdout()
			if plan.BrokenAt < 0 {
				fmt.Fprintf(out, "%s %s is healthy, nothing to repair\n", okStyle.Render("✓"), plan.Chain)
				return nil
			}
			verb := "quarantined"
			if plan.DryRun {
				verb = "would quarantine"
			}
			fmt.Fprintf(out, "%s %s broken at block %d: %s\n",
				warnStyle.Render("!"), plan.Chain, plan.BrokenAt, plan.Reason)
			fmt.Fprintf(out, "  %s %d file(s) to %s\n", verb, len(plan.Files), plan.QuarantineDir)
			for _, f := range plan.Files {
				fmt.Fprintf(out, "    %s\n", dimStyle.Render(f))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report the plan without touching the filesystem")
	cmd.Flags().BoolVar(&blockOnly, "block-only", false, "quarantine only the offending block (forensics)")

	return cmd
}
