package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mnemo-ai/mnemo/pkg/ledger"
	"github.com/mnemo-ai/mnemo/pkg/ledger/storage"
)

// NewReadCommand creates the read command.
func NewReadCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		blockType string
		tags      []string
		since     string
		until     string
		limit     int
		offset    int
	)

	cmd := &cobra.Command{
		Use:   "read <chain>",
		Short: "Read blocks from a chain",
		Long: `Read a chain in order, oldest first. Damaged block files are skipped;
use "mnemo verify" to check chain integrity strictly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := storage.ReadOptions{
				Type:   ledger.BlockType(blockType),
				Tags:   tags,
				Limit:  limit,
				Offset: offset,
			}
			var err error
			if opts.Since, err = parseInstant(since); err != nil {
				return fmt.Errorf("invalid --since: %w", err)
			}
			if opts.Until, err = parseInstant(until); err != nil {
				return fmt.Errorf("invalid --until: %w", err)
			}

			a, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			blocks, err := a.store.ReadChain(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			if rootOpts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), blocks)
			}
			if len(blocks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("no blocks"))
				return nil
			}
			for _, b := range blocks {
				printBlock(cmd.OutOrStdout(), b)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&blockType, "type", "", "only blocks of this type")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "only blocks carrying every listed tag")
	cmd.Flags().StringVar(&since, "since", "", "only blocks at or after this RFC3339 instant")
	cmd.Flags().StringVar(&until, "until", "", "only blocks at or before this RFC3339 instant")
	cmd.Flags().IntVar(&limit, "limit", 0, "at most this many blocks (0 = all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "skip this many blocks after filtering")

	return cmd
}

func parseInstant(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
