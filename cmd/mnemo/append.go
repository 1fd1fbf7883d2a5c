package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mnemo-ai/mnemo/pkg/ledger"
)

// NewAppendCommand creates the append command.
func NewAppendCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		blockType string
		tags      []string
		agent     string
	)

	cmd := &cobra.Command{
		Use:   "append <chain> <content>",
		Short: "Append a block to a chain",
		Long: `Append a new block to the named chain. The block is hash-linked to
the previous block and validated before anything touches disk.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			data := ledger.BlockData{
				Type:    ledger.BlockType(blockType),
				Content: args[1],
				Tags:    tags,
				Agent:   agent,
			}
			b, err := a.store.AppendBlock(cmd.Context(), args[0], data)
			if err != nil {
				return err
			}

			if rootOpts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), b)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s appended block #%d to %s (%s)\n",
				okStyle.Render("ok:"), b.Index, b.Chain, b.Hash[:12])
			return nil
		},
	}

	cmd.Flags().StringVar(&blockType, "type", string(ledger.TypeJournal), "block type")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "tags to attach (comma separated)")
	cmd.Flags().StringVar(&agent, "agent", "", "acting agent identifier")

	return cmd
}
