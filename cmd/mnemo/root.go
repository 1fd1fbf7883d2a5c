package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mnemo-ai/mnemo/pkg/config"
	"github.com/mnemo-ai/mnemo/pkg/ledger/chainfile"
	"github.com/mnemo-ai/mnemo/pkg/ledger/storage"
	"github.com/mnemo-ai/mnemo/pkg/logging"
	"github.com/mnemo-ai/mnemo/pkg/workspace"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "json" | "text"
	Verbose    bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the mnemo CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "mnemo",
		Short: "mnemo - append-only memory ledger",
		Long: `A local-first, append-only memory store. Writes become hash-linked
blocks on named chains; history is never edited or deleted in place.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.mnemo/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewAppendCommand(opts))
	cmd.AddCommand(NewReadCommand(opts))
	cmd.AddCommand(NewChainsCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewRepairCommand(opts))
	cmd.AddCommand(NewWorkspaceCommand(opts))
	cmd.AddCommand(NewVaultCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// app bundles everything a command needs: loaded config, the workspace
// resolver, and the guarded store. Close releases the backend and the
// session log file.
type app struct {
	cfg      *config.Config
	resolver *workspace.Resolver
	store    storage.Store
	log      *logging.Logger
}

func openApp(opts *RootOptions) (*app, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	selPath, err := config.SelectionPath()
	if err != nil {
		return nil, err
	}
	resolver := workspace.NewResolver(cfg, selPath)

	var hook chainfile.CommitHook
	if cfg.GitSnapshots {
		hook = chainfile.NewGitSnapshot(cfg.BasePath)
	}
	backing, err := storage.Open(storage.Config{
		Backend:  cfg.Backend,
		BasePath: cfg.BasePath,
		Hook:     hook,
	})
	if err != nil {
		return nil, err
	}

	// A fallback stderr logger is returned even on error, so logging
	// setup never blocks the command itself.
	log, _ := logging.New("cli")
	log.Debugf("session %s: backend=%s base=%s workspace=%s",
		logging.SessionID(), cfg.Backend, cfg.BasePath, resolver.Active())

	return &app{
		cfg:      cfg,
		resolver: resolver,
		store:    workspace.NewGuard(backing, resolver),
		log:      log,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warnf("closing store: %v", err)
	}
	a.log.Close()
}
