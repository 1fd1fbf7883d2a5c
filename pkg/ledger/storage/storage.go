// Package storage defines the backend-agnostic contract every mnemo
// collaborator (CLI commands, recall, front-ends) uses to reach the
// ledger, plus the factory that selects a concrete backend.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/mnemo-ai/mnemo/pkg/ledger"
	"github.com/mnemo-ai/mnemo/pkg/ledger/chainfile"
)

// ReadOptions filters the blocks returned by ReadChain. The zero value
// returns the whole chain.
type ReadOptions struct {
	Type   ledger.BlockType // only blocks of this type
	Tags   []string         // only blocks carrying every listed tag
	Since  time.Time        // only blocks at or after this instant
	Until  time.Time        // only blocks at or before this instant
	Limit  int              // at most this many blocks (0 = all)
	Offset int              // skip this many blocks after filtering
}

// Store is the storage-engine contract. These operations are the only
// entry points any other subsystem may use.
type Store interface {
	AppendBlock(ctx context.Context, chain string, data ledger.BlockData) (*ledger.Block, error)
	ReadChain(ctx context.Context, chain string, opts ReadOptions) ([]*ledger.Block, error)
	ListChains(ctx context.Context) ([]string, error)
	ChainStats(ctx context.Context, chain string) (ledger.Stats, error)
	LastBlock(ctx context.Context, chain string) (*ledger.Block, error)
	GetBlock(ctx context.Context, chain string, index uint64) (*ledger.Block, error)
	Ping(ctx context.Context) error
	Close() error
}

// Backend tags understood by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Config selects and parameterizes a backend.
type Config struct {
	Backend  string
	BasePath string              // required for the file backend
	Hook     chainfile.CommitHook // optional post-append hook (file backend)
}

// Open builds the configured backend. A file backend without a base
// path is a configuration error, caught here rather than at first use.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendFile, "":
		if cfg.BasePath == "" {
			return nil, fmt.Errorf("storage: file backend requires a base path")
		}
		var opts []chainfile.Option
		if cfg.Hook != nil {
			opts = append(opts, chainfile.WithCommitHook(cfg.Hook))
		}
		engine, err := chainfile.New(cfg.BasePath, opts...)
		if err != nil {
			return nil, err
		}
		return &fileStore{engine: engine}, nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, ledger.NewStoreError(ledger.CodeBackendUnknown, "",
			fmt.Errorf("unknown storage backend %q", cfg.Backend))
	}
}
