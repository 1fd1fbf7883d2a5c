package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/mnemo-ai/mnemo/pkg/ledger"
	"github.com/mnemo-ai/mnemo/pkg/ledger/chainfile"
)

// fileStore adapts the chainfile persistence engine to the Store
// contract, adding query-side filtering over the raw chain.
type fileStore struct {
	engine *chainfile.Store
}

func (s *fileStore) AppendBlock(ctx context.Context, chain string, data ledger.BlockData) (*ledger.Block, error) {
	return s.engine.AppendBlock(ctx, chain, data)
}

func (s *fileStore) ReadChain(ctx context.Context, chain string, opts ReadOptions) ([]*ledger.Block, error) {
	blocks, err := s.engine.ReadChain(ctx, chain)
	if err != nil {
		return nil, err
	}
	return filterBlocks(blocks, opts), nil
}

func (s *fileStore) ListChains(ctx context.Context) ([]string, error) {
	return s.engine.ListChains(ctx)
}

func (s *fileStore) ChainStats(ctx context.Context, chain string) (ledger.Stats, error) {
	return s.engine.ChainStats(ctx, chain)
}

func (s *fileStore) LastBlock(ctx context.Context, chain string) (*ledger.Block, error) {
	return s.engine.LastBlock(ctx, chain)
}

func (s *fileStore) GetBlock(ctx context.Context, chain string, index uint64) (*ledger.Block, error) {
	return s.engine.GetBlock(ctx, chain, index)
}

// Ping verifies the base path is usable, creating it if absent.
func (s *fileStore) Ping(_ context.Context) error {
	base := s.engine.BasePath()
	info, err := os.Stat(base)
	if os.IsNotExist(err) {
		return os.MkdirAll(base, 0o750)
	}
	if err != nil {
		return fmt.Errorf("storage: ping %s: %w", base, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage: base path %s is not a directory", base)
	}
	return nil
}

func (s *fileStore) Close() error { return nil }
