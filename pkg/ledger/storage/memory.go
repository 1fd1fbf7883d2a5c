package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mnemo-ai/mnemo/pkg/ledger"
)

// MemStore keeps chains in per-chain slices. It reuses the same block
// creation, hashing, and SOUL rules as the file backend, so a chain
// built in memory verifies identically. Intended for tests and
// ephemeral sessions.
type MemStore struct {
	mu     sync.RWMutex
	chains map[string][]*ledger.Block
	closed bool
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *MemStore {
	return &MemStore{chains: make(map[string][]*ledger.Block)}
}

func (m *MemStore) AppendBlock(_ context.Context, chain string, data ledger.BlockData) (*ledger.Block, error) {
	if chain == "" || strings.ContainsAny(chain, "/\\") {
		return nil, ledger.NewStoreError(ledger.CodeAppendFailed, chain,
			fmt.Errorf("invalid chain name %q", chain))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ledger.NewStoreError(ledger.CodeAppendFailed, chain, fmt.Errorf("store is closed"))
	}

	var prev *ledger.Block
	if existing := m.chains[chain]; len(existing) > 0 {
		prev = existing[len(existing)-1]
	}
	block, err := ledger.NewBlock(chain, data, prev)
	if err != nil {
		return nil, ledger.NewStoreError(ledger.CodeAppendFailed, chain, err)
	}
	if res := ledger.ValidateAgainstSoul(block, prev); !res.Valid {
		return nil, ledger.NewStoreError(ledger.CodeSoulInvalid, chain,
			fmt.Errorf("soul validation failed: %s", strings.Join(res.Errors, "; ")))
	}
	m.chains[chain] = append(m.chains[chain], block)
	return block.Clone(), nil
}

func (m *MemStore) ReadChain(_ context.Context, chain string, opts ReadOptions) ([]*ledger.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blocks := filterBlocks(m.chains[chain], opts)
	out := make([]*ledger.Block, len(blocks))
	for i, b := range blocks {
		out[i] = b.Clone()
	}
	return out, nil
}

func (m *MemStore) ListChains(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	chains := make([]string, 0, len(m.chains))
	for chain, blocks := range m.chains {
		if len(blocks) > 0 {
			chains = append(chains, chain)
		}
	}
	sort.Strings(chains)
	return chains, nil
}

func (m *MemStore) ChainStats(_ context.Context, chain string) (ledger.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blocks := m.chains[chain]
	stats := ledger.Stats{Blocks: len(blocks)}
	if len(blocks) > 0 {
		stats.First = blocks[0].Timestamp
		stats.Last = blocks[len(blocks)-1].Timestamp
	}
	return stats, nil
}

func (m *MemStore) LastBlock(_ context.Context, chain string) (*ledger.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blocks := m.chains[chain]
	if len(blocks) == 0 {
		return nil, nil
	}
	return blocks[len(blocks)-1].Clone(), nil
}

func (m *MemStore) GetBlock(_ context.Context, chain string, index uint64) (*ledger.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blocks := m.chains[chain]
	if index >= uint64(len(blocks)) {
		return nil, ledger.NewStoreError(ledger.CodeBlockNotFound, chain,
			fmt.Errorf("no block at index %d", index))
	}
	return blocks[index].Clone(), nil
}

func (m *MemStore) Ping(_ context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return fmt.Errorf("storage: memory store is closed")
	}
	return nil
}

func (m *MemStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
