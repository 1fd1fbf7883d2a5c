package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/mnemo-ai/mnemo/pkg/ledger"
	"github.com/mnemo-ai/mnemo/pkg/ledger/storage"
)

// ErrDenied is wrapped inside every WORKSPACE_DENIED store error.
var ErrDenied = errors.New("workspace: chain is not in the active workspace allow-list")

// Guard wraps a storage backend behind the same contract and checks
// every operation against the active workspace before any I/O happens.
// Writes are additionally tag-enriched with the workspace's tag set.
type Guard struct {
	store    storage.Store
	resolver *Resolver
}

var _ storage.Store = (*Guard)(nil)

// NewGuard wraps store with workspace enforcement.
func NewGuard(store storage.Store, resolver *Resolver) *Guard {
	return &Guard{store: store, resolver: resolver}
}

// authorize resolves the active workspace and checks the chain against
// its allow-list. The bypass flag is consulted per call, not cached.
func (g *Guard) authorize(chain string) (*Policy, error) {
	if bypassed() {
		return nil, nil
	}
	policy, err := g.resolver.Resolve()
	if err != nil {
		return nil, err
	}
	if !policy.Allows(chain) {
		return nil, ledger.NewStoreError(ledger.CodeWorkspaceDenied, chain,
			fmt.Errorf("workspace %q: %w", policy.Name, ErrDenied))
	}
	return policy, nil
}

func (g *Guard) AppendBlock(ctx context.Context, chain string, data ledger.BlockData) (*ledger.Block, error) {
	policy, err := g.authorize(chain)
	if err != nil {
		return nil, err
	}
	if policy != nil {
		data.Tags = unionTags(data.Tags, policy.Tags)
	}
	return g.store.AppendBlock(ctx, chain, data)
}

func (g *Guard) ReadChain(ctx context.Context, chain string, opts storage.ReadOptions) ([]*ledger.Block, error) {
	if _, err := g.authorize(chain); err != nil {
		return nil, err
	}
	return g.store.ReadChain(ctx, chain, opts)
}

// ListChains filters rather than fails: a caller sees exactly the
// chains its workspace allows.
func (g *Guard) ListChains(ctx context.Context) ([]string, error) {
	chains, err := g.store.ListChains(ctx)
	if err != nil {
		return nil, err
	}
	if bypassed() {
		return chains, nil
	}
	policy, err := g.resolver.Resolve()
	if err != nil {
		return nil, err
	}
	allowed := chains[:0]
	for _, chain := range chains {
		if policy.Allows(chain) {
			allowed = append(allowed, chain)
		}
	}
	return allowed, nil
}

func (g *Guard) ChainStats(ctx context.Context, chain string) (ledger.Stats, error) {
	if _, err := g.authorize(chain); err != nil {
		return ledger.Stats{}, err
	}
	return g.store.ChainStats(ctx, chain)
}

func (g *Guard) LastBlock(ctx context.Context, chain string) (*ledger.Block, error) {
	if _, err := g.authorize(chain); err != nil {
		return nil, err
	}
	return g.store.LastBlock(ctx, chain)
}

func (g *Guard) GetBlock(ctx context.Context, chain string, index uint64) (*ledger.Block, error) {
	if _, err := g.authorize(chain); err != nil {
		return nil, err
	}
	return g.store.GetBlock(ctx, chain, index)
}

func (g *Guard) Ping(ctx context.Context) error { return g.store.Ping(ctx) }

func (g *Guard) Close() error { return g.store.Close() }

// unionTags appends the workspace tags the caller did not already set,
// preserving caller order first.
func unionTags(callerTags, wsTags []string) []string {
	out := append([]string{}, callerTags...)
	seen := make(map[string]bool, len(out))
	for _, t := range out {
		seen[t] = true
	}
	for _, t := range wsTags {
		if !seen[t] {
			out = append(out, t)
			seen[t] = true
		}
	}
	return out
}
