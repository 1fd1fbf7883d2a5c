package workspace

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemo-ai/mnemo/pkg/config"
	"github.com/mnemo-ai/mnemo/pkg/ledger"
	"github.com/mnemo-ai/mnemo/pkg/ledger/storage"
)

// countingStore records how many calls reach the underlying backend so
// tests can prove a denial performs no I/O.
type countingStore struct {
	storage.Store
	calls int
}

func (c *countingStore) AppendBlock(ctx context.Context, chain string, data ledger.BlockData) (*ledger.Block, error) {
	c.calls++
	return c.Store.AppendBlock(ctx, chain, data)
}

func (c *countingStore) ReadChain(ctx context.Context, chain string, opts storage.ReadOptions) ([]*ledger.Block, error) {
	c.calls++
	return c.Store.ReadChain(ctx, chain, opts)
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultWorkspace: "work",
		Workspaces: map[string]config.Workspace{
			"work": {
				Chains: []string{"journal", "proj-*"},
				Tags:   []string{"ws:work"},
			},
			"ops": {
				Chains: []string{"vault", "journal"},
				Tags:   []string{"ws:ops"},
			},
		},
	}
}

func newTestGuard(t *testing.T) (*Guard, *countingStore, *Resolver) {
	t.Helper()
	t.Setenv(EnvWorkspace, "")
	t.Setenv(EnvBypass, "")
	backing := &countingStore{Store: storage.NewMemory()}
	resolver := NewResolver(testConfig(), filepath.Join(t.TempDir(), "workspace"))
	return NewGuard(backing, resolver), backing, resolver
}

func TestGuardDeniesChainOutsideAllowList(t *testing.T) {
	g, backing, _ := newTestGuard(t)
	ctx := context.Background()

	_, err := g.AppendBlock(ctx, "vault", ledger.BlockData{
		Type: ledger.TypeVault, Content: "secret", Tags: []string{}, KeyID: "k",
	})
	require.Error(t, err)
	assert.Equal(t, ledger.CodeWorkspaceDenied, ledger.CodeOf(err))
	assert.True(t, errors.Is(err, ErrDenied))

	_, err = g.ReadChain(ctx, "vault", storage.ReadOptions{})
	assert.Equal(t, ledger.CodeWorkspaceDenied, ledger.CodeOf(err))

	_, err = g.LastBlock(ctx, "vault")
	assert.Equal(t, ledger.CodeWorkspaceDenied, ledger.CodeOf(err))

	_, err = g.ChainStats(ctx, "vault")
	assert.Equal(t, ledger.CodeWorkspaceDenied, ledger.CodeOf(err))

	_, err = g.GetBlock(ctx, "vault", 0)
	assert.Equal(t, ledger.CodeWorkspaceDenied, ledger.CodeOf(err))

	assert.Zero(t, backing.calls, "denied operations must perform no I/O")
}

func TestGuardStampsWorkspaceTags(t *testing.T) {
	g, _, _ := newTestGuard(t)
	ctx := context.Background()

	b, err := g.AppendBlock(ctx, "journal", ledger.BlockData{
		Type: ledger.TypeJournal, Content: "note", Tags: []string{"mood", "ws:work"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"mood", "ws:work"}, b.Data.Tags, "tags must be unioned without duplicates")

	b2, err := g.AppendBlock(ctx, "journal", ledger.BlockData{
		Type: ledger.TypeJournal, Content: "another", Tags: []string{},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ws:work"}, b2.Data.Tags)
}

func TestGuardAllowsGlobFamily(t *testing.T) {
	g, _, _ := newTestGuard(t)
	_, err := g.AppendBlock(context.Background(), "proj-alpha", ledger.BlockData{
		Type: ledger.TypeJournal, Content: "kickoff", Tags: []string{},
	})
	assert.NoError(t, err)
}

func TestGuardListChainsFilters(t *testing.T) {
	g, backing, _ := newTestGuard(t)
	ctx := context.Background()

	for _, chain := range []string{"journal", "vault", "proj-alpha"} {
		_, err := backing.Store.AppendBlock(ctx, chain, ledger.BlockData{
			Type: ledger.TypeJournal, Content: "x", Tags: []string{},
		})
		require.NoError(t, err)
	}

	chains, err := g.ListChains(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"journal", "proj-alpha"}, chains)
}

func TestGuardEnvOverrideSwitchesWorkspace(t *testing.T) {
	g, _, _ := newTestGuard(t)
	ctx := context.Background()

	t.Setenv(EnvWorkspace, "ops")
	b, err := g.AppendBlock(ctx, "vault", ledger.BlockData{
		Type: ledger.TypeVault, Content: "ciphertext", Tags: []string{}, KeyID: "api",
	})
	require.NoError(t, err)
	assert.Contains(t, b.Data.Tags, "ws:ops")

	_, err = g.AppendBlock(ctx, "proj-alpha", ledger.BlockData{
		Type: ledger.TypeJournal, Content: "x", Tags: []string{},
	})
	assert.Equal(t, ledger.CodeWorkspaceDenied, ledger.CodeOf(err))
}

func TestGuardBypassDisablesEnforcement(t *testing.T) {
	g, _, _ := newTestGuard(t)
	ctx := context.Background()

	t.Setenv(EnvBypass, "1")
	b, err := g.AppendBlock(ctx, "vault", ledger.BlockData{
		Type: ledger.TypeVault, Content: "ciphertext", Tags: []string{}, KeyID: "api",
	})
	require.NoError(t, err)
	assert.Empty(t, b.Data.Tags, "bypassed writes are not tag-stamped")
}

func TestGuardUndefinedWorkspaceIsError(t *testing.T) {
	g, _, _ := newTestGuard(t)
	t.Setenv(EnvWorkspace, "phantom")

	_, err := g.AppendBlock(context.Background(), "journal", ledger.BlockData{
		Type: ledger.TypeJournal, Content: "x", Tags: []string{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not defined")
}

func TestResolverPriority(t *testing.T) {
	_, _, resolver := newTestGuard(t)

	// Configured default applies when nothing else is set.
	assert.Equal(t, "work", resolver.Active())

	// Persisted selection beats the default.
	require.NoError(t, resolver.Select("ops"))
	assert.Equal(t, "ops", resolver.Active())

	// Environment beats the selection file.
	t.Setenv(EnvWorkspace, "work")
	assert.Equal(t, "work", resolver.Active())
}

func TestResolverSelectRejectsUndefined(t *testing.T) {
	_, _, resolver := newTestGuard(t)
	assert.Error(t, resolver.Select("phantom"))
}
