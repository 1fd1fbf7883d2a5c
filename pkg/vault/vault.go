// Package vault manages encrypted secrets stored as blocks on the
// vault chain. Deleting a secret never erases history: revocation is
// itself an appended block, and listings simply exclude revoked keys.
package vault

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/mnemo-ai/mnemo/pkg/ledger"
	"github.com/mnemo-ai/mnemo/pkg/ledger/storage"
)

// Chain is the dedicated sensitive chain secrets live on.
const Chain = "vault"

var (
	ErrKeyNotFound = errors.New("vault: key not found")
	ErrKeyRevoked  = errors.New("vault: key has been revoked")
)

// Manager exposes vault semantics over any storage backend. The
// ciphertext handed to Put must already be encrypted; the vault stores
// and chains it but never sees plaintext.
type Manager struct {
	store storage.Store
}

func New(store storage.Store) *Manager {
	return &Manager{store: store}
}

// Put appends a new secret (or a new version of an existing key).
func (m *Manager) Put(ctx context.Context, keyID, ciphertext string, tags []string) (*ledger.Block, error) {
	if tags == nil {
		tags = []string{}
	}
	return m.store.AppendBlock(ctx, Chain, ledger.BlockData{
		Type:      ledger.TypeVault,
		Content:   ciphertext,
		Tags:      tags,
		Encrypted: true,
		KeyID:     keyID,
	})
}

// Revoke appends a revocation marker for a key. The original encrypted
// blocks stay on disk untouched.
func (m *Manager) Revoke(ctx context.Context, keyID string) (*ledger.Block, error) {
	active, err := m.activeByKey(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := active[keyID]; !ok {
		return nil, fmt.Errorf("vault: revoke %q: %w", keyID, ErrKeyNotFound)
	}
	return m.store.AppendBlock(ctx, Chain, ledger.BlockData{
		Type:    ledger.TypeVault,
		Content: fmt.Sprintf("revoked key %s", keyID),
		Tags:    []string{"revoked"},
		KeyID:   keyID,
		Revoked: true,
	})
}

// Get returns the active block for a key. A revoked key reports
// ErrKeyRevoked so callers can distinguish "never existed" from
// "deliberately removed".
func (m *Manager) Get(ctx context.Context, keyID string) (*ledger.Block, error) {
	blocks, err := m.store.ReadChain(ctx, Chain, storage.ReadOptions{Type: ledger.TypeVault})
	if err != nil {
		return nil, err
	}
	var latest *ledger.Block
	revoked := false
	for _, b := range blocks {
		if b.Data.KeyID != keyID {
			continue
		}
		if b.Data.Revoked {
			latest, revoked = nil, true
		} else {
			latest, revoked = b, false
		}
	}
	if latest != nil {
		return latest, nil
	}
	if revoked {
		return nil, fmt.Errorf("vault: get %q: %w", keyID, ErrKeyRevoked)
	}
	return nil, fmt.Errorf("vault: get %q: %w", keyID, ErrKeyNotFound)
}

// Active lists the current (non-revoked) secret blocks in chain order.
func (m *Manager) Active(ctx context.Context) ([]*ledger.Block, error) {
	active, err := m.activeByKey(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*ledger.Block, 0, len(active))
	for _, b := range active {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

// activeByKey replays the vault chain: each key's newest non-revoked
// block wins, and a revocation clears the key until it is re-put.
func (m *Manager) activeByKey(ctx context.Context) (map[string]*ledger.Block, error) {
	blocks, err := m.store.ReadChain(ctx, Chain, storage.ReadOptions{Type: ledger.TypeVault})
	if err != nil {
		return nil, err
	}
	active := make(map[string]*ledger.Block)
	for _, b := range blocks {
		if b.Data.KeyID == "" {
			continue
		}
		if b.Data.Revoked {
			delete(active, b.Data.KeyID)
			continue
		}
		active[b.Data.KeyID] = b
	}
	return active, nil
}
