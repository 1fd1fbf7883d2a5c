//go:build unix

package chainfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mnemo-ai/mnemo/pkg/ledger"
)

func TestAppendFailsWhileChainLocked(t *testing.T) {
	s := newTestStore(t)
	appendN(t, s, "journal", 1)

	chainDir := filepath.Join(s.BasePath(), "journal")
	unlock, err := s.locker.lock(chainDir)
	if err != nil {
		t.Fatalf("taking the chain lock failed: %v", err)
	}
	defer unlock()

	_, err = s.AppendBlock(context.Background(), "journal", ledger.BlockData{
		Type: ledger.TypeJournal, Content: "blocked", Tags: []string{},
	})
	if ledger.CodeOf(err) != ledger.CodeChainLocked {
		t.Errorf("Expected CHAIN_LOCKED while lock is held, got %v", err)
	}
}

func TestLockReleaseAllowsNextAppend(t *testing.T) {
	s := newTestStore(t)
	appendN(t, s, "journal", 1)

	chainDir := filepath.Join(s.BasePath(), "journal")
	unlock, err := s.locker.lock(chainDir)
	if err != nil {
		t.Fatalf("taking the chain lock failed: %v", err)
	}
	unlock()

	appendN(t, s, "journal", 1)

	if _, err := os.Stat(filepath.Join(chainDir, lockFileName)); err != nil {
		t.Errorf("Expected lock file to persist between appends: %v", err)
	}
}
