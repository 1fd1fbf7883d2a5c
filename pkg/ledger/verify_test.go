package ledger

import (
	"errors"
	"testing"
)

func TestVerifyChainEmpty(t *testing.T) {
	report := VerifyChain(nil)
	if !report.Valid {
		t.Error("Expected empty chain to be trivially valid")
	}
	if report.BrokenAt != -1 {
		t.Errorf("Expected BrokenAt -1, got %d", report.BrokenAt)
	}
}

func TestVerifyChainGenesisOnly(t *testing.T) {
	blocks := testChain(t, 1)
	report := VerifyChain(blocks)
	if !report.Valid {
		t.Errorf("Expected genesis-only chain to be valid, got %v", report.SoulErrors)
	}
}

func TestVerifyChainHealthy(t *testing.T) {
	blocks := testChain(t, 5)
	report := VerifyChain(blocks)
	if !report.Valid {
		t.Errorf("Expected healthy chain to be valid, got broken_at=%d %v", report.BrokenAt, report.SoulErrors)
	}
}

func TestVerifyChainTamperedContent(t *testing.T) {
	blocks := testChain(t, 3)
	blocks[1] = blocks[1].Clone()
	blocks[1].Data.Content = "rewritten history"

	report := VerifyChain(blocks)
	if report.Valid {
		t.Fatal("Expected tampered chain to be invalid")
	}
	if report.BrokenAt != 1 {
		t.Errorf("Expected broken_at=1, got %d", report.BrokenAt)
	}
	if len(report.SoulErrors) == 0 {
		t.Error("Expected soul errors to be reported")
	}
}

func TestVerifyChainBrokenLink(t *testing.T) {
	blocks := testChain(t, 4)
	blocks[2] = blocks[2].Clone()
	blocks[2].PrevHash = ZeroHash

	report := VerifyChain(blocks)
	if report.Valid || report.BrokenAt != 2 {
		t.Errorf("Expected broken_at=2, got valid=%v broken_at=%d", report.Valid, report.BrokenAt)
	}
}

func TestStoreErrorCode(t *testing.T) {
	inner := errors.New("disk on fire")
	err := NewStoreError(CodeAppendFailed, "journal", inner)
	if CodeOf(err) != CodeAppendFailed {
		t.Errorf("Expected code %s, got %s", CodeAppendFailed, CodeOf(err))
	}
	if !errors.Is(err, inner) {
		t.Error("Expected StoreError to unwrap to the inner error")
	}
	wrapped := NewStoreError(CodeReadChainFailed, "", inner)
	if CodeOf(wrapped) != CodeReadChainFailed {
		t.Errorf("Expected code %s, got %s", CodeReadChainFailed, CodeOf(wrapped))
	}
	if CodeOf(inner) != "" {
		t.Errorf("Expected empty code for plain error, got %s", CodeOf(inner))
	}
}
