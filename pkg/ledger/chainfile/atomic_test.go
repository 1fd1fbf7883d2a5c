package chainfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "000000.json")

	if err := writeFileAtomic(path, []byte(`{"a":1}`), 0o640); err != nil {
		t.Fatalf("writeFileAtomic failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("Expected payload to round-trip, got %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the final file, got %d entries", len(entries))
	}
}

func TestWriteFileAtomicFailureLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	// Target inside a directory that does not exist: the exclusive
	// create fails before anything becomes visible.
	path := filepath.Join(dir, "missing", "000000.json")

	if err := writeFileAtomic(path, []byte("x"), 0o640); err == nil {
		t.Fatal("Expected writeFileAtomic to fail")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no files after failed write, got %d", len(entries))
	}
}
