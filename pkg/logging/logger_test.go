package logging

import (
	"os"
	"strings"
	"testing"
)

func TestNewAtWritesSessionFile(t *testing.T) {
	dir := t.TempDir()
	l, err := NewAt(dir, "test-component")
	if err != nil {
		t.Fatalf("NewAt failed: %v", err)
	}
	defer l.Close()

	l.Infof("hello %s", "world")
	l.Errorf("boom")

	raw, err := os.ReadFile(l.LogPath())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	content := string(raw)
	if !strings.Contains(content, "[test-component] [INFO] hello world") {
		t.Errorf("Expected info entry, got %q", content)
	}
	if !strings.Contains(content, "[ERROR] boom") {
		t.Errorf("Expected error entry, got %q", content)
	}
}

func TestSessionIDStable(t *testing.T) {
	if SessionID() != SessionID() {
		t.Error("Expected session ID to be stable within a process")
	}
	if SessionID() == "" {
		t.Error("Expected non-empty session ID")
	}
}

func TestComponentsShareSessionFile(t *testing.T) {
	dir := t.TempDir()
	a, err := NewAt(dir, "alpha")
	if err != nil {
		t.Fatalf("NewAt failed: %v", err)
	}
	defer a.Close()
	b, err := NewAt(dir, "beta")
	if err != nil {
		t.Fatalf("NewAt failed: %v", err)
	}
	defer b.Close()

	if a.LogPath() != b.LogPath() {
		t.Errorf("Expected shared session file, got %s and %s", a.LogPath(), b.LogPath())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	l, err := NewAt(t.TempDir(), "gamma")
	if err != nil {
		t.Fatalf("NewAt failed: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
}
