package chainfile

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/mnemo-ai/mnemo/pkg/ledger"
)

// CommitHook is a fallible, fire-and-forget callback run after a block
// has been durably written. It exists for auxiliary side effects such
// as version-control snapshotting; the store swallows its errors, so a
// hook must never be relied on for durability.
type CommitHook interface {
	AfterAppend(ctx context.Context, block *ledger.Block, path string) error
}

// GitSnapshot commits every appended block file into a git repository
// rooted at the chain base path, giving each append a forensic trail
// without making git a durability dependency.
type GitSnapshot struct {
	dir string
}

func NewGitSnapshot(dir string) *GitSnapshot {
	return &GitSnapshot{dir: dir}
}

func (g *GitSnapshot) AfterAppend(ctx context.Context, block *ledger.Block, path string) error {
	if err := g.run(ctx, "add", "--", path); err != nil {
		return err
	}
	msg := fmt.Sprintf("mnemo: %s #%d", block.Chain, block.Index)
	return g.run(ctx, "commit", "--no-verify", "-m", msg, "--", path)
}

func (g *GitSnapshot) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s: %w, stderr: %s", args[0], err, stderr.String())
	}
	return nil
}

// HookFunc adapts a plain function to the CommitHook interface.
type HookFunc func(ctx context.Context, block *ledger.Block, path string) error

func (f HookFunc) AfterAppend(ctx context.Context, block *ledger.Block, path string) error {
	return f(ctx, block, path)
}
