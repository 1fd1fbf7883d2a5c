package repair

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// quarantineRoot is the dot-directory under the base path holding
// quarantined block files; the store's chain listing ignores it.
const quarantineRoot = ".quarantine"

// Options tunes a repair run.
type Options struct {
	// DryRun reports the plan without touching the filesystem.
	DryRun bool
	// BlockOnly quarantines just the offending block instead of the
	// whole suffix. The remaining chain will not hash-verify past the
	// gap, so this is for manual forensics only.
	BlockOnly bool
}

// Plan describes what a repair run did, or would do under DryRun.
type Plan struct {
	Chain         string   `json:"chain"`
	BrokenAt      int      `json:"broken_at"` // -1 when nothing to repair
	Reason        string   `json:"reason,omitempty"`
	QuarantineDir string   `json:"quarantine_dir,omitempty"`
	Files         []string `json:"files,omitempty"` // filenames to move
	DryRun        bool     `json:"dry_run"`
}

// Repair verifies a chain strictly and quarantines damaged blocks.
// Blocks are moved, never deleted: the quarantine directory preserves
// the forensic evidence. By default the full suffix from broken_at is
// quarantined so the surviving prefix stays a consistent hash chain.
func Repair(basePath, chain string, opts Options) (*Plan, error) {
	report, err := Verify(basePath, chain)
	if err != nil {
		return nil, err
	}
	plan := &Plan{Chain: chain, BrokenAt: report.BrokenAt, Reason: report.Reason, DryRun: opts.DryRun}
	if report.Valid {
		return plan, nil
	}

	files, err := blockFiles(basePath, chain)
	if err != nil {
		return nil, err
	}
	if opts.BlockOnly {
		plan.Files = files[report.BrokenAt : report.BrokenAt+1]
	} else {
		plan.Files = files[report.BrokenAt:]
	}

	runID := fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102T150405Z"), uuid.NewString()[:8])
	plan.QuarantineDir = filepath.Join(basePath, quarantineRoot, chain, runID)

	if opts.DryRun {
		return plan, nil
	}

	if err := os.MkdirAll(plan.QuarantineDir, 0o700); err != nil {
		return nil, fmt.Errorf("repair: create quarantine dir: %w", err)
	}
	for _, name := range plan.Files {
		src := filepath.Join(basePath, chain, name)
		dst := filepath.Join(plan.QuarantineDir, name)
		if err := os.Rename(src, dst); err != nil {
			return plan, fmt.Errorf("repair: quarantine %s: %w", name, err)
		}
	}
	return plan, nil
}
