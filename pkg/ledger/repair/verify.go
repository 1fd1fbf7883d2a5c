// Package repair provides strict chain verification and the quarantine
// strategy for damaged blocks. Unlike the tolerant read path, nothing
// here skips a bad file: the first unreadable, unparseable, or
// rule-breaking block marks the chain broken at that position.
package repair

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mnemo-ai/mnemo/pkg/ledger"
)

// Report is the outcome of a strict verification pass over one chain.
type Report struct {
	Chain    string   `json:"chain"`
	Valid    bool     `json:"valid"`
	BrokenAt int      `json:"broken_at"` // first failing position, -1 when intact
	Blocks   int      `json:"blocks"`    // blocks accepted before the break
	Reason   string   `json:"reason,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// Verify reads every block file of a chain directly, bypassing the
// tolerant reader, and re-runs SOUL validation and hash verification at
// each position against the previously accepted block. It stops at the
// first failure: unreadable file, unparseable JSON, SOUL violation,
// hash mismatch, or an on-disk index that disagrees with the file's
// position. A missing chain directory verifies as an empty, valid chain.
func Verify(basePath, chain string) (*Report, error) {
	files, err := blockFiles(basePath, chain)
	if err != nil {
		return nil, err
	}

	report := &Report{Chain: chain, Valid: true, BrokenAt: -1}
	var prev *ledger.Block
	for i, name := range files {
		path := filepath.Join(basePath, chain, name)
		block, reason := readStrict(path)
		if block == nil {
			return broken(report, i, reason, nil), nil
		}
		if block.Index != uint64(i) {
			return broken(report, i,
				fmt.Sprintf("on-disk index %d disagrees with position %d", block.Index, i), nil), nil
		}
		if res := ledger.ValidateAgainstSoul(block, prev); !res.Valid {
			return broken(report, i, "soul validation failed", res.Errors), nil
		}
		if !ledger.VerifyBlock(block) {
			return broken(report, i, "stored hash does not match recomputed digest", nil), nil
		}
		prev = block
		report.Blocks++
	}
	return report, nil
}

// VerifyAll runs Verify over every chain under the base path.
func VerifyAll(basePath string) ([]*Report, error) {
	entries, err := os.ReadDir(basePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repair: list chains: %w", err)
	}
	var reports []*Report
	for _, e := range entries {
		if !e.IsDir() || e.Name()[0] == '.' {
			continue
		}
		r, err := Verify(basePath, e.Name())
		if err != nil {
			return reports, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func broken(r *Report, at int, reason string, soulErrors []string) *Report {
	r.Valid = false
	r.BrokenAt = at
	r.Reason = reason
	r.Errors = soulErrors
	return r
}

// readStrict parses a block file with unknown fields rejected. Returns
// a nil block plus a human-readable reason on any failure.
func readStrict(path string) (*ledger.Block, string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Sprintf("unreadable file %s: %v", filepath.Base(path), err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var b ledger.Block
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Sprintf("unparseable block file %s: %v", filepath.Base(path), err)
	}
	return &b, ""
}

func blockFiles(basePath, chain string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(basePath, chain))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repair: list chain %s: %w", chain, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}
