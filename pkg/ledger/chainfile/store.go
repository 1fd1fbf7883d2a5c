// Package chainfile is the file-backed persistence engine for mnemo
// chains. Each chain is a directory under the base path holding one
// pretty-printed JSON file per block, named by zero-padded index so
// lexicographic order equals index order. Appends are crash-safe:
// the final filename only ever appears fully written.
package chainfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mnemo-ai/mnemo/pkg/ledger"
)

var ErrNotFound = errors.New("chainfile: block not found")

const blockExt = ".json"

// sensitiveChains are created with owner-only permissions.
var sensitiveChains = map[string]bool{
	"vault":      true,
	"credential": true,
}

// Store persists blocks for many chains under one base directory.
// It is the sole write path; all other packages reach disk through it.
type Store struct {
	basePath string
	hook     CommitHook
	locker   chainLocker
}

// Option configures a Store.
type Option func(*Store)

// WithCommitHook installs a best-effort post-append hook. Hook failures
// are logged and swallowed; they never fail the append.
func WithCommitHook(h CommitHook) Option {
	return func(s *Store) { s.hook = h }
}

// New creates a store rooted at basePath. The directory is created
// lazily on first append, not here.
func New(basePath string, opts ...Option) (*Store, error) {
	if basePath == "" {
		return nil, fmt.Errorf("chainfile: base path cannot be empty")
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("chainfile: resolve base path: %w", err)
	}
	s := &Store{basePath: abs, locker: newChainLocker()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// BasePath returns the absolute root of the chain tree.
func (s *Store) BasePath() string { return s.basePath }

// AppendBlock creates, validates, and durably writes the next block of
// a chain. The chain directory is created on demand; an advisory
// per-chain lock turns cross-process append races into a clean
// CHAIN_LOCKED failure instead of silent clobbering.
func (s *Store) AppendBlock(ctx context.Context, chain string, data ledger.BlockData) (*ledger.Block, error) {
	if err := validateChainName(chain); err != nil {
		return nil, ledger.NewStoreError(ledger.CodeAppendFailed, chain, err)
	}

	dir := s.chainDir(chain)
	if err := os.MkdirAll(dir, dirMode(chain)); err != nil {
		return nil, ledger.NewStoreError(ledger.CodeDirCreateFailed, chain, err)
	}

	unlock, err := s.locker.lock(dir)
	if err != nil {
		return nil, ledger.NewStoreError(ledger.CodeChainLocked, chain, err)
	}
	defer unlock()

	prev, err := s.lastBlockLocked(chain)
	if err != nil {
		return nil, err
	}

	block, err := ledger.NewBlock(chain, data, prev)
	if err != nil {
		return nil, ledger.NewStoreError(ledger.CodeAppendFailed, chain, err)
	}

	if res := ledger.ValidateAgainstSoul(block, prev); !res.Valid {
		return nil, ledger.NewStoreError(ledger.CodeSoulInvalid, chain,
			fmt.Errorf("soul validation failed: %s", strings.Join(res.Errors, "; ")))
	}

	raw, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		return nil, ledger.NewStoreError(ledger.CodeAppendFailed, chain, err)
	}

	path := filepath.Join(dir, blockFileName(block.Index))
	if err := writeFileAtomic(path, raw, fileMode(chain)); err != nil {
		return nil, ledger.NewStoreError(ledger.CodeAppendFailed, chain, err)
	}

	if s.hook != nil {
		if err := s.hook.AfterAppend(ctx, block, path); err != nil {
			slog.Warn("chainfile: post-append hook failed", "chain", chain, "index", block.Index, "err", err)
		}
	}
	return block, nil
}

// ReadChain returns all parseable blocks of a chain in index order.
// Files that fail to parse are skipped with a debug log; this tolerant
// path is for recall and status, never for integrity verification.
func (s *Store) ReadChain(_ context.Context, chain string) ([]*ledger.Block, error) {
	if err := validateChainName(chain); err != nil {
		return nil, ledger.NewStoreError(ledger.CodeReadChainFailed, chain, err)
	}
	files, err := s.blockFiles(chain)
	if err != nil {
		return nil, err
	}
	blocks := make([]*ledger.Block, 0, len(files))
	for _, name := range files {
		path := filepath.Join(s.chainDir(chain), name)
		b, err := readBlockFile(path)
		if err != nil {
			slog.Debug("chainfile: skipping unreadable block file", "path", path, "err", err)
			continue
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// ListChains enumerates the chain directories under the base path.
// A missing base path means no chains yet.
func (s *Store) ListChains(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.basePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, ledger.NewStoreError(ledger.CodeReadChainFailed, "", err)
	}
	var chains []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			chains = append(chains, e.Name())
		}
	}
	sort.Strings(chains)
	return chains, nil
}

// ChainStats summarizes a chain from its tolerant read.
func (s *Store) ChainStats(ctx context.Context, chain string) (ledger.Stats, error) {
	blocks, err := s.ReadChain(ctx, chain)
	if err != nil {
		return ledger.Stats{}, err
	}
	stats := ledger.Stats{Blocks: len(blocks)}
	if len(blocks) > 0 {
		stats.First = blocks[0].Timestamp
		stats.Last = blocks[len(blocks)-1].Timestamp
	}
	return stats, nil
}

// LastBlock resolves the highest-indexed block of a chain, or nil for
// an empty or missing chain. Unlike ReadChain it is strict: the append
// path depends on it, so a corrupt last file is an error, not a skip.
func (s *Store) LastBlock(_ context.Context, chain string) (*ledger.Block, error) {
	if err := validateChainName(chain); err != nil {
		return nil, ledger.NewStoreError(ledger.CodeReadChainFailed, chain, err)
	}
	return s.lastBlockLocked(chain)
}

// GetBlock reads a single block by index. Returns ErrNotFound when the
// chain or index does not exist.
func (s *Store) GetBlock(_ context.Context, chain string, index uint64) (*ledger.Block, error) {
	if err := validateChainName(chain); err != nil {
		return nil, ledger.NewStoreError(ledger.CodeReadChainFailed, chain, err)
	}
	path := filepath.Join(s.chainDir(chain), blockFileName(index))
	b, err := readBlockFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ledger.NewStoreError(ledger.CodeBlockNotFound, chain, ErrNotFound)
	}
	if err != nil {
		return nil, ledger.NewStoreError(ledger.CodeReadChainFailed, chain, err)
	}
	return b, nil
}

func (s *Store) lastBlockLocked(chain string) (*ledger.Block, error) {
	files, err := s.blockFiles(chain)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	path := filepath.Join(s.chainDir(chain), files[len(files)-1])
	b, err := readBlockFile(path)
	if err != nil {
		return nil, ledger.NewStoreError(ledger.CodeReadChainFailed, chain,
			fmt.Errorf("last block %s: %w", filepath.Base(path), err))
	}
	return b, nil
}

// blockFiles lists the block filenames of a chain in index order.
// A missing chain directory is an empty chain, not an error.
func (s *Store) blockFiles(chain string) ([]string, error) {
	entries, err := os.ReadDir(s.chainDir(chain))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, ledger.NewStoreError(ledger.CodeReadChainFailed, chain, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != blockExt {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

func (s *Store) chainDir(chain string) string {
	return filepath.Join(s.basePath, chain)
}

func readBlockFile(path string) (*ledger.Block, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var b ledger.Block
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return &b, nil
}

func blockFileName(index uint64) string {
	return fmt.Sprintf("%06d%s", index, blockExt)
}

// validateChainName rejects names that would escape the base directory
// or collide with the store's own bookkeeping entries.
func validateChainName(chain string) error {
	if chain == "" {
		return fmt.Errorf("chain name cannot be empty")
	}
	if strings.ContainsAny(chain, "/\\") {
		return fmt.Errorf("chain name %q contains a path separator", chain)
	}
	if strings.HasPrefix(chain, ".") {
		return fmt.Errorf("chain name %q cannot start with a dot", chain)
	}
	return nil
}

func dirMode(chain string) os.FileMode {
	if sensitiveChains[chain] {
		return 0o700
	}
	return 0o750
}

func fileMode(chain string) os.FileMode {
	if sensitiveChains[chain] {
		return 0o600
	}
	return 0o640
}
