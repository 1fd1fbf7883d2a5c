// Package ledger defines the block model for mnemo's append-only memory
// chains: immutable, hash-linked records grouped into named chains. It
// computes and checks block hashes, links blocks to their predecessors,
// and validates blocks against the structural rules every chain must
// satisfy (SOUL validation).
package ledger

import (
	"strings"
	"time"
)

// ZeroHash is the prev_hash sentinel carried by every genesis block.
// It is a convention, not the digest of any real block.
const ZeroHash = "0000000000000000000000000000000000000000000000000000000000000000"

// BlockType classifies the payload carried by a block.
type BlockType string

const (
	TypeJournal       BlockType = "journal"
	TypeAsk           BlockType = "ask"
	TypeDecision      BlockType = "decision"
	TypeVault         BlockType = "vault"
	TypeTrade         BlockType = "trade"
	TypeShareManifest BlockType = "share_manifest"
	TypeSystem        BlockType = "system"
)

// BlockData is the tagged payload of a block. Content is the only field
// the semantic layers (recall, embeddings) ever look at; the remaining
// fields are type-specific and omitted from JSON when unset.
type BlockData struct {
	Type    BlockType `json:"type"`
	Content string    `json:"content"`
	Tags    []string  `json:"tags"`

	// Vault fields.
	Encrypted bool   `json:"encrypted,omitempty"`
	KeyID     string `json:"key_id,omitempty"`
	Revoked   bool   `json:"revoked,omitempty"`

	// Ask/decision provenance.
	Provider    string   `json:"provider,omitempty"`
	Agent       string   `json:"agent,omitempty"`
	ContextRefs []string `json:"context_refs,omitempty"`

	// Share/trade payloads.
	Manifest map[string]string `json:"manifest,omitempty"`
}

// Block is the atomic, immutable unit of memory. Timestamp is kept as
// the raw RFC 3339 string so the stored bytes and the hashed bytes can
// never drift apart through re-formatting.
type Block struct {
	Index     uint64    `json:"index"`
	Chain     string    `json:"chain"`
	Timestamp string    `json:"timestamp"`
	Data      BlockData `json:"data"`
	PrevHash  string    `json:"prev_hash"`
	Hash      string    `json:"hash"`
}

var timeNow = time.Now // injected for testability

// NewBlock builds the next block of a chain from its payload and the
// current last block (nil for a fresh chain). Pure apart from reading
// the clock: no I/O, no mutation of prev.
func NewBlock(chain string, data BlockData, prev *Block) (*Block, error) {
	if data.Tags == nil {
		data.Tags = []string{}
	}
	b := &Block{
		Chain:     chain,
		Timestamp: timeNow().UTC().Format(time.RFC3339Nano),
		Data:      data,
		PrevHash:  ZeroHash,
	}
	if prev != nil {
		b.Index = prev.Index + 1
		b.PrevHash = prev.Hash
	}
	h, err := ComputeHash(b)
	if err != nil {
		return nil, err
	}
	b.Hash = h
	return b, nil
}

// Time parses the block's timestamp. A block written through the append
// path always parses; blocks read from untrusted files may not.
func (b *Block) Time() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, b.Timestamp)
}

// HasTag reports whether the block carries the given tag.
func (b *Block) HasTag(tag string) bool {
	for _, t := range b.Data.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the block so callers can hand blocks out
// of an in-memory store without exposing shared slices.
func (b *Block) Clone() *Block {
	c := *b
	c.Data.Tags = append([]string(nil), b.Data.Tags...)
	if c.Data.Tags == nil {
		c.Data.Tags = []string{}
	}
	c.Data.ContextRefs = append([]string(nil), b.Data.ContextRefs...)
	if b.Data.Manifest != nil {
		c.Data.Manifest = make(map[string]string, len(b.Data.Manifest))
		for k, v := range b.Data.Manifest {
			c.Data.Manifest[k] = v
		}
	}
	return &c
}

// IsHexDigest reports whether s looks like a 256-bit lowercase hex digest.
func IsHexDigest(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}

// Stats summarizes a chain without materializing its blocks for callers
// that only need counts and the covered time range.
type Stats struct {
	Blocks int    `json:"blocks"`
	First  string `json:"first,omitempty"`
	Last   string `json:"last,omitempty"`
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
