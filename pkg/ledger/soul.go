package ledger

import (
	"fmt"
	"time"
)

// SoulResult is the outcome of validating a block against the SOUL
// rules. Errors holds one entry per violated category; callers surface
// every string.
type SoulResult struct {
	Valid  bool
	Errors []string
}

// ValidateAgainstSoul checks a block against the structural and policy
// rules every accepted block must satisfy, relative to its immediate
// predecessor (nil for genesis). Deterministic, no side effects.
//
// Categories, in order: digest formats, chain linkage, index
// sequencing, timestamp validity and monotonicity, content, tags,
// type-specific payload shape. Independent violations are all
// collected; within a category only the first is reported.
func ValidateAgainstSoul(b *Block, prev *Block) SoulResult {
	var errs []string

	if !IsHexDigest(b.Hash) {
		errs = append(errs, fmt.Sprintf("hash %q is not a 64-char hex digest", b.Hash))
	}
	if b.PrevHash != ZeroHash && !IsHexDigest(b.PrevHash) {
		errs = append(errs, fmt.Sprintf("prev_hash %q is not a 64-char hex digest", b.PrevHash))
	}

	if prev == nil {
		if b.PrevHash != ZeroHash {
			errs = append(errs, "genesis block prev_hash must be the all-zero sentinel")
		}
	} else if b.PrevHash != prev.Hash {
		errs = append(errs, fmt.Sprintf("prev_hash %s does not match previous block hash %s", b.PrevHash, prev.Hash))
	}

	switch {
	case prev == nil && b.Index != 0:
		errs = append(errs, fmt.Sprintf("genesis block index must be 0, got %d", b.Index))
	case prev != nil && b.Index != prev.Index+1:
		errs = append(errs, fmt.Sprintf("index %d does not follow previous index %d", b.Index, prev.Index))
	}

	ts, err := b.Time()
	if err != nil {
		errs = append(errs, fmt.Sprintf("timestamp %q is not a valid RFC 3339 instant", b.Timestamp))
	} else if prev != nil {
		if prevTS, prevErr := prev.Time(); prevErr == nil && ts.Before(prevTS) {
			errs = append(errs, fmt.Sprintf("timestamp %s is before previous block timestamp %s", b.Timestamp, prev.Timestamp))
		}
	}

	if isBlank(b.Data.Content) {
		errs = append(errs, "content must be a non-empty string")
	}
	if b.Data.Tags == nil {
		errs = append(errs, "tags must be an array (possibly empty), not null")
	}

	if err := validatePayload(&b.Data); err != nil {
		errs = append(errs, err.Error())
	}

	return SoulResult{Valid: len(errs) == 0, Errors: errs}
}

// validatePayload enforces the type-specific shape of the tagged
// payload union, exhaustively over the known block types.
func validatePayload(d *BlockData) error {
	switch d.Type {
	case TypeJournal, TypeAsk, TypeDecision, TypeSystem:
		return nil
	case TypeVault:
		if d.KeyID == "" {
			return fmt.Errorf("vault block requires a key_id")
		}
		return nil
	case TypeTrade:
		if d.Agent == "" {
			return fmt.Errorf("trade block requires an agent")
		}
		return nil
	case TypeShareManifest:
		if len(d.Manifest) == 0 {
			return fmt.Errorf("share_manifest block requires a manifest")
		}
		return nil
	case "":
		return fmt.Errorf("block data has no type")
	default:
		// Unknown types are accepted so newer writers do not brick
		// older readers; the envelope rules above still apply.
		return nil
	}
}

// MonotonicAfter reports whether ts is a valid instant not earlier than
// the previous block's. Exposed for write-path pre-checks.
func MonotonicAfter(ts string, prev *Block) bool {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return false
	}
	if prev == nil {
		return true
	}
	pt, err := prev.Time()
	if err != nil {
		return false
	}
	return !t.Before(pt)
}
