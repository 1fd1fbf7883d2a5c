package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashDomain separates block digests from any other SHA-256 use in the
// ecosystem. The version suffix leaves room for algorithm migration.
const hashDomain = "mnemo/block/v1"

// hashEnvelope is the canonical serialization input: every block field
// except the hash itself, in fixed order. Struct-based JSON encoding is
// deterministic (fields in declaration order, map keys sorted), so two
// blocks with equal fields always digest identically.
type hashEnvelope struct {
	Index     uint64    `json:"index"`
	Chain     string    `json:"chain"`
	Timestamp string    `json:"timestamp"`
	Data      BlockData `json:"data"`
	PrevHash  string    `json:"prev_hash"`
}

// ComputeHash digests the block-minus-hash. Format:
// SHA256(domain + 0x00 + canonicalJSON); the null byte prevents
// domain/payload boundary ambiguity.
func ComputeHash(b *Block) (string, error) {
	env := hashEnvelope{
		Index:     b.Index,
		Chain:     b.Chain,
		Timestamp: b.Timestamp,
		Data:      b.Data,
		PrevHash:  b.PrevHash,
	}
	if env.Data.Tags == nil {
		env.Data.Tags = []string{}
	}
	canonical, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("ledger: canonical marshal: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(hashDomain))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyBlock recomputes the expected hash from the block's own fields
// and compares it to the stored one. Any tampering with any hashed
// field flips the result.
func VerifyBlock(b *Block) bool {
	want, err := ComputeHash(b)
	if err != nil {
		return false
	}
	return want == b.Hash
}
