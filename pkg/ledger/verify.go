package ledger

// ChainReport is the outcome of re-validating a whole chain.
// BrokenAt is the first failing index; -1 when the chain is intact.
type ChainReport struct {
	Valid      bool
	BrokenAt   int
	SoulErrors []string
}

// VerifyChain walks blocks in index order, re-running SOUL validation
// and hash verification at every step. It stops at the first failure so
// downstream tooling knows exactly how much of the chain to trust. An
// empty chain is trivially valid.
func VerifyChain(blocks []*Block) ChainReport {
	var prev *Block
	for i, b := range blocks {
		if res := ValidateAgainstSoul(b, prev); !res.Valid {
			return ChainReport{BrokenAt: i, SoulErrors: res.Errors}
		}
		if !VerifyBlock(b) {
			return ChainReport{BrokenAt: i, SoulErrors: []string{"stored hash does not match recomputed digest"}}
		}
		prev = b
	}
	return ChainReport{Valid: true, BrokenAt: -1}
}
