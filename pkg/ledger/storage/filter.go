package storage

import "github.com/mnemo-ai/mnemo/pkg/ledger"

// filterBlocks applies ReadOptions query-side, over an already-read
// chain. Both backends share it so their filter semantics cannot drift.
func filterBlocks(blocks []*ledger.Block, opts ReadOptions) []*ledger.Block {
	out := make([]*ledger.Block, 0, len(blocks))
	for _, b := range blocks {
		if opts.Type != "" && b.Data.Type != opts.Type {
			continue
		}
		if !hasAllTags(b, opts.Tags) {
			continue
		}
		if !opts.Since.IsZero() || !opts.Until.IsZero() {
			ts, err := b.Time()
			if err != nil {
				continue
			}
			if !opts.Since.IsZero() && ts.Before(opts.Since) {
				continue
			}
			if !opts.Until.IsZero() && ts.After(opts.Until) {
				continue
			}
		}
		out = append(out, b)
	}
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out
}

func hasAllTags(b *ledger.Block, tags []string) bool {
	for _, tag := range tags {
		if !b.HasTag(tag) {
			return false
		}
	}
	return true
}
