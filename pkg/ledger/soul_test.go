package ledger

import (
	"strings"
	"testing"
)

func TestValidateAgainstSoulAcceptsHealthyChain(t *testing.T) {
	blocks := testChain(t, 3)
	var prev *Block
	for i, b := range blocks {
		res := ValidateAgainstSoul(b, prev)
		if !res.Valid {
			t.Errorf("Block %d unexpectedly invalid: %v", i, res.Errors)
		}
		prev = b
	}
}

func TestValidateAgainstSoulViolations(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(b, prev *Block) (*Block, *Block)
		contains string
	}{
		{
			name: "genesis with non-zero prev_hash",
			mutate: func(b, prev *Block) (*Block, *Block) {
				b.PrevHash = strings.Repeat("a", 64)
				return b, nil
			},
			contains: "all-zero sentinel",
		},
		{
			name: "broken linkage",
			mutate: func(b, prev *Block) (*Block, *Block) {
				b.PrevHash = strings.Repeat("b", 64)
				return b, prev
			},
			contains: "does not match previous block hash",
		},
		{
			name: "index gap",
			mutate: func(b, prev *Block) (*Block, *Block) {
				b.Index = prev.Index + 2
				return b, prev
			},
			contains: "does not follow previous index",
		},
		{
			name: "malformed hash",
			mutate: func(b, prev *Block) (*Block, *Block) {
				b.Hash = "nope"
				return b, prev
			},
			contains: "not a 64-char hex digest",
		},
		{
			name: "unparseable timestamp",
			mutate: func(b, prev *Block) (*Block, *Block) {
				b.Timestamp = "yesterday"
				return b, prev
			},
			contains: "not a valid RFC 3339 instant",
		},
		{
			name: "timestamp regression",
			mutate: func(b, prev *Block) (*Block, *Block) {
				b.Timestamp = "2020-01-01T00:00:00Z"
				return b, prev
			},
			contains: "before previous",
		},
		{
			name: "empty content",
			mutate: func(b, prev *Block) (*Block, *Block) {
				b.Data.Content = "   "
				return b, prev
			},
			contains: "non-empty",
		},
		{
			name: "nil tags",
			mutate: func(b, prev *Block) (*Block, *Block) {
				b.Data.Tags = nil
				return b, prev
			},
			contains: "tags must be an array",
		},
		{
			name: "missing type",
			mutate: func(b, prev *Block) (*Block, *Block) {
				b.Data.Type = ""
				return b, prev
			},
			contains: "no type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := testChain(t, 2)
			b, prev := tt.mutate(blocks[1].Clone(), blocks[0])
			res := ValidateAgainstSoul(b, prev)
			if res.Valid {
				t.Fatal("Expected validation to fail")
			}
			found := false
			for _, e := range res.Errors {
				if strings.Contains(e, tt.contains) {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected an error containing %q, got %v", tt.contains, res.Errors)
			}
		})
	}
}

func TestValidateAgainstSoulCollectsIndependentErrors(t *testing.T) {
	blocks := testChain(t, 2)
	b := blocks[1].Clone()
	b.Data.Content = ""
	b.Data.Tags = nil
	b.Index = 9
	res := ValidateAgainstSoul(b, blocks[0])
	if res.Valid {
		t.Fatal("Expected validation to fail")
	}
	if len(res.Errors) < 3 {
		t.Errorf("Expected at least 3 independent errors, got %d: %v", len(res.Errors), res.Errors)
	}
}

func TestValidatePayloadByType(t *testing.T) {
	tests := []struct {
		name    string
		data    BlockData
		wantErr bool
	}{
		{"journal ok", BlockData{Type: TypeJournal, Content: "x", Tags: []string{}}, false},
		{"vault missing key_id", BlockData{Type: TypeVault, Content: "x", Tags: []string{}, Encrypted: true}, true},
		{"vault ok", BlockData{Type: TypeVault, Content: "x", Tags: []string{}, KeyID: "api-key"}, false},
		{"trade missing agent", BlockData{Type: TypeTrade, Content: "x", Tags: []string{}}, true},
		{"trade ok", BlockData{Type: TypeTrade, Content: "x", Tags: []string{}, Agent: "peer-1"}, false},
		{"manifest missing", BlockData{Type: TypeShareManifest, Content: "x", Tags: []string{}}, true},
		{"manifest ok", BlockData{Type: TypeShareManifest, Content: "x", Tags: []string{}, Manifest: map[string]string{"f": "h"}}, false},
		{"unknown type tolerated", BlockData{Type: "hologram", Content: "x", Tags: []string{}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePayload(&tt.data)
			if tt.wantErr && err == nil {
				t.Error("Expected a payload error, got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no payload error, got %v", err)
			}
		})
	}
}

func TestMonotonicAfter(t *testing.T) {
	blocks := testChain(t, 2)
	if !MonotonicAfter(blocks[1].Timestamp, blocks[0]) {
		t.Error("Expected later timestamp to be monotonic")
	}
	if MonotonicAfter("2019-01-01T00:00:00Z", blocks[0]) {
		t.Error("Expected earlier timestamp to be rejected")
	}
	if MonotonicAfter("garbage", nil) {
		t.Error("Expected unparseable timestamp to be rejected")
	}
}
