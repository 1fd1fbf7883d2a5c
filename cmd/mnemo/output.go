package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mnemo-ai/mnemo/pkg/ledger"
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printBlock renders one block as a two-line text entry:
// index, timestamp, type and tags on the first line, content below.
func printBlock(w io.Writer, b *ledger.Block) {
	meta := fmt.Sprintf("#%d  %s  %s", b.Index, b.Timestamp, b.Data.Type)
	if len(b.Data.Tags) > 0 {
		meta += "  [" + strings.Join(b.Data.Tags, ", ") + "]"
	}
	fmt.Fprintln(w, headerStyle.Render(meta))
	content := b.Data.Content
	if b.Data.Encrypted {
		content = "(encrypted)"
	}
	fmt.Fprintln(w, "  "+content)
}
