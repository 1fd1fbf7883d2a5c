// Package main provides the mnemo CLI, a local-first append-only
// memory ledger. Every write becomes a hash-linked block on a named
// chain; nothing is ever edited or deleted in place.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
