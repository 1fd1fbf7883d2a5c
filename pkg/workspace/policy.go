// Package workspace enforces per-workspace access control over the
// storage contract. A workspace is a named allow-list of chains plus a
// set of tags stamped onto every write, so each block stays traceable
// to the workspace that produced it.
package workspace

import (
	"fmt"

	"github.com/gobwas/glob"

	"github.com/mnemo-ai/mnemo/pkg/config"
)

// DefaultChains is the baked-in allow-list a workspace can opt into
// with include_defaults.
var DefaultChains = []string{"journal", "decisions", "ask", "system"}

// Policy is a compiled workspace profile.
type Policy struct {
	Name     string
	Tags     []string
	patterns []glob.Glob
}

// NewPolicy compiles a configured workspace. Entries are glob patterns
// ("*" allows every chain, "proj-*" a family); a plain chain name
// matches only itself.
func NewPolicy(name string, ws config.Workspace) (*Policy, error) {
	p := &Policy{Name: name, Tags: append([]string(nil), ws.Tags...)}
	entries := append([]string(nil), ws.Chains...)
	if ws.IncludeDefaults {
		entries = append(entries, DefaultChains...)
	}
	for _, entry := range entries {
		g, err := glob.Compile(entry)
		if err != nil {
			return nil, fmt.Errorf("workspace: invalid chain pattern %q in %s: %w", entry, name, err)
		}
		p.patterns = append(p.patterns, g)
	}
	return p, nil
}

// Allows reports whether the workspace may touch the given chain.
func (p *Policy) Allows(chain string) bool {
	for _, g := range p.patterns {
		if g.Match(chain) {
			return true
		}
	}
	return false
}
