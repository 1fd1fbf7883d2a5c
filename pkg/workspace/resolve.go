package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mnemo-ai/mnemo/pkg/config"
)

// Environment overrides, read at call time so operators can flip them
// without restarting anything that caches a resolver.
const (
	// EnvWorkspace overrides the active workspace selection.
	EnvWorkspace = "MNEMO_WORKSPACE"
	// EnvBypass disables workspace enforcement entirely when set to "1".
	EnvBypass = "MNEMO_RLS_BYPASS"
)

// Resolver determines the active workspace. Priority: environment
// override, then the persisted selection file, then the configured
// default.
type Resolver struct {
	cfg           *config.Config
	selectionPath string
}

// NewResolver builds a resolver over the loaded configuration.
// selectionPath may be empty to disable persisted selection.
func NewResolver(cfg *config.Config, selectionPath string) *Resolver {
	return &Resolver{cfg: cfg, selectionPath: selectionPath}
}

// Resolve returns the compiled policy of the active workspace. An
// undefined workspace name, wherever it came from, is a configuration
// error.
func (r *Resolver) Resolve() (*Policy, error) {
	name := r.activeName()
	ws, ok := r.cfg.Workspaces[name]
	if !ok {
		return nil, fmt.Errorf("workspace: %q is not defined in configuration", name)
	}
	return NewPolicy(name, ws)
}

func (r *Resolver) activeName() string {
	if name := os.Getenv(EnvWorkspace); name != "" {
		return name
	}
	if r.selectionPath != "" {
		if raw, err := os.ReadFile(r.selectionPath); err == nil {
			if name := strings.TrimSpace(string(raw)); name != "" {
				return name
			}
		}
	}
	return r.cfg.DefaultWorkspace
}

// Select persists a workspace choice for subsequent invocations.
func (r *Resolver) Select(name string) error {
	if _, ok := r.cfg.Workspaces[name]; !ok {
		return fmt.Errorf("workspace: %q is not defined in configuration", name)
	}
	if r.selectionPath == "" {
		return errors.New("workspace: no selection file configured")
	}
	if err := os.MkdirAll(filepath.Dir(r.selectionPath), 0o750); err != nil {
		return fmt.Errorf("workspace: create selection dir: %w", err)
	}
	tmp := r.selectionPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(name+"\n"), 0o600); err != nil {
		return fmt.Errorf("workspace: write selection: %w", err)
	}
	if err := os.Rename(tmp, r.selectionPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("workspace: persist selection: %w", err)
	}
	return nil
}

// Active returns the name the resolver would use right now.
func (r *Resolver) Active() string { return r.activeName() }

func bypassed() bool {
	return os.Getenv(EnvBypass) == "1"
}
