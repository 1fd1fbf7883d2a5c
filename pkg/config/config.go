// Package config loads mnemo's configuration file. Configuration is an
// explicitly constructed value passed to the components that need it:
// it is loaded once per process invocation and never cached in package
// state.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Workspace is a named access profile: which chains it may touch and
// which tags get stamped onto its writes.
type Workspace struct {
	// Chains are allow-list entries; "*" (or any glob pattern) widens
	// the list. Empty plus IncludeDefaults covers the built-in chains.
	Chains []string `yaml:"chains"`
	// IncludeDefaults adds the baked-in default chains to the list.
	IncludeDefaults bool `yaml:"include_defaults"`
	// Tags are unioned into every block written under this workspace.
	Tags []string `yaml:"tags"`
}

// Config is the full on-disk configuration.
type Config struct {
	BasePath         string               `yaml:"base_path"`
	Backend          string               `yaml:"backend"`
	GitSnapshots     bool                 `yaml:"git_snapshots"`
	DefaultWorkspace string               `yaml:"default_workspace"`
	Workspaces       map[string]Workspace `yaml:"workspaces"`
}

// DefaultDir is mnemo's home directory, ~/.mnemo.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".mnemo"), nil
}

// DefaultPath is the default configuration file location.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns the configuration used when no file exists: file
// backend under ~/.mnemo/chains with a single wide-open workspace.
func Default() (*Config, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return defaultConfig(dir), nil
}

func defaultConfig(dir string) *Config {
	return &Config{
		BasePath:         filepath.Join(dir, "chains"),
		Backend:          "file",
		DefaultWorkspace: "default",
		Workspaces: map[string]Workspace{
			"default": {Chains: []string{"*"}, IncludeDefaults: true},
		},
	}
}

// Load reads the configuration from path, or from the default location
// when path is empty. A missing file yields the defaults; a malformed
// file is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default()
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Backend == "file" && c.BasePath == "" {
		return fmt.Errorf("config: file backend requires base_path")
	}
	if c.DefaultWorkspace != "" {
		if _, ok := c.Workspaces[c.DefaultWorkspace]; !ok {
			return fmt.Errorf("config: default workspace %q is not defined", c.DefaultWorkspace)
		}
	}
	return nil
}

// SelectionPath is where the persisted "current workspace" choice
// lives, next to the configuration file.
func SelectionPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspace"), nil
}
