// Package config loads the imagrc.toml configuration consumed by the CLIs
// and the ref layer.
//
// The file sits beside the store base directory: a runtimepath of
// ~/.imag/store reads ~/.imag/imagrc.toml. A missing file yields the
// default configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultHasher is used when ref.hashers.default is not configured.
const DefaultHasher = "sha256"

// Config is the top-level configuration tree.
type Config struct {
	// Editor overrides $EDITOR for entry editing.
	Editor string `toml:"editor"`

	// Ref configures the external-file reference layer.
	Ref RefConfig `toml:"ref"`

	// UI holds terminal output preferences.
	UI UIConfig `toml:"ui"`
}

// RefConfig configures named basepaths and hashing for refs.
type RefConfig struct {
	// Basepaths maps a ref collection name to an absolute directory.
	Basepaths map[string]string `toml:"basepaths"`

	// Hashers selects the content hasher.
	Hashers HasherConfig `toml:"hashers"`
}

// HasherConfig selects hash algorithms for the ref layer.
type HasherConfig struct {
	// Default names the hasher used when the caller does not choose one.
	Default string `toml:"default"`
}

// UIConfig holds optional terminal theming preferences.
type UIConfig struct {
	// Accent is an ANSI color code ("0"-"255") or hex color ("#RRGGBB").
	Accent string `toml:"accent"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Ref: RefConfig{
			Basepaths: map[string]string{},
			Hashers:   HasherConfig{Default: DefaultHasher},
		},
	}
}

// Basepath resolves the directory for a named ref collection.
func (c *Config) Basepath(name string) (string, bool) {
	p, ok := c.Ref.Basepaths[name]
	return p, ok
}

// DefaultHasherName returns the configured default hasher.
func (c *Config) DefaultHasherName() string {
	if c.Ref.Hashers.Default == "" {
		return DefaultHasher
	}
	return c.Ref.Hashers.Default
}

// GetEditor returns the configured editor, falling back to $EDITOR.
func (c *Config) GetEditor() string {
	if c.Editor != "" {
		return c.Editor
	}
	return os.Getenv("EDITOR")
}

// PathFor returns the imagrc.toml path for a store base directory.
func PathFor(storeBase string) string {
	return filepath.Join(filepath.Dir(storeBase), "imagrc.toml")
}

// Load reads the configuration beside the given store base directory. A
// missing file yields the defaults.
func Load(storeBase string) (*Config, error) {
	return LoadFrom(PathFor(storeBase))
}

// LoadFrom reads the configuration from an explicit path. A missing file
// yields the defaults.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
