// Package config carries the runtime settings for the index server. Settings
// layer as: built-in defaults, then an optional TOML file at the project
// root, then environment, then CLI flags. Later layers win.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/seb1232/cppindex-mcp/ignore"
)

// FileName is the config file looked up under the project root.
const FileName = "cppindex.toml"

// Config is the full runtime configuration.
type Config struct {
	Root             string   `toml:"-"`
	Extensions       []string `toml:"extensions"`
	ExcludePrefixes  []string `toml:"exclude_prefixes"`
	MaxFileSizeBytes int64    `toml:"max_file_size_bytes"`
	DebounceSeconds  float64  `toml:"debounce_seconds"`
	SyncSeconds      float64  `toml:"sync_seconds"`
	MaxResults       int      `toml:"max_results"`
	MaxUsageExamples int      `toml:"max_usage_examples"`
	SnippetContext   int      `toml:"snippet_context"`
	CacheSize        int      `toml:"cache_size"`
	LogLevel         string   `toml:"log_level"`
	LogFile          string   `toml:"log_file"`
	Watch            bool     `toml:"watch"`
}

// Default returns the built-in configuration for a project root.
func Default(root string) Config {
	return Config{
		Root:             root,
		Extensions:       ignore.DefaultExtensions,
		ExcludePrefixes:  ignore.DefaultExcludePrefixes,
		MaxFileSizeBytes: ignore.DefaultMaxFileSizeBytes,
		DebounceSeconds:  2.0,
		SyncSeconds:      0, // periodic consistency sweep disabled by default
		MaxResults:       50,
		MaxUsageExamples: 5,
		SnippetContext:   5,
		CacheSize:        256,
		LogLevel:         "info",
		Watch:            true,
	}
}

// Load builds the configuration for root, merging the TOML file at
// configPath over the defaults. An empty configPath means the default
// location under root; a missing file is not an error.
func Load(root string, configPath string) (Config, error) {
	cfg := Default(root)

	path := configPath
	if path == "" {
		path = filepath.Join(root, FileName)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && configPath == "" {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Debounce returns the change-monitor coalescing window.
func (c Config) Debounce() time.Duration {
	if c.DebounceSeconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.DebounceSeconds * float64(time.Second))
}

// SyncInterval returns the period of the disk/index consistency sweep.
// Zero disables the sweep.
func (c Config) SyncInterval() time.Duration {
	if c.SyncSeconds <= 0 {
		return 0
	}
	return time.Duration(c.SyncSeconds * float64(time.Second))
}
