// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: JSON configuration for the terminal: size, scrollback, and
// the history search index location.

package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

const configName = "raxterm.json"

// Config holds the terminal settings. Zero values mean "use the default";
// Normalize fills them in.
type Config struct {
	// Columns and Rows are the initial size when the host does not
	// dictate one (for example when not attached to a tty).
	Columns int `json:"columns"`
	Rows    int `json:"rows"`

	// Scrollback is the number of history lines retained off screen.
	Scrollback int `json:"scrollback"`

	// SearchIndexPath locates the history search database. Empty
	// disables indexing.
	SearchIndexPath string `json:"search_index_path"`

	// Shell overrides $SHELL for the child process.
	Shell string `json:"shell"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Columns:    80,
		Rows:       24,
		Scrollback: 2000,
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "raxterm", configName), nil
}

// Load reads the config at path, falling back to defaults when the file
// does not exist. An empty path means the default location.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			log.Printf("Config: no user config dir: %v", err)
			return cfg, nil
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes the config as indented JSON, creating the directory.
func Save(path string, cfg Config) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Normalize clamps nonsense values back to the defaults.
func (c *Config) Normalize() {
	def := Default()
	if c.Columns <= 0 {
		c.Columns = def.Columns
	}
	if c.Rows <= 0 {
		c.Rows = def.Rows
	}
	if c.Scrollback < 0 {
		c.Scrollback = def.Scrollback
	}
}
