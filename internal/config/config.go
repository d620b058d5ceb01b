// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and persists the client configuration from
// ~/.cindy/config.toml, with environment variable overrides.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/muesli/termenv"

	"github.com/jeranaias/cindy-tui/internal/util"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds the persisted client settings.
type Config struct {
	// ServerURL is the answering-service base URL.
	ServerURL string `toml:"server_url"`

	// TimeoutSeconds bounds each request (default: 30).
	TimeoutSeconds int `toml:"timeout_seconds"`

	// DarkMode selects the dark palette. Seeded from the terminal
	// background on first run, then persisted on every toggle.
	DarkMode bool `toml:"dark_mode"`

	// HistoryLimit caps the number of transcripts kept on disk.
	HistoryLimit int `toml:"history_limit"`

	// CacheEnabled turns the local answer cache on or off.
	CacheEnabled bool `toml:"cache_enabled"`
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	return &Config{
		ServerURL:      "http://127.0.0.1:5000",
		TimeoutSeconds: 30,
		DarkMode:       termenv.HasDarkBackground(),
		HistoryLimit:   50,
		CacheEnabled:   true,
	}
}

// normalize fills zero values left by a sparse config file.
func (c *Config) normalize() {
	if c.ServerURL == "" {
		c.ServerURL = "http://127.0.0.1:5000"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 50
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the configuration directory, honoring CINDY_CONFIG_DIR.
func Dir() (string, error) {
	if dir := os.Getenv("CINDY_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".cindy"), nil
}

// Path returns the config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file, applying defaults for a missing file and
// environment overrides on top. A malformed file is an error; a missing one
// is not.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		cfg.normalize()
	}

	// Environment beats file.
	if url := os.Getenv("CINDY_SERVER_URL"); url != "" {
		cfg.ServerURL = url
	}
	return cfg, nil
}

// Save writes the config atomically, creating the directory if needed.
func Save(cfg *Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return util.AtomicWriteFile(filepath.Join(dir, "config.toml"), buf.Bytes(), 0o644)
}

// SetDarkMode persists a theme toggle without disturbing other settings.
func SetDarkMode(dark bool) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.DarkMode = dark
	return Save(cfg)
}
