// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func withConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CINDY_CONFIG_DIR", dir)
	return dir
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	withConfigDir(t)
	t.Setenv("CINDY_SERVER_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "http://127.0.0.1:5000" {
		t.Errorf("server URL = %q", cfg.ServerURL)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("timeout = %d, want 30", cfg.TimeoutSeconds)
	}
	if cfg.HistoryLimit != 50 {
		t.Errorf("history limit = %d, want 50", cfg.HistoryLimit)
	}
	if !cfg.CacheEnabled {
		t.Error("cache should default to enabled")
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	withConfigDir(t)
	t.Setenv("CINDY_SERVER_URL", "")

	saved := &Config{
		ServerURL:      "http://example.test:8080",
		TimeoutSeconds: 10,
		DarkMode:       true,
		HistoryLimit:   5,
		CacheEnabled:   false,
	}
	if err := Save(saved); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ServerURL != saved.ServerURL {
		t.Errorf("server URL = %q", loaded.ServerURL)
	}
	if loaded.TimeoutSeconds != 10 || loaded.HistoryLimit != 5 {
		t.Errorf("loaded = %+v", loaded)
	}
	if !loaded.DarkMode {
		t.Error("dark mode not persisted")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	withConfigDir(t)

	if err := Save(&Config{ServerURL: "http://from-file:1234", TimeoutSeconds: 30, HistoryLimit: 50}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	t.Setenv("CINDY_SERVER_URL", "http://from-env:5678")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "http://from-env:5678" {
		t.Errorf("server URL = %q, want env override", cfg.ServerURL)
	}
}

func TestSparseFileGetsDefaults(t *testing.T) {
	dir := withConfigDir(t)
	t.Setenv("CINDY_SERVER_URL", "")

	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("dark_mode = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.DarkMode {
		t.Error("dark_mode not read")
	}
	if cfg.ServerURL != "http://127.0.0.1:5000" {
		t.Errorf("server URL = %q, want default", cfg.ServerURL)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("timeout = %d, want default", cfg.TimeoutSeconds)
	}
}

func TestMalformedFileIsAnError(t *testing.T) {
	dir := withConfigDir(t)

	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("server_url = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestSetDarkMode(t *testing.T) {
	withConfigDir(t)
	t.Setenv("CINDY_SERVER_URL", "")

	if err := SetDarkMode(true); err != nil {
		t.Fatalf("SetDarkMode: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.DarkMode {
		t.Error("dark mode not persisted")
	}
}
