// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no relays", func(c *Config) { c.Relays = nil }},
		{"http relay", func(c *Config) { c.Relays = []string{"https://relay.damus.io"} }},
		{"garbage relay", func(c *Config) { c.Relays = []string{"not a url"} }},
		{"page size too large", func(c *Config) { c.Feed.PageSize = 10000 }},
		{"zero rate limit", func(c *Config) { c.Network.RequestsPerSecond = -1 }},
		{"bad theme", func(c *Config) { c.UI.Theme = "solarized" }},
		{"zero zap amount", func(c *Config) { c.Zap.DefaultAmountSats = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestSaveLoadRoundTripTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Relays = []string{"wss://relay.example.com"}
	cfg.Feed.PageSize = 25
	cfg.Filters.MutedWords = []string{"spam"}
	cfg.UI.Theme = "dark"

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML() error: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if len(loaded.Relays) != 1 || loaded.Relays[0] != "wss://relay.example.com" {
		t.Errorf("Relays = %v", loaded.Relays)
	}
	if loaded.Feed.PageSize != 25 {
		t.Errorf("PageSize = %d", loaded.Feed.PageSize)
	}
	if len(loaded.Filters.MutedWords) != 1 {
		t.Errorf("MutedWords = %v", loaded.Filters.MutedWords)
	}
	if loaded.UI.Theme != "dark" {
		t.Errorf("Theme = %q", loaded.UI.Theme)
	}
}

func TestSaveLoadRoundTripJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.Zap.DefaultAmountSats = 1000
	if err := SaveJSON(cfg, path); err != nil {
		t.Fatalf("SaveJSON() error: %v", err)
	}
	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if loaded.Zap.DefaultAmountSats != 1000 {
		t.Errorf("DefaultAmountSats = %d", loaded.Zap.DefaultAmountSats)
	}
}

func TestPartialConfigGetsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	partial := "relays = [\"wss://only.example\"]\n"
	if err := os.WriteFile(path, []byte(partial), 0600); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if loaded.Feed.PageSize != Default().Feed.PageSize {
		t.Errorf("PageSize = %d, want default", loaded.Feed.PageSize)
	}
	if loaded.Thread.MaxCached != Default().Thread.MaxCached {
		t.Errorf("MaxCached = %d, want default", loaded.Thread.MaxCached)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("NOSTRUM_RELAYS", "wss://a.example, wss://b.example")
	t.Setenv("NOSTRUM_THEME", "light")
	t.Setenv("NOSTRUM_PAGE_SIZE", "10")
	t.Setenv("NOSTRUM_HIDE_SENSITIVE", "false")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if len(cfg.Relays) != 2 || cfg.Relays[1] != "wss://b.example" {
		t.Errorf("Relays = %v", cfg.Relays)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
	if cfg.Feed.PageSize != 10 {
		t.Errorf("PageSize = %d", cfg.Feed.PageSize)
	}
	if cfg.Filters.HideSensitive {
		t.Error("HideSensitive = true, want false")
	}
}

func TestMuteAuthor(t *testing.T) {
	cfg := Default()
	if !cfg.MuteAuthor("ABCDEF") {
		t.Error("first MuteAuthor() = false")
	}
	if cfg.MuteAuthor("abcdef") {
		t.Error("duplicate MuteAuthor() = true (case-insensitive match expected)")
	}
	if !cfg.IsMutedAuthor("AbCdEf") {
		t.Error("IsMutedAuthor() = false")
	}
}

// TestConfig_ConcurrentAccess checks that Global(), SetGlobal() and
// ReloadGlobal() are safe under concurrency.
// Run with: go test -race ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()
	t.Setenv("NOSTRUM_DIR", t.TempDir())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			if cfg := Global(); cfg == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}
