// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// nostrum.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.nostrum/config.toml
//   - ~/.nostrum/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/nostrum/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete nostrum configuration.
type Config struct {
	// Version of the config schema, for future migrations
	Version string `toml:"version" json:"version"`

	// Relays are the relay websocket URLs the client connects to
	Relays []string `toml:"relays" json:"relays"`

	// Feed configuration
	Feed FeedConfig `toml:"feed" json:"feed"`

	// Thread configuration
	Thread ThreadConfig `toml:"thread" json:"thread"`

	// Filters applied client-side to relay results
	Filters FilterConfig `toml:"filters" json:"filters"`

	// Network behavior for relay fetches
	Network NetworkConfig `toml:"network" json:"network"`

	// Zap defaults
	Zap ZapConfig `toml:"zap" json:"zap"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// FeedConfig controls the home feed query layer.
type FeedConfig struct {
	// PageSize is the number of notes requested per page
	PageSize int `toml:"page_size" json:"page_size"`
	// ShowReplies includes reply notes in the feed when true
	ShowReplies bool `toml:"show_replies" json:"show_replies"`
	// ShowReposts includes kind-6 reposts in the feed when true
	ShowReposts bool `toml:"show_reposts" json:"show_reposts"`
}

// ThreadConfig controls the thread cache.
type ThreadConfig struct {
	// MaxAgeSeconds before a cached thread is considered stale
	MaxAgeSeconds int `toml:"max_age_seconds" json:"max_age_seconds"`
	// MaxCached bounds the number of threads kept in memory
	MaxCached int `toml:"max_cached" json:"max_cached"`
}

// FilterConfig holds the client-side content filters.
type FilterConfig struct {
	// MutedPubkeys are hex author keys whose notes are dropped
	MutedPubkeys []string `toml:"muted_pubkeys" json:"muted_pubkeys"`
	// MutedWords drop any note containing one (case-folded substring)
	MutedWords []string `toml:"muted_words" json:"muted_words"`
	// HideSensitive hides notes carrying a content-warning tag
	HideSensitive bool `toml:"hide_sensitive" json:"hide_sensitive"`
	// SensitiveWords additionally mark matching notes as sensitive
	SensitiveWords []string `toml:"sensitive_words" json:"sensitive_words"`
}

// NetworkConfig controls relay connectivity.
type NetworkConfig struct {
	// ConnectTimeoutSeconds per relay dial
	ConnectTimeoutSeconds int `toml:"connect_timeout_seconds" json:"connect_timeout_seconds"`
	// QueryTimeoutSeconds per fan-out query
	QueryTimeoutSeconds int `toml:"query_timeout_seconds" json:"query_timeout_seconds"`
	// MaxRetries per relay request before giving up
	MaxRetries int `toml:"max_retries" json:"max_retries"`
	// RequestsPerSecond throttles each relay connection
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
}

// ZapConfig holds Lightning payment defaults.
type ZapConfig struct {
	// DefaultAmountSats preselected in the zap modal
	DefaultAmountSats int64 `toml:"default_amount_sats" json:"default_amount_sats"`
	// Comment attached to zap requests, may be empty
	Comment string `toml:"comment" json:"comment"`
}

// UIConfig contains user interface settings.
type UIConfig struct {
	// Theme is "dark", "light" or "auto"
	Theme string `toml:"theme" json:"theme"`
	// CompactMode renders single-line feed rows
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// ShowSpinner toggles loading animations
	ShowSpinner bool `toml:"show_spinner" json:"show_spinner"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultRelays seed a fresh install with well-known public relays.
var DefaultRelays = []string{
	"wss://relay.damus.io",
	"wss://nos.lol",
	"wss://relay.nostr.band",
}

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Relays:  append([]string(nil), DefaultRelays...),
		Feed: FeedConfig{
			PageSize:    50,
			ShowReplies: false,
			ShowReposts: true,
		},
		Thread: ThreadConfig{
			MaxAgeSeconds: 300,
			MaxCached:     64,
		},
		Filters: FilterConfig{
			HideSensitive: true,
		},
		Network: NetworkConfig{
			ConnectTimeoutSeconds: 10,
			QueryTimeoutSeconds:   15,
			MaxRetries:            2,
			RequestsPerSecond:     5,
		},
		Zap: ZapConfig{
			DefaultAmountSats: 21,
		},
		UI: UIConfig{
			Theme:       "auto",
			ShowSpinner: true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the nostrum state directory (~/.nostrum), also used
// for the key file, bookmarks and the event cache database.
func ConfigDir() (string, error) {
	if dir := os.Getenv("NOSTRUM_DIR"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".nostrum"), nil
}

// ConfigPathTOML returns the TOML config file path.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the JSON config file path.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir creates the state directory if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				return nil, fmt.Errorf("failed to load TOML config: %w", err)
			}
			return finishLoad(cfg)
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				return nil, fmt.Errorf("failed to load JSON config: %w", err)
			}
			return finishLoad(cfg)
		}
	}

	return finishLoad(cfg)
}

func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from an explicit path, choosing the
// decoder by extension.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = LoadTOML(cfg, path)
	case ".json":
		err = LoadJSON(cfg, path)
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
	if err != nil {
		return nil, err
	}
	return finishLoad(cfg)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the TOML config file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration as TOML, atomically.
func SaveTOML(cfg *Config, path string) error {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode TOML config: %w", err)
	}
	return util.AtomicWriteFile(path, []byte(sb.String()), 0600)
}

// SaveJSON writes the configuration as indented JSON, atomically.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON config: %w", err)
	}
	return util.AtomicWriteFile(path, data, 0600)
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if len(c.Relays) == 0 {
		return fmt.Errorf("config: at least one relay is required")
	}
	for _, relay := range c.Relays {
		u, err := url.Parse(relay)
		if err != nil || (u.Scheme != "wss" && u.Scheme != "ws") || u.Host == "" {
			return fmt.Errorf("config: invalid relay URL %q (want wss://...)", relay)
		}
	}
	if c.Feed.PageSize < 1 || c.Feed.PageSize > 500 {
		return fmt.Errorf("config: feed.page_size %d out of range [1,500]", c.Feed.PageSize)
	}
	if c.Thread.MaxCached < 1 {
		return fmt.Errorf("config: thread.max_cached must be positive")
	}
	if c.Network.RequestsPerSecond <= 0 {
		return fmt.Errorf("config: network.requests_per_second must be positive")
	}
	if c.Zap.DefaultAmountSats < 1 {
		return fmt.Errorf("config: zap.default_amount_sats must be positive")
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("config: ui.theme %q must be dark, light or auto", c.UI.Theme)
	}
	return nil
}

// SetDefaults fills zero-valued fields that a partial config file left
// unset.
func (c *Config) SetDefaults() {
	def := Default()
	if c.Version == "" {
		c.Version = def.Version
	}
	if len(c.Relays) == 0 {
		c.Relays = def.Relays
	}
	if c.Feed.PageSize == 0 {
		c.Feed.PageSize = def.Feed.PageSize
	}
	if c.Thread.MaxAgeSeconds == 0 {
		c.Thread.MaxAgeSeconds = def.Thread.MaxAgeSeconds
	}
	if c.Thread.MaxCached == 0 {
		c.Thread.MaxCached = def.Thread.MaxCached
	}
	if c.Network.ConnectTimeoutSeconds == 0 {
		c.Network.ConnectTimeoutSeconds = def.Network.ConnectTimeoutSeconds
	}
	if c.Network.QueryTimeoutSeconds == 0 {
		c.Network.QueryTimeoutSeconds = def.Network.QueryTimeoutSeconds
	}
	if c.Network.MaxRetries == 0 {
		c.Network.MaxRetries = def.Network.MaxRetries
	}
	if c.Network.RequestsPerSecond == 0 {
		c.Network.RequestsPerSecond = def.Network.RequestsPerSecond
	}
	if c.Zap.DefaultAmountSats == 0 {
		c.Zap.DefaultAmountSats = def.Zap.DefaultAmountSats
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - NOSTRUM_RELAYS: comma-separated relay URLs, replaces the list
//   - NOSTRUM_THEME: overrides ui.theme
//   - NOSTRUM_PAGE_SIZE: overrides feed.page_size
//   - NOSTRUM_HIDE_SENSITIVE: overrides filters.hide_sensitive
func (c *Config) ApplyEnvOverrides() {
	if relays := os.Getenv("NOSTRUM_RELAYS"); relays != "" {
		c.Relays = nil
		for _, r := range strings.Split(relays, ",") {
			if r = strings.TrimSpace(r); r != "" {
				c.Relays = append(c.Relays, r)
			}
		}
	}

	if theme := os.Getenv("NOSTRUM_THEME"); theme != "" {
		c.UI.Theme = theme
	}

	if size := os.Getenv("NOSTRUM_PAGE_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			c.Feed.PageSize = n
		}
	}

	if hide := os.Getenv("NOSTRUM_HIDE_SENSITIVE"); hide != "" {
		c.Filters.HideSensitive = hide == "1" || strings.EqualFold(hide, "true")
	}
}

// =============================================================================
// MUTE HELPERS
// =============================================================================

// IsMutedAuthor reports whether a hex pubkey is on the mute list.
func (c *Config) IsMutedAuthor(pubkey string) bool {
	for _, muted := range c.Filters.MutedPubkeys {
		if strings.EqualFold(muted, pubkey) {
			return true
		}
	}
	return false
}

// MuteAuthor adds a pubkey to the mute list. Returns false if already
// present.
func (c *Config) MuteAuthor(pubkey string) bool {
	if c.IsMutedAuthor(pubkey) {
		return false
	}
	c.Filters.MutedPubkeys = append(c.Filters.MutedPubkeys, strings.ToLower(pubkey))
	return true
}

// =============================================================================
// GLOBAL CONFIG ACCESS
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
