// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// nostrum.
//
// Configuration lives under ~/.nostrum (override with NOSTRUM_DIR) as
// config.toml, with config.json as a fallback format. Missing files fall
// back to built-in defaults, and a handful of NOSTRUM_* environment
// variables override individual settings for one-off runs.
//
// The global accessor pattern mirrors the rest of the application's
// lifecycle: Global() lazy-loads once, ReloadGlobal() refreshes from disk
// (wired to an fsnotify watcher so filter edits apply live), and
// SetGlobal() is used by tests and the setup flow.
package config
