// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses command-line arguments and implements the
// non-interactive commands: post, status, keys, config, and export.
// The default command starts the TUI; main.go owns that wiring.
package cli
