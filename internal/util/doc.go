// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the nostrum application.
//
// This package contains common helper functions used throughout the
// application for string display, identifier shortening, relative
// timestamps, and file operations.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - ShortKey: npub/hex shortening for display (npub1ab...xyz)
//   - FoldForSearch: Unicode normalization for profile search
//
// Time Utilities:
//   - TimeAgo: compact relative timestamps (now, 5m, 3h, 2d)
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
package util
