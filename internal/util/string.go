// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the nostrum application.
package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// UNICODE: Rune-aware truncation preserves multi-byte characters.
// Note content and profile names are arbitrary UTF-8; byte-based slicing
// would corrupt them mid-character.

// TruncateRunes truncates a string to a maximum number of runes (characters).
// This is safe for UTF-8 strings as it counts characters, not bytes.
// If the string is truncated, "..." is appended.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// TruncateRunesNoEllipsis truncates a string to a maximum number of runes
// without appending an ellipsis.
func TruncateRunesNoEllipsis(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes])
}

// ShortKey shortens a bech32 or hex identifier for display, keeping the
// leading and trailing characters: "npub1qqs8...7yx2f". Identifiers shorter
// than head+tail+3 are returned unchanged.
func ShortKey(key string, head, tail int) string {
	if head <= 0 || tail <= 0 {
		return key
	}
	if len(key) <= head+tail+3 {
		return key
	}
	return key[:head] + "..." + key[len(key)-tail:]
}

// FirstLine returns the first non-empty line of s, trimmed. Used for note
// previews in list views.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}

// FoldForSearch normalizes a string for case- and accent-insensitive
// matching: NFKD decomposition, combining marks stripped, lowercased.
// Profile display names routinely carry decorative Unicode that should not
// defeat a plain-ASCII search.
func FoldForSearch(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
