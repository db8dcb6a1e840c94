// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"truncated with ellipsis", "hello world", 8, "hello..."},
		{"zero max", "hello", 0, ""},
		{"tiny max no ellipsis", "hello", 2, "he"},
		{"multibyte preserved", "héllo wörld", 8, "héllo..."},
		{"emoji preserved", "🔥🔥🔥🔥🔥", 4, "🔥"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateRunes(tt.input, tt.max)
			if got != tt.expected {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.expected)
			}
		})
	}
}

func TestShortKey(t *testing.T) {
	npub := "npub1sn0wdenkukak0d9dfczzeacvhkrgz92ak56egt7vdgzn8pv2wfqqhrjdv9"
	got := ShortKey(npub, 10, 5)
	want := "npub1sn0wd...rjdv9"
	if got != want {
		t.Errorf("ShortKey() = %q, want %q", got, want)
	}

	// Short identifiers pass through unchanged
	if got := ShortKey("npub1abc", 10, 5); got != "npub1abc" {
		t.Errorf("ShortKey(short) = %q, want unchanged", got)
	}
}

func TestFirstLine(t *testing.T) {
	if got := FirstLine("\n\n  first real line\nsecond"); got != "first real line" {
		t.Errorf("FirstLine() = %q", got)
	}
	if got := FirstLine("   \n\t\n"); got != "" {
		t.Errorf("FirstLine(blank) = %q, want empty", got)
	}
}

func TestFoldForSearch(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Ünïcödé Nàme", "unicode name"},
		{"ALICE", "alice"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := FoldForSearch(tt.input); got != tt.expected {
			t.Errorf("FoldForSearch(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

// =============================================================================
// TIME TESTS
// =============================================================================

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		ts       time.Time
		expected string
	}{
		{"just now", now.Add(-2 * time.Second), "now"},
		{"future clock skew", now.Add(5 * time.Minute), "now"},
		{"seconds", now.Add(-30 * time.Second), "30s"},
		{"minutes", now.Add(-12 * time.Minute), "12m"},
		{"hours", now.Add(-5 * time.Hour), "5h"},
		{"days", now.Add(-3 * 24 * time.Hour), "3d"},
		{"same year", now.Add(-30 * 24 * time.Hour), "May 16"},
		{"other year", time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), "Jan 2 2023"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimeAgo(tt.ts, now); got != tt.expected {
				t.Errorf("TimeAgo() = %q, want %q", got, tt.expected)
			}
		})
	}
}

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "bookmarks.json")

	if err := AtomicWriteFile(path, []byte(`{"v":1}`), 0600); err != nil {
		t.Fatalf("AtomicWriteFile() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(data) != `{"v":1}` {
		t.Errorf("content = %q", data)
	}

	// Overwrite must replace content completely
	if err := AtomicWriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("AtomicWriteFile() overwrite error: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "x" {
		t.Errorf("overwrite content = %q", data)
	}

	// No temp files left behind
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected 1 entry in dir, got %d", len(entries))
	}
}
