// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/nostrum/internal/ui/styles"
)

// =============================================================================
// HELP OVERLAY
// =============================================================================

// HelpEntry is one key binding line in the overlay.
type HelpEntry struct {
	Key  string
	Desc string
}

// HelpSection groups related bindings.
type HelpSection struct {
	Title   string
	Entries []HelpEntry
}

// DefaultHelpSections lists every binding the app handles.
func DefaultHelpSections() []HelpSection {
	return []HelpSection{
		{
			Title: "Navigation",
			Entries: []HelpEntry{
				{"j / ↓", "next note"},
				{"k / ↑", "previous note"},
				{"g / G", "first / last note"},
				{"enter", "open thread"},
				{"esc", "back to feed"},
				{"tab", "cycle views"},
				{"n", "load older notes"},
			},
		},
		{
			Title: "Actions",
			Entries: []HelpEntry{
				{"c", "compose note"},
				{"r", "reply to selection"},
				{"b", "toggle bookmark"},
				{"z", "zap author"},
				{"p", "author profile"},
				{"x", "reveal hidden note"},
				{"m", "mute author"},
				{"e", "export thread"},
			},
		},
		{
			Title: "General",
			Entries: []HelpEntry{
				{"R", "refresh feed"},
				{"?", "toggle this help"},
				{"q / ctrl+c", "quit"},
			},
		},
	}
}

// RenderHelp renders the help overlay box.
func RenderHelp(theme *styles.Theme, width int) string {
	if width < 40 {
		width = 40
	}

	var sb strings.Builder
	for i, section := range DefaultHelpSections() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(theme.ModalTitle.Render(section.Title))
		sb.WriteString("\n")
		for _, e := range section.Entries {
			key := theme.HelpKey.Render(padRight(e.Key, 12))
			sb.WriteString("  " + key + theme.HelpDesc.Render(e.Desc) + "\n")
		}
	}

	return theme.HelpOverlay.Width(width - 4).Render(sb.String())
}

// padRight pads s with spaces to n runes.
func padRight(s string, n int) string {
	if len([]rune(s)) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len([]rune(s)))
}
