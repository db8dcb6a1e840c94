// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nostrum/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the bottom line: relay health, note counts, and shortcuts.
type StatusBar struct {
	Width int

	relaysUp    int
	relaysTotal int
	noteCount   int
	loading     bool
	message     string

	theme *styles.Theme
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetRelays updates the connected/total relay counts.
func (s *StatusBar) SetRelays(up, total int) {
	s.relaysUp = up
	s.relaysTotal = total
}

// SetNoteCount updates the number of loaded notes in the active view.
func (s *StatusBar) SetNoteCount(n int) {
	s.noteCount = n
}

// SetLoading toggles the loading indicator.
func (s *StatusBar) SetLoading(loading bool) {
	s.loading = loading
}

// SetMessage shows a transient message in place of the shortcuts.
func (s *StatusBar) SetMessage(msg string) {
	s.message = msg
}

// View renders the status bar for the current width.
func (s *StatusBar) View() string {
	if s.Width < 60 {
		return s.viewNarrow()
	}
	return s.viewWide()
}

// relayBadge renders "(+) 2/3" colored by health.
func (s *StatusBar) relayBadge() string {
	label := fmt.Sprintf("%d/%d", s.relaysUp, s.relaysTotal)
	switch {
	case s.relaysTotal == 0 || s.relaysUp == 0:
		return s.theme.RelayOffline.Render(styles.StatusIndicators.Offline + " " + label)
	case s.relaysUp < s.relaysTotal:
		return s.theme.RelayDegraded.Render(styles.StatusIndicators.Connected + " " + label)
	default:
		return s.theme.RelayConnected.Render(styles.StatusIndicators.Connected + " " + label)
	}
}

func (s *StatusBar) viewNarrow() string {
	parts := []string{s.relayBadge()}
	if s.loading {
		parts = append(parts, "…")
	}
	if s.noteCount > 0 {
		parts = append(parts, fmt.Sprintf("%d notes", s.noteCount))
	}
	return s.theme.StatusBar.Width(s.Width).Render(strings.Join(parts, "  "))
}

func (s *StatusBar) viewWide() string {
	left := s.relayBadge()
	if s.noteCount > 0 {
		left += "  " + fmt.Sprintf("%d notes", s.noteCount)
	}
	if s.loading {
		left += "  " + s.theme.ShortcutDesc.Render("fetching…")
	}

	right := s.message
	if right == "" {
		right = s.renderShortcuts()
	}

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return s.theme.StatusBar.Width(s.Width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderShortcuts shows the core key hints.
func (s *StatusBar) renderShortcuts() string {
	pairs := []struct{ key, desc string }{
		{"j/k", "move"},
		{"enter", "open"},
		{"r", "reply"},
		{"z", "zap"},
		{"b", "mark"},
		{"?", "help"},
	}
	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(s.theme.ShortcutKey.Render(p.key))
		sb.WriteString(s.theme.ShortcutDesc.Render(":" + p.desc))
	}
	return sb.String()
}
