// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nostrum/internal/ui/styles"
	"github.com/jeranaias/nostrum/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar: app name, active view, and the signed-in npub.
type Header struct {
	Title    string // default: "nostrum"
	ViewName string // "Feed", "Thread", ...
	Npub     string // signed-in identity, "" when read-only browsing
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a new Header component with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "nostrum",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetView updates the active view name.
func (h *Header) SetView(name string) {
	h.ViewName = name
}

// SetNpub updates the displayed identity.
func (h *Header) SetNpub(npub string) {
	h.Npub = npub
}

// View renders the header line.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}

	left := h.theme.HeaderTitle.Render(h.Title)
	if h.ViewName != "" {
		left += h.theme.HeaderIdentity.Render(" · ") + h.theme.HeaderView.Render(h.ViewName)
	}

	right := h.theme.HeaderIdentity.Render("read-only")
	if h.Npub != "" {
		right = h.theme.HeaderIdentity.Render(util.ShortKey(h.Npub, 10, 4))
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	line := left + strings.Repeat(" ", gap) + right
	return h.theme.Header.Width(width).Render(line)
}

// ViewCompact renders a minimal header for narrow terminals.
func (h *Header) ViewCompact() string {
	title := h.Title
	if h.ViewName != "" {
		title += " · " + h.ViewName
	}
	return h.theme.Header.Width(h.Width).Render(h.theme.HeaderTitle.Render(title))
}
