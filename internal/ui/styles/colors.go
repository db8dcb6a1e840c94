// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the nostrum TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Violet - Primary accent, selections, the brand color
var Violet = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// VioletDeep - Darker violet for backgrounds
var VioletDeep = lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#4C1D95"}

// Cyan - Relay status, links, interactive hints
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - Success states, connected relays
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, failed relays, destructive actions
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, content warnings, stale data
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// ZapGold - Lightning zap amounts and the zap modal accent
var ZapGold = lipgloss.AdaptiveColor{Light: "#CA8A04", Dark: "#FACC15"}

// RepostGreen - Repost badges
var RepostGreen = lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#4ADE80"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// SurfaceDim - Slightly darker/lighter surface for headers/footers
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// SurfaceBright - Slightly lighter/darker surface for highlights
var SurfaceBright = lipgloss.AdaptiveColor{Light: "#FAFAFA", Dark: "#313244"}

// Overlay - Borders, separators, subtle backgrounds
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// SelectionBg - Background of the selected feed or thread row
var SelectionBg = lipgloss.AdaptiveColor{Light: "#EDE9FE", Dark: "#2A2640"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Note content, main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Author names, labels
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Timestamps, npub fragments, hints
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// =============================================================================
// THREAD COLORS
// =============================================================================

// Depth guides cycle through these as replies nest deeper.
var DepthGuides = []lipgloss.AdaptiveColor{
	{Light: "#A78BFA", Dark: "#7C3AED"},
	{Light: "#22D3EE", Dark: "#0891B2"},
	{Light: "#34D399", Dark: "#059669"},
	{Light: "#FBBF24", Dark: "#D97706"},
}

// OrphanFg - Detached replies whose ancestor has not arrived yet
var OrphanFg = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#585B70"}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet contains ASCII indicators used alongside colors so
// state reads without color too.
type StatusIndicatorSet struct {
	Success   string
	Error     string
	Warning   string
	Info      string
	Pending   string
	Connected string
	Offline   string
}

// StatusIndicators provides the shared indicator set.
var StatusIndicators = StatusIndicatorSet{
	Success:   "[OK]",
	Error:     "[X]",
	Warning:   "[!]",
	Info:      "[i]",
	Pending:   "[ ]",
	Connected: "(+)",
	Offline:   "(-)",
}

// =============================================================================
// RENDER HELPERS
// =============================================================================

var (
	successStyle = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
)

// RenderSuccess renders a success message with its indicator.
func RenderSuccess(message string) string {
	return successStyle.Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error message with its indicator.
func RenderError(message string) string {
	return errorStyle.Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning message with its indicator.
func RenderWarning(message string) string {
	return warningStyle.Render(StatusIndicators.Warning + " " + message)
}

// RenderInfo renders an informational message with its indicator.
func RenderInfo(message string) string {
	return infoStyle.Render(StatusIndicators.Info + " " + message)
}

// RenderStatus picks success or error rendering.
func RenderStatus(success bool, message string) string {
	if success {
		return RenderSuccess(message)
	}
	return RenderError(message)
}
