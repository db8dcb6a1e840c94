// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderIdentity lipgloss.Style
	HeaderView     lipgloss.Style

	// ==========================================================================
	// FEED STYLES
	// ==========================================================================

	FeedItem         lipgloss.Style
	FeedItemSelected lipgloss.Style
	AuthorName       lipgloss.Style
	AuthorPubkey     lipgloss.Style
	Timestamp        lipgloss.Style
	NoteContent      lipgloss.Style
	RepostBadge      lipgloss.Style
	ReplyBadge       lipgloss.Style
	ZapBadge         lipgloss.Style
	WarningBadge     lipgloss.Style
	HiddenNote       lipgloss.Style

	// ==========================================================================
	// THREAD STYLES
	// ==========================================================================

	ThreadRoot     lipgloss.Style
	ThreadReply    lipgloss.Style
	ThreadSelected lipgloss.Style
	ThreadOrphan   lipgloss.Style
	DepthGuide     lipgloss.Style

	// ==========================================================================
	// PROFILE STYLES
	// ==========================================================================

	ProfileBox   lipgloss.Style
	ProfileName  lipgloss.Style
	ProfileNpub  lipgloss.Style
	ProfileAbout lipgloss.Style
	ProfileField lipgloss.Style

	// ==========================================================================
	// COMPOSE AND MODAL STYLES
	// ==========================================================================

	ModalBox       lipgloss.Style
	ModalTitle     lipgloss.Style
	ComposePrompt  lipgloss.Style
	ComposeText    lipgloss.Style
	ComposeCount   lipgloss.Style
	ZapAmount      lipgloss.Style
	ButtonActive   lipgloss.Style
	ButtonInactive lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar      lipgloss.Style
	RelayConnected lipgloss.Style
	RelayDegraded  lipgloss.Style
	RelayOffline   lipgloss.Style
	ShortcutKey    lipgloss.Style
	ShortcutDesc   lipgloss.Style

	// ==========================================================================
	// FEEDBACK STYLES
	// ==========================================================================

	Spinner     lipgloss.Style
	LoadingText lipgloss.Style
	ErrorBox    lipgloss.Style
	ErrorTitle  lipgloss.Style
	ErrorDetail lipgloss.Style
	ToastInfo   lipgloss.Style
	HelpOverlay lipgloss.Style
	HelpKey     lipgloss.Style
	HelpDesc    lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Violet).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Violet)

	t.HeaderIdentity = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.HeaderView = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	// Feed rows
	t.FeedItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.FeedItemSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SelectionBg).
		Bold(true).
		Padding(0, 1)

	t.AuthorName = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.AuthorPubkey = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.NoteContent = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.RepostBadge = lipgloss.NewStyle().
		Foreground(RepostGreen).
		Bold(true)

	t.ReplyBadge = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ZapBadge = lipgloss.NewStyle().
		Foreground(ZapGold).
		Bold(true)

	t.WarningBadge = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.HiddenNote = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Thread
	t.ThreadRoot = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Violet).
		Padding(0, 1)

	t.ThreadReply = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ThreadSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SelectionBg).
		Bold(true)

	t.ThreadOrphan = lipgloss.NewStyle().
		Foreground(OrphanFg).
		Italic(true)

	t.DepthGuide = lipgloss.NewStyle().
		Foreground(Overlay)

	// Profile
	t.ProfileBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Violet).
		Padding(1, 2)

	t.ProfileName = lipgloss.NewStyle().
		Bold(true).
		Foreground(Violet)

	t.ProfileNpub = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ProfileAbout = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ProfileField = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Compose and modals
	t.ModalBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Violet).
		Background(Surface).
		Padding(1, 2)

	t.ModalTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Violet)

	t.ComposePrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ComposeText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ComposeCount = lipgloss.NewStyle().
		Foreground(TextMuted).
		Align(lipgloss.Right)

	t.ZapAmount = lipgloss.NewStyle().
		Bold(true).
		Foreground(ZapGold)

	t.ButtonActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Violet).
		Padding(0, 2)

	t.ButtonInactive = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceBright).
		Padding(0, 2)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.RelayConnected = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.RelayDegraded = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.RelayOffline = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Feedback
	t.Spinner = lipgloss.NewStyle().
		Foreground(Violet)

	t.LoadingText = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.ErrorBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1)

	t.ErrorTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	t.ErrorDetail = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ToastInfo = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Cyan).
		Padding(0, 1)

	t.HelpOverlay = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 2)

	t.HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.HelpDesc = lipgloss.NewStyle().
		Foreground(TextSecondary)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
