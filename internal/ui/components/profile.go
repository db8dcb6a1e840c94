// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/nostrum/internal/model"
	"github.com/jeranaias/nostrum/internal/ui/styles"
	"github.com/jeranaias/nostrum/internal/util"
)

// =============================================================================
// PROFILE CARD
// =============================================================================

// ProfileCard renders a profile header: name, npub, about, and the
// Lightning address when the profile can receive zaps.
type ProfileCard struct {
	Profile *model.Profile
	Width   int
	theme   *styles.Theme
}

// NewProfileCard creates a profile card.
func NewProfileCard(theme *styles.Theme) *ProfileCard {
	return &ProfileCard{Width: 80, theme: theme}
}

// SetProfile updates the displayed profile.
func (p *ProfileCard) SetProfile(profile *model.Profile) {
	p.Profile = profile
}

// SetWidth updates the card width.
func (p *ProfileCard) SetWidth(width int) {
	p.Width = width
}

// View renders the card, empty when no profile is set.
func (p *ProfileCard) View() string {
	if p.Profile == nil {
		return ""
	}
	width := p.Width
	if width < 40 {
		width = 40
	}
	inner := width - 6

	var lines []string
	lines = append(lines, p.theme.ProfileName.Render(p.Profile.BestName()))
	lines = append(lines, p.theme.ProfileNpub.Render(util.ShortKey(p.Profile.Npub(), 12, 6)))

	if p.Profile.About != "" {
		lines = append(lines, "")
		for _, l := range WrapText(p.Profile.About, inner) {
			lines = append(lines, p.theme.ProfileAbout.Render(l))
		}
	}

	var fields []string
	if p.Profile.NIP05 != "" {
		fields = append(fields, "✓ "+p.Profile.NIP05)
	}
	if p.Profile.Website != "" {
		fields = append(fields, p.Profile.Website)
	}
	if p.Profile.CanZap() {
		addr := p.Profile.Lud16
		if addr == "" {
			addr = "lnurl"
		}
		fields = append(fields, p.theme.ZapAmount.Render("⚡ "+addr))
	}
	if len(fields) > 0 {
		lines = append(lines, "")
		for _, f := range fields {
			lines = append(lines, p.theme.ProfileField.Render(f))
		}
	}

	return p.theme.ProfileBox.Width(width - 2).Render(strings.Join(lines, "\n"))
}
