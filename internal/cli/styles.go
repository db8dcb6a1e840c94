// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - lipgloss styles for non-TUI command output.

package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")). // Violet
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	valueGreenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	valueYellowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("220"))

	valueRedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	valueDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))
)

// statusLine renders a "Label    value" row for status output.
func statusLine(label, value string, style lipgloss.Style) string {
	return labelStyle.Render(label) + style.Render(value)
}
