// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"time"
)

// =============================================================================
// SPINNERS
// =============================================================================

// SpinnerConfig describes one spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the per-frame duration.
func (s SpinnerConfig) Duration() time.Duration {
	if s.FPS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Second / time.Duration(s.FPS)
}

// SpinnerDots is the default spinner, used while relays are answering.
var SpinnerDots = SpinnerConfig{
	Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	FPS:    10,
}

// SpinnerLine is an ASCII fallback for limited terminals.
var SpinnerLine = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    8,
}

// SpinnerZap animates while a zap invoice is being fetched.
var SpinnerZap = SpinnerConfig{
	Frames: []string{"⚡", " ⚡", "  ⚡", " ⚡"},
	FPS:    6,
}

// =============================================================================
// PROGRESS
// =============================================================================

// RenderProgressBar renders a simple progress bar of the given width.
func RenderProgressBar(width int, percent float64) string {
	if width < 4 {
		width = 4
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 1 {
		percent = 1
	}

	inner := width - 2
	filled := int(float64(inner) * percent)
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", inner-filled) + "]"
}

// =============================================================================
// TREE CONNECTORS
// =============================================================================

// TreeChars for rendering thread reply structure.
var TreeChars = struct {
	Pipe   string
	Tee    string
	Corner string
	Dash   string
}{
	Pipe:   "│",
	Tee:    "├",
	Corner: "└",
	Dash:   "─",
}

// RenderTreeLine creates a tree line prefix for a reply row.
// isLast: true if this is the last sibling under its parent.
func RenderTreeLine(isLast bool) string {
	if isLast {
		return TreeChars.Corner + TreeChars.Dash + " "
	}
	return TreeChars.Tee + TreeChars.Dash + " "
}
