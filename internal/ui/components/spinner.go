// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nostrum/internal/ui/styles"
)

// =============================================================================
// SPINNER COMPONENT
// =============================================================================

// Spinner shows progress while relays are answering. It wraps the bubbles
// spinner and adds a message and elapsed timer.
type Spinner struct {
	spinner   spinner.Model
	message   string
	startTime time.Time

	isActive  bool
	showTimer bool
}

// NewSpinner creates a spinner with the default animation.
func NewSpinner(theme *styles.Theme) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: styles.SpinnerDots.Frames,
		FPS:    styles.SpinnerDots.Duration(),
	}
	s.Style = theme.Spinner

	return Spinner{
		spinner:   s,
		message:   "Loading",
		showTimer: true,
	}
}

// NewZapSpinner creates the spinner shown while an invoice is fetched.
func NewZapSpinner(theme *styles.Theme) Spinner {
	s := NewSpinner(theme)
	s.spinner.Spinner = spinner.Spinner{
		Frames: styles.SpinnerZap.Frames,
		FPS:    styles.SpinnerZap.Duration(),
	}
	s.message = "Requesting invoice"
	s.showTimer = false
	return s
}

// SetMessage sets the text displayed next to the spinner.
func (s *Spinner) SetMessage(msg string) {
	s.message = msg
}

// Start activates the spinner and returns its tick command.
func (s *Spinner) Start() tea.Cmd {
	s.isActive = true
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.isActive = false
}

// Active reports whether the spinner is running.
func (s *Spinner) Active() bool {
	return s.isActive
}

// Update advances the animation on spinner tick messages.
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	if !s.isActive {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

// View renders the spinner line, empty when inactive.
func (s *Spinner) View() string {
	if !s.isActive {
		return ""
	}
	out := s.spinner.View() + " " + s.message
	if s.showTimer {
		out += fmt.Sprintf(" (%.0fs)", time.Since(s.startTime).Seconds())
	}
	return out
}
