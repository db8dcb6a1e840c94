// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/jeranaias/nostrum/internal/ui/styles"
)

// =============================================================================
// TOAST COMPONENT
// =============================================================================

// ToastLevel classifies a transient notification.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastError
)

// Toast is a transient message shown above the status bar: publish
// results, bookmark confirmations, relay failures.
type Toast struct {
	level   ToastLevel
	message string
	shownAt time.Time
	ttl     time.Duration

	theme *styles.Theme
}

// DefaultToastTTL is how long a toast stays visible.
const DefaultToastTTL = 4 * time.Second

// NewToast creates an empty toast.
func NewToast(theme *styles.Theme) *Toast {
	return &Toast{theme: theme, ttl: DefaultToastTTL}
}

// Show displays a message at the given level.
func (t *Toast) Show(level ToastLevel, message string) {
	t.level = level
	t.message = message
	t.shownAt = time.Now()
}

// ShowError is shorthand for Show(ToastError, ...).
func (t *Toast) ShowError(message string) {
	t.Show(ToastError, message)
}

// Clear hides the toast immediately.
func (t *Toast) Clear() {
	t.message = ""
}

// Visible reports whether the toast should render.
func (t *Toast) Visible() bool {
	return t.message != "" && time.Since(t.shownAt) < t.ttl
}

// View renders the toast, empty when expired.
func (t *Toast) View() string {
	if !t.Visible() {
		return ""
	}
	switch t.level {
	case ToastError:
		return styles.RenderError(t.message)
	case ToastSuccess:
		return styles.RenderSuccess(t.message)
	default:
		return styles.RenderInfo(t.message)
	}
}
