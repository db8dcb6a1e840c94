// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the nostrum application.
package util

import (
	"fmt"
	"time"
)

// TimeAgo formats a timestamp as a compact relative duration for list views:
// "now", "45s", "12m", "5h", "3d", then "Jan 2" past a week, and
// "Jan 2 2006" in a different year. Future timestamps (skewed relay clocks
// are common) render as "now".
func TimeAgo(t time.Time, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < 10*time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
	if t.Year() == now.Year() {
		return t.Format("Jan 2")
	}
	return t.Format("Jan 2 2006")
}
