// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
	"time"
)

func TestNewThemeInitializes(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}
	// A few load-bearing styles must carry attributes.
	if !theme.HeaderTitle.GetBold() {
		t.Error("HeaderTitle should be bold")
	}
	if !theme.FeedItemSelected.GetBold() {
		t.Error("FeedItemSelected should be bold")
	}
	if !theme.HiddenNote.GetItalic() {
		t.Error("HiddenNote should be italic")
	}
}

func TestLayoutModes(t *testing.T) {
	theme := NewTheme()

	cases := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}
	for _, tc := range cases {
		theme.SetSize(tc.width, 24)
		if got := theme.GetLayoutMode(); got != tc.want {
			t.Errorf("GetLayoutMode() at width %d = %v, want %v", tc.width, got, tc.want)
		}
	}
}

func TestSpinnerDuration(t *testing.T) {
	if d := SpinnerDots.Duration(); d != 100*time.Millisecond {
		t.Errorf("SpinnerDots.Duration() = %v", d)
	}
	zero := SpinnerConfig{}
	if d := zero.Duration(); d != 100*time.Millisecond {
		t.Errorf("zero-FPS Duration() = %v, want fallback", d)
	}
}

func TestRenderProgressBar(t *testing.T) {
	bar := RenderProgressBar(12, 0.5)
	if len([]rune(bar)) != 12 {
		t.Errorf("bar width = %d, want 12", len([]rune(bar)))
	}
	if !strings.HasPrefix(bar, "[") || !strings.HasSuffix(bar, "]") {
		t.Errorf("bar = %q", bar)
	}
	if full := RenderProgressBar(10, 2.0); strings.Contains(full, " ") {
		t.Errorf("overfull bar should be solid: %q", full)
	}
	if empty := RenderProgressBar(10, -1); strings.Contains(empty, "=") {
		t.Errorf("negative percent should be empty: %q", empty)
	}
}

func TestRenderTreeLine(t *testing.T) {
	if got := RenderTreeLine(false); !strings.HasPrefix(got, TreeChars.Tee) {
		t.Errorf("mid sibling = %q", got)
	}
	if got := RenderTreeLine(true); !strings.HasPrefix(got, TreeChars.Corner) {
		t.Errorf("last sibling = %q", got)
	}
}

func TestRenderStatusHelpers(t *testing.T) {
	if !strings.Contains(RenderSuccess("done"), "[OK]") {
		t.Error("RenderSuccess missing indicator")
	}
	if !strings.Contains(RenderError("boom"), "[X]") {
		t.Error("RenderError missing indicator")
	}
	if !strings.Contains(RenderStatus(false, "x"), "[X]") {
		t.Error("RenderStatus(false) should render as error")
	}
}
