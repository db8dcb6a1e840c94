// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/nostrum/internal/model"
	"github.com/jeranaias/nostrum/internal/ui/styles"
	"github.com/jeranaias/nostrum/internal/util"
)

// =============================================================================
// NOTE RENDERING
// =============================================================================

// NoteOpts carries everything a note row needs beyond the note itself.
type NoteOpts struct {
	Width      int
	Selected   bool
	AuthorName string // resolved display name, "" falls back to short npub
	ZapSats    int64
	Bookmarked bool
	ReplyCount int
	Revealed   bool // content warning acknowledged
	Now        time.Time
}

// authorLabel resolves the display name for a pubkey.
func authorLabel(theme *styles.Theme, name, pubkey string) string {
	if name != "" {
		return theme.AuthorName.Render(name)
	}
	return theme.AuthorPubkey.Render(util.ShortKey(pubkey, 8, 4))
}

// badges renders the trailing badges of a note header line.
func badges(theme *styles.Theme, note *model.Note, opts NoteOpts) string {
	var parts []string
	if note.IsRepost() {
		parts = append(parts, theme.RepostBadge.Render("↻"))
	}
	if opts.ReplyCount > 0 {
		parts = append(parts, theme.ReplyBadge.Render(fmt.Sprintf("↩%d", opts.ReplyCount)))
	}
	if opts.ZapSats > 0 {
		parts = append(parts, theme.ZapBadge.Render(fmt.Sprintf("⚡%s", formatSats(opts.ZapSats))))
	}
	if opts.Bookmarked {
		parts = append(parts, theme.ZapBadge.Render("★"))
	}
	if note.ContentWarning != "" {
		parts = append(parts, theme.WarningBadge.Render("⚠"))
	}
	return strings.Join(parts, " ")
}

// RenderFeedItem renders one feed row: header line plus wrapped content.
func RenderFeedItem(theme *styles.Theme, note *model.Note, opts NoteOpts) string {
	width := opts.Width
	if width < 20 {
		width = 20
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	header := authorLabel(theme, opts.AuthorName, note.PubKey) +
		" " + theme.Timestamp.Render(util.TimeAgo(note.CreatedAt, now))
	if b := badges(theme, note, opts); b != "" {
		header += "  " + b
	}

	body := noteBody(theme, note, opts.Revealed)
	lines := append([]string{header}, WrapText(body, width-2)...)

	style := theme.FeedItem
	if opts.Selected {
		style = theme.FeedItemSelected
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

// noteBody returns the content to display, honoring content warnings.
func noteBody(theme *styles.Theme, note *model.Note, revealed bool) string {
	if note.ContentWarning != "" && !revealed {
		return theme.HiddenNote.Render("[" + note.ContentWarning + ", press x to reveal]")
	}
	if inner := note.RepostedNote(); inner != nil {
		return inner.Content
	}
	return note.Content
}

// formatSats shortens zap totals: 900, 2.1k, 1.0M.
func formatSats(sats int64) string {
	switch {
	case sats >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(sats)/1_000_000)
	case sats >= 1_000:
		return fmt.Sprintf("%.1fk", float64(sats)/1_000)
	default:
		return fmt.Sprintf("%d", sats)
	}
}

// =============================================================================
// THREAD ROWS
// =============================================================================

// ThreadRowOpts extends NoteOpts with tree placement.
type ThreadRowOpts struct {
	NoteOpts
	Depth  int
	IsLast bool // last sibling under its parent
	Orphan bool // parent not fetched yet
}

// RenderThreadRow renders one node of a thread with its depth guides.
func RenderThreadRow(theme *styles.Theme, note *model.Note, opts ThreadRowOpts) string {
	width := opts.Width
	if width < 20 {
		width = 20
	}

	var prefix string
	if opts.Depth > 0 {
		guide := theme.DepthGuide.Render(strings.Repeat(styles.TreeChars.Pipe+" ", opts.Depth-1))
		prefix = guide + theme.DepthGuide.Render(styles.RenderTreeLine(opts.IsLast))
	}
	indent := runewidth.StringWidth(stripANSI(prefix))

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	header := authorLabel(theme, opts.AuthorName, note.PubKey) +
		" " + theme.Timestamp.Render(util.TimeAgo(note.CreatedAt, now))
	if b := badges(theme, note, opts.NoteOpts); b != "" {
		header += "  " + b
	}
	if opts.Orphan {
		header += "  " + theme.ThreadOrphan.Render("(detached)")
	}

	body := noteBody(theme, note, opts.Revealed)
	contentPad := strings.Repeat(" ", indent)

	lines := []string{prefix + header}
	for _, line := range WrapText(body, width-indent-2) {
		lines = append(lines, contentPad+line)
	}

	style := theme.ThreadReply
	switch {
	case opts.Selected:
		style = theme.ThreadSelected
	case opts.Orphan:
		style = theme.ThreadOrphan
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

// =============================================================================
// TEXT WRAPPING
// =============================================================================

// WrapText word-wraps s to the given display width, measuring with
// go-runewidth so CJK and emoji count double-width. Words longer than
// the width are hard-broken.
func WrapText(s string, width int) []string {
	if width < 1 {
		width = 1
	}

	var out []string
	for _, paragraph := range strings.Split(s, "\n") {
		if paragraph == "" {
			out = append(out, "")
			continue
		}

		var line strings.Builder
		lineWidth := 0
		for _, word := range strings.Fields(paragraph) {
			w := runewidth.StringWidth(word)

			// Hard-break oversized words.
			for w > width {
				head := runewidth.Truncate(word, width, "")
				if line.Len() > 0 {
					out = append(out, line.String())
					line.Reset()
					lineWidth = 0
				}
				out = append(out, head)
				word = strings.TrimPrefix(word, head)
				w = runewidth.StringWidth(word)
			}
			if word == "" {
				continue
			}

			space := 0
			if lineWidth > 0 {
				space = 1
			}
			if lineWidth+space+w > width {
				out = append(out, line.String())
				line.Reset()
				lineWidth = 0
				space = 0
			}
			if space == 1 {
				line.WriteByte(' ')
				lineWidth++
			}
			line.WriteString(word)
			lineWidth += w
		}
		if line.Len() > 0 {
			out = append(out, line.String())
		}
	}
	if out == nil {
		out = []string{""}
	}
	return out
}

// stripANSI removes SGR escape sequences for width measurement.
func stripANSI(s string) string {
	var sb strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
