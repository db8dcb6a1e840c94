// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nostrum/internal/model"
	"github.com/jeranaias/nostrum/internal/thread"
	"github.com/jeranaias/nostrum/internal/ui/components"
	"github.com/jeranaias/nostrum/internal/ui/styles"
	"github.com/jeranaias/nostrum/internal/util"
)

// View renders the full screen: header, active view or overlay, status bar.
func (m *Model) View() string {
	if m.quit {
		return ""
	}
	m.syncStatusBar()

	width := m.width
	if width <= 0 {
		width = 80
	}
	height := m.height
	if height <= 0 {
		height = 24
	}

	var header string
	if m.theme.GetLayoutMode() == styles.LayoutNarrow {
		header = m.header.ViewCompact()
	} else {
		header = m.header.View()
	}

	bodyHeight := height - 3 // header, toast line, status bar
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	switch {
	case m.showHelp:
		body = components.RenderHelp(m.theme, width)
	case m.modal == ModalCompose:
		body = m.viewCompose(width)
	case m.modal == ModalZap:
		body = m.viewZap(width)
	default:
		switch m.view {
		case ViewThread:
			body = m.viewThread(width, bodyHeight)
		case ViewProfile:
			body = m.viewProfile(width, bodyHeight)
		case ViewBookmarks:
			body = m.viewBookmarks(width, bodyHeight)
		default:
			body = m.viewFeed(width, bodyHeight)
		}
	}
	body = lipgloss.Place(width, bodyHeight, lipgloss.Left, lipgloss.Top, body)

	statusLine := m.toast.View()
	if statusLine == "" && m.spinner.Active() {
		statusLine = m.spinner.View()
	}

	return strings.Join([]string{header, body, statusLine, m.statusBar.View()}, "\n")
}

// =============================================================================
// LIST VIEWS
// =============================================================================

// viewFeed renders the main note list.
func (m *Model) viewFeed(width, height int) string {
	notes := m.feed.Notes()
	if len(notes) == 0 {
		if m.loading {
			return m.theme.LoadingText.Render("Fetching notes…")
		}
		return m.theme.LoadingText.Render("No notes. Press R to refresh.")
	}
	return m.renderNoteList(notes, m.feedCursor, width, height)
}

// renderNoteList renders a windowed slice of notes around the cursor.
func (m *Model) renderNoteList(notes []*model.Note, cursor, width, height int) string {
	// Rough rows-per-note estimate for windowing; feed items are about
	// four terminal lines each.
	perItem := 4
	visible := height / perItem
	if visible < 1 {
		visible = 1
	}
	start, end := listWindow(len(notes), cursor, visible)

	var sb strings.Builder
	for i := start; i < end; i++ {
		note := notes[i]
		sb.WriteString(components.RenderFeedItem(m.theme, note, components.NoteOpts{
			Width:      width,
			Selected:   i == cursor,
			AuthorName: m.displayName(note.PubKey),
			ZapSats:    m.zapTotals[note.ID],
			Bookmarked: m.deps.Bookmarks != nil && m.deps.Bookmarks.Has(note.ID),
			Revealed:   m.revealed[note.ID],
		}))
		sb.WriteString("\n")
	}
	return sb.String()
}

// viewThread renders the active thread tree.
func (m *Model) viewThread(width, height int) string {
	if len(m.threadRows) == 0 {
		if m.loading {
			return m.theme.LoadingText.Render("Fetching thread…")
		}
		return m.theme.LoadingText.Render("Thread is empty.")
	}

	// Long-form roots render as an article above the replies.
	if root := m.threadRows[0]; root.Note != nil && root.Note.IsArticle() {
		return m.viewArticleThread(root, width, height)
	}

	perItem := 3
	visible := height / perItem
	if visible < 1 {
		visible = 1
	}
	start, end := listWindow(len(m.threadRows), m.thCursor, visible)

	var sb strings.Builder
	for i := start; i < end; i++ {
		sb.WriteString(m.renderThreadRow(m.threadRows[i], i, width))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderThreadRow renders one node with its tree connectors.
func (m *Model) renderThreadRow(node *thread.Node, idx, width int) string {
	note := node.Note
	if note == nil {
		return m.theme.ThreadOrphan.Render("(missing note)")
	}

	isLast := true
	if node.Parent != nil {
		isLast = node.Parent.LastChild() == node
	}

	return components.RenderThreadRow(m.theme, note, components.ThreadRowOpts{
		NoteOpts: components.NoteOpts{
			Width:      width,
			Selected:   idx == m.thCursor,
			AuthorName: m.displayName(note.PubKey),
			ZapSats:    m.zapTotals[note.ID],
			Bookmarked: m.deps.Bookmarks != nil && m.deps.Bookmarks.Has(note.ID),
			ReplyCount: node.ReplyCount(),
			Revealed:   m.revealed[note.ID],
		},
		Depth:  node.Depth,
		IsLast: isLast,
		Orphan: node.Parent == nil && idx > 0,
	})
}

// viewArticleThread renders a long-form root followed by its replies.
func (m *Model) viewArticleThread(root *thread.Node, width, height int) string {
	title := ""
	if root.Note.Event != nil {
		for _, tag := range root.Note.Event.Tags {
			if len(tag) >= 2 && tag[0] == "title" {
				title = tag[1]
				break
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(components.RenderArticle(title, root.Note.Content, width))
	sb.WriteString("\n")
	for i := 1; i < len(m.threadRows); i++ {
		sb.WriteString(m.renderThreadRow(m.threadRows[i], i, width))
		sb.WriteString("\n")
	}
	return sb.String()
}

// viewProfile renders the profile card above the author's recent notes.
func (m *Model) viewProfile(width, height int) string {
	card := m.profCard.View()
	if card == "" {
		card = m.theme.LoadingText.Render("Fetching profile…")
	}

	var notes string
	if m.profileFeed != nil && m.profileFeed.Len() > 0 {
		cardLines := lipgloss.Height(card)
		notes = m.renderNoteList(m.profileFeed.Notes(), m.profCursor, width, height-cardLines)
	}
	return card + "\n" + notes
}

// viewBookmarks renders the saved-note list from stored previews.
func (m *Model) viewBookmarks(width, height int) string {
	marks := m.deps.Bookmarks.All()
	if len(marks) == 0 {
		return m.theme.LoadingText.Render("No bookmarks yet. Press b on a note to save it.")
	}

	visible := height / 2
	if visible < 1 {
		visible = 1
	}
	start, end := listWindow(len(marks), m.bmCursor, visible)

	var sb strings.Builder
	for i := start; i < end; i++ {
		bm := marks[i]
		line := m.theme.AuthorPubkey.Render(util.ShortKey(bm.Author, 8, 4)) +
			" " + m.theme.Timestamp.Render(bm.SavedAt.Format("2006-01-02"))
		preview := bm.Preview
		if preview == "" {
			preview = bm.NoteID
		}
		item := line + "\n" + m.theme.NoteContent.Render(util.FirstLine(preview))

		style := m.theme.FeedItem
		if i == m.bmCursor {
			style = m.theme.FeedItemSelected
		}
		sb.WriteString(style.Width(width - 2).Render(item))
		sb.WriteString("\n")
	}
	return sb.String()
}

// =============================================================================
// MODALS
// =============================================================================

// viewCompose renders the compose overlay.
func (m *Model) viewCompose(width int) string {
	title := "New note"
	if m.replyTo != nil {
		name := m.displayName(m.replyTo.PubKey)
		if name == "" {
			name = util.ShortKey(m.replyTo.PubKey, 8, 4)
		}
		title = "Reply to " + name
	}

	var sb strings.Builder
	sb.WriteString(m.theme.ModalTitle.Render(title))
	sb.WriteString("\n\n")
	if m.replyTo != nil {
		quoted := util.TruncateRunes(util.FirstLine(m.replyTo.Content), 60)
		sb.WriteString(m.theme.ComposePrompt.Render("> " + quoted))
		sb.WriteString("\n\n")
	}
	sb.WriteString(m.composeArea.View())
	sb.WriteString("\n\n")
	sb.WriteString(m.theme.ComposeCount.Render(fmt.Sprintf("%d chars", len(m.composeArea.Value()))))
	sb.WriteString("  ")
	sb.WriteString(m.theme.HelpDesc.Render("ctrl+s publish · esc cancel"))

	return m.theme.ModalBox.Render(sb.String())
}

// viewZap renders the zap overlay: amount entry, then the invoice.
func (m *Model) viewZap(width int) string {
	name := m.displayName(m.zapTarget.PubKey)
	if name == "" {
		name = util.ShortKey(m.zapTarget.PubKey, 8, 4)
	}

	var sb strings.Builder
	sb.WriteString(m.theme.ModalTitle.Render("⚡ Zap " + name))
	sb.WriteString("\n\n")

	if m.zapInvoice != "" {
		sb.WriteString(m.theme.ComposePrompt.Render("Pay this invoice with your Lightning wallet:"))
		sb.WriteString("\n\n")
		for _, line := range components.WrapText(m.zapInvoice, width-8) {
			sb.WriteString(m.theme.ComposeText.Render(line))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
		sb.WriteString(m.theme.HelpDesc.Render("enter close"))
		return m.theme.ModalBox.Render(sb.String())
	}

	sb.WriteString(m.theme.ZapAmount.Render(fmt.Sprintf("%d sats", m.zapAmount)))
	sb.WriteString("\n\n")
	if comment := m.deps.Config.Zap.Comment; comment != "" {
		sb.WriteString(m.theme.ComposePrompt.Render(`"` + comment + `"`))
		sb.WriteString("\n\n")
	}
	sb.WriteString(m.theme.HelpDesc.Render("digits set · +/- adjust · enter request invoice · esc cancel"))

	return m.theme.ModalBox.Render(sb.String())
}

// =============================================================================
// HELPERS
// =============================================================================

// listWindow computes the [start, end) slice of a list that keeps the
// cursor visible within the given number of rows.
func listWindow(total, cursor, visible int) (int, int) {
	if total <= visible {
		return 0, total
	}
	start := cursor - visible/2
	if start < 0 {
		start = 0
	}
	end := start + visible
	if end > total {
		end = total
		start = end - visible
	}
	return start, end
}
