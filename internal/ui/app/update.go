// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nostrum/internal/config"
	"github.com/jeranaias/nostrum/internal/export"
	"github.com/jeranaias/nostrum/internal/feed"
	"github.com/jeranaias/nostrum/internal/model"
	"github.com/jeranaias/nostrum/internal/session"
	"github.com/jeranaias/nostrum/internal/ui/components"
)

// Update is the Bubble Tea message loop.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.header.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.profCard.SetWidth(msg.Width)
		m.composeArea.SetWidth(msg.Width - 10)
		return m, nil

	case tea.KeyMsg:
		m.sess.RecordActivity()
		return m.handleKey(msg)

	case session.TickMsg:
		return m, m.sess.HandleTick()

	case session.StaleMsg:
		m.toast.Show(components.ToastInfo, "feed may be stale, press R to refresh")
		return m, nil

	case session.AutoSaveMsg:
		return m, m.autoSaveCmd()

	case SnapshotsSavedMsg:
		if msg.Err == nil {
			m.sess.MarkClean()
		}
		return m, nil

	case FeedRefreshedMsg:
		return m.onFeedRefreshed(msg)

	case FeedPageMsg:
		m.loading = false
		m.spinner.Stop()
		if msg.Err != nil {
			m.toast.ShowError(fmt.Sprintf("load failed: %v", msg.Err))
		} else if msg.Exhausted {
			m.toast.Show(components.ToastInfo, "no older notes")
		}
		return m, m.missingProfilesCmd()

	case ThreadLoadedMsg:
		return m.onThreadLoaded(msg)

	case ZapTotalsMsg:
		for id, sats := range msg.Totals {
			m.zapTotals[id] = sats
		}
		return m, nil

	case ProfileLoadedMsg:
		m.loading = false
		m.spinner.Stop()
		if msg.Err != nil {
			m.toast.ShowError(fmt.Sprintf("profile fetch failed: %v", msg.Err))
			return m, nil
		}
		m.profiles[msg.Profile.PubKey] = msg.Profile
		if msg.Profile.PubKey == m.profilePubkey {
			m.profCard.SetProfile(msg.Profile)
		}
		return m, nil

	case ProfilesLoadedMsg:
		for _, p := range msg.Profiles {
			m.profiles[p.PubKey] = p
		}
		return m, nil

	case AuthorNotesMsg:
		m.loading = false
		m.spinner.Stop()
		if msg.Err != nil {
			m.toast.ShowError(fmt.Sprintf("author notes failed: %v", msg.Err))
		}
		return m, nil

	case PublishedMsg:
		m.loading = false
		m.spinner.Stop()
		if msg.Err != nil {
			m.toast.ShowError(describePublish(msg))
		} else {
			m.toast.Show(components.ToastSuccess, describePublish(msg))
			m.replyTo = nil
		}
		return m, nil

	case ZapInvoiceMsg:
		m.loading = false
		m.spinner.Stop()
		if msg.Err != nil {
			m.toast.ShowError(fmt.Sprintf("zap failed: %v", msg.Err))
			m.modal = ModalNone
			return m, nil
		}
		m.zapInvoice = msg.Invoice
		return m, nil

	case RelayStatusMsg:
		up := 0
		for _, s := range msg.Statuses {
			if s.Connected {
				up++
			}
		}
		m.statusBar.SetRelays(up, len(msg.Statuses))
		return m, nil

	case ConfigReloadedMsg:
		if msg.Config != nil {
			m.deps.Config = msg.Config
		}
		m.feed.SetFilter(feed.FilterFromConfig(m.deps.Config))
		m.toast.Show(components.ToastInfo, "configuration reloaded")
		return m, nil
	}

	// Spinner animation frames.
	if cmd := m.spinner.Update(msg); cmd != nil {
		return m, cmd
	}
	return m, nil
}

// onFeedRefreshed finishes a refresh and kicks off profile resolution.
func (m *Model) onFeedRefreshed(msg FeedRefreshedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	m.spinner.Stop()
	if msg.Err != nil {
		m.toast.ShowError(fmt.Sprintf("refresh failed: %v", msg.Err))
		return m, nil
	}
	m.feedCursor = 0
	return m, m.missingProfilesCmd()
}

// onThreadLoaded ingests fetched events into the thread tree.
func (m *Model) onThreadLoaded(msg ThreadLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	m.spinner.Stop()
	if msg.Err != nil {
		m.toast.ShowError(fmt.Sprintf("thread fetch failed: %v", msg.Err))
		return m, nil
	}

	tree := m.threads.Obtain(msg.RootID)
	for _, evt := range msg.Events {
		if note := model.NoteFromEvent(evt); note != nil {
			tree.Ingest(note)
		}
	}
	tree.Touch(time.Now())
	if m.deps.CacheDB != nil {
		_ = m.deps.CacheDB.PutEvents(msg.Events)
	}

	if msg.RootID == m.threadID {
		m.rebuildThreadRows()
	}
	m.sess.MarkDirty()

	return m, tea.Batch(
		fetchZapTotals(m.deps.Pool, msg.RootID, m.threadNoteIDs(), m.queryTimeout()),
		m.missingProfilesCmd(),
	)
}

// missingProfilesCmd fetches metadata for authors without a profile yet.
func (m *Model) missingProfilesCmd() tea.Cmd {
	seen := make(map[string]struct{})
	var missing []string

	collect := func(pubkey string) {
		if pubkey == "" {
			return
		}
		if _, ok := m.profiles[pubkey]; ok {
			return
		}
		if _, dup := seen[pubkey]; dup {
			return
		}
		seen[pubkey] = struct{}{}
		missing = append(missing, pubkey)
	}

	for _, n := range m.feed.Notes() {
		collect(n.PubKey)
	}
	for _, row := range m.threadRows {
		if row.Note != nil {
			collect(row.Note.PubKey)
		}
	}
	return fetchProfiles(m.deps.Pool, m.deps.CacheDB, missing, m.queryTimeout())
}

// =============================================================================
// KEY HANDLING
// =============================================================================

// handleKey routes a key press: modals first, then global bindings.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case ModalCompose:
		return m.handleComposeKey(msg)
	case ModalZap:
		return m.handleZapKey(msg)
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.saveCursor()
		m.quit = true
		return m, tea.Sequence(m.autoSaveCmd(), tea.Quit)

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.setCursor(m.cursor() + 1)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.setCursor(m.cursor() - 1)
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.setCursor(0)
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.setCursor(m.rowCount() - 1)
		return m, nil

	case key.Matches(msg, m.keys.CycleView):
		m.saveCursor()
		m.cycleView()
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.view != ViewFeed {
			m.saveCursor()
			m.view = ViewFeed
			m.header.SetView(m.view.String())
			m.restoreCursor()
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if note := m.selectedNote(); note != nil {
			m.saveCursor()
			return m, m.openThread(note)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		switch m.view {
		case ViewThread:
			return m, tea.Batch(m.spinner.Start(), fetchThread(m.deps.Pool, m.threadID, m.queryTimeout()))
		case ViewProfile:
			if m.profileFeed != nil {
				return m, tea.Batch(m.spinner.Start(), fetchAuthorNotes(m.profileFeed, m.profilePubkey, m.queryTimeout()))
			}
		}
		return m, tea.Batch(m.spinner.Start(), refreshFeed(m.feed, m.queryTimeout()))

	case key.Matches(msg, m.keys.LoadMore):
		if m.view == ViewFeed {
			m.loading = true
			return m, tea.Batch(m.spinner.Start(), loadMoreNotes(m.feed, m.queryTimeout()))
		}
		if m.view == ViewProfile && m.profileFeed != nil {
			m.loading = true
			return m, tea.Batch(m.spinner.Start(), loadMoreNotes(m.profileFeed, m.queryTimeout()))
		}
		return m, nil

	case key.Matches(msg, m.keys.Compose):
		if !m.requireIdentity() {
			return m, nil
		}
		m.replyTo = nil
		m.openCompose()
		return m, nil

	case key.Matches(msg, m.keys.Reply):
		note := m.selectedNote()
		if note == nil {
			return m, nil
		}
		if !m.requireIdentity() {
			return m, nil
		}
		m.replyTo = note
		m.openCompose()
		return m, nil

	case key.Matches(msg, m.keys.Bookmark):
		m.toggleBookmark()
		return m, nil

	case key.Matches(msg, m.keys.Zap):
		note := m.selectedNote()
		if note == nil {
			return m, nil
		}
		if !m.requireIdentity() {
			return m, nil
		}
		return m, m.openZap(note)

	case key.Matches(msg, m.keys.Profile):
		if note := m.selectedNote(); note != nil {
			m.saveCursor()
			return m, m.openProfile(note.PubKey)
		}
		return m, nil

	case key.Matches(msg, m.keys.Reveal):
		if note := m.selectedNote(); note != nil {
			m.revealed[note.ID] = true
		}
		return m, nil

	case key.Matches(msg, m.keys.Mute):
		m.muteSelectedAuthor()
		return m, nil

	case key.Matches(msg, m.keys.Export):
		m.exportThread()
		return m, nil
	}

	return m, nil
}

// cycleView rotates Feed -> Bookmarks -> Feed; thread and profile views
// are entered explicitly.
func (m *Model) cycleView() {
	if m.view == ViewFeed {
		m.view = ViewBookmarks
	} else {
		m.view = ViewFeed
	}
	m.header.SetView(m.view.String())
	m.restoreCursor()
}

// toggleBookmark bookmarks or unbookmarks the selection.
func (m *Model) toggleBookmark() {
	note := m.selectedNote()
	if note == nil {
		return
	}
	relayHint := ""
	if len(m.deps.Config.Relays) > 0 {
		relayHint = m.deps.Config.Relays[0]
	}
	on, err := m.deps.Bookmarks.Toggle(note, relayHint)
	if err != nil {
		m.toast.ShowError(fmt.Sprintf("bookmark failed: %v", err))
		return
	}
	if on {
		m.toast.Show(components.ToastSuccess, "bookmarked")
	} else {
		m.toast.Show(components.ToastInfo, "bookmark removed")
	}
}

// muteSelectedAuthor mutes the selection's author and rescreens the feed.
func (m *Model) muteSelectedAuthor() {
	note := m.selectedNote()
	if note == nil {
		return
	}
	if !m.deps.Config.MuteAuthor(note.PubKey) {
		return
	}
	if err := config.Save(m.deps.Config); err != nil {
		m.toast.ShowError(fmt.Sprintf("save config failed: %v", err))
	}
	m.feed.SetFilter(feed.FilterFromConfig(m.deps.Config))
	m.setCursor(m.cursor())
	m.toast.Show(components.ToastInfo, "author muted")
}

// exportThread writes the active thread to a Markdown file.
func (m *Model) exportThread() {
	if m.view != ViewThread {
		m.toast.Show(components.ToastInfo, "open a thread to export it")
		return
	}
	tree, ok := m.threads.Get(m.threadID)
	if !ok {
		return
	}

	opts := export.DefaultOptions()
	opts.ResolveName = m.displayName
	path, err := export.ExportMarkdown(tree, opts)
	if err != nil {
		m.toast.ShowError(fmt.Sprintf("export failed: %v", err))
		return
	}
	m.toast.Show(components.ToastSuccess, "exported to "+path)
}

// =============================================================================
// COMPOSE MODAL
// =============================================================================

// openCompose opens the compose modal; replyTo is set by the caller.
func (m *Model) openCompose() {
	m.modal = ModalCompose
	m.composeArea.Reset()
	m.composeArea.Focus()
}

// handleComposeKey drives the compose modal. Enter inserts a newline, so
// submission is ctrl+s and cancellation is esc.
func (m *Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.modal = ModalNone
		m.composeArea.Blur()
		return m, nil

	case "ctrl+s":
		content := m.composeArea.Value()
		if content == "" {
			m.toast.ShowError("nothing to publish")
			return m, nil
		}
		m.modal = ModalNone
		m.composeArea.Blur()
		m.loading = true
		return m, tea.Batch(
			m.spinner.Start(),
			publishNote(m.deps.Pool, m.deps.Identity, content, m.replyTo, m.queryTimeout()),
		)
	}

	var cmd tea.Cmd
	m.composeArea, cmd = m.composeArea.Update(msg)
	return m, cmd
}

// =============================================================================
// ZAP MODAL
// =============================================================================

// openZap opens the zap modal for the selection's author, fetching the
// profile first when it is not loaded yet.
func (m *Model) openZap(note *model.Note) tea.Cmd {
	m.zapTarget = note
	m.zapAmount = m.deps.Config.Zap.DefaultAmountSats
	m.zapInvoice = ""
	m.modal = ModalZap

	if _, ok := m.profiles[note.PubKey]; !ok {
		return fetchProfile(m.deps.Pool, m.deps.CacheDB, note.PubKey, m.queryTimeout())
	}
	return nil
}

// handleZapKey drives the zap modal: adjust the amount, confirm, close.
func (m *Model) handleZapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := msg.String()

	switch s {
	case "esc", "q":
		m.modal = ModalNone
		m.zapInvoice = ""
		return m, nil

	case "enter":
		if m.zapInvoice != "" {
			// Invoice is on screen; enter dismisses.
			m.modal = ModalNone
			m.zapInvoice = ""
			return m, nil
		}
		profile := m.profiles[m.zapTarget.PubKey]
		if profile == nil {
			m.toast.ShowError("profile not loaded yet")
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(
			m.spinner.Start(),
			fetchZapInvoice(
				m.deps.Identity, profile, m.zapTarget.ID, m.zapRelays(),
				m.zapAmount, m.deps.Config.Zap.Comment,
			),
		)

	case "+", "=":
		m.zapAmount += zapStep(m.zapAmount)
		return m, nil

	case "-", "_":
		m.zapAmount -= zapStep(m.zapAmount - 1)
		if m.zapAmount < 1 {
			m.zapAmount = 1
		}
		return m, nil

	case "backspace":
		m.zapAmount /= 10
		if m.zapAmount < 1 {
			m.zapAmount = 1
		}
		return m, nil
	}

	// Type digits to set an exact amount.
	if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		digit, _ := strconv.ParseInt(s, 10, 64)
		next := m.zapAmount*10 + digit
		if next <= 100_000_000 {
			m.zapAmount = next
		}
		return m, nil
	}

	return m, nil
}

// zapStep scales +/- adjustments to the amount's magnitude.
func zapStep(amount int64) int64 {
	switch {
	case amount >= 100_000:
		return 10_000
	case amount >= 10_000:
		return 1_000
	case amount >= 1_000:
		return 100
	default:
		return 10
	}
}
