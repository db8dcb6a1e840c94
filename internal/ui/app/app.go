// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nostrum/internal/config"
	"github.com/jeranaias/nostrum/internal/feed"
	"github.com/jeranaias/nostrum/internal/keys"
	"github.com/jeranaias/nostrum/internal/model"
	"github.com/jeranaias/nostrum/internal/relay"
	"github.com/jeranaias/nostrum/internal/session"
	"github.com/jeranaias/nostrum/internal/storage"
	"github.com/jeranaias/nostrum/internal/thread"
	"github.com/jeranaias/nostrum/internal/ui/components"
	"github.com/jeranaias/nostrum/internal/ui/styles"
)

// =============================================================================
// VIEWS AND MODALS
// =============================================================================

// View identifies the active full-screen view.
type View int

const (
	ViewFeed View = iota
	ViewThread
	ViewProfile
	ViewBookmarks
)

// String returns the header label for the view.
func (v View) String() string {
	switch v {
	case ViewFeed:
		return "Feed"
	case ViewThread:
		return "Thread"
	case ViewProfile:
		return "Profile"
	case ViewBookmarks:
		return "Bookmarks"
	default:
		return "Unknown"
	}
}

// Modal identifies the overlay capturing input, if any.
type Modal int

const (
	ModalNone Modal = iota
	ModalCompose
	ModalZap
)

// =============================================================================
// MODEL
// =============================================================================

// Deps carries everything the model needs; main wires these up.
type Deps struct {
	Config    *config.Config
	Pool      *relay.Pool
	Identity  *keys.Identity // nil for read-only browsing
	Bookmarks *storage.BookmarkStore
	Snapshots *storage.SnapshotStore
	CacheDB   *storage.CacheDB
	DataDir   string
}

// Model is the top-level Bubble Tea model.
type Model struct {
	deps Deps
	keys KeyMap

	theme     *styles.Theme
	header    *components.Header
	statusBar *components.StatusBar
	spinner   components.Spinner
	toast     *components.Toast
	profCard  *components.ProfileCard

	width  int
	height int

	// Views
	view       View
	feed       *feed.Feed
	feedCursor int
	threads    *thread.Cache
	threadID   string
	threadRows []*thread.Node
	thCursor   int
	bmCursor   int

	// Profile view
	profilePubkey string
	profileFeed   *feed.Feed
	profCursor    int

	// Shared lookups
	profiles  map[string]*model.Profile // pubkey -> metadata
	zapTotals map[string]int64          // note id -> sats
	revealed  map[string]bool           // note id -> warning acknowledged

	// Modals
	modal       Modal
	composeArea textarea.Model
	replyTo     *model.Note
	zapTarget   *model.Note
	zapAmount   int64
	zapInvoice  string
	showHelp    bool

	// Session
	sess   *session.Manager
	scroll *session.ScrollState

	loading bool
	quit    bool
}

// New assembles the model from its dependencies.
func New(deps Deps) *Model {
	theme := styles.NewTheme()

	filter := feed.FilterFromConfig(deps.Config)
	mainFeed := feed.New(deps.Pool, feed.Options{
		PageSize: deps.Config.Feed.PageSize,
		Filter:   filter,
	})

	ta := textarea.New()
	ta.Placeholder = "What's on your mind?"
	ta.CharLimit = 0
	ta.ShowLineNumbers = false

	sess := session.NewManager(session.DefaultConfig())
	scroll := session.LoadScrollState(deps.DataDir)

	m := &Model{
		deps:        deps,
		keys:        DefaultKeyMap(),
		theme:       theme,
		header:      components.NewHeader(theme),
		statusBar:   components.NewStatusBar(theme),
		spinner:     components.NewSpinner(theme),
		toast:       components.NewToast(theme),
		profCard:    components.NewProfileCard(theme),
		feed:        mainFeed,
		threads:     thread.NewCache(deps.Config.Thread.MaxCached),
		profiles:    make(map[string]*model.Profile),
		zapTotals:   make(map[string]int64),
		revealed:    make(map[string]bool),
		composeArea: ta,
		zapAmount:   deps.Config.Zap.DefaultAmountSats,
		sess:        sess,
		scroll:      scroll,
	}

	if deps.Identity != nil {
		m.header.SetNpub(deps.Identity.Npub())
	}
	m.restoreThreads()
	return m
}

// restoreThreads loads persisted thread snapshots into the cache.
func (m *Model) restoreThreads() {
	if m.deps.Snapshots == nil {
		return
	}
	m.threads.RestoreAll(m.deps.Snapshots.LoadAll())
}

// queryTimeout derives the per-fetch deadline from config.
func (m *Model) queryTimeout() time.Duration {
	secs := m.deps.Config.Network.QueryTimeoutSeconds
	if secs <= 0 {
		secs = 10
	}
	return time.Duration(secs) * time.Second
}

// Init starts the first feed load and the session ticker.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	m.sess.MarkDirty()
	return tea.Batch(
		m.spinner.Start(),
		refreshFeed(m.feed, m.queryTimeout()),
		pollRelayStatus(m.deps.Pool),
		session.TickCmd(),
	)
}

// selectedNote returns the note under the cursor in the active view.
func (m *Model) selectedNote() *model.Note {
	switch m.view {
	case ViewFeed:
		notes := m.feed.Notes()
		if m.feedCursor >= 0 && m.feedCursor < len(notes) {
			return notes[m.feedCursor]
		}
	case ViewThread:
		if m.thCursor >= 0 && m.thCursor < len(m.threadRows) {
			return m.threadRows[m.thCursor].Note
		}
	case ViewProfile:
		if m.profileFeed == nil {
			return nil
		}
		notes := m.profileFeed.Notes()
		if m.profCursor >= 0 && m.profCursor < len(notes) {
			return notes[m.profCursor]
		}
	case ViewBookmarks:
		marks := m.deps.Bookmarks.All()
		if m.bmCursor >= 0 && m.bmCursor < len(marks) {
			// Bookmarks store previews, not full notes; resolve from
			// the event cache when possible.
			if m.deps.CacheDB != nil {
				if evt, err := m.deps.CacheDB.GetEvent(marks[m.bmCursor].NoteID); err == nil {
					return model.NoteFromEvent(evt)
				}
			}
		}
	}
	return nil
}

// displayName resolves a pubkey against fetched profiles.
func (m *Model) displayName(pubkey string) string {
	if p, ok := m.profiles[pubkey]; ok {
		return p.BestName()
	}
	return ""
}

// openThread switches to the thread view for a note, restoring any
// cached tree immediately and refreshing it in the background.
func (m *Model) openThread(note *model.Note) tea.Cmd {
	rootID := note.RootID
	if rootID == "" {
		rootID = note.ID
	}
	if inner := note.RepostedID(); note.IsRepost() && inner != "" {
		rootID = inner
	}

	m.view = ViewThread
	m.threadID = rootID
	m.header.SetView(m.view.String())

	tree := m.threads.Obtain(rootID)
	tree.Ingest(note)
	m.rebuildThreadRows()
	m.restoreCursor()

	maxAge := time.Duration(m.deps.Config.Thread.MaxAgeSeconds) * time.Second
	if !tree.Stale(maxAge, time.Now()) && tree.Len() > 1 {
		return nil
	}

	m.loading = true
	return tea.Batch(
		m.spinner.Start(),
		fetchThread(m.deps.Pool, rootID, m.queryTimeout()),
	)
}

// rebuildThreadRows flattens the active tree for display.
func (m *Model) rebuildThreadRows() {
	tree, ok := m.threads.Get(m.threadID)
	if !ok {
		m.threadRows = nil
		return
	}
	rows := tree.Flatten()
	rows = append(rows, tree.Orphans()...)
	m.threadRows = rows
	if m.thCursor >= len(rows) {
		m.thCursor = len(rows) - 1
	}
	if m.thCursor < 0 {
		m.thCursor = 0
	}
}

// viewKey is the scroll-state key for the current view.
func (m *Model) viewKey() string {
	if m.view == ViewThread {
		return "thread:" + m.threadID
	}
	return m.view.String()
}

// saveCursor records the cursor position for the current view.
func (m *Model) saveCursor() {
	note := m.selectedNote()
	pos := session.Position{Offset: m.cursor()}
	if note != nil {
		pos.SelectedID = note.ID
	}
	m.scroll.Save(m.viewKey(), pos)
	m.sess.MarkDirty()
}

// restoreCursor moves the cursor back to the stored position.
func (m *Model) restoreCursor() {
	pos, ok := m.scroll.Restore(m.viewKey())
	if !ok {
		return
	}
	m.setCursor(pos.Offset)
}

// cursor returns the active view's cursor.
func (m *Model) cursor() int {
	switch m.view {
	case ViewThread:
		return m.thCursor
	case ViewProfile:
		return m.profCursor
	case ViewBookmarks:
		return m.bmCursor
	default:
		return m.feedCursor
	}
}

// setCursor clamps and sets the active view's cursor.
func (m *Model) setCursor(n int) {
	if n < 0 {
		n = 0
	}
	max := m.rowCount() - 1
	if max < 0 {
		max = 0
	}
	if n > max {
		n = max
	}
	switch m.view {
	case ViewThread:
		m.thCursor = n
	case ViewProfile:
		m.profCursor = n
	case ViewBookmarks:
		m.bmCursor = n
	default:
		m.feedCursor = n
	}
}

// rowCount returns how many rows the active view holds.
func (m *Model) rowCount() int {
	switch m.view {
	case ViewThread:
		return len(m.threadRows)
	case ViewProfile:
		if m.profileFeed == nil {
			return 0
		}
		return m.profileFeed.Len()
	case ViewBookmarks:
		return m.deps.Bookmarks.Len()
	default:
		return m.feed.Len()
	}
}

// openProfile switches to the profile view for a pubkey.
func (m *Model) openProfile(pubkey string) tea.Cmd {
	m.view = ViewProfile
	m.profilePubkey = pubkey
	m.profCursor = 0
	m.header.SetView(m.view.String())

	m.profileFeed = feed.New(m.deps.Pool, feed.Options{
		PageSize: m.deps.Config.Feed.PageSize,
		Authors:  []string{pubkey},
		Filter:   feed.FilterFromConfig(m.deps.Config),
	})

	m.loading = true
	return tea.Batch(
		m.spinner.Start(),
		fetchProfile(m.deps.Pool, m.deps.CacheDB, pubkey, m.queryTimeout()),
		fetchAuthorNotes(m.profileFeed, pubkey, m.queryTimeout()),
	)
}

// autoSaveCmd persists threads and scroll positions.
func (m *Model) autoSaveCmd() tea.Cmd {
	if m.deps.Snapshots == nil {
		return nil
	}
	dir := m.deps.DataDir
	scroll := m.scroll
	return saveSnapshots(m.threads, m.deps.Snapshots, func() error {
		return scroll.Persist(dir)
	})
}

// zapRelays lists the relay URLs a zap receipt should be published to.
func (m *Model) zapRelays() []string {
	return m.deps.Config.Relays
}

// canSign reports whether write actions are available.
func (m *Model) canSign() bool {
	return m.deps.Identity != nil && m.deps.Identity.CanSign()
}

// requireIdentity shows a toast when a write action lacks a key.
func (m *Model) requireIdentity() bool {
	if m.canSign() {
		return true
	}
	m.toast.ShowError("no identity: run `nostrum keys generate` first")
	return false
}

// noteZaps returns the zap total for a note id.
func (m *Model) noteZaps(id string) int64 {
	return m.zapTotals[id]
}

// statusNoteCount keeps the status bar in sync with the active view.
func (m *Model) syncStatusBar() {
	m.statusBar.SetNoteCount(m.rowCount())
	m.statusBar.SetLoading(m.loading)

	up := 0
	statuses := m.deps.Pool.Statuses()
	for _, s := range statuses {
		if s.Connected {
			up++
		}
	}
	m.statusBar.SetRelays(up, len(statuses))
}

// threadNoteIDs lists the ids in the active thread, for zap lookups.
func (m *Model) threadNoteIDs() []string {
	ids := make([]string, 0, len(m.threadRows))
	for _, n := range m.threadRows {
		if n.Note != nil {
			ids = append(ids, n.Note.ID)
		}
	}
	return ids
}

// Quitting reports whether the model has been asked to exit.
func (m *Model) Quitting() bool { return m.quit }

// describePublish summarizes a publish result for the toast.
func describePublish(msg PublishedMsg) string {
	if msg.Err != nil {
		return fmt.Sprintf("publish failed: %v", msg.Err)
	}
	return fmt.Sprintf("published to %d relays", msg.Accepted)
}
