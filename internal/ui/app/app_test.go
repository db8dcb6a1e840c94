// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/nostrum/internal/config"
	"github.com/jeranaias/nostrum/internal/model"
	"github.com/jeranaias/nostrum/internal/relay"
	"github.com/jeranaias/nostrum/internal/storage"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()

	dir := t.TempDir()
	bookmarks, err := storage.OpenBookmarks(dir)
	require.NoError(t, err)

	cfg := config.Default()
	pool := relay.NewPool(relay.Options{Relays: []string{"wss://relay.test"}})

	return New(Deps{
		Config:    cfg,
		Pool:      pool,
		Bookmarks: bookmarks,
		DataDir:   dir,
	})
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// =============================================================================
// VIEW ROUTING
// =============================================================================

func TestViewString(t *testing.T) {
	cases := []struct {
		view View
		want string
	}{
		{ViewFeed, "Feed"},
		{ViewThread, "Thread"},
		{ViewProfile, "Profile"},
		{ViewBookmarks, "Bookmarks"},
		{View(99), "Unknown"},
	}
	for _, tc := range cases {
		if got := tc.view.String(); got != tc.want {
			t.Errorf("View(%d).String() = %q, want %q", tc.view, got, tc.want)
		}
	}
}

func TestCycleView(t *testing.T) {
	m := newTestModel(t)

	m.cycleView()
	require.Equal(t, ViewBookmarks, m.view)
	m.cycleView()
	require.Equal(t, ViewFeed, m.view)
}

func TestViewKey(t *testing.T) {
	m := newTestModel(t)

	if got := m.viewKey(); got != "Feed" {
		t.Errorf("viewKey() = %q", got)
	}

	m.view = ViewThread
	m.threadID = "abc123"
	if got := m.viewKey(); got != "thread:abc123" {
		t.Errorf("viewKey() = %q", got)
	}
}

// =============================================================================
// CURSOR
// =============================================================================

func TestCursorClampsToEmptyView(t *testing.T) {
	m := newTestModel(t)

	m.setCursor(42)
	if m.feedCursor != 0 {
		t.Errorf("feedCursor = %d, want 0 on empty feed", m.feedCursor)
	}

	m.setCursor(-5)
	if m.feedCursor != 0 {
		t.Errorf("feedCursor = %d, want 0", m.feedCursor)
	}
}

func TestListWindow(t *testing.T) {
	cases := []struct {
		name                string
		total, cursor, rows int
		wantStart, wantEnd  int
	}{
		{"fits entirely", 5, 2, 10, 0, 5},
		{"cursor at top", 100, 0, 10, 0, 10},
		{"cursor centered", 100, 50, 10, 45, 55},
		{"cursor at bottom", 100, 99, 10, 90, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := listWindow(tc.total, tc.cursor, tc.rows)
			if start != tc.wantStart || end != tc.wantEnd {
				t.Errorf("listWindow(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tc.total, tc.cursor, tc.rows, start, end, tc.wantStart, tc.wantEnd)
			}
			if tc.cursor < start || tc.cursor >= end {
				t.Errorf("cursor %d outside window [%d, %d)", tc.cursor, start, end)
			}
		})
	}
}

// =============================================================================
// IDENTITY GATING
// =============================================================================

func TestRequireIdentityWithoutKey(t *testing.T) {
	m := newTestModel(t)

	require.False(t, m.canSign())
	require.False(t, m.requireIdentity())
	require.True(t, m.toast.Visible(), "denial should surface a toast")
}

func TestComposeBlockedWithoutIdentity(t *testing.T) {
	m := newTestModel(t)

	_, _ = m.handleKey(keyRune('c'))
	if m.modal != ModalNone {
		t.Error("compose modal opened without an identity")
	}
}

// =============================================================================
// ZAP MODAL
// =============================================================================

func TestZapStep(t *testing.T) {
	cases := []struct {
		amount int64
		want   int64
	}{
		{21, 10},
		{999, 10},
		{1_000, 100},
		{10_000, 1_000},
		{100_000, 10_000},
	}
	for _, tc := range cases {
		if got := zapStep(tc.amount); got != tc.want {
			t.Errorf("zapStep(%d) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}

func TestZapModalDigitEntry(t *testing.T) {
	m := newTestModel(t)
	m.modal = ModalZap
	m.zapTarget = &model.Note{ID: "note1", PubKey: "pk1"}
	m.zapAmount = 0

	for _, r := range "2100" {
		_, _ = m.handleZapKey(keyRune(r))
	}
	require.EqualValues(t, 2100, m.zapAmount)

	_, _ = m.handleZapKey(tea.KeyMsg{Type: tea.KeyBackspace})
	require.EqualValues(t, 210, m.zapAmount)
}

func TestZapModalEscCloses(t *testing.T) {
	m := newTestModel(t)
	m.modal = ModalZap
	m.zapTarget = &model.Note{ID: "note1", PubKey: "pk1"}
	m.zapInvoice = "lnbc1..."

	_, _ = m.handleZapKey(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, ModalNone, m.modal)
	require.Empty(t, m.zapInvoice)
}

func TestOpenZapUsesConfiguredDefault(t *testing.T) {
	m := newTestModel(t)
	m.deps.Config.Zap.DefaultAmountSats = 21
	m.profiles["pk1"] = &model.Profile{PubKey: "pk1"}

	_ = m.openZap(&model.Note{ID: "note1", PubKey: "pk1"})
	require.Equal(t, ModalZap, m.modal)
	require.EqualValues(t, 21, m.zapAmount)
}

// =============================================================================
// MESSAGES
// =============================================================================

func TestThreadLoadedBuildsRows(t *testing.T) {
	m := newTestModel(t)
	m.view = ViewThread
	m.threadID = rootID

	tree := m.threads.Obtain(rootID)
	tree.Ingest(&model.Note{ID: rootID, PubKey: "alice", Content: "root", CreatedAt: time.Now()})
	tree.Ingest(&model.Note{ID: "reply1", PubKey: "bob", Content: "reply",
		RootID: rootID, ParentID: rootID, CreatedAt: time.Now()})

	m.rebuildThreadRows()
	require.Len(t, m.threadRows, 2)
	require.Equal(t, rootID, m.threadRows[0].ID())
	require.Equal(t, 1, m.threadRows[0].ReplyCount())
}

const rootID = "root1"

func TestZapTotalsMerge(t *testing.T) {
	m := newTestModel(t)

	_, _ = m.Update(ZapTotalsMsg{RootID: "r", Totals: map[string]int64{"a": 100}})
	_, _ = m.Update(ZapTotalsMsg{RootID: "r", Totals: map[string]int64{"b": 50}})

	require.EqualValues(t, 100, m.noteZaps("a"))
	require.EqualValues(t, 50, m.noteZaps("b"))
	require.EqualValues(t, 0, m.noteZaps("missing"))
}

func TestDescribePublish(t *testing.T) {
	got := describePublish(PublishedMsg{Accepted: 3})
	if got != "published to 3 relays" {
		t.Errorf("describePublish() = %q", got)
	}
}

func TestProfilesLoadedPopulatesLookup(t *testing.T) {
	m := newTestModel(t)

	_, _ = m.Update(ProfilesLoadedMsg{Profiles: []*model.Profile{
		{PubKey: "pk1", Name: "alice"},
	}})
	require.Equal(t, "alice", m.displayName("pk1"))
	require.Empty(t, m.displayName("unknown"))
}
