// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"context"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/nostrum/internal/config"
	"github.com/jeranaias/nostrum/internal/model"
)

// fakeQuerier replays canned pages and records the filters it was asked
// for.
type fakeQuerier struct {
	pages   [][]*nostr.Event
	filters []nostr.Filter
}

func (q *fakeQuerier) Query(_ context.Context, filter nostr.Filter) ([]*nostr.Event, error) {
	q.filters = append(q.filters, filter)
	if len(q.pages) == 0 {
		return nil, nil
	}
	page := q.pages[0]
	q.pages = q.pages[1:]
	return page, nil
}

func textNote(id, pubkey string, ts int64, content string, tags ...nostr.Tag) *nostr.Event {
	return &nostr.Event{
		ID:        id,
		PubKey:    pubkey,
		Kind:      nostr.KindTextNote,
		CreatedAt: nostr.Timestamp(ts),
		Content:   content,
		Tags:      tags,
	}
}

func ids(notes []*model.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

// =============================================================================
// PAGING
// =============================================================================

func TestRefreshAndLoadMore(t *testing.T) {
	q := &fakeQuerier{pages: [][]*nostr.Event{
		{textNote("n3", "pk", 300, "three"), textNote("n2", "pk", 200, "two")},
		{textNote("n1", "pk", 100, "one")},
		{},
	}}
	f := New(q, Options{PageSize: 2})

	require.NoError(t, f.Refresh(context.Background()))
	assert.Equal(t, []string{"n3", "n2"}, ids(f.Notes()))

	require.NoError(t, f.LoadMore(context.Background()))
	assert.Equal(t, []string{"n3", "n2", "n1"}, ids(f.Notes()))

	// Until cursor must be strictly older than the oldest loaded event.
	require.Len(t, q.filters, 2)
	require.NotNil(t, q.filters[1].Until)
	assert.Equal(t, nostr.Timestamp(199), *q.filters[1].Until)

	// Dry relays report exhaustion.
	assert.ErrorIs(t, f.LoadMore(context.Background()), ErrExhausted)
}

func TestLoadMoreBeforeRefreshLoadsFirstPage(t *testing.T) {
	q := &fakeQuerier{pages: [][]*nostr.Event{
		{textNote("n1", "pk", 100, "one")},
	}}
	f := New(q, Options{})
	require.NoError(t, f.LoadMore(context.Background()))
	assert.Equal(t, 1, f.Len())
	assert.Nil(t, q.filters[0].Until)
}

func TestDedupeAcrossPages(t *testing.T) {
	dup := textNote("n2", "pk", 200, "two")
	q := &fakeQuerier{pages: [][]*nostr.Event{
		{textNote("n3", "pk", 300, "three"), dup},
		{dup, textNote("n1", "pk", 100, "one")},
	}}
	f := New(q, Options{})

	require.NoError(t, f.Refresh(context.Background()))
	require.NoError(t, f.LoadMore(context.Background()))
	assert.Equal(t, []string{"n3", "n2", "n1"}, ids(f.Notes()))
}

func TestFilterKindsFollowOptions(t *testing.T) {
	q := &fakeQuerier{}
	f := New(q, Options{
		IncludeArticles: true,
		Filter:          NoteFilter{ShowReposts: true, ShowReplies: true},
		Authors:         []string{"pk1"},
	})
	require.NoError(t, f.Refresh(context.Background()))

	sent := q.filters[0]
	assert.ElementsMatch(t, []int{nostr.KindTextNote, nostr.KindRepost, nostr.KindArticle}, sent.Kinds)
	assert.Equal(t, []string{"pk1"}, sent.Authors)
}

// =============================================================================
// SCREENING
// =============================================================================

func screeningConfig() *config.Config {
	cfg := config.Default()
	cfg.Feed.ShowReplies = false
	cfg.Feed.ShowReposts = false
	cfg.Filters.HideSensitive = true
	cfg.Filters.MutedPubkeys = []string{"badguy"}
	cfg.Filters.MutedWords = []string{"Spam"}
	cfg.Filters.SensitiveWords = []string{"gore"}
	return cfg
}

func TestNoteFilterScreening(t *testing.T) {
	filter := FilterFromConfig(screeningConfig())

	tests := []struct {
		name  string
		event *nostr.Event
		allow bool
	}{
		{"plain note passes", textNote("a", "pk", 100, "hello"), true},
		{"reply hidden", textNote("b", "pk", 100, "re", nostr.Tag{"e", "root", "", "root"}), false},
		{"muted author", textNote("c", "BADGUY", 100, "hi"), false},
		{"muted word case folded", textNote("d", "pk", 100, "buy SPAM now"), false},
		{"content warning hidden", textNote("e", "pk", 100, "x", nostr.Tag{"content-warning", "nsfw"}), false},
		{"sensitive word hidden", textNote("f", "pk", 100, "lots of GORE here"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note := model.NoteFromEvent(tt.event)
			assert.Equal(t, tt.allow, filter.Allow(note))
		})
	}
}

func TestRepostScreening(t *testing.T) {
	cfg := screeningConfig()
	cfg.Feed.ShowReposts = true
	filter := FilterFromConfig(cfg)

	// Repost of a muted author's note is dropped even though the
	// reposter is fine.
	repost := &nostr.Event{
		ID:        "r1",
		PubKey:    "goodguy",
		Kind:      nostr.KindRepost,
		CreatedAt: 100,
		Content:   `{"id":"inner","pubkey":"badguy","kind":1,"created_at":90,"content":"hi","tags":[]}`,
		Tags:      nostr.Tags{{"e", "inner"}},
	}
	assert.False(t, filter.Allow(model.NoteFromEvent(repost)))

	clean := &nostr.Event{
		ID:        "r2",
		PubKey:    "goodguy",
		Kind:      nostr.KindRepost,
		CreatedAt: 100,
		Content:   `{"id":"inner2","pubkey":"fineguy","kind":1,"created_at":90,"content":"hi","tags":[]}`,
		Tags:      nostr.Tags{{"e", "inner2"}},
	}
	assert.True(t, filter.Allow(model.NoteFromEvent(clean)))
}

func TestSetFilterRescreensLoadedNotes(t *testing.T) {
	q := &fakeQuerier{pages: [][]*nostr.Event{{
		textNote("keep", "pk", 300, "fine"),
		textNote("drop", "badguy", 200, "hello"),
	}}}
	f := New(q, Options{Filter: NoteFilter{ShowReplies: true, ShowReposts: true}})
	require.NoError(t, f.Refresh(context.Background()))
	require.Equal(t, 2, f.Len())

	cfg := config.Default()
	cfg.Feed.ShowReplies = true
	cfg.Feed.ShowReposts = true
	cfg.Filters.MutedPubkeys = []string{"badguy"}
	f.SetFilter(FilterFromConfig(cfg))

	assert.Equal(t, []string{"keep"}, ids(f.Notes()))
}

func TestPagingTerminatesOnFilteredPage(t *testing.T) {
	// A page that is entirely screened out must not report exhaustion:
	// the cursor still advanced.
	q := &fakeQuerier{pages: [][]*nostr.Event{
		{textNote("n1", "pk", 300, "first")},
		{textNote("muted", "badguy", 200, "all filtered")},
		{textNote("n2", "pk", 100, "more")},
	}}
	cfg := config.Default()
	cfg.Filters.MutedPubkeys = []string{"badguy"}
	cfg.Feed.ShowReplies = true
	cfg.Feed.ShowReposts = true
	f := New(q, Options{Filter: FilterFromConfig(cfg)})

	require.NoError(t, f.Refresh(context.Background()))
	require.NoError(t, f.LoadMore(context.Background()), "filtered page is not exhaustion")
	require.NoError(t, f.LoadMore(context.Background()))
	assert.Equal(t, []string{"n1", "n2"}, ids(f.Notes()))
}
