// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feed implements the feed/query layer.
package feed

import (
	"context"
	"errors"

	"github.com/nbd-wtf/go-nostr"

	"github.com/jeranaias/nostrum/internal/model"
)

// ErrExhausted is returned by LoadMore once relays stop returning older
// events.
var ErrExhausted = errors.New("feed exhausted")

// Querier is the slice of the relay pool the feed needs. Satisfied by
// *relay.Pool.
type Querier interface {
	Query(ctx context.Context, filter nostr.Filter) ([]*nostr.Event, error)
}

// =============================================================================
// FEED
// =============================================================================

// Options configures a feed timeline.
type Options struct {
	// PageSize per relay request.
	PageSize int
	// Authors restricts the timeline to the given hex pubkeys (profile
	// view); empty means the global timeline.
	Authors []string
	// IncludeArticles adds long-form kind 30023 to the requested kinds.
	IncludeArticles bool
	// Filter is the client-side screening applied to every page.
	Filter NoteFilter
}

// Feed is a pageable, deduplicated, newest-first timeline.
type Feed struct {
	querier Querier
	opts    Options

	notes  []*model.Note
	seen   map[string]struct{}
	oldest nostr.Timestamp
}

// New creates an empty feed; call Refresh to load the first page.
func New(querier Querier, opts Options) *Feed {
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}
	return &Feed{
		querier: querier,
		opts:    opts,
		seen:    make(map[string]struct{}),
	}
}

// Notes returns the current timeline, newest first.
func (f *Feed) Notes() []*model.Note { return f.notes }

// Len returns the number of notes in the timeline.
func (f *Feed) Len() int { return len(f.notes) }

// SetFilter swaps the screening rules (config reload). Takes effect on
// the next Refresh; already-loaded notes are re-screened immediately.
func (f *Feed) SetFilter(filter NoteFilter) {
	f.opts.Filter = filter
	kept := f.notes[:0]
	for _, n := range f.notes {
		if filter.Allow(n) {
			kept = append(kept, n)
		}
	}
	f.notes = kept
}

// Refresh discards the timeline and loads the newest page.
func (f *Feed) Refresh(ctx context.Context) error {
	events, err := f.querier.Query(ctx, f.filter(nil))
	if err != nil {
		return err
	}
	f.notes = nil
	f.seen = make(map[string]struct{})
	f.oldest = 0
	f.ingest(events)
	return nil
}

// LoadMore fetches the page older than everything already loaded and
// appends it. Returns ErrExhausted when relays have nothing older.
func (f *Feed) LoadMore(ctx context.Context) error {
	if f.oldest == 0 {
		return f.Refresh(ctx)
	}
	// Until-cursor: strictly older than the oldest loaded event.
	until := f.oldest - 1
	events, err := f.querier.Query(ctx, f.filter(&until))
	if err != nil {
		return err
	}
	if f.ingest(events) == 0 {
		return ErrExhausted
	}
	return nil
}

// filter builds the relay-side filter for one page.
func (f *Feed) filter(until *nostr.Timestamp) nostr.Filter {
	kinds := []int{nostr.KindTextNote}
	if f.opts.Filter.ShowReposts {
		kinds = append(kinds, nostr.KindRepost)
	}
	if f.opts.IncludeArticles {
		kinds = append(kinds, nostr.KindArticle)
	}
	return nostr.Filter{
		Kinds:   kinds,
		Authors: f.opts.Authors,
		Limit:   f.opts.PageSize,
		Until:   until,
	}
}

// ingest screens, dedupes and appends a page, returning how many events
// were genuinely new (pre-screening, so paging terminates only when the
// relays are dry, not when a page happens to be all-filtered).
func (f *Feed) ingest(events []*nostr.Event) int {
	fresh := 0
	for _, evt := range events {
		if evt == nil || evt.ID == "" {
			continue
		}
		if _, dup := f.seen[evt.ID]; dup {
			continue
		}
		f.seen[evt.ID] = struct{}{}
		fresh++
		if f.oldest == 0 || evt.CreatedAt < f.oldest {
			f.oldest = evt.CreatedAt
		}
		note := model.NoteFromEvent(evt)
		if note == nil || !f.opts.Filter.Allow(note) {
			continue
		}
		f.notes = append(f.notes, note)
	}
	return fresh
}
