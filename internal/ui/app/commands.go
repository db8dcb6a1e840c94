// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nbd-wtf/go-nostr"

	"github.com/jeranaias/nostrum/internal/feed"
	"github.com/jeranaias/nostrum/internal/keys"
	"github.com/jeranaias/nostrum/internal/model"
	"github.com/jeranaias/nostrum/internal/relay"
	"github.com/jeranaias/nostrum/internal/storage"
	"github.com/jeranaias/nostrum/internal/thread"
	"github.com/jeranaias/nostrum/internal/zaps"
)

// profileMaxAge is how long a cached profile is served without refetch.
const profileMaxAge = time.Hour

// =============================================================================
// FEED COMMANDS
// =============================================================================

// refreshFeed reloads the newest page in the background.
func refreshFeed(f *feed.Feed, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return FeedRefreshedMsg{Err: f.Refresh(ctx)}
	}
}

// loadMoreNotes pages the feed backwards in time.
func loadMoreNotes(f *feed.Feed, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := f.LoadMore(ctx)
		if errors.Is(err, feed.ErrExhausted) {
			return FeedPageMsg{Exhausted: true}
		}
		return FeedPageMsg{Err: err}
	}
}

// =============================================================================
// THREAD COMMANDS
// =============================================================================

// fetchThread pulls the root note and everything referencing it.
func fetchThread(pool *relay.Pool, rootID string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		rootEvents, rootErr := pool.Query(ctx, nostr.Filter{
			IDs: []string{rootID},
		})
		replyEvents, replyErr := pool.Query(ctx, nostr.Filter{
			Kinds: []int{nostr.KindTextNote},
			Tags:  nostr.TagMap{"e": []string{rootID}},
		})

		if rootErr != nil && replyErr != nil {
			return ThreadLoadedMsg{RootID: rootID, Err: rootErr}
		}
		return ThreadLoadedMsg{
			RootID: rootID,
			Events: relay.MergeEvents(rootEvents, replyEvents),
		}
	}
}

// fetchZapTotals pulls zap receipts for the given note ids and sums them.
func fetchZapTotals(pool *relay.Pool, rootID string, noteIDs []string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		events, err := pool.Query(ctx, nostr.Filter{
			Kinds: []int{nostr.KindZap},
			Tags:  nostr.TagMap{"e": noteIDs},
		})
		if err != nil {
			return ZapTotalsMsg{RootID: rootID}
		}
		return ZapTotalsMsg{RootID: rootID, Totals: zaps.TotalsByNote(events)}
	}
}

// =============================================================================
// PROFILE COMMANDS
// =============================================================================

// fetchProfile serves a profile from the cache database when fresh,
// otherwise queries relays for the kind-0 event and caches the result.
func fetchProfile(pool *relay.Pool, db *storage.CacheDB, pubkey string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if db != nil {
			if cached, fetched, err := db.GetProfile(pubkey); err == nil {
				if time.Since(fetched) < profileMaxAge {
					return ProfileLoadedMsg{Profile: cached}
				}
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		events, err := pool.Query(ctx, nostr.Filter{
			Kinds:   []int{nostr.KindProfileMetadata},
			Authors: []string{pubkey},
			Limit:   1,
		})
		if err != nil {
			return ProfileLoadedMsg{Err: err}
		}
		if len(events) == 0 {
			// No metadata published; show the bare pubkey.
			return ProfileLoadedMsg{Profile: &model.Profile{PubKey: pubkey}}
		}

		profile, err := model.ProfileFromEvent(events[0])
		if err != nil {
			return ProfileLoadedMsg{Err: err}
		}
		if db != nil {
			_ = db.PutProfile(profile)
		}
		return ProfileLoadedMsg{Profile: profile}
	}
}

// fetchProfiles pulls kind-0 metadata for a batch of authors in one
// query, for feed display names.
func fetchProfiles(pool *relay.Pool, db *storage.CacheDB, pubkeys []string, timeout time.Duration) tea.Cmd {
	if len(pubkeys) == 0 {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		events, err := pool.Query(ctx, nostr.Filter{
			Kinds:   []int{nostr.KindProfileMetadata},
			Authors: pubkeys,
		})
		if err != nil {
			return ProfilesLoadedMsg{}
		}

		// Relays may return several kind-0 events per author; keep the
		// newest only. Query results are already newest first.
		seen := make(map[string]struct{}, len(pubkeys))
		var profiles []*model.Profile
		for _, evt := range events {
			if _, dup := seen[evt.PubKey]; dup {
				continue
			}
			profile, err := model.ProfileFromEvent(evt)
			if err != nil {
				continue
			}
			seen[evt.PubKey] = struct{}{}
			profiles = append(profiles, profile)
			if db != nil {
				_ = db.PutProfile(profile)
			}
		}
		return ProfilesLoadedMsg{Profiles: profiles}
	}
}

// fetchAuthorNotes refreshes the profile view's author feed.
func fetchAuthorNotes(f *feed.Feed, pubkey string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return AuthorNotesMsg{PubKey: pubkey, Err: f.Refresh(ctx)}
	}
}

// =============================================================================
// PUBLISH COMMANDS
// =============================================================================

// publishNote signs and publishes a new note, threading it under parent
// when replying.
func publishNote(pool *relay.Pool, id *keys.Identity, content string, parent *model.Note, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		evt := nostr.Event{
			Kind:      nostr.KindTextNote,
			CreatedAt: nostr.Now(),
			Content:   content,
			Tags:      nostr.Tags{},
		}

		if parent != nil {
			rootID := parent.RootID
			if rootID == "" {
				rootID = parent.ID
			}
			evt.Tags = append(evt.Tags, nostr.Tag{"e", rootID, "", "root"})
			if parent.ID != rootID {
				evt.Tags = append(evt.Tags, nostr.Tag{"e", parent.ID, "", "reply"})
			}
			evt.Tags = append(evt.Tags, nostr.Tag{"p", parent.PubKey})
		}

		if err := id.Sign(&evt); err != nil {
			return PublishedMsg{Err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		accepted, err := pool.Publish(ctx, evt)
		return PublishedMsg{NoteID: evt.ID, Accepted: accepted, Err: err}
	}
}

// =============================================================================
// ZAP COMMANDS
// =============================================================================

// fetchZapInvoice runs the full zap flow up to the invoice: resolve the
// recipient's Lightning address, sign the zap request, call the LNURL
// callback. The invoice is displayed for an external wallet to pay.
func fetchZapInvoice(id *keys.Identity, profile *model.Profile, noteID string, relays []string, amountSats int64, comment string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		endpoint, err := zaps.ResolveEndpoint(ctx, profile)
		if err != nil {
			return ZapInvoiceMsg{Err: err}
		}

		amountMsat := amountSats * 1000
		request, err := zaps.BuildZapRequest(id, profile.PubKey, noteID, relays, amountMsat, comment)
		if err != nil {
			return ZapInvoiceMsg{Err: err}
		}

		invoice, err := zaps.FetchInvoice(ctx, endpoint, request, amountMsat)
		if err != nil {
			return ZapInvoiceMsg{Err: err}
		}
		return ZapInvoiceMsg{Invoice: invoice}
	}
}

// =============================================================================
// HOUSEKEEPING COMMANDS
// =============================================================================

// pollRelayStatus refreshes the status bar's relay health.
func pollRelayStatus(pool *relay.Pool) tea.Cmd {
	return func() tea.Msg {
		return RelayStatusMsg{Statuses: pool.Statuses()}
	}
}

// saveSnapshots persists the thread cache and scroll state.
func saveSnapshots(cache *thread.Cache, store *storage.SnapshotStore, persistScroll func() error) tea.Cmd {
	return func() tea.Msg {
		if err := store.SaveAll(cache.Snapshots()); err != nil {
			return SnapshotsSavedMsg{Err: err}
		}
		if persistScroll != nil {
			if err := persistScroll(); err != nil {
				return SnapshotsSavedMsg{Err: err}
			}
		}
		return SnapshotsSavedMsg{}
	}
}
