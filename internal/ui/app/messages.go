// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/nbd-wtf/go-nostr"

	"github.com/jeranaias/nostrum/internal/config"
	"github.com/jeranaias/nostrum/internal/model"
	"github.com/jeranaias/nostrum/internal/relay"
)

// =============================================================================
// FEED MESSAGES
// =============================================================================

// FeedRefreshedMsg carries the result of a feed refresh.
type FeedRefreshedMsg struct {
	Err error
}

// FeedPageMsg carries the result of loading an older page.
type FeedPageMsg struct {
	Exhausted bool
	Err       error
}

// =============================================================================
// THREAD MESSAGES
// =============================================================================

// ThreadLoadedMsg carries the raw events of a fetched thread.
type ThreadLoadedMsg struct {
	RootID string
	Events []*nostr.Event
	Err    error
}

// ZapTotalsMsg carries zap receipt totals for thread notes, in sats.
type ZapTotalsMsg struct {
	RootID string
	Totals map[string]int64
}

// =============================================================================
// PROFILE MESSAGES
// =============================================================================

// ProfileLoadedMsg carries a fetched (or cached) profile.
type ProfileLoadedMsg struct {
	Profile *model.Profile
	Err     error
}

// ProfilesLoadedMsg carries a batch of author profiles for display names.
type ProfilesLoadedMsg struct {
	Profiles []*model.Profile
}

// AuthorNotesMsg carries the recent notes for the profile view.
type AuthorNotesMsg struct {
	PubKey string
	Err    error
}

// =============================================================================
// PUBLISH MESSAGES
// =============================================================================

// PublishedMsg reports the outcome of publishing a note or reply.
type PublishedMsg struct {
	NoteID   string
	Accepted int
	Err      error
}

// =============================================================================
// ZAP MESSAGES
// =============================================================================

// ZapInvoiceMsg carries a bolt11 invoice for the zap modal, or the error
// that stopped the flow.
type ZapInvoiceMsg struct {
	Invoice string
	Err     error
}

// =============================================================================
// HOUSEKEEPING MESSAGES
// =============================================================================

// RelayStatusMsg refreshes the status bar's relay health.
type RelayStatusMsg struct {
	Statuses []relay.Status
}

// SnapshotsSavedMsg reports the periodic thread snapshot save.
type SnapshotsSavedMsg struct {
	Err error
}

// ConfigReloadedMsg carries the freshly loaded config after the watched
// config file changed on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}
