// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"

	"github.com/nbd-wtf/go-nostr"
)

const testPubkey = "3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d"

// =============================================================================
// THREAD REFERENCE TESTS (NIP-10)
// =============================================================================

func TestThreadRefs(t *testing.T) {
	tests := []struct {
		name       string
		tags       nostr.Tags
		wantRoot   string
		wantParent string
	}{
		{
			name:       "no e tags means thread root",
			tags:       nostr.Tags{{"p", testPubkey}},
			wantRoot:   "",
			wantParent: "",
		},
		{
			name: "marked root and reply",
			tags: nostr.Tags{
				{"e", "rootid", "", "root"},
				{"e", "parentid", "", "reply"},
			},
			wantRoot:   "rootid",
			wantParent: "parentid",
		},
		{
			name:       "marked root only is direct reply to root",
			tags:       nostr.Tags{{"e", "rootid", "", "root"}},
			wantRoot:   "rootid",
			wantParent: "rootid",
		},
		{
			name:       "single unmarked e tag",
			tags:       nostr.Tags{{"e", "rootid"}},
			wantRoot:   "rootid",
			wantParent: "rootid",
		},
		{
			name: "positional fallback first root last parent",
			tags: nostr.Tags{
				{"e", "rootid"},
				{"e", "middleid"},
				{"e", "parentid"},
			},
			wantRoot:   "rootid",
			wantParent: "parentid",
		},
		{
			name: "mention marker ignored",
			tags: nostr.Tags{
				{"e", "quotedid", "", "mention"},
			},
			wantRoot:   "",
			wantParent: "",
		},
		{
			name: "marked beats positional",
			tags: nostr.Tags{
				{"e", "unmarked1"},
				{"e", "rootid", "wss://relay.example", "root"},
				{"e", "parentid", "", "reply"},
			},
			wantRoot:   "rootid",
			wantParent: "parentid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, parent := ThreadRefs(tt.tags)
			if root != tt.wantRoot || parent != tt.wantParent {
				t.Errorf("ThreadRefs() = (%q, %q), want (%q, %q)",
					root, parent, tt.wantRoot, tt.wantParent)
			}
		})
	}
}

// =============================================================================
// NOTE TESTS
// =============================================================================

func TestNoteFromEvent(t *testing.T) {
	evt := &nostr.Event{
		ID:        "abc123",
		PubKey:    testPubkey,
		Kind:      nostr.KindTextNote,
		CreatedAt: nostr.Timestamp(1700000000),
		Content:   "hello nostr",
		Tags: nostr.Tags{
			{"e", "rootid", "", "root"},
			{"p", testPubkey},
			{"content-warning", "graphic"},
		},
	}

	n := NoteFromEvent(evt)
	if n == nil {
		t.Fatal("NoteFromEvent() returned nil for kind 1")
	}
	if n.ID != "abc123" || n.Content != "hello nostr" {
		t.Errorf("identity fields not carried over: %+v", n)
	}
	if n.RootID != "rootid" || n.ParentID != "rootid" {
		t.Errorf("thread refs = (%q, %q)", n.RootID, n.ParentID)
	}
	if !n.IsReply() {
		t.Error("IsReply() = false, want true")
	}
	if n.ContentWarning != "graphic" {
		t.Errorf("ContentWarning = %q", n.ContentWarning)
	}
	if len(n.Mentions) != 1 || n.Mentions[0] != testPubkey {
		t.Errorf("Mentions = %v", n.Mentions)
	}
}

func TestNoteFromEventRejectsOtherKinds(t *testing.T) {
	evt := &nostr.Event{ID: "x", Kind: nostr.KindReaction}
	if n := NoteFromEvent(evt); n != nil {
		t.Errorf("NoteFromEvent(reaction) = %+v, want nil", n)
	}
	if n := NoteFromEvent(nil); n != nil {
		t.Error("NoteFromEvent(nil) should be nil")
	}
}

func TestRepostedNote(t *testing.T) {
	repost := &nostr.Event{
		ID:      "repostid",
		PubKey:  testPubkey,
		Kind:    nostr.KindRepost,
		Content: `{"id":"innerid","pubkey":"` + testPubkey + `","kind":1,"created_at":1700000000,"content":"original","tags":[]}`,
		Tags:    nostr.Tags{{"e", "innerid"}},
	}

	n := NoteFromEvent(repost)
	if n == nil || !n.IsRepost() {
		t.Fatal("expected repost note")
	}
	inner := n.RepostedNote()
	if inner == nil {
		t.Fatal("RepostedNote() = nil, want embedded event")
	}
	if inner.ID != "innerid" || inner.Content != "original" {
		t.Errorf("inner note = %+v", inner)
	}
	if got := n.RepostedID(); got != "innerid" {
		t.Errorf("RepostedID() = %q", got)
	}
}

func TestRepostedNoteMalformedContent(t *testing.T) {
	repost := &nostr.Event{
		ID:      "repostid",
		Kind:    nostr.KindRepost,
		Content: "not json",
		Tags:    nostr.Tags{{"e", "innerid"}},
	}
	n := NoteFromEvent(repost)
	if inner := n.RepostedNote(); inner != nil {
		t.Errorf("RepostedNote() = %+v, want nil for malformed content", inner)
	}
	// e-tag fallback still available
	if got := n.RepostedID(); got != "innerid" {
		t.Errorf("RepostedID() = %q", got)
	}
}

// =============================================================================
// PROFILE TESTS
// =============================================================================

func TestProfileFromEvent(t *testing.T) {
	evt := &nostr.Event{
		PubKey: testPubkey,
		Kind:   nostr.KindProfileMetadata,
		Content: `{"name":"fiatjaf","display_name":"Fiatjaf","about":"nostr dev",` +
			`"picture":"https://example.com/a.png","nip05":"_@fiatjaf.com","lud16":"me@walletofsatoshi.com"}`,
	}

	p, err := ProfileFromEvent(evt)
	if err != nil {
		t.Fatalf("ProfileFromEvent() error: %v", err)
	}
	if p.BestName() != "Fiatjaf" {
		t.Errorf("BestName() = %q, want display_name", p.BestName())
	}
	if !p.CanZap() {
		t.Error("CanZap() = false with lud16 set")
	}
	if p.Npub() == testPubkey {
		t.Error("Npub() did not bech32-encode a valid pubkey")
	}
}

func TestProfileFromEventMalformedJSON(t *testing.T) {
	evt := &nostr.Event{
		PubKey:  testPubkey,
		Kind:    nostr.KindProfileMetadata,
		Content: "{broken",
	}
	p, err := ProfileFromEvent(evt)
	if err != nil {
		t.Fatalf("malformed content should not error: %v", err)
	}
	if p.PubKey != testPubkey {
		t.Error("pubkey missing on fallback profile")
	}
	// Name falls back to shortened npub
	if p.BestName() == "" {
		t.Error("BestName() empty on fallback profile")
	}
}

func TestProfileFromEventWrongKind(t *testing.T) {
	if _, err := ProfileFromEvent(&nostr.Event{Kind: nostr.KindTextNote}); err == nil {
		t.Error("expected error for non-metadata kind")
	}
}
