// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for notes, profiles and
// bookmarks.
package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
)

// Event kinds handled by the client. Kinds with stable names in go-nostr
// use the library constants at call sites; the ones below are the few this
// client needs that lack one.
const (
	// KindBookmarkList is the NIP-51 bookmark list (kind 10003).
	KindBookmarkList = 10003
)

// =============================================================================
// NOTE
// =============================================================================

// Note is a display-ready view of a Nostr text event (kind 1, 6 or 30023).
// It keeps the raw event for republishing and serialization, plus the
// derived fields the UI and thread cache read on every render.
type Note struct {
	// Raw signed event. Never mutated after construction.
	Event *nostr.Event

	// Identity fields copied out of the event for cheap access.
	ID        string
	PubKey    string
	Content   string
	CreatedAt time.Time
	Kind      int

	// Thread references extracted from NIP-10 e-tags.
	// RootID == "" means the note is a thread root itself.
	RootID   string
	ParentID string

	// Derived display fields
	ContentWarning string   // Reason from a content-warning tag, "" if none
	Mentions       []string // Hex pubkeys from p-tags
	Title          string   // Long-form (kind 30023) title tag
}

// NoteFromEvent builds a Note from a raw event. Returns nil for events the
// client does not render as notes.
func NoteFromEvent(evt *nostr.Event) *Note {
	if evt == nil {
		return nil
	}
	switch evt.Kind {
	case nostr.KindTextNote, nostr.KindRepost, nostr.KindArticle:
	default:
		return nil
	}

	n := &Note{
		Event:     evt,
		ID:        evt.ID,
		PubKey:    evt.PubKey,
		Content:   evt.Content,
		CreatedAt: evt.CreatedAt.Time(),
		Kind:      evt.Kind,
	}
	n.RootID, n.ParentID = ThreadRefs(evt.Tags)

	for _, tag := range evt.Tags {
		if len(tag) < 1 {
			continue
		}
		switch tag[0] {
		case "p":
			if len(tag) >= 2 && tag[1] != "" {
				n.Mentions = append(n.Mentions, tag[1])
			}
		case "content-warning":
			n.ContentWarning = "sensitive"
			if len(tag) >= 2 && tag[1] != "" {
				n.ContentWarning = tag[1]
			}
		case "title":
			if len(tag) >= 2 {
				n.Title = tag[1]
			}
		}
	}
	return n
}

// IsReply reports whether the note references a parent note.
func (n *Note) IsReply() bool {
	return n.ParentID != ""
}

// IsRepost reports whether the note is a kind-6 repost.
func (n *Note) IsRepost() bool {
	return n.Kind == nostr.KindRepost
}

// IsArticle reports whether the note is a long-form article (kind 30023).
func (n *Note) IsArticle() bool {
	return n.Kind == nostr.KindArticle
}

// RepostedNote decodes the original event a kind-6 repost carries in its
// content, if present and well-formed. Returns nil otherwise; the caller
// then falls back to fetching the e-tagged id from relays.
func (n *Note) RepostedNote() *Note {
	if !n.IsRepost() || strings.TrimSpace(n.Content) == "" {
		return nil
	}
	var inner nostr.Event
	if err := json.Unmarshal([]byte(n.Content), &inner); err != nil {
		return nil
	}
	if inner.ID == "" || inner.Kind != nostr.KindTextNote {
		return nil
	}
	return NoteFromEvent(&inner)
}

// RepostedID returns the e-tagged id of a repost, "" if absent.
func (n *Note) RepostedID() string {
	if !n.IsRepost() {
		return ""
	}
	for _, tag := range n.Event.Tags {
		if len(tag) >= 2 && tag[0] == "e" {
			return tag[1]
		}
	}
	return ""
}

// Nevent returns the bech32 note id for display and export. Falls back to
// the hex id if encoding fails (it only fails on malformed ids).
func (n *Note) Nevent() string {
	encoded, err := nip19.EncodeNote(n.ID)
	if err != nil {
		return n.ID
	}
	return encoded
}

// =============================================================================
// NIP-10 THREAD REFERENCES
// =============================================================================

// ThreadRefs extracts the root and parent note ids from a tag list per
// NIP-10. Marked e-tags ("root"/"reply") take precedence; unmarked tags
// fall back to positional interpretation: a single e-tag is both root and
// parent, otherwise first is root and last is parent.
//
// Returns ("", "") for a thread root. A reply directly under the root has
// RootID == ParentID.
func ThreadRefs(tags nostr.Tags) (rootID, parentID string) {
	var unmarked []string

	for _, tag := range tags {
		if len(tag) < 2 || tag[0] != "e" || tag[1] == "" {
			continue
		}
		marker := ""
		if len(tag) >= 4 {
			marker = tag[3]
		}
		switch marker {
		case "root":
			rootID = tag[1]
		case "reply":
			parentID = tag[1]
		case "mention":
			// Quoted notes are not thread links.
		default:
			unmarked = append(unmarked, tag[1])
		}
	}

	// Marked form complete: done.
	if rootID != "" && parentID != "" {
		return rootID, parentID
	}
	// Marked root only: reply directly to the root.
	if rootID != "" {
		return rootID, rootID
	}
	// Marked reply only: treat the parent as root too (deprecated but seen
	// in the wild).
	if parentID != "" {
		return parentID, parentID
	}

	// Positional fallback.
	switch len(unmarked) {
	case 0:
		return "", ""
	case 1:
		return unmarked[0], unmarked[0]
	default:
		return unmarked[0], unmarked[len(unmarked)-1]
	}
}

// =============================================================================
// BOOKMARK
// =============================================================================

// Bookmark is a saved note reference: note id plus an optional relay hint
// and the time it was saved.
type Bookmark struct {
	NoteID  string    `json:"note_id"`
	Relay   string    `json:"relay,omitempty"`
	Preview string    `json:"preview,omitempty"`
	Author  string    `json:"author,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}
