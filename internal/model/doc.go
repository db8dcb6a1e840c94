// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for notes, profiles and
// bookmarks.
//
// All records are plain structs derived from signed Nostr events. The
// protocol types (events, tags, signatures) come from go-nostr; this
// package only adds the derived fields the UI needs: thread references
// extracted from NIP-10 tags, content warnings, mention lists, and the
// profile metadata decoded from kind-0 JSON.
//
// Invariants are deliberately thin (uniqueness by event id and nothing
// else); anything stronger lives in the thread cache or feed layer.
package model
