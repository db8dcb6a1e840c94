// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package thread implements the in-memory thread-tree cache.
//
// Relays return reply threads as flat, arbitrarily-ordered event lists.
// This package reconstructs the navigable tree: each note becomes a node
// with parent/child/sibling links and a depth, keyed by note id. Children
// arriving before their parent are parked as orphans and re-linked when
// the parent shows up.
//
// Trees serialize to a flat snapshot (the raw events plus fetch time) so
// they survive restarts, and each tree tracks when it was last fetched so
// the UI knows when a refresh is due.
//
// The cache is used from the Bubble Tea update loop only and is not
// goroutine-safe.
package thread
