// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feed implements the feed/query layer.
//
// It wraps the relay pool to page through results with an Until cursor,
// applies the client-side filters relays cannot express (hide replies,
// hide reposts, sensitive-content policy, mutes), and deduplicates events
// by id across pages and relays. The result is a stable newest-first
// timeline the UI renders directly.
package feed
