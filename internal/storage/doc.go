// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local persistence for nostrum.
//
// Three stores live under the state directory (~/.nostrum):
//
//   - BookmarkStore: bookmarks.json, a single atomic-written JSON file,
//     the local-storage analog of the original client.
//   - SnapshotStore: threads/<rootid>.json, serialized thread-cache trees
//     saved by the session auto-saver and restored on startup.
//   - CacheDB: cache.db, a SQLite database of recently seen notes and
//     profile metadata with fetched-at stamps for staleness decisions.
//
// All stores are best-effort: a corrupt file costs its contents, never
// the session.
package storage
