// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package thread implements the in-memory thread-tree cache.
package thread

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"github.com/jeranaias/nostrum/internal/model"
)

// SnapshotVersion guards against loading snapshots written by an
// incompatible build.
const SnapshotVersion = 1

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is the flat serialized form of a tree: the raw signed events
// plus the root id and fetch time. Restoring re-ingests the events, so a
// round trip rebuilds an identical tree regardless of event order.
type Snapshot struct {
	Version   int            `json:"version"`
	RootID    string         `json:"root_id"`
	FetchedAt time.Time      `json:"fetched_at,omitempty"`
	Events    []*nostr.Event `json:"events"`
}

// Snapshot flattens the tree (attached nodes and orphans alike) into its
// serialized form.
func (t *Tree) Snapshot() *Snapshot {
	snap := &Snapshot{
		Version:   SnapshotVersion,
		RootID:    t.rootID,
		FetchedAt: t.fetchedAt,
		Events:    make([]*nostr.Event, 0, len(t.nodes)),
	}
	for _, node := range t.nodes {
		if node.Note != nil {
			snap.Events = append(snap.Events, node.Note.Event)
		}
	}
	return snap
}

// Restore rebuilds a tree from its snapshot.
func Restore(snap *Snapshot) (*Tree, error) {
	if snap == nil {
		return nil, fmt.Errorf("nil snapshot")
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d not supported", snap.Version)
	}
	if snap.RootID == "" {
		return nil, fmt.Errorf("snapshot missing root id")
	}

	tree := NewTree(snap.RootID)
	for _, evt := range snap.Events {
		tree.Ingest(model.NoteFromEvent(evt))
	}
	tree.fetchedAt = snap.FetchedAt
	return tree, nil
}

// Marshal encodes the snapshot as JSON for storage.
func (s *Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSnapshot decodes a stored snapshot.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode thread snapshot: %w", err)
	}
	return &snap, nil
}

// Snapshots serializes every cached tree, for session auto-save.
func (c *Cache) Snapshots() []*Snapshot {
	out := make([]*Snapshot, 0, len(c.trees))
	for _, tree := range c.trees {
		out = append(out, tree.Snapshot())
	}
	return out
}

// RestoreAll loads previously saved snapshots into the cache, skipping any
// that fail to decode. Best effort: a corrupt snapshot costs one thread,
// not the session.
func (c *Cache) RestoreAll(snaps []*Snapshot) int {
	restored := 0
	for _, snap := range snaps {
		tree, err := Restore(snap)
		if err != nil {
			continue
		}
		c.trees[tree.rootID] = tree
		c.lastUsed[tree.rootID] = time.Now()
		restored++
	}
	c.evict()
	return restored
}
