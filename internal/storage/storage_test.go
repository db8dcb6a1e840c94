// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"github.com/jeranaias/nostrum/internal/model"
	"github.com/jeranaias/nostrum/internal/thread"
)

func note(id, content string) *model.Note {
	return model.NoteFromEvent(&nostr.Event{
		ID:        id,
		PubKey:    "author",
		Kind:      nostr.KindTextNote,
		CreatedAt: nostr.Timestamp(100),
		Content:   content,
	})
}

// =============================================================================
// BOOKMARKS
// =============================================================================

func TestBookmarkAddHasRemove(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenBookmarks(dir)
	if err != nil {
		t.Fatalf("OpenBookmarks() error: %v", err)
	}

	if err := s.Add(note("n1", "first note\nsecond line"), "wss://r.example"); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if !s.Has("n1") {
		t.Error("Has() = false after Add")
	}

	// Duplicate add is a no-op
	if err := s.Add(note("n1", "first note"), ""); err != nil {
		t.Fatalf("duplicate Add() error: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d after duplicate add", s.Len())
	}

	if err := s.Remove("n1"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if err := s.Remove("n1"); !errors.Is(err, ErrNotBookmarked) {
		t.Errorf("second Remove() = %v, want ErrNotBookmarked", err)
	}
}

func TestBookmarksPersistAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s, _ := OpenBookmarks(dir)
	s.Add(note("n1", "keep me"), "")
	s.Add(note("n2", "me too"), "")

	reopened, err := OpenBookmarks(dir)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	if reopened.Len() != 2 {
		t.Fatalf("reopened Len() = %d, want 2", reopened.Len())
	}
	all := reopened.All()
	if all[0].Preview == "" || all[0].Author != "author" {
		t.Errorf("bookmark fields lost: %+v", all[0])
	}
}

func TestBookmarksCorruptFileStartsFresh(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bookmarks.json")
	os.WriteFile(path, []byte("{definitely not json"), 0600)

	s, err := OpenBookmarks(dir)
	if err != nil {
		t.Fatalf("OpenBookmarks() on corrupt file error: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d on corrupt file", s.Len())
	}
	// Old file preserved for recovery
	if _, err := os.Stat(path + ".corrupt"); err != nil {
		t.Error("corrupt file was not kept aside")
	}
}

func TestBookmarkToggle(t *testing.T) {
	s, _ := OpenBookmarks(t.TempDir())
	n := note("n1", "toggle")

	on, err := s.Toggle(n, "")
	if err != nil || !on {
		t.Fatalf("Toggle() = %v, %v; want true, nil", on, err)
	}
	off, err := s.Toggle(n, "")
	if err != nil || off {
		t.Fatalf("second Toggle() = %v, %v; want false, nil", off, err)
	}
}

// =============================================================================
// THREAD SNAPSHOTS
// =============================================================================

func TestSnapshotStoreRoundTrip(t *testing.T) {
	s, err := OpenSnapshots(t.TempDir())
	if err != nil {
		t.Fatalf("OpenSnapshots() error: %v", err)
	}

	rootID := strings.Repeat("ab", 32)
	tree := thread.NewTree(rootID)
	tree.Ingest(model.NoteFromEvent(&nostr.Event{
		ID: rootID, Kind: nostr.KindTextNote, CreatedAt: 100, Content: "root",
	}))

	if err := s.SaveAll([]*thread.Snapshot{tree.Snapshot()}); err != nil {
		t.Fatalf("SaveAll() error: %v", err)
	}

	snaps := s.LoadAll()
	if len(snaps) != 1 || snaps[0].RootID != rootID {
		t.Fatalf("LoadAll() = %v", snaps)
	}

	s.Delete(rootID)
	if len(s.LoadAll()) != 0 {
		t.Error("snapshot remains after Delete()")
	}
}

func TestSnapshotStoreRejectsNonHexIDs(t *testing.T) {
	s, _ := OpenSnapshots(t.TempDir())
	// Path traversal attempt must be ignored, not written.
	if err := s.Save(&thread.Snapshot{Version: thread.SnapshotVersion, RootID: "../evil"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if len(s.LoadAll()) != 0 {
		t.Error("non-hex root id was persisted")
	}
}

// =============================================================================
// CACHE DATABASE
// =============================================================================

func openTestDB(t *testing.T) *CacheDB {
	t.Helper()
	db, err := OpenCacheDB(t.TempDir())
	if err != nil {
		t.Fatalf("OpenCacheDB() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCacheDBEvents(t *testing.T) {
	db := openTestDB(t)

	events := []*nostr.Event{
		{ID: "e1", PubKey: "pk", Kind: 1, CreatedAt: 100, Content: "one"},
		{ID: "e2", PubKey: "pk", Kind: 1, CreatedAt: 300, Content: "two"},
		{ID: "e3", PubKey: "pk", Kind: 6, CreatedAt: 200, Content: ""},
		nil,
	}
	if err := db.PutEvents(events); err != nil {
		t.Fatalf("PutEvents() error: %v", err)
	}

	got, err := db.GetEvent("e1")
	if err != nil {
		t.Fatalf("GetEvent() error: %v", err)
	}
	if got.Content != "one" {
		t.Errorf("GetEvent().Content = %q", got.Content)
	}

	if _, err := db.GetEvent("missing"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetEvent(missing) = %v, want ErrCacheMiss", err)
	}

	// Kind filter + newest-first ordering
	recent, err := db.RecentEvents([]int{1}, 10)
	if err != nil {
		t.Fatalf("RecentEvents() error: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "e2" || recent[1].ID != "e1" {
		t.Errorf("RecentEvents() = %v", recent)
	}

	// Upsert does not duplicate
	if err := db.PutEvents(events[:1]); err != nil {
		t.Fatal(err)
	}
	evCount, _, err := db.Stats()
	if err != nil || evCount != 3 {
		t.Errorf("Stats() events = %d, want 3", evCount)
	}
}

func TestCacheDBProfiles(t *testing.T) {
	db := openTestDB(t)

	p := &model.Profile{PubKey: "pk1", Name: "alice", Lud16: "alice@ln.example"}
	if err := db.PutProfile(p); err != nil {
		t.Fatalf("PutProfile() error: %v", err)
	}

	got, fetched, err := db.GetProfile("pk1")
	if err != nil {
		t.Fatalf("GetProfile() error: %v", err)
	}
	if got.Name != "alice" || got.Lud16 != "alice@ln.example" {
		t.Errorf("GetProfile() = %+v", got)
	}
	if time.Since(fetched) > time.Minute {
		t.Errorf("fetched_at = %v, want recent", fetched)
	}

	if _, _, err := db.GetProfile("missing"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetProfile(missing) = %v, want ErrCacheMiss", err)
	}
	if err := db.PutProfile(nil); err == nil {
		t.Error("PutProfile(nil) should fail")
	}
}

func TestCacheDBPrune(t *testing.T) {
	db := openTestDB(t)
	db.PutEvents([]*nostr.Event{{ID: "e1", PubKey: "pk", Kind: 1, CreatedAt: 100}})

	// Nothing fetched before the distant past
	n, err := db.PruneEvents(time.Now().Add(-time.Hour))
	if err != nil || n != 0 {
		t.Errorf("PruneEvents(past) = %d, %v", n, err)
	}
	// Everything fetched before the future
	n, err = db.PruneEvents(time.Now().Add(time.Hour))
	if err != nil || n != 1 {
		t.Errorf("PruneEvents(future) = %d, %v", n, err)
	}
}
