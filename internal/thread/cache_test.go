// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package thread

import (
	"testing"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"github.com/jeranaias/nostrum/internal/model"
)

// mknote builds a kind-1 note with marked NIP-10 tags. root=="" and
// parent=="" produce a thread root.
func mknote(id, root, parent string, ts int64) *model.Note {
	tags := nostr.Tags{}
	if root != "" {
		tags = append(tags, nostr.Tag{"e", root, "", "root"})
	}
	if parent != "" && parent != root {
		tags = append(tags, nostr.Tag{"e", parent, "", "reply"})
	}
	return model.NoteFromEvent(&nostr.Event{
		ID:        id,
		PubKey:    "author",
		Kind:      nostr.KindTextNote,
		CreatedAt: nostr.Timestamp(ts),
		Content:   "note " + id,
		Tags:      tags,
	})
}

// flatIDs returns "id:depth" pairs in render order.
func flatIDs(t *Tree) []string {
	var out []string
	for _, n := range t.Flatten() {
		out = append(out, n.ID()+":"+string(rune('0'+n.Depth)))
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// =============================================================================
// TREE BUILDING
// =============================================================================

func TestIngestInOrder(t *testing.T) {
	tree := NewTree("root")
	notes := []*model.Note{
		mknote("root", "", "", 100),
		mknote("a", "root", "root", 110),
		mknote("b", "root", "root", 120),
		mknote("a1", "root", "a", 130),
		mknote("a1x", "root", "a1", 140),
	}
	if added := tree.IngestAll(notes); added != 5 {
		t.Fatalf("IngestAll() added = %d, want 5", added)
	}

	want := []string{"root:0", "a:1", "a1:2", "a1x:3", "b:1"}
	if got := flatIDs(tree); !equalStrings(got, want) {
		t.Errorf("Flatten() = %v, want %v", got, want)
	}
	if tree.Len() != 5 {
		t.Errorf("Len() = %d", tree.Len())
	}
	if got := tree.Root().ReplyCount(); got != 4 {
		t.Errorf("ReplyCount() = %d, want 4", got)
	}
}

func TestIngestArbitraryOrderMatchesInOrder(t *testing.T) {
	notes := []*model.Note{
		mknote("root", "", "", 100),
		mknote("a", "root", "root", 110),
		mknote("b", "root", "root", 120),
		mknote("a1", "root", "a", 130),
		mknote("a1x", "root", "a1", 140),
		mknote("b1", "root", "b", 150),
	}

	ordered := NewTree("root")
	ordered.IngestAll(notes)

	// Deepest first: every note orphaned until its ancestors arrive.
	reversed := NewTree("root")
	for i := len(notes) - 1; i >= 0; i-- {
		reversed.Ingest(notes[i])
	}

	if got, want := flatIDs(reversed), flatIDs(ordered); !equalStrings(got, want) {
		t.Errorf("reverse ingest Flatten() = %v, want %v", got, want)
	}
	if len(reversed.Orphans()) != 0 {
		t.Errorf("Orphans() not empty after all parents arrived: %d", len(reversed.Orphans()))
	}
}

func TestIngestDuplicateIsNoOp(t *testing.T) {
	tree := NewTree("root")
	note := mknote("root", "", "", 100)
	if !tree.Ingest(note) {
		t.Fatal("first Ingest() = false")
	}
	if tree.Ingest(mknote("root", "", "", 999)) {
		t.Error("duplicate Ingest() = true, want no-op")
	}
	if tree.Len() != 1 {
		t.Errorf("Len() = %d after duplicate", tree.Len())
	}
	// Original content retained
	if tree.Root().Note.CreatedAt.Unix() != 100 {
		t.Error("duplicate ingest replaced the original note")
	}
}

func TestRepliesBeforeRootAttachToPlaceholder(t *testing.T) {
	tree := NewTree("root")
	tree.Ingest(mknote("a", "root", "root", 110))
	tree.Ingest(mknote("a1", "root", "a", 120))

	// Replies render under the placeholder while the root loads.
	if tree.Root().Note != nil {
		t.Fatal("placeholder root should have nil note")
	}
	want := []string{":0", "a:1", "a1:2"}
	if got := flatIDs(tree); !equalStrings(got, want) {
		t.Errorf("Flatten() = %v, want %v", got, want)
	}

	// Root arrival fills the placeholder without relinking children.
	tree.Ingest(mknote("root", "", "", 100))
	want = []string{"root:0", "a:1", "a1:2"}
	if got := flatIDs(tree); !equalStrings(got, want) {
		t.Errorf("after root arrival Flatten() = %v, want %v", got, want)
	}
}

func TestOrphanDepthRenumberedOnAttach(t *testing.T) {
	tree := NewTree("root")
	tree.Ingest(mknote("root", "", "", 100))
	// Orphan subtree: c under b, b's parent "a" missing.
	tree.Ingest(mknote("b", "root", "a", 120))
	tree.Ingest(mknote("c", "root", "b", 130))

	if got := tree.Get("c").Depth; got != 1 {
		t.Fatalf("detached c depth = %d, want provisional 1", got)
	}
	if len(tree.Orphans()) != 1 {
		t.Fatalf("Orphans() = %d heads, want 1", len(tree.Orphans()))
	}

	tree.Ingest(mknote("a", "root", "root", 110))

	if got := tree.Get("b").Depth; got != 2 {
		t.Errorf("b depth = %d, want 2", got)
	}
	if got := tree.Get("c").Depth; got != 3 {
		t.Errorf("c depth = %d, want 3", got)
	}
	if len(tree.Orphans()) != 0 {
		t.Error("orphans remain after parent arrived")
	}
}

func TestStraysWithoutThreadRefs(t *testing.T) {
	tree := NewTree("root")
	tree.Ingest(mknote("root", "", "", 100))

	stray := model.NoteFromEvent(&nostr.Event{
		ID:        "quoted",
		Kind:      nostr.KindTextNote,
		CreatedAt: nostr.Timestamp(105),
		Content:   "a quoted note with no e tags",
	})
	tree.Ingest(stray)

	orphans := tree.Orphans()
	if len(orphans) != 1 || orphans[0].ID() != "quoted" {
		t.Errorf("Orphans() = %v, want the stray", orphans)
	}
	// Strays never appear in the attached render order.
	for _, id := range flatIDs(tree) {
		if id == "quoted:0" {
			t.Error("stray leaked into Flatten()")
		}
	}
}

func TestIngestSelfReferencingNote(t *testing.T) {
	tree := NewTree("root")
	tree.Ingest(mknote("root", "", "", 100))

	// A note citing itself as parent must never attach to itself.
	if !tree.Ingest(mknote("loop", "root", "loop", 110)) {
		t.Fatal("Ingest() = false for a new self-referencing note")
	}

	orphans := tree.Orphans()
	if len(orphans) != 1 || orphans[0].ID() != "loop" {
		t.Fatalf("Orphans() = %v, want the self-referencing note", orphans)
	}
	if node := tree.Get("loop"); node.Parent != nil || len(node.Children) != 0 {
		t.Error("self-referencing note gained tree links")
	}
	want := []string{"root:0"}
	if got := flatIDs(tree); !equalStrings(got, want) {
		t.Errorf("Flatten() = %v, want %v", got, want)
	}
}

func TestIngestMutuallyReferencingNotes(t *testing.T) {
	tree := NewTree("root")
	tree.Ingest(mknote("root", "", "", 100))

	// Two notes each claiming the other as parent. Whichever link closes
	// the cycle is refused and that note demoted to a stray.
	tree.Ingest(mknote("a", "root", "b", 110))
	tree.Ingest(mknote("b", "root", "a", 120))

	if tree.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tree.Len())
	}
	a, b := tree.Get("a"), tree.Get("b")
	if a.Parent == b && b.Parent == a {
		t.Fatal("mutual references formed a cycle")
	}

	// Every parent chain must terminate.
	for _, node := range []*Node{a, b} {
		steps := 0
		for p := node.Parent; p != nil; p = p.Parent {
			if steps++; steps > tree.Len() {
				t.Fatalf("parent chain from %q does not terminate", node.ID())
			}
		}
	}
	if len(tree.Orphans()) != 1 {
		t.Errorf("Orphans() = %d heads, want the demoted note", len(tree.Orphans()))
	}
}

func TestSiblingOrderByCreationTime(t *testing.T) {
	tree := NewTree("root")
	tree.Ingest(mknote("root", "", "", 100))
	tree.Ingest(mknote("late", "root", "root", 300))
	tree.Ingest(mknote("early", "root", "root", 110))
	tree.Ingest(mknote("mid", "root", "root", 200))

	root := tree.Root()
	if got := root.FirstChild().ID(); got != "early" {
		t.Errorf("FirstChild() = %q", got)
	}
	if got := root.LastChild().ID(); got != "late" {
		t.Errorf("LastChild() = %q", got)
	}
}

// =============================================================================
// NAVIGATION
// =============================================================================

func TestNavigationLinks(t *testing.T) {
	tree := NewTree("root")
	tree.IngestAll([]*model.Note{
		mknote("root", "", "", 100),
		mknote("a", "root", "root", 110),
		mknote("b", "root", "root", 120),
		mknote("c", "root", "root", 130),
		mknote("b1", "root", "b", 140),
	})

	b := tree.Get("b")
	if got := b.PrevSibling().ID(); got != "a" {
		t.Errorf("PrevSibling() = %q", got)
	}
	if got := b.NextSibling().ID(); got != "c" {
		t.Errorf("NextSibling() = %q", got)
	}
	if got := b.FirstChild().ID(); got != "b1" {
		t.Errorf("FirstChild() = %q", got)
	}
	if b.FirstChild().NextSibling() != nil {
		t.Error("only child has a NextSibling()")
	}
	if got := tree.Get("b1").Root().ID(); got != "root" {
		t.Errorf("Root() = %q", got)
	}
	if tree.Root().PrevSibling() != nil || tree.Root().NextSibling() != nil {
		t.Error("root has siblings")
	}
}

// =============================================================================
// SERIALIZATION
// =============================================================================

func TestSnapshotRoundTrip(t *testing.T) {
	tree := NewTree("root")
	tree.IngestAll([]*model.Note{
		mknote("root", "", "", 100),
		mknote("a", "root", "root", 110),
		mknote("a1", "root", "a", 130),
		mknote("b", "root", "root", 120),
	})
	// An orphan must survive the round trip too.
	tree.Ingest(mknote("lost", "root", "missing", 140))
	fetched := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tree.Touch(fetched)

	data, err := tree.Snapshot().Marshal()
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	snap, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot() error: %v", err)
	}
	restored, err := Restore(snap)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}

	if got, want := flatIDs(restored), flatIDs(tree); !equalStrings(got, want) {
		t.Errorf("restored Flatten() = %v, want %v", got, want)
	}
	if len(restored.Orphans()) != 1 {
		t.Errorf("restored Orphans() = %d, want 1", len(restored.Orphans()))
	}
	if !restored.FetchedAt().Equal(fetched) {
		t.Errorf("restored FetchedAt() = %v", restored.FetchedAt())
	}
}

func TestRestoreRejectsBadSnapshots(t *testing.T) {
	if _, err := Restore(nil); err == nil {
		t.Error("Restore(nil) should fail")
	}
	if _, err := Restore(&Snapshot{Version: 99, RootID: "r"}); err == nil {
		t.Error("Restore() should reject unknown versions")
	}
	if _, err := Restore(&Snapshot{Version: SnapshotVersion}); err == nil {
		t.Error("Restore() should reject missing root id")
	}
	if _, err := UnmarshalSnapshot([]byte("{broken")); err == nil {
		t.Error("UnmarshalSnapshot() should reject malformed JSON")
	}
}

// =============================================================================
// STALENESS
// =============================================================================

func TestStaleness(t *testing.T) {
	tree := NewTree("root")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if !tree.Stale(time.Minute, now) {
		t.Error("never-fetched tree should be stale")
	}
	tree.Touch(now)
	if tree.Stale(time.Minute, now.Add(30*time.Second)) {
		t.Error("fresh tree reported stale")
	}
	if !tree.Stale(time.Minute, now.Add(2*time.Minute)) {
		t.Error("old tree not reported stale")
	}
}

// =============================================================================
// CACHE
// =============================================================================

func TestCacheObtainAndEvict(t *testing.T) {
	cache := NewCache(2)

	t1 := cache.Obtain("r1")
	time.Sleep(2 * time.Millisecond)
	cache.Obtain("r2")
	time.Sleep(2 * time.Millisecond)

	if got := cache.Obtain("r1"); got != t1 {
		t.Error("Obtain() did not return the existing tree")
	}
	time.Sleep(2 * time.Millisecond)

	// Third thread evicts the least recently used (r2).
	cache.Obtain("r3")
	if cache.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", cache.Len())
	}
	if _, ok := cache.Get("r2"); ok {
		t.Error("r2 should have been evicted")
	}
	if _, ok := cache.Get("r1"); !ok {
		t.Error("recently used r1 was evicted")
	}
}

func TestCacheSnapshotsRestoreAll(t *testing.T) {
	cache := NewCache(0)
	tree := cache.Obtain("root")
	tree.IngestAll([]*model.Note{
		mknote("root", "", "", 100),
		mknote("a", "root", "root", 110),
	})

	snaps := cache.Snapshots()
	if len(snaps) != 1 {
		t.Fatalf("Snapshots() = %d, want 1", len(snaps))
	}

	fresh := NewCache(0)
	// A corrupt snapshot is skipped, not fatal.
	restored := fresh.RestoreAll(append(snaps, &Snapshot{Version: 99, RootID: "bad"}))
	if restored != 1 {
		t.Errorf("RestoreAll() = %d, want 1", restored)
	}
	got, ok := fresh.Get("root")
	if !ok || got.Len() != 2 {
		t.Errorf("restored tree missing or wrong size")
	}
}
