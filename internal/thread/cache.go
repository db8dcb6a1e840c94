// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package thread implements the in-memory thread-tree cache.
package thread

import (
	"time"

	"github.com/jeranaias/nostrum/internal/model"
)

// =============================================================================
// TREE
// =============================================================================

// Tree is the reply tree for one thread root. The root node exists from
// construction as a placeholder so replies can attach before the root note
// itself arrives from a relay.
type Tree struct {
	rootID string
	root   *Node

	// nodes indexes every ingested note by id, attached or not.
	nodes map[string]*Node

	// orphans holds detached subtree heads keyed by the parent id they are
	// waiting for. Strays with no parent reference at all are keyed by "".
	orphans map[string][]*Node

	fetchedAt time.Time
}

// NewTree creates an empty tree for the given root note id.
func NewTree(rootID string) *Tree {
	t := &Tree{
		rootID:  rootID,
		nodes:   make(map[string]*Node),
		orphans: make(map[string][]*Node),
	}
	t.root = &Node{}
	return t
}

// RootID returns the thread root note id.
func (t *Tree) RootID() string { return t.rootID }

// Root returns the root node. Its Note is nil until the root event has
// been ingested.
func (t *Tree) Root() *Node { return t.root }

// Len returns the number of notes ingested, counting the root only once
// it has arrived.
func (t *Tree) Len() int { return len(t.nodes) }

// Get returns the node for a note id, nil if unknown.
func (t *Tree) Get(id string) *Node { return t.nodes[id] }

// Ingest inserts one note into the tree. Duplicate ids are no-ops and
// return false. Notes whose parent has not arrived yet are parked and
// re-linked later.
func (t *Tree) Ingest(note *model.Note) bool {
	if note == nil || note.ID == "" {
		return false
	}
	if _, seen := t.nodes[note.ID]; seen {
		return false
	}

	// The root note fills the placeholder.
	if note.ID == t.rootID {
		t.root.Note = note
		t.nodes[note.ID] = t.root
		t.adoptOrphans(t.root)
		return true
	}

	node := &Node{Note: note}
	t.nodes[note.ID] = node

	parentID := note.ParentID
	switch {
	case parentID == "" || parentID == note.ID:
		// No usable thread reference: strays pulled in by the #e filter
		// (quotes, mentions) and events that cite themselves as parent.
		// Never attachable; kept visible via Orphans.
		t.orphans[""] = append(t.orphans[""], node)
	case parentID == t.rootID:
		t.attach(t.root, node)
	default:
		if parent, ok := t.nodes[parentID]; ok {
			t.attach(parent, node)
		} else {
			t.orphans[parentID] = append(t.orphans[parentID], node)
		}
	}

	t.adoptOrphans(node)
	return true
}

// IngestAll inserts a flat batch of notes in any order and returns how
// many were new.
func (t *Tree) IngestAll(notes []*model.Note) int {
	added := 0
	for _, note := range notes {
		if t.Ingest(note) {
			added++
		}
	}
	return added
}

// attach links node under parent and renumbers the subtree's depths.
// Relay events are untrusted: a link that would close a cycle (the node
// already sits on the parent's ancestor chain) is refused and the node
// demoted to a stray instead.
func (t *Tree) attach(parent, node *Node) {
	if node == parent || hasAncestor(parent, node) {
		t.orphans[""] = append(t.orphans[""], node)
		return
	}
	parent.insertChild(node)
	renumber(node, parent.Depth+1)
}

// hasAncestor reports whether candidate appears on n's parent chain.
func hasAncestor(n, candidate *Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// adoptOrphans re-links any parked subtrees waiting for this node.
func (t *Tree) adoptOrphans(parent *Node) {
	id := parent.ID()
	if id == "" {
		return
	}
	waiting, ok := t.orphans[id]
	if !ok {
		return
	}
	delete(t.orphans, id)
	for _, orphan := range waiting {
		t.attach(parent, orphan)
	}
}

// renumber sets node.Depth and recomputes the whole subtree below it.
// Needed when an orphan subtree that accumulated its own children is
// finally re-attached.
func renumber(node *Node, depth int) {
	node.Depth = depth
	for _, child := range node.Children {
		renumber(child, depth+1)
	}
}

// Flatten returns the attached tree in depth-first render order, root
// first. The placeholder root is included even before its note arrives so
// the view can show a loading row for it.
func (t *Tree) Flatten() []*Node {
	out := make([]*Node, 0, len(t.nodes)+1)
	t.root.Walk(func(n *Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Orphans returns the heads of detached subtrees: notes whose parent never
// arrived, plus strays without thread references. Render order is by
// creation time.
func (t *Tree) Orphans() []*Node {
	var out []*Node
	for _, group := range t.orphans {
		out = append(out, group...)
	}
	sortNodes(out)
	return out
}

// Touch records a completed fetch for staleness tracking.
func (t *Tree) Touch(now time.Time) { t.fetchedAt = now }

// FetchedAt returns the last recorded fetch time, zero if never fetched.
func (t *Tree) FetchedAt() time.Time { return t.fetchedAt }

// Stale reports whether the thread should be refetched. A tree that has
// never been fetched is always stale.
func (t *Tree) Stale(maxAge time.Duration, now time.Time) bool {
	if t.fetchedAt.IsZero() {
		return true
	}
	return now.Sub(t.fetchedAt) > maxAge
}

// sortNodes orders nodes oldest first, matching child ordering.
func sortNodes(nodes []*Node) {
	for i := 1; i < len(nodes); i++ {
		for j := i; j > 0 && laterThan(nodes[j-1], nodes[j]); j-- {
			nodes[j-1], nodes[j] = nodes[j], nodes[j-1]
		}
	}
}

// =============================================================================
// CACHE
// =============================================================================

// DefaultMaxTrees bounds the cache; threads beyond it evict least
// recently used.
const DefaultMaxTrees = 64

// Cache holds the reply trees the client has open or recently viewed,
// keyed by root note id.
type Cache struct {
	trees    map[string]*Tree
	lastUsed map[string]time.Time
	maxTrees int
}

// NewCache creates a cache bounded to maxTrees threads (0 uses the
// default).
func NewCache(maxTrees int) *Cache {
	if maxTrees <= 0 {
		maxTrees = DefaultMaxTrees
	}
	return &Cache{
		trees:    make(map[string]*Tree),
		lastUsed: make(map[string]time.Time),
		maxTrees: maxTrees,
	}
}

// Obtain returns the tree for a root id, creating it if absent.
func (c *Cache) Obtain(rootID string) *Tree {
	if tree, ok := c.trees[rootID]; ok {
		c.lastUsed[rootID] = time.Now()
		return tree
	}
	tree := NewTree(rootID)
	c.trees[rootID] = tree
	c.lastUsed[rootID] = time.Now()
	c.evict()
	return tree
}

// Get returns the tree for a root id without creating it.
func (c *Cache) Get(rootID string) (*Tree, bool) {
	tree, ok := c.trees[rootID]
	if ok {
		c.lastUsed[rootID] = time.Now()
	}
	return tree, ok
}

// Drop removes a thread from the cache.
func (c *Cache) Drop(rootID string) {
	delete(c.trees, rootID)
	delete(c.lastUsed, rootID)
}

// Len returns the number of cached threads.
func (c *Cache) Len() int { return len(c.trees) }

// RootIDs returns the cached thread roots, unordered.
func (c *Cache) RootIDs() []string {
	ids := make([]string, 0, len(c.trees))
	for id := range c.trees {
		ids = append(ids, id)
	}
	return ids
}

func (c *Cache) evict() {
	for len(c.trees) > c.maxTrees {
		oldestID := ""
		var oldest time.Time
		for id, used := range c.lastUsed {
			if oldestID == "" || used.Before(oldest) {
				oldestID, oldest = id, used
			}
		}
		c.Drop(oldestID)
	}
}
