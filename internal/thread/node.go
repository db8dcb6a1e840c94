// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package thread implements the in-memory thread-tree cache.
package thread

import (
	"github.com/jeranaias/nostrum/internal/model"
)

// =============================================================================
// NODE
// =============================================================================

// Node is one note in a reply tree. Children are kept ordered by creation
// time (oldest first), ties broken by id so rebuilds are deterministic.
type Node struct {
	Note     *model.Note
	Parent   *Node
	Children []*Node

	// Depth is 0 for the root, parent depth + 1 otherwise. Orphans keep a
	// provisional depth relative to their detached subtree head until they
	// are re-linked.
	Depth int
}

// ID returns the note id, "" for a placeholder node without its note yet.
func (n *Node) ID() string {
	if n.Note == nil {
		return ""
	}
	return n.Note.ID
}

// FirstChild returns the oldest reply, nil if the node has none.
func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// LastChild returns the newest reply, nil if the node has none.
func (n *Node) LastChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// NextSibling returns the next reply under the same parent, nil at the end
// or for the root.
func (n *Node) NextSibling() *Node {
	idx := n.siblingIndex()
	if idx < 0 || idx+1 >= len(n.Parent.Children) {
		return nil
	}
	return n.Parent.Children[idx+1]
}

// PrevSibling returns the previous reply under the same parent, nil at the
// start or for the root.
func (n *Node) PrevSibling() *Node {
	idx := n.siblingIndex()
	if idx <= 0 {
		return nil
	}
	return n.Parent.Children[idx-1]
}

// Root walks parent links to the top of this node's (possibly detached)
// subtree.
func (n *Node) Root() *Node {
	cur := n
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// ReplyCount returns the size of the subtree below this node.
func (n *Node) ReplyCount() int {
	count := 0
	for _, child := range n.Children {
		count += 1 + child.ReplyCount()
	}
	return count
}

// Walk visits the subtree depth-first, node before its children. The visit
// function returns false to stop early.
func (n *Node) Walk(visit func(*Node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(visit) {
			return false
		}
	}
	return true
}

func (n *Node) siblingIndex() int {
	if n.Parent == nil {
		return -1
	}
	for i, sib := range n.Parent.Children {
		if sib == n {
			return i
		}
	}
	return -1
}

// insertChild places child in creation-time order and fixes its links.
func (n *Node) insertChild(child *Node) {
	child.Parent = n
	pos := len(n.Children)
	for i, sib := range n.Children {
		if laterThan(sib, child) {
			pos = i
			break
		}
	}
	n.Children = append(n.Children, nil)
	copy(n.Children[pos+1:], n.Children[pos:])
	n.Children[pos] = child
}

// laterThan reports whether a sorts after b: by creation time, then id.
func laterThan(a, b *Node) bool {
	if a.Note == nil || b.Note == nil {
		return false
	}
	if !a.Note.CreatedAt.Equal(b.Note.CreatedAt) {
		return a.Note.CreatedAt.After(b.Note.CreatedAt)
	}
	return a.Note.ID > b.Note.ID
}
