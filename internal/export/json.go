// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeranaias/nostrum/internal/thread"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter renders a thread as a nested JSON document, replies inside
// their parent.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string { return ".json" }

// MimeType returns the JSON MIME type.
func (e *JSONExporter) MimeType() string { return "application/json" }

// jsonNote is one note in the exported tree.
type jsonNote struct {
	ID        string      `json:"id"`
	PubKey    string      `json:"pubkey"`
	Author    string      `json:"author,omitempty"`
	CreatedAt *time.Time  `json:"created_at,omitempty"`
	Content   string      `json:"content"`
	Replies   []*jsonNote `json:"replies,omitempty"`
}

// jsonThread is the top-level exported document.
type jsonThread struct {
	Version  int        `json:"version"`
	RootID   string     `json:"root_id"`
	Exported time.Time  `json:"exported"`
	Fetched  *time.Time `json:"fetched,omitempty"`
	Notes    int        `json:"notes"`
	Root     *jsonNote  `json:"root"`
}

// Export converts a thread tree to indented JSON.
func (e *JSONExporter) Export(tree *thread.Tree) ([]byte, error) {
	if tree == nil {
		return nil, fmt.Errorf("thread is nil")
	}
	root := tree.Root()
	if root == nil || root.Note == nil {
		return nil, fmt.Errorf("thread root has not been fetched")
	}

	doc := jsonThread{
		Version:  1,
		RootID:   tree.RootID(),
		Exported: time.Now().UTC(),
		Notes:    tree.Len(),
		Root:     e.convert(root),
	}
	if fetched := tree.FetchedAt(); !fetched.IsZero() {
		utc := fetched.UTC()
		doc.Fetched = &utc
	}

	return json.MarshalIndent(doc, "", "  ")
}

// convert maps a node and its subtree.
func (e *JSONExporter) convert(node *thread.Node) *jsonNote {
	out := &jsonNote{
		ID:      node.ID(),
		PubKey:  node.Note.PubKey,
		Content: node.Note.Content,
	}
	if e.options.ResolveName != nil {
		if name := e.options.ResolveName(node.Note.PubKey); name != "" {
			out.Author = name
		}
	}
	if e.options.IncludeTimestamps && !node.Note.CreatedAt.IsZero() {
		utc := node.Note.CreatedAt.UTC()
		out.CreatedAt = &utc
	}
	for _, child := range node.Children {
		if child.Note == nil {
			continue
		}
		out.Replies = append(out.Replies, e.convert(child))
	}
	return out
}
