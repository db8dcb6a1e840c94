// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/nostrum/internal/thread"
	"github.com/jeranaias/nostrum/internal/util"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter renders a thread to Markdown. The root note leads, and
// replies follow as blockquotes nested one level per reply depth.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// FileExtension returns ".md".
func (e *MarkdownExporter) FileExtension() string { return ".md" }

// MimeType returns the Markdown MIME type.
func (e *MarkdownExporter) MimeType() string { return "text/markdown" }

// Export converts a thread tree to Markdown.
func (e *MarkdownExporter) Export(tree *thread.Tree) ([]byte, error) {
	if tree == nil {
		return nil, fmt.Errorf("thread is nil")
	}
	root := tree.Root()
	if root == nil || root.Note == nil {
		return nil, fmt.Errorf("thread root has not been fetched")
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(util.FirstLine(root.Note.Content))))
		sb.WriteString(fmt.Sprintf("root: %s\n", tree.RootID()))
		sb.WriteString(fmt.Sprintf("author: %s\n", e.options.displayName(root.Note.PubKey)))
		sb.WriteString(fmt.Sprintf("replies: %d\n", root.ReplyCount()))
		if !tree.FetchedAt().IsZero() {
			sb.WriteString(fmt.Sprintf("fetched: %s\n", tree.FetchedAt().UTC().Format(time.RFC3339)))
		}
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().UTC().Format(time.RFC3339)))
		sb.WriteString("generator: nostrum\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(util.FirstLine(root.Note.Content))))

	for _, node := range tree.Flatten() {
		if node.Note == nil {
			continue
		}
		e.writeNote(&sb, node)
	}

	return []byte(sb.String()), nil
}

// writeNote renders one note at its blockquote depth.
func (e *MarkdownExporter) writeNote(sb *strings.Builder, node *thread.Node) {
	prefix := strings.Repeat("> ", node.Depth)

	header := "**" + e.options.displayName(node.Note.PubKey) + "**"
	if e.options.IncludeTimestamps {
		header += " · " + formatTimestamp(node.Note.CreatedAt)
	}
	if node.Note.ContentWarning != "" {
		header += " · ⚠ " + node.Note.ContentWarning
	}
	sb.WriteString(prefix + header + "\n")
	sb.WriteString(prefix + "\n")

	for _, line := range strings.Split(node.Note.Content, "\n") {
		sb.WriteString(strings.TrimRight(prefix+line, " "))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// escapeMarkdown neutralizes characters that would change heading structure.
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer("#", "\\#", "*", "\\*", "_", "\\_", "[", "\\[", "]", "\\]")
	return replacer.Replace(s)
}

// escapeYAML quotes a frontmatter value when it could be misparsed.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#\"'\n") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
