// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jeranaias/nostrum/internal/thread"
	"github.com/jeranaias/nostrum/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for thread exporters.
type Exporter interface {
	// Export renders a thread tree to the target format.
	Export(tree *thread.Tree) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// NameResolver maps a pubkey to a display name. Exporters fall back to a
// shortened npub when nil or when it returns "".
type NameResolver func(pubkey string) string

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory
	OutputDir string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// IncludeMetadata includes a metadata header (root id, fetch time,
	// reply count).
	IncludeMetadata bool

	// IncludeTimestamps includes per-note timestamps.
	IncludeTimestamps bool

	// ResolveName supplies display names for pubkeys.
	ResolveName NameResolver
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		OpenAfterExport:   false,
		IncludeMetadata:   true,
		IncludeTimestamps: true,
	}
}

// displayName resolves a pubkey for output, preferring the resolver.
func (o *Options) displayName(pubkey string) string {
	if o.ResolveName != nil {
		if name := o.ResolveName(pubkey); name != "" {
			return name
		}
	}
	return util.ShortKey(pubkey, 8, 4)
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile renders a thread to a file using the given exporter and
// returns the output path.
func ExportToFile(tree *thread.Tree, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(tree)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	title := "thread"
	if root := tree.Root(); root != nil && root.Note != nil {
		title = util.FirstLine(root.Note.Content)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("thread_%s_%s%s",
		sanitizeFilename(title),
		timestamp,
		exporter.FileExtension(),
	)

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	if opts.OpenAfterExport {
		if err := openFile(outputPath); err != nil {
			// Non-fatal - file was still created successfully
			fmt.Printf("Warning: Could not open file: %v\n", err)
		}
	}

	return outputPath, nil
}

// ExportMarkdown exports a thread to Markdown.
func ExportMarkdown(tree *thread.Tree, opts *Options) (string, error) {
	return ExportToFile(tree, NewMarkdownExporter(opts), opts)
}

// ExportJSON exports a thread to JSON.
func ExportJSON(tree *thread.Tree, opts *Options) (string, error) {
	return ExportToFile(tree, NewJSONExporter(opts), opts)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	maxLen := 50
	runes := []rune(s)
	if len(runes) > maxLen {
		s = string(runes[:maxLen])
	}

	// Replace problematic characters (Windows and Unix)
	replacer := map[rune]rune{
		'/':  '-',
		'\\': '-',
		':':  '-',
		'*':  '-',
		'?':  '-',
		'"':  '-',
		'<':  '-',
		'>':  '-',
		'|':  '-',
		' ':  '_',
		'\t': '_',
		'\n': '_',
		'\r': '_',
	}

	result := []rune{}
	for _, r := range s {
		if replacement, found := replacer[r]; found {
			result = append(result, replacement)
		} else if r < 32 || r == 127 {
			result = append(result, '-')
		} else {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "thread"
	}

	return string(result)
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}
