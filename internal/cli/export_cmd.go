// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export_cmd.go - Export a thread without opening the TUI.
//
// Command: export
//
// Examples:
//   nostrum export note1...                  Export a thread to Markdown
//   nostrum export <hex-id> --format json    Export as JSON
//   nostrum export note1... --output ~/docs  Choose the output directory

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"github.com/jeranaias/nostrum/internal/export"
	"github.com/jeranaias/nostrum/internal/model"
	"github.com/jeranaias/nostrum/internal/relay"
	"github.com/jeranaias/nostrum/internal/thread"
)

// HandleExport fetches a thread from relays and writes it to a file.
func HandleExport(args Args) {
	parser := NewArgParser(args.Raw)
	ref := parser.Positional(0)
	if ref == "" {
		exitError(fmt.Errorf("usage: nostrum export <note-id> [--format md|json] [--output DIR]"))
	}

	rootID, err := ResolveNoteID(ref)
	if err != nil {
		exitError(err)
	}

	cfg, err := LoadConfig(args)
	if err != nil {
		exitError(err)
	}

	pool := OpenPool(cfg)
	defer pool.Close()

	timeout := time.Duration(cfg.Network.QueryTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	tree, err := fetchThreadTree(ctx, pool, rootID)
	if err != nil {
		exitError(err)
	}

	opts := export.DefaultOptions()
	opts.OutputDir = parser.FlagOrDefault("output", ".")

	var path string
	switch format := parser.FlagOrDefault("format", "md"); format {
	case "md", "markdown":
		path, err = export.ExportMarkdown(tree, opts)
	case "json":
		path, err = export.ExportJSON(tree, opts)
	default:
		exitError(fmt.Errorf("unknown format %q (md, json)", format))
	}
	if err != nil {
		exitError(err)
	}

	if !args.Quiet {
		fmt.Printf("Exported %d notes to %s\n", tree.Len(), path)
	}
}

// fetchThreadTree pulls the root and everything referencing it, then
// builds the reply tree.
func fetchThreadTree(ctx context.Context, pool *relay.Pool, rootID string) (*thread.Tree, error) {
	rootEvents, rootErr := pool.Query(ctx, nostr.Filter{IDs: []string{rootID}})
	replyEvents, replyErr := pool.Query(ctx, nostr.Filter{
		Kinds: []int{nostr.KindTextNote},
		Tags:  nostr.TagMap{"e": []string{rootID}},
	})
	if rootErr != nil && replyErr != nil {
		return nil, fmt.Errorf("fetch thread: %w", rootErr)
	}

	tree := thread.NewTree(rootID)
	for _, evt := range relay.MergeEvents(rootEvents, replyEvents) {
		if note := model.NoteFromEvent(evt); note != nil {
			tree.Ingest(note)
		}
	}
	if tree.Len() == 0 {
		return nil, fmt.Errorf("thread %s not found on any relay", rootID)
	}
	tree.Touch(time.Now())
	return tree, nil
}
