// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// post.go - Publish a note from the command line.
//
// Command: post
// Aliases: note
//
// Examples:
//   nostrum post "hello nostr"          Publish a note
//   nostrum post                        Prompt for the message interactively
//   nostrum post --reply-to note1...    Reply to a note
//   nostrum post --relay wss://r "hi"   Publish to a single relay

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/peterh/liner"

	"github.com/jeranaias/nostrum/internal/model"
)

// HandlePost publishes a note, prompting for the body when none was
// given inline.
func HandlePost(args Args) {
	cfg, err := LoadConfig(args)
	if err != nil {
		exitError(err)
	}
	dir, err := DataDir()
	if err != nil {
		exitError(err)
	}

	id, err := LoadIdentity(dir)
	if err != nil {
		exitError(err)
	}
	if id == nil || !id.CanSign() {
		exitError(fmt.Errorf("no identity: run `nostrum keys generate` first"))
	}

	message := args.Message
	if message == "" {
		message, err = promptMessage()
		if err != nil {
			exitError(err)
		}
	}
	if strings.TrimSpace(message) == "" {
		exitError(fmt.Errorf("empty message, nothing published"))
	}

	pool := OpenPool(cfg)
	defer pool.Close()

	timeout := time.Duration(cfg.Network.QueryTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	evt := nostr.Event{
		Kind:      nostr.KindTextNote,
		CreatedAt: nostr.Now(),
		Content:   message,
		Tags:      nostr.Tags{},
	}

	if args.ReplyTo != "" {
		parentID, err := ResolveNoteID(args.ReplyTo)
		if err != nil {
			exitError(err)
		}
		if err := addReplyTags(ctx, pool, &evt, parentID); err != nil {
			exitError(err)
		}
	}

	if err := id.Sign(&evt); err != nil {
		exitError(err)
	}

	accepted, err := pool.Publish(ctx, evt)
	if err != nil {
		exitError(err)
	}

	if !args.Quiet {
		fmt.Printf("%s published to %d/%d relays\n", evt.ID, accepted, len(cfg.Relays))
	}
}

// promptMessage reads the note body interactively. Multi-line input ends
// with an empty line.
func promptMessage() (string, error) {
	if err := RequiresTTY("compose a note"); err != nil {
		return "", err
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println("Compose your note. Finish with an empty line.")
	var lines []string
	for {
		prompt := "> "
		if len(lines) > 0 {
			prompt = "| "
		}
		text, err := line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				return "", fmt.Errorf("aborted")
			}
			return "", err
		}
		if text == "" {
			break
		}
		lines = append(lines, text)
	}
	return strings.Join(lines, "\n"), nil
}

// addReplyTags fetches the parent note and threads the event under it
// with NIP-10 marked tags.
func addReplyTags(ctx context.Context, pool querier, evt *nostr.Event, parentID string) error {
	events, err := pool.Query(ctx, nostr.Filter{IDs: []string{parentID}})
	if err != nil {
		return fmt.Errorf("fetch reply target: %w", err)
	}
	if len(events) == 0 {
		return fmt.Errorf("reply target %s not found on any relay", parentID)
	}

	parent := model.NoteFromEvent(events[0])
	if parent == nil {
		return fmt.Errorf("reply target %s is not a note", parentID)
	}

	rootID := parent.RootID
	if rootID == "" {
		rootID = parent.ID
	}
	evt.Tags = append(evt.Tags, nostr.Tag{"e", rootID, "", "root"})
	if parent.ID != rootID {
		evt.Tags = append(evt.Tags, nostr.Tag{"e", parent.ID, "", "reply"})
	}
	evt.Tags = append(evt.Tags, nostr.Tag{"p", parent.PubKey})
	return nil
}

// querier is the pool slice addReplyTags needs, for tests.
type querier interface {
	Query(ctx context.Context, filter nostr.Filter) ([]*nostr.Event, error)
}
