// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package relay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"github.com/jeranaias/nostrum/internal/config"
)

func evt(id string, ts int64) *nostr.Event {
	return &nostr.Event{ID: id, CreatedAt: nostr.Timestamp(ts)}
}

func TestMergeEvents(t *testing.T) {
	relayA := []*nostr.Event{evt("a", 100), evt("b", 200)}
	relayB := []*nostr.Event{evt("b", 200), evt("c", 300), nil}

	merged := MergeEvents(relayA, relayB)
	if len(merged) != 3 {
		t.Fatalf("len = %d, want 3 (dedup by id)", len(merged))
	}
	// Newest first
	if merged[0].ID != "c" || merged[1].ID != "b" || merged[2].ID != "a" {
		t.Errorf("order = %s %s %s", merged[0].ID, merged[1].ID, merged[2].ID)
	}
}

func TestMergeEventsStableTieBreak(t *testing.T) {
	merged := MergeEvents([]*nostr.Event{evt("z", 100), evt("a", 100)})
	if merged[0].ID != "a" || merged[1].ID != "z" {
		t.Errorf("equal timestamps should order by id, got %s %s", merged[0].ID, merged[1].ID)
	}
}

func TestQueryNoRelays(t *testing.T) {
	p := NewPool(Options{})
	if _, err := p.Query(context.Background(), nostr.Filter{}); !errors.Is(err, ErrNoRelays) {
		t.Errorf("Query() error = %v, want ErrNoRelays", err)
	}
	if _, err := p.Publish(context.Background(), nostr.Event{}); !errors.Is(err, ErrNoRelays) {
		t.Errorf("Publish() error = %v, want ErrNoRelays", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Network.QueryTimeoutSeconds = 7
	opts := OptionsFromConfig(cfg)
	if opts.QueryTimeout != 7*time.Second {
		t.Errorf("QueryTimeout = %v", opts.QueryTimeout)
	}
	if len(opts.Relays) != len(cfg.Relays) {
		t.Errorf("Relays = %v", opts.Relays)
	}
}

func TestSleepBackoffHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepBackoff(ctx, 3); !errors.Is(err, context.Canceled) {
		t.Errorf("sleepBackoff() = %v, want context.Canceled", err)
	}
}

func TestStatusesUnconnected(t *testing.T) {
	p := NewPool(Options{Relays: []string{"wss://b.example", "wss://a.example"}})
	statuses := p.Statuses()
	if len(statuses) != 2 {
		t.Fatalf("len = %d", len(statuses))
	}
	if statuses[0].URL != "wss://a.example" {
		t.Errorf("statuses not sorted by URL: %v", statuses)
	}
	for _, s := range statuses {
		if s.Connected {
			t.Errorf("%s reported connected before any dial", s.URL)
		}
	}
	if p.ConnectedCount() != 0 {
		t.Errorf("ConnectedCount() = %d", p.ConnectedCount())
	}
}
