// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package relay provides relay connectivity for nostrum.
package relay

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"golang.org/x/time/rate"

	"github.com/jeranaias/nostrum/internal/config"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNoRelays        = errors.New("no relays configured")
	ErrAllRelaysFailed = errors.New("all relays failed")
	ErrNotAccepted     = errors.New("no relay accepted the event")
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Pool.
type Options struct {
	Relays            []string
	ConnectTimeout    time.Duration
	QueryTimeout      time.Duration
	MaxRetries        int
	RequestsPerSecond float64
}

// OptionsFromConfig derives pool options from the application config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Relays:            cfg.Relays,
		ConnectTimeout:    time.Duration(cfg.Network.ConnectTimeoutSeconds) * time.Second,
		QueryTimeout:      time.Duration(cfg.Network.QueryTimeoutSeconds) * time.Second,
		MaxRetries:        cfg.Network.MaxRetries,
		RequestsPerSecond: cfg.Network.RequestsPerSecond,
	}
}

func (o *Options) setDefaults() {
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = 10 * time.Second
	}
	if o.QueryTimeout <= 0 {
		o.QueryTimeout = 15 * time.Second
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.RequestsPerSecond <= 0 {
		o.RequestsPerSecond = 5
	}
}

// =============================================================================
// POOL
// =============================================================================

// Status describes one relay's health for the status bar and the status
// CLI command.
type Status struct {
	URL         string
	Connected   bool
	LastError   error
	LastSuccess time.Time
}

// conn wraps one relay connection with its throttle and health record.
type conn struct {
	url     string
	limiter *rate.Limiter

	mu          sync.Mutex
	relay       *nostr.Relay
	lastError   error
	lastSuccess time.Time
}

// Pool manages lazy connections to the configured relays. Safe for use
// from multiple goroutines; the TUI issues queries from tea.Cmd
// goroutines concurrently.
type Pool struct {
	opts  Options
	conns []*conn
}

// NewPool creates a pool over the given relays. Connections are dialed on
// first use, not here.
func NewPool(opts Options) *Pool {
	opts.setDefaults()
	p := &Pool{opts: opts}
	for _, url := range opts.Relays {
		p.conns = append(p.conns, &conn{
			url:     url,
			limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		})
	}
	return p
}

// Close shuts down every open connection.
func (p *Pool) Close() {
	for _, c := range p.conns {
		c.mu.Lock()
		if c.relay != nil {
			c.relay.Close()
			c.relay = nil
		}
		c.mu.Unlock()
	}
}

// Statuses reports per-relay health, ordered by URL.
func (p *Pool) Statuses() []Status {
	out := make([]Status, 0, len(p.conns))
	for _, c := range p.conns {
		c.mu.Lock()
		out = append(out, Status{
			URL:         c.url,
			Connected:   c.relay != nil,
			LastError:   c.lastError,
			LastSuccess: c.lastSuccess,
		})
		c.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}

// ConnectedCount returns how many relays currently hold a connection.
func (p *Pool) ConnectedCount() int {
	n := 0
	for _, c := range p.conns {
		c.mu.Lock()
		if c.relay != nil {
			n++
		}
		c.mu.Unlock()
	}
	return n
}

// =============================================================================
// QUERY
// =============================================================================

// Query fans the filter out to every relay, waits for stored events
// (EOSE) and returns the merged, deduplicated result sorted newest first.
// Per-relay failures are recorded and swallowed as long as at least one
// relay answers.
func (p *Pool) Query(ctx context.Context, filter nostr.Filter) ([]*nostr.Event, error) {
	if len(p.conns) == 0 {
		return nil, ErrNoRelays
	}

	ctx, cancel := context.WithTimeout(ctx, p.opts.QueryTimeout)
	defer cancel()

	var wg sync.WaitGroup
	results := make([][]*nostr.Event, len(p.conns))
	failures := make([]error, len(p.conns))

	for i, c := range p.conns {
		wg.Add(1)
		go func(i int, c *conn) {
			defer wg.Done()
			events, err := p.queryOne(ctx, c, filter)
			if err != nil {
				failures[i] = err
				return
			}
			results[i] = events
		}(i, c)
	}
	wg.Wait()

	merged := MergeEvents(results...)
	if len(merged) == 0 {
		for _, err := range failures {
			if err != nil {
				return nil, errors.Join(ErrAllRelaysFailed, err)
			}
		}
	}
	return merged, nil
}

// queryOne runs the filter against a single relay with retry.
func (p *Pool) queryOne(ctx context.Context, c *conn, filter nostr.Filter) ([]*nostr.Event, error) {
	var lastErr error
	for attempt := 0; attempt <= p.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepBackoff(ctx, attempt); err != nil {
				return nil, err
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		relay, err := p.connect(ctx, c)
		if err != nil {
			lastErr = err
			continue
		}

		events, err := subscribeUntilEOSE(ctx, relay, filter)
		if err != nil {
			c.recordFailure(err)
			lastErr = err
			continue
		}
		c.recordSuccess()
		return events, nil
	}
	return nil, lastErr
}

// connect returns the live connection for c, dialing it if needed.
func (p *Pool) connect(ctx context.Context, c *conn) (*nostr.Relay, error) {
	c.mu.Lock()
	if c.relay != nil {
		relay := c.relay
		c.mu.Unlock()
		return relay, nil
	}
	c.mu.Unlock()

	dialCtx, cancel := context.WithTimeout(ctx, p.opts.ConnectTimeout)
	defer cancel()

	relay, err := nostr.RelayConnect(dialCtx, c.url)
	if err != nil {
		c.recordFailure(err)
		return nil, err
	}

	c.mu.Lock()
	// Another goroutine may have connected while we dialed; prefer the
	// existing connection and drop ours.
	if c.relay != nil {
		existing := c.relay
		c.mu.Unlock()
		relay.Close()
		return existing, nil
	}
	c.relay = relay
	c.mu.Unlock()
	return relay, nil
}

// subscribeUntilEOSE collects the stored events a relay returns for a
// filter, stopping at end-of-stored-events or context expiry.
func subscribeUntilEOSE(ctx context.Context, relay *nostr.Relay, filter nostr.Filter) ([]*nostr.Event, error) {
	sub, err := relay.Subscribe(ctx, nostr.Filters{filter})
	if err != nil {
		return nil, err
	}
	defer sub.Unsub()

	var events []*nostr.Event
	for {
		select {
		case evt, ok := <-sub.Events:
			if !ok {
				return events, nil
			}
			if evt != nil {
				events = append(events, evt)
			}
		case <-sub.EndOfStoredEvents:
			return events, nil
		case <-ctx.Done():
			// Timeout with partial results is still a result.
			return events, nil
		}
	}
}

// =============================================================================
// PUBLISH
// =============================================================================

// Publish fans a signed event out to every relay. It succeeds if at least
// one relay accepts and returns how many did.
func (p *Pool) Publish(ctx context.Context, evt nostr.Event) (int, error) {
	if len(p.conns) == 0 {
		return 0, ErrNoRelays
	}

	ctx, cancel := context.WithTimeout(ctx, p.opts.QueryTimeout)
	defer cancel()

	var wg sync.WaitGroup
	accepted := make([]bool, len(p.conns))

	for i, c := range p.conns {
		wg.Add(1)
		go func(i int, c *conn) {
			defer wg.Done()
			if err := c.limiter.Wait(ctx); err != nil {
				return
			}
			relay, err := p.connect(ctx, c)
			if err != nil {
				return
			}
			if err := relay.Publish(ctx, evt); err != nil {
				c.recordFailure(err)
				return
			}
			c.recordSuccess()
			accepted[i] = true
		}(i, c)
	}
	wg.Wait()

	count := 0
	for _, ok := range accepted {
		if ok {
			count++
		}
	}
	if count == 0 {
		return 0, ErrNotAccepted
	}
	return count, nil
}

// =============================================================================
// HEALTH RECORDING
// =============================================================================

func (c *conn) recordFailure(err error) {
	c.mu.Lock()
	c.lastError = err
	// Drop the connection so the next request redials.
	if c.relay != nil {
		c.relay.Close()
		c.relay = nil
	}
	c.mu.Unlock()
}

func (c *conn) recordSuccess() {
	c.mu.Lock()
	c.lastError = nil
	c.lastSuccess = time.Now()
	c.mu.Unlock()
}

// =============================================================================
// HELPERS
// =============================================================================

// MergeEvents merges per-relay result sets, dropping duplicate ids and
// sorting newest first (ties broken by id for stable paging).
func MergeEvents(sets ...[]*nostr.Event) []*nostr.Event {
	seen := make(map[string]struct{})
	var merged []*nostr.Event
	for _, set := range sets {
		for _, evt := range set {
			if evt == nil || evt.ID == "" {
				continue
			}
			if _, dup := seen[evt.ID]; dup {
				continue
			}
			seen[evt.ID] = struct{}{}
			merged = append(merged, evt)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].CreatedAt != merged[j].CreatedAt {
			return merged[i].CreatedAt > merged[j].CreatedAt
		}
		return merged[i].ID < merged[j].ID
	})
	return merged
}

// sleepBackoff waits 500ms, 1s, 2s... before retry attempt n, honoring
// cancellation.
func sleepBackoff(ctx context.Context, attempt int) error {
	d := 500 * time.Millisecond << (attempt - 1)
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
