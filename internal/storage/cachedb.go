// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local persistence for nostrum.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nbd-wtf/go-nostr"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/nostrum/internal/model"
)

// ErrCacheMiss is returned when the cache has no entry for a key.
var ErrCacheMiss = errors.New("not in cache")

// cacheSchema holds recently seen events and decoded profile metadata.
// Raw events are stored as JSON: they are small, already signed, and the
// flat shape matches the thread snapshot format.
const cacheSchema = `
CREATE TABLE IF NOT EXISTS events (
    id         TEXT PRIMARY KEY,
    pubkey     TEXT NOT NULL,
    kind       INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    raw        TEXT NOT NULL,
    fetched_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_pubkey ON events(pubkey);
CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at);

CREATE TABLE IF NOT EXISTS profiles (
    pubkey     TEXT PRIMARY KEY,
    raw        TEXT NOT NULL,
    fetched_at INTEGER NOT NULL
);
`

// =============================================================================
// CACHE DATABASE
// =============================================================================

// CacheDB is the SQLite-backed event and profile cache.
type CacheDB struct {
	db *sql.DB
}

// OpenCacheDB opens (and migrates) the cache database under dir.
func OpenCacheDB(dir string) (*CacheDB, error) {
	db, err := sql.Open("sqlite", filepath.Join(dir, "cache.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	// The TUI touches the cache from command goroutines; SQLite handles
	// that fine with a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}
	return &CacheDB{db: db}, nil
}

// Close releases the database.
func (c *CacheDB) Close() error { return c.db.Close() }

// =============================================================================
// EVENTS
// =============================================================================

// PutEvents upserts a batch of events in one transaction.
func (c *CacheDB) PutEvents(events []*nostr.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO events
		(id, pubkey, kind, created_at, raw, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, evt := range events {
		if evt == nil || evt.ID == "" {
			continue
		}
		raw, err := json.Marshal(evt)
		if err != nil {
			continue
		}
		if _, err := stmt.Exec(evt.ID, evt.PubKey, evt.Kind, int64(evt.CreatedAt), string(raw), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetEvent returns one cached event by id.
func (c *CacheDB) GetEvent(id string) (*nostr.Event, error) {
	var raw string
	err := c.db.QueryRow(`SELECT raw FROM events WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var evt nostr.Event
	if err := json.Unmarshal([]byte(raw), &evt); err != nil {
		return nil, fmt.Errorf("corrupt cached event %s: %w", id, err)
	}
	return &evt, nil
}

// RecentEvents returns up to limit cached events of the given kinds,
// newest first. Used to paint the feed instantly while relays answer.
func (c *CacheDB) RecentEvents(kinds []int, limit int) ([]*nostr.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT raw FROM events`
	args := make([]any, 0, len(kinds)+1)
	if len(kinds) > 0 {
		query += ` WHERE kind IN (?` + repeat(",?", len(kinds)-1) + `)`
		for _, k := range kinds {
			args = append(args, k)
		}
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*nostr.Event
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var evt nostr.Event
		if err := json.Unmarshal([]byte(raw), &evt); err != nil {
			continue
		}
		events = append(events, &evt)
	}
	return events, rows.Err()
}

// PruneEvents removes cached events fetched before the cutoff and
// returns how many were dropped.
func (c *CacheDB) PruneEvents(before time.Time) (int64, error) {
	res, err := c.db.Exec(`DELETE FROM events WHERE fetched_at < ?`, before.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// =============================================================================
// PROFILES
// =============================================================================

// PutProfile upserts decoded profile metadata.
func (c *CacheDB) PutProfile(p *model.Profile) error {
	if p == nil || p.PubKey == "" {
		return fmt.Errorf("cannot cache an empty profile")
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(`INSERT OR REPLACE INTO profiles (pubkey, raw, fetched_at)
		VALUES (?, ?, ?)`, p.PubKey, string(raw), time.Now().Unix())
	return err
}

// GetProfile returns cached metadata and when it was fetched; callers
// decide staleness against their own max age.
func (c *CacheDB) GetProfile(pubkey string) (*model.Profile, time.Time, error) {
	var raw string
	var fetched int64
	err := c.db.QueryRow(`SELECT raw, fetched_at FROM profiles WHERE pubkey = ?`, pubkey).
		Scan(&raw, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrCacheMiss
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	var p model.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, time.Time{}, fmt.Errorf("corrupt cached profile %s: %w", pubkey, err)
	}
	return &p, time.Unix(fetched, 0), nil
}

// Stats returns row counts for the status command.
func (c *CacheDB) Stats() (events, profiles int, err error) {
	if err = c.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&events); err != nil {
		return 0, 0, err
	}
	if err = c.db.QueryRow(`SELECT COUNT(*) FROM profiles`).Scan(&profiles); err != nil {
		return 0, 0, err
	}
	return events, profiles, nil
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
