// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jeranaias/nostrum/internal/util"
)

// =============================================================================
// SCROLL STATE
// =============================================================================

// Position is where a view was left: the selected note and the viewport
// offset, so returning to the view restores the reading position.
type Position struct {
	SelectedID string `json:"selected_id,omitempty"`
	Offset     int    `json:"offset"`
}

// ScrollState remembers per-view reading positions across view switches
// and across restarts.
type ScrollState struct {
	mu        sync.Mutex
	positions map[string]Position

	lastView string
	dirty    bool
}

// NewScrollState returns an empty scroll state.
func NewScrollState() *ScrollState {
	return &ScrollState{positions: make(map[string]Position)}
}

// Save records the position for a view key. Thread views use
// "thread:<rootid>" keys so each thread keeps its own position.
func (s *ScrollState) Save(view string, pos Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[view] = pos
	s.dirty = true
}

// Restore returns the stored position for a view key.
func (s *ScrollState) Restore(view string) (Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, ok := s.positions[view]
	return pos, ok
}

// SetLastView records which view was active, for restoring on restart.
func (s *ScrollState) SetLastView(view string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastView != view {
		s.lastView = view
		s.dirty = true
	}
}

// LastView returns the view that was active when state was last saved.
func (s *ScrollState) LastView() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastView
}

// Dirty reports whether the state changed since the last Persist.
func (s *ScrollState) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// scrollFile is the on-disk format of session.json.
type scrollFile struct {
	Version   int                 `json:"version"`
	SavedAt   time.Time           `json:"saved_at"`
	LastView  string              `json:"last_view,omitempty"`
	Positions map[string]Position `json:"positions"`
}

func scrollPath(dir string) string {
	return filepath.Join(dir, "session.json")
}

// Persist writes the scroll state to dir atomically.
func (s *ScrollState) Persist(dir string) error {
	s.mu.Lock()
	file := scrollFile{
		Version:   1,
		SavedAt:   time.Now().UTC(),
		LastView:  s.lastView,
		Positions: make(map[string]Position, len(s.positions)),
	}
	for k, v := range s.positions {
		file.Positions[k] = v
	}
	s.mu.Unlock()

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(scrollPath(dir), data, 0600); err != nil {
		return err
	}

	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()
	return nil
}

// LoadScrollState reads session.json from dir. A missing or corrupt file
// yields a fresh empty state, never an error the caller must handle.
func LoadScrollState(dir string) *ScrollState {
	state := NewScrollState()

	data, err := os.ReadFile(scrollPath(dir))
	if errors.Is(err, os.ErrNotExist) || err != nil {
		return state
	}

	var file scrollFile
	if json.Unmarshal(data, &file) != nil {
		return state
	}

	state.lastView = file.LastView
	for k, v := range file.Positions {
		state.positions[k] = v
	}
	return state
}
