// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local persistence for nostrum.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jeranaias/nostrum/internal/model"
	"github.com/jeranaias/nostrum/internal/util"
)

// ErrNotBookmarked is returned when removing a note that was never saved.
var ErrNotBookmarked = errors.New("note is not bookmarked")

// =============================================================================
// BOOKMARK STORE
// =============================================================================

// BookmarkStore persists bookmarks as one JSON file, newest first. The
// whole file is rewritten atomically on every change; bookmark lists are
// small and this keeps the format trivially recoverable.
type BookmarkStore struct {
	path      string
	bookmarks []model.Bookmark
}

// bookmarkFile is the on-disk envelope, versioned for future migrations.
type bookmarkFile struct {
	Version   int              `json:"version"`
	Bookmarks []model.Bookmark `json:"bookmarks"`
}

// OpenBookmarks loads (or initializes) the bookmark store in dir.
func OpenBookmarks(dir string) (*BookmarkStore, error) {
	s := &BookmarkStore{path: filepath.Join(dir, "bookmarks.json")}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks: %w", err)
	}

	var file bookmarkFile
	if err := json.Unmarshal(data, &file); err != nil {
		// Corrupt file: start fresh rather than refuse to run. The old
		// file is kept aside for manual recovery.
		os.Rename(s.path, s.path+".corrupt")
		return s, nil
	}
	s.bookmarks = file.Bookmarks
	return s, nil
}

// All returns the bookmarks, newest first.
func (s *BookmarkStore) All() []model.Bookmark {
	out := make([]model.Bookmark, len(s.bookmarks))
	copy(out, s.bookmarks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SavedAt.After(out[j].SavedAt)
	})
	return out
}

// Len returns the number of saved bookmarks.
func (s *BookmarkStore) Len() int { return len(s.bookmarks) }

// Has reports whether a note id is bookmarked.
func (s *BookmarkStore) Has(noteID string) bool {
	for _, b := range s.bookmarks {
		if b.NoteID == noteID {
			return true
		}
	}
	return false
}

// Add saves a bookmark for the note. Re-adding an existing bookmark is a
// no-op (uniqueness-by-id).
func (s *BookmarkStore) Add(note *model.Note, relay string) error {
	if note == nil || note.ID == "" {
		return fmt.Errorf("cannot bookmark an empty note")
	}
	if s.Has(note.ID) {
		return nil
	}
	s.bookmarks = append(s.bookmarks, model.Bookmark{
		NoteID:  note.ID,
		Relay:   relay,
		Preview: util.TruncateRunes(util.FirstLine(note.Content), 80),
		Author:  note.PubKey,
		SavedAt: time.Now(),
	})
	return s.save()
}

// Remove deletes a bookmark by note id.
func (s *BookmarkStore) Remove(noteID string) error {
	for i, b := range s.bookmarks {
		if b.NoteID == noteID {
			s.bookmarks = append(s.bookmarks[:i], s.bookmarks[i+1:]...)
			return s.save()
		}
	}
	return ErrNotBookmarked
}

// Toggle adds or removes the bookmark and reports whether the note is
// bookmarked afterwards.
func (s *BookmarkStore) Toggle(note *model.Note, relay string) (bool, error) {
	if s.Has(note.ID) {
		return false, s.Remove(note.ID)
	}
	return true, s.Add(note, relay)
}

func (s *BookmarkStore) save() error {
	data, err := json.MarshalIndent(bookmarkFile{Version: 1, Bookmarks: s.bookmarks}, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(s.path, data, 0600)
}
