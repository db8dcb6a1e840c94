// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local persistence for nostrum.
package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jeranaias/nostrum/internal/thread"
	"github.com/jeranaias/nostrum/internal/util"
)

// =============================================================================
// THREAD SNAPSHOT STORE
// =============================================================================

// SnapshotStore persists thread-cache snapshots, one JSON file per root
// id, so open threads survive a restart.
type SnapshotStore struct {
	dir string

	// MaxSnapshots bounds the directory; oldest files beyond it are
	// removed on save (0 = unlimited).
	MaxSnapshots int
}

// hexID guards the filename: root ids are 64-char hex, anything else
// would be a path traversal risk.
var hexID = regexp.MustCompile(`^[0-9a-f]{1,64}$`)

// OpenSnapshots creates the snapshot store under dir.
func OpenSnapshots(dir string) (*SnapshotStore, error) {
	path := filepath.Join(dir, "threads")
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, err
	}
	return &SnapshotStore{dir: path, MaxSnapshots: 64}, nil
}

// Save writes one snapshot.
func (s *SnapshotStore) Save(snap *thread.Snapshot) error {
	if snap == nil || !hexID.MatchString(snap.RootID) {
		return nil
	}
	data, err := snap.Marshal()
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(s.filePath(snap.RootID), data, 0600); err != nil {
		return err
	}
	s.enforceLimit()
	return nil
}

// SaveAll writes a batch of snapshots, stopping at the first error.
func (s *SnapshotStore) SaveAll(snaps []*thread.Snapshot) error {
	for _, snap := range snaps {
		if err := s.Save(snap); err != nil {
			return err
		}
	}
	return nil
}

// LoadAll reads every stored snapshot, silently skipping corrupt files.
func (s *SnapshotStore) LoadAll() []*thread.Snapshot {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	var snaps []*thread.Snapshot
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		snap, err := thread.UnmarshalSnapshot(data)
		if err != nil {
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps
}

// Delete removes one stored snapshot.
func (s *SnapshotStore) Delete(rootID string) {
	if hexID.MatchString(rootID) {
		os.Remove(s.filePath(rootID))
	}
}

func (s *SnapshotStore) filePath(rootID string) string {
	return filepath.Join(s.dir, rootID+".json")
}

// enforceLimit drops the oldest snapshot files beyond MaxSnapshots.
func (s *SnapshotStore) enforceLimit() {
	if s.MaxSnapshots <= 0 {
		return
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil || len(entries) <= s.MaxSnapshots {
		return
	}

	type aged struct {
		name string
		mod  int64
	}
	var files []aged
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil || entry.IsDir() {
			continue
		}
		files = append(files, aged{entry.Name(), info.ModTime().UnixNano()})
	}
	for len(files) > s.MaxSnapshots {
		oldest := 0
		for i, f := range files {
			if f.mod < files[oldest].mod {
				oldest = i
			}
		}
		os.Remove(filepath.Join(s.dir, files[oldest].name))
		files = append(files[:oldest], files[oldest+1:]...)
	}
}
