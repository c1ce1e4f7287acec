// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Locations supplies the paths the store persists to. The store never builds
// paths itself; implementations decide where data lives. TempPath must be on
// the same volume as PrimaryPath so the rename in save stays atomic.
type Locations interface {
	PrimaryPath() string
	TempPath() string
	MirrorPath() string
	// BackupsDir returns the backup directory, creating it if absent.
	BackupsDir() (string, error)
	BackupPath(t time.Time) string
}

// DirLocations lays all files out under a single data directory:
// words.json, words.json.tmp, words.csv, and backups/.
type DirLocations struct {
	Dir string
}

// NewDirLocations creates the data directory if needed.
func NewDirLocations(dir string) (DirLocations, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return DirLocations{}, fmt.Errorf("create data dir: %w", err)
	}
	return DirLocations{Dir: dir}, nil
}

func (l DirLocations) PrimaryPath() string { return filepath.Join(l.Dir, "words.json") }
func (l DirLocations) TempPath() string    { return filepath.Join(l.Dir, "words.json.tmp") }
func (l DirLocations) MirrorPath() string  { return filepath.Join(l.Dir, "words.csv") }

func (l DirLocations) BackupsDir() (string, error) {
	dir := filepath.Join(l.Dir, "backups")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backups dir: %w", err)
	}
	return dir, nil
}

func (l DirLocations) BackupPath(t time.Time) string {
	return filepath.Join(l.Dir, "backups", "words-"+t.Format("20060102-1504")+".json")
}
