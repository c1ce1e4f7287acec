// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mtreilly/arc-vocab/internal/config"
	"github.com/mtreilly/arc-vocab/internal/vocab"
	"github.com/spf13/cobra"
)

func newWatchCmd(cfg *config.Config, store *vocab.Store) *cobra.Command {
	var (
		dir        string
		debounceMs int
		oneShot    bool
	)

	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Watch a folder for quick-text files and auto-import",
		Long: `Monitor a directory for dropped .txt files of "term — meaning" lines and
import each one as it appears.

Examples:
  arc-vocab watch ~/Dropbox/vocab-inbox
  arc-vocab watch --one-shot`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				dir = args[0]
			}
			if dir == "" {
				dir = cfg.InboxDir
			}
			if dir == "" {
				return fmt.Errorf("no inbox directory: pass one or set inbox_dir in the config")
			}
			if strings.HasPrefix(dir, "~") {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("cannot determine home directory: %w", err)
				}
				dir = filepath.Join(home, dir[1:])
			}

			info, err := os.Stat(dir)
			if err != nil {
				return fmt.Errorf("cannot access directory %s: %w", dir, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}

			if oneShot {
				return importExistingFiles(dir, store)
			}
			return watchDirectory(dir, store, time.Duration(debounceMs)*time.Millisecond)
		},
	}

	cmd.Flags().IntVar(&debounceMs, "debounce", 1000, "Debounce milliseconds for file events")
	cmd.Flags().BoolVar(&oneShot, "one-shot", false, "Import existing files and exit")

	return cmd
}

func importExistingFiles(dir string, store *vocab.Store) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	total := 0
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			continue
		}
		total += importQuickFile(filepath.Join(dir, e.Name()), store)
	}
	fmt.Printf("Imported %d word(s).\n", total)
	return nil
}

func importQuickFile(path string, store *vocab.Store) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("  Warning: could not read %s: %v\n", path, err)
		return 0
	}
	count := store.ImportQuickText(string(data))
	if count > 0 {
		fmt.Printf("Imported %d word(s) from %s\n", count, filepath.Base(path))
	}
	return count
}

func watchDirectory(dir string, store *vocab.Store, debounce time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	fmt.Printf("Watching %s for quick-text files (Ctrl+C to stop)...\n", dir)

	// Editors fire several events per save; coalesce them per file before
	// importing.
	var mu sync.Mutex
	pending := make(map[string]*time.Timer)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".txt") {
				continue
			}
			path := event.Name
			mu.Lock()
			if t, exists := pending[path]; exists {
				t.Stop()
			}
			pending[path] = time.AfterFunc(debounce, func() {
				mu.Lock()
				delete(pending, path)
				mu.Unlock()
				importQuickFile(path, store)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Printf("  Warning: watch error: %v\n", err)
		}
	}
}
