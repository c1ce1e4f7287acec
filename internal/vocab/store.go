// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period a burst of mutations must outlast
// before the cache is flushed to disk.
const DefaultDebounce = 600 * time.Millisecond

// Store owns the authoritative in-memory collection and keeps it in sync
// with durable storage: a structured primary file written atomically via
// temp-file + rename, a best-effort tabular mirror, and timestamped backups.
//
// Mutations notify subscribers synchronously, then schedule a debounced
// save; rapid bursts coalesce into a single write carrying the cache state
// as of when the save actually runs. All methods are safe for concurrent
// use; the mutex also guarantees each save serializes a consistent snapshot.
type Store struct {
	loc      Locations
	log      *slog.Logger
	debounce time.Duration

	// saveMu serializes whole save cycles: a timer-fired debounced save can
	// race a forced one, and interleaved writes to the shared temp path
	// would break the atomic-replace guarantee.
	saveMu sync.Mutex

	mu        sync.Mutex
	cache     []*WordEntry
	loaded    bool
	loading   chan struct{}
	timer     *time.Timer
	dirty     bool
	closed    bool
	listeners map[int]func()
	nextSub   int
}

// Option configures a Store at Open time.
type Option func(*Store)

// WithLogger sets the observability sink for recoverable and propagated errors.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithDebounce overrides the save debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) { s.debounce = d }
}

// Open constructs a Store over the given locations. The collection is not
// read until Load or the first mutating operation.
func Open(loc Locations, opts ...Option) *Store {
	s := &Store{
		loc:       loc,
		log:       slog.Default(),
		debounce:  DefaultDebounce,
		listeners: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the primary store file into the cache. It is idempotent: once
// loaded the cache is never refreshed from disk, and concurrent callers
// share a single in-flight read. A missing file means a fresh collection; an
// unparseable file degrades to an empty collection and is logged, not
// propagated. Subscribers are notified once the attempt completes.
func (s *Store) Load() {
	s.mu.Lock()
	if s.loaded {
		s.mu.Unlock()
		return
	}
	if ch := s.loading; ch != nil {
		s.mu.Unlock()
		<-ch
		return
	}
	ch := make(chan struct{})
	s.loading = ch
	s.mu.Unlock()

	var entries []*WordEntry
	path := s.loc.PrimaryPath()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// First run: start empty.
	case err != nil:
		s.log.Error("read store file, starting empty", "path", path, "err", err)
	default:
		// FromJSON returns nil only when the top level fails to parse;
		// an array of rejected records is still a parsed (empty) file.
		entries = FromJSON(data)
		if entries == nil {
			s.log.Error("store file unparseable, starting empty", "path", path)
		}
	}

	s.mu.Lock()
	s.cache = entries
	s.loaded = true
	s.loading = nil
	s.mu.Unlock()
	close(ch)
	s.notify()
}

// Entries returns a snapshot of the collection, loading it first if needed.
func (s *Store) Entries() []*WordEntry {
	s.Load()
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*WordEntry(nil), s.cache...)
}

// Get returns the entry with the given id, or nil.
func (s *Store) Get(id string) *WordEntry {
	s.Load()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.cache {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Due returns the entries whose next review is at or before now.
func (s *Store) Due(now time.Time) []*WordEntry {
	var due []*WordEntry
	for _, e := range s.Entries() {
		if e.Due(now) {
			due = append(due, e)
		}
	}
	return due
}

// Add appends an entry to the collection, generating an id and timestamps
// where absent, then notifies subscribers and schedules a save.
func (s *Store) Add(e *WordEntry) {
	s.AddAll([]*WordEntry{e})
}

// AddAll appends entries in order with a single notification and save.
func (s *Store) AddAll(entries []*WordEntry) {
	if len(entries) == 0 {
		return
	}
	s.Load()
	now := time.Now().UnixMilli()
	s.mu.Lock()
	for _, e := range entries {
		if e.ID == "" {
			e.ID = newEntryID()
		}
		if e.CreatedAt == 0 {
			e.CreatedAt = now
		}
		if e.NextReview == 0 {
			e.NextReview = e.CreatedAt
		}
		e.UpdatedAt = now
		s.cache = append(s.cache, e)
	}
	s.mu.Unlock()
	s.notify()
	s.scheduleSave()
}

// Update replaces the cached entry whose id matches. Updating an unknown id
// is a no-op: no notification, no save.
func (s *Store) Update(e *WordEntry) {
	s.Load()
	s.mu.Lock()
	found := false
	for i, cur := range s.cache {
		if cur.ID == e.ID {
			e.UpdatedAt = time.Now().UnixMilli()
			s.cache[i] = e
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return
	}
	s.notify()
	s.scheduleSave()
}

// Remove deletes every cached entry with the given id. Removing an unknown
// id is a no-op.
func (s *Store) Remove(id string) {
	s.Load()
	s.mu.Lock()
	kept := s.cache[:0]
	for _, e := range s.cache {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	removed := len(kept) != len(s.cache)
	s.cache = kept
	s.mu.Unlock()
	if !removed {
		return
	}
	s.notify()
	s.scheduleSave()
}

// Subscribe registers a listener invoked synchronously after every
// cache-content change. The returned function unregisters it.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// scheduleSave (re)starts the debounce timer; each call cancels any pending
// one, so a burst of mutations collapses into a single durable write.
func (s *Store) scheduleSave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.dirty = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		// Errors are already logged inside persist; there is no caller
		// to hand them to on the timer path.
		_ = s.persist()
	})
}

// SaveNow cancels any pending debounced save and flushes immediately.
func (s *Store) SaveNow() error {
	s.Load()
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.persist()
}

// persist snapshots the cache, writes the structured primary via temp-file +
// rename so the primary is never observed half-written, then writes the
// tabular mirror. A mirror failure never undoes the primary but is still
// logged and returned. Stopping the debounce timer does not wait for an
// already-fired callback, so concurrent invocations are possible; saveMu
// keeps each snapshot+write+rename cycle whole.
func (s *Store) persist() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if s.closed && !s.dirty {
		s.mu.Unlock()
		return nil
	}
	snap := append([]*WordEntry(nil), s.cache...)
	s.dirty = false
	s.mu.Unlock()

	data, err := ToJSON(snap)
	if err != nil {
		s.log.Error("serialize store", "err", err)
		return err
	}

	tmp := s.loc.TempPath()
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.log.Error("write temp store file", "path", tmp, "err", err)
		return fmt.Errorf("write temp store file: %w", err)
	}
	if err := os.Rename(tmp, s.loc.PrimaryPath()); err != nil {
		s.log.Error("replace store file", "path", s.loc.PrimaryPath(), "err", err)
		return fmt.Errorf("replace store file: %w", err)
	}

	csvText, err := ToCSV(snap)
	if err != nil {
		s.log.Error("serialize mirror", "err", err)
		return err
	}
	if err := os.WriteFile(s.loc.MirrorPath(), []byte(csvText), 0o644); err != nil {
		s.log.Error("write mirror file", "path", s.loc.MirrorPath(), "err", err)
		return fmt.Errorf("write mirror file: %w", err)
	}
	return nil
}

// BackupNow forces a save, then copies the primary file to a timestamped
// path in the backups directory. Returns the backup path.
func (s *Store) BackupNow() (string, error) {
	if err := s.SaveNow(); err != nil {
		return "", err
	}
	if _, err := s.loc.BackupsDir(); err != nil {
		s.log.Error("prepare backups dir", "err", err)
		return "", err
	}
	src := s.loc.PrimaryPath()
	data, err := os.ReadFile(src)
	if err != nil {
		s.log.Error("read primary for backup", "path", src, "err", err)
		return "", fmt.Errorf("read primary store file: %w", err)
	}
	dst := s.loc.BackupPath(time.Now())
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		s.log.Error("write backup", "path", dst, "err", err)
		return "", fmt.Errorf("write backup: %w", err)
	}
	return dst, nil
}

// ImportJSON decodes structured text and applies it to the collection.
// With merge true, imported entries overwrite existing ones sharing the same
// lowercase term; otherwise the decoded sequence replaces the cache.
// Returns the number of decoded entries; zero means no state change.
func (s *Store) ImportJSON(data []byte, merge bool) int {
	return s.applyImport(FromJSON(data), merge)
}

// ImportCSV decodes tabular text and applies it like ImportJSON.
func (s *Store) ImportCSV(text string, merge bool) int {
	return s.applyImport(FromCSV(text), merge)
}

// ImportQuickText decodes "term — meaning" lines and always merges.
func (s *Store) ImportQuickText(text string) int {
	return s.applyImport(FromQuickText(text), true)
}

func (s *Store) applyImport(imported []*WordEntry, merge bool) int {
	if len(imported) == 0 {
		return 0
	}
	s.Load()
	s.mu.Lock()
	if merge {
		// Index by lowercase term, existing entries first, so every imported
		// entry wins a term collision. Entries sharing a term collapse to
		// the last one applied.
		order := make([]string, 0, len(s.cache)+len(imported))
		byTerm := make(map[string]*WordEntry, len(s.cache)+len(imported))
		for _, e := range s.cache {
			key := strings.ToLower(e.Term)
			if _, seen := byTerm[key]; !seen {
				order = append(order, key)
			}
			byTerm[key] = e
		}
		for _, e := range imported {
			key := strings.ToLower(e.Term)
			if _, seen := byTerm[key]; !seen {
				order = append(order, key)
			}
			byTerm[key] = e
		}
		merged := make([]*WordEntry, 0, len(order))
		for _, key := range order {
			merged = append(merged, byTerm[key])
		}
		s.cache = merged
	} else {
		s.cache = imported
	}
	s.mu.Unlock()
	s.notify()
	s.scheduleSave()
	return len(imported)
}

// Close cancels any pending debounced save. If mutations are still waiting
// to be flushed, they are written synchronously before teardown completes.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	dirty := s.dirty
	s.mu.Unlock()
	if dirty {
		return s.persist()
	}
	return nil
}
