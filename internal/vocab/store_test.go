package vocab

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingLocations counts path lookups so tests can observe how many times
// the store actually read or wrote.
type countingLocations struct {
	DirLocations
	primaryCalls atomic.Int32
	tempCalls    atomic.Int32
}

func (l *countingLocations) PrimaryPath() string {
	l.primaryCalls.Add(1)
	return l.DirLocations.PrimaryPath()
}

func (l *countingLocations) TempPath() string {
	l.tempCalls.Add(1)
	return l.DirLocations.TempPath()
}

func newTestStore(t *testing.T) (*Store, *countingLocations) {
	t.Helper()
	loc := &countingLocations{DirLocations: DirLocations{Dir: t.TempDir()}}
	s := Open(loc, WithLogger(quietLogger()), WithDebounce(30*time.Millisecond))
	t.Cleanup(func() { s.Close() })
	return s, loc
}

func TestLoadMissingFile(t *testing.T) {
	s, _ := newTestStore(t)
	s.Load()
	if got := s.Entries(); len(got) != 0 {
		t.Fatalf("fresh store has %d entries, want 0", len(got))
	}
}

func TestLoadMalformedFileStartsEmpty(t *testing.T) {
	s, loc := newTestStore(t)
	if err := os.WriteFile(loc.DirLocations.PrimaryPath(), []byte("{corrupt"), 0o644); err != nil {
		t.Fatal(err)
	}
	s.Load()
	if got := s.Entries(); len(got) != 0 {
		t.Fatalf("corrupt store yielded %d entries, want 0", len(got))
	}
	// Still usable after the recoverable failure.
	s.Add(NewWordEntry("cat", "a small feline"))
	if got := s.Entries(); len(got) != 1 {
		t.Fatalf("add after corrupt load: %d entries, want 1", len(got))
	}
}

func TestLoadSkippedRecordsNotUnparseable(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	loc := DirLocations{Dir: t.TempDir()}
	// A valid array whose only record lacks required fields: the file
	// parsed fine, so it must not be reported as unparseable.
	if err := os.WriteFile(loc.PrimaryPath(), []byte(`[{"x":1}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	s := Open(loc, WithLogger(logger))
	defer s.Close()

	s.Load()
	if got := s.Entries(); len(got) != 0 {
		t.Fatalf("loaded %d entries, want 0", len(got))
	}
	if strings.Contains(logs.String(), "unparseable") {
		t.Fatalf("skipped records misreported as corruption:\n%s", logs.String())
	}

	// Actual corruption still gets the error.
	logs.Reset()
	loc2 := DirLocations{Dir: t.TempDir()}
	if err := os.WriteFile(loc2.PrimaryPath(), []byte("{corrupt"), 0o644); err != nil {
		t.Fatal(err)
	}
	s2 := Open(loc2, WithLogger(logger))
	defer s2.Close()
	s2.Load()
	if !strings.Contains(logs.String(), "unparseable") {
		t.Error("corrupt file was not reported")
	}
}

func TestLoadIdempotent(t *testing.T) {
	s, loc := newTestStore(t)
	seed, err := ToJSON([]*WordEntry{sampleEntry()})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(loc.DirLocations.PrimaryPath(), seed, 0o644); err != nil {
		t.Fatal(err)
	}

	s.Load()
	if got := s.Entries(); len(got) != 1 {
		t.Fatalf("loaded %d entries, want 1", len(got))
	}

	// Rewriting the file on disk must not affect an already-loaded cache.
	if err := os.WriteFile(loc.DirLocations.PrimaryPath(), []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}
	before := loc.primaryCalls.Load()
	s.Load()
	if got := s.Entries(); len(got) != 1 {
		t.Fatalf("second Load changed cache: %d entries, want 1", len(got))
	}
	if loc.primaryCalls.Load() != before {
		t.Error("second Load re-read the file")
	}
}

func TestConcurrentLoadReadsOnce(t *testing.T) {
	s, loc := newTestStore(t)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Load()
		}()
	}
	wg.Wait()
	if got := loc.primaryCalls.Load(); got != 1 {
		t.Fatalf("primary path resolved %d times during cold start, want 1", got)
	}
}

func TestUpdateAndRemove(t *testing.T) {
	s, _ := newTestStore(t)
	e := NewWordEntry("cat", "a small feline")
	s.Add(e)

	updated := *e
	updated.Meaning = "a domesticated feline"
	s.Update(&updated)
	if got := s.Get(e.ID); got == nil || got.Meaning != "a domesticated feline" {
		t.Fatalf("update not applied: %+v", got)
	}
	if got := s.Get(e.ID); got.UpdatedAt < e.CreatedAt {
		t.Error("UpdatedAt should not go backwards")
	}

	s.Remove(e.ID)
	if got := s.Entries(); len(got) != 0 {
		t.Fatalf("remove left %d entries", len(got))
	}
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add(NewWordEntry("cat", "a small feline"))

	notifications := 0
	unsubscribe := s.Subscribe(func() { notifications++ })
	defer unsubscribe()

	ghost := NewWordEntry("dog", "a canine")
	s.Update(ghost)
	s.Remove("no-such-id")

	if notifications != 0 {
		t.Fatalf("no-op mutations produced %d notifications", notifications)
	}
	if got := s.Entries(); len(got) != 1 {
		t.Fatalf("cache changed: %d entries", len(got))
	}
}

func TestDebounceCoalescing(t *testing.T) {
	s, loc := newTestStore(t)
	for i := 0; i < 5; i++ {
		s.Add(NewWordEntry("term", "meaning"))
	}
	time.Sleep(150 * time.Millisecond)

	if got := loc.tempCalls.Load(); got != 1 {
		t.Fatalf("5 rapid mutations caused %d saves, want 1", got)
	}
	data, err := os.ReadFile(loc.DirLocations.PrimaryPath())
	if err != nil {
		t.Fatalf("primary not written: %v", err)
	}
	if got := FromJSON(data); len(got) != 5 {
		t.Fatalf("saved %d entries, want all 5", len(got))
	}
}

func TestSaveNowWritesPrimaryAndMirror(t *testing.T) {
	s, loc := newTestStore(t)
	s.Add(sampleEntry())
	if err := s.SaveNow(); err != nil {
		t.Fatalf("SaveNow: %v", err)
	}

	if _, err := os.Stat(loc.DirLocations.TempPath()); !os.IsNotExist(err) {
		t.Error("temp file should not exist after a successful save")
	}
	mirror, err := os.ReadFile(loc.DirLocations.MirrorPath())
	if err != nil {
		t.Fatalf("mirror not written: %v", err)
	}
	if got := FromCSV(string(mirror)); len(got) != 1 || got[0].Term != "ephemeral" {
		t.Fatalf("mirror content mismatch: %+v", got)
	}
	header := strings.SplitN(string(mirror), "\n", 2)[0]
	if header != strings.Join(Columns, ",") {
		t.Errorf("mirror header = %q", header)
	}
}

// failTempLocations simulates an interrupted save: the temp file cannot be
// written, so the rename never happens.
type failTempLocations struct {
	DirLocations
}

func (l failTempLocations) TempPath() string {
	return filepath.Join(l.Dir, "no-such-dir", "words.json.tmp")
}

func TestInterruptedSaveLeavesPrimaryIntact(t *testing.T) {
	dir := t.TempDir()
	good := Open(DirLocations{Dir: dir}, WithLogger(quietLogger()))
	good.Add(NewWordEntry("cat", "a small feline"))
	if err := good.SaveNow(); err != nil {
		t.Fatalf("seed save: %v", err)
	}
	good.Close()
	before, err := os.ReadFile(DirLocations{Dir: dir}.PrimaryPath())
	if err != nil {
		t.Fatal(err)
	}

	bad := Open(failTempLocations{DirLocations{Dir: dir}}, WithLogger(quietLogger()), WithDebounce(time.Hour))
	bad.Add(NewWordEntry("dog", "a canine"))
	if err := bad.SaveNow(); err == nil {
		t.Fatal("SaveNow should fail when the temp file cannot be written")
	}

	after, err := os.ReadFile(DirLocations{Dir: dir}.PrimaryPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != string(before) {
		t.Fatal("primary file changed despite the failed save")
	}
}

// serializedLocations flags overlapping save cycles: TempPath opens the
// window, MirrorPath closes it after the primary has been replaced. The
// sleep widens the window so an unserialized timer-fired save would be
// caught overlapping a forced one.
type serializedLocations struct {
	DirLocations
	active  atomic.Int32
	overlap atomic.Bool
}

func (l *serializedLocations) TempPath() string {
	if l.active.Add(1) > 1 {
		l.overlap.Store(true)
	}
	time.Sleep(time.Millisecond)
	return l.DirLocations.TempPath()
}

func (l *serializedLocations) MirrorPath() string {
	l.active.Add(-1)
	return l.DirLocations.MirrorPath()
}

func TestForcedSaveDoesNotOverlapTimerSave(t *testing.T) {
	loc := &serializedLocations{DirLocations: DirLocations{Dir: t.TempDir()}}
	s := Open(loc, WithLogger(quietLogger()), WithDebounce(time.Microsecond))
	defer s.Close()

	// Each Add arms a timer that fires almost immediately, so its save
	// runs while SaveNow is also saving unless the cycles are serialized.
	for i := 0; i < 150; i++ {
		s.Add(NewWordEntry("term", "meaning"))
		if err := s.SaveNow(); err != nil {
			t.Fatalf("SaveNow: %v", err)
		}
	}
	if loc.overlap.Load() {
		t.Fatal("a timer-fired save ran concurrently with a forced save")
	}
}

func TestMergeImportCaseInsensitiveCollision(t *testing.T) {
	s, _ := newTestStore(t)
	existing := NewWordEntry("Cat", "old")
	existing.ID = "1"
	s.Add(existing)

	count := s.ImportQuickText("cat — X")
	if count != 1 {
		t.Fatalf("import count = %d, want 1", count)
	}
	got := s.Entries()
	if len(got) != 1 {
		t.Fatalf("cache has %d entries, want 1 after collision", len(got))
	}
	if got[0].Term != "cat" || got[0].Meaning != "X" {
		t.Fatalf("imported entry should win: %+v", got[0])
	}
	if got[0].ID == "1" {
		t.Error("colliding import replaces the entry, id included")
	}
}

func TestImportReplace(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add(NewWordEntry("cat", "a small feline"))

	count := s.ImportCSV("term,meaning\ndog,a canine\nbird,a flier\n", false)
	if count != 2 {
		t.Fatalf("import count = %d, want 2", count)
	}
	got := s.Entries()
	if len(got) != 2 {
		t.Fatalf("replace left %d entries, want 2", len(got))
	}
	for _, e := range got {
		if e.Term == "cat" {
			t.Fatal("replace should drop the previous cache")
		}
	}
}

func TestImportMergeExtends(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add(NewWordEntry("cat", "a small feline"))

	count := s.ImportCSV("term,meaning\ndog,a canine\n", true)
	if count != 1 {
		t.Fatalf("import count = %d, want 1", count)
	}
	if got := s.Entries(); len(got) != 2 {
		t.Fatalf("merge left %d entries, want 2", len(got))
	}
}

func TestImportBatchDuplicatesLastWins(t *testing.T) {
	s, _ := newTestStore(t)
	count := s.ImportQuickText("cat — first\ncat — second")
	if count != 2 {
		t.Fatalf("import count = %d, want 2 (count reflects decoded entries)", count)
	}
	got := s.Entries()
	if len(got) != 1 {
		t.Fatalf("cache has %d entries, want 1", len(got))
	}
	if got[0].Meaning != "second" {
		t.Fatalf("meaning = %q, want last duplicate to win", got[0].Meaning)
	}
}

func TestImportZeroEntriesNoStateChange(t *testing.T) {
	s, loc := newTestStore(t)
	s.Add(NewWordEntry("cat", "a small feline"))
	time.Sleep(100 * time.Millisecond) // let the pending save drain
	savesBefore := loc.tempCalls.Load()

	notifications := 0
	defer s.Subscribe(func() { notifications++ })()

	if count := s.ImportJSON([]byte("{malformed"), true); count != 0 {
		t.Fatalf("import count = %d, want 0", count)
	}
	if count := s.ImportCSV("term,meaning\n", false); count != 0 {
		t.Fatalf("import count = %d, want 0", count)
	}
	if notifications != 0 {
		t.Errorf("zero-entry imports notified %d times", notifications)
	}
	time.Sleep(100 * time.Millisecond)
	if loc.tempCalls.Load() != savesBefore {
		t.Error("zero-entry import scheduled a save")
	}
	if got := s.Entries(); len(got) != 1 {
		t.Fatalf("cache changed: %d entries", len(got))
	}
}

func TestBackupNow(t *testing.T) {
	s, loc := newTestStore(t)
	s.Add(sampleEntry())

	path, err := s.BackupNow()
	if err != nil {
		t.Fatalf("BackupNow: %v", err)
	}
	if filepath.Dir(path) != filepath.Join(loc.Dir, "backups") {
		t.Errorf("backup path = %s", path)
	}
	if name := filepath.Base(path); !strings.HasPrefix(name, "words-") || !strings.HasSuffix(name, ".json") {
		t.Errorf("backup name = %s", name)
	}
	backup, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	primary, err := os.ReadFile(loc.DirLocations.PrimaryPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(backup) != string(primary) {
		t.Error("backup content differs from primary")
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	s, _ := newTestStore(t)
	s.Load()

	notifications := 0
	unsubscribe := s.Subscribe(func() { notifications++ })

	s.Add(NewWordEntry("cat", "a small feline"))
	if notifications != 1 {
		t.Fatalf("notifications = %d, want 1", notifications)
	}

	unsubscribe()
	s.Add(NewWordEntry("dog", "a canine"))
	if notifications != 1 {
		t.Fatalf("notifications after unsubscribe = %d, want 1", notifications)
	}
}

func TestCloseFlushesPendingSave(t *testing.T) {
	loc := DirLocations{Dir: t.TempDir()}
	s := Open(loc, WithLogger(quietLogger()), WithDebounce(time.Hour))
	s.Add(NewWordEntry("cat", "a small feline"))
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(loc.PrimaryPath())
	if err != nil {
		t.Fatalf("primary missing after Close: %v", err)
	}
	if got := FromJSON(data); len(got) != 1 {
		t.Fatalf("flushed %d entries, want 1", len(got))
	}
}

func TestDueFiltering(t *testing.T) {
	s, _ := newTestStore(t)
	now := time.Now()
	due := NewWordEntry("cat", "a small feline")
	due.NextReview = now.Add(-time.Hour).UnixMilli()
	later := NewWordEntry("dog", "a canine")
	later.NextReview = now.Add(time.Hour).UnixMilli()
	s.AddAll([]*WordEntry{due, later})

	got := s.Due(now)
	if len(got) != 1 || got[0].Term != "cat" {
		t.Fatalf("Due returned %d entries: %+v", len(got), got)
	}
}
