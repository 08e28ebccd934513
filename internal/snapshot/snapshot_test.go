package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/novelforge/tracker/internal/record"
)

// fakeExporter serves a fixed set of collections and counts exports so
// tests can assert the no-op path never touches the store.
type fakeExporter struct {
	collections map[string][]record.Record
	calls       int
	err         error
}

func (f *fakeExporter) ExportAllContext(ctx context.Context) (map[string][]record.Record, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.collections, nil
}

// fakeStore implements Restorer in memory.
type fakeStore struct {
	collections map[string][]record.Record
	failOn      string
}

func (f *fakeStore) ReplaceCollectionContext(ctx context.Context, name string, records []record.Record) error {
	if name == f.failOn {
		return fmt.Errorf("disk full")
	}
	if f.collections == nil {
		f.collections = make(map[string][]record.Record)
	}
	f.collections[name] = records
	return nil
}

func (f *fakeStore) CollectionNames(ctx context.Context) ([]string, error) {
	var names []string
	for name := range f.collections {
		names = append(names, name)
	}
	return names, nil
}

func fixedClock(date string) func() time.Time {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func TestCheckpointOncePerDay(t *testing.T) {
	dir := t.TempDir()
	m := New(dir, DefaultRetention)
	m.Now = fixedClock("2026-08-27")

	exp := &fakeExporter{collections: map[string][]record.Record{
		"chapters": {{"title": "ch1", "word_count": 1500}},
	}}

	res, err := m.Checkpoint(context.Background(), exp)
	if err != nil {
		t.Fatalf("Checkpoint() error: %v", err)
	}
	if !res.Taken {
		t.Fatal("first Checkpoint() of the day did not take a snapshot")
	}
	if filepath.Base(res.Path) != "2026-08-27.json" {
		t.Errorf("artifact name = %s, want 2026-08-27.json", filepath.Base(res.Path))
	}
	if _, err := os.Stat(res.Path); err != nil {
		t.Fatalf("artifact not on disk: %v", err)
	}

	// Second call the same day must be a pure no-op.
	res, err = m.Checkpoint(context.Background(), exp)
	if err != nil {
		t.Fatalf("second Checkpoint() error: %v", err)
	}
	if res.Taken {
		t.Error("second Checkpoint() of the day took another snapshot")
	}
	if exp.calls != 1 {
		t.Errorf("store exported %d times, want 1 (no-op path must not export)", exp.calls)
	}
}

func TestCheckpointFirstWriteWins(t *testing.T) {
	dir := t.TempDir()
	m := New(dir, DefaultRetention)
	m.Now = fixedClock("2026-08-27")

	first := &fakeExporter{collections: map[string][]record.Record{
		"chapters": {{"title": "morning state"}},
	}}
	if _, err := m.Checkpoint(context.Background(), first); err != nil {
		t.Fatalf("Checkpoint() error: %v", err)
	}

	later := &fakeExporter{collections: map[string][]record.Record{
		"chapters": {{"title": "evening state"}},
	}}
	if _, err := m.Checkpoint(context.Background(), later); err != nil {
		t.Fatalf("Checkpoint() error: %v", err)
	}

	got, err := m.Load("2026-08-27")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got["chapters"][0].String("title") != "morning state" {
		t.Error("later checkpoint overwrote the day's first snapshot")
	}
}

func TestRetentionBound(t *testing.T) {
	dir := t.TempDir()
	m := New(dir, 3)

	exp := &fakeExporter{collections: map[string][]record.Record{
		"chapters": {{"title": "ch1"}},
	}}

	// Simulate eight consecutive days.
	for day := 1; day <= 8; day++ {
		m.Now = fixedClock(fmt.Sprintf("2026-08-%02d", day))
		if _, err := m.Checkpoint(context.Background(), exp); err != nil {
			t.Fatalf("Checkpoint() day %d error: %v", day, err)
		}
	}

	infos, err := m.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("retention kept %d artifacts, want 3", len(infos))
	}
	want := []string{"2026-08-06", "2026-08-07", "2026-08-08"}
	for i, date := range want {
		if infos[i].Date != date {
			t.Errorf("kept[%d] = %s, want %s (must keep newest, oldest first)", i, infos[i].Date, date)
		}
	}
}

func TestRetentionNeverDeletesTodaysSnapshot(t *testing.T) {
	dir := t.TempDir()
	m := New(dir, 0) // misconfigured retention clamps to 1
	m.Now = fixedClock("2026-08-27")

	exp := &fakeExporter{collections: map[string][]record.Record{}}
	res, err := m.Checkpoint(context.Background(), exp)
	if err != nil {
		t.Fatalf("Checkpoint() error: %v", err)
	}
	if _, err := os.Stat(res.Path); err != nil {
		t.Fatal("retention pruned the snapshot it just wrote")
	}
}

func TestPruneIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	foreign := []string{"notes.txt", "2026-08-27.json.bak", "backup.json", "20260827.json"}
	for _, name := range foreign {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	for _, date := range []string{"2026-08-25", "2026-08-26"} {
		if err := os.WriteFile(filepath.Join(dir, date+".json"), []byte("{}"), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	m := New(dir, 1)
	m.Now = fixedClock("2026-08-27")
	exp := &fakeExporter{collections: map[string][]record.Record{}}
	if _, err := m.Checkpoint(context.Background(), exp); err != nil {
		t.Fatalf("Checkpoint() error: %v", err)
	}

	for _, name := range foreign {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("prune deleted foreign file %s", name)
		}
	}

	infos, err := m.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(infos) != 1 || infos[0].Date != "2026-08-27" {
		t.Errorf("List() = %v, want only today's artifact", infos)
	}
}

func TestCheckpointExportFailure(t *testing.T) {
	m := New(t.TempDir(), DefaultRetention)
	m.Now = fixedClock("2026-08-27")

	exp := &fakeExporter{err: errors.New("database locked")}
	res, err := m.Checkpoint(context.Background(), exp)
	if err == nil {
		t.Fatal("Checkpoint() succeeded despite export failure")
	}
	if res.Taken {
		t.Error("Result.Taken = true despite failure")
	}
	if _, statErr := os.Stat(res.Path); !os.IsNotExist(statErr) {
		t.Error("a partial artifact was left behind")
	}
}

func TestLoadRejectsMalformedDate(t *testing.T) {
	m := New(t.TempDir(), DefaultRetention)
	for _, date := range []string{"yesterday", "2026/08/27", "../../etc/passwd", "2026-13-40"} {
		if _, err := m.Load(date); err == nil {
			t.Errorf("Load(%q) accepted a malformed date", date)
		}
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := New(dir, DefaultRetention)
	m.Now = fixedClock("2026-08-27")

	exp := &fakeExporter{collections: map[string][]record.Record{
		"chapters": {{"title": "ch1", "word_count": float64(1500)}},
		"todos":    {{"task": "edit", "done": false}},
	}}
	if _, err := m.Checkpoint(context.Background(), exp); err != nil {
		t.Fatalf("Checkpoint() error: %v", err)
	}

	st := &fakeStore{collections: map[string][]record.Record{
		"chapters":    {{"title": "mangled"}},
		"edit_passes": {{"focus": "Pacing"}}, // absent from the snapshot
	}}

	if err := m.Restore(context.Background(), st, "2026-08-27"); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}

	if got := st.collections["chapters"]; len(got) != 1 || got[0].String("title") != "ch1" {
		t.Errorf("chapters after restore = %v", got)
	}
	if got := st.collections["todos"]; len(got) != 1 {
		t.Errorf("todos after restore = %v", got)
	}
	if got := st.collections["edit_passes"]; len(got) != 0 {
		t.Errorf("collection absent from snapshot was not emptied: %v", got)
	}
}

func TestRestoreMissingArtifact(t *testing.T) {
	m := New(t.TempDir(), DefaultRetention)
	st := &fakeStore{}
	if err := m.Restore(context.Background(), st, "2026-01-01"); err == nil {
		t.Fatal("Restore() of a missing artifact succeeded")
	}
	if len(st.collections) != 0 {
		t.Error("Restore() of a missing artifact modified the store")
	}
}
