package dashboard

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreWatcherDetectsWrites(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "tracker.db")
	if err := os.WriteFile(storePath, []byte("x"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	sw, err := NewStoreWatcher(storePath)
	if err != nil {
		t.Fatalf("NewStoreWatcher() error: %v", err)
	}
	if err := sw.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer sw.Stop()

	if !sw.IsRunning() {
		t.Fatal("IsRunning() = false after Start")
	}

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(storePath, []byte("changed"), 0o644); err != nil {
		t.Fatalf("modify store file: %v", err)
	}

	select {
	case <-sw.Events():
	case err := <-sw.Errors():
		t.Fatalf("watcher error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("no event after store file write")
	}
}

func TestStoreWatcherIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "tracker.db")
	if err := os.WriteFile(storePath, []byte("x"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	sw, err := NewStoreWatcher(storePath)
	if err != nil {
		t.Fatalf("NewStoreWatcher() error: %v", err)
	}
	if err := sw.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer sw.Stop()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("y"), 0o644); err != nil {
		t.Fatalf("write foreign file: %v", err)
	}

	select {
	case <-sw.Events():
		t.Fatal("got an event for an unrelated file")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestStoreWatcherMatchesSidecars(t *testing.T) {
	sw, err := NewStoreWatcher("/data/tracker.db")
	if err != nil {
		t.Fatalf("NewStoreWatcher() error: %v", err)
	}
	defer sw.watcher.Close()

	tests := []struct {
		path string
		want bool
	}{
		{"/data/tracker.db", true},
		{"/data/tracker.db-wal", true},
		{"/data/tracker.db-shm", true},
		{"/data/tracker.db.tmp", false},
		{"/data/other.db", false},
		{"/data/novel.toml", false},
	}

	for _, tt := range tests {
		if got := sw.isStoreFile(tt.path); got != tt.want {
			t.Errorf("isStoreFile(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
