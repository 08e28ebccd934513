package dashboard

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// StoreWatcher watches the record store's database file for external
// modification, so the dashboard notices saves made by a CLI running in
// another process. It watches the parent directory (SQLite writes go
// through the -wal sidecar and renames) and coalesces bursts of events
// into one notification.
type StoreWatcher struct {
	watcher   *fsnotify.Watcher
	events    chan struct{}
	errors    chan error
	done      chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
	running   bool
	storePath string
}

// coalesceWindow suppresses duplicate notifications within a burst of
// SQLite writes.
const coalesceWindow = 250 * time.Millisecond

// NewStoreWatcher creates a watcher for the given store file. The
// watcher must be started with Start() before it emits events.
func NewStoreWatcher(storePath string) (*StoreWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	abs, err := filepath.Abs(storePath)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to resolve store path: %w", err)
	}

	return &StoreWatcher{
		watcher:   watcher,
		events:    make(chan struct{}, 8),
		errors:    make(chan error, 8),
		done:      make(chan struct{}),
		storePath: abs,
	}, nil
}

// Start begins watching the store's directory for changes.
func (sw *StoreWatcher) Start() error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.running {
		return fmt.Errorf("watcher already running")
	}

	dir := filepath.Dir(sw.storePath)
	if err := sw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch store directory %s: %w", dir, err)
	}

	sw.running = true
	sw.wg.Add(1)
	go sw.processEvents()

	return nil
}

// Stop stops the watcher and closes its channels. It blocks until the
// event loop has exited.
func (sw *StoreWatcher) Stop() error {
	sw.mu.Lock()
	if !sw.running {
		sw.mu.Unlock()
		return nil
	}
	sw.running = false
	sw.mu.Unlock()

	close(sw.done)

	if err := sw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	sw.wg.Wait()

	close(sw.events)
	close(sw.errors)

	return nil
}

// Events returns the channel that signals store modifications. Closed
// when the watcher stops.
func (sw *StoreWatcher) Events() <-chan struct{} {
	return sw.events
}

// Errors returns the channel that emits watcher errors. Closed when the
// watcher stops.
func (sw *StoreWatcher) Errors() <-chan error {
	return sw.errors
}

func (sw *StoreWatcher) processEvents() {
	defer sw.wg.Done()

	var lastEmit time.Time

	for {
		select {
		case <-sw.done:
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}

			if !sw.isStoreFile(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if time.Since(lastEmit) < coalesceWindow {
				continue
			}

			select {
			case sw.events <- struct{}{}:
				lastEmit = time.Now()
			case <-sw.done:
				return
			default:
				// A pending notification already covers this burst.
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}

			select {
			case sw.errors <- err:
			case <-sw.done:
				return
			}
		}
	}
}

// isStoreFile matches the database file and its SQLite sidecars.
func (sw *StoreWatcher) isStoreFile(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs == sw.storePath || strings.HasPrefix(abs, sw.storePath+"-")
}

// IsRunning reports whether the watcher is currently running.
func (sw *StoreWatcher) IsRunning() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.running
}
