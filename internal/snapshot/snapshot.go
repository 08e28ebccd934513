// Package snapshot implements the daily checkpoint and retention
// mechanism that protects the record store against destructive edits.
//
// A snapshot is an immutable full copy of every collection, written at
// most once per calendar day to <dir>/YYYY-MM-DD.json. The date-based
// naming means lexicographic order equals chronological order, so
// retention pruning is a sort plus a delete of everything beyond the
// newest N artifacts. Artifact names are matched with a strict pattern
// rather than a glob, so stray files in the snapshot directory are
// never touched.
//
// Checkpoint is cheap to call on every user action: when today's
// artifact already exists it returns after a single stat, without
// exporting the store.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/novelforge/tracker/internal/record"
)

// DefaultRetention is the number of daily snapshots kept when no
// retention is configured.
const DefaultRetention = 5

// artifactName matches exactly the files the manager owns.
var artifactName = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\.json$`)

// dateLayout is the artifact naming layout; local calendar date.
const dateLayout = "2006-01-02"

// Exporter is the slice of the record store the checkpoint needs: a
// point-in-time copy of every collection.
type Exporter interface {
	ExportAllContext(ctx context.Context) (map[string][]record.Record, error)
}

// Restorer is the slice of the record store a restore writes through.
type Restorer interface {
	ReplaceCollectionContext(ctx context.Context, name string, records []record.Record) error
	CollectionNames(ctx context.Context) ([]string, error)
}

// PruneError reports that an old snapshot artifact could not be
// deleted. Pruning failures never fail the checkpoint itself; the new
// snapshot is already durable before pruning begins.
type PruneError struct {
	Path string
	Err  error
}

func (e *PruneError) Error() string {
	return fmt.Sprintf("failed to prune snapshot %s: %v", e.Path, e.Err)
}

func (e *PruneError) Unwrap() error {
	return e.Err
}

// Result describes what a Checkpoint call did.
type Result struct {
	// Taken is true when a new artifact was written, false when
	// today's artifact already existed.
	Taken bool
	// Path is today's artifact path, whether or not it was just
	// written.
	Path string
	// Pruned lists artifacts deleted by retention.
	Pruned []string
	// Warnings holds *PruneError values for artifacts that could not
	// be deleted.
	Warnings []error
}

// Info describes one snapshot artifact.
type Info struct {
	Date string
	Path string
	Size int64
}

// Manager owns the snapshot directory. No other component reads or
// writes snapshot artifacts.
type Manager struct {
	// Dir is the snapshot directory.
	Dir string
	// Retention is the maximum number of artifacts kept. Values < 1
	// are treated as 1 so pruning can never delete the snapshot just
	// written.
	Retention int
	// Now supplies the current time; defaults to time.Now. Tests
	// inject a fixed clock to exercise day boundaries.
	Now func() time.Time
	// Logger receives prune warnings; defaults to log.Default().
	Logger *log.Logger
}

// New creates a Manager with the given directory and retention.
func New(dir string, retention int) *Manager {
	return &Manager{Dir: dir, Retention: retention}
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Manager) logger() *log.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return log.Default()
}

func (m *Manager) retention() int {
	if m.Retention < 1 {
		return 1
	}
	return m.Retention
}

// Clock returns the manager's current time, honoring an injected Now.
// Callers that need "today" (the stats countdown, artifact naming) all
// share this one clock so tests can pin the day.
func (m *Manager) Clock() time.Time {
	return m.now()
}

// TodayPath returns the artifact path for the current calendar date.
func (m *Manager) TodayPath() string {
	return filepath.Join(m.Dir, m.now().Format(dateLayout)+".json")
}

// Checkpoint takes today's snapshot if it does not yet exist, then
// prunes artifacts beyond the retention cap.
//
// At most one snapshot is written per calendar day, first-write-wins:
// when today's artifact already exists the call is a no-op that costs a
// single existence check, with no export and no write. A failure to
// write the new artifact is returned as an error; failures to prune old
// artifacts are reported in Result.Warnings and logged, never as an
// error, because the new snapshot is durable before pruning starts.
func (m *Manager) Checkpoint(ctx context.Context, exp Exporter) (Result, error) {
	res := Result{Path: m.TodayPath()}

	if _, err := os.Stat(res.Path); err == nil {
		return res, nil
	} else if !os.IsNotExist(err) {
		return res, fmt.Errorf("failed to check snapshot %s: %w", res.Path, err)
	}

	if err := os.MkdirAll(m.Dir, 0755); err != nil {
		return res, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	collections, err := exp.ExportAllContext(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to export store for snapshot: %w", err)
	}

	if err := writeArtifact(res.Path, collections); err != nil {
		return res, err
	}
	res.Taken = true

	res.Pruned, res.Warnings = m.prune()
	for _, w := range res.Warnings {
		m.logger().Printf("Warning: %v", w)
	}

	return res, nil
}

// writeArtifact persists a snapshot atomically via temp file + rename,
// so a crash mid-write never leaves a half-written artifact behind.
func writeArtifact(path string, collections map[string][]record.Record) error {
	data, err := json.MarshalIndent(collections, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename snapshot into place: %w", err)
	}

	return nil
}

// prune deletes all but the most recent retention() artifacts. It
// returns the deleted paths and a warning per failed deletion.
func (m *Manager) prune() (pruned []string, warnings []error) {
	names, err := m.artifactNames()
	if err != nil {
		return nil, []error{&PruneError{Path: m.Dir, Err: err}}
	}

	keep := m.retention()
	if len(names) <= keep {
		return nil, nil
	}

	for _, name := range names[:len(names)-keep] {
		path := filepath.Join(m.Dir, name)
		if err := os.Remove(path); err != nil {
			warnings = append(warnings, &PruneError{Path: path, Err: err})
			continue
		}
		pruned = append(pruned, path)
	}

	return pruned, warnings
}

// artifactNames lists snapshot artifacts sorted oldest first. Sorting
// by name is chronological because names are ISO dates.
func (m *Manager) artifactNames() ([]string, error) {
	entries, err := os.ReadDir(m.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !artifactName.MatchString(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}

	sort.Strings(names)
	return names, nil
}

// List returns all snapshot artifacts, oldest first.
func (m *Manager) List() ([]Info, error) {
	names, err := m.artifactNames()
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(names))
	for _, name := range names {
		path := filepath.Join(m.Dir, name)
		var size int64
		if fi, err := os.Stat(path); err == nil {
			size = fi.Size()
		}
		infos = append(infos, Info{
			Date: artifactName.FindStringSubmatch(name)[1],
			Path: path,
			Size: size,
		})
	}

	return infos, nil
}

// Load reads the artifact for the given date without touching the
// store.
func (m *Manager) Load(date string) (map[string][]record.Record, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid snapshot date %q (want YYYY-MM-DD): %w", date, err)
	}

	path := filepath.Join(m.Dir, date+".json")
	// #nosec G304 - path is built from a validated date
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	var collections map[string][]record.Record
	if err := json.Unmarshal(data, &collections); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}

	return collections, nil
}

// Restore replaces the live store's contents with the artifact for the
// given date. Collections present in the store but absent from the
// artifact are emptied, so the store matches the snapshot afterwards.
//
// Each collection is replaced independently; a failure partway through
// leaves earlier collections restored. That mirrors the store's own
// per-collection write model.
func (m *Manager) Restore(ctx context.Context, st Restorer, date string) error {
	collections, err := m.Load(date)
	if err != nil {
		return err
	}

	existing, err := st.CollectionNames(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections before restore: %w", err)
	}
	for _, name := range existing {
		if _, ok := collections[name]; !ok {
			collections[name] = []record.Record{}
		}
	}

	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := st.ReplaceCollectionContext(ctx, name, collections[name]); err != nil {
			return fmt.Errorf("restore of %s stopped at collection %q: %w", date, name, err)
		}
	}

	return nil
}
