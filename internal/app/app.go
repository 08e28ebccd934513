// Package app wires the record store, snapshot manager, and session
// projection into the tracker's command surface: load, save, and
// checkpoint operations callable independently of any rendering cycle.
// The CLI and the dashboard server are both thin layers over this
// package.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/novelforge/tracker/internal/project"
	"github.com/novelforge/tracker/internal/record"
	"github.com/novelforge/tracker/internal/session"
	"github.com/novelforge/tracker/internal/snapshot"
	"github.com/novelforge/tracker/internal/stats"
	"github.com/novelforge/tracker/internal/store"
)

// Tracker owns one store, its snapshot manager, and one editing
// session. Tests construct isolated trackers per test case; there is no
// process-wide singleton.
type Tracker struct {
	Store     *store.Store
	Snapshots *snapshot.Manager
	Session   *session.Projection
	Project   project.Manifest
	Logger    *log.Logger
}

// New creates a tracker over an open store.
func New(st *store.Store, snaps *snapshot.Manager, manifest project.Manifest, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.Default()
	}
	return &Tracker{
		Store:     st,
		Snapshots: snaps,
		Session:   session.New(st),
		Project:   manifest,
		Logger:    logger,
	}
}

// SaveResult describes the outcome of a successful save.
type SaveResult struct {
	// Persisted is the number of records now in the collection. Zero
	// is a valid outcome (the user cleared the table), distinct from
	// a failed save, which returns an error instead.
	Persisted int
	// Dropped is the number of all-blank rows filtered out before the
	// write.
	Dropped int
	// Checkpoint reports the opportunistic snapshot attempt made at
	// the top of the flow.
	Checkpoint snapshot.Result
	// ChapterCompleted is true when a chapters save contains at least
	// one finished chapter. Display layers use it for the
	// celebration line.
	ChapterCompleted bool
}

// LoadCollection returns the session's working copy of a collection,
// loading it from the store on first access.
func (t *Tracker) LoadCollection(ctx context.Context, name string) ([]record.Record, error) {
	if err := t.Session.EnsureLoaded(ctx, name); err != nil {
		return nil, err
	}
	records, _ := t.Session.Records(name)
	return records, nil
}

// SaveCollection runs the full user-action flow: attempt today's
// checkpoint first, so the pre-edit state is protected before the
// destructive overwrite, then commit the edited records through the
// session projection.
//
// A checkpoint write failure aborts the save before anything is
// overwritten; a failed save therefore always means the edits were not
// persisted. Prune warnings from the checkpoint never block the save.
func (t *Tracker) SaveCollection(ctx context.Context, name string, records []record.Record) (SaveResult, error) {
	var res SaveResult

	cp, err := t.Snapshots.Checkpoint(ctx, t.Store)
	if err != nil {
		return res, fmt.Errorf("checkpoint before save failed: %w", err)
	}
	res.Checkpoint = cp

	committed, err := t.Session.Commit(ctx, name, records)
	if err != nil {
		return res, err
	}

	res.Persisted = len(committed)
	res.Dropped = len(records) - len(committed)

	if name == record.Chapters {
		for _, r := range committed {
			if record.ChapterView(r).Done() {
				res.ChapterCompleted = true
				break
			}
		}
	}

	return res, nil
}

// RequestCheckpoint attempts today's checkpoint without saving
// anything. The no-op path costs one existence check.
func (t *Tracker) RequestCheckpoint(ctx context.Context) (snapshot.Result, error) {
	return t.Snapshots.Checkpoint(ctx, t.Store)
}

// SeedDemo inserts the demo chapters on a fresh store. A store that
// already has chapters is left untouched.
func (t *Tracker) SeedDemo(ctx context.Context) (bool, error) {
	return t.Store.SeedIfEmptyContext(ctx, record.Chapters, DemoChapters())
}

// Summary computes the word-count dashboard numbers from the current
// chapters collection and the project manifest.
func (t *Tracker) Summary(ctx context.Context) (stats.Summary, error) {
	chapters, err := t.LoadCollection(ctx, record.Chapters)
	if err != nil {
		return stats.Summary{}, err
	}

	var deadline any
	if t.Project.Deadline != "" {
		deadline = t.Project.Deadline
	}

	return stats.Compute(chapters, t.Project.TargetWords, deadline, t.Snapshots.Clock()), nil
}

// Restore replaces the store contents with a dated snapshot and drops
// every session working copy so subsequent reads see the restored data.
func (t *Tracker) Restore(ctx context.Context, date string) error {
	if err := t.Snapshots.Restore(ctx, t.Store, date); err != nil {
		return err
	}
	t.Session.InvalidateAll()
	return nil
}
