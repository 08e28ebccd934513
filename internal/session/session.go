// Package session provides the per-session working copies that an
// interactive editing surface mutates before an explicit save.
//
// A Projection lazily mirrors store collections into memory. Edits
// happen against the working copy; nothing reaches the record store
// until Commit, which performs the full-overwrite write and then adopts
// the committed records verbatim, so reads within the same session
// reflect exactly what was saved rather than a re-fetch.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/novelforge/tracker/internal/record"
)

// Backend is the slice of the record store a projection reads from and
// commits through.
type Backend interface {
	GetCollectionContext(ctx context.Context, name string) ([]record.Record, error)
	ReplaceCollectionContext(ctx context.Context, name string, records []record.Record) error
}

// Projection is one UI session's working copy of the store. It has no
// identity beyond the session lifetime and is never persisted.
type Projection struct {
	id      string
	backend Backend

	mu      sync.Mutex
	working map[string][]record.Record

	// freeForm marks collections whose all-blank editor scratch rows
	// are dropped on commit. A quality-of-life rule for free-form
	// tables, not a store invariant.
	freeForm map[string]bool
}

// New creates a projection over the given backend. The todos and
// edit_passes collections are registered as free-form by default.
func New(backend Backend) *Projection {
	return &Projection{
		id:      uuid.NewString(),
		backend: backend,
		working: make(map[string][]record.Record),
		freeForm: map[string]bool{
			record.Todos:      true,
			record.EditPasses: true,
		},
	}
}

// ID returns the session identifier.
func (p *Projection) ID() string {
	return p.id
}

// SetFreeForm registers or unregisters blank-row filtering for a
// collection.
func (p *Projection) SetFreeForm(name string, freeForm bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.freeForm[name] = freeForm
}

// EnsureLoaded initializes the working copy for a collection from the
// store if this session has not touched it yet. Subsequent calls are
// no-ops until the copy is invalidated.
func (p *Projection) EnsureLoaded(ctx context.Context, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.working[name]; ok {
		return nil
	}

	records, err := p.backend.GetCollectionContext(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to load working copy of %q: %w", name, err)
	}

	p.working[name] = records
	return nil
}

// Records returns the session's working copy of a collection and
// whether one has been loaded.
func (p *Projection) Records(name string) ([]record.Record, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	records, ok := p.working[name]
	return records, ok
}

// Commit persists the edited records as the complete new contents of
// the collection, then replaces the working copy with exactly what was
// written. For free-form collections, all-blank rows are dropped before
// the write. Returns the records actually persisted.
//
// An empty result is a valid save (the collection ends up empty), which
// is distinct from a failed save: on error the working copy is left
// untouched and the edits are known not to have been persisted.
func (p *Projection) Commit(ctx context.Context, name string, records []record.Record) ([]record.Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	committed := records
	if p.freeForm[name] {
		committed = record.DropBlank(records)
	}

	if err := p.backend.ReplaceCollectionContext(ctx, name, committed); err != nil {
		return nil, err
	}

	p.working[name] = committed
	return committed, nil
}

// Invalidate drops the working copy for a collection so the next
// EnsureLoaded re-reads the store. Used after a snapshot restore.
func (p *Projection) Invalidate(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.working, name)
}

// InvalidateAll drops every working copy.
func (p *Projection) InvalidateAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.working = make(map[string][]record.Record)
}
