// Package store provides the embedded record store for the tracker.
//
// The store maps a named collection ("chapters", "todos", "edit_passes")
// to an ordered sequence of loosely typed records. It is backed by an
// embedded SQLite database (WAL mode) with a single records table keyed
// by (collection, seq), where seq preserves insertion order.
//
// Writes are full-collection overwrites: ReplaceCollection discards the
// existing rows of one collection and inserts the submitted records in
// a single transaction. There is no merge and no cross-collection
// transaction; a crash between two ReplaceCollection calls can leave
// collections mutually inconsistent. That is a documented limitation of
// the design, protected against by the snapshot package's daily
// checkpoints.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/novelforge/tracker/internal/record"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Store wraps the embedded SQLite database holding all collections.
type Store struct {
	conn *sql.DB
	path string

	// Serializes ReplaceCollection and SeedIfEmpty so that a full
	// overwrite is last-writer-wins, never an interleaving of two
	// partial writes.
	mu sync.Mutex
}

// WriteError reports that the store could not durably persist a
// collection. Callers must surface it; a silently dropped save is
// unacceptable.
type WriteError struct {
	Collection string
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write collection %q: %v", e.Collection, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Open creates a new store at the specified path.
//
// The database is opened in embedded mode with WAL for concurrent
// reads. If it doesn't exist it is created along with the schema.
//
// The caller MUST call Close() when done.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s", path)
	conn, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{
		conn: conn,
		path: path,
	}

	if _, err := s.conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := s.conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := s.initSchema(); err != nil {
		_ = s.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the location of the backing database file.
func (s *Store) Path() string {
	return s.path
}

// Close closes the store, checkpointing the WAL first so all changes
// land in the main database file.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}

	if _, err := s.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to checkpoint WAL: %v\n", err)
	}

	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}

	s.conn = nil
	return nil
}

// initSchema creates the records table if it doesn't exist. Idempotent.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		collection TEXT NOT NULL,
		seq INTEGER NOT NULL,
		fields TEXT NOT NULL,  -- JSON object, unknown fields preserved
		PRIMARY KEY (collection, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_records_collection ON records(collection);
	`

	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// GetCollection returns all records currently in the named collection,
// in insertion order. A collection that has never been written yields
// an empty slice, not an error.
func (s *Store) GetCollection(name string) ([]record.Record, error) {
	return s.GetCollectionContext(context.Background(), name)
}

// GetCollectionContext returns a collection with context support.
func (s *Store) GetCollectionContext(ctx context.Context, name string) ([]record.Record, error) {
	query := `SELECT fields FROM records WHERE collection = ? ORDER BY seq ASC`

	rows, err := s.conn.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %q: %w", name, err)
	}
	defer rows.Close()

	return scanRecords(rows, name)
}

// ReplaceCollection discards all existing records in the named
// collection and inserts the given records in order, in a single
// transaction. This is a full overwrite, not a merge: callers submit
// the complete desired contents. An empty slice is a valid submission
// and results in an empty collection.
//
// The write is durable before ReplaceCollection returns; any failure is
// reported as a *WriteError.
func (s *Store) ReplaceCollection(name string, records []record.Record) error {
	return s.ReplaceCollectionContext(context.Background(), name, records)
}

// ReplaceCollectionContext replaces a collection with context support.
func (s *Store) ReplaceCollectionContext(ctx context.Context, name string, records []record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return &WriteError{Collection: name, Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE collection = ?`, name); err != nil {
		return &WriteError{Collection: name, Err: err}
	}

	if err := insertRecords(ctx, tx, name, records); err != nil {
		return &WriteError{Collection: name, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &WriteError{Collection: name, Err: err}
	}

	return nil
}

// SeedIfEmpty inserts records into the named collection only if it
// currently has zero records. Returns true if the seed was applied.
// Idempotent after the first successful call.
func (s *Store) SeedIfEmpty(name string, records []record.Record) (bool, error) {
	return s.SeedIfEmptyContext(context.Background(), name, records)
}

// SeedIfEmptyContext seeds a collection with context support.
func (s *Store) SeedIfEmptyContext(ctx context.Context, name string, records []record.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, &WriteError{Collection: name, Err: err}
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE collection = ?`, name).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count collection %q: %w", name, err)
	}

	if count > 0 {
		return false, nil
	}

	if err := insertRecords(ctx, tx, name, records); err != nil {
		return false, &WriteError{Collection: name, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return false, &WriteError{Collection: name, Err: err}
	}

	return true, nil
}

// ExportAll returns every collection with its full record sequence.
// The snapshot manager uses this to build a point-in-time copy.
func (s *Store) ExportAll() (map[string][]record.Record, error) {
	return s.ExportAllContext(context.Background())
}

// ExportAllContext exports all collections with context support.
func (s *Store) ExportAllContext(ctx context.Context) (map[string][]record.Record, error) {
	query := `SELECT collection, fields FROM records ORDER BY collection ASC, seq ASC`

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to export store: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]record.Record)
	for rows.Next() {
		var name, fields string
		if err := rows.Scan(&name, &fields); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		rec, err := decodeFields(fields)
		if err != nil {
			return nil, fmt.Errorf("corrupt record in collection %q: %w", name, err)
		}
		out[name] = append(out[name], rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return out, nil
}

// CollectionNames returns the names of all collections that currently
// hold at least one record, sorted alphabetically.
func (s *Store) CollectionNames(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT DISTINCT collection FROM records ORDER BY collection ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan collection name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collection names: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// Count returns the number of records in the named collection.
func (s *Store) Count(ctx context.Context, name string) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE collection = ?`, name).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count collection %q: %w", name, err)
	}
	return count, nil
}

// insertRecords writes records into a collection inside an open
// transaction, assigning seq values in submission order.
func insertRecords(ctx context.Context, tx *sql.Tx, name string, records []record.Record) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (collection, seq, fields) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rec := range records {
		fields, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal record %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, name, i, string(fields)); err != nil {
			return fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	return nil
}

// scanRecords decodes the fields column of a single-collection query.
func scanRecords(rows *sql.Rows, name string) ([]record.Record, error) {
	records := []record.Record{}

	for rows.Next() {
		var fields string
		if err := rows.Scan(&fields); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		rec, err := decodeFields(fields)
		if err != nil {
			return nil, fmt.Errorf("corrupt record in collection %q: %w", name, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

func decodeFields(fields string) (record.Record, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(fields), &m); err != nil {
		return nil, err
	}
	return record.Record(m), nil
}
