// Package sqlite provides an embedded record store for attendance events and the employee/shift
// records they reference. It backs local development and the service tests; production uses the
// postgresql package.
//
// The store keeps a single open connection, so SQLite serialises every statement. Clock event
// validation additionally runs under a per-employee keyed mutex (see WithinEmployeeScope).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// timestampLayout is fixed-width UTC with milliseconds so TEXT comparison orders chronologically.
const timestampLayout = "2006-01-02T15:04:05.000Z"

type txKey struct{}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store owns the SQLite connection shared by the attendance and employee repositories.
type Store struct {
	db    *sql.DB
	locks *keyedMutex
	now   func() time.Time
}

// New opens (and migrates) the database at path. Use ":memory:" for an in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database exists per connection
	db.SetMaxOpenConns(1)

	store := &Store{
		db:    db,
		locks: newKeyedMutex(),
		now:   time.Now,
	}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	slog.Info("SQLite store opened", "path", path)
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS shifts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		tolerance_minutes INTEGER NOT NULL DEFAULT 0 CHECK (tolerance_minutes >= 0),
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		document_number TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		shift_id INTEGER REFERENCES shifts(id),
		created_at TEXT NOT NULL
	);

	-- Append-only ledger of clock events
	CREATE TABLE IF NOT EXISTS attendances (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		kind TEXT NOT NULL CHECK (kind IN ('ENTRADA', 'SALIDA')),
		latitude TEXT NOT NULL,
		longitude TEXT NOT NULL,
		recorded_at TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_attendances_employee_kind_recorded
		ON attendances(employee_id, kind, recorded_at DESC);
	CREATE INDEX IF NOT EXISTS idx_attendances_employee_recorded
		ON attendances(employee_id, recorded_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// querier returns the transaction carried by ctx, or the database.
func (s *Store) querier(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

// withTransaction runs fn in a transaction carried by the context it receives. A context that
// already carries one joins it.
func (s *Store) withTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("rollback error during panic recovery", "error", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	return t, nil
}

// keyedMutex hands out one mutex per employee id and frees it once nobody holds or waits on it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[int64]*keyedEntry)}
}

// Lock blocks until the key is free and returns the matching unlock function.
func (k *keyedMutex) Lock(key int64) func() {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &keyedEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
