// Package sqlite provides a SQLite-backed implementation of the
// storage.Store and perms.Store interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/tgoncalves/listly/internal/hooks"
	"github.com/tgoncalves/listly/internal/perms"
	"github.com/tgoncalves/listly/internal/storage"
)

// Ensure SQLiteStore implements both store contracts.
var (
	_ storage.Store = (*SQLiteStore)(nil)
	_ perms.Store   = (*SQLiteStore)(nil)
)

// SQLiteStore implements storage.Store and perms.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	// FlushErrorHandler receives errors from post-commit callbacks. The
	// transaction has already committed when these fire, so they are never
	// returned from WithinTx. Defaults to logging at ERROR.
	FlushErrorHandler func(ctx context.Context, err error)
}

// New creates a new SQLiteStore with the given database path. It creates the
// parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{
		db: db,
		FlushErrorHandler: func(ctx context.Context, err error) {
			slog.ErrorContext(ctx, "post-commit callback failed", "error", err)
		},
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type txKey struct{}

// querier is the subset of *sql.DB and *sql.Tx the store uses, so queries
// can transparently join an ambient transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn returns the transaction attached to ctx, or the database itself.
func (s *SQLiteStore) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

// WithinTx runs fn inside a transaction. Callbacks queued on the unit of
// work run strictly after a successful commit; their errors go to
// FlushErrorHandler, never to the caller, because the operation itself has
// already succeeded. Rolling back discards the queue.
func (s *SQLiteStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		// Already inside a unit of work.
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	uowCtx, queue := hooks.WithUnitOfWork(ctx)
	if err := fn(context.WithValue(uowCtx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	// Deferred hooks run outside the transaction on purpose: their writes
	// must be visible after commit, not rolled back with it.
	if err := queue.Flush(ctx); err != nil && s.FlushErrorHandler != nil {
		s.FlushErrorHandler(ctx, err)
	}
	return nil
}
