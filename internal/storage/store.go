// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/tgoncalves/listly/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for list storage operations. This abstraction
// allows swapping storage backends (SQLite, PostgreSQL, etc.) without
// changing the service layer.
type Store interface {
	// WithinTx runs fn inside a single transaction, the unit of work for
	// one logical operation. Store calls made with the context passed to
	// fn join that transaction. Callbacks deferred onto the unit of work
	// via the hooks package run strictly after a successful commit; a
	// rollback discards them.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error

	// CreateList persists a new list. ID and timestamps are populated if
	// unset. The participant relation is NOT touched: the owner is
	// enrolled by the post-create hook after commit.
	CreateList(ctx context.Context, list *models.List) error

	// GetList retrieves a list with its participants and items.
	// Returns ErrNotFound if no such list exists.
	GetList(ctx context.Context, listID string) (*models.List, error)

	// UpdateList updates title, description, visibility, active flag and
	// threshold. Returns ErrNotFound if no such list exists.
	UpdateList(ctx context.Context, list *models.List) error

	// ListsForUser returns the lists the user participates in, ordered by
	// creation time ascending.
	ListsForUser(ctx context.Context, userID string) ([]*models.List, error)

	// AddParticipant enrolls the user on the list.
	AddParticipant(ctx context.Context, listID, userID string) error

	// RemoveParticipant removes the user from the list's participant
	// relation.
	RemoveParticipant(ctx context.Context, listID, userID string) error

	// CreateItem persists a new item. ID and timestamps are populated if
	// unset.
	CreateItem(ctx context.Context, item *models.Item) error

	// DeactivateItems flips is_active to false on the given items of the
	// list in one set-oriented update and returns the number of rows
	// updated. Items not belonging to the list are left untouched.
	DeactivateItems(ctx context.Context, listID string, itemIDs []string) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
