package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// The permission store is the per-list ACL: one row per
// (permission, user, list) grant.

// Assign grants the permission to the user on the list. Idempotent.
func (s *SQLiteStore) Assign(ctx context.Context, permission, userID, listID string) error {
	_, err := s.conn(ctx).ExecContext(ctx,
		"INSERT OR IGNORE INTO list_permissions (permission, user_id, list_id) VALUES (?, ?, ?)",
		permission, userID, listID,
	)
	if err != nil {
		return fmt.Errorf("failed to assign %q: %w", permission, err)
	}
	return nil
}

// Revoke removes the grant. Revoking an absent grant is a no-op.
func (s *SQLiteStore) Revoke(ctx context.Context, permission, userID, listID string) error {
	_, err := s.conn(ctx).ExecContext(ctx,
		"DELETE FROM list_permissions WHERE permission = ? AND user_id = ? AND list_id = ?",
		permission, userID, listID,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke %q: %w", permission, err)
	}
	return nil
}

// Has reports whether the user holds the permission on the list.
func (s *SQLiteStore) Has(ctx context.Context, permission, userID, listID string) (bool, error) {
	var one int
	err := s.conn(ctx).QueryRowContext(ctx,
		"SELECT 1 FROM list_permissions WHERE permission = ? AND user_id = ? AND list_id = ?",
		permission, userID, listID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %q: %w", permission, err)
	}
	return true, nil
}
