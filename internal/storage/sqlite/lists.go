package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tgoncalves/listly/internal/models"
	"github.com/tgoncalves/listly/internal/storage"
)

// CreateList persists a new list. The participant relation is left alone:
// enrolling the owner happens in the post-create hook, after commit.
func (s *SQLiteStore) CreateList(ctx context.Context, list *models.List) error {
	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if list.CreatedAt == 0 {
		list.CreatedAt = now
	}
	if list.UpdatedAt == 0 {
		list.UpdatedAt = now
	}

	_, err := s.conn(ctx).ExecContext(ctx,
		`INSERT INTO lists (id, title, description, owner_id, is_public, is_active, threshold, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		list.ID, list.Title, list.Description, list.OwnerID,
		list.IsPublic, list.IsActive, list.Threshold, list.CreatedAt, list.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert list: %w", err)
	}
	return nil
}

// GetList retrieves a list by ID, including participants and items.
func (s *SQLiteStore) GetList(ctx context.Context, listID string) (*models.List, error) {
	list := &models.List{}
	err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT id, title, description, owner_id, is_public, is_active, threshold, created_at, updated_at
		 FROM lists WHERE id = ?`,
		listID,
	).Scan(&list.ID, &list.Title, &list.Description, &list.OwnerID,
		&list.IsPublic, &list.IsActive, &list.Threshold, &list.CreatedAt, &list.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list %s: %w", listID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}

	if list.ParticipantIDs, err = s.listParticipants(ctx, listID); err != nil {
		return nil, err
	}
	if list.Items, err = s.listItems(ctx, listID); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateList updates the list's mutable fields. The owner is immutable.
func (s *SQLiteStore) UpdateList(ctx context.Context, list *models.List) error {
	list.UpdatedAt = time.Now().Unix()

	res, err := s.conn(ctx).ExecContext(ctx,
		`UPDATE lists SET title = ?, description = ?, is_public = ?, is_active = ?, threshold = ?, updated_at = ?
		 WHERE id = ?`,
		list.Title, list.Description, list.IsPublic, list.IsActive,
		list.Threshold, list.UpdatedAt, list.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update list: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("list %s: %w", list.ID, storage.ErrNotFound)
	}
	return nil
}

// ListsForUser returns the lists the user participates in, oldest first.
func (s *SQLiteStore) ListsForUser(ctx context.Context, userID string) ([]*models.List, error) {
	rows, err := s.conn(ctx).QueryContext(ctx,
		`SELECT l.id
		 FROM lists l
		 JOIN list_participants p ON p.list_id = l.id
		 WHERE p.user_id = ?
		 ORDER BY l.created_at ASC, l.rowid ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists for user: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan list id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lists: %w", err)
	}

	lists := make([]*models.List, 0, len(ids))
	for _, id := range ids {
		list, err := s.GetList(ctx, id)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, nil
}

// AddParticipant enrolls the user on the list. Callers guard against double
// enrollment with an explicit permission check first.
func (s *SQLiteStore) AddParticipant(ctx context.Context, listID, userID string) error {
	_, err := s.conn(ctx).ExecContext(ctx,
		"INSERT OR IGNORE INTO list_participants (list_id, user_id) VALUES (?, ?)",
		listID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

// RemoveParticipant removes the user from the list's participant relation.
func (s *SQLiteStore) RemoveParticipant(ctx context.Context, listID, userID string) error {
	_, err := s.conn(ctx).ExecContext(ctx,
		"DELETE FROM list_participants WHERE list_id = ? AND user_id = ?",
		listID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	return nil
}

func (s *SQLiteStore) listParticipants(ctx context.Context, listID string) ([]string, error) {
	rows, err := s.conn(ctx).QueryContext(ctx,
		"SELECT user_id FROM list_participants WHERE list_id = ? ORDER BY user_id",
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return ids, nil
}
