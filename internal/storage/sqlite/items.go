package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tgoncalves/listly/internal/models"
)

// CreateItem persists a new item under its list.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if item.CreatedAt == 0 {
		item.CreatedAt = now
	}
	if item.UpdatedAt == 0 {
		item.UpdatedAt = now
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}

	var userID sql.NullString
	if item.UserID != "" {
		userID = sql.NullString{String: item.UserID, Valid: true}
	}

	_, err := s.conn(ctx).ExecContext(ctx,
		`INSERT INTO items (id, list_id, name, description, quantity, value, weight, user_id, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.ListID, item.Name, item.Description, item.Quantity,
		item.Value, item.Weight, userID, item.IsActive, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// DeactivateItems flips is_active off for the given items of the list in a
// single set-oriented update, so one call never leaves a partially-applied
// batch. Returns the number of rows updated; items belonging to another
// list do not count.
func (s *SQLiteStore) DeactivateItems(ctx context.Context, listID string, itemIDs []string) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}

	args := make([]any, 0, len(itemIDs)+2)
	args = append(args, time.Now().Unix(), listID)
	for _, id := range itemIDs {
		args = append(args, id)
	}

	query := fmt.Sprintf(
		"UPDATE items SET is_active = 0, updated_at = ? WHERE list_id = ? AND id IN (%s)",
		placeholders(len(itemIDs)),
	)
	res, err := s.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate items: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) listItems(ctx context.Context, listID string) ([]models.Item, error) {
	rows, err := s.conn(ctx).QueryContext(ctx,
		`SELECT id, list_id, name, description, quantity, value, weight, user_id, is_active, created_at, updated_at
		 FROM items WHERE list_id = ? ORDER BY created_at ASC, rowid ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		var userID sql.NullString
		if err := rows.Scan(&item.ID, &item.ListID, &item.Name, &item.Description,
			&item.Quantity, &item.Value, &item.Weight, &userID,
			&item.IsActive, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.UserID = userID.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

// placeholders returns "?, ?, ..." with n placeholders for IN clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
