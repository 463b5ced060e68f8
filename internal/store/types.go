package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dkolar/stockroom/internal/model"
)

// CreateItemType creates a new global item type.
func CreateItemType(ctx context.Context, db *sql.DB, name string) (*model.ItemType, error) {
	id := newID()
	_, err := db.ExecContext(ctx,
		`INSERT INTO item_types (id, name) VALUES (?, ?)`,
		id, name,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item type: %w", err)
	}

	return GetItemType(ctx, db, id)
}

// GetItemType returns an item type by ID, or nil if absent.
func GetItemType(ctx context.Context, db *sql.DB, id string) (*model.ItemType, error) {
	t := &model.ItemType{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM item_types WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item type: %w", err)
	}
	return t, nil
}

// ListItemTypes returns all item types. Item types are a global lookup
// table, not scoped to a workspace.
func ListItemTypes(ctx context.Context, db *sql.DB) ([]model.ItemType, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM item_types ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item types: %w", err)
	}
	defer rows.Close()

	var types []model.ItemType
	for rows.Next() {
		var t model.ItemType
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning item type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// UpdateItemType renames an item type. Returns ErrNotFound if the id does
// not exist.
func UpdateItemType(ctx context.Context, db *sql.DB, id, name string) error {
	err := execOne(ctx, db,
		`UPDATE item_types SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, id,
	)
	if err != nil {
		return fmt.Errorf("updating item type: %w", err)
	}
	return nil
}

// DeleteItemType removes an item type. Returns ErrNotFound if the id does
// not exist. Fails while items reference it.
func DeleteItemType(ctx context.Context, db *sql.DB, id string) error {
	if err := execOne(ctx, db, `DELETE FROM item_types WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting item type: %w", err)
	}
	return nil
}
