package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dkolar/stockroom/internal/model"
)

// Categories form one nested-set forest per workspace: each node owns the
// half-open slot pair (lft, rgt) and descendants sit strictly inside their
// ancestor's bounds. All bound arithmetic happens inside a transaction and
// updates lft and rgt in a single statement so the lft < rgt check never
// observes a half-shifted row.

// CreateCategory creates a category in a workspace. With an empty parentID
// the node becomes a new root; otherwise it is appended as the parent's
// last child and all bounds at or right of the parent's rgt shift by two.
func CreateCategory(ctx context.Context, db *sql.DB, workspaceID, name, description, parentID string) (*model.Category, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}
	defer tx.Rollback()

	var lft int
	if parentID == "" {
		err = tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(rgt), 0) + 1 FROM categories WHERE workspace_id = ?`,
			workspaceID,
		).Scan(&lft)
		if err != nil {
			return nil, fmt.Errorf("creating category: finding root slot: %w", err)
		}
	} else {
		var parentWorkspace string
		var parentRgt int
		err = tx.QueryRowContext(ctx,
			`SELECT workspace_id, rgt FROM categories WHERE id = ?`, parentID,
		).Scan(&parentWorkspace, &parentRgt)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("creating category: parent: %w", ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("creating category: getting parent: %w", err)
		}
		if parentWorkspace != workspaceID {
			return nil, fmt.Errorf("creating category: parent belongs to another workspace")
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE categories
			    SET lft = CASE WHEN lft >= ?1 THEN lft + 2 ELSE lft END,
			        rgt = CASE WHEN rgt >= ?1 THEN rgt + 2 ELSE rgt END
			  WHERE workspace_id = ?2 AND rgt >= ?1`,
			parentRgt, workspaceID,
		)
		if err != nil {
			return nil, fmt.Errorf("creating category: shifting bounds: %w", err)
		}
		lft = parentRgt
	}

	id := newID()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO categories (id, workspace_id, name, description, lft, rgt)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, workspaceID, name, nullString(description), lft, lft+1,
	)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	return GetCategory(ctx, db, id)
}

// GetCategory returns a category by ID, or nil if absent.
func GetCategory(ctx context.Context, db *sql.DB, id string) (*model.Category, error) {
	c := &model.Category{}
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, workspace_id, name, description, lft, rgt, created_at, updated_at
		 FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.WorkspaceID, &c.Name, &description, &c.Lft, &c.Rgt, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	c.Description = description.String
	return c, nil
}

// ListCategories returns all categories in tree order, grouped by
// workspace.
func ListCategories(ctx context.Context, db *sql.DB) ([]model.Category, error) {
	return listCategories(ctx, db,
		`SELECT id, workspace_id, name, description, lft, rgt, created_at, updated_at
		 FROM categories ORDER BY workspace_id, lft`)
}

// ListCategoriesByWorkspace returns a workspace's categories in tree
// order.
func ListCategoriesByWorkspace(ctx context.Context, db *sql.DB, workspaceID string) ([]model.Category, error) {
	return listCategories(ctx, db,
		`SELECT id, workspace_id, name, description, lft, rgt, created_at, updated_at
		 FROM categories WHERE workspace_id = ? ORDER BY lft`, workspaceID)
}

// ListCategorySubtree returns the descendants of a category in tree order,
// excluding the node itself. Returns ErrNotFound if the node is absent.
func ListCategorySubtree(ctx context.Context, db *sql.DB, id string) ([]model.Category, error) {
	node, err := GetCategory(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, fmt.Errorf("listing category subtree: %w", ErrNotFound)
	}

	return listCategories(ctx, db,
		`SELECT id, workspace_id, name, description, lft, rgt, created_at, updated_at
		 FROM categories
		 WHERE workspace_id = ? AND lft > ? AND rgt < ?
		 ORDER BY lft`,
		node.WorkspaceID, node.Lft, node.Rgt)
}

func listCategories(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.Category, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.WorkspaceID, &c.Name, &description, &c.Lft, &c.Rgt, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		c.Description = description.String
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CategoryUpdate holds the fields an update may replace. The bounds are
// never updated directly; they only move through create and delete.
type CategoryUpdate struct {
	Name        *string
	Description *string
}

// UpdateCategory applies a partial update. Returns ErrNotFound if the id
// does not exist.
func UpdateCategory(ctx context.Context, db *sql.DB, id string, upd CategoryUpdate) error {
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	var args []any
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, nullString(*upd.Description))
	}
	args = append(args, id)

	err := execOne(ctx, db, `UPDATE categories SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category and its whole subtree, then closes the
// gap so the remaining bounds stay contiguous. Returns ErrNotFound if the
// id does not exist. Fails while items reference any removed node.
func DeleteCategory(ctx context.Context, db *sql.DB, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	defer tx.Rollback()

	var workspaceID string
	var lft, rgt int
	err = tx.QueryRowContext(ctx,
		`SELECT workspace_id, lft, rgt FROM categories WHERE id = ?`, id,
	).Scan(&workspaceID, &lft, &rgt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("deleting category: %w", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM categories WHERE workspace_id = ? AND lft >= ? AND rgt <= ?`,
		workspaceID, lft, rgt,
	)
	if err != nil {
		return fmt.Errorf("deleting category subtree: %w", err)
	}

	width := rgt - lft + 1
	_, err = tx.ExecContext(ctx,
		`UPDATE categories
		    SET lft = CASE WHEN lft > ?1 THEN lft - ?2 ELSE lft END,
		        rgt = CASE WHEN rgt > ?1 THEN rgt - ?2 ELSE rgt END
		  WHERE workspace_id = ?3 AND rgt > ?1`,
		rgt, width, workspaceID,
	)
	if err != nil {
		return fmt.Errorf("deleting category: closing gap: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return nil
}
