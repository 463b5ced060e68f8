package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dkolar/stockroom/internal/model"
)

// CreateWorkspace creates a new workspace owned by a user. Fails if the
// user does not exist (foreign key).
func CreateWorkspace(ctx context.Context, db *sql.DB, name, userID string) (*model.Workspace, error) {
	id := newID()
	_, err := db.ExecContext(ctx,
		`INSERT INTO workspaces (id, name, user_id) VALUES (?, ?, ?)`,
		id, name, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}

	return GetWorkspace(ctx, db, id)
}

// GetWorkspace returns a workspace by ID, or nil if absent.
func GetWorkspace(ctx context.Context, db *sql.DB, id string) (*model.Workspace, error) {
	w := &model.Workspace{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, user_id, created_at, updated_at
		 FROM workspaces WHERE id = ?`, id,
	).Scan(&w.ID, &w.Name, &w.UserID, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting workspace: %w", err)
	}
	return w, nil
}

// ListWorkspaces returns all workspaces.
func ListWorkspaces(ctx context.Context, db *sql.DB) ([]model.Workspace, error) {
	return listWorkspaces(ctx, db,
		`SELECT id, name, user_id, created_at, updated_at FROM workspaces ORDER BY name`)
}

// ListWorkspacesByUser returns the workspaces owned by a user.
func ListWorkspacesByUser(ctx context.Context, db *sql.DB, userID string) ([]model.Workspace, error) {
	return listWorkspaces(ctx, db,
		`SELECT id, name, user_id, created_at, updated_at
		 FROM workspaces WHERE user_id = ? ORDER BY name`, userID)
}

func listWorkspaces(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.Workspace, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []model.Workspace
	for rows.Next() {
		var w model.Workspace
		if err := rows.Scan(&w.ID, &w.Name, &w.UserID, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning workspace: %w", err)
		}
		workspaces = append(workspaces, w)
	}
	return workspaces, rows.Err()
}

// WorkspaceUpdate holds the fields an update may replace.
type WorkspaceUpdate struct {
	Name   *string
	UserID *string
}

// UpdateWorkspace applies a partial update. Ownership is not re-validated
// beyond the foreign key. Returns ErrNotFound if the id does not exist.
func UpdateWorkspace(ctx context.Context, db *sql.DB, id string, upd WorkspaceUpdate) error {
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	var args []any
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.UserID != nil {
		sets = append(sets, "user_id = ?")
		args = append(args, *upd.UserID)
	}
	args = append(args, id)

	err := execOne(ctx, db, `UPDATE workspaces SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating workspace: %w", err)
	}
	return nil
}

// DeleteWorkspace removes a workspace. Returns ErrNotFound if the id does
// not exist. Fails while dependent records reference it (no cascade).
func DeleteWorkspace(ctx context.Context, db *sql.DB, id string) error {
	if err := execOne(ctx, db, `DELETE FROM workspaces WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting workspace: %w", err)
	}
	return nil
}
