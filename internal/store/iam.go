package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dkolar/stockroom/internal/model"
)

// CreateIAM creates a workspace-scoped credential entry. The role defaults
// to USER when empty.
func CreateIAM(ctx context.Context, db *sql.DB, workspaceID, passwordHash, tag, role string) (*model.IAM, error) {
	if role == "" {
		role = model.IAMRoleUser
	}

	id := newID()
	_, err := db.ExecContext(ctx,
		`INSERT INTO iam (id, workspace_id, password_hash, tag, role) VALUES (?, ?, ?, ?, ?)`,
		id, workspaceID, passwordHash, nullString(tag), role,
	)
	if err != nil {
		return nil, fmt.Errorf("creating iam entry: %w", err)
	}

	return GetIAM(ctx, db, id)
}

// GetIAM returns an IAM entry by ID, or nil if absent.
func GetIAM(ctx context.Context, db *sql.DB, id string) (*model.IAM, error) {
	entry := &model.IAM{}
	var tag sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, workspace_id, password_hash, tag, role, created_at, updated_at
		 FROM iam WHERE id = ?`, id,
	).Scan(&entry.ID, &entry.WorkspaceID, &entry.PasswordHash, &tag, &entry.Role, &entry.CreatedAt, &entry.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting iam entry: %w", err)
	}
	entry.Tag = tag.String
	return entry, nil
}

// ListIAM returns all IAM entries.
func ListIAM(ctx context.Context, db *sql.DB) ([]model.IAM, error) {
	return listIAM(ctx, db,
		`SELECT id, workspace_id, password_hash, tag, role, created_at, updated_at
		 FROM iam ORDER BY created_at`)
}

// ListIAMByWorkspace returns the IAM entries of a workspace.
func ListIAMByWorkspace(ctx context.Context, db *sql.DB, workspaceID string) ([]model.IAM, error) {
	return listIAM(ctx, db,
		`SELECT id, workspace_id, password_hash, tag, role, created_at, updated_at
		 FROM iam WHERE workspace_id = ? ORDER BY created_at`, workspaceID)
}

func listIAM(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.IAM, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing iam entries: %w", err)
	}
	defer rows.Close()

	var entries []model.IAM
	for rows.Next() {
		var entry model.IAM
		var tag sql.NullString
		if err := rows.Scan(&entry.ID, &entry.WorkspaceID, &entry.PasswordHash, &tag, &entry.Role, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning iam entry: %w", err)
		}
		entry.Tag = tag.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// IAMUpdate holds the fields an update may replace.
type IAMUpdate struct {
	PasswordHash *string
	Tag          *string
	Role         *string
}

// UpdateIAM applies a partial update. Returns ErrNotFound if the id does
// not exist.
func UpdateIAM(ctx context.Context, db *sql.DB, id string, upd IAMUpdate) error {
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	var args []any
	if upd.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *upd.PasswordHash)
	}
	if upd.Tag != nil {
		sets = append(sets, "tag = ?")
		args = append(args, nullString(*upd.Tag))
	}
	if upd.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, *upd.Role)
	}
	args = append(args, id)

	err := execOne(ctx, db, `UPDATE iam SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating iam entry: %w", err)
	}
	return nil
}

// DeleteIAM removes an IAM entry. Returns ErrNotFound if the id does not
// exist.
func DeleteIAM(ctx context.Context, db *sql.DB, id string) error {
	if err := execOne(ctx, db, `DELETE FROM iam WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting iam entry: %w", err)
	}
	return nil
}
