package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dkolar/stockroom/internal/model"
)

// CreateUser creates a new user. The name is optional but must be unique
// when set, like the email; both constraints live in the database.
func CreateUser(ctx context.Context, db *sql.DB, name, email, passwordHash string) (*model.User, error) {
	id := newID()
	_, err := db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash) VALUES (?, ?, ?, ?)`,
		id, nullString(name), email, passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID, or nil if absent.
func GetUser(ctx context.Context, db *sql.DB, id string) (*model.User, error) {
	return getUserBy(ctx, db, "id", id)
}

// GetUserByEmail returns a user by email, or nil if absent.
func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*model.User, error) {
	return getUserBy(ctx, db, "email", email)
}

func getUserBy(ctx context.Context, db *sql.DB, column, value string) (*model.User, error) {
	u := &model.User{}
	var name sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at
		 FROM users WHERE `+column+` = ?`, value,
	).Scan(&u.ID, &name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	u.Name = name.String
	return u, nil
}

// ListUsers returns all users.
func ListUsers(ctx context.Context, db *sql.DB) ([]model.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at
		 FROM users ORDER BY email`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		var name sql.NullString
		if err := rows.Scan(&u.ID, &name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		u.Name = name.String
		users = append(users, u)
	}
	return users, rows.Err()
}

// UserUpdate holds the fields an update may replace. Nil fields are left
// untouched.
type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

// UpdateUser applies a partial update. Returns ErrNotFound if the id does
// not exist.
func UpdateUser(ctx context.Context, db *sql.DB, id string, upd UserUpdate) error {
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	var args []any
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, nullString(*upd.Name))
	}
	if upd.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *upd.Email)
	}
	if upd.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *upd.PasswordHash)
	}
	args = append(args, id)

	err := execOne(ctx, db, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

// DeleteUser removes a user. Returns ErrNotFound if the id does not exist.
func DeleteUser(ctx context.Context, db *sql.DB, id string) error {
	if err := execOne(ctx, db, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}
