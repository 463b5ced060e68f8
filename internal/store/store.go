package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by update and delete operations when no record
// matches the given id. Lookups signal absence with a nil record instead.
var ErrNotFound = errors.New("record not found")

// newID generates a server-assigned opaque record id.
func newID() string {
	return uuid.NewString()
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullFloat maps a nil pointer to SQL NULL.
func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// execOne runs a statement that must affect exactly one row and converts
// "no rows affected" into ErrNotFound.
func execOne(ctx context.Context, db *sql.DB, query string, args ...any) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
