package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dkolar/stockroom/internal/model"
)

// LocationCreate holds the fields for a new location.
type LocationCreate struct {
	WorkspaceID string
	Name        string
	Address     string
	Latitude    *float64
	Longitude   *float64
}

// CreateLocation creates a new location. Fails if the workspace does not
// exist (foreign key).
func CreateLocation(ctx context.Context, db *sql.DB, p LocationCreate) (*model.Location, error) {
	id := newID()
	_, err := db.ExecContext(ctx,
		`INSERT INTO locations (id, workspace_id, name, address, latitude, longitude)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, p.WorkspaceID, p.Name, nullString(p.Address), nullFloat(p.Latitude), nullFloat(p.Longitude),
	)
	if err != nil {
		return nil, fmt.Errorf("creating location: %w", err)
	}

	return GetLocation(ctx, db, id)
}

// GetLocation returns a location by ID, or nil if absent.
func GetLocation(ctx context.Context, db *sql.DB, id string) (*model.Location, error) {
	l := &model.Location{}
	var address sql.NullString
	var lat, long sql.NullFloat64
	err := db.QueryRowContext(ctx,
		`SELECT id, workspace_id, name, address, latitude, longitude, created_at, updated_at
		 FROM locations WHERE id = ?`, id,
	).Scan(&l.ID, &l.WorkspaceID, &l.Name, &address, &lat, &long, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting location: %w", err)
	}
	l.Address = address.String
	if lat.Valid {
		l.Latitude = &lat.Float64
	}
	if long.Valid {
		l.Longitude = &long.Float64
	}
	return l, nil
}

// ListLocations returns all locations.
func ListLocations(ctx context.Context, db *sql.DB) ([]model.Location, error) {
	return listLocations(ctx, db,
		`SELECT id, workspace_id, name, address, latitude, longitude, created_at, updated_at
		 FROM locations ORDER BY name`)
}

// ListLocationsByWorkspace returns the locations of a workspace.
func ListLocationsByWorkspace(ctx context.Context, db *sql.DB, workspaceID string) ([]model.Location, error) {
	return listLocations(ctx, db,
		`SELECT id, workspace_id, name, address, latitude, longitude, created_at, updated_at
		 FROM locations WHERE workspace_id = ? ORDER BY name`, workspaceID)
}

func listLocations(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.Location, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var l model.Location
		var address sql.NullString
		var lat, long sql.NullFloat64
		if err := rows.Scan(&l.ID, &l.WorkspaceID, &l.Name, &address, &lat, &long, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		l.Address = address.String
		if lat.Valid {
			l.Latitude = &lat.Float64
		}
		if long.Valid {
			l.Longitude = &long.Float64
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// LocationUpdate holds the fields an update may replace.
type LocationUpdate struct {
	Name      *string
	Address   *string
	Latitude  *float64
	Longitude *float64
}

// UpdateLocation applies a partial update. Returns ErrNotFound if the id
// does not exist.
func UpdateLocation(ctx context.Context, db *sql.DB, id string, upd LocationUpdate) error {
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	var args []any
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Address != nil {
		sets = append(sets, "address = ?")
		args = append(args, nullString(*upd.Address))
	}
	if upd.Latitude != nil {
		sets = append(sets, "latitude = ?")
		args = append(args, *upd.Latitude)
	}
	if upd.Longitude != nil {
		sets = append(sets, "longitude = ?")
		args = append(args, *upd.Longitude)
	}
	args = append(args, id)

	err := execOne(ctx, db, `UPDATE locations SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating location: %w", err)
	}
	return nil
}

// DeleteLocation removes a location. Returns ErrNotFound if the id does
// not exist.
func DeleteLocation(ctx context.Context, db *sql.DB, id string) error {
	if err := execOne(ctx, db, `DELETE FROM locations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting location: %w", err)
	}
	return nil
}
