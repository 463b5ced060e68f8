package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dkolar/stockroom/internal/model"
)

const itemColumns = `id, workspace_id, category_id, type_id, location_id, name, description,
	quantity, wholesale_price, retail_price, actual_wholesale_price, actual_retail_price,
	width, height, depth, weight, for_sale, barcode, serial_number, image_mime,
	created_at, updated_at`

// ItemCreate holds the fields for a new item. Workspace, category and type
// must reference existing records; the location is optional.
type ItemCreate struct {
	WorkspaceID          string
	CategoryID           string
	TypeID               string
	LocationID           string
	Name                 string
	Description          string
	Quantity             int
	WholesalePrice       *float64
	RetailPrice          *float64
	ActualWholesalePrice *float64
	ActualRetailPrice    *float64
	Width                *float64
	Height               *float64
	Depth                *float64
	Weight               *float64
	ForSale              bool
	Barcode              string
	SerialNumber         string
}

// CreateItem creates a new item. Referential checks are left to the
// database foreign keys.
func CreateItem(ctx context.Context, db *sql.DB, p ItemCreate) (*model.Item, error) {
	id := newID()
	_, err := db.ExecContext(ctx,
		`INSERT INTO items (id, workspace_id, category_id, type_id, location_id, name, description,
		    quantity, wholesale_price, retail_price, actual_wholesale_price, actual_retail_price,
		    width, height, depth, weight, for_sale, barcode, serial_number)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.WorkspaceID, p.CategoryID, p.TypeID, nullString(p.LocationID),
		p.Name, nullString(p.Description), p.Quantity,
		nullFloat(p.WholesalePrice), nullFloat(p.RetailPrice),
		nullFloat(p.ActualWholesalePrice), nullFloat(p.ActualRetailPrice),
		nullFloat(p.Width), nullFloat(p.Height), nullFloat(p.Depth), nullFloat(p.Weight),
		p.ForSale, nullString(p.Barcode), nullString(p.SerialNumber),
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or nil if absent.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	return listItems(ctx, db, `SELECT `+itemColumns+` FROM items ORDER BY name`)
}

// ListItemsByWorkspace returns the items of a workspace.
func ListItemsByWorkspace(ctx context.Context, db *sql.DB, workspaceID string) ([]model.Item, error) {
	return listItems(ctx, db,
		`SELECT `+itemColumns+` FROM items WHERE workspace_id = ? ORDER BY name`, workspaceID)
}

// ListItemsByCategory returns the items of a category and all of its
// descendants, using the nested-set bounds for the containment test.
// Returns ErrNotFound if the category is absent.
func ListItemsByCategory(ctx context.Context, db *sql.DB, categoryID string) ([]model.Item, error) {
	root, err := GetCategory(ctx, db, categoryID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("listing items by category: %w", ErrNotFound)
	}

	return listItems(ctx, db,
		`SELECT `+itemColumns+`
		 FROM items WHERE category_id IN (
		     SELECT id FROM categories WHERE workspace_id = ? AND lft >= ? AND rgt <= ?
		 )
		 ORDER BY name`,
		root.WorkspaceID, root.Lft, root.Rgt)
}

func listItems(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.Item, error) {
	item := &model.Item{}
	var locationID, description, barcode, serialNumber, imageMime sql.NullString
	var wholesale, retail, actualWholesale, actualRetail sql.NullFloat64
	var width, height, depth, weight sql.NullFloat64

	err := s.Scan(&item.ID, &item.WorkspaceID, &item.CategoryID, &item.TypeID, &locationID,
		&item.Name, &description, &item.Quantity,
		&wholesale, &retail, &actualWholesale, &actualRetail,
		&width, &height, &depth, &weight,
		&item.ForSale, &barcode, &serialNumber, &imageMime,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}

	item.LocationID = locationID.String
	item.Description = description.String
	item.Barcode = barcode.String
	item.SerialNumber = serialNumber.String
	item.ImageMime = imageMime.String
	setFloat := func(dst **float64, src sql.NullFloat64) {
		if src.Valid {
			v := src.Float64
			*dst = &v
		}
	}
	setFloat(&item.WholesalePrice, wholesale)
	setFloat(&item.RetailPrice, retail)
	setFloat(&item.ActualWholesalePrice, actualWholesale)
	setFloat(&item.ActualRetailPrice, actualRetail)
	setFloat(&item.Width, width)
	setFloat(&item.Height, height)
	setFloat(&item.Depth, depth)
	setFloat(&item.Weight, weight)
	return item, nil
}

// ItemUpdate holds the fields an update may replace. Nil fields are left
// untouched; references are not re-validated beyond the foreign keys.
type ItemUpdate struct {
	CategoryID           *string
	TypeID               *string
	LocationID           *string
	Name                 *string
	Description          *string
	Quantity             *int
	WholesalePrice       *float64
	RetailPrice          *float64
	ActualWholesalePrice *float64
	ActualRetailPrice    *float64
	Width                *float64
	Height               *float64
	Depth                *float64
	Weight               *float64
	ForSale              *bool
	Barcode              *string
	SerialNumber         *string
}

// UpdateItem applies a partial update. Returns ErrNotFound if the id does
// not exist.
func UpdateItem(ctx context.Context, db *sql.DB, id string, upd ItemUpdate) error {
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	var args []any
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if upd.CategoryID != nil {
		set("category_id", *upd.CategoryID)
	}
	if upd.TypeID != nil {
		set("type_id", *upd.TypeID)
	}
	if upd.LocationID != nil {
		set("location_id", nullString(*upd.LocationID))
	}
	if upd.Name != nil {
		set("name", *upd.Name)
	}
	if upd.Description != nil {
		set("description", nullString(*upd.Description))
	}
	if upd.Quantity != nil {
		set("quantity", *upd.Quantity)
	}
	if upd.WholesalePrice != nil {
		set("wholesale_price", *upd.WholesalePrice)
	}
	if upd.RetailPrice != nil {
		set("retail_price", *upd.RetailPrice)
	}
	if upd.ActualWholesalePrice != nil {
		set("actual_wholesale_price", *upd.ActualWholesalePrice)
	}
	if upd.ActualRetailPrice != nil {
		set("actual_retail_price", *upd.ActualRetailPrice)
	}
	if upd.Width != nil {
		set("width", *upd.Width)
	}
	if upd.Height != nil {
		set("height", *upd.Height)
	}
	if upd.Depth != nil {
		set("depth", *upd.Depth)
	}
	if upd.Weight != nil {
		set("weight", *upd.Weight)
	}
	if upd.ForSale != nil {
		set("for_sale", *upd.ForSale)
	}
	if upd.Barcode != nil {
		set("barcode", nullString(*upd.Barcode))
	}
	if upd.SerialNumber != nil {
		set("serial_number", nullString(*upd.SerialNumber))
	}
	args = append(args, id)

	err := execOne(ctx, db, `UPDATE items SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem removes an item. Returns ErrNotFound if the id does not
// exist.
func DeleteItem(ctx context.Context, db *sql.DB, id string) error {
	if err := execOne(ctx, db, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// SetItemImage sets an item's image data. Returns ErrNotFound if the id
// does not exist.
func SetItemImage(ctx context.Context, db *sql.DB, id string, image []byte, mime string) error {
	err := execOne(ctx, db,
		`UPDATE items SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	return nil
}

// GetItemImage returns an item's image data and MIME type. Both are empty
// when the item has no image or does not exist.
func GetItemImage(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}
