package model

import "time"

// Item is a tracked inventory entry. Workspace, category and type are
// required references; location is optional. Prices carry both the
// indicative (list) and actual values.
type Item struct {
	ID                   string    `json:"id"`
	WorkspaceID          string    `json:"workspace_id"`
	CategoryID           string    `json:"category_id"`
	TypeID               string    `json:"type_id"`
	LocationID           string    `json:"location_id,omitempty"`
	Name                 string    `json:"name"`
	Description          string    `json:"description,omitempty"`
	Quantity             int       `json:"quantity"`
	WholesalePrice       *float64  `json:"wholesale_price,omitempty"`
	RetailPrice          *float64  `json:"retail_price,omitempty"`
	ActualWholesalePrice *float64  `json:"actual_wholesale_price,omitempty"`
	ActualRetailPrice    *float64  `json:"actual_retail_price,omitempty"`
	Width                *float64  `json:"width,omitempty"`
	Height               *float64  `json:"height,omitempty"`
	Depth                *float64  `json:"depth,omitempty"`
	Weight               *float64  `json:"weight,omitempty"`
	ForSale              bool      `json:"for_sale"`
	Barcode              string    `json:"barcode,omitempty"`
	SerialNumber         string    `json:"serial_number,omitempty"`
	ImageMime            string    `json:"image_mime,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
