package model

import "time"

// Workspace is the tenant boundary owning categories, locations, items and
// IAM entries. It always belongs to an existing user.
type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
