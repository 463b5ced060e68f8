package model

import "time"

// ItemType is a global lookup-table entry shared by all workspaces.
type ItemType struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
