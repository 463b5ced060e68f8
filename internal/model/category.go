package model

import "time"

// Category is a node in a workspace's category tree. The tree is encoded
// as a nested set: every node holds an interval [Lft, Rgt) and a node's
// interval strictly contains the intervals of all its descendants.
// Intervals never overlap between siblings and Lft < Rgt always holds.
type Category struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Lft         int       `json:"lft"`
	Rgt         int       `json:"rgt"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
