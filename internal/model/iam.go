package model

import "time"

// IAM is a workspace-scoped credential/role record, distinct from the
// global user account.
type IAM struct {
	ID           string    `json:"id"`
	WorkspaceID  string    `json:"workspace_id"`
	PasswordHash string    `json:"-"`
	Tag          string    `json:"tag,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IAM roles.
const (
	IAMRoleUser  = "USER"
	IAMRoleAdmin = "ADMIN"
)

// ValidIAMRole reports whether role is one of the accepted IAM roles.
func ValidIAMRole(role string) bool {
	return role == IAMRoleUser || role == IAMRoleAdmin
}
