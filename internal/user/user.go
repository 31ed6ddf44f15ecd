package user

import (
	"time"

	"github.com/frahmantamala/callcenter-admin/internal/rbac"
)

// User is the administrative view of an account, including the effective
// page permissions computed from role defaults plus overrides.
type User struct {
	ID              int64              `json:"id"`
	Email           string             `json:"email"`
	FullName        string             `json:"full_name"`
	Role            rbac.Role          `json:"role"`
	Active          bool               `json:"active"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	PagePermissions map[rbac.Page]bool `json:"page_permissions,omitempty"`
}

func (u *User) Identity() rbac.Identity {
	return rbac.Identity{
		UserID: u.ID,
		Role:   u.Role,
		Active: u.Active,
	}
}

// PageAccessChange reports the outcome of an override write: the effective
// value before and after, so callers can see whether anything moved.
type PageAccessChange struct {
	UserID         int64     `json:"user_id"`
	Page           rbac.Page `json:"page"`
	HasAccess      bool      `json:"has_access"`
	PreviousAccess bool      `json:"previous_access"`
	Changed        bool      `json:"changed"`
}

// ListFilter narrows the admin user listing.
type ListFilter struct {
	Search string
	Role   *rbac.Role
	Active *bool
	Skip   int
	Limit  int
}
