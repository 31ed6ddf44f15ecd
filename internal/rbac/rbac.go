package rbac

import (
	"time"

	"github.com/frahmantamala/callcenter-admin/internal"
)

// Role is the closed set of user roles. Adding a role is a code change.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleAgent   Role = "agent"
	RoleViewer  Role = "viewer"
)

// Page is the closed set of navigable pages. New pages require a change to
// the default-permission table below, not a data migration.
type Page string

const (
	PageDashboard      Page = "dashboard"
	PageInterviews     Page = "interviews"
	PageCandidates     Page = "candidates"
	PageCalls          Page = "calls"
	PageSettings       Page = "settings"
	PageUserManagement Page = "user_management"
)

var AllRoles = []Role{RoleAdmin, RoleManager, RoleAgent, RoleViewer}

var AllPages = []Page{
	PageDashboard,
	PageInterviews,
	PageCandidates,
	PageCalls,
	PageSettings,
	PageUserManagement,
}

// roleDefaults is total over Role x Page; DefaultPermissions copies a full
// row out of it for every known role.
var roleDefaults = map[Role]map[Page]bool{
	RoleAdmin: {
		PageDashboard:      true,
		PageInterviews:     true,
		PageCandidates:     true,
		PageCalls:          true,
		PageSettings:       true,
		PageUserManagement: true,
	},
	RoleManager: {
		PageDashboard:      true,
		PageInterviews:     true,
		PageCandidates:     true,
		PageCalls:          true,
		PageSettings:       true,
		PageUserManagement: false,
	},
	RoleAgent: {
		PageDashboard:      true,
		PageInterviews:     true,
		PageCandidates:     false,
		PageCalls:          true,
		PageSettings:       true,
		PageUserManagement: false,
	},
	RoleViewer: {
		PageDashboard:      true,
		PageInterviews:     false,
		PageCandidates:     false,
		PageCalls:          false,
		PageSettings:       true,
		PageUserManagement: false,
	},
}

// DefaultPermissions returns the full page map for a role. Unknown roles get
// an all-deny map so a bad value can never widen access.
func DefaultPermissions(role Role) map[Page]bool {
	defaults, ok := roleDefaults[role]
	perms := make(map[Page]bool, len(AllPages))
	for _, page := range AllPages {
		if ok {
			perms[page] = defaults[page]
		} else {
			perms[page] = false
		}
	}
	return perms
}

// DefaultPermission is the single-pair lookup over the same table.
func DefaultPermission(role Role, page Page) bool {
	if defaults, ok := roleDefaults[role]; ok {
		return defaults[page]
	}
	return false
}

func ParseRole(s string) (Role, error) {
	for _, r := range AllRoles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", internal.NewValidationError("invalid role: "+s, internal.ErrCodeInvalidRole)
}

func ParsePage(s string) (Page, error) {
	for _, p := range AllPages {
		if string(p) == s {
			return p, nil
		}
	}
	return "", internal.NewValidationError("invalid page: "+s, internal.ErrCodeInvalidPage)
}

// Identity is the already-authenticated principal handed to the engine.
// Token parsing and credential checks happen elsewhere.
type Identity struct {
	UserID int64
	Role   Role
	Active bool
}

// Override is one persisted per-(user, page) access decision that supersedes
// the role default in either direction.
type Override struct {
	UserID    int64     `json:"user_id"`
	Page      Page      `json:"page"`
	HasAccess bool      `json:"has_access"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) IsAdminOrManager() bool {
	return r == RoleAdmin || r == RoleManager
}
