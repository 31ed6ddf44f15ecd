package audit

import (
	"time"

	"github.com/frahmantamala/callcenter-admin/internal/rbac"
)

// Action tags recorded by the application. The column is free-form so
// callers may emit others, but everything the server writes is listed here.
const (
	ActionLogin            = "login"
	ActionLogout           = "logout"
	ActionCreateUser       = "create_user"
	ActionUpdateUser       = "update_user"
	ActionDeleteUser       = "delete_user"
	ActionUpdatePageAccess = "update_page_access"
	ActionCreateCandidate  = "create_candidate"
	ActionUpdateCandidate  = "update_candidate"
	ActionDeleteCandidate  = "delete_candidate"
	ActionCreateInterview  = "create_interview"
	ActionUpdateInterview  = "update_interview"
	ActionDeleteInterview  = "delete_interview"
	ActionCreateCall       = "create_call"
	ActionUpdateCall       = "update_call"
	ActionDeleteCall       = "delete_call"
)

// EventAuditRecorded is published on the in-process bus after every
// successful write.
const EventAuditRecorded = "audit.recorded"

// Entry is one immutable audit record. ActorName and TargetUserName are
// resolved by join at read time and stay nil when the referenced user has
// been deleted; they are never stored.
type Entry struct {
	ID             int64                  `json:"id"`
	ActorID        int64                  `json:"actor_id"`
	Action         string                 `json:"action"`
	Target         *string                `json:"target,omitempty"`
	TargetUserID   *int64                 `json:"target_user_id,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	Timestamp      time.Time              `json:"timestamp"`
	ActorName      *string                `json:"actor_name"`
	TargetUserName *string                `json:"target_user_name"`
}

// RecordParams is the write-path input. Metadata is an opaque payload whose
// shape varies per action; it is only ever displayed, never interpreted.
type RecordParams struct {
	ActorID      int64
	Action       string
	Target       *string
	TargetUserID *int64
	Metadata     map[string]interface{}
}

// Visibility scopes a read to the requesting identity. The filter is applied
// in the store, before any limit.
type Visibility struct {
	Role   rbac.Role
	UserID int64
}
