package audit

import "time"

// AuditLog rows are append-only: the application exposes no update or delete
// for them.
type AuditLog struct {
	ID           int64     `gorm:"primaryKey"`
	ActorID      int64     `gorm:"column:actor_id;not null"`
	Action       string    `gorm:"column:action;not null"`
	Target       *string   `gorm:"column:target"`
	TargetUserID *int64    `gorm:"column:target_user_id"`
	Metadata     []byte    `gorm:"column:metadata;type:jsonb"`
	Timestamp    time.Time `gorm:"column:timestamp"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
