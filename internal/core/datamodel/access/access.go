package access

import "time"

// PageAccessOverride holds one per-user, per-page override of the role
// default. The composite unique index is what makes the upsert race-safe:
// concurrent writes for the same (user_id, page_name) collapse onto a single
// row at the storage layer.
type PageAccessOverride struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_page_access_user_page"`
	PageName  string    `gorm:"column:page_name;not null;uniqueIndex:idx_page_access_user_page"`
	HasAccess bool      `gorm:"column:has_access;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (PageAccessOverride) TableName() string {
	return "page_access_overrides"
}
