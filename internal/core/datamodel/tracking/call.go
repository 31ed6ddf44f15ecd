package tracking

import "time"

type Call struct {
	ID          int64     `gorm:"primaryKey"`
	CandidateID *int64    `gorm:"column:candidate_id"`
	AgentID     int64     `gorm:"column:agent_id;not null"`
	CallType    string    `gorm:"column:call_type;not null;default:outbound"`
	Status      string    `gorm:"column:status;not null;default:completed"`
	DurationSec int       `gorm:"column:duration_sec"`
	Notes       string    `gorm:"column:notes"`
	StartedAt   time.Time `gorm:"column:started_at;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

func (Call) TableName() string {
	return "calls"
}
