package tracking

import "time"

type Interview struct {
	ID          int64     `gorm:"primaryKey"`
	CandidateID int64     `gorm:"column:candidate_id;not null"`
	Interviewer string    `gorm:"column:interviewer"`
	ScheduledAt time.Time `gorm:"column:scheduled_at;not null"`
	Status      string    `gorm:"column:status;not null;default:scheduled"`
	Feedback    string    `gorm:"column:feedback"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

func (Interview) TableName() string {
	return "interviews"
}
