package tracking

import "time"

type Candidate struct {
	ID        int64     `gorm:"primaryKey"`
	FullName  string    `gorm:"column:full_name;not null"`
	Email     string    `gorm:"column:email;not null"`
	Phone     string    `gorm:"column:phone"`
	Position  string    `gorm:"column:position"`
	Status    string    `gorm:"column:status;not null;default:new"`
	Notes     string    `gorm:"column:notes"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (Candidate) TableName() string {
	return "candidates"
}
