package interview

import (
	"time"

	"github.com/frahmantamala/callcenter-admin/internal"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

type Interview struct {
	ID          int64     `json:"id"`
	CandidateID int64     `json:"candidate_id"`
	Interviewer string    `json:"interviewer,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
	Feedback    string    `json:"feedback,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateInterviewDTO struct {
	CandidateID int64     `json:"candidate_id"`
	Interviewer string    `json:"interviewer"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
	Feedback    string    `json:"feedback"`
}

func (dto *CreateInterviewDTO) Validate() error {
	var errs []internal.ValidationError

	if dto.CandidateID <= 0 {
		errs = append(errs, internal.ValidationError{Field: "candidate_id", Message: "candidate_id is required", Code: string(internal.ErrCodeValidationFailed)})
	}
	if dto.ScheduledAt.IsZero() {
		errs = append(errs, internal.ValidationError{Field: "scheduled_at", Message: "scheduled_at is required", Code: string(internal.ErrCodeValidationFailed)})
	}
	if dto.Status == "" {
		dto.Status = StatusScheduled
	}

	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

type UpdateInterviewDTO struct {
	Interviewer *string    `json:"interviewer,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Feedback    *string    `json:"feedback,omitempty"`
}

func (dto *UpdateInterviewDTO) Validate() error {
	if dto.ScheduledAt != nil && dto.ScheduledAt.IsZero() {
		return internal.NewValidationFieldError("scheduled_at", "scheduled_at cannot be zero", internal.ErrCodeValidationFailed)
	}
	return nil
}
