package call

import (
	"time"

	"github.com/frahmantamala/callcenter-admin/internal"
)

const (
	TypeInbound  = "inbound"
	TypeOutbound = "outbound"

	StatusCompleted = "completed"
	StatusMissed    = "missed"
	StatusVoicemail = "voicemail"
)

type Call struct {
	ID          int64     `json:"id"`
	CandidateID *int64    `json:"candidate_id,omitempty"`
	AgentID     int64     `json:"agent_id"`
	CallType    string    `json:"call_type"`
	Status      string    `json:"status"`
	DurationSec int       `json:"duration_sec"`
	Notes       string    `json:"notes,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateCallDTO struct {
	CandidateID *int64    `json:"candidate_id,omitempty"`
	CallType    string    `json:"call_type"`
	Status      string    `json:"status"`
	DurationSec int       `json:"duration_sec"`
	Notes       string    `json:"notes"`
	StartedAt   time.Time `json:"started_at"`
}

func (dto *CreateCallDTO) Validate() error {
	var errs []internal.ValidationError

	if dto.StartedAt.IsZero() {
		errs = append(errs, internal.ValidationError{Field: "started_at", Message: "started_at is required", Code: string(internal.ErrCodeValidationFailed)})
	}
	if dto.DurationSec < 0 {
		errs = append(errs, internal.ValidationError{Field: "duration_sec", Message: "duration cannot be negative", Code: string(internal.ErrCodeValidationFailed)})
	}
	if dto.CallType == "" {
		dto.CallType = TypeOutbound
	}
	if dto.Status == "" {
		dto.Status = StatusCompleted
	}

	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

type UpdateCallDTO struct {
	Status      *string `json:"status,omitempty"`
	DurationSec *int    `json:"duration_sec,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func (dto *UpdateCallDTO) Validate() error {
	if dto.DurationSec != nil && *dto.DurationSec < 0 {
		return internal.NewValidationFieldError("duration_sec", "duration cannot be negative", internal.ErrCodeValidationFailed)
	}
	return nil
}
