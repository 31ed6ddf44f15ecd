package candidate

import (
	"strings"
	"time"

	"github.com/frahmantamala/callcenter-admin/internal"
)

// Candidate statuses follow the hiring pipeline; the set is advisory, the
// column is free-form.
const (
	StatusNew       = "new"
	StatusScreening = "screening"
	StatusInterview = "interview"
	StatusOffer     = "offer"
	StatusHired     = "hired"
	StatusRejected  = "rejected"
)

type Candidate struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Position  string    `json:"position,omitempty"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateCandidateDTO struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Position string `json:"position"`
	Status   string `json:"status"`
	Notes    string `json:"notes"`
}

func (dto *CreateCandidateDTO) Validate() error {
	var errs []internal.ValidationError

	dto.FullName = strings.TrimSpace(dto.FullName)
	if dto.FullName == "" {
		errs = append(errs, internal.ValidationError{Field: "full_name", Message: "full name is required", Code: string(internal.ErrCodeValidationFailed)})
	}

	dto.Email = strings.TrimSpace(strings.ToLower(dto.Email))
	if dto.Email == "" || !strings.Contains(dto.Email, "@") {
		errs = append(errs, internal.ValidationError{Field: "email", Message: "a valid email is required", Code: string(internal.ErrCodeInvalidEmail)})
	}

	if dto.Status == "" {
		dto.Status = StatusNew
	}

	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

// UpdateCandidateDTO is a partial update; nil fields are left untouched.
type UpdateCandidateDTO struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Position *string `json:"position,omitempty"`
	Status   *string `json:"status,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

func (dto *UpdateCandidateDTO) Validate() error {
	if dto.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*dto.Email))
		dto.Email = &email
		if email == "" || !strings.Contains(email, "@") {
			return internal.NewValidationFieldError("email", "email format is invalid", internal.ErrCodeInvalidEmail)
		}
	}
	if dto.FullName != nil && strings.TrimSpace(*dto.FullName) == "" {
		return internal.NewValidationFieldError("full_name", "full name cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}
