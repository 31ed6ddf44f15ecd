package auth

import (
	"strings"

	"github.com/frahmantamala/callcenter-admin/internal"
)

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *LoginDTO) Validate() error {
	var errs []internal.ValidationError

	d.Email = strings.TrimSpace(strings.ToLower(d.Email))
	if d.Email == "" {
		errs = append(errs, internal.ValidationError{
			Field:   "email",
			Message: "email is required",
			Code:    string(internal.ErrCodeValidationFailed),
		})
	} else if !strings.Contains(d.Email, "@") {
		errs = append(errs, internal.ValidationError{
			Field:   "email",
			Message: "email format is invalid",
			Code:    string(internal.ErrCodeInvalidEmail),
		})
	}

	if d.Password == "" {
		errs = append(errs, internal.ValidationError{
			Field:   "password",
			Message: "password is required",
			Code:    string(internal.ErrCodeValidationFailed),
		})
	}

	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d *RefreshTokenDTO) Validate() error {
	if strings.TrimSpace(d.RefreshToken) == "" {
		return internal.NewValidationFieldError("refresh_token", "refresh token is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
