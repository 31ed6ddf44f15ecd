package user

import (
	"strings"

	"github.com/frahmantamala/callcenter-admin/internal"
	"github.com/frahmantamala/callcenter-admin/internal/rbac"
)

// CreateUserDTO represents the request payload for creating a user
type CreateUserDTO struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Active   *bool  `json:"active,omitempty"`
}

func (dto *CreateUserDTO) Validate() error {
	var errs []internal.ValidationError

	dto.Email = strings.TrimSpace(strings.ToLower(dto.Email))
	if dto.Email == "" {
		errs = append(errs, internal.ValidationError{Field: "email", Message: "email is required", Code: string(internal.ErrCodeValidationFailed)})
	} else if !strings.Contains(dto.Email, "@") {
		errs = append(errs, internal.ValidationError{Field: "email", Message: "email format is invalid", Code: string(internal.ErrCodeInvalidEmail)})
	}

	dto.FullName = strings.TrimSpace(dto.FullName)
	if dto.FullName == "" {
		errs = append(errs, internal.ValidationError{Field: "full_name", Message: "full name is required", Code: string(internal.ErrCodeValidationFailed)})
	}

	if len(dto.Password) < 8 {
		errs = append(errs, internal.ValidationError{Field: "password", Message: "password must be at least 8 characters", Code: string(internal.ErrCodeValidationFailed)})
	}

	if dto.Role == "" {
		dto.Role = string(rbac.RoleViewer)
	}
	if _, err := rbac.ParseRole(dto.Role); err != nil {
		errs = append(errs, internal.ValidationError{Field: "role", Message: "role must be one of admin, manager, agent, viewer", Code: string(internal.ErrCodeInvalidRole)})
	}

	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

// UpdateUserDTO is a partial update; nil fields are left untouched.
type UpdateUserDTO struct {
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

func (dto *UpdateUserDTO) Validate() error {
	var errs []internal.ValidationError

	if dto.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*dto.Email))
		dto.Email = &email
		if email == "" || !strings.Contains(email, "@") {
			errs = append(errs, internal.ValidationError{Field: "email", Message: "email format is invalid", Code: string(internal.ErrCodeInvalidEmail)})
		}
	}
	if dto.FullName != nil && strings.TrimSpace(*dto.FullName) == "" {
		errs = append(errs, internal.ValidationError{Field: "full_name", Message: "full name cannot be empty", Code: string(internal.ErrCodeValidationFailed)})
	}
	if dto.Password != nil && len(*dto.Password) < 8 {
		errs = append(errs, internal.ValidationError{Field: "password", Message: "password must be at least 8 characters", Code: string(internal.ErrCodeValidationFailed)})
	}
	if dto.Role != nil {
		if _, err := rbac.ParseRole(*dto.Role); err != nil {
			errs = append(errs, internal.ValidationError{Field: "role", Message: "role must be one of admin, manager, agent, viewer", Code: string(internal.ErrCodeInvalidRole)})
		}
	}

	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

// PageAccessDTO sets one user's access to one page, in either direction.
type PageAccessDTO struct {
	Page      string `json:"page"`
	HasAccess *bool  `json:"has_access"`
}

func (dto *PageAccessDTO) Validate() error {
	var errs []internal.ValidationError

	if _, err := rbac.ParsePage(dto.Page); err != nil {
		errs = append(errs, internal.ValidationError{Field: "page", Message: "unknown page name", Code: string(internal.ErrCodeInvalidPage)})
	}
	if dto.HasAccess == nil {
		errs = append(errs, internal.ValidationError{Field: "has_access", Message: "has_access is required", Code: string(internal.ErrCodeValidationFailed)})
	}

	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}
