package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/callcenter-admin/internal"
	userDatamodel "github.com/frahmantamala/callcenter-admin/internal/core/datamodel/user"
	coredb "github.com/frahmantamala/callcenter-admin/internal/core/db"
	"github.com/frahmantamala/callcenter-admin/internal/rbac"
	"github.com/frahmantamala/callcenter-admin/internal/user"
)

// UserRepository implements the user.Repository interface using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User, passwordHash string) error {
	now := time.Now()
	row := userDatamodel.User{
		Email:        u.Email,
		FullName:     u.FullName,
		PasswordHash: passwordHash,
		Role:         string(u.Role),
		Active:       u.Active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := coredb.GetTxFromContext(ctx, r.db).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return internal.ErrDuplicateEmail
		}
		return err
	}

	u.ID = row.ID
	u.CreatedAt = row.CreatedAt
	u.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var row userDatamodel.User
	err := coredb.GetTxFromContext(ctx, r.db).First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return fromDataModel(&row), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var row userDatamodel.User
	err := coredb.GetTxFromContext(ctx, r.db).
		Where("email = ?", email).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return fromDataModel(&row), nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User, passwordHash *string) error {
	updates := map[string]interface{}{
		"email":      u.Email,
		"full_name":  u.FullName,
		"role":       string(u.Role),
		"active":     u.Active,
		"updated_at": time.Now(),
	}
	if passwordHash != nil {
		updates["password_hash"] = *passwordHash
	}

	result := coredb.GetTxFromContext(ctx, r.db).
		Model(&userDatamodel.User{}).
		Where("id = ?", u.ID).
		Updates(updates)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return internal.ErrDuplicateEmail
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result := coredb.GetTxFromContext(ctx, r.db).Delete(&userDatamodel.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, filter user.ListFilter) ([]user.User, error) {
	query := coredb.GetTxFromContext(ctx, r.db).Model(&userDatamodel.User{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?", pattern, pattern)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", string(*filter.Role))
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	var rows []userDatamodel.User
	err := query.
		Order("id ASC").
		Limit(filter.Limit).
		Offset(filter.Skip).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	users := make([]user.User, 0, len(rows))
	for i := range rows {
		users = append(users, *fromDataModel(&rows[i]))
	}
	return users, nil
}

func fromDataModel(row *userDatamodel.User) *user.User {
	return &user.User{
		ID:        row.ID,
		Email:     row.Email,
		FullName:  row.FullName,
		Role:      rbac.Role(row.Role),
		Active:    row.Active,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// isUniqueViolation matches both the postgres duplicate-key error and the
// sqlite variant used by the integration tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
