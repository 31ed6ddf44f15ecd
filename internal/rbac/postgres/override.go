package postgres

import (
	"context"
	"errors"
	"time"

	accessDatamodel "github.com/frahmantamala/callcenter-admin/internal/core/datamodel/access"
	coredb "github.com/frahmantamala/callcenter-admin/internal/core/db"
	"github.com/frahmantamala/callcenter-admin/internal/rbac"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OverrideStore implements rbac.OverrideStore using GORM.
type OverrideStore struct {
	db *gorm.DB
}

func NewOverrideStore(db *gorm.DB) *OverrideStore {
	return &OverrideStore{db: db}
}

func (s *OverrideStore) Get(ctx context.Context, userID int64, page rbac.Page) (*rbac.Override, error) {
	var row accessDatamodel.PageAccessOverride
	err := coredb.GetTxFromContext(ctx, s.db).
		Where("user_id = ? AND page_name = ?", userID, string(page)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return fromDataModel(&row), nil
}

func (s *OverrideStore) ListForUser(ctx context.Context, userID int64) ([]rbac.Override, error) {
	var rows []accessDatamodel.PageAccessOverride
	err := coredb.GetTxFromContext(ctx, s.db).
		Where("user_id = ?", userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	overrides := make([]rbac.Override, 0, len(rows))
	for i := range rows {
		overrides = append(overrides, *fromDataModel(&rows[i]))
	}
	return overrides, nil
}

// Set writes the override as a single conflict-resolving statement against
// the (user_id, page_name) unique index. The race between concurrent writers
// for the same key is closed here, not by read-then-write in the service.
func (s *OverrideStore) Set(ctx context.Context, userID int64, page rbac.Page, hasAccess bool) (*rbac.Override, error) {
	now := time.Now()
	row := accessDatamodel.PageAccessOverride{
		UserID:    userID,
		PageName:  string(page),
		HasAccess: hasAccess,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := coredb.GetTxFromContext(ctx, s.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "page_name"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"has_access": hasAccess,
				"updated_at": now,
			}),
		}).
		Create(&row).Error
	if err != nil {
		return nil, err
	}
	return fromDataModel(&row), nil
}

// DeleteForUser removes every override owned by userID; called when the user
// row is removed so no orphaned overrides survive.
func (s *OverrideStore) DeleteForUser(ctx context.Context, userID int64) error {
	return coredb.GetTxFromContext(ctx, s.db).
		Where("user_id = ?", userID).
		Delete(&accessDatamodel.PageAccessOverride{}).Error
}

func fromDataModel(row *accessDatamodel.PageAccessOverride) *rbac.Override {
	return &rbac.Override{
		UserID:    row.UserID,
		Page:      rbac.Page(row.PageName),
		HasAccess: row.HasAccess,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
