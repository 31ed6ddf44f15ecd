package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/callcenter-admin/internal"
	"github.com/frahmantamala/callcenter-admin/internal/candidate"
	trackingDatamodel "github.com/frahmantamala/callcenter-admin/internal/core/datamodel/tracking"
	coredb "github.com/frahmantamala/callcenter-admin/internal/core/db"
)

type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) candidate.Repository {
	return &CandidateRepository{db: db}
}

func (r *CandidateRepository) Create(ctx context.Context, c *candidate.Candidate) error {
	now := time.Now()
	row := trackingDatamodel.Candidate{
		FullName:  c.FullName,
		Email:     c.Email,
		Phone:     c.Phone,
		Position:  c.Position,
		Status:    c.Status,
		Notes:     c.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := coredb.GetTxFromContext(ctx, r.db).Create(&row).Error; err != nil {
		return err
	}

	c.ID = row.ID
	c.CreatedAt = row.CreatedAt
	c.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *CandidateRepository) GetByID(ctx context.Context, id int64) (*candidate.Candidate, error) {
	var row trackingDatamodel.Candidate
	err := coredb.GetTxFromContext(ctx, r.db).First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrCandidateNotFound
		}
		return nil, err
	}
	return fromDataModel(&row), nil
}

func (r *CandidateRepository) Update(ctx context.Context, c *candidate.Candidate) error {
	result := coredb.GetTxFromContext(ctx, r.db).
		Model(&trackingDatamodel.Candidate{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"full_name":  c.FullName,
			"email":      c.Email,
			"phone":      c.Phone,
			"position":   c.Position,
			"status":     c.Status,
			"notes":      c.Notes,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrCandidateNotFound
	}
	return nil
}

func (r *CandidateRepository) Delete(ctx context.Context, id int64) error {
	result := coredb.GetTxFromContext(ctx, r.db).Delete(&trackingDatamodel.Candidate{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrCandidateNotFound
	}
	return nil
}

func (r *CandidateRepository) List(ctx context.Context, search string, skip, limit int) ([]candidate.Candidate, error) {
	query := coredb.GetTxFromContext(ctx, r.db).Model(&trackingDatamodel.Candidate{})

	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(position) LIKE ?", pattern, pattern, pattern)
	}

	var rows []trackingDatamodel.Candidate
	err := query.
		Order("id ASC").
		Limit(limit).
		Offset(skip).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	candidates := make([]candidate.Candidate, 0, len(rows))
	for i := range rows {
		candidates = append(candidates, *fromDataModel(&rows[i]))
	}
	return candidates, nil
}

func fromDataModel(row *trackingDatamodel.Candidate) *candidate.Candidate {
	return &candidate.Candidate{
		ID:        row.ID,
		FullName:  row.FullName,
		Email:     row.Email,
		Phone:     row.Phone,
		Position:  row.Position,
		Status:    row.Status,
		Notes:     row.Notes,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
