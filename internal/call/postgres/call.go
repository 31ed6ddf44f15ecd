package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/callcenter-admin/internal"
	"github.com/frahmantamala/callcenter-admin/internal/call"
	trackingDatamodel "github.com/frahmantamala/callcenter-admin/internal/core/datamodel/tracking"
	coredb "github.com/frahmantamala/callcenter-admin/internal/core/db"
)

type CallRepository struct {
	db *gorm.DB
}

func NewCallRepository(db *gorm.DB) call.Repository {
	return &CallRepository{db: db}
}

func (r *CallRepository) Create(ctx context.Context, c *call.Call) error {
	now := time.Now()
	row := trackingDatamodel.Call{
		CandidateID: c.CandidateID,
		AgentID:     c.AgentID,
		CallType:    c.CallType,
		Status:      c.Status,
		DurationSec: c.DurationSec,
		Notes:       c.Notes,
		StartedAt:   c.StartedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := coredb.GetTxFromContext(ctx, r.db).Create(&row).Error; err != nil {
		return err
	}

	c.ID = row.ID
	c.CreatedAt = row.CreatedAt
	c.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *CallRepository) GetByID(ctx context.Context, id int64) (*call.Call, error) {
	var row trackingDatamodel.Call
	err := coredb.GetTxFromContext(ctx, r.db).First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrCallNotFound
		}
		return nil, err
	}
	return fromDataModel(&row), nil
}

func (r *CallRepository) Update(ctx context.Context, c *call.Call) error {
	result := coredb.GetTxFromContext(ctx, r.db).
		Model(&trackingDatamodel.Call{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"status":       c.Status,
			"duration_sec": c.DurationSec,
			"notes":        c.Notes,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrCallNotFound
	}
	return nil
}

func (r *CallRepository) Delete(ctx context.Context, id int64) error {
	result := coredb.GetTxFromContext(ctx, r.db).Delete(&trackingDatamodel.Call{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrCallNotFound
	}
	return nil
}

func (r *CallRepository) List(ctx context.Context, agentID, candidateID *int64, skip, limit int) ([]call.Call, error) {
	query := coredb.GetTxFromContext(ctx, r.db).Model(&trackingDatamodel.Call{})
	if agentID != nil {
		query = query.Where("agent_id = ?", *agentID)
	}
	if candidateID != nil {
		query = query.Where("candidate_id = ?", *candidateID)
	}

	var rows []trackingDatamodel.Call
	err := query.
		Order("started_at DESC").
		Limit(limit).
		Offset(skip).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	calls := make([]call.Call, 0, len(rows))
	for i := range rows {
		calls = append(calls, *fromDataModel(&rows[i]))
	}
	return calls, nil
}

func fromDataModel(row *trackingDatamodel.Call) *call.Call {
	return &call.Call{
		ID:          row.ID,
		CandidateID: row.CandidateID,
		AgentID:     row.AgentID,
		CallType:    row.CallType,
		Status:      row.Status,
		DurationSec: row.DurationSec,
		Notes:       row.Notes,
		StartedAt:   row.StartedAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
