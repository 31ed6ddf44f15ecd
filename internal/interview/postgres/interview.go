package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/callcenter-admin/internal"
	trackingDatamodel "github.com/frahmantamala/callcenter-admin/internal/core/datamodel/tracking"
	coredb "github.com/frahmantamala/callcenter-admin/internal/core/db"
	"github.com/frahmantamala/callcenter-admin/internal/interview"
)

type InterviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) interview.Repository {
	return &InterviewRepository{db: db}
}

func (r *InterviewRepository) Create(ctx context.Context, iv *interview.Interview) error {
	now := time.Now()
	row := trackingDatamodel.Interview{
		CandidateID: iv.CandidateID,
		Interviewer: iv.Interviewer,
		ScheduledAt: iv.ScheduledAt,
		Status:      iv.Status,
		Feedback:    iv.Feedback,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := coredb.GetTxFromContext(ctx, r.db).Create(&row).Error; err != nil {
		return err
	}

	iv.ID = row.ID
	iv.CreatedAt = row.CreatedAt
	iv.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *InterviewRepository) GetByID(ctx context.Context, id int64) (*interview.Interview, error) {
	var row trackingDatamodel.Interview
	err := coredb.GetTxFromContext(ctx, r.db).First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrInterviewNotFound
		}
		return nil, err
	}
	return fromDataModel(&row), nil
}

func (r *InterviewRepository) Update(ctx context.Context, iv *interview.Interview) error {
	result := coredb.GetTxFromContext(ctx, r.db).
		Model(&trackingDatamodel.Interview{}).
		Where("id = ?", iv.ID).
		Updates(map[string]interface{}{
			"interviewer":  iv.Interviewer,
			"scheduled_at": iv.ScheduledAt,
			"status":       iv.Status,
			"feedback":     iv.Feedback,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrInterviewNotFound
	}
	return nil
}

func (r *InterviewRepository) Delete(ctx context.Context, id int64) error {
	result := coredb.GetTxFromContext(ctx, r.db).Delete(&trackingDatamodel.Interview{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrInterviewNotFound
	}
	return nil
}

func (r *InterviewRepository) List(ctx context.Context, candidateID *int64, skip, limit int) ([]interview.Interview, error) {
	query := coredb.GetTxFromContext(ctx, r.db).Model(&trackingDatamodel.Interview{})
	if candidateID != nil {
		query = query.Where("candidate_id = ?", *candidateID)
	}

	var rows []trackingDatamodel.Interview
	err := query.
		Order("scheduled_at DESC").
		Limit(limit).
		Offset(skip).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	interviews := make([]interview.Interview, 0, len(rows))
	for i := range rows {
		interviews = append(interviews, *fromDataModel(&rows[i]))
	}
	return interviews, nil
}

func fromDataModel(row *trackingDatamodel.Interview) *interview.Interview {
	return &interview.Interview{
		ID:          row.ID,
		CandidateID: row.CandidateID,
		Interviewer: row.Interviewer,
		ScheduledAt: row.ScheduledAt,
		Status:      row.Status,
		Feedback:    row.Feedback,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
