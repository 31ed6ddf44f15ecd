package interview

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/callcenter-admin/internal/audit"
)

type Repository interface {
	Create(ctx context.Context, iv *Interview) error
	GetByID(ctx context.Context, id int64) (*Interview, error)
	Update(ctx context.Context, iv *Interview) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, candidateID *int64, skip, limit int) ([]Interview, error)
}

type AuditRecorder interface {
	RecordNonCritical(ctx context.Context, params audit.RecordParams)
}

type Service struct {
	repo    Repository
	auditor AuditRecorder
	logger  *slog.Logger
}

func NewService(repo Repository, auditor AuditRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		auditor: auditor,
		logger:  logger,
	}
}

func (s *Service) Create(ctx context.Context, actorID int64, dto CreateInterviewDTO) (*Interview, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	iv := &Interview{
		CandidateID: dto.CandidateID,
		Interviewer: dto.Interviewer,
		ScheduledAt: dto.ScheduledAt,
		Status:      dto.Status,
		Feedback:    dto.Feedback,
	}

	if err := s.repo.Create(ctx, iv); err != nil {
		s.logger.Error("failed to create interview", "actor_id", actorID, "error", err)
		return nil, err
	}

	s.auditor.RecordNonCritical(ctx, audit.RecordParams{
		ActorID: actorID,
		Action:  audit.ActionCreateInterview,
		Target:  audit.Target("interview", iv.ID),
		Metadata: map[string]interface{}{
			"candidate_id": iv.CandidateID,
			"scheduled_at": iv.ScheduledAt,
		},
	})
	return iv, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Interview, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, actorID, id int64, dto UpdateInterviewDTO) (*Interview, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	iv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Interviewer != nil {
		iv.Interviewer = *dto.Interviewer
	}
	if dto.ScheduledAt != nil {
		iv.ScheduledAt = *dto.ScheduledAt
	}
	if dto.Status != nil {
		iv.Status = *dto.Status
	}
	if dto.Feedback != nil {
		iv.Feedback = *dto.Feedback
	}

	if err := s.repo.Update(ctx, iv); err != nil {
		s.logger.Error("failed to update interview", "actor_id", actorID, "interview_id", id, "error", err)
		return nil, err
	}

	s.auditor.RecordNonCritical(ctx, audit.RecordParams{
		ActorID: actorID,
		Action:  audit.ActionUpdateInterview,
		Target:  audit.Target("interview", iv.ID),
		Metadata: map[string]interface{}{
			"status": iv.Status,
		},
	})
	return iv, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	iv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete interview", "actor_id", actorID, "interview_id", id, "error", err)
		return err
	}

	s.auditor.RecordNonCritical(ctx, audit.RecordParams{
		ActorID: actorID,
		Action:  audit.ActionDeleteInterview,
		Target:  audit.Target("interview", id),
		Metadata: map[string]interface{}{
			"candidate_id": iv.CandidateID,
		},
	})
	return nil
}

func (s *Service) List(ctx context.Context, candidateID *int64, skip, limit int) ([]Interview, error) {
	if limit <= 0 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}
	return s.repo.List(ctx, candidateID, skip, limit)
}
