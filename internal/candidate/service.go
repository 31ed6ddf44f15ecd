package candidate

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/callcenter-admin/internal/audit"
)

// Repository defines the data access methods for candidates.
type Repository interface {
	Create(ctx context.Context, c *Candidate) error
	GetByID(ctx context.Context, id int64) (*Candidate, error)
	Update(ctx context.Context, c *Candidate) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, search string, skip, limit int) ([]Candidate, error)
}

// AuditRecorder appends entries without failing the caller; candidate
// changes are tracked for accountability, not enforced atomically.
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

func (s *Service) Create(ctx context.Context, actorID int64, dto CreateCandidateDTO) (*Candidate, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c := &Candidate{
		FullName: dto.FullName,
		Email:    dto.Email,
		Phone:    dto.Phone,
		Position: dto.Position,
		Status:   dto.Status,
		Notes:    dto.Notes,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create candidate", "actor_id", actorID, "error", err)
		return nil, err
	}

	s.auditor.RecordNonCritical(ctx, audit.RecordParams{
		ActorID: actorID,
		Action:  audit.ActionCreateCandidate,
		Target:  audit.Target("candidate", c.ID),
		Metadata: map[string]interface{}{
			"full_name": c.FullName,
			"position":  c.Position,
		},
	})
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Candidate, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, actorID, id int64, dto UpdateCandidateDTO) (*Candidate, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.FullName != nil {
		c.FullName = *dto.FullName
	}
	if dto.Email != nil {
		c.Email = *dto.Email
	}
	if dto.Phone != nil {
		c.Phone = *dto.Phone
	}
	if dto.Position != nil {
		c.Position = *dto.Position
	}
	if dto.Status != nil {
		c.Status = *dto.Status
	}
	if dto.Notes != nil {
		c.Notes = *dto.Notes
	}

	if err := s.repo.Update(ctx, c); err != nil {
		s.logger.Error("failed to update candidate", "actor_id", actorID, "candidate_id", id, "error", err)
		return nil, err
	}

	s.auditor.RecordNonCritical(ctx, audit.RecordParams{
		ActorID: actorID,
		Action:  audit.ActionUpdateCandidate,
		Target:  audit.Target("candidate", c.ID),
		Metadata: map[string]interface{}{
			"status": c.Status,
		},
	})
	return c, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete candidate", "actor_id", actorID, "candidate_id", id, "error", err)
		return err
	}

	s.auditor.RecordNonCritical(ctx, audit.RecordParams{
		ActorID: actorID,
		Action:  audit.ActionDeleteCandidate,
		Target:  audit.Target("candidate", id),
		Metadata: map[string]interface{}{
			"full_name": c.FullName,
		},
	})
	return nil
}

func (s *Service) List(ctx context.Context, search string, skip, limit int) ([]Candidate, error) {
	if limit <= 0 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}
	return s.repo.List(ctx, search, skip, limit)
}
