package call

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/callcenter-admin/internal/audit"
)

type Repository interface {
	Create(ctx context.Context, c *Call) error
	GetByID(ctx context.Context, id int64) (*Call, error)
	Update(ctx context.Context, c *Call) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, agentID, candidateID *int64, skip, limit int) ([]Call, error)
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

// Create logs a call under the acting agent; the actor is always the agent
// of record.
func (s *Service) Create(ctx context.Context, actorID int64, dto CreateCallDTO) (*Call, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c := &Call{
		CandidateID: dto.CandidateID,
		AgentID:     actorID,
		CallType:    dto.CallType,
		Status:      dto.Status,
		DurationSec: dto.DurationSec,
		Notes:       dto.Notes,
		StartedAt:   dto.StartedAt,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create call", "actor_id", actorID, "error", err)
		return nil, err
	}

	s.auditor.RecordNonCritical(ctx, audit.RecordParams{
		ActorID: actorID,
		Action:  audit.ActionCreateCall,
		Target:  audit.Target("call", c.ID),
		Metadata: map[string]interface{}{
			"call_type": c.CallType,
			"status":    c.Status,
		},
	})
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Call, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, actorID, id int64, dto UpdateCallDTO) (*Call, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Status != nil {
		c.Status = *dto.Status
	}
	if dto.DurationSec != nil {
		c.DurationSec = *dto.DurationSec
	}
	if dto.Notes != nil {
		c.Notes = *dto.Notes
	}

	if err := s.repo.Update(ctx, c); err != nil {
		s.logger.Error("failed to update call", "actor_id", actorID, "call_id", id, "error", err)
		return nil, err
	}

	s.auditor.RecordNonCritical(ctx, audit.RecordParams{
		ActorID: actorID,
		Action:  audit.ActionUpdateCall,
		Target:  audit.Target("call", c.ID),
		Metadata: map[string]interface{}{
			"status": c.Status,
		},
	})
	return c, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete call", "actor_id", actorID, "call_id", id, "error", err)
		return err
	}

	s.auditor.RecordNonCritical(ctx, audit.RecordParams{
		ActorID: actorID,
		Action:  audit.ActionDeleteCall,
		Target:  audit.Target("call", id),
	})
	return nil
}

func (s *Service) List(ctx context.Context, agentID, candidateID *int64, skip, limit int) ([]Call, error) {
	if limit <= 0 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}
	return s.repo.List(ctx, agentID, candidateID, skip, limit)
}
