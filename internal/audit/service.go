package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/callcenter-admin/internal"
	"github.com/frahmantamala/callcenter-admin/internal/core/events"
	"github.com/frahmantamala/callcenter-admin/internal/rbac"
)

// Repository defines the data access methods for audit entries. There is no
// update or delete: the log is append-only by contract.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	Recent(ctx context.Context, vis Visibility, limit int) ([]Entry, error)
	ForUser(ctx context.Context, userID int64, skip, limit int) ([]Entry, error)
	All(ctx context.Context, skip, limit int) ([]Entry, error)
}

// Service coordinates audit writes and role-scoped reads.
type Service struct {
	repo   Repository
	bus    *events.EventBus
	logger *slog.Logger
	cfg    internal.AuditConfig
}

func NewService(repo Repository, bus *events.EventBus, cfg internal.AuditConfig, logger *slog.Logger) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 50
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
		cfg:    cfg,
	}
}

// Record appends one entry and fails loudly. Use it for security-relevant
// state changes, where the caller is expected to abort (and roll back) when
// the write fails. Each call inserts a distinct row; retries after a timeout
// produce duplicates unless the caller carries its own idempotency key in
// the metadata.
func (s *Service) Record(ctx context.Context, params RecordParams) (*Entry, error) {
	entry := &Entry{
		ActorID:      params.ActorID,
		Action:       params.Action,
		Target:       params.Target,
		TargetUserID: params.TargetUserID,
		Metadata:     params.Metadata,
		Timestamp:    time.Now(),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("audit write failed",
			"actor_id", params.ActorID,
			"action", params.Action,
			"error", err)
		return nil, internal.NewStorageError("failed to record audit entry", err).
			WithDetails(map[string]string{"action": params.Action})
	}

	s.publishRecorded(ctx, entry)
	return entry, nil
}

// RecordNonCritical appends one entry but never fails the caller: a write
// failure is logged locally and swallowed. Login and logout use this so a
// broken audit store cannot lock users out.
func (s *Service) RecordNonCritical(ctx context.Context, params RecordParams) {
	if _, err := s.Record(ctx, params); err != nil {
		s.logger.Warn("non-critical audit write failed, continuing",
			"actor_id", params.ActorID,
			"action", params.Action,
			"error", err)
	}
}

func (s *Service) publishRecorded(ctx context.Context, entry *Entry) {
	if s.bus == nil {
		return
	}
	event := events.BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventAuditRecorded,
		Timestamp: entry.Timestamp,
		Data: map[string]interface{}{
			"actor_id": entry.ActorID,
			"action":   entry.Action,
			"target":   entry.Target,
		},
	}
	if err := s.bus.PublishSync(ctx, event); err != nil {
		s.logger.Warn("audit event publish failed", "action", entry.Action, "error", err)
	}
}

// ListRecent returns the newest entries visible to the requester, most
// recent first. Visibility narrows with role: admins see everything,
// managers see everything except admin-authored entries, agents and viewers
// see only their own actions. The filter runs in the store before the limit.
func (s *Service) ListRecent(ctx context.Context, requester rbac.Identity, limit int) ([]Entry, error) {
	vis := Visibility{Role: requester.Role, UserID: requester.UserID}

	entries, err := s.repo.Recent(ctx, vis, s.clampLimit(limit))
	if err != nil {
		s.logger.Error("failed to list recent audit entries", "requester_id", requester.UserID, "error", err)
		return nil, internal.NewStorageError("failed to read audit log", err)
	}
	return entries, nil
}

// ListForUser returns entries where the given user is actor or target. A
// non-admin asking about someone else is silently redirected to their own
// history; that is the contract, not an error path.
func (s *Service) ListForUser(ctx context.Context, requester rbac.Identity, targetUserID int64, skip, limit int) ([]Entry, error) {
	if !requester.Role.IsAdmin() && targetUserID != requester.UserID {
		s.logger.Debug("redirecting audit history request to requester's own entries",
			"requester_id", requester.UserID,
			"requested_user_id", targetUserID)
		targetUserID = requester.UserID
	}

	entries, err := s.repo.ForUser(ctx, targetUserID, normalizeSkip(skip), s.clampLimit(limit))
	if err != nil {
		s.logger.Error("failed to list user audit entries",
			"requester_id", requester.UserID,
			"user_id", targetUserID,
			"error", err)
		return nil, internal.NewStorageError("failed to read audit log", err)
	}
	return entries, nil
}

// ListAll is the unfiltered admin view.
func (s *Service) ListAll(ctx context.Context, requester rbac.Identity, skip, limit int) ([]Entry, error) {
	if !requester.Role.IsAdmin() {
		s.logger.Warn("list all audit entries denied: admin role required",
			"requester_id", requester.UserID,
			"role", requester.Role)
		return nil, internal.ErrAdminRequired
	}

	entries, err := s.repo.All(ctx, normalizeSkip(skip), s.clampLimit(limit))
	if err != nil {
		s.logger.Error("failed to list audit entries", "requester_id", requester.UserID, "error", err)
		return nil, internal.NewStorageError("failed to read audit log", err)
	}
	return entries, nil
}

// clampLimit applies the default and hard cap; out-of-range values are
// clamped, never rejected.
func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return limit
}

func normalizeSkip(skip int) int {
	if skip < 0 {
		return 0
	}
	return skip
}

// RecordAuthEvent records login and logout activity without ever failing
// the caller. It exists so the authentication layer can depend on a narrow
// interface instead of the full service.
func (s *Service) RecordAuthEvent(ctx context.Context, actorID int64, action string, metadata map[string]interface{}) {
	s.RecordNonCritical(ctx, RecordParams{
		ActorID:  actorID,
		Action:   action,
		Target:   Target("user", actorID),
		Metadata: metadata,
	})
}

// Target formats an entity descriptor like "user:42".
func Target(kind string, id int64) *string {
	t := fmt.Sprintf("%s:%d", kind, id)
	return &t
}

// PageTarget formats the descriptor for a page-access change.
func PageTarget(userID int64, page rbac.Page) *string {
	t := fmt.Sprintf("user:%d:page:%s", userID, page)
	return &t
}
