package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/callcenter-admin/internal"
	"github.com/frahmantamala/callcenter-admin/internal/audit"
	coredb "github.com/frahmantamala/callcenter-admin/internal/core/db"
	"github.com/frahmantamala/callcenter-admin/internal/rbac"
)

// Repository defines the data access methods for user administration.
type Repository interface {
	Create(ctx context.Context, u *User, passwordHash string) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User, passwordHash *string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ListFilter) ([]User, error)
}

// OverrideStore is the slice of the override storage this service needs.
type OverrideStore interface {
	Get(ctx context.Context, userID int64, page rbac.Page) (*rbac.Override, error)
	Set(ctx context.Context, userID int64, page rbac.Page, hasAccess bool) (*rbac.Override, error)
	DeleteForUser(ctx context.Context, userID int64) error
}

// AuditRecorder is the critical write path: a failed entry aborts the
// surrounding transaction.
type AuditRecorder interface {
	Record(ctx context.Context, params audit.RecordParams) (*audit.Entry, error)
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// Service handles user administration. Every mutation here is
// security-relevant: the state change and its audit entry are written in one
// transaction, so neither can exist without the other.
type Service struct {
	repo      Repository
	overrides OverrideStore
	resolver  *rbac.Resolver
	auditor   AuditRecorder
	hasher    PasswordHasher
	txManager *coredb.TransactionManager
	logger    *slog.Logger
}

func NewService(
	repo Repository,
	overrides OverrideStore,
	resolver *rbac.Resolver,
	auditor AuditRecorder,
	hasher PasswordHasher,
	txManager *coredb.TransactionManager,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		overrides: overrides,
		resolver:  resolver,
		auditor:   auditor,
		hasher:    hasher,
		txManager: txManager,
		logger:    logger,
	}
}

// Create adds a user and records the creation atomically.
func (s *Service) Create(ctx context.Context, actor rbac.Identity, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByEmail(ctx, dto.Email); err == nil && existing != nil {
		return nil, internal.ErrDuplicateEmail
	}

	passwordHash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	role, _ := rbac.ParseRole(dto.Role)
	active := true
	if dto.Active != nil {
		active = *dto.Active
	}

	u := &User{
		Email:    dto.Email,
		FullName: dto.FullName,
		Role:     role,
		Active:   active,
	}

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, u, passwordHash); err != nil {
			return err
		}

		_, err := s.auditor.Record(txCtx, audit.RecordParams{
			ActorID:      actor.UserID,
			Action:       audit.ActionCreateUser,
			Target:       audit.Target("user", u.ID),
			TargetUserID: &u.ID,
			Metadata: map[string]interface{}{
				"email": u.Email,
				"role":  string(u.Role),
			},
		})
		return err
	})
	if err != nil {
		s.logger.Error("user creation failed", "actor_id", actor.UserID, "email", dto.Email, "error", err)
		return nil, err
	}

	s.logger.Info("user created", "actor_id", actor.UserID, "user_id", u.ID, "role", u.Role)
	u.PagePermissions = rbac.DefaultPermissions(u.Role)
	return u, nil
}

// Update applies a partial update and records a field-by-field diff. When
// nothing actually changes no audit entry is written; the log records events,
// not attempts.
func (s *Service) Update(ctx context.Context, actor rbac.Identity, userID int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	changes := make(map[string]interface{})

	if dto.Email != nil && *dto.Email != u.Email {
		if existing, err := s.repo.GetByEmail(ctx, *dto.Email); err == nil && existing != nil && existing.ID != userID {
			return nil, internal.ErrDuplicateEmail
		}
		changes["email"] = map[string]interface{}{"from": u.Email, "to": *dto.Email}
		u.Email = *dto.Email
	}
	if dto.FullName != nil && *dto.FullName != u.FullName {
		changes["full_name"] = map[string]interface{}{"from": u.FullName, "to": *dto.FullName}
		u.FullName = *dto.FullName
	}
	if dto.Role != nil {
		newRole, _ := rbac.ParseRole(*dto.Role)
		if newRole != u.Role {
			changes["role"] = map[string]interface{}{"from": string(u.Role), "to": string(newRole)}
			u.Role = newRole
		}
	}
	if dto.Active != nil && *dto.Active != u.Active {
		changes["active"] = map[string]interface{}{"from": u.Active, "to": *dto.Active}
		u.Active = *dto.Active
	}

	var passwordHash *string
	if dto.Password != nil {
		hash, err := s.hasher.HashPassword(*dto.Password)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		passwordHash = &hash
		// never record password material, only the fact of the change
		changes["password"] = "changed"
	}

	if len(changes) == 0 {
		s.logger.Debug("user update was a no-op", "actor_id", actor.UserID, "user_id", userID)
		return s.withPermissions(ctx, u)
	}

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, u, passwordHash); err != nil {
			return err
		}

		_, err := s.auditor.Record(txCtx, audit.RecordParams{
			ActorID:      actor.UserID,
			Action:       audit.ActionUpdateUser,
			Target:       audit.Target("user", u.ID),
			TargetUserID: &u.ID,
			Metadata: map[string]interface{}{
				"changes": changes,
			},
		})
		return err
	})
	if err != nil {
		s.logger.Error("user update failed", "actor_id", actor.UserID, "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.Info("user updated", "actor_id", actor.UserID, "user_id", userID)
	return s.withPermissions(ctx, u)
}

// Delete removes a user, their overrides, and records the deletion in one
// transaction. Administrators cannot delete themselves; someone else has to
// do it, which keeps at least one accountable actor in the loop.
func (s *Service) Delete(ctx context.Context, actor rbac.Identity, userID int64) error {
	if userID == actor.UserID {
		s.logger.Warn("self-delete rejected", "user_id", userID)
		return internal.ErrSelfDelete
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.overrides.DeleteForUser(txCtx, userID); err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, userID); err != nil {
			return err
		}

		_, err := s.auditor.Record(txCtx, audit.RecordParams{
			ActorID:      actor.UserID,
			Action:       audit.ActionDeleteUser,
			Target:       audit.Target("user", userID),
			TargetUserID: &userID,
			Metadata: map[string]interface{}{
				"email":     u.Email,
				"full_name": u.FullName,
				"role":      string(u.Role),
			},
		})
		return err
	})
	if err != nil {
		s.logger.Error("user deletion failed", "actor_id", actor.UserID, "user_id", userID, "error", err)
		return err
	}

	s.logger.Info("user deleted", "actor_id", actor.UserID, "user_id", userID)
	return nil
}

// SetPageAccess writes a per-user override and audits the effective change.
// The write is idempotent; repeating it with the same value leaves one row
// and adds no audit entry, because nothing observable changed.
func (s *Service) SetPageAccess(ctx context.Context, actor rbac.Identity, userID int64, dto PageAccessDTO) (*PageAccessChange, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	page, _ := rbac.ParsePage(dto.Page)
	hasAccess := *dto.HasAccess

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	change := &PageAccessChange{
		UserID:    userID,
		Page:      page,
		HasAccess: hasAccess,
	}

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		previous := rbac.DefaultPermission(u.Role, page)
		if ov, err := s.overrides.Get(txCtx, userID, page); err != nil {
			return err
		} else if ov != nil {
			previous = ov.HasAccess
		}
		change.PreviousAccess = previous
		change.Changed = previous != hasAccess

		if _, err := s.overrides.Set(txCtx, userID, page, hasAccess); err != nil {
			return err
		}

		if !change.Changed {
			return nil
		}

		_, err := s.auditor.Record(txCtx, audit.RecordParams{
			ActorID:      actor.UserID,
			Action:       audit.ActionUpdatePageAccess,
			Target:       audit.PageTarget(userID, page),
			TargetUserID: &userID,
			Metadata: map[string]interface{}{
				"page":            string(page),
				"access_granted":  hasAccess,
				"previous_access": previous,
			},
		})
		return err
	})
	if err != nil {
		s.logger.Error("page access update failed",
			"actor_id", actor.UserID,
			"user_id", userID,
			"page", page,
			"error", err)
		return nil, err
	}

	s.logger.Info("page access set",
		"actor_id", actor.UserID,
		"user_id", userID,
		"page", page,
		"has_access", hasAccess,
		"changed", change.Changed)
	return change, nil
}

// GetByID returns one user with their effective page permissions.
func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withPermissions(ctx, u)
}

// List returns users matching the filter, each with effective permissions
// attached.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]User, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}

	users, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewStorageError("failed to list users", err)
	}

	for i := range users {
		perms, err := s.resolver.Resolve(ctx, users[i].Identity())
		if err != nil {
			return nil, err
		}
		users[i].PagePermissions = perms
	}
	return users, nil
}

// MyPermissions resolves the caller's own effective page map; this is what
// the frontend renders its navigation from.
func (s *Service) MyPermissions(ctx context.Context, id rbac.Identity) (map[rbac.Page]bool, error) {
	return s.resolver.Resolve(ctx, id)
}

func (s *Service) withPermissions(ctx context.Context, u *User) (*User, error) {
	perms, err := s.resolver.Resolve(ctx, u.Identity())
	if err != nil {
		return nil, err
	}
	u.PagePermissions = perms
	return u, nil
}
