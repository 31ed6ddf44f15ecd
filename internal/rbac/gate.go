package rbac

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/callcenter-admin/internal"
)

// Gate is the single enforcement point in front of protected operations.
// Every path through it fails closed: inactive identities are rejected
// before any lookup, and a storage failure during resolution turns into a
// denial, never an allow.
type Gate struct {
	resolver *Resolver
	logger   *slog.Logger
}

func NewGate(resolver *Resolver, logger *slog.Logger) *Gate {
	return &Gate{
		resolver: resolver,
		logger:   logger,
	}
}

// Authorize grants or denies access to a business page. A nil return means
// allow; otherwise the error is the page-qualified denial to surface.
func (g *Gate) Authorize(ctx context.Context, id Identity, page Page) error {
	if !id.Active {
		g.logger.Warn("access denied: inactive user", "user_id", id.UserID, "page", page)
		return internal.ErrUserInactive
	}

	allowed, err := g.resolver.Check(ctx, id, page)
	if err != nil {
		// fail closed: a resolver failure is reported as a denial, the
		// storage detail stays in the logs
		g.logger.Error("permission resolution failed, denying",
			"user_id", id.UserID,
			"page", page,
			"error", err)
		return internal.NewPageAccessDeniedError(string(page))
	}

	if !allowed {
		g.logger.Warn("access denied",
			"user_id", id.UserID,
			"role", id.Role,
			"page", page)
		return internal.NewPageAccessDeniedError(string(page))
	}
	return nil
}

// RequireAdmin gates user-management operations. This is a plain role check
// on purpose: an override row for the user_management page is inert here and
// must stay inert (only the role grants user management).
func (g *Gate) RequireAdmin(id Identity) error {
	if !id.Active {
		return internal.ErrUserInactive
	}
	if !id.Role.IsAdmin() {
		g.logger.Warn("access denied: admin role required", "user_id", id.UserID, "role", id.Role)
		return internal.ErrAdminRequired
	}
	return nil
}

// RequireAdminOrManager is the looser role gate; overrides are ignored here
// for the same reason as RequireAdmin.
func (g *Gate) RequireAdminOrManager(id Identity) error {
	if !id.Active {
		return internal.ErrUserInactive
	}
	if !id.Role.IsAdminOrManager() {
		g.logger.Warn("access denied: admin or manager role required", "user_id", id.UserID, "role", id.Role)
		return internal.ErrManagerRequired
	}
	return nil
}
