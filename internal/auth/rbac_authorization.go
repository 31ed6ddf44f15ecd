package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/callcenter-admin/internal"
	"github.com/frahmantamala/callcenter-admin/internal/rbac"
	"github.com/frahmantamala/callcenter-admin/internal/transport"
)

// RBACAuthorization wraps the access-control gate as chi middleware. It must
// run behind AuthMiddleware; a request without a principal in context is a
// wiring bug and is rejected as unauthorized.
type RBACAuthorization struct {
	base   *transport.BaseHandler
	gate   *rbac.Gate
	logger *slog.Logger
}

func NewRBACAuthorization(gate *rbac.Gate, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		base:   transport.NewBaseHandler(logger),
		gate:   gate,
		logger: logger,
	}
}

// RequirePage gates a route group on effective page access: role defaults
// merged with per-user overrides, resolved fresh on every request.
func (ra *RBACAuthorization) RequirePage(page rbac.Page) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				ra.logger.Warn("authorization check failed: user not found in context", "page", page)
				ra.base.WriteError(w, internal.NewUnauthorizedError("Not authenticated", internal.ErrCodeInvalidToken))
				return
			}

			if err := ra.gate.Authorize(r.Context(), user.Identity(), page); err != nil {
				ra.base.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates routes on the admin role alone; page overrides do not
// apply here.
func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				ra.logger.Warn("admin check failed: user not found in context")
				ra.base.WriteError(w, internal.NewUnauthorizedError("Not authenticated", internal.ErrCodeInvalidToken))
				return
			}

			if err := ra.gate.RequireAdmin(user.Identity()); err != nil {
				ra.base.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdminOrManager gates routes on the admin or manager role.
func (ra *RBACAuthorization) RequireAdminOrManager() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				ra.logger.Warn("manager check failed: user not found in context")
				ra.base.WriteError(w, internal.NewUnauthorizedError("Not authenticated", internal.ErrCodeInvalidToken))
				return
			}

			if err := ra.gate.RequireAdminOrManager(user.Identity()); err != nil {
				ra.base.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
