package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/callcenter-admin/internal"
	"github.com/frahmantamala/callcenter-admin/internal/audit"
	"github.com/frahmantamala/callcenter-admin/internal/auth"
	"github.com/frahmantamala/callcenter-admin/internal/call"
	"github.com/frahmantamala/callcenter-admin/internal/candidate"
	"github.com/frahmantamala/callcenter-admin/internal/interview"
	"github.com/frahmantamala/callcenter-admin/internal/rbac"
	"github.com/frahmantamala/callcenter-admin/internal/transport/middleware"
	"github.com/frahmantamala/callcenter-admin/internal/transport/swagger"
	"github.com/frahmantamala/callcenter-admin/internal/user"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth      *auth.Handler
	RBAC      *auth.RBACAuthorization
	User      *user.Handler
	Audit     *audit.Handler
	Candidate *candidate.Handler
	Interview *interview.Handler
	Call      *call.Handler
}

// RegisterAllRoutes wires the full route tree. Every protected group sits
// behind AuthMiddleware plus the gate that matches its page; user management
// is role-gated instead, because page overrides do not apply there.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, cfg *internal.Config, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(middleware.SecurityHeaders(internal.DefaultSecurityHeaders()))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)

			sr.Group(func(ar chi.Router) {
				ar.Use(h.Auth.AuthMiddleware)
				ar.Post("/logout", h.Auth.Logout)
			})
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			// Current user
			pr.Get("/users/me", h.User.GetCurrentUser)
			pr.Get("/users/me/permissions", h.User.GetMyPermissions)

			// User management: role-gated, never page-gated
			pr.Route("/users", func(ur chi.Router) {
				ur.Group(func(mr chi.Router) {
					mr.Use(h.RBAC.RequireAdminOrManager())
					mr.Get("/", h.User.List)
					mr.Get("/{userID}", h.User.Get)
				})

				ur.Group(func(ar chi.Router) {
					ar.Use(h.RBAC.RequireAdmin())
					ar.Post("/", h.User.Create)
					ar.Patch("/{userID}", h.User.Update)
					ar.Delete("/{userID}", h.User.Delete)
					ar.Put("/{userID}/page-access", h.User.SetPageAccess)
				})
			})

			// Audit routes
			pr.Route("/audit", func(ar chi.Router) {
				ar.Group(func(dr chi.Router) {
					dr.Use(h.RBAC.RequirePage(rbac.PageDashboard))
					dr.Get("/recent", h.Audit.Recent)
				})

				ar.Get("/users/{userID}", h.Audit.ForUser)

				ar.Group(func(aar chi.Router) {
					aar.Use(h.RBAC.RequireAdmin())
					aar.Get("/all", h.Audit.All)
				})
			})

			// Candidate routes
			pr.Route("/candidates", func(cr chi.Router) {
				cr.Use(h.RBAC.RequirePage(rbac.PageCandidates))
				cr.Get("/", h.Candidate.List)
				cr.Post("/", h.Candidate.Create)
				cr.Get("/{candidateID}", h.Candidate.Get)
				cr.Patch("/{candidateID}", h.Candidate.Update)
				cr.Delete("/{candidateID}", h.Candidate.Delete)
			})

			// Interview routes
			pr.Route("/interviews", func(ir chi.Router) {
				ir.Use(h.RBAC.RequirePage(rbac.PageInterviews))
				ir.Get("/", h.Interview.List)
				ir.Post("/", h.Interview.Create)
				ir.Get("/{interviewID}", h.Interview.Get)
				ir.Patch("/{interviewID}", h.Interview.Update)
				ir.Delete("/{interviewID}", h.Interview.Delete)
			})

			// Call routes
			pr.Route("/calls", func(lr chi.Router) {
				lr.Use(h.RBAC.RequirePage(rbac.PageCalls))
				lr.Get("/", h.Call.List)
				lr.Post("/", h.Call.Create)
				lr.Get("/{callID}", h.Call.Get)
				lr.Patch("/{callID}", h.Call.Update)
				lr.Delete("/{callID}", h.Call.Delete)
			})
		})
	})
}
