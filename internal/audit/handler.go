package audit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/callcenter-admin/internal"
	"github.com/frahmantamala/callcenter-admin/internal/auth"
	"github.com/frahmantamala/callcenter-admin/internal/rbac"
	"github.com/frahmantamala/callcenter-admin/internal/transport"
	"github.com/frahmantamala/callcenter-admin/pkg/logger"
)

type ServiceAPI interface {
	ListRecent(ctx context.Context, requester rbac.Identity, limit int) ([]Entry, error)
	ListForUser(ctx context.Context, requester rbac.Identity, targetUserID int64, skip, limit int) ([]Entry, error)
	ListAll(ctx context.Context, requester rbac.Identity, skip, limit int) ([]Entry, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

type listResponse struct {
	Entries []Entry `json:"entries"`
	Count   int     `json:"count"`
}

// Recent serves the dashboard feed, scoped by the requester's role.
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, internal.NewUnauthorizedError("Not authenticated", internal.ErrCodeInvalidToken))
		return
	}

	q := ParseListQuery(r)
	entries, err := h.Service.ListRecent(r.Context(), user.Identity(), q.Limit)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, listResponse{Entries: entries, Count: len(entries)})
}

// ForUser serves one user's history: entries where that user is actor or
// target. Non-admins always get their own history no matter what id they ask
// for.
func (h *Handler) ForUser(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, internal.NewUnauthorizedError("Not authenticated", internal.ErrCodeInvalidToken))
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		h.WriteError(w, internal.NewValidationFieldError("userID", "user id must be an integer", internal.ErrCodeValidationFailed))
		return
	}

	q := ParseListQuery(r)
	entries, err := h.Service.ListForUser(r.Context(), user.Identity(), targetID, q.Skip, q.Limit)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, listResponse{Entries: entries, Count: len(entries)})
}

// All is the unfiltered admin export.
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, internal.NewUnauthorizedError("Not authenticated", internal.ErrCodeInvalidToken))
		return
	}

	q := ParseListQuery(r)
	entries, err := h.Service.ListAll(r.Context(), user.Identity(), q.Skip, q.Limit)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, listResponse{Entries: entries, Count: len(entries)})
}
