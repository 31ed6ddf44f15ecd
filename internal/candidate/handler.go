package candidate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/callcenter-admin/internal"
	"github.com/frahmantamala/callcenter-admin/internal/auth"
	"github.com/frahmantamala/callcenter-admin/internal/transport"
	"github.com/frahmantamala/callcenter-admin/pkg/logger"
)

type ServiceAPI interface {
	Create(ctx context.Context, actorID int64, dto CreateCandidateDTO) (*Candidate, error)
	GetByID(ctx context.Context, id int64) (*Candidate, error)
	Update(ctx context.Context, actorID, id int64, dto UpdateCandidateDTO) (*Candidate, error)
	Delete(ctx context.Context, actorID, id int64) error
	List(ctx context.Context, search string, skip, limit int) ([]Candidate, error)
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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	candidates, err := h.Service.List(r.Context(), q.Get("search"), skip, limit)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"candidates": candidates,
		"count":      len(candidates),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	c, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, internal.NewUnauthorizedError("Not authenticated", internal.ErrCodeInvalidToken))
		return
	}

	var dto CreateCandidateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Create(r.Context(), principal.ID, dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, internal.NewUnauthorizedError("Not authenticated", internal.ErrCodeInvalidToken))
		return
	}

	id, err := idParam(r)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	var dto UpdateCandidateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Update(r.Context(), principal.ID, id, dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, internal.NewUnauthorizedError("Not authenticated", internal.ErrCodeInvalidToken))
		return
	}

	id, err := idParam(r)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	if err := h.Service.Delete(r.Context(), principal.ID, id); err != nil {
		h.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "candidateID"), 10, 64)
	if err != nil {
		return 0, internal.NewValidationFieldError("candidateID", "candidate id must be an integer", internal.ErrCodeValidationFailed)
	}
	return id, nil
}
