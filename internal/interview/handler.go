package interview

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
	Create(ctx context.Context, actorID int64, dto CreateInterviewDTO) (*Interview, error)
	GetByID(ctx context.Context, id int64) (*Interview, error)
	Update(ctx context.Context, actorID, id int64, dto UpdateInterviewDTO) (*Interview, error)
	Delete(ctx context.Context, actorID, id int64) error
	List(ctx context.Context, candidateID *int64, skip, limit int) ([]Interview, error)
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

	var candidateID *int64
	if raw := q.Get("candidate_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			candidateID = &id
		}
	}

	interviews, err := h.Service.List(r.Context(), candidateID, skip, limit)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"interviews": interviews,
		"count":      len(interviews),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	iv, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, iv)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, internal.NewUnauthorizedError("Not authenticated", internal.ErrCodeInvalidToken))
		return
	}

	var dto CreateInterviewDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	iv, err := h.Service.Create(r.Context(), principal.ID, dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, iv)
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

	var dto UpdateInterviewDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	iv, err := h.Service.Update(r.Context(), principal.ID, id, dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, iv)
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
	id, err := strconv.ParseInt(chi.URLParam(r, "interviewID"), 10, 64)
	if err != nil {
		return 0, internal.NewValidationFieldError("interviewID", "interview id must be an integer", internal.ErrCodeValidationFailed)
	}
	return id, nil
}
