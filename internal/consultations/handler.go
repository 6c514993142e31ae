package consultations

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/audit"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/csrf"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/platform/httpx"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/rbac"
)

// RepositoryPort defines data access methods for consultations.
type RepositoryPort interface {
	ListConsultations(ctx context.Context) ([]Consultation, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// Handler manages consultation intake administration behind the
// "consultations" menu grant.
type Handler struct {
	logger   *slog.Logger
	repo     RepositoryPort
	gate     rbac.Middleware
	csrf     *csrf.Manager
	recorder *audit.Recorder
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, repo RepositoryPort, gate rbac.Middleware, csrfManager *csrf.Manager, recorder *audit.Recorder) *Handler {
	return &Handler{logger: logger, repo: repo, gate: gate, csrf: csrfManager, recorder: recorder}
}

// MountRoutes registers consultation admin routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireMenu("consultations"))
		r.Get("/", h.list)
		r.Group(func(r chi.Router) {
			r.Use(csrf.Require(h.csrf, h.logger))
			r.Post("/{id}/status", h.updateStatus)
		})
	})
}

type listResponse struct {
	Success       bool           `json:"success"`
	Consultations []Consultation `json:"consultations"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.ListConsultations(r.Context())
	if err != nil {
		h.logger.Error("list consultations", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{Success: true, Consultations: items})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Fail(w, http.StatusBadRequest, "Invalid consultation id")
		return
	}
	var req statusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !ValidStatus(req.Status) {
		httpx.Fail(w, http.StatusBadRequest, "Invalid status")
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "Consultation not found")
			return
		}
		h.logger.Error("update consultation status", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	actor := rbac.UserFromContext(r.Context())
	if actor != nil {
		ip, ua := audit.Provenance(r)
		h.recorder.Record(r.Context(), audit.Entry{
			ActorID:     actor.ID,
			Action:      "update_consultation_status",
			TargetType:  "consultation",
			TargetID:    id,
			Description: "status set to " + req.Status,
			IP:          ip,
			UserAgent:   ua,
		})
	}
	httpx.OK(w)
}
