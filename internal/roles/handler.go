package roles

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/audit"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/csrf"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/platform/httpx"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/rbac"
)

// Handler manages role management endpoints. Every route is admin-only.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	gate      rbac.Middleware
	csrf      *csrf.Manager
	recorder  *audit.Recorder
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate rbac.Middleware, csrfManager *csrf.Manager, recorder *audit.Recorder) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		gate:      gate,
		csrf:      csrfManager,
		recorder:  recorder,
		validator: validator.New(),
	}
}

// MountRoutes registers role routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAdmin)
		r.Get("/", h.listRoles)
		r.Get("/{id}", h.getRole)
		r.Group(func(r chi.Router) {
			r.Use(csrf.Require(h.csrf, h.logger))
			r.Post("/", h.createRole)
			r.Put("/{id}", h.updateRole)
			r.Delete("/{id}", h.deleteRole)
		})
	})
}

type listResponse struct {
	Success bool   `json:"success"`
	Roles   []Role `json:"roles"`
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{Success: true, Roles: roles})
}

type roleResponse struct {
	Success bool `json:"success"`
	Role    Role `json:"role"`
}

func (h *Handler) getRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.targetID(w, r)
	if !ok {
		return
	}
	role, err := h.service.GetRole(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "Role not found")
			return
		}
		h.logger.Error("get role", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, roleResponse{Success: true, Role: role})
}

type createRoleRequest struct {
	Name       string          `json:"name" validate:"required"`
	MenuAccess rbac.MenuAccess `json:"menu_access"`
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	var req createRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Role name is required")
		return
	}

	role, err := h.service.CreateRole(r.Context(), req.Name, req.MenuAccess)
	if err != nil {
		h.respondMutationError(w, "create role", err)
		return
	}

	h.audit(r, "create_role", role.ID, "created role "+role.Name)
	httpx.JSON(w, http.StatusOK, roleResponse{Success: true, Role: role})
}

type updateRoleRequest struct {
	Name       string          `json:"name" validate:"required"`
	MenuAccess rbac.MenuAccess `json:"menu_access"`
	IsActive   *bool           `json:"is_active" validate:"required"`
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.targetID(w, r)
	if !ok {
		return
	}
	var req updateRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Role name and active flag are required")
		return
	}

	role, err := h.service.UpdateRole(r.Context(), id, req.Name, req.MenuAccess, *req.IsActive)
	if err != nil {
		h.respondMutationError(w, "update role", err)
		return
	}

	h.audit(r, "update_role", role.ID, "updated role "+role.Name)
	httpx.JSON(w, http.StatusOK, roleResponse{Success: true, Role: role})
}

func (h *Handler) deleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.targetID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteRole(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "Role not found")
			return
		}
		h.logger.Error("delete role", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.audit(r, "delete_role", id, "deleted role")
	httpx.OK(w)
}

func (h *Handler) respondMutationError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNameRequired):
		httpx.Fail(w, http.StatusBadRequest, "Role name is required")
	case errors.Is(err, ErrNameTaken):
		httpx.Fail(w, http.StatusBadRequest, "Role name already in use")
	case errors.Is(err, ErrNotFound):
		httpx.Fail(w, http.StatusNotFound, "Role not found")
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) targetID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Fail(w, http.StatusBadRequest, "Invalid role id")
		return 0, false
	}
	return id, true
}

func (h *Handler) audit(r *http.Request, action string, targetID int64, description string) {
	actor := rbac.UserFromContext(r.Context())
	if actor == nil {
		return
	}
	ip, ua := audit.Provenance(r)
	h.recorder.Record(r.Context(), audit.Entry{
		ActorID:     actor.ID,
		Action:      action,
		TargetType:  "role",
		TargetID:    targetID,
		Description: description,
		IP:          ip,
		UserAgent:   ua,
	})
}
