package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/audit"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/auth"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/csrf"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/platform/httpx"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/rbac"
)

// Handler manages user management endpoints.
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

// MountRoutes registers user routes. Reads require the users menu grant;
// mutations are admin-only and CSRF-checked after the gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireMenu("users"))
		r.Get("/", h.listUsers)
		r.Get("/{id}", h.getUser)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAdmin)
		r.Use(csrf.Require(h.csrf, h.logger))
		r.Post("/", h.createUser)
		r.Post("/{id}/reset-password", h.resetPassword)
		r.Post("/{id}/active", h.setActive)
		r.Post("/{id}/role", h.setRole)
	})
}

type listResponse struct {
	Success bool   `json:"success"`
	Users   []User `json:"users"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{Success: true, Users: users})
}

type userResponse struct {
	Success bool `json:"success"`
	User    User `json:"user"`
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.targetID(w, r)
	if !ok {
		return
	}
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("get user", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, userResponse{Success: true, User: user})
}

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Email, full name, password and role are required")
		return
	}

	user, err := h.service.CreateUser(r.Context(), req.Email, req.FullName, req.Password, req.Role)
	if err != nil {
		switch {
		case auth.IsPolicyViolation(err):
			httpx.Fail(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrEmailTaken):
			httpx.Fail(w, http.StatusBadRequest, "Email already registered")
		default:
			h.logger.Error("create user", slog.Any("error", err))
			httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.audit(r, "create_user", user.ID, "created user "+user.Email)
	httpx.JSON(w, http.StatusOK, userResponse{Success: true, User: user})
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := h.targetID(w, r)
	if !ok {
		return
	}
	var req resetPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Password is required")
		return
	}

	if err := h.service.ResetPassword(r.Context(), id, req.Password); err != nil {
		switch {
		case auth.IsPolicyViolation(err):
			httpx.Fail(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNotFound):
			httpx.Fail(w, http.StatusNotFound, "User not found")
		default:
			h.logger.Error("reset password", slog.Any("error", err))
			httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.audit(r, "reset_password", id, "reset password")
	httpx.OK(w)
}

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request) {
	id, ok := h.targetID(w, r)
	if !ok {
		return
	}
	var req setActiveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Active flag is required")
		return
	}

	if err := h.service.SetActive(r.Context(), id, *req.Active); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("set active", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	action := "deactivate_user"
	if *req.Active {
		action = "activate_user"
	}
	h.audit(r, action, id, "toggled active flag")
	httpx.OK(w)
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

func (h *Handler) setRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.targetID(w, r)
	if !ok {
		return
	}
	var req setRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Role is required")
		return
	}

	if err := h.service.SetRole(r.Context(), id, req.Role); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("set role", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.audit(r, "change_role", id, "changed role to "+req.Role)
	httpx.OK(w)
}

func (h *Handler) targetID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Fail(w, http.StatusBadRequest, "Invalid user id")
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
		TargetType:  "user",
		TargetID:    targetID,
		Description: description,
		IP:          ip,
		UserAgent:   ua,
	})
}
