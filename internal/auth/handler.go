package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/platform/httpx"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	issuer    *TokenIssuer
	validator *validator.Validate
	secure    bool
}

// NewHandler constructs a Handler instance. secure controls the Secure
// flag on session cookies and should be true in production.
func NewHandler(logger *slog.Logger, service *Service, issuer *TokenIssuer, secure bool) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		issuer:    issuer,
		validator: validator.New(),
		secure:    secure,
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Success bool      `json:"success"`
	User    loginUser `json:"user"`
}

type loginUser struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.Fail(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.Error("authenticate", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, expiresAt, err := h.issuer.Issue(user.ID)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	sessionID := uuid.NewString()
	if err := h.service.RegisterSession(r.Context(), sessionID, user.ID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
		h.logger.Warn("register login session", slog.Any("error", err))
	}

	http.SetCookie(w, SessionCookie(token, expiresAt, h.secure))
	httpx.JSON(w, http.StatusOK, loginResponse{
		Success: true,
		User: loginUser{
			ID:       user.ID,
			Email:    user.Email,
			FullName: user.FullName,
			Role:     user.Role,
		},
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if userID, verr := h.issuer.Verify(cookie.Value); verr == nil {
			if err := h.service.RemoveSessions(r.Context(), userID); err != nil {
				h.logger.Warn("remove login sessions", slog.Any("error", err))
			}
		}
	}
	http.SetCookie(w, ClearSessionCookie(h.secure))
	httpx.OK(w)
}
