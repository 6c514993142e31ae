package csrf

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/platform/httpx"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/rbac"
)

// Handler exposes the token issuance endpoint. Issuance is a read, so it
// is gated by authentication only, not by CSRF itself.
type Handler struct {
	logger  *slog.Logger
	manager *Manager
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, manager *Manager) *Handler {
	return &Handler{logger: logger, manager: manager}
}

// MountRoutes registers the issuance route. Callers mount it inside an
// admin-gate group.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.issueToken)
}

type issueResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	user := rbac.UserFromContext(r.Context())
	if user == nil {
		httpx.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	token, err := h.manager.Create(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("create csrf token", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, h.manager.Cookie(token))
	httpx.JSON(w, http.StatusOK, issueResponse{
		Success:   true,
		Token:     token.Value,
		ExpiresIn: h.manager.TTL().Milliseconds(),
	})
}
