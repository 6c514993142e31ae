package csrf

import (
	"log/slog"
	"net/http"

	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/platform/httpx"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/rbac"
)

// Require returns middleware enforcing the CSRF token on state-changing
// methods. It must be mounted inside an admin-gate group: the token is
// validated against the identity the gate established, so running it
// first would make the check meaningless.
func Require(manager *Manager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			user := rbac.UserFromContext(r.Context())
			if user == nil {
				httpx.Fail(w, http.StatusForbidden, "Forbidden")
				return
			}

			token := r.Header.Get(HeaderName)
			if err := manager.Validate(r.Context(), token, user.ID); err != nil {
				if logger != nil {
					logger.Warn("csrf validation failed",
						slog.String("path", r.URL.Path),
						slog.Int64("user_id", user.ID))
				}
				httpx.Fail(w, http.StatusForbidden, "Invalid CSRF token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
