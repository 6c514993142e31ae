package rbac

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/auth"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/platform/httpx"
)

// TokenVerifier validates a session token and returns the embedded user id.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// Middleware is the admin gate: every protected route runs its ordered
// guard chain (cookie, token, user lookup, role check) before the handler.
// It never logs to the audit trail and never mutates state.
type Middleware struct {
	Verifier TokenVerifier
	Store    UserStore
	Logger   *slog.Logger
}

// RequireStaff admits users whose role is admin or moderator.
func (m Middleware) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := m.gate(w, r)
		if !ok {
			return
		}
		if !user.IsAdminOrModerator() {
			httpx.Fail(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// RequireAdmin admits users whose role is exactly admin.
func (m Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := m.gate(w, r)
		if !ok {
			return
		}
		if !user.IsAdmin() {
			httpx.Fail(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// RequireMenu admits staff whose role's menu-access map grants the given
// section key. Admins bypass the map.
func (m Middleware) RequireMenu(menuKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := m.gate(w, r)
			if !ok {
				return
			}
			if !user.IsAdminOrModerator() || !user.CanAccess(menuKey) {
				httpx.Fail(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

// gate runs the authentication part of the chain. It writes the rejection
// itself and reports ok=false when the chain terminated.
func (m Middleware) gate(w http.ResponseWriter, r *http.Request) (*AuthorizedUser, bool) {
	cookie, err := r.Cookie(auth.SessionCookieName)
	if err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	userID, err := m.Verifier.Verify(cookie.Value)
	if err != nil {
		// Expired and malformed tokens get the same response but stay
		// distinguishable in the logs.
		if m.Logger != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				m.Logger.Info("session token expired", slog.String("path", r.URL.Path))
			} else {
				m.Logger.Warn("session token invalid", slog.String("path", r.URL.Path))
			}
		}
		httpx.Fail(w, http.StatusUnauthorized, "Invalid token")
		return nil, false
	}

	user, err := m.Store.ResolveUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Fail(w, http.StatusUnauthorized, "Unauthorized")
			return nil, false
		}
		if m.Logger != nil {
			m.Logger.Error("resolve user", slog.Int64("user_id", userID), slog.Any("error", err))
		}
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	return user, true
}
