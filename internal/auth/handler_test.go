package auth_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/auth"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRouter(t *testing.T, repo auth.Repository) (http.Handler, *auth.TokenIssuer) {
	t.Helper()
	issuer := auth.NewTokenIssuer("handler-test-secret", time.Hour)
	handler := auth.NewHandler(testLogger(), auth.NewService(repo), issuer, false)
	r := chi.NewRouter()
	r.Route("/api/auth", handler.MountRoutes)
	return r, issuer
}

func TestLoginSuccessSetsSessionCookie(t *testing.T) {
	repo := &stubRepo{user: activeUser(t, "correct1pass")}
	router, issuer := newRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"admin@eazysec.local","password":"correct1pass"}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var cookie *http.Cookie
	for _, c := range res.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatalf("expected %s cookie", auth.SessionCookieName)
	}
	if !cookie.HttpOnly {
		t.Fatalf("expected HttpOnly cookie")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Fatalf("expected SameSite=Strict")
	}
	if cookie.Path != "/" {
		t.Fatalf("expected Path=/, got %q", cookie.Path)
	}

	userID, err := issuer.Verify(cookie.Value)
	if err != nil {
		t.Fatalf("verify issued cookie: %v", err)
	}
	if userID != 1 {
		t.Fatalf("expected token for user 1, got %d", userID)
	}

	var body struct {
		Success bool `json:"success"`
		User    struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Success || body.User.ID != 1 {
		t.Fatalf("unexpected body: %s", res.Body.String())
	}
	if repo.sessions != 1 {
		t.Fatalf("expected one login session record, got %d", repo.sessions)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	router, _ := newRouter(t, &stubRepo{user: activeUser(t, "correct1pass")})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"admin@eazysec.local","password":"wrong1password"}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), `"success":false`) {
		t.Fatalf("expected rejection envelope, got %s", res.Body.String())
	}
	if len(res.Result().Cookies()) != 0 {
		t.Fatalf("expected no cookies on failed login")
	}
}

func TestLoginMissingFields(t *testing.T) {
	router, _ := newRouter(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	repo := &stubRepo{user: activeUser(t, "correct1pass")}
	router, issuer := newRouter(t, repo)

	token, expiresAt, err := issuer.Issue(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(auth.SessionCookie(token, expiresAt, false))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var cleared *http.Cookie
	for _, c := range res.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			cleared = c
		}
	}
	if cleared == nil || cleared.MaxAge != -1 {
		t.Fatalf("expected expired session cookie, got %+v", cleared)
	}
	if repo.deleted != 1 {
		t.Fatalf("expected session records deleted once, got %d", repo.deleted)
	}
}
