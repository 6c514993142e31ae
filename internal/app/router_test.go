package app_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/app"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/audit"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/auth"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/blog"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/consultations"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/csrf"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/rbac"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/roles"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/users"
)

type fixedStore struct {
	users map[int64]*rbac.AuthorizedUser
}

func (s *fixedStore) ResolveUser(ctx context.Context, userID int64) (*rbac.AuthorizedUser, error) {
	user, ok := s.users[userID]
	if !ok {
		return nil, rbac.ErrNotFound
	}
	return user, nil
}

type noopAuthRepo struct{}

func (noopAuthRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return nil, auth.ErrNotFound
}
func (noopAuthRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return nil
}
func (noopAuthRepo) DeleteSessionsForUser(ctx context.Context, userID int64) error { return nil }
func (noopAuthRepo) PurgeExpiredSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type noopUserRepo struct{}

func (noopUserRepo) ListUsers(ctx context.Context) ([]users.User, error) { return nil, nil }
func (noopUserRepo) GetUser(ctx context.Context, id int64) (users.User, error) {
	return users.User{}, users.ErrNotFound
}
func (noopUserRepo) CreateUser(ctx context.Context, email, fullName, passwordHash, role string) (users.User, error) {
	return users.User{}, users.ErrNotFound
}
func (noopUserRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return users.ErrNotFound
}
func (noopUserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return users.ErrNotFound
}
func (noopUserRepo) SetRole(ctx context.Context, id int64, role string) error {
	return users.ErrNotFound
}

type noopRoleRepo struct{}

func (noopRoleRepo) ListRoles(ctx context.Context) ([]roles.Role, error) { return nil, nil }
func (noopRoleRepo) GetRole(ctx context.Context, id int64) (roles.Role, error) {
	return roles.Role{}, roles.ErrNotFound
}
func (noopRoleRepo) CreateRole(ctx context.Context, name string, access rbac.MenuAccess) (roles.Role, error) {
	return roles.Role{}, roles.ErrNotFound
}
func (noopRoleRepo) UpdateRole(ctx context.Context, id int64, name string, access rbac.MenuAccess, active bool) (roles.Role, error) {
	return roles.Role{}, roles.ErrNotFound
}
func (noopRoleRepo) DeleteRole(ctx context.Context, id int64) error { return roles.ErrNotFound }

type noopBlogRepo struct{}

func (noopBlogRepo) ListPosts(ctx context.Context) ([]blog.Post, error) { return nil, nil }
func (noopBlogRepo) CreatePost(ctx context.Context, post blog.Post) (blog.Post, error) {
	return post, nil
}
func (noopBlogRepo) DeletePost(ctx context.Context, id int64) error { return nil }

type noopConsultationRepo struct{}

func (noopConsultationRepo) ListConsultations(ctx context.Context) ([]consultations.Consultation, error) {
	return nil, nil
}
func (noopConsultationRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	return nil
}

type discardAuditStore struct{}

func (discardAuditStore) Insert(ctx context.Context, entry audit.Entry) error { return nil }

func newTestRouter(t *testing.T) (http.Handler, *auth.TokenIssuer) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &app.Config{
		AppEnv:            "test",
		AppRequestTimeout: 5 * time.Second,
		LoginRateLimit:    100,
		LoginRateWindow:   time.Minute,
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	manager := csrf.NewManager(client, "csrf-test-secret", time.Hour, false)

	issuer := auth.NewTokenIssuer("router-test-secret", time.Hour)
	gate := rbac.Middleware{
		Verifier: issuer,
		Store: &fixedStore{users: map[int64]*rbac.AuthorizedUser{
			1: {ID: 1, Email: "admin@eazysec.local", Role: rbac.RoleAdmin, IsActive: true},
		}},
		Logger: logger,
	}
	recorder := audit.NewRecorder(discardAuditStore{}, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		AuthHandler:          auth.NewHandler(logger, auth.NewService(noopAuthRepo{}), issuer, false),
		CSRFHandler:          csrf.NewHandler(logger, manager),
		UsersHandler:         users.NewHandler(logger, users.NewService(noopUserRepo{}), gate, manager, recorder),
		RolesHandler:         roles.NewHandler(logger, roles.NewService(noopRoleRepo{}), gate, manager, recorder),
		BlogHandler:          blog.NewHandler(logger, noopBlogRepo{}, gate, manager, recorder),
		ConsultationsHandler: consultations.NewHandler(logger, noopConsultationRepo{}, gate, manager, recorder),
		Gate:                 gate,
	})
	return router, issuer
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", res.Body.String())
	}
}

func TestAdminRoutesRejectAnonymous(t *testing.T) {
	router, _ := newTestRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/admin/csrf"},
		{http.MethodGet, "/api/admin/users"},
		{http.MethodGet, "/api/admin/roles"},
		{http.MethodGet, "/api/admin/blog"},
		{http.MethodGet, "/api/admin/consultations"},
		{http.MethodPost, "/api/admin/users"},
	}
	for _, p := range paths {
		res := httptest.NewRecorder()
		router.ServeHTTP(res, httptest.NewRequest(p.method, p.path, nil))
		if res.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", p.method, p.path, res.Code)
		}
		var body struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s %s: decode rejection: %v", p.method, p.path, err)
		}
		if body.Success || body.Message == "" {
			t.Fatalf("%s %s: unexpected rejection body %s", p.method, p.path, res.Body.String())
		}
	}
}

func TestCSRFIssuanceThroughRouter(t *testing.T) {
	router, issuer := newTestRouter(t)

	token, expiresAt, err := issuer.Issue(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/admin/csrf", nil)
	req.AddCookie(auth.SessionCookie(token, expiresAt, false))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var body struct {
		Success   bool   `json:"success"`
		Token     string `json:"token"`
		ExpiresIn int64  `json:"expiresIn"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Token == "" || body.ExpiresIn <= 0 {
		t.Fatalf("unexpected issuance body: %s", res.Body.String())
	}
}

func TestLoginUnknownUserThroughRouter(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"ghost@eazysec.local","password":"whatever1"}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", res.Code, res.Body.String())
	}
}
