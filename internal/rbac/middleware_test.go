package rbac_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/auth"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/rbac"
)

type stubStore struct {
	users map[int64]*rbac.AuthorizedUser
	err   error
}

func (s *stubStore) ResolveUser(ctx context.Context, userID int64) (*rbac.AuthorizedUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[userID]
	if !ok {
		return nil, rbac.ErrNotFound
	}
	return user, nil
}

func newGate(store *stubStore) (rbac.Middleware, *auth.TokenIssuer) {
	issuer := auth.NewTokenIssuer("gate-test-secret", time.Hour)
	return rbac.Middleware{
		Verifier: issuer,
		Store:    store,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, issuer
}

func okHandler(t *testing.T, captured **rbac.AuthorizedUser) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			*captured = rbac.UserFromContext(r.Context())
		}
		w.WriteHeader(http.StatusOK)
	})
}

func sessionRequest(t *testing.T, issuer *auth.TokenIssuer, userID int64) *http.Request {
	t.Helper()
	token, expiresAt, err := issuer.Issue(userID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.AddCookie(auth.SessionCookie(token, expiresAt, false))
	return req
}

func assertRejection(t *testing.T, res *httptest.ResponseRecorder, wantStatus int) {
	t.Helper()
	if res.Code != wantStatus {
		t.Fatalf("expected %d, got %d: %s", wantStatus, res.Code, res.Body.String())
	}
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode rejection: %v", err)
	}
	if body.Success {
		t.Fatalf("rejection must carry success=false")
	}
	if body.Message == "" {
		t.Fatalf("rejection must carry a message")
	}
}

func TestGateRejectsMissingCookie(t *testing.T) {
	gate, _ := newGate(&stubStore{})
	res := httptest.NewRecorder()
	gate.RequireStaff(okHandler(t, nil)).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))
	assertRejection(t, res, http.StatusUnauthorized)
}

func TestGateRejectsMalformedToken(t *testing.T) {
	gate, _ := newGate(&stubStore{})
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "not-a-token"})
	res := httptest.NewRecorder()
	gate.RequireStaff(okHandler(t, nil)).ServeHTTP(res, req)
	assertRejection(t, res, http.StatusUnauthorized)
}

func TestGateRejectsExpiredToken(t *testing.T) {
	store := &stubStore{users: map[int64]*rbac.AuthorizedUser{
		7: {ID: 7, Role: rbac.RoleAdmin, IsActive: true},
	}}
	gate, _ := newGate(store)
	expiredIssuer := auth.NewTokenIssuer("gate-test-secret", -time.Minute)
	req := sessionRequest(t, expiredIssuer, 7)
	res := httptest.NewRecorder()
	gate.RequireStaff(okHandler(t, nil)).ServeHTTP(res, req)
	assertRejection(t, res, http.StatusUnauthorized)
}

func TestGateRejectsUnknownUser(t *testing.T) {
	gate, issuer := newGate(&stubStore{})
	res := httptest.NewRecorder()
	gate.RequireStaff(okHandler(t, nil)).ServeHTTP(res, sessionRequest(t, issuer, 42))
	assertRejection(t, res, http.StatusUnauthorized)
}

func TestGateStoreFailureIsServerError(t *testing.T) {
	gate, issuer := newGate(&stubStore{err: errors.New("connection refused")})
	res := httptest.NewRecorder()
	gate.RequireStaff(okHandler(t, nil)).ServeHTTP(res, sessionRequest(t, issuer, 42))
	assertRejection(t, res, http.StatusInternalServerError)
}

func TestRequireAdminRejectsModerator(t *testing.T) {
	store := &stubStore{users: map[int64]*rbac.AuthorizedUser{
		3: {ID: 3, Role: rbac.RoleModerator, IsActive: true},
	}}
	gate, issuer := newGate(store)
	res := httptest.NewRecorder()
	gate.RequireAdmin(okHandler(t, nil)).ServeHTTP(res, sessionRequest(t, issuer, 3))
	assertRejection(t, res, http.StatusForbidden)
}

func TestRequireStaffPassesUserDownstream(t *testing.T) {
	store := &stubStore{users: map[int64]*rbac.AuthorizedUser{
		3: {ID: 3, Email: "mod@eazysec.local", Role: rbac.RoleModerator, IsActive: true},
	}}
	gate, issuer := newGate(store)
	var seen *rbac.AuthorizedUser
	res := httptest.NewRecorder()
	gate.RequireStaff(okHandler(t, &seen)).ServeHTTP(res, sessionRequest(t, issuer, 3))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if seen == nil || seen.ID != 3 {
		t.Fatalf("expected user 3 in context, got %+v", seen)
	}
}

func TestRequireMenu(t *testing.T) {
	store := &stubStore{users: map[int64]*rbac.AuthorizedUser{
		1: {ID: 1, Role: rbac.RoleAdmin, IsActive: true},
		3: {ID: 3, Role: rbac.RoleModerator, IsActive: true, MenuAccess: rbac.MenuAccess{"blog": true}},
		4: {ID: 4, Role: "viewer", IsActive: true, MenuAccess: rbac.MenuAccess{"blog": true}},
	}}
	gate, issuer := newGate(store)

	cases := []struct {
		name   string
		userID int64
		menu   string
		want   int
	}{
		{"admin bypasses map", 1, "users", http.StatusOK},
		{"moderator with grant", 3, "blog", http.StatusOK},
		{"moderator without grant", 3, "users", http.StatusForbidden},
		{"granted map but wrong role", 4, "blog", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := httptest.NewRecorder()
			gate.RequireMenu(tc.menu)(okHandler(t, nil)).ServeHTTP(res, sessionRequest(t, issuer, tc.userID))
			if res.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, res.Code, res.Body.String())
			}
		})
	}
}
