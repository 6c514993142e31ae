// Package csrf implements the user-bound anti-forgery token guard for
// state-changing admin requests.
package csrf

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the companion cookie mirroring the issued token.
const CookieName = "csrf_token"

// HeaderName is the request header clients must echo the token in.
// Cross-site requests cannot set custom headers, which is the actual
// defense; the cookie alone proves nothing.
const HeaderName = "x-csrf-token"

// ErrTokenInvalid covers every validation failure: unknown token, expired
// token, and a token bound to a different user. Callers fail closed.
var ErrTokenInvalid = errors.New("csrf: token invalid")

// Token is an issued anti-forgery token.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Manager issues and validates CSRF tokens backed by Redis. A token is
// `id.signature`: the id keys the Redis record holding the bound user,
// the signature is an HMAC-SHA256 over the id, so forged or truncated
// tokens are rejected before touching Redis. Expiry is enforced by the
// key TTL; tokens are multi-use within their window.
type Manager struct {
	client *redis.Client
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewManager constructs a Manager. secret keys the token signatures;
// secure controls the cookie Secure flag.
func NewManager(client *redis.Client, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{client: client, secret: []byte(secret), ttl: ttl, secure: secure}
}

// Create generates a random signed token bound to the given user id.
func (m *Manager) Create(ctx context.Context, userID int64) (Token, error) {
	id := uuid.NewString()
	if err := m.client.Set(ctx, redisKey(id), strconv.FormatInt(userID, 10), m.ttl).Err(); err != nil {
		return Token{}, fmt.Errorf("csrf: store token: %w", err)
	}
	return Token{Value: id + "." + m.sign(id), ExpiresAt: time.Now().Add(m.ttl)}, nil
}

// Validate checks that the token carries a valid signature, exists, has
// not expired, and is bound to the currently authenticated user. Any
// failure returns ErrTokenInvalid.
func (m *Manager) Validate(ctx context.Context, token string, userID int64) error {
	id, sig, ok := strings.Cut(token, ".")
	if !ok || id == "" {
		return ErrTokenInvalid
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(id))) {
		return ErrTokenInvalid
	}
	stored, err := m.client.Get(ctx, redisKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrTokenInvalid
		}
		return fmt.Errorf("csrf: load token: %w", err)
	}
	boundID, err := strconv.ParseInt(stored, 10, 64)
	if err != nil || boundID != userID {
		return ErrTokenInvalid
	}
	return nil
}

func (m *Manager) sign(id string) string {
	mac := hmac.New(sha256.New, m.secret)
	_, _ = mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Cookie builds the companion Set-Cookie for an issued token, with the
// same expiry as the token itself.
func (m *Manager) Cookie(token Token) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token.Value,
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// TTL exposes the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func redisKey(id string) string {
	return "csrf:" + id
}
