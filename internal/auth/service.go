package auth

import (
	"context"
	"errors"
	"time"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials. Every failure mode
// collapses to ErrInvalidCredentials; the user-not-found path burns a
// dummy hash comparison so it cannot be told apart by timing.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			DummyVerify(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// RegisterSession persists login provenance (id, expiry, ip, user agent).
func (s *Service) RegisterSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, userID, expiresAt, ip, ua)
}

// RemoveSessions deletes session records for a user on logout.
func (s *Service) RemoveSessions(ctx context.Context, userID int64) error {
	return s.repo.DeleteSessionsForUser(ctx, userID)
}
