package users

import (
	"context"
	"fmt"

	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/auth"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	CreateUser(ctx context.Context, email, fullName, passwordHash, role string) (User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	SetActive(ctx context.Context, id int64, active bool) error
	SetRole(ctx context.Context, id int64, role string) error
}

// Service handles user management business logic. Password strength is
// enforced here through the single shared policy, so provisioning and
// admin resets cannot diverge.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser returns a single user.
func (s *Service) GetUser(ctx context.Context, id int64) (User, error) {
	return s.repo.GetUser(ctx, id)
}

// CreateUser validates the password, hashes it and inserts the account.
func (s *Service) CreateUser(ctx context.Context, email, fullName, password, role string) (User, error) {
	if err := auth.ValidatePassword(password); err != nil {
		return User{}, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, fmt.Errorf("users: hash password: %w", err)
	}
	return s.repo.CreateUser(ctx, email, fullName, hash, role)
}

// ResetPassword replaces the target user's password after policy checks.
func (s *Service) ResetPassword(ctx context.Context, id int64, password string) error {
	if err := auth.ValidatePassword(password); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("users: hash password: %w", err)
	}
	return s.repo.UpdatePasswordHash(ctx, id, hash)
}

// SetActive toggles the soft-disable flag.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}

// SetRole changes the user's role name.
func (s *Service) SetRole(ctx context.Context, id int64, role string) error {
	return s.repo.SetRole(ctx, id, role)
}
