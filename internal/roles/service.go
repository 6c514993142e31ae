package roles

import (
	"context"
	"errors"
	"strings"

	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/rbac"
)

// ErrNameRequired indicates an empty role name.
var ErrNameRequired = errors.New("roles: name required")

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id int64) (Role, error)
	CreateRole(ctx context.Context, name string, access rbac.MenuAccess) (Role, error)
	UpdateRole(ctx context.Context, id int64, name string, access rbac.MenuAccess, active bool) (Role, error)
	DeleteRole(ctx context.Context, id int64) error
}

// Service handles role management business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// GetRole returns one role.
func (s *Service) GetRole(ctx context.Context, id int64) (Role, error) {
	return s.repo.GetRole(ctx, id)
}

// CreateRole inserts a new role.
func (s *Service) CreateRole(ctx context.Context, name string, access rbac.MenuAccess) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, ErrNameRequired
	}
	if access == nil {
		access = rbac.MenuAccess{}
	}
	return s.repo.CreateRole(ctx, name, access)
}

// UpdateRole replaces a role's name, menu map and active flag.
func (s *Service) UpdateRole(ctx context.Context, id int64, name string, access rbac.MenuAccess, active bool) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, ErrNameRequired
	}
	if access == nil {
		access = rbac.MenuAccess{}
	}
	return s.repo.UpdateRole(ctx, id, name, access, active)
}

// DeleteRole removes a role.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	return s.repo.DeleteRole(ctx, id)
}
