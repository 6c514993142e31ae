package roles

import (
	"errors"
	"time"

	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/rbac"
)

// Role represents a named permission bundle. The menu-access map is
// sparse; sections missing from the map are denied.
type Role struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	MenuAccess rbac.MenuAccess `json:"menu_access"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

var (
	// ErrNotFound indicates the role does not exist.
	ErrNotFound = errors.New("roles: not found")
	// ErrNameTaken indicates another role already uses the name.
	ErrNameTaken = errors.New("roles: name already in use")
)
