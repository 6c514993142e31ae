package users

import (
	"errors"
	"time"
)

// User represents a user account for management. The password hash stays
// inside the repository and never crosses this boundary.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	// ErrNotFound indicates the target user does not exist.
	ErrNotFound = errors.New("users: not found")
	// ErrEmailTaken indicates the email already belongs to another account.
	ErrEmailTaken = errors.New("users: email already registered")
)
