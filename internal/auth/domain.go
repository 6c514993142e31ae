package auth

import (
	"errors"
	"time"
)

// User represents an authenticated user account as stored in the
// credential store. PasswordHash never leaves this package.
type User struct {
	ID           int64
	Email        string
	FullName     string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var (
	// ErrInvalidCredentials collapses every login failure (unknown email,
	// wrong password, inactive account) into one indistinguishable error.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrInvalidToken indicates a malformed or badly signed session token.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrExpiredToken indicates a well-formed session token past its expiry.
	ErrExpiredToken = errors.New("auth: expired token")
)
