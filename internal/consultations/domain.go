package consultations

import (
	"errors"
	"time"
)

// Statuses a consultation request moves through.
const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusClosed     = "closed"
)

// Consultation is an intake request submitted through the public site.
type Consultation struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	// ErrNotFound indicates the consultation does not exist.
	ErrNotFound = errors.New("consultations: not found")
	// ErrBadStatus indicates an unknown status value.
	ErrBadStatus = errors.New("consultations: invalid status")
)

// ValidStatus reports whether s is a known status.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusInProgress, StatusClosed:
		return true
	}
	return false
}
