package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User validation errors
var (
	ErrEmptyUserID    = errors.New("user ID cannot be empty")
	ErrEmptyFirstname = errors.New("first name cannot be empty")
	ErrEmptyLastname  = errors.New("last name cannot be empty")
)

// User owns zero or more tasks. Removing a user removes its tasks.
type User struct {
	ID          uuid.UUID
	Firstname   string
	Lastname    string
	DateOfBirth time.Time
	Tasks       []*Task
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "is required", ErrEmptyUserID)
	}

	if strings.TrimSpace(u.Firstname) == "" {
		return NewValidationError("firstname", "is required", ErrEmptyFirstname)
	}

	if strings.TrimSpace(u.Lastname) == "" {
		return NewValidationError("lastname", "is required", ErrEmptyLastname)
	}

	return nil
}
