package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/usertask-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
// Users are only written by seeding; the API exposes tasks.
type UserStore interface {
	// CreateIfAbsent saves a user unless one with the same ID exists.
	// Reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, user *domain.User) (bool, error)

	// GetByID retrieves a user by their unique ID, without tasks.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// Delete removes a user and, through the schema's cascade, its tasks.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a UserStore that runs its statements on tx.
	WithTx(tx *sql.Tx) UserStore
}
