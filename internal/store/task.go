package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/usertask-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrTaskExists if a task with the same ID exists.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update replaces every mutable field of the stored task with task's values.
	// Returns ErrTaskNotFound if no task has task.ID.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by its ID and reports whether a row was removed.
	// Deleting a missing task is not an error.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// List returns every task in store order.
	List(ctx context.Context) ([]*domain.Task, error)

	// Query returns the tasks matching spec's date filter (date equals the
	// filter OR the task is always current), ordered by spec.SortBy in the
	// requested direction. Ties keep store order.
	Query(ctx context.Context, spec domain.SortSpec) ([]*domain.Task, error)

	// ListFrom returns tasks whose date is on or after from, ordered by date
	// ascending then start time ascending.
	ListFrom(ctx context.Context, from time.Time) ([]*domain.Task, error)

	// WithTx returns a TaskStore that runs its statements on tx.
	WithTx(tx *sql.Tx) TaskStore
}
