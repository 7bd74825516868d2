package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/usertask-api/internal/domain"
	"github.com/phrazzld/usertask-api/internal/store"
)

// TaskStore implements store.TaskStore in memory.
type TaskStore struct {
	db *DB
}

var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.tasks[task.ID]; ok {
		return store.ErrTaskExists
	}
	if _, ok := s.db.users[task.UserID]; !ok {
		return fmt.Errorf("%w: user %s does not exist", store.ErrInvalidEntity, task.UserID)
	}

	s.db.tasks[task.ID] = cloneTask(task)
	s.db.taskOrder = append(s.db.taskOrder, task.ID)
	return nil
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	t, ok := s.db.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

// Update implements store.TaskStore.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.tasks[task.ID]
	if !ok {
		return store.ErrTaskNotFound
	}
	if _, ok := s.db.users[task.UserID]; !ok {
		return fmt.Errorf("%w: user %s does not exist", store.ErrInvalidEntity, task.UserID)
	}

	existing.Replace(task)
	return nil
}

// Delete implements store.TaskStore.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	return s.db.removeTaskLocked(id), nil
}

// List implements store.TaskStore.
func (s *TaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return s.db.orderedTasksLocked(), nil
}

// Query implements store.TaskStore.
func (s *TaskStore) Query(ctx context.Context, spec domain.SortSpec) ([]*domain.Task, error) {
	s.db.mu.RLock()
	all := s.db.orderedTasksLocked()
	s.db.mu.RUnlock()

	out := all[:0]
	for _, t := range all {
		if spec.Matches(t) {
			out = append(out, t)
		}
	}

	less := lessBy(spec.SortBy)
	sort.SliceStable(out, func(i, j int) bool {
		if spec.Ascending {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})

	return out, nil
}

// ListFrom implements store.TaskStore.
func (s *TaskStore) ListFrom(ctx context.Context, from time.Time) ([]*domain.Task, error) {
	from = domain.DateOf(from)

	s.db.mu.RLock()
	all := s.db.orderedTasksLocked()
	s.db.mu.RUnlock()

	out := all[:0]
	for _, t := range all {
		if !t.Date.Before(from) {
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})

	return out, nil
}

// WithTx implements store.TaskStore. The memory store has no transactions,
// so the receiver is returned unchanged.
func (s *TaskStore) WithTx(_ *sql.Tx) store.TaskStore {
	return s
}

func lessBy(field domain.SortField) func(a, b *domain.Task) bool {
	switch field {
	case domain.SortByStartTime:
		return func(a, b *domain.Task) bool { return a.StartTime < b.StartTime }
	case domain.SortByEndTime:
		return func(a, b *domain.Task) bool { return a.EndTime < b.EndTime }
	case domain.SortByUserID:
		return func(a, b *domain.Task) bool { return a.UserID.String() < b.UserID.String() }
	default:
		return func(a, b *domain.Task) bool { return a.Date.Before(b.Date) }
	}
}
