package memory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/usertask-api/internal/domain"
	"github.com/phrazzld/usertask-api/internal/store"
)

// UserStore implements store.UserStore in memory.
type UserStore struct {
	db *DB
}

var _ store.UserStore = (*UserStore)(nil)

// CreateIfAbsent implements store.UserStore.
func (s *UserStore) CreateIfAbsent(ctx context.Context, user *domain.User) (bool, error) {
	if err := user.Validate(); err != nil {
		return false, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[user.ID]; ok {
		return false, nil
	}

	u := *user
	u.Tasks = nil
	s.db.users[user.ID] = &u
	return true, nil
}

// GetByID implements store.UserStore.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

// Delete implements store.UserStore. The user's tasks are removed with it.
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.db.users, id)

	for _, tid := range append([]uuid.UUID(nil), s.db.taskOrder...) {
		if s.db.tasks[tid].UserID == id {
			s.db.removeTaskLocked(tid)
		}
	}
	return nil
}

// WithTx implements store.UserStore.
func (s *UserStore) WithTx(_ *sql.Tx) store.UserStore {
	return s
}
