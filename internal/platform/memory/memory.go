package memory

import (
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/usertask-api/internal/domain"
)

// DB holds the users and tasks shared by a TaskStore and a UserStore.
type DB struct {
	mu        sync.RWMutex
	users     map[uuid.UUID]*domain.User
	tasks     map[uuid.UUID]*domain.Task
	taskOrder []uuid.UUID
}

// NewDB creates an empty DB.
func NewDB() *DB {
	return &DB{
		users: make(map[uuid.UUID]*domain.User),
		tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Tasks returns a TaskStore backed by db.
func (db *DB) Tasks() *TaskStore {
	return &TaskStore{db: db}
}

// Users returns a UserStore backed by db.
func (db *DB) Users() *UserStore {
	return &UserStore{db: db}
}

// removeTaskLocked drops id from the map and the order slice.
// The caller must hold the write lock.
func (db *DB) removeTaskLocked(id uuid.UUID) bool {
	if _, ok := db.tasks[id]; !ok {
		return false
	}
	delete(db.tasks, id)
	for i, tid := range db.taskOrder {
		if tid == id {
			db.taskOrder = append(db.taskOrder[:i], db.taskOrder[i+1:]...)
			break
		}
	}
	return true
}

// orderedTasksLocked returns copies of every task in store order.
// The caller must hold at least the read lock.
func (db *DB) orderedTasksLocked() []*domain.Task {
	out := make([]*domain.Task, 0, len(db.taskOrder))
	for _, id := range db.taskOrder {
		out = append(out, cloneTask(db.tasks[id]))
	}
	return out
}

func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	return &c
}
