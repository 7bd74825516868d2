package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/usertask-api/internal/domain"
	"github.com/phrazzld/usertask-api/internal/events"
	"github.com/phrazzld/usertask-api/internal/platform/logger"
	"github.com/phrazzld/usertask-api/internal/store"
)

// TaskServiceError is a custom error type for task service errors.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
func NewTaskServiceError(operation, message string, err error) *TaskServiceError {
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// TaskService provides task query and write operations.
//
// Errors wrap store.ErrNotFound for missing tasks, domain.ErrValidation or
// store.ErrInvalidEntity for rejected input, and store.ErrUnavailable when
// the store cannot be reached.
type TaskService interface {
	// GetSorted returns the tasks matching spec's date filter, ordered by
	// spec's field and direction.
	GetSorted(ctx context.Context, spec domain.SortSpec) ([]*domain.Task, error)

	// GetGrouped returns today's and later tasks grouped by date. Groups are
	// chronological and each group is ordered by start time.
	GetGrouped(ctx context.Context) ([]*domain.TaskGroup, error)

	// GetTask retrieves a single task.
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListTasks returns every task in store order.
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// CreateTask validates and stores a new task.
	CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// UpdateTask replaces the mutable fields of the task identified by id.
	UpdateTask(ctx context.Context, id uuid.UUID, task *domain.Task) (*domain.Task, error)

	// DeleteTask removes a task and reports whether one was removed.
	DeleteTask(ctx context.Context, id uuid.UUID) (bool, error)
}

// Option configures a task service.
type Option func(*taskServiceImpl)

// WithClock sets the function used to read the current time.
func WithClock(now func() time.Time) Option {
	return func(s *taskServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the time zone in which "today" is computed.
func WithLocation(loc *time.Location) Option {
	return func(s *taskServiceImpl) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks   store.TaskStore
	emitter events.EventEmitter
	logger  *slog.Logger
	now     func() time.Time
	loc     *time.Location
}

// NewTaskService creates a new TaskService.
// It returns an error if the task store is nil. A nil emitter disables
// change events.
func NewTaskService(
	tasks store.TaskStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
	opts ...Option,
) (TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &taskServiceImpl{
		tasks:   tasks,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "task_service")),
		now:     time.Now,
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GetSorted implements TaskService.GetSorted
func (s *taskServiceImpl) GetSorted(ctx context.Context, spec domain.SortSpec) ([]*domain.Task, error) {
	spec.SortBy = domain.ParseSortField(string(spec.SortBy))

	tasks, err := s.tasks.Query(ctx, spec)
	if err != nil {
		return nil, NewTaskServiceError("get_sorted", "failed to query tasks", err)
	}
	return tasks, nil
}

// GetGrouped implements TaskService.GetGrouped
func (s *taskServiceImpl) GetGrouped(ctx context.Context) ([]*domain.TaskGroup, error) {
	today := domain.DateOf(s.now().In(s.loc))

	tasks, err := s.tasks.ListFrom(ctx, today)
	if err != nil {
		return nil, NewTaskServiceError("get_grouped", "failed to list upcoming tasks", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("grouping upcoming tasks",
		slog.String("from", today.Format(domain.DateLayout)),
		slog.Int("task_count", len(tasks)))

	return GroupByDate(tasks), nil
}

// GroupByDate partitions tasks, which must already be ordered by date, into
// one group per distinct date. Group and intra-group order are preserved.
func GroupByDate(tasks []*domain.Task) []*domain.TaskGroup {
	groups := make([]*domain.TaskGroup, 0)
	for _, t := range tasks {
		date := domain.DateOf(t.Date)
		if n := len(groups); n > 0 && groups[n-1].Date.Equal(date) {
			groups[n-1].Tasks = append(groups[n-1].Tasks, t)
			continue
		}
		groups = append(groups, &domain.TaskGroup{Date: date, Tasks: []*domain.Task{t}})
	}
	return groups
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, NewTaskServiceError("create_task", "task is required",
			domain.NewValidationError("task", "is required", domain.ErrValidation))
	}
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	task.Date = domain.DateOf(task.Date)

	if err := task.Validate(); err != nil {
		return nil, NewTaskServiceError("create_task", "invalid task", err)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, NewTaskServiceError("create_task", "failed to store task", err)
	}

	s.emitChange(ctx, task.ID, events.ActionCreated)
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id uuid.UUID,
	task *domain.Task,
) (*domain.Task, error) {
	if task == nil {
		return nil, NewTaskServiceError("update_task", "task is required",
			domain.NewValidationError("task", "is required", domain.ErrValidation))
	}

	updated := &domain.Task{ID: id}
	updated.Replace(task)

	if err := updated.Validate(); err != nil {
		return nil, NewTaskServiceError("update_task", "invalid task", err)
	}

	if err := s.tasks.Update(ctx, updated); err != nil {
		return nil, NewTaskServiceError("update_task", "failed to update task", err)
	}

	s.emitChange(ctx, id, events.ActionUpdated)
	return updated, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) (bool, error) {
	removed, err := s.tasks.Delete(ctx, id)
	if err != nil {
		return false, NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	if removed {
		s.emitChange(ctx, id, events.ActionDeleted)
	}
	return removed, nil
}

// emitChange publishes a task-changed event. A failing subscriber is logged
// and does not fail the write that already succeeded.
func (s *taskServiceImpl) emitChange(ctx context.Context, id uuid.UUID, action string) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewTaskChangedEvent(id, action)
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		log.Warn("failed to publish task change",
			slog.String("task_id", id.String()),
			slog.String("action", action),
			slog.String("error", err.Error()))
	}
}
