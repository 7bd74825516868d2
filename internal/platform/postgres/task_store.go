package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/phrazzld/usertask-api/internal/domain"
	"github.com/phrazzld/usertask-api/internal/platform/logger"
	"github.com/phrazzld/usertask-api/internal/redact"
	"github.com/phrazzld/usertask-api/internal/store"
)

const taskColumns = `id, user_id, task_date, start_time, end_time, subject, description, always_current`

// sortColumns maps each sort field onto its column. Only these values are
// ever interpolated into ORDER BY.
var sortColumns = map[domain.SortField]string{
	domain.SortByDate:      "task_date",
	domain.SortByStartTime: "start_time",
	domain.SortByEndTime:   "end_time",
	domain.SortByUserID:    "user_id",
}

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.UserID,
		task.Date,
		clockValue(task.StartTime),
		clockValue(task.EndTime),
		task.Subject,
		task.Description,
		task.AlwaysCurrent,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("task already exists", slog.String("task_id", task.ID.String()))
			return store.ErrTaskExists
		}
		if IsForeignKeyViolation(err) {
			log.Debug("task owner does not exist", slog.String("user_id", task.UserID.String()))
			return fmt.Errorf("%w: user %s does not exist", store.ErrInvalidEntity, task.UserID)
		}
		log.Error("failed to create task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	return task, nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET user_id = $2, task_date = $3, start_time = $4, end_time = $5,
		    subject = $6, description = $7, always_current = $8
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.UserID,
		task.Date,
		clockValue(task.StartTime),
		clockValue(task.EndTime),
		task.Subject,
		task.Description,
		task.AlwaysCurrent,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task updated successfully", slog.String("task_id", task.ID.String()))
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return false, MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Debug("task delete executed",
		slog.String("task_id", id.String()),
		slog.Int64("rows_affected", rows))
	return rows > 0, nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY seq`
	return s.queryTasks(ctx, "list", query)
}

// Query implements store.TaskStore.Query
func (s *PostgresTaskStore) Query(ctx context.Context, spec domain.SortSpec) ([]*domain.Task, error) {
	column, ok := sortColumns[spec.SortBy]
	if !ok {
		column = sortColumns[domain.SortByDate]
	}
	direction := "ASC"
	if !spec.Ascending {
		direction = "DESC"
	}

	var date any
	if spec.Date != nil {
		date = domain.DateOf(*spec.Date)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM tasks
		WHERE $1::date IS NULL OR task_date = $1::date OR always_current
		ORDER BY %s %s, seq
	`, taskColumns, column, direction)

	return s.queryTasks(ctx, "query", query, date)
}

// ListFrom implements store.TaskStore.ListFrom
func (s *PostgresTaskStore) ListFrom(ctx context.Context, from time.Time) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + ` FROM tasks
		WHERE task_date >= $1
		ORDER BY task_date, start_time, seq
	`
	return s.queryTasks(ctx, "list_from", query, domain.DateOf(from))
}

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

func (s *PostgresTaskStore) queryTasks(ctx context.Context, op, query string, args ...any) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("operation", op),
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("operation", op),
				slog.String("error", redact.Error(err)))
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("tasks queried",
		slog.String("operation", op),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task       domain.Task
		start, end pgtype.Time
	)

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Date,
		&start,
		&end,
		&task.Subject,
		&task.Description,
		&task.AlwaysCurrent,
	); err != nil {
		return nil, err
	}

	task.Date = domain.DateOf(task.Date)
	task.StartTime = clockDuration(start)
	task.EndTime = clockDuration(end)
	return &task, nil
}

func clockValue(d time.Duration) pgtype.Time {
	return pgtype.Time{Microseconds: d.Microseconds(), Valid: true}
}

func clockDuration(t pgtype.Time) time.Duration {
	if !t.Valid {
		return 0
	}
	return time.Duration(t.Microseconds) * time.Microsecond
}
