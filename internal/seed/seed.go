package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/usertask-api/internal/domain"
	"github.com/phrazzld/usertask-api/internal/platform/logger"
	"github.com/phrazzld/usertask-api/internal/store"
)

type userRecord struct {
	ID          uuid.UUID    `json:"id" validate:"required"`
	Firstname   string       `json:"firstname" validate:"required"`
	Lastname    string       `json:"lastname" validate:"required"`
	DateOfBirth string       `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Tasks       []taskRecord `json:"tasks" validate:"dive"`
}

type taskRecord struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	CurrentDate   string    `json:"currentDate" validate:"required,datetime=2006-01-02"`
	StartTime     string    `json:"startTime" validate:"required"`
	EndTime       string    `json:"endTime" validate:"required"`
	Subject       string    `json:"subject" validate:"required,max=200"`
	Description   string    `json:"description"`
	IsCurrentDate bool      `json:"isCurrentDate"`
}

// Result counts what Apply wrote.
type Result struct {
	UsersCreated int
	UsersSkipped int
	TasksCreated int
}

// Parse decodes and validates a seed document into users with their tasks.
// A task without a user id belongs to the user it is nested in.
func Parse(r io.Reader) ([]*domain.User, error) {
	var records []userRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode seed data: %w", err)
	}

	validate := validator.New()
	users := make([]*domain.User, 0, len(records))
	for i := range records {
		rec := &records[i]
		if err := validate.Struct(rec); err != nil {
			return nil, fmt.Errorf("invalid seed user at index %d: %w", i, err)
		}

		user, err := rec.toDomain()
		if err != nil {
			return nil, fmt.Errorf("invalid seed user at index %d: %w", i, err)
		}
		users = append(users, user)
	}

	return users, nil
}

// LoadFile parses the seed document at path.
func LoadFile(path string) ([]*domain.User, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Apply writes users and their tasks. Users that already exist are left
// untouched and their tasks are not inserted again.
func Apply(
	ctx context.Context,
	users store.UserStore,
	tasks store.TaskStore,
	data []*domain.User,
) (Result, error) {
	log := logger.FromContextOrDefault(ctx, slog.Default()).With(slog.String("component", "seed"))

	var res Result
	for _, user := range data {
		created, err := users.CreateIfAbsent(ctx, user)
		if err != nil {
			return res, fmt.Errorf("failed to seed user %s: %w", user.ID, err)
		}
		if !created {
			res.UsersSkipped++
			continue
		}
		res.UsersCreated++

		for _, task := range user.Tasks {
			if err := tasks.Create(ctx, task); err != nil {
				return res, fmt.Errorf("failed to seed task %s: %w", task.ID, err)
			}
			res.TasksCreated++
		}
	}

	log.Info("seed data applied",
		slog.Int("users_created", res.UsersCreated),
		slog.Int("users_skipped", res.UsersSkipped),
		slog.Int("tasks_created", res.TasksCreated))
	return res, nil
}

func (r *userRecord) toDomain() (*domain.User, error) {
	user := &domain.User{
		ID:        r.ID,
		Firstname: r.Firstname,
		Lastname:  r.Lastname,
	}
	if r.DateOfBirth != "" {
		dob, err := domain.ParseDate(r.DateOfBirth)
		if err != nil {
			return nil, err
		}
		user.DateOfBirth = dob
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	for _, tr := range r.Tasks {
		task, err := tr.toDomain(user.ID)
		if err != nil {
			return nil, err
		}
		user.Tasks = append(user.Tasks, task)
	}
	return user, nil
}

func (r taskRecord) toDomain(owner uuid.UUID) (*domain.Task, error) {
	date, err := domain.ParseDate(r.CurrentDate)
	if err != nil {
		return nil, err
	}
	start, err := domain.ParseClock(r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseClock(r.EndTime)
	if err != nil {
		return nil, err
	}

	userID := r.UserID
	if userID == uuid.Nil {
		userID = owner
	}
	if userID != owner {
		return nil, domain.NewValidationError("userId", "must match the enclosing user", domain.ErrInvalidID)
	}

	return domain.NewTask(r.ID, userID, date, start, end, r.Subject, r.Description, r.IsCurrentDate)
}
