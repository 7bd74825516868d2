package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxSubjectLength bounds the subject of a task.
const MaxSubjectLength = 200

// DateLayout is the wire and storage format of a scheduled date.
const DateLayout = "2006-01-02"

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskUserIDEmpty is returned when a task's user ID is nil.
	ErrTaskUserIDEmpty = errors.New("task user ID cannot be empty")

	// ErrTaskSubjectEmpty is returned when a task has no subject.
	ErrTaskSubjectEmpty = errors.New("task subject cannot be empty")

	// ErrTaskSubjectTooLong is returned when a subject exceeds MaxSubjectLength.
	ErrTaskSubjectTooLong = fmt.Errorf("task subject must be at most %d characters", MaxSubjectLength)

	// ErrTaskDateEmpty is returned when a task has no scheduled date.
	ErrTaskDateEmpty = errors.New("task date cannot be empty")

	// ErrTaskTimeOutOfRange is returned when a start or end time is not within a day.
	ErrTaskTimeOutOfRange = errors.New("task times must be within a single day")

	// ErrTaskTimeRange is returned when the start time does not precede the end time.
	ErrTaskTimeRange = errors.New("task start time must be before end time")
)

// Task is a unit of work scheduled by a user on a given date.
//
// Date is a civil date stored as midnight UTC. StartTime and EndTime are
// offsets from midnight. AlwaysCurrent marks a task that matches every
// date-filtered query regardless of its own date.
type Task struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Date          time.Time
	StartTime     time.Duration
	EndTime       time.Duration
	Subject       string
	Description   string
	AlwaysCurrent bool
}

// NewTask creates a Task, generating an ID when id is uuid.Nil.
// Returns an error if validation fails.
func NewTask(
	id, userID uuid.UUID,
	date time.Time,
	start, end time.Duration,
	subject, description string,
	alwaysCurrent bool,
) (*Task, error) {
	if id == uuid.Nil {
		id = uuid.New()
	}

	task := &Task{
		ID:            id,
		UserID:        userID,
		Date:          DateOf(date),
		StartTime:     start,
		EndTime:       end,
		Subject:       strings.TrimSpace(subject),
		Description:   description,
		AlwaysCurrent: alwaysCurrent,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Every returned error satisfies errors.Is(err, ErrValidation).
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "is required", ErrTaskIDEmpty)
	}

	if t.UserID == uuid.Nil {
		return NewValidationError("userId", "is required", ErrTaskUserIDEmpty)
	}

	if t.Date.IsZero() {
		return NewValidationError("currentDate", "is required", ErrTaskDateEmpty)
	}

	if strings.TrimSpace(t.Subject) == "" {
		return NewValidationError("subject", "is required", ErrTaskSubjectEmpty)
	}

	if len([]rune(t.Subject)) > MaxSubjectLength {
		return NewValidationError("subject", "is too long", ErrTaskSubjectTooLong)
	}

	if !withinDay(t.StartTime) || !withinDay(t.EndTime) {
		return NewValidationError("startTime", "is out of range", ErrTaskTimeOutOfRange)
	}

	if t.StartTime >= t.EndTime {
		return NewValidationError("endTime", "must be after startTime", ErrTaskTimeRange)
	}

	return nil
}

// Replace overwrites every mutable field of t with the values of other.
// The ID is left untouched.
func (t *Task) Replace(other *Task) {
	t.UserID = other.UserID
	t.Date = DateOf(other.Date)
	t.StartTime = other.StartTime
	t.EndTime = other.EndTime
	t.Subject = strings.TrimSpace(other.Subject)
	t.Description = other.Description
	t.AlwaysCurrent = other.AlwaysCurrent
}

// TaskGroup holds the tasks scheduled on a single date.
type TaskGroup struct {
	Date  time.Time
	Tasks []*Task
}

// DateOf truncates t to its civil date, expressed as midnight UTC.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, NewValidationError("date", "must use YYYY-MM-DD", ErrInvalidFormat)
	}
	return d, nil
}

// ParseClock parses an HH:MM or HH:MM:SS time of day into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	layout := "15:04:05"
	if strings.Count(s, ":") == 1 {
		layout = "15:04"
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, NewValidationError("time", "must use HH:MM:SS", ErrInvalidFormat)
	}

	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}

// FormatClock renders an offset from midnight as HH:MM:SS.
func FormatClock(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

func withinDay(d time.Duration) bool {
	return d >= 0 && d < 24*time.Hour
}
