package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	date := time.Date(2026, 10, 19, 15, 30, 0, 0, time.FixedZone("x", 3600))

	task, err := NewTask(uuid.Nil, userID, date, 8*time.Hour, 10*time.Hour, "  Standup ", "daily", false)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, task.ID, "an ID should be generated")
	assert.Equal(t, userID, task.UserID)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), task.Date)
	assert.Equal(t, "Standup", task.Subject)
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Task {
		return &Task{
			ID:        uuid.New(),
			UserID:    uuid.New(),
			Date:      time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
			StartTime: 9 * time.Hour,
			EndTime:   10 * time.Hour,
			Subject:   "Review",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr error
	}{
		{name: "valid", mutate: func(*Task) {}},
		{name: "missing id", mutate: func(t *Task) { t.ID = uuid.Nil }, wantErr: ErrTaskIDEmpty},
		{name: "missing user", mutate: func(t *Task) { t.UserID = uuid.Nil }, wantErr: ErrTaskUserIDEmpty},
		{name: "missing date", mutate: func(t *Task) { t.Date = time.Time{} }, wantErr: ErrTaskDateEmpty},
		{name: "blank subject", mutate: func(t *Task) { t.Subject = "   " }, wantErr: ErrTaskSubjectEmpty},
		{
			name:    "subject too long",
			mutate:  func(t *Task) { t.Subject = strings.Repeat("a", MaxSubjectLength+1) },
			wantErr: ErrTaskSubjectTooLong,
		},
		{name: "end before start", mutate: func(t *Task) { t.EndTime = 8 * time.Hour }, wantErr: ErrTaskTimeRange},
		{name: "equal times", mutate: func(t *Task) { t.EndTime = t.StartTime }, wantErr: ErrTaskTimeRange},
		{name: "past midnight", mutate: func(t *Task) { t.EndTime = 25 * time.Hour }, wantErr: ErrTaskTimeOutOfRange},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			task := valid()
			tc.mutate(task)

			err := task.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tc.wantErr)
			assert.True(t, errors.Is(err, ErrValidation), "every task validation error is a validation error")
		})
	}
}

func TestTaskReplaceKeepsID(t *testing.T) {
	t.Parallel()

	original := &Task{ID: uuid.New(), Subject: "old"}
	update := &Task{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		Date:          time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC),
		StartTime:     time.Hour,
		EndTime:       2 * time.Hour,
		Subject:       " new ",
		Description:   "desc",
		AlwaysCurrent: true,
	}

	id := original.ID
	original.Replace(update)

	assert.Equal(t, id, original.ID)
	assert.Equal(t, update.UserID, original.UserID)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), original.Date)
	assert.Equal(t, "new", original.Subject)
	assert.True(t, original.AlwaysCurrent)
}

func TestParseAndFormatClock(t *testing.T) {
	t.Parallel()

	d, err := ParseClock("08:30:15")
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour+30*time.Minute+15*time.Second, d)
	assert.Equal(t, "08:30:15", FormatClock(d))

	d, err = ParseClock("23:05")
	require.NoError(t, err)
	assert.Equal(t, "23:05:00", FormatClock(d))

	_, err = ParseClock("8 o'clock")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("19/10/2026")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestSortSpec(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SortByStartTime, ParseSortField("starttime"))
	assert.Equal(t, SortByUserID, ParseSortField("UserId"))
	assert.Equal(t, SortByDate, ParseSortField(""))
	assert.Equal(t, SortByDate, ParseSortField("Subject"))

	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	spec := SortSpec{Date: &day}

	assert.True(t, spec.Matches(&Task{Date: day}))
	assert.True(t, spec.Matches(&Task{Date: day.AddDate(0, 0, 3), AlwaysCurrent: true}))
	assert.False(t, spec.Matches(&Task{Date: day.AddDate(0, 0, 3)}))
	assert.True(t, DefaultSortSpec().Matches(&Task{Date: day.AddDate(1, 0, 0)}))
}
