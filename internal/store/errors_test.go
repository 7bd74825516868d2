package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		notFound    bool
		duplicate   bool
		unavailable bool
	}{
		{name: "nil error"},
		{name: "generic error", err: errors.New("some error")},
		{name: "ErrNotFound", err: ErrNotFound, notFound: true},
		{name: "ErrTaskNotFound", err: ErrTaskNotFound, notFound: true},
		{name: "wrapped ErrUserNotFound", err: fmt.Errorf("lookup: %w", ErrUserNotFound), notFound: true},
		{name: "ErrTaskExists", err: ErrTaskExists, duplicate: true},
		{name: "wrapped ErrUnavailable", err: fmt.Errorf("query: %w", ErrUnavailable), unavailable: true},
		{
			name:     "service-wrapped not found",
			err:      fmt.Errorf("update_task: %w", fmt.Errorf("%w: no rows", ErrTaskNotFound)),
			notFound: true,
		},
		{name: "invalid entity is none of them", err: ErrInvalidEntity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.notFound, IsNotFoundError(tc.err))
			assert.Equal(t, tc.duplicate, IsDuplicateError(tc.err))
			assert.Equal(t, tc.unavailable, IsUnavailableError(tc.err))
		})
	}
}
