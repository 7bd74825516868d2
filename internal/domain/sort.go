package domain

import (
	"strings"
	"time"
)

// SortField selects the task attribute used to order a sorted query.
type SortField string

const (
	SortByDate      SortField = "CurrentDate"
	SortByStartTime SortField = "StartTime"
	SortByEndTime   SortField = "EndTime"
	SortByUserID    SortField = "UserId"
)

// ParseSortField maps a client-supplied field name onto a SortField.
// Matching is case-insensitive; empty or unknown names select SortByDate.
func ParseSortField(s string) SortField {
	for _, f := range []SortField{SortByStartTime, SortByEndTime, SortByUserID} {
		if strings.EqualFold(s, string(f)) {
			return f
		}
	}
	return SortByDate
}

// SortSpec describes a sorted task query.
type SortSpec struct {
	// Date, when set, keeps tasks scheduled on that date plus every
	// always-current task.
	Date      *time.Time
	SortBy    SortField
	Ascending bool
}

// DefaultSortSpec returns the spec used when a client supplies no parameters.
func DefaultSortSpec() SortSpec {
	return SortSpec{SortBy: SortByDate, Ascending: true}
}

// Matches reports whether t passes the spec's date filter.
func (s SortSpec) Matches(t *Task) bool {
	if s.Date == nil {
		return true
	}
	return t.AlwaysCurrent || DateOf(t.Date).Equal(DateOf(*s.Date))
}
