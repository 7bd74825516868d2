package service

import (
	"errors"

	"github.com/phrazzld/usertask-api/internal/domain"
	"github.com/phrazzld/usertask-api/internal/store"
)

// Error kinds returned by the service layer. Callers classify errors with
// Kind rather than matching individual sentinels.
//
// Error handling principles:
// 1. Stores return sentinel errors for expected conditions
// 2. The service wraps them in TaskServiceError without hiding the sentinel
// 3. The API layer maps the kind to an HTTP status code
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindInvalid
	KindDuplicate
	KindUnavailable
)

// String returns the lower-case name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalid:
		return "invalid"
	case KindDuplicate:
		return "duplicate"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Kind classifies err.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindInternal
	case store.IsNotFoundError(err):
		return KindNotFound
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return KindInvalid
	case store.IsDuplicateError(err):
		return KindDuplicate
	case store.IsUnavailableError(err):
		return KindUnavailable
	default:
		return KindInternal
	}
}
