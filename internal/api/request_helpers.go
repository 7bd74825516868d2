package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/usertask-api/internal/domain"
)

// getPathUUID extracts a UUID from the URL path parameters.
// It parses and validates the UUID, handling common error cases.
//
// Returns:
//   - (uuid.UUID, nil): The parsed UUID if valid
//   - (uuid.Nil, error): A validation error if the parameter is missing or malformed
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// parseSortSpec reads the date, sortBy and ascending query parameters.
// Absent parameters take their defaults: no date filter, CurrentDate,
// ascending.
func parseSortSpec(query url.Values) (domain.SortSpec, error) {
	spec := domain.DefaultSortSpec()

	if raw := query.Get("date"); raw != "" {
		date, err := domain.ParseDate(raw)
		if err != nil {
			return spec, domain.NewValidationError("date", "must use YYYY-MM-DD", domain.ErrInvalidFormat)
		}
		spec.Date = &date
	}

	spec.SortBy = domain.ParseSortField(query.Get("sortBy"))

	if raw := query.Get("ascending"); raw != "" {
		ascending, err := strconv.ParseBool(raw)
		if err != nil {
			return spec, domain.NewValidationError("ascending", "must be true or false", domain.ErrInvalidFormat)
		}
		spec.Ascending = ascending
	}

	return spec, nil
}
