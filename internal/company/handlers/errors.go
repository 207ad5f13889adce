package handlers

import (
	"errors"
	"net/http"

	e "github.com/gartstein/companydir/internal/company/errors"
)

// statusForError maps a service error onto an HTTP status. Duplicates use
// 400 on both the pre-check and the store-level path so the two are
// indistinguishable to callers. Unknown errors default to 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, e.ErrInvalidInput),
		errors.Is(err, e.ErrDuplicate),
		errors.Is(err, e.ErrNoFieldsProvided),
		errors.Is(err, e.ErrBadQuery):
		return http.StatusBadRequest
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// messageForError returns the user-safe message for a service error.
// Internal failures never expose the underlying error text here.
func messageForError(err error) string {
	switch {
	case errors.Is(err, e.ErrInvalidInput):
		return "Validation failed"
	case errors.Is(err, e.ErrDuplicate):
		return e.ErrDuplicate.Error()
	case errors.Is(err, e.ErrNoFieldsProvided):
		return e.ErrNoFieldsProvided.Error()
	case errors.Is(err, e.ErrBadQuery):
		return e.ErrBadQuery.Error()
	case errors.Is(err, e.ErrNotFound):
		return e.ErrNotFound.Error()
	default:
		return "An unexpected error occurred"
	}
}

// detailsForError lists the individual violations behind a validation
// failure, in detection order.
func detailsForError(err error) []string {
	if v, ok := e.AsValidation(err); ok {
		return v.Violations
	}
	return nil
}
