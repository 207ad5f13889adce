// Package errors defines the error taxonomy shared by the company service.
// Sentinel errors classify failures; handlers map them to HTTP status codes.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound         = fmt.Errorf("company not found")
	ErrDuplicate        = fmt.Errorf("company with this name or email already exists")
	ErrInvalidInput     = fmt.Errorf("invalid input")
	ErrNoFieldsProvided = fmt.Errorf("no valid fields provided for update")
	ErrBadQuery         = fmt.Errorf("query parameter q is required")
)

// ValidationError carries every violation detected in a request body so the
// caller sees them all at once instead of only the first one.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// Is makes ValidationError match ErrInvalidInput in errors.Is chains.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError wraps a list of violations. Returns nil when the list is
// empty so callers can return it unconditionally.
func NewValidationError(violations []string) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}

// AsValidation extracts a ValidationError from an error chain.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
