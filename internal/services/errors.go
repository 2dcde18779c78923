package services

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks client-caused failures
	ErrValidation = errors.New("validation failed")

	// ErrMissingDeleteID is returned when a delete request names no id.
	// It is deliberately not a validation error: clients have always
	// received a server error for it.
	ErrMissingDeleteID = errors.New("error deleting collection")
)

// ValidationError describes a request the service refuses to process
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) hold for every ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a validation error for field
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
