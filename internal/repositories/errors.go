package repositories

import (
	"errors"
	"fmt"
)

// Common repository errors
var (
	// ErrNoFieldsToUpdate is returned when an update carries no storable field
	ErrNoFieldsToUpdate = errors.New("no valid fields to update")

	// ErrTableNotFound is returned when the backing table does not exist
	ErrTableNotFound = errors.New("table not found")

	// ErrStore is returned when a store call fails for any other reason
	ErrStore = errors.New("store operation failed")
)

// RepositoryError represents a repository-specific error with additional context
type RepositoryError struct {
	Op     string // Operation that failed
	Entity string // Entity type
	ID     string // Entity ID (if applicable)
	Err    error  // Underlying error
}

// Error implements the error interface
func (e *RepositoryError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s operation failed for ID %s: %v", e.Entity, e.Op, e.ID, e.Err)
	}

	return fmt.Sprintf("%s %s operation failed: %v", e.Entity, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new repository error
func NewRepositoryError(op, entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:     op,
		Entity: entity,
		ID:     id,
		Err:    err,
	}
}

// IsNoFieldsToUpdate checks if an error reports an empty update
func IsNoFieldsToUpdate(err error) bool {
	return errors.Is(err, ErrNoFieldsToUpdate)
}

// IsTableNotFound checks if an error reports a missing table
func IsTableNotFound(err error) bool {
	return errors.Is(err, ErrTableNotFound)
}
