package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepositoryError(t *testing.T) {
	cause := fmt.Errorf("%w: throughput exceeded", ErrStore)

	err := NewRepositoryError("update", "collection", "col-1", cause)
	assert.Equal(t, "collection update operation failed for ID col-1: store operation failed: throughput exceeded", err.Error())
	assert.True(t, errors.Is(err, ErrStore))

	noID := NewRepositoryError("scan", "collection", "", cause)
	assert.Equal(t, "collection scan operation failed: store operation failed: throughput exceeded", noID.Error())
}

func TestErrorPredicates(t *testing.T) {
	wrapped := NewRepositoryError("update", "collection", "X", ErrNoFieldsToUpdate)
	assert.True(t, IsNoFieldsToUpdate(wrapped))
	assert.False(t, IsTableNotFound(wrapped))

	missing := NewRepositoryError("scan", "collection", "", fmt.Errorf("%w: collections", ErrTableNotFound))
	assert.True(t, IsTableNotFound(missing))
	assert.False(t, IsNoFieldsToUpdate(missing))
}
