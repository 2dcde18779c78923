package repositories

import (
	"context"

	"collections-api/internal/models"
)

// Record is a stored item converted back to JSON-ready values
type Record map[string]any

// CollectionRepository defines the store operations on collection records
type CollectionRepository interface {
	// Put writes the full record, replacing any item with the same ID
	Put(ctx context.Context, collection *models.Collection) error

	// ScanAll returns every record of a single, unfiltered scan page
	ScanAll(ctx context.Context) ([]Record, error)

	// Update applies the fields to the record with the given ID.
	// Fields whose values have no store representation are skipped;
	// ErrNoFieldsToUpdate is returned when nothing is left to write.
	Update(ctx context.Context, id string, fields []models.Field) error

	// Delete removes the record with the given ID and returns its prior value,
	// which is nil if nothing was stored under that ID
	Delete(ctx context.Context, id string) (Record, error)
}
