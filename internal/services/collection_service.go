package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"collections-api/internal/models"
	"collections-api/internal/repositories"
)

// CollectionService defines the business operations on collection records
type CollectionService interface {
	// CreateCollection validates and stores a record, assigning an ID when
	// none was supplied
	CreateCollection(ctx context.Context, collection *models.Collection) (*models.Collection, error)

	// ListCollections returns every stored record
	ListCollections(ctx context.Context) ([]repositories.Record, error)

	// UpdateCollection writes the given fields onto the record with the ID
	UpdateCollection(ctx context.Context, id string, fields []models.Field) error

	// DeleteCollection removes a record and returns its prior contents
	DeleteCollection(ctx context.Context, id string) (repositories.Record, error)
}

// collectionService implements the CollectionService interface
type collectionService struct {
	repo   repositories.CollectionRepository
	logger *logrus.Logger
}

// NewCollectionService creates a new collection service instance
func NewCollectionService(repo repositories.CollectionRepository, logger *logrus.Logger) CollectionService {
	if logger == nil {
		logger = logrus.New()
	}
	return &collectionService{
		repo:   repo,
		logger: logger,
	}
}

// CreateCollection creates a new collection
func (s *collectionService) CreateCollection(ctx context.Context, collection *models.Collection) (*models.Collection, error) {
	if collection == nil {
		return nil, fmt.Errorf("create collection request cannot be nil")
	}

	if err := collection.Validate(); err != nil {
		if errors.Is(err, models.ErrMissingField) {
			return nil, NewValidationError(models.NameField, "%s", err.Error())
		}
		return nil, NewValidationError("", "%s", err.Error())
	}

	if collection.EnsureID() {
		s.logger.WithField("id", collection.ID).Debug("Generated collection ID")
	}

	if err := s.repo.Put(ctx, collection); err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	s.logger.WithField("id", collection.ID).Info("Collection created")
	return collection, nil
}

// ListCollections lists all collections
func (s *collectionService) ListCollections(ctx context.Context) ([]repositories.Record, error) {
	records, err := s.repo.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	s.logger.WithField("count", len(records)).Debug("Collections listed")
	return records, nil
}

// UpdateCollection updates an existing collection
func (s *collectionService) UpdateCollection(ctx context.Context, id string, fields []models.Field) error {
	if models.IsBlank(id) {
		return NewValidationError(models.IDField, "missing required field '%s'", models.IDField)
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		if repositories.IsNoFieldsToUpdate(err) {
			return NewValidationError("", "%s", repositories.ErrNoFieldsToUpdate.Error())
		}
		return fmt.Errorf("failed to update collection: %w", err)
	}

	s.logger.WithField("id", id).Info("Collection updated")
	return nil
}

// DeleteCollection deletes a collection
func (s *collectionService) DeleteCollection(ctx context.Context, id string) (repositories.Record, error) {
	if models.IsBlank(id) {
		return nil, fmt.Errorf("%w, id=%s", ErrMissingDeleteID, id)
	}

	prior, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete collection: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"id":      id,
		"deleted": prior,
	}).Info("Collection deleted")
	return prior, nil
}
