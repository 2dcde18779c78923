package server

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"collections-api/internal/config"
	"collections-api/internal/handlers"
	"collections-api/internal/repositories"
	"collections-api/internal/repositories/dynamodb"
	"collections-api/internal/services"
)

// Container holds all application dependencies. It is built once per
// process and shared by every invocation.
type Container struct {
	Config            *config.Config
	Logger            *logrus.Logger
	Store             dynamodb.Client
	CollectionRepo    repositories.CollectionRepository
	CollectionService services.CollectionService
	CollectionHandler *handlers.CollectionHandler
}

// NewContainer creates a new dependency injection container, connecting to
// the store named by the configuration
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger := config.NewLogger(cfg.Log)

	var store dynamodb.Client
	switch cfg.Store.Type {
	case config.StoreTypeMemory:
		memory := dynamodb.NewMemoryClient()
		if _, err := dynamodb.EnsureTable(ctx, memory, cfg.Store.TableName, logger); err != nil {
			return nil, fmt.Errorf("failed to create in-memory table: %w", err)
		}
		store = memory
	case config.StoreTypeDynamoDB:
		client, err := dynamodb.NewClient(ctx, cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
		}
		store = client
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Store.Type)
	}

	logger.WithFields(config.GetServerlessConfig().Fields()).WithFields(logrus.Fields{
		"store":           cfg.Store.Type,
		"table":           cfg.Store.TableName,
		"deployment_mode": config.GetDeploymentMode(),
	}).Info("Container initialized")

	return NewContainerWithStore(cfg, logger, store), nil
}

// NewContainerWithStore wires the application around an existing store client
func NewContainerWithStore(cfg *config.Config, logger *logrus.Logger, store dynamodb.Client) *Container {
	repo := dynamodb.NewCollectionRepository(store, cfg.Store.TableName, logger)
	service := services.NewCollectionService(repo, logger)

	return &Container{
		Config:            cfg,
		Logger:            logger,
		Store:             store,
		CollectionRepo:    repo,
		CollectionService: service,
		CollectionHandler: handlers.NewCollectionHandler(service, logger, cfg.HTTP.AllowOrigin),
	}
}

// Close cleans up all resources. The AWS SDK client holds no resources that
// need releasing, so this only drops references.
func (c *Container) Close() error {
	c.Store = nil
	c.CollectionRepo = nil
	c.CollectionService = nil
	return nil
}
