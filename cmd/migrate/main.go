package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"collections-api/internal/config"
	"collections-api/internal/repositories/dynamodb"
)

func main() {
	var (
		action  = flag.String("action", "ensure", "Table action: ensure, describe")
		table   = flag.String("table", "", "Table name (defaults to TABLE_NAME)")
		verbose = flag.Bool("verbose", config.GetEnvAsBool("VERBOSE", false), "Enable verbose logging")
	)
	flag.Parse()

	// Setup logger
	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if *table != "" {
		cfg.Store.TableName = *table
	}

	logger.WithFields(logrus.Fields{
		"table":    cfg.Store.TableName,
		"region":   cfg.Store.Region,
		"endpoint": cfg.Store.Endpoint,
		"action":   *action,
	}).Info("Starting table tool")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := dynamodb.NewClient(ctx, cfg.Store)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create DynamoDB client")
	}

	switch *action {
	case "ensure":
		created, err := dynamodb.EnsureTable(ctx, client, cfg.Store.TableName, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to ensure table")
		}
		logger.WithField("created", created).Debug("Ensure finished")
	case "describe":
		status, err := dynamodb.DescribeTable(ctx, client, cfg.Store.TableName)
		if err != nil {
			logger.WithError(err).Fatal("Failed to describe table")
		}
		fmt.Printf("Table Status:\n")
		fmt.Printf("  Name: %s\n", status.Name)
		fmt.Printf("  Status: %s\n", status.Status)
		fmt.Printf("  Items: %d\n", status.ItemCount)
	default:
		logger.WithField("action", *action).Fatal("Unknown action. Use: ensure, describe")
	}

	logger.Info("Table tool completed successfully")
}
