package main

import (
	"context"

	awslambda "github.com/aws/aws-lambda-go/lambda"

	"collections-api/internal/config"
	"collections-api/pkg/server"
)

var container *server.Container

func init() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	container, err = server.NewContainer(context.Background(), cfg)
	if err != nil {
		panic("Failed to initialize container: " + err.Error())
	}
}

func main() {
	awslambda.Start(container.CollectionHandler.Handle)
}
