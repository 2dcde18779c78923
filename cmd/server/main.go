package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"collections-api/internal/config"
	"collections-api/internal/middleware"
	"collections-api/pkg/lambda"
	"collections-api/pkg/server"
)

const collectionsRouteKey = "ANY /collections"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependencies
	container, err := server.NewContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Close()

	logger := container.Logger

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: newRouter(container),
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	logger.WithFields(logrus.Fields{
		"port":  cfg.Port,
		"table": cfg.Store.TableName,
	}).Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

// newRouter builds the gin engine serving the collection API
func newRouter(container *server.Container) *gin.Engine {
	cfg := container.Config
	logger := container.Logger

	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(logger))
	router.Use(middleware.RateLimiter(logger, cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
			"store":     cfg.Store.Type,
		})
	})

	router.Any("/collections", collectionsHandler(container, logger))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}

// collectionsHandler replays each HTTP request through the Lambda handler
func collectionsHandler(container *server.Container, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := lambda.FromHTTPRequest(c.Request, collectionsRouteKey, c.GetString(middleware.RequestIDKey))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, middleware.ErrorResponse{
				Error:   "Invalid request",
				Message: err.Error(),
			})
			return
		}

		resp, err := container.CollectionHandler.Handle(c.Request.Context(), event)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, middleware.ErrorResponse{
				Error:   "Internal server error",
				Message: err.Error(),
			})
			return
		}

		if err := lambda.WriteResponse(c.Writer, resp); err != nil {
			logger.WithError(err).Warn("Failed to write response")
		}
	}
}
