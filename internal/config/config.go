package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store types
const (
	StoreTypeDynamoDB = "dynamodb"
	StoreTypeMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	Store       StoreConfig
	Log         LogConfig
	HTTP        HTTPConfig
}

// StoreConfig holds key-value store configuration
type StoreConfig struct {
	Type      string // "dynamodb" or "memory"
	TableName string
	Region    string
	Endpoint  string // optional, e.g. http://localhost:8000 for DynamoDB Local
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

// HTTPConfig holds response header and local server settings
type HTTPConfig struct {
	AllowOrigin    string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("STORE_TYPE", StoreTypeDynamoDB)
	v.SetDefault("TABLE_NAME", "collections")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CORS_ALLOW_ORIGIN", "*")
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		Store: StoreConfig{
			Type:      strings.ToLower(v.GetString("STORE_TYPE")),
			TableName: v.GetString("TABLE_NAME"),
			Region:    v.GetString("AWS_REGION"),
			Endpoint:  v.GetString("DYNAMODB_ENDPOINT"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		HTTP: HTTPConfig{
			AllowOrigin:    v.GetString("CORS_ALLOW_ORIGIN"),
			RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch c.Store.Type {
	case StoreTypeDynamoDB, StoreTypeMemory:
	default:
		return fmt.Errorf("unsupported store type: %s", c.Store.Type)
	}

	if strings.TrimSpace(c.Store.TableName) == "" {
		return fmt.Errorf("TABLE_NAME is required")
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("unsupported log format: %s", c.Log.Format)
	}

	return nil
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvAsBool gets an environment variable as boolean with a fallback value
func GetEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
