package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	FunctionName string
	Region       string
	Stage        string
}

// Global serverless configuration
var (
	serverlessConfig *ServerlessConfig
	serverlessOnce   sync.Once
)

// GetServerlessConfig returns the serverless configuration
func GetServerlessConfig() *ServerlessConfig {
	serverlessOnce.Do(func() {
		serverlessConfig = loadServerlessConfig()
	})
	return serverlessConfig
}

func loadServerlessConfig() *ServerlessConfig {
	return &ServerlessConfig{
		IsLambda:     isRunningInLambda(),
		FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
		Region:       os.Getenv("AWS_REGION"),
		Stage:        GetEnv("STAGE", "dev"),
	}
}

// Fields describes the runtime for log lines
func (s *ServerlessConfig) Fields() logrus.Fields {
	return logrus.Fields{
		"function_name": s.FunctionName,
		"aws_region":    s.Region,
		"stage":         s.Stage,
	}
}

// isRunningInLambda detects if the application is running in AWS Lambda
func isRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// IsServerlessMode returns true if running in serverless mode
func IsServerlessMode() bool {
	return GetServerlessConfig().IsLambda
}

// GetDeploymentMode returns the current deployment mode
func GetDeploymentMode() string {
	if IsServerlessMode() {
		return "serverless"
	}
	return "server"
}

// AdaptConfigForServerless modifies configuration for serverless deployment.
// Logs are forced to JSON and the in-memory store is rejected.
func AdaptConfigForServerless(config *Config, serverless bool) (*Config, error) {
	if !serverless {
		return config, nil
	}

	if config.Store.Type == StoreTypeMemory {
		return nil, fmt.Errorf("store type %q is not available in serverless mode", StoreTypeMemory)
	}

	config.Log.Format = "json"
	// The local endpoint override only makes sense off-Lambda
	config.Store.Endpoint = ""

	return config, nil
}

// GetOptimizedConfig returns configuration optimized for the current deployment mode
func GetOptimizedConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	return AdaptConfigForServerless(config, IsServerlessMode())
}
