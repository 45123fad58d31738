package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// AppConfig is the process-level configuration read from the environment.
type AppConfig struct {
	OpenRouter OpenRouterConfig
	Server     ServerConfig
	SessionDir string
}

// OpenRouterConfig configures the completion service client.
type OpenRouterConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

// LoadAppConfig reads environment variables with defaults.
func LoadAppConfig() *AppConfig {
	return &AppConfig{
		OpenRouter: OpenRouterConfig{
			APIKey:  getEnv("OPENROUTER_API_KEY", ""),
			BaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			Timeout: getEnvAsDuration("OPENROUTER_TIMEOUT", 90*time.Second),
		},
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		SessionDir: getEnv("SESSION_DIR", "sessions"),
	}
}

// Validate checks the fields that have no usable default.
func (c *AppConfig) Validate() error {
	if c.OpenRouter.APIKey == "" {
		return fmt.Errorf("OPENROUTER_API_KEY is required")
	}
	if c.OpenRouter.Timeout <= 0 {
		return fmt.Errorf("OPENROUTER_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
