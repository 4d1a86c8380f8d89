// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir string // Base directory for all databases (always absolute)

	// External portfolio sources (the collection API)
	SourceURL      string        // Endpoint serving the full portfolio payload
	FraudSourceURL string        // Endpoint serving the fraud-screened payload
	FetchTimeout   time.Duration // Hard bound on a single upstream fetch

	// Fallback dataset parameters
	MockRecordCount int   // Synthetic records generated when the source is down
	MockSeed        int64 // Seed for the deterministic generator

	// Background sync
	SyncSchedule string // cron spec, e.g. "@every 15m"; empty disables the job

	LogLevel string
	Port     int
	DevMode  bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("DASHBOARD_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:         absDataDir,
		SourceURL:       getEnv("EXTERNAL_API_URL", ""),
		FraudSourceURL:  getEnv("EXTERNAL_API_URL_WITHOUT_FRAUD", ""),
		FetchTimeout:    time.Duration(getEnvAsInt("FETCH_TIMEOUT_SECONDS", 30)) * time.Second,
		MockRecordCount: getEnvAsInt("MOCK_RECORD_COUNT", 50),
		MockSeed:        int64(getEnvAsInt("MOCK_SEED", 42)),
		SyncSchedule:    getEnv("SYNC_SCHEDULE", "@every 15m"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Port:            getEnvAsInt("PORT", 8001),
		DevMode:         getEnvAsBool("DEV_MODE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	// The source URLs are optional: without one the corresponding sync runs
	// in fallback mode and the dashboard serves deterministic demo data.
	if c.SourceURL != "" {
		if _, err := url.ParseRequestURI(c.SourceURL); err != nil {
			return fmt.Errorf("invalid EXTERNAL_API_URL %q: %w", c.SourceURL, err)
		}
	}

	if c.FraudSourceURL != "" {
		if _, err := url.ParseRequestURI(c.FraudSourceURL); err != nil {
			return fmt.Errorf("invalid EXTERNAL_API_URL_WITHOUT_FRAUD %q: %w", c.FraudSourceURL, err)
		}
	}

	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS must be positive")
	}

	if c.MockRecordCount <= 0 {
		return fmt.Errorf("MOCK_RECORD_COUNT must be positive")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
