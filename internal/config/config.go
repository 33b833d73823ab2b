// Package config loads the pipeline configuration from environment
// variables, with sensible defaults for everything except the portal
// credentials.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the full pipeline configuration.
type Config struct {
	// Portal session
	PortalLoginURL string
	PortalUsername string
	PortalPassword string
	// PortalCredential, when set, skips the portal login entirely and is
	// used as the Cookie header verbatim.
	PortalCredential string

	// Pricing endpoint
	APIBaseURL       string
	FetchTimeout     time.Duration
	FetchMaxAttempts int
	FetchBackoff     time.Duration
	RatePerSecond    float64

	// Inputs
	CategoryCatalogPath string
	SnapshotPath        string
	SnapshotFormat      string // "csv" or "json"
	SnapshotEncoding    string // "utf-8" or "windows-1252"

	// Run store
	RunsDatabasePath string

	// Outputs
	MarginReportPath   string
	IncreaseReportPath string
	FailureLogPath     string

	// Logging
	LogLevel string
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	config := &Config{
		PortalLoginURL:   os.Getenv("PORTAL_LOGIN_URL"),
		PortalUsername:   os.Getenv("PORTAL_USERNAME"),
		PortalPassword:   os.Getenv("PORTAL_PASSWORD"),
		PortalCredential: os.Getenv("PORTAL_CREDENTIAL"),

		APIBaseURL:       os.Getenv("API_BASE_URL"),
		FetchTimeout:     getEnvDuration("FETCH_TIMEOUT", 10*time.Second),
		FetchMaxAttempts: getEnvInt("FETCH_MAX_ATTEMPTS", 1),
		FetchBackoff:     getEnvDuration("FETCH_BACKOFF", 1*time.Second),
		RatePerSecond:    getEnvFloat("FETCH_RATE_PER_SECOND", 2),

		CategoryCatalogPath: getEnv("CATEGORY_CATALOG_PATH", "categories.json"),
		SnapshotPath:        getEnv("SNAPSHOT_PATH", "snapshot.csv"),
		SnapshotFormat:      getEnv("SNAPSHOT_FORMAT", "csv"),
		SnapshotEncoding:    getEnv("SNAPSHOT_ENCODING", "windows-1252"),

		RunsDatabasePath: getEnv("RUNS_DATABASE_PATH", "runs.db"),

		MarginReportPath:   getEnv("MARGIN_REPORT_PATH", "margin-report.xlsx"),
		IncreaseReportPath: getEnv("INCREASE_REPORT_PATH", "price-increase-report.xlsx"),
		FailureLogPath:     getEnv("FAILURE_LOG_PATH", "fetch-failures.json"),

		LogLevel: getEnv("LOG_LEVEL", "INFO"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// getEnv returns the environment value or the default when unset.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
