// Package config manages application configuration
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"

	// Database
	DatabaseURL string

	// Workbook ingestion
	WorkbookDir  string
	DefaultSheet string

	// Overview cache
	CacheTTL time.Duration

	// Feature flags
	EnableIngest bool
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		Port:         getEnv("FUNDSIGHT_PORT", "8080"),
		Environment:  getEnv("FUNDSIGHT_ENV", "development"),
		DatabaseURL:  getEnv("FUNDSIGHT_DATABASE_URL", "fundsight.db"),
		WorkbookDir:  getEnv("FUNDSIGHT_WORKBOOK_DIR", "data"),
		DefaultSheet: getEnv("FUNDSIGHT_DEFAULT_SHEET", "bCAS (Q4 Adj)"),
		CacheTTL:     getDurationEnv("FUNDSIGHT_CACHE_TTL", 10*time.Minute),
		EnableIngest: getBoolEnv("FUNDSIGHT_ENABLE_INGEST", true),
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
