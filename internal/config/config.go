// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aristath/growthmap/internal/dataset"
)

// DefaultDatasetPath is the dataset read when DATASET_PATH is not set
const DefaultDatasetPath = "data/Top2000CompaniesGlobally.csv"

// Config holds application configuration
type Config struct {
	Dataset            dataset.Options
	PresetsPath        string // optional YAML file; embedded presets when empty
	LogLevel           string
	Port               int
	DevMode            bool
	CacheMaxEntries    int
	HighScoreThreshold float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Dataset: dataset.Options{
			Path:  getEnv("DATASET_PATH", DefaultDatasetPath),
			Sheet: getEnv("DATASET_SHEET", ""),
			Table: getEnv("DATASET_TABLE", "companies"),
			S3: dataset.S3Options{
				Endpoint:        getEnv("S3_ENDPOINT", ""),
				Region:          getEnv("S3_REGION", "auto"),
				AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			},
		},
		PresetsPath:        getEnv("PRESETS_PATH", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Port:               getEnvAsInt("GO_PORT", 8001),
		DevMode:            getEnvAsBool("DEV_MODE", false),
		CacheMaxEntries:    getEnvAsInt("CACHE_MAX_ENTRIES", 256),
		HighScoreThreshold: getEnvAsFloat("HIGH_SCORE_THRESHOLD", 20),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Dataset.Path == "" {
		return fmt.Errorf("DATASET_PATH must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.CacheMaxEntries <= 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be positive, got %d", c.CacheMaxEntries)
	}
	// S3 static credentials come in pairs
	if (c.Dataset.S3.AccessKeyID == "") != (c.Dataset.S3.SecretAccessKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
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
