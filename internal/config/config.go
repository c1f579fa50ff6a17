// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port          int
	DevMode       bool
	LogLevel      string
	DataDir       string
	DatabasePath  string
	CacheDBPath   string
	SimWorkers    int // 0 = GOMAXPROCS
	MaxPaths      int // upper bound accepted from API callers
	MaxHorizon    int // upper bound in trading days
	RetentionDays int // stored simulation runs older than this are pruned
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "./data")

	cfg := &Config{
		Port:          getEnvAsInt("PORT", 8090),
		DevMode:       getEnvAsBool("DEV_MODE", false),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DataDir:       dataDir,
		DatabasePath:  getEnv("DATABASE_PATH", dataDir+"/foresight.db"),
		CacheDBPath:   getEnv("CACHE_DB_PATH", dataDir+"/cache.db"),
		SimWorkers:    getEnvAsInt("SIM_WORKERS", 0),
		MaxPaths:      getEnvAsInt("SIM_MAX_PATHS", 100000),
		MaxHorizon:    getEnvAsInt("SIM_MAX_HORIZON_DAYS", 2520),
		RetentionDays: getEnvAsInt("RESULT_RETENTION_DAYS", 30),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.CacheDBPath == "" {
		return fmt.Errorf("CACHE_DB_PATH is required")
	}
	if c.MaxPaths <= 0 {
		return fmt.Errorf("SIM_MAX_PATHS must be positive")
	}
	if c.MaxHorizon <= 0 {
		return fmt.Errorf("SIM_MAX_HORIZON_DAYS must be positive")
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
