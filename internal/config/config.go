// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aristath/perfstats/internal/utils"
)

// Config holds application configuration
type Config struct {
	DataDir     string // Directory for the price cache database and exports (always absolute)
	TiingoToken string
	LogLevel    string
	Port        int
	DevMode     bool
	OfflineMode bool // Serve prices from the cache only, never call the API

	Analytics AnalyticsConfig
	Scheduler SchedulerConfig
	Export    ExportConfig
}

// AnalyticsConfig holds defaults for report computation
type AnalyticsConfig struct {
	PeriodsPerYear int
	RiskFreeRate   float64 // Per-period rate, same frequency as the returns
	RollingWindow  int
}

// SchedulerConfig holds background job settings
type SchedulerConfig struct {
	Watchlist         []string
	WarmCacheSchedule string // cron spec with seconds field
	LookbackDays      int
	CacheMaxAgeDays   int
}

// ExportConfig holds the optional S3 destination for exported reports
type ExportConfig struct {
	S3Bucket          string
	S3Prefix          string
	S3Region          string
	S3Endpoint        string // For S3-compatible stores (R2, MinIO)
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// S3Enabled reports whether uploads are configured.
func (e ExportConfig) S3Enabled() bool {
	return e.S3Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir, err := filepath.Abs(getEnv("PERFSTATS_DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:     dataDir,
		TiingoToken: getEnv("TIINGO_API_KEY", getEnv("API_KEY", "")),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Port:        getEnvAsInt("PORT", 8080),
		DevMode:     getEnvAsBool("DEV_MODE", false),
		OfflineMode: getEnvAsBool("OFFLINE_MODE", false),
		Analytics: AnalyticsConfig{
			PeriodsPerYear: getEnvAsInt("PERIODS_PER_YEAR", 252),
			RiskFreeRate:   getEnvAsFloat("RISK_FREE_RATE", 0),
			RollingWindow:  getEnvAsInt("ROLLING_WINDOW", 20),
		},
		Scheduler: SchedulerConfig{
			Watchlist:         utils.ParseTickers(getEnv("WATCHLIST", "")),
			WarmCacheSchedule: getEnv("WARM_CACHE_SCHEDULE", "0 30 22 * * MON-FRI"),
			LookbackDays:      getEnvAsInt("LOOKBACK_DAYS", 365),
			CacheMaxAgeDays:   getEnvAsInt("CACHE_MAX_AGE_DAYS", 30),
		},
		Export: ExportConfig{
			S3Bucket:          getEnv("EXPORT_S3_BUCKET", ""),
			S3Prefix:          getEnv("EXPORT_S3_PREFIX", "reports/"),
			S3Region:          getEnv("EXPORT_S3_REGION", "us-east-1"),
			S3Endpoint:        getEnv("EXPORT_S3_ENDPOINT", ""),
			S3AccessKeyID:     getEnv("EXPORT_S3_ACCESS_KEY_ID", ""),
			S3SecretAccessKey: getEnv("EXPORT_S3_SECRET_ACCESS_KEY", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that numeric settings are usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Analytics.PeriodsPerYear <= 0 {
		return fmt.Errorf("PERIODS_PER_YEAR must be positive, got %d", c.Analytics.PeriodsPerYear)
	}
	if c.Analytics.RollingWindow <= 1 {
		return fmt.Errorf("ROLLING_WINDOW must be greater than 1, got %d", c.Analytics.RollingWindow)
	}
	if c.Scheduler.LookbackDays <= 0 {
		return fmt.Errorf("LOOKBACK_DAYS must be positive, got %d", c.Scheduler.LookbackDays)
	}
	if c.Scheduler.CacheMaxAgeDays < 0 {
		return fmt.Errorf("CACHE_MAX_AGE_DAYS cannot be negative, got %d", c.Scheduler.CacheMaxAgeDays)
	}
	// Tiingo token optional: offline mode and cached ranges work without it
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
