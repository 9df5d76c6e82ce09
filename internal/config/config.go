// Package config loads runtime settings from the environment and the
// source list from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

type Config struct {
	// Sources
	SourcesConfigPath string

	// Storage
	DataDir     string
	DatabaseURL string // switches the key-value store to Postgres when set

	// Fetching
	NativeFetch      bool
	FetchTimeout     time.Duration
	SourceDelay      time.Duration
	MaxAge           time.Duration // feed item retention horizon
	CacheMaxAge      time.Duration // snapshot freshness on load
	ImageCacheTTL    time.Duration
	ImageScrapeDelay time.Duration

	// Feed
	AutoRefreshInterval time.Duration
	ClusterThreshold    float64
	ItemsPerPage        int

	// Gemini settings
	GeminiAPIKey      string
	MaxGeminiRequests int // per day, 0 = unlimited

	// App settings
	Debug                bool
	EnableHTTPMonitoring bool
	MonitoringPort       int
}

func Load() (*Config, error) {
	cfg := &Config{
		SourcesConfigPath:    os.Getenv("SOURCES_CONFIG_PATH"),
		DataDir:              getEnvOrDefault("DATA_DIR", filepath.Join(xdg.DataHome, "khobor")),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		NativeFetch:          getEnvBoolOrDefault("NATIVE_FETCH", true),
		FetchTimeout:         getEnvDurationOrDefault("FETCH_TIMEOUT", 8*time.Second),
		SourceDelay:          getEnvDurationOrDefault("SOURCE_DELAY", 800*time.Millisecond),
		MaxAge:               time.Duration(getEnvIntOrDefault("MAX_AGE_DAYS", 3)) * 24 * time.Hour,
		CacheMaxAge:          time.Duration(getEnvIntOrDefault("CACHE_MAX_AGE_HOURS", 24)) * time.Hour,
		ImageCacheTTL:        time.Duration(getEnvIntOrDefault("IMAGE_CACHE_TTL_HOURS", 24)) * time.Hour,
		ImageScrapeDelay:     getEnvDurationOrDefault("IMAGE_SCRAPE_DELAY", 300*time.Millisecond),
		AutoRefreshInterval:  getEnvDurationOrDefault("AUTO_REFRESH_INTERVAL", 2*time.Minute),
		ClusterThreshold:     getEnvFloatOrDefault("CLUSTER_THRESHOLD", 0.25),
		ItemsPerPage:         getEnvIntOrDefault("ITEMS_PER_PAGE", 20),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		MaxGeminiRequests:    getEnvIntOrDefault("MAX_GEMINI_REQUESTS", 3),
		Debug:                os.Getenv("DEBUG") == "true",
		EnableHTTPMonitoring: os.Getenv("ENABLE_HTTP_MONITORING") == "true",
		MonitoringPort:       getEnvIntOrDefault("MONITORING_PORT", 8080),
	}

	return cfg, cfg.Validate()
}

// SnapshotPath is the JSON key-value file used when no database is set.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.DataDir, "khobor.json")
}

// OfflinePath is the SQLite database for saved articles.
func (c *Config) OfflinePath() string {
	return filepath.Join(c.DataDir, "offline.db")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if c.SourceDelay < 0 {
		return fmt.Errorf("SOURCE_DELAY must not be negative")
	}
	if c.MaxAge <= 0 || c.CacheMaxAge <= 0 {
		return fmt.Errorf("MAX_AGE_DAYS and CACHE_MAX_AGE_HOURS must be positive")
	}
	if c.ClusterThreshold <= 0 || c.ClusterThreshold > 1 {
		return fmt.Errorf("CLUSTER_THRESHOLD must be in (0, 1], got %v", c.ClusterThreshold)
	}
	if c.ItemsPerPage <= 0 {
		return fmt.Errorf("ITEMS_PER_PAGE must be positive")
	}
	if c.AutoRefreshInterval < time.Second {
		return fmt.Errorf("AUTO_REFRESH_INTERVAL must be at least 1s")
	}
	if c.MaxGeminiRequests < 0 {
		return fmt.Errorf("MAX_GEMINI_REQUESTS must not be negative")
	}
	if c.MonitoringPort <= 0 || c.MonitoringPort > 65535 {
		return fmt.Errorf("MONITORING_PORT out of range: %d", c.MonitoringPort)
	}
	return nil
}
