package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	// Zone data for hosts without a system zoneinfo database
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Site being generated
	Site SiteConfig

	// Database configuration
	Database DatabaseConfig

	// Generation run settings
	Build BuildConfig

	// Build-trigger API settings
	Server ServerConfig

	// Hero image backfill settings
	Images ImagesConfig

	// Logging configuration
	Log LogConfig
}

// SiteConfig describes the published site and where its pages are written
type SiteConfig struct {
	BaseURL              string
	Name                 string
	Region               string
	Timezone             string
	OutputDir            string
	BusinessTemplatePath string
	CategoryTemplatePath string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	QueryTimeout time.Duration
}

// BuildConfig holds page generation settings
type BuildConfig struct {
	Concurrency  int
	RelatedLimit int
	PollInterval time.Duration
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// ImagesConfig holds hero image lookup settings
type ImagesConfig struct {
	UnsplashAccessKey string
	UnsplashBaseURL   string
	BackfillDelay     time.Duration
	RequestTimeout    time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables, after merging a .env file if present
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := &Config{
		Site: SiteConfig{
			BaseURL:              strings.TrimRight(getEnv("SITE_URL", "https://sanfernandovalley.xyz"), "/"),
			Name:                 getEnv("SITE_NAME", "San Fernando Valley Directory"),
			Region:               getEnv("SITE_REGION", "San Fernando Valley"),
			Timezone:             getEnv("SITE_TIMEZONE", "America/Los_Angeles"),
			OutputDir:            getEnv("OUTPUT_DIR", "./public"),
			BusinessTemplatePath: getEnv("BUSINESS_TEMPLATE_PATH", ""),
			CategoryTemplatePath: getEnv("CATEGORY_TEMPLATE_PATH", ""),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Name:         getEnv("DB_NAME", "directory"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			QueryTimeout: getDurationEnv("DB_QUERY_TIMEOUT", 15*time.Second),
		},
		Build: BuildConfig{
			Concurrency:  getIntEnv("BUILD_CONCURRENCY", 4),
			RelatedLimit: getIntEnv("RELATED_LIMIT", 5),
			PollInterval: getDurationEnv("BUILD_POLL_INTERVAL", 2*time.Second),
		},
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Images: ImagesConfig{
			UnsplashAccessKey: getEnv("UNSPLASH_ACCESS_KEY", ""),
			UnsplashBaseURL:   getEnv("UNSPLASH_BASE_URL", "https://api.unsplash.com"),
			BackfillDelay:     getDurationEnv("IMAGE_BACKFILL_DELAY", 500*time.Millisecond),
			RequestTimeout:    getDurationEnv("IMAGE_REQUEST_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if getBoolEnv("BUILD_SEQUENTIAL", false) {
		cfg.Build.Concurrency = 1
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("SITE_URL must be an absolute http(s) URL, got %q", c.Site.BaseURL)
	}
	if c.Site.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	if _, err := time.LoadLocation(c.Site.Timezone); err != nil {
		return fmt.Errorf("SITE_TIMEZONE %q: %w", c.Site.Timezone, err)
	}
	if c.Build.Concurrency < 1 {
		return fmt.Errorf("BUILD_CONCURRENCY must be at least 1")
	}
	if c.Build.RelatedLimit < 0 {
		return fmt.Errorf("RELATED_LIMIT must not be negative")
	}
	return nil
}

// Location returns the time zone used to decide which weekday is "today"
func (c *SiteConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
