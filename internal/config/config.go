package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverSupabase = "supabase"
	DriverSQLite   = "sqlite"
	DriverFile     = "file"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// Content store
	StoreDriver     string        `json:"store_driver"`
	SupabaseURL     string        `json:"supabase_url"`
	SupabaseAnonKey string        `json:"-"`
	SQLitePath      string        `json:"sqlite_path"`
	DataPath        string        `json:"data_path"`
	RequestTimeout  time.Duration `json:"request_timeout"`

	// Listing
	PageSize       int           `json:"page_size"`
	RelatedLimit   int           `json:"related_limit"`
	MaxPageSize    int           `json:"max_page_size"`
	Timezone       string        `json:"timezone"`
	FeedSessionTTL time.Duration `json:"feed_session_ttl"`

	// Redis configuration
	RedisURL       string        `json:"redis_url"`
	RedisPrefix    string        `json:"redis_prefix"`
	SubmitGuardTTL time.Duration `json:"submit_guard_ttl"`

	// CloudFlare R2 Configuration
	R2Endpoint   string        `json:"r2_endpoint"`
	R2AccessKey  string        `json:"-"`
	R2SecretKey  string        `json:"-"`
	R2Bucket     string        `json:"r2_bucket"`
	R2AccountID  string        `json:"r2_account_id"`
	R2PresignTTL time.Duration `json:"r2_presign_ttl"`

	// Logging
	LogLevel  string `json:"log_level"`
	LogFile   string `json:"log_file"`
	LogPretty bool   `json:"log_pretty"`
}

// Load loads configuration from environment variables and validates it
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// FromEnv reads the environment without validating.
func FromEnv() *Config {
	env := getEnv("APP_ENV", "development")
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", DriverSupabase)),
		SupabaseURL:     getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey: getEnv("SUPABASE_ANON_KEY", ""),
		SQLitePath:      getEnv("SQLITE_PATH", DefaultSQLitePath()),
		DataPath:        getEnv("DATA_PATH", "./data"),
		RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),

		PageSize:       getEnvAsInt("PAGE_SIZE", 20),
		RelatedLimit:   getEnvAsInt("RELATED_LIMIT", 5),
		MaxPageSize:    getEnvAsInt("MAX_PAGE_SIZE", 100),
		Timezone:       getEnv("TIMEZONE", "UTC"),
		FeedSessionTTL: getEnvAsDuration("FEED_SESSION_TTL", 30*time.Minute),

		RedisURL:       getEnv("REDIS_URL", ""),
		RedisPrefix:    getEnv("REDIS_PREFIX", "breakdown:"),
		SubmitGuardTTL: getEnvAsDuration("SUBMIT_GUARD_TTL", 5*time.Second),

		R2Endpoint:   getEnv("R2_ENDPOINT", ""),
		R2AccessKey:  getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey:  getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:     getEnv("R2_BUCKET", ""),
		R2AccountID:  getEnv("CLOUDFLARE_ACCOUNT_ID", ""),
		R2PresignTTL: getEnvAsDuration("R2_PRESIGN_TTL", time.Hour),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFile:   getEnv("LOG_FILE", ""),
		LogPretty: getEnvAsBool("LOG_PRETTY", env == "development"),
	}
}

// DefaultSQLitePath is the database location under the user's data dir.
func DefaultSQLitePath() string {
	return filepath.Join(xdg.DataHome, "breakdown", "breakdown.db")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case DriverSupabase:
		if c.SupabaseURL == "" {
			errs = append(errs, errors.New("SUPABASE_URL is required for the supabase driver"))
		}
		if c.SupabaseAnonKey == "" {
			errs = append(errs, errors.New("SUPABASE_ANON_KEY is required for the supabase driver"))
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH must not be empty"))
		}
	case DriverFile:
		if c.DataPath == "" {
			errs = append(errs, errors.New("DATA_PATH must not be empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize))
	}
	if c.RelatedLimit <= 0 {
		errs = append(errs, fmt.Errorf("RELATED_LIMIT must be positive, got %d", c.RelatedLimit))
	}
	if c.MaxPageSize <= 0 {
		errs = append(errs, fmt.Errorf("MAX_PAGE_SIZE must be positive, got %d", c.MaxPageSize))
	} else if c.PageSize > c.MaxPageSize {
		errs = append(errs, fmt.Errorf("PAGE_SIZE %d exceeds MAX_PAGE_SIZE %d", c.PageSize, c.MaxPageSize))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("unknown TIMEZONE %q", c.Timezone))
	}

	return errors.Join(errs...)
}

// Location is the zone used for date labels and month grouping.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %t", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
