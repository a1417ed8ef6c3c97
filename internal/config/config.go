package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	CORS     CORSConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// ClientConfig configures the operator CLI and its keep-warm poller.
type ClientConfig struct {
	APIBaseURL      string
	SearchDebounce  time.Duration
	HealthInterval  time.Duration
	BulkConcurrency int
	RequestTimeout  time.Duration
	LogLevel        string
}

var defaultCORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// loadDotEnv loads .env when present; a missing file is not an error.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}
}

func Load() (*Config, error) {
	loadDotEnv()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hrms_lite"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8000"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.CORS = CORSConfig{AllowedOrigins: getEnvSlice("CORS_ORIGINS")}
	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = defaultCORSOrigins
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.App.Port <= 0 {
		return fmt.Errorf("APP_PORT must be positive")
	}
	if _, err := ParseLogLevel(c.App.LogLevel); err != nil {
		return err
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func LoadClient() (*ClientConfig, error) {
	loadDotEnv()

	var err error
	config := &ClientConfig{
		APIBaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000"), "/"),
		LogLevel:   getEnv("LOG_LEVEL", "warn"),
	}

	if config.SearchDebounce, err = getEnvDuration("SEARCH_DEBOUNCE", 300*time.Millisecond); err != nil {
		return nil, err
	}
	if config.HealthInterval, err = getEnvDuration("HEALTH_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if config.RequestTimeout, err = getEnvDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if config.BulkConcurrency, err = strconv.Atoi(getEnv("BULK_CONCURRENCY", "4")); err != nil {
		return nil, fmt.Errorf("invalid BULK_CONCURRENCY: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func (c *ClientConfig) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.SearchDebounce <= 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE must be positive")
	}
	if c.HealthInterval <= 0 {
		return fmt.Errorf("HEALTH_INTERVAL must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.BulkConcurrency <= 0 {
		return fmt.Errorf("BULK_CONCURRENCY must be positive")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps LOG_LEVEL names to slog levels.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", level)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
