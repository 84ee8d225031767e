// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port int    // HTTP port to listen on
	Env  string // development, staging, production

	// Database
	DatabasePath string // Path to SQLite file holding generated calendars

	// Authentication
	APIKey string // API key for the cache admin endpoints

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text

	// Calendar generation
	DefaultCalendar string // calendar used when none is requested
	CatalogPath     string // optional YAML martyrology catalog; bundled sample when empty
	Locale          string // default dictionary for display names

	// Global generation options
	AscensionOnSunday     bool
	EpiphanyOnSunday      bool
	CorpusChristiOnSunday bool
	Scope                 string // gregorian, liturgical
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Load reads configuration from environment variables.
// In development, it first loads from .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []error

	// Server settings
	cfg.Port = getEnvInt("PORT", 8080)
	cfg.Env = getEnv("ENV", EnvDevelopment)

	// Database
	cfg.DatabasePath = getEnv("DATABASE_PATH", "./data/calendar.db")

	// Authentication
	cfg.APIKey = getEnv("API_KEY", "")

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	// Calendar generation
	cfg.DefaultCalendar = getEnv("DEFAULT_CALENDAR", "general_roman")
	cfg.CatalogPath = getEnv("CATALOG_PATH", "")
	cfg.Locale = getEnv("LOCALE", "en")
	cfg.Scope = getEnv("SCOPE", string(calendar.ScopeGregorian))

	cfg.AscensionOnSunday, errs = getEnvBool("ASCENSION_ON_SUNDAY", false, errs)
	cfg.EpiphanyOnSunday, errs = getEnvBool("EPIPHANY_ON_SUNDAY", false, errs)
	cfg.CorpusChristiOnSunday, errs = getEnvBool("CORPUS_CHRISTI_ON_SUNDAY", false, errs)

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	// Validate port range
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	// Validate environment
	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// Valid
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	if c.DatabasePath == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required"))
	}

	// The cache admin endpoints are only open without a key in development
	if c.Env == EnvProduction && c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required in production"))
	}

	// Validate log level
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	// Validate log format
	switch c.LogFormat {
	case "json", "text":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if c.DefaultCalendar == "" {
		errs = append(errs, errors.New("DEFAULT_CALENDAR is required"))
	}
	if c.Locale == "" {
		errs = append(errs, errors.New("LOCALE is required"))
	}
	if !calendar.Scope(c.Scope).IsValid() {
		errs = append(errs, fmt.Errorf("SCOPE must be one of: gregorian, liturgical; got %q", c.Scope))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Calendar returns the global generation options.
func (c *Config) Calendar() calendar.Config {
	return calendar.Config{
		AscensionOnSunday:     c.AscensionOnSunday,
		EpiphanyOnSunday:      c.EpiphanyOnSunday,
		CorpusChristiOnSunday: c.CorpusChristiOnSunday,
		Scope:                 calendar.Scope(c.Scope),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool reads an environment variable as a boolean. A value that is set
// but does not parse is reported rather than silently defaulted, since it
// changes the dates of movable solemnities.
func getEnvBool(key string, defaultValue bool, errs []error) (bool, []error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, errs
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, append(errs, fmt.Errorf("%s must be a boolean, got %q", key, value))
	}
	return b, errs
}
