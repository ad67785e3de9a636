package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// API contains HTTP server configuration
	API APIConfig
	// Upstream contains the currency-rate service endpoints
	Upstream UpstreamConfig
	// Catalog contains currency list refresh settings
	Catalog CatalogConfig
	// Session contains flash-message session settings
	Session SessionConfig
	// Auth contains operator token settings
	Auth AuthConfig
	// Logging contains logger settings
	Logging LoggingConfig

	// Rate Limiting Configuration
	RateLimit struct {
		Requests int `envconfig:"RATE_LIMIT_REQUESTS" default:"1000"` // Number of requests allowed per window
		Window   int `envconfig:"RATE_LIMIT_WINDOW" default:"60"`     // Time window in seconds
		Burst    int `envconfig:"RATE_LIMIT_BURST" default:"50"`      // Maximum burst size
	}
}

// APIConfig contains API server settings
type APIConfig struct {
	// Port is the server port to listen on
	Port string
	// Mode is the gin mode (debug, release, test)
	Mode string
}

// UpstreamConfig points at the exchange-rate service
type UpstreamConfig struct {
	// CurrencyListURL returns a JSON array of currency records
	CurrencyListURL string
	// RateURL returns the latest ruble rate for ?currency=<name>
	RateURL string
	// Timeout bounds every outbound call
	Timeout time.Duration
}

// CatalogConfig contains currency list refresh settings
type CatalogConfig struct {
	// RefreshSchedule in 5-field cron format
	RefreshSchedule string
}

// SessionConfig contains cookie session settings
type SessionConfig struct {
	Name   string
	Secret string
}

// AuthConfig contains operator token settings
type AuthConfig struct {
	// TokenSecret signs operator tokens
	TokenSecret string
	// TokenTTL is how long an issued token stays valid
	TokenTTL time.Duration
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json" or "text"
}

// LoadFromEnv retrieves configuration from environment variables
func (c *Config) LoadFromEnv() error {
	c.API = APIConfig{
		Port: getEnvOrDefault("API_PORT", "8080"),
		Mode: getEnvOrDefault("GIN_MODE", "debug"),
	}
	c.Upstream = UpstreamConfig{
		CurrencyListURL: getEnvOrDefault("CURRENCY_LIST_URL", "http://127.0.0.1:8080/currency/all"),
		RateURL:         getEnvOrDefault("RATE_URL", "http://127.0.0.1:8080/currency/latest"),
		Timeout:         getEnvAsDuration("UPSTREAM_TIMEOUT", 5*time.Second),
	}
	c.Catalog = CatalogConfig{
		RefreshSchedule: getEnvOrDefault("CATALOG_REFRESH_SCHEDULE", "0 * * * *"),
	}
	c.Session = SessionConfig{
		Name:   getEnvOrDefault("SESSION_NAME", "rubconv"),
		Secret: os.Getenv("SESSION_SECRET"),
	}
	c.Auth = AuthConfig{
		TokenSecret: getEnvOrDefault("OPERATOR_TOKEN_SECRET", c.Session.Secret),
		TokenTTL:    getEnvAsDuration("OPERATOR_TOKEN_TTL", time.Hour),
	}
	c.Logging = LoggingConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "json"),
	}

	// Load rate limit configuration
	c.RateLimit.Requests = getEnvAsInt("RATE_LIMIT_REQUESTS", 1000)
	c.RateLimit.Window = getEnvAsInt("RATE_LIMIT_WINDOW", 60)
	c.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 50)

	return c.Validate()
}

// Validate checks required fields and value ranges
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if err := validateEndpoint("CURRENCY_LIST_URL", c.Upstream.CurrencyListURL); err != nil {
		return err
	}
	if err := validateEndpoint("RATE_URL", c.Upstream.RateURL); err != nil {
		return err
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", c.Upstream.Timeout)
	}
	return nil
}

func validateEndpoint(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", key, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, raw)
	}
	return nil
}

// getEnvAsInt retrieves an environment variable and converts it to an integer
func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvAsDuration retrieves an environment variable and parses it as a duration
func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
