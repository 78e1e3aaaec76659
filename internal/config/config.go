// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	Env      string // "development", "staging", "production"
	LogLevel string

	// Database
	DatabaseURL string // PostgreSQL connection string (optional, uses in-memory if not set)

	// Payments
	Currency        string // ISO currency code for checkout charges
	StripeSecretKey string // Required outside development

	// Loyalty
	DefaultCapPercent int64 // Max share of a bill payable with points

	// Security
	AdminSecret  string // Admin API secret
	RateLimitRPM int

	// Observability
	OTLPEndpoint string // OTLP gRPC endpoint (optional, traces disabled if not set)
}

const (
	DefaultPort       = "8080"
	DefaultEnv        = "development"
	DefaultLogLevel   = "info"
	DefaultCurrency   = "cad"
	DefaultCapPercent = 20
	DefaultRateLimit  = 120
)

// Load reads configuration from environment variables
// It loads .env file if present (for local development)
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", DefaultPort),
		Env:               getEnv("ENV", DefaultEnv),
		LogLevel:          getEnv("LOG_LEVEL", DefaultLogLevel),
		DatabaseURL:       os.Getenv("DATABASE_URL"), // Optional, uses in-memory if not set
		Currency:          getEnv("CURRENCY", DefaultCurrency),
		StripeSecretKey:   os.Getenv("STRIPE_SECRET_KEY"),
		DefaultCapPercent: getEnvInt64("REDEMPTION_CAP_PERCENT", DefaultCapPercent),
		AdminSecret:       os.Getenv("ADMIN_SECRET"),
		RateLimitRPM:      int(getEnvInt64("RATE_LIMIT_RPM", int64(DefaultRateLimit))),
		OTLPEndpoint:      os.Getenv("OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if len(c.Currency) != 3 {
		return fmt.Errorf("CURRENCY must be a 3-letter ISO code")
	}

	if c.DefaultCapPercent <= 0 || c.DefaultCapPercent > 100 {
		return fmt.Errorf("REDEMPTION_CAP_PERCENT must be between 1 and 100")
	}

	// Stripe is mocked in development; everywhere else a real key is required.
	if !c.IsDevelopment() && c.StripeSecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required outside development")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}
