// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// TaxRatePercent is the tax applied on top of discounted subtotals.
	// Defaults to 18 (GST). Set TAX_RATE_PERCENT to override.
	TaxRatePercent float64

	// Currency is the ISO code sent to the payment gateway. Defaults to "INR".
	Currency string

	// PaymentTimeout bounds each blocking gateway charge call.
	// Defaults to 5s. Set PAYMENT_TIMEOUT to a Go duration to override.
	PaymentTimeout time.Duration

	// CatalogCacheTTL is how long the hotel catalog listing is served from
	// cache. Defaults to 5m. Set CATALOG_CACHE_TTL to override.
	CatalogCacheTTL time.Duration
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is loaded first when present, as a
// development convenience; real environment variables win over .env entries.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		Currency:    getEnv("CURRENCY", "INR"),
	}

	var err error
	if cfg.TaxRatePercent, err = strconv.ParseFloat(getEnv("TAX_RATE_PERCENT", "18"), 64); err != nil {
		return Config{}, fmt.Errorf("TAX_RATE_PERCENT is not a number: %w", err)
	}
	if cfg.PaymentTimeout, err = time.ParseDuration(getEnv("PAYMENT_TIMEOUT", "5s")); err != nil {
		return Config{}, fmt.Errorf("PAYMENT_TIMEOUT is not a duration: %w", err)
	}
	if cfg.CatalogCacheTTL, err = time.ParseDuration(getEnv("CATALOG_CACHE_TTL", "5m")); err != nil {
		return Config{}, fmt.Errorf("CATALOG_CACHE_TTL is not a duration: %w", err)
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
