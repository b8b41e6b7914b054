package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	CORSAllowedOrigins []string

	// DefaultCurrency is the document currency used when a client does not
	// specify one.
	DefaultCurrency string
	// SSTRateBps is the flat sales and service tax rate in basis points.
	SSTRateBps int

	// RateProviderURL and RateProviderAPIKey configure the external currency
	// rate feed. An empty URL disables refreshing; stored rates keep serving.
	RateProviderURL     string
	RateProviderAPIKey  string
	RateRefreshInterval time.Duration

	ReferenceCacheTTL time.Duration
	IdempotencyTTL    time.Duration

	RateLimitPerMinute int
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:              valueOrDefault(k.String("APP_ENV"), "development"),
		Port:                valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:         k.String("DATABASE_URL"),
		RedisURL:            k.String("REDIS_URL"),
		CORSAllowedOrigins:  splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		DefaultCurrency:     valueOrDefault(k.String("DEFAULT_CURRENCY"), "MYR"),
		SSTRateBps:          parseInt(k.String("SST_RATE_BPS"), 800),
		RateProviderURL:     strings.TrimSpace(k.String("RATE_PROVIDER_URL")),
		RateProviderAPIKey:  k.String("RATE_PROVIDER_API_KEY"),
		RateRefreshInterval: parseDuration(k.String("RATE_REFRESH_INTERVAL"), "6h"),
		ReferenceCacheTTL:   parseDuration(k.String("REFERENCE_CACHE_TTL"), "5m"),
		IdempotencyTTL:      parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),
		RateLimitPerMinute:  parseInt(k.String("RATE_LIMIT_PER_MINUTE"), 120),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.SSTRateBps < 0 {
		return nil, errors.New("SST_RATE_BPS must not be negative")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	base := strings.TrimSpace(value)
	if base == "" {
		return fallback
	}
	n, err := strconv.Atoi(base)
	if err != nil {
		return fallback
	}
	return n
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
