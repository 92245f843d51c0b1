package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Host               string
	Port               string
	LogLevel           zerolog.Level
	CORSAllowedOrigins []string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
	SeedSampleData     bool
	StoreBackend       string
	TrustProxyHeaders  bool
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	appEnv := getEnv("APP_ENV", getEnv("NODE_ENV", EnvDevelopment))

	defaultLevel := "info"
	if appEnv == EnvDevelopment {
		defaultLevel = "debug"
	}
	level, err := zerolog.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", defaultLevel)))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	seed, err := getEnvBool("SEED_SAMPLE_DATA", true)
	if err != nil {
		return nil, err
	}

	trustProxy, err := getEnvBool("TRUST_PROXY_HEADERS", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppEnv:             appEnv,
		Host:               getEnv("HOST", "0.0.0.0"),
		Port:               getEnv("PORT", "3001"),
		LogLevel:           level,
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 0),
		SeedSampleData:     seed,
		StoreBackend:       strings.ToLower(getEnv("STORE_BACKEND", "memory")),
		TrustProxyHeaders:  trustProxy,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that flags may have overridden after LoadConfig.
func (c *Config) Validate() error {
	if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("PORT must be a valid TCP port, got %q", c.Port)
	}
	switch c.StoreBackend {
	case "memory", "badger":
	default:
		return fmt.Errorf("STORE_BACKEND must be memory or badger, got %q", c.StoreBackend)
	}
	if c.RateLimitPerMin < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	return nil
}

// IsProduction reports whether error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
