// internal/config/config.go
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds the runtime settings of the shelfkeeper binaries.
type Config struct {
	Port         string
	ServiceName  string
	LogLevel     slog.Level
	LogFormat    string
	OTLPEndpoint string

	// RateLimitRPS of zero disables request rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		ServiceName:  getEnv("SERVICE_NAME", "shelfkeeper"),
		LogFormat:    strings.ToLower(getEnv("LOG_FORMAT", "text")),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("invalid LOG_FORMAT %q: want text or json", cfg.LogFormat)
	}

	var err error
	cfg.RateLimitRPS, err = strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "50"), 64)
	if err != nil || cfg.RateLimitRPS < 0 {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_RPS: %q", os.Getenv("RATE_LIMIT_RPS"))
	}
	cfg.RateLimitBurst, err = strconv.Atoi(getEnv("RATE_LIMIT_BURST", "100"))
	if err != nil || cfg.RateLimitBurst < 1 {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_BURST: %q", os.Getenv("RATE_LIMIT_BURST"))
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
