package app

import (
	"os"
	"strconv"
	"time"

	"github.com/bullionboard/bullionboard/internal/auth/service"
	"github.com/bullionboard/bullionboard/pkg/jwtx"
)

type Config struct {
	TokenSecret string // Required: HMAC secret for bearer tokens; startup fails without it
	Issuer      string // Optional: issuer claim for bearer tokens (default: bullionboard)

	BearerTTL         time.Duration // Optional: bearer token lifetime (default: 7 days)
	SessionTTL        time.Duration // Optional: session lifetime (default: 7 days)
	HashCost          int           // Optional: bcrypt cost factor (default: 12)
	DatabaseFile      string        // Optional: path to SQLite database file (default: ./bullionboard.db)
	Env               string        // Environment (dev, staging, prod) (default: dev)
	LogLevel          string        // Log level (debug, info, warn, error) (default: info)
	LogFormat         string        // Log format (json, text) (default: json)
	Port              int           // HTTP server port (default: 8080)
	ShutdownGrace     time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingEvery time.Duration // Housekeeping interval (default: 1h)
	ActivityRetention time.Duration // Audit log retention window (default: 90 days)
}

func LoadConfig() Config {
	return Config{
		TokenSecret:       os.Getenv("TOKEN_SECRET"),
		Issuer:            getEnvOrDefault("TOKEN_ISSUER", "bullionboard"),
		BearerTTL:         getEnvDurationOrDefault("BEARER_TTL", jwtx.DefaultBearerTTL),
		SessionTTL:        getEnvDurationOrDefault("SESSION_TTL", service.DefaultSessionTTL),
		HashCost:          getEnvIntOrDefault("HASH_COST", 12),
		DatabaseFile:      getEnvOrDefault("DATABASE_FILE", "bullionboard.db"),
		Env:               getEnvOrDefault("ENV", "dev"),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         getEnvOrDefault("LOG_FORMAT", "json"),
		Port:              getEnvIntOrDefault("PORT", 8080),
		ShutdownGrace:     getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingEvery: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		ActivityRetention: getEnvDurationOrDefault("ACTIVITY_RETENTION", 90*24*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
