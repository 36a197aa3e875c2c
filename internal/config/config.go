// Package config loads server configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// DBPath is the SQLite database file path.
	DBPath string

	// JWTSecret signs session tokens. Required outside local development.
	JWTSecret string

	// TokenTTL is how long session tokens stay valid.
	TokenTTL time.Duration

	// LogLevel is debug, info, warn or error.
	LogLevel string

	// CORSOrigin is the allowed browser origin ("*" by default).
	CORSOrigin string

	// SyncHooks runs deferred lifecycle hooks inline instead of after
	// commit. Test fixtures enable this for determinism.
	SyncHooks bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present.
func Load() (*Config, error) {
	// Missing .env is fine; env vars win either way.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:       getEnv("ADDR", ":8080"),
		DBPath:     getEnv("DB_PATH", "./data/listly.db"),
		JWTSecret:  getEnv("JWT_SECRET", ""),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),
		SyncHooks:  getEnv("HOOKS_SYNC", "") == "1",
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = ttl

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
