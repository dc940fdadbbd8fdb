// Package config loads the service configuration once at startup. Everything
// downstream receives an explicit Config; no core logic reads the process
// environment itself.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// DBPath is the SQLite database file path.
	DBPath string

	// OpenRouterAPIKey is the bearer credential for the extraction oracle.
	OpenRouterAPIKey string

	// OpenRouterBaseURL overrides the oracle endpoint (empty = default).
	OpenRouterBaseURL string

	// OpenRouterModel overrides the extraction model (empty = default).
	OpenRouterModel string

	// JWTSecret signs session tokens.
	JWTSecret string

	// TokenDuration is how long session tokens remain valid.
	TokenDuration time.Duration
}

// Load reads configuration from a .env file (if present) and the
// environment. OPENROUTER_API_KEY and JWT_SECRET are required.
func Load() (*Config, error) {
	// Missing .env is fine; env vars may be set directly.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:              ":" + getEnv("PORT", "8080"),
		DBPath:            getEnv("DB_PATH", "./data/scenarios.db"),
		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterBaseURL: os.Getenv("OPENROUTER_BASE_URL"),
		OpenRouterModel:   os.Getenv("OPENROUTER_MODEL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		TokenDuration:     7 * 24 * time.Hour,
	}

	if cfg.OpenRouterAPIKey == "" {
		return nil, errors.New("OPENROUTER_API_KEY is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
