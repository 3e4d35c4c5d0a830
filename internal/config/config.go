package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the server configuration.
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string
	RedisAddr string
	RedisPass string

	// Requests per minute allowed per client IP.
	RateLimit int
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads configuration from the environment, with an optional .env
// file for local development.
func Load() *Config {
	_ = godotenv.Load()

	rateLimit := 120
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rateLimit = n
		}
	}

	return &Config{
		Port:      envOr("PORT", ":8080"),
		DBPath:    envOr("DB_PATH", "./data/cells.db"),
		JWTSecret: envOr("JWT_SECRET", "your-secret-key-change-in-production"),
		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisPass: os.Getenv("REDIS_PASS"),
		RateLimit: rateLimit,
	}
}
