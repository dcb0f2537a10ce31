// Package config loads service configuration from the environment, with a
// .env file honored when present.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimitMax    int
	RateLimitWindow time.Duration

	AdminEmail    string
	AdminPassword string

	CORSOrigin string
	LogLevel   string
	AppEnv     string
}

func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		Port:            getEnv("PORT", "4000"),
		DatabaseURL:     getEnv("DATABASE_URL", "postgres://localhost:5432/snaplink?sslmode=disable"),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 200),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		AdminEmail:      getEnv("SEED_ADMIN_EMAIL", ""),
		AdminPassword:   getEnv("SEED_ADMIN_PASSWORD", ""),
		CORSOrigin:      getEnv("CORS_ALLOWED_ORIGIN", "*"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AppEnv:          getEnv("APP_ENV", "development"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
