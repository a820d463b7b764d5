// Package config reads service configuration from environment variables,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting the service needs.
type Config struct {
	HTTPHost string
	HTTPPort int

	DB struct {
		Host        string
		Port        string
		User        string
		Password    string
		Name        string
		SSLMode     string
		AutoMigrate bool
	}

	JWTSecret string
	TokenTTL  time.Duration
}

// Load builds a Config from the environment. If envFile is non-empty it is
// loaded first; variables already present in the environment win.
//
// JWT_SECRET has no default on purpose: a baked-in fallback secret would make
// every deployment forge-able.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}

	var cfg Config
	cfg.HTTPHost = getEnv("HTTP_HOST", "0.0.0.0")
	cfg.HTTPPort = getEnvInt("HTTP_PORT", 8080)

	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.Name = getEnv("DB_NAME", "tuitionbook")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.DB.AutoMigrate = getEnvBool("DB_AUTOMIGRATE", true)

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET must be set")
	}

	ttl := getEnv("TOKEN_TTL", "1h")
	d, err := time.ParseDuration(ttl)
	if err != nil || d <= 0 {
		return Config{}, fmt.Errorf("invalid TOKEN_TTL %q", ttl)
	}
	cfg.TokenTTL = d

	return cfg, nil
}

// DSN builds a libpq-compatible connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode,
	)
}

// URL builds a postgres:// URL for tools that want one (migrations).
func (c Config) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
