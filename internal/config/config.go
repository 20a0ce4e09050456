package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort    int
	DatabaseURL   string // mongodb:// URI or SQLite path
	MongoDatabase string
	JWTSecret     string
	JWTExpiration time.Duration
	CORSOrigin    string
	LogLevel      string
	Env           string
	PasswordHash  string // bcrypt or argon2id
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the optional .env file, then loads configuration from environment
// variables or sets defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "3001"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	expiration, err := ParseExpiration(getEnv("JWT_EXPIRATION", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION: %w", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("required environment variable JWT_SECRET is not set")
	}

	databaseURL := getEnv("DATABASE_URL", getEnv("MONGO_URI", "sqlite://./auth.db"))

	return &Config{
		ServerPort:    port,
		DatabaseURL:   databaseURL,
		MongoDatabase: getEnv("MONGO_DATABASE", "auth"),
		JWTSecret:     secret,
		JWTExpiration: expiration,
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:3000"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Env:           getEnv("APP_ENV", "development"),
		PasswordHash:  getEnv("PASSWORD_HASH", "bcrypt"),
	}, nil
}

// ParseExpiration accepts a Go duration ("90m"), a day count ("7d") or a
// bare number of seconds ("3600").
func ParseExpiration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	var d time.Duration
	if secs, err := strconv.Atoi(s); err == nil {
		d = time.Duration(secs) * time.Second
	} else if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("parse %q: %w", s, err)
		}
		d = time.Duration(n) * 24 * time.Hour
	} else {
		d, err = time.ParseDuration(s)
		if err != nil {
			return 0, err
		}
	}
	if d <= 0 {
		return 0, fmt.Errorf("expiration must be positive, got %q", s)
	}
	return d, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
