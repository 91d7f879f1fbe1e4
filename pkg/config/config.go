// Package config reads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by the marketplace binaries.
type Config struct {
	DatabaseURL       string
	RabbitMQURL       string
	RedisURL          string
	JWTPublicKeyPath  string
	JWTPrivateKeyPath string
	JWTIssuer         string
	HTTPAddr          string
	DBLockTimeout     time.Duration
	OutboxBatchSize   int
	OutboxInterval    time.Duration
	SummaryCacheTTL   time.Duration
}

var ErrMissingDatabaseURL = errors.New("MARKETPLACE_DB_URL is not set")

// LoadDotEnv loads .env.local and then .env; existing variables win.
func LoadDotEnv() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()
}

// Load reads the environment. Only the database URL is mandatory.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       os.Getenv("MARKETPLACE_DB_URL"),
		RabbitMQURL:       os.Getenv("RABBITMQ_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		JWTPublicKeyPath:  os.Getenv("JWT_PUBLIC_KEY_PATH"),
		JWTPrivateKeyPath: os.Getenv("JWT_PRIVATE_KEY_PATH"),
		JWTIssuer:         os.Getenv("JWT_ISSUER"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
	}
	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	var err error
	if cfg.DBLockTimeout, err = durationEnv("DB_LOCK_TIMEOUT", 3*time.Second); err != nil {
		return nil, err
	}
	if cfg.OutboxInterval, err = durationEnv("OUTBOX_INTERVAL", time.Second); err != nil {
		return nil, err
	}
	if cfg.SummaryCacheTTL, err = durationEnv("SUMMARY_CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.OutboxBatchSize, err = intEnv("OUTBOX_BATCH_SIZE", 10); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ReadPublicKey returns the PEM bytes of the token verification key.
func (c *Config) ReadPublicKey() ([]byte, error) {
	if c.JWTPublicKeyPath == "" {
		return nil, errors.New("JWT_PUBLIC_KEY_PATH is not set")
	}
	b, err := os.ReadFile(c.JWTPublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key: %w", err)
	}
	return b, nil
}

// ReadPrivateKey returns the PEM bytes of the token signing key.
func (c *Config) ReadPrivateKey() ([]byte, error) {
	if c.JWTPrivateKeyPath == "" {
		return nil, errors.New("JWT_PRIVATE_KEY_PATH is not set")
	}
	b, err := os.ReadFile(c.JWTPrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	return b, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}
