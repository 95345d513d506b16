// Package config loads process settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	ServiceName     string
	Env             string
	HTTPAddr        string
	CartBackend     string
	CartDataDir     string
	RedisURL        string
	RedisAddr       string
	CatalogDSN      string
	StoreLocale     string
	StoreWhatsApp   string
	CheckoutBaseURL string
	ShutdownTimeout time.Duration
}

// Load reads .env when present, then the process environment. Variables
// already set in the environment win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	shutdown, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("config: SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg := &Config{
		ServiceName:     getEnv("SERVICE_NAME", "minishop-menu"),
		Env:             getEnv("ENV", "dev"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		CartBackend:     getEnv("CART_BACKEND", BackendFile),
		CartDataDir:     getEnv("CART_DATA_DIR", "./data"),
		RedisURL:        os.Getenv("REDIS_URL"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		CatalogDSN:      os.Getenv("CATALOG_DATABASE_URL"),
		StoreLocale:     getEnv("STORE_LOCALE", "pt-BR"),
		StoreWhatsApp:   os.Getenv("STORE_WHATSAPP"),
		CheckoutBaseURL: getEnv("CHECKOUT_BASE_URL", "https://wa.me/"),
		ShutdownTimeout: shutdown,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.CartBackend {
	case BackendFile, BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("config: CART_BACKEND %q must be file, memory or redis", c.CartBackend)
	}
	if c.CartBackend == BackendFile && c.CartDataDir == "" {
		return errors.New("config: CART_DATA_DIR is required for the file backend")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("config: SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
