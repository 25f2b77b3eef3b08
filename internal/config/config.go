// Package config loads application configuration from environment
// variables and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all settings the shopping-list core needs.
type Config struct {
	// DatabaseURL is a SQLite path for local use or a postgres:// URL
	// for production (Neon).
	DatabaseURL string

	// AdminIDs are Telegram user ids granted admin on startup.
	AdminIDs []int64

	// QueryTimeout bounds every database call issued by the service.
	QueryTimeout time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:  getEnv("SHOPLIST_DATABASE_URL", "shoplist.db"),
		QueryTimeout: 5 * time.Second,
		LogLevel:     getEnv("SHOPLIST_LOG_LEVEL", "info"),
		LogFormat:    getEnv("SHOPLIST_LOG_FORMAT", "text"),
	}

	if v := os.Getenv("SHOPLIST_QUERY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse SHOPLIST_QUERY_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("SHOPLIST_QUERY_TIMEOUT must be positive, got %s", d)
		}
		cfg.QueryTimeout = d
	}

	ids, err := parseAdminIDs(os.Getenv("SHOPLIST_ADMIN_IDS"))
	if err != nil {
		return nil, err
	}
	cfg.AdminIDs = ids

	return cfg, nil
}

func parseAdminIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse SHOPLIST_ADMIN_IDS entry %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
