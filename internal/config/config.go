package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds service configuration.
type Config struct {
	DatabaseURL   string
	ServerAddr    string
	MigrationsDir string
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

// Load reads configuration from environment.
func Load() (*Config, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		user := getenv("POSTGRES_USER", "cleanline")
		pass := getenv("POSTGRES_PASSWORD", "cleanline_pass")
		db := getenv("POSTGRES_DB", "cleanline")
		host := getenv("POSTGRES_HOST", "localhost")
		port := getenv("POSTGRES_PORT", "5432")
		sslmode := getenv("DATABASE_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, sslmode)
	}
	addr := getenv("SERVER_ADDR", "0.0.0.0:8080")
	migrationsDir := getenv("MIGRATIONS_DIR", "internal/migrations")
	ttl := parseDuration(getenv("WIZARD_SESSION_TTL", "30m"), 30*time.Minute)
	sweep := parseDuration(getenv("WIZARD_SWEEP_INTERVAL", "1m"), time.Minute)

	return &Config{
		DatabaseURL:   dsn,
		ServerAddr:    addr,
		MigrationsDir: migrationsDir,
		SessionTTL:    ttl,
		SweepInterval: sweep,
	}, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return def
	}
	return d
}
