package config

import (
	"os"
	"strconv"
)

// Config for the visadesk-data HTTP API.
type Config struct {
	HTTP struct {
		Addr string
	}
	Storage struct {
		// Backend selects the injected record store:
		// "memory", "file", "postgres" or "redis".
		Backend string
		DataDir string
	}
	Database DatabaseConfig
	Redis    struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	// AlertDays is the expiring-soon window for dashboard stats.
	AlertDays int
	// ImportWebhookURL, when set, receives a POST with every import summary.
	ImportWebhookURL string
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// Default to the file backend for local dev: plain `go run` gets a
	// durable store without any external service.
	cfg.Storage.Backend = getEnv("STORAGE_BACKEND", "file")
	cfg.Storage.DataDir = getEnv("DATA_DIR", "data")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "visadesk")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.AlertDays = parseInt(getEnv("ALERT_DAYS", "213"), 213)
	cfg.ImportWebhookURL = getEnv("IMPORT_WEBHOOK_URL", "")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
