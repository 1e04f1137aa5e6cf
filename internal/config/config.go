package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"session-server/internal/logger"
)

type Config struct {
	AppPort     string `toml:"app_port"`
	MetricsPort string `toml:"metrics_port"`

	StaticDir string `toml:"static_dir"`

	SessionBackend string `toml:"session_backend"` // "memory" or "redis"
	RedisAddr      string `toml:"redis_addr"`
	RedisPassword  string `toml:"redis_password"`

	UserBackend string `toml:"user_backend"` // "memory" or "postgres"
	DatabaseDSN string `toml:"database_dsn"`

	SeedAccount  string `toml:"seed_account"`
	SeedPassword string `toml:"seed_password"`
	SeedEmail    string `toml:"seed_email"`
}

// Load builds the configuration from an optional TOML file (CONFIG_FILE)
// overridden by environment variables.
func Load() Config {

	cfg := Config{
		AppPort:        "8080",
		SessionBackend: "memory",
		UserBackend:    "memory",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			logger.Warn("config file ignored", map[string]any{
				"path":  path,
				"error": err.Error(),
			})
		}
	}

	overlay(&cfg.AppPort, "APP_PORT")
	overlay(&cfg.MetricsPort, "METRICS_PORT")
	overlay(&cfg.StaticDir, "STATIC_DIR")
	overlay(&cfg.SessionBackend, "SESSION_BACKEND")
	overlay(&cfg.RedisAddr, "REDIS_ADDR")
	overlay(&cfg.RedisPassword, "REDIS_PASSWORD")
	overlay(&cfg.UserBackend, "USER_BACKEND")
	overlay(&cfg.DatabaseDSN, "DATABASE_DSN")
	overlay(&cfg.SeedAccount, "SEED_ACCOUNT")
	overlay(&cfg.SeedPassword, "SEED_PASSWORD")
	overlay(&cfg.SeedEmail, "SEED_EMAIL")

	return cfg
}

func overlay(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
