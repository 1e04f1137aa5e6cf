package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"session-server/internal/config"
	"session-server/internal/logger"
	"session-server/internal/redis"
	"session-server/internal/session"
	"session-server/internal/user"
)

// setupSessions picks the session store backend.
func setupSessions(cfg config.Config) (session.Store, func() error, error) {
	switch cfg.SessionBackend {
	case "", "memory":
		return session.NewMemoryStore(), nil, nil

	case "redis":
		client, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, nil, fmt.Errorf("app: redis: %w", err)
		}
		logger.Info("redis ready", map[string]any{"addr": cfg.RedisAddr})
		return session.NewRedisStore(client.Client), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("app: unknown session backend %q", cfg.SessionBackend)
	}
}

// setupUsers picks the user repository backend and seeds the demo account
// when one is configured.
func setupUsers(ctx context.Context, cfg config.Config) (user.Repository, func() error, error) {
	var (
		repo    user.Repository
		cleanup func() error
	)

	switch cfg.UserBackend {
	case "", "memory":
		repo = user.NewMemoryRepository()

	case "postgres":
		db, err := sql.Open("postgres", cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("app: postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			return nil, nil, fmt.Errorf("app: postgres: %w", err)
		}
		if err := user.Migrate(ctx, db); err != nil {
			return nil, nil, fmt.Errorf("app: migrate: %w", err)
		}
		logger.Info("database ready", nil)
		repo = user.NewPostgresRepository(db)
		cleanup = db.Close

	default:
		return nil, nil, fmt.Errorf("app: unknown user backend %q", cfg.UserBackend)
	}

	if cfg.SeedAccount != "" && cfg.SeedPassword != "" {
		_, err := repo.Save(ctx, user.Registration{
			Account:  cfg.SeedAccount,
			Password: cfg.SeedPassword,
			Email:    cfg.SeedEmail,
		})
		if err != nil && !errors.Is(err, user.ErrDuplicateAccount) {
			return nil, nil, fmt.Errorf("app: seed account: %w", err)
		}
		logger.Info("seed account ready", map[string]any{
			"account": cfg.SeedAccount,
		})
	}

	return repo, cleanup, nil
}
