package app

import (
	"context"
	"database/sql"

	"joinme-auth/internal/config"
	"joinme-auth/internal/db"
	"joinme-auth/internal/logger"
	"joinme-auth/internal/redis"

	_ "github.com/lib/pq"
)

type infra struct {
	DB    *db.DB
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*infra, error) {
	sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := db.RunMigration(ctx, sqlDB); err != nil {
		return nil, err
	}

	logger.Info("database ready", nil)

	redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, err
	}

	logger.Info("redis ready", nil)

	return &infra{
		DB:    &db.DB{DB: sqlDB},
		Redis: redisClient,
	}, nil
}
