// Package bootstrap wires the process runtime: database connection, redis
// client, and the one-time cache snapshot load that must complete before
// the server starts accepting traffic.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"tomosu/internal/cache"
	"tomosu/internal/config"
	"tomosu/internal/database"
	"tomosu/internal/repository"
)

// Runtime holds the initialized process dependencies.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client
	Cache *cache.Manager
}

// InitRuntime connects to the database and redis, then performs the blocking
// snapshot load into a fresh cache manager. Any load failure is returned to
// the caller, which must abort startup: serving from a partially loaded
// cache is never acceptable.
func InitRuntime(cfg *config.Config) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := connectRedis(cfg.RedisURL)

	manager := cache.New(cache.Options{
		MaxPageSize:     cfg.CacheMaxPageSize,
		DefaultPageSize: cfg.CacheDefaultPageSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.CacheLoadTimeoutSecs)*time.Second)
	defer cancel()

	if err := manager.Initialize(ctx, repository.NewSnapshotRepository(db)); err != nil {
		return nil, fmt.Errorf("cache snapshot load failed: %w", err)
	}

	return &Runtime{DB: db, Redis: redisClient, Cache: manager}, nil
}

// connectRedis returns a client for the rate limiter, or nil when redis is
// unreachable. The write path degrades to unthrottled rather than failing.
func connectRedis(addr string) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, rate limiting disabled", "addr", addr, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}
