package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/epicevents/crm/internal/infrastructure/config"
)

const defaultTimeout = 5 * time.Second

// options maps the configured settings onto the client options. The timeout
// also bounds every read and write of the revocation checks.
func options(cfg config.RedisConfig) *redis.Options {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
}

// Connect opens the client backing token revocations and pings it.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts := options(cfg)
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}
