// Package rediscache implements ports.Cache on Redis.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/devenn05/Crypto-signal-check/internal/adapters/breaker"
	"github.com/devenn05/Crypto-signal-check/internal/ports"
)

// Config configures the Redis cache.
type Config struct {
	Addr     string // Redis address, e.g. "localhost:6379"
	Password string
	DB       int
}

// store is the subset of the go-redis client the cache uses.
type store interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
}

// Cache is a TTL key/value cache whose calls run through a circuit breaker.
type Cache struct {
	store   store
	client  *goredis.Client
	breaker *breaker.Breaker
	logger  ports.Logger
}

// New connects to Redis and pings it.
func New(ctx context.Context, cfg Config, b *breaker.Breaker, logger ports.Logger) (*Cache, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for redis cache")
	}
	if b == nil {
		return nil, fmt.Errorf("circuit breaker is required for redis cache")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w: %w", ports.ErrCacheUnavailable, err)
	}

	logger.Info(ctx, "Connected to redis", map[string]interface{}{"addr": cfg.Addr, "db": cfg.DB})
	return &Cache{store: client, client: client, breaker: b, logger: logger}, nil
}

// Get returns the cached value or ports.ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	var value string
	miss := false
	err := c.breaker.Execute(func() error {
		v, err := c.store.Get(ctx, key).Result()
		if errors.Is(err, goredis.Nil) {
			miss = true
			return nil
		}
		value = v
		return err
	})
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w: %w", ports.ErrCacheUnavailable, err)
	}
	if miss {
		return "", ports.ErrCacheMiss
	}
	return value, nil
}

// Set stores value under key for ttl.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	err := c.breaker.Execute(func() error {
		return c.store.Set(ctx, key, value, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set failed: %w: %w", ports.ErrCacheUnavailable, err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
