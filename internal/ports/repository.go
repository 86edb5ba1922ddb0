package ports

import (
	"context"
	"time"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
)

// KlineRepository caches fetched candles so an analysis can fall back to them
// when the exchange is unreachable.
type KlineRepository interface {
	// SaveKlines upserts klines keyed by market, symbol, interval and open time.
	SaveKlines(ctx context.Context, market domain.MarketType, klines []*domain.Kline) error
	// FindRecentKlines returns up to limit of the most recent klines, oldest first.
	FindRecentKlines(ctx context.Context, market domain.MarketType, symbol, interval string, limit int) ([]*domain.Kline, error)
}

// Cache is a small string key/value store with expiry.
type Cache interface {
	// Get returns ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
