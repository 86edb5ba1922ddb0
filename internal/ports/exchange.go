package ports

import (
	"context"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
)

// MarketDataProvider supplies the market data an analysis consumes.
// Implementations choose the venue (spot or futures) from the market argument.
type MarketDataProvider interface {
	// Ping checks the connectivity to the exchange API.
	Ping(ctx context.Context, market domain.MarketType) error

	// SymbolExists reports whether the symbol is listed on the given market.
	SymbolExists(ctx context.Context, market domain.MarketType, symbol string) (bool, error)

	// GetTickerPrice retrieves the last traded price for a symbol.
	GetTickerPrice(ctx context.Context, market domain.MarketType, symbol string) (float64, error)

	// GetKlines retrieves the most recent klines, oldest first.
	GetKlines(ctx context.Context, market domain.MarketType, symbol, interval string, limit int) ([]*domain.Kline, error)

	// GetOrderBook retrieves a depth snapshot with up to depth levels per side.
	GetOrderBook(ctx context.Context, market domain.MarketType, symbol string, depth int) (*domain.OrderBook, error)

	// Get24hVolume retrieves the rolling 24h traded volume in base asset units.
	Get24hVolume(ctx context.Context, market domain.MarketType, symbol string) (float64, error)
}

// SentimentProvider supplies the market-wide fear and greed index (0..100).
type SentimentProvider interface {
	GetFearGreedIndex(ctx context.Context) (int, error)
}
