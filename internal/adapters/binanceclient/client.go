package binanceclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/ports"
)

const (
	// Base URLs
	spotURLProduction    = "https://api.binance.com"
	spotURLTestnet       = "https://testnet.binance.vision"
	futuresURLProduction = "https://fapi.binance.com"
	futuresURLTestnet    = "https://testnet.binancefuture.com"
)

// Client implements the ports.MarketDataProvider interface using the go-binance library.
type Client struct {
	spot    venue
	futures venue
	logger  ports.Logger
}

// Config holds configuration specific to the Binance client adapter.
type Config struct {
	APIKey     string
	SecretKey  string
	UseTestnet bool
	Logger     ports.Logger
	Timeout    time.Duration // per request HTTP timeout, 0 keeps the library default

	// Base URL overrides, used by tests
	SpotBaseURL    string
	FuturesBaseURL string
}

// New creates a new Binance client adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance client")
	}
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		cfg.Logger.Debug(context.Background(), "APIKey or SecretKey is empty. Client will only use public endpoints.")
	}

	spotClient := binance.NewClient(cfg.APIKey, cfg.SecretKey)
	futuresClient := futures.NewClient(cfg.APIKey, cfg.SecretKey)

	spotClient.BaseURL, futuresClient.BaseURL = spotURLProduction, futuresURLProduction
	if cfg.UseTestnet {
		spotClient.BaseURL, futuresClient.BaseURL = spotURLTestnet, futuresURLTestnet
	}
	if cfg.SpotBaseURL != "" {
		spotClient.BaseURL = cfg.SpotBaseURL
	}
	if cfg.FuturesBaseURL != "" {
		futuresClient.BaseURL = cfg.FuturesBaseURL
	}
	if cfg.Timeout > 0 {
		spotClient.HTTPClient = &http.Client{Timeout: cfg.Timeout}
		futuresClient.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	cfg.Logger.Info(context.Background(), "Binance client configured", map[string]interface{}{
		"spotBaseURL":    spotClient.BaseURL,
		"futuresBaseURL": futuresClient.BaseURL,
		"testnet":        cfg.UseTestnet,
	})

	return &Client{
		spot:    &spotVenue{client: spotClient},
		futures: &futuresVenue{client: futuresClient},
		logger:  cfg.Logger,
	}, nil
}

func (c *Client) venueFor(market domain.MarketType) venue {
	if market == domain.Futures {
		return c.futures
	}
	return c.spot
}

// handleError translates common Binance API errors into standardized ports errors.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message

		var finalErr error
		switch apiErr.Code {
		case -1003: // Too many requests
			finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrRateLimited, err)
		case -1021: // Timestamp for this request is outside of the recvWindow
			finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrTimeout, err)
		case -1022: // Signature for this request is not valid
			finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrAuthenticationFailed, err)
		case -1121: // Invalid symbol
			finalErr = fmt.Errorf("%s failed: %w: %w: %w", operation, ports.ErrDataUnavailable, ports.ErrInvalidSymbol, err)
		case -1100, -1101, -1102, -1103, -1104, -1105, -1106, -1111, -1115, -1116, -1117, -1120, -1125, -1127, -1128, -1130: // Parameter/Request format errors
			finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrInvalidRequest, err)
		case -2014, -2015: // API-key format invalid / invalid key, IP or permissions
			finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrInvalidAPIKeys, err)
		default:
			finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrExchangeUnavailable, err)
		}
		c.logger.Error(ctx, err, fmt.Sprintf("%s failed with API error", operation), fields)
		return finalErr
	}

	// Handle non-API errors (network, context cancellation, etc.)
	var finalErr error
	if errors.Is(err, context.DeadlineExceeded) {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrTimeout, err)
	} else if errors.Is(err, context.Canceled) {
		finalErr = fmt.Errorf("%s operation canceled: %w: %w", operation, ports.ErrContextCanceled, err)
	} else if strings.Contains(err.Error(), "use of closed network connection") ||
		strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "connection reset by peer") ||
		strings.Contains(err.Error(), "no such host") {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrConnectionFailed, err)
	} else {
		// Default for other errors (e.g., parsing errors within the adapter)
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrUnknown, err)
	}

	c.logger.Error(ctx, err, fmt.Sprintf("%s failed", operation), fields)
	return finalErr
}

// Ping checks the connectivity to the exchange API.
func (c *Client) Ping(ctx context.Context, market domain.MarketType) error {
	op := "Ping"
	if err := c.venueFor(market).ping(ctx); err != nil {
		return c.handleError(ctx, err, op)
	}
	c.logger.Debug(ctx, op+" successful", map[string]interface{}{"market": string(market)})
	return nil
}

// SymbolExists reports whether symbol is listed on the given market.
func (c *Client) SymbolExists(ctx context.Context, market domain.MarketType, symbol string) (bool, error) {
	_, err := c.GetTickerPrice(ctx, market, symbol)
	if errors.Is(err, ports.ErrInvalidSymbol) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetTickerPrice retrieves the last traded price for a given symbol.
func (c *Client) GetTickerPrice(ctx context.Context, market domain.MarketType, symbol string) (float64, error) {
	op := "GetTickerPrice"
	raw, err := c.venueFor(market).price(ctx, normalize(symbol))
	if err != nil {
		return 0, c.handleError(ctx, err, op)
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		parseErr := fmt.Errorf("could not parse price '%s': %w", raw, err)
		return 0, c.handleError(ctx, parseErr, op)
	}
	return price, nil
}

// GetKlines retrieves the most recent klines for the given symbol, oldest first.
func (c *Client) GetKlines(ctx context.Context, market domain.MarketType, symbol, interval string, limit int) ([]*domain.Kline, error) {
	op := "GetKlines"
	symbol = normalize(symbol)
	raws, err := c.venueFor(market).klines(ctx, klineQuery{symbol: symbol, interval: interval, limit: limit})
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	domainKlines := make([]*domain.Kline, 0, len(raws))
	for _, raw := range raws {
		dk, err := translateKline(raw, symbol, interval)
		if err != nil {
			return nil, c.handleError(ctx, fmt.Errorf("failed to translate historical kline: %w", err), op)
		}
		domainKlines = append(domainKlines, dk)
	}
	return domainKlines, nil
}

// GetKlinesRange fetches all klines for a symbol/interval between start and end time.
func (c *Client) GetKlinesRange(ctx context.Context, market domain.MarketType, symbol, interval string, start, end time.Time) ([]*domain.Kline, error) {
	op := "GetKlinesRange"
	symbol = normalize(symbol)
	v := c.venueFor(market)
	maxLimit := v.maxKlines()
	var allKlines []*domain.Kline
	from := start

	for {
		raws, err := v.klines(ctx, klineQuery{
			symbol:   symbol,
			interval: interval,
			limit:    maxLimit,
			start:    from.UnixMilli(),
			end:      end.UnixMilli(),
		})
		if err != nil {
			return nil, c.handleError(ctx, err, op)
		}
		if len(raws) == 0 {
			break
		}
		for _, raw := range raws {
			dk, err := translateKline(raw, symbol, interval)
			if err != nil {
				return nil, c.handleError(ctx, fmt.Errorf("failed to translate historical kline range: %w", err), op)
			}
			allKlines = append(allKlines, dk)
		}
		// the next page starts one millisecond after the last close
		from = time.UnixMilli(raws[len(raws)-1].closeTime + 1)
		if from.After(end) || len(raws) < maxLimit {
			break
		}
	}

	c.logger.Debug(ctx, op+" complete", map[string]interface{}{"symbol": symbol, "interval": interval, "count": len(allKlines)})
	return allKlines, nil
}

// GetOrderBook retrieves a depth snapshot with up to depth levels per side.
func (c *Client) GetOrderBook(ctx context.Context, market domain.MarketType, symbol string, depth int) (*domain.OrderBook, error) {
	op := "GetOrderBook"
	symbol = normalize(symbol)
	bids, asks, err := c.venueFor(market).depth(ctx, symbol, depth)
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	book := &domain.OrderBook{Symbol: symbol}
	if book.Bids, err = translateLevels(bids); err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	if book.Asks, err = translateLevels(asks); err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	return book, nil
}

// Get24hVolume retrieves the rolling 24h base asset volume for a symbol.
func (c *Client) Get24hVolume(ctx context.Context, market domain.MarketType, symbol string) (float64, error) {
	op := "Get24hVolume"
	raw, err := c.venueFor(market).volume24h(ctx, normalize(symbol))
	if err != nil {
		return 0, c.handleError(ctx, err, op)
	}
	volume, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		parseErr := fmt.Errorf("could not parse volume '%s': %w", raw, err)
		return 0, c.handleError(ctx, parseErr, op)
	}
	return volume, nil
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// --- Translation Helpers ---

func translateKline(raw rawKline, symbol, interval string) (*domain.Kline, error) {
	open, err := strconv.ParseFloat(raw.open, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing open price '%s': %w", raw.open, err)
	}
	high, err := strconv.ParseFloat(raw.high, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing high price '%s': %w", raw.high, err)
	}
	low, err := strconv.ParseFloat(raw.low, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing low price '%s': %w", raw.low, err)
	}
	cls, err := strconv.ParseFloat(raw.close, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing close price '%s': %w", raw.close, err)
	}
	vol, err := strconv.ParseFloat(raw.volume, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing volume '%s': %w", raw.volume, err)
	}

	return &domain.Kline{
		OpenTime:  time.UnixMilli(raw.openTime),
		CloseTime: time.UnixMilli(raw.closeTime),
		Symbol:    symbol,
		Interval:  interval,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     cls,
		Volume:    vol,
	}, nil
}

func translateLevels(raws []rawLevel) ([]domain.BookLevel, error) {
	levels := make([]domain.BookLevel, 0, len(raws))
	for _, raw := range raws {
		price, err := strconv.ParseFloat(raw.price, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing level price '%s': %w", raw.price, err)
		}
		qty, err := strconv.ParseFloat(raw.quantity, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing level quantity '%s': %w", raw.quantity, err)
		}
		levels = append(levels, domain.BookLevel{Price: price, Quantity: qty})
	}
	return levels, nil
}
