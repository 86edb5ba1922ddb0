package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/ports"
	"github.com/devenn05/Crypto-signal-check/internal/risk"
	"github.com/devenn05/Crypto-signal-check/internal/strategy"
)

// FearGreedCacheKey is the cache key of the market-wide sentiment index.
const FearGreedCacheKey = "fng:index"

// VolumeCacheKey is the cache key of the rolling 24h volume of a symbol.
func VolumeCacheKey(market domain.MarketType, symbol string) string {
	return fmt.Sprintf("vol24h:%s:%s", market, symbol)
}

// Request identifies one analysis: which pair, which side, which candles.
type Request struct {
	Market    domain.MarketType     `json:"market_type"`
	Symbol    string                `json:"symbol"`
	Direction domain.TradeDirection `json:"trade_type"`
	Interval  string                `json:"timeframe"`
}

// NewRequest builds a Request from raw user input as entered in the CLI or
// posted to the API.
func NewRequest(marketType, symbol, tradeType, timeUnit, timeValue string) (Request, error) {
	market, err := domain.ParseMarketType(marketType)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %w", ports.ErrInvalidRequest, err)
	}
	dir, err := domain.ParseDirection(tradeType)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %w", ports.ErrInvalidDirection, err)
	}
	interval, err := domain.BuildInterval(timeUnit, timeValue)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %w", ports.ErrInvalidTimeframe, err)
	}
	req := Request{
		Market:    market,
		Symbol:    strings.ToUpper(strings.TrimSpace(symbol)),
		Direction: dir,
		Interval:  interval,
	}
	return req, req.Validate()
}

// Validate checks a Request that was assembled without NewRequest.
func (r Request) Validate() error {
	if r.Market != domain.Spot && r.Market != domain.Futures {
		return fmt.Errorf("%w: unknown market type %q", ports.ErrInvalidRequest, r.Market)
	}
	if r.Symbol == "" {
		return fmt.Errorf("%w: symbol is required", ports.ErrInvalidRequest)
	}
	if !r.Direction.Valid() {
		return fmt.Errorf("%w: %q", ports.ErrInvalidDirection, r.Direction)
	}
	if !domain.IsValidInterval(r.Interval) {
		return fmt.Errorf("%w: %q", ports.ErrInvalidTimeframe, r.Interval)
	}
	return nil
}

// Result is an analysis together with the advice derived from it.
type Result struct {
	Request    Request
	Analysis   *domain.Analysis
	Advice     risk.Advice
	StaleData  bool // klines were served from the local cache
	AnalyzedAt time.Time
}

// Analyzer runs one analysis per request.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (*Result, error)
}

// ServiceConfig holds the data volumes requested per analysis.
type ServiceConfig struct {
	KlineLimit     int
	OrderBookDepth int
	CacheTTL       time.Duration
}

// DefaultServiceConfig returns the standard request sizes.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{KlineLimit: 200, OrderBookDepth: 500, CacheTTL: time.Minute}
}

// AnalysisService fetches a market snapshot and runs the engine over it.
type AnalysisService struct {
	cfg       ServiceConfig
	logger    ports.Logger
	market    ports.MarketDataProvider
	sentiment ports.SentimentProvider
	engine    *strategy.Engine
	advisor   *risk.Advisor

	// optional
	klineRepo ports.KlineRepository
	cache     ports.Cache

	now func() time.Time
}

var _ Analyzer = (*AnalysisService)(nil)

// NewAnalysisService creates a new application service instance.
// klineRepo and cache may be nil.
func NewAnalysisService(
	cfg ServiceConfig,
	logger ports.Logger,
	market ports.MarketDataProvider,
	sentiment ports.SentimentProvider,
	engine *strategy.Engine,
	advisor *risk.Advisor,
	klineRepo ports.KlineRepository,
	cache ports.Cache,
) (*AnalysisService, error) {
	if logger == nil || market == nil || sentiment == nil || engine == nil || advisor == nil {
		return nil, fmt.Errorf("missing required dependencies for AnalysisService")
	}
	if cfg.KlineLimit <= 0 {
		return nil, fmt.Errorf("configuration KlineLimit must be positive")
	}
	if cfg.OrderBookDepth <= 0 {
		return nil, fmt.Errorf("configuration OrderBookDepth must be positive")
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultServiceConfig().CacheTTL
	}

	return &AnalysisService{
		cfg:       cfg,
		logger:    logger,
		market:    market,
		sentiment: sentiment,
		engine:    engine,
		advisor:   advisor,
		klineRepo: klineRepo,
		cache:     cache,
		now:       time.Now,
	}, nil
}

// Analyze validates req, fetches the snapshot and runs every evaluator.
func (s *AnalysisService) Analyze(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkSymbol(ctx, req); err != nil {
		return nil, err
	}

	snap, stale, err := s.snapshot(ctx, req)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to build market snapshot", map[string]interface{}{
			"symbol": req.Symbol, "market": req.Market, "interval": req.Interval,
		})
		return nil, err
	}

	analysis, err := s.engine.Analyze(ctx, snap, req.Direction)
	if err != nil {
		return nil, err
	}

	return &Result{
		Request:    req,
		Analysis:   analysis,
		Advice:     s.advisor.Advise(analysis),
		StaleData:  stale,
		AnalyzedAt: s.now(),
	}, nil
}

// checkSymbol rejects pairs the venue does not list. A failed lookup is not
// fatal here; the price fetch that follows reports the outage.
func (s *AnalysisService) checkSymbol(ctx context.Context, req Request) error {
	exists, err := s.market.SymbolExists(ctx, req.Market, req.Symbol)
	if err != nil {
		s.logger.Warn(ctx, "Symbol lookup failed, continuing", map[string]interface{}{
			"symbol": req.Symbol, "market": req.Market, "error": err.Error(),
		})
		return nil
	}
	if !exists {
		return fmt.Errorf("%w: %s on %s", ports.ErrInvalidSymbol, req.Symbol, req.Market)
	}
	return nil
}

// snapshot fetches every input of the analysis concurrently. Klines and price
// are required; the optional inputs carry their own error.
func (s *AnalysisService) snapshot(ctx context.Context, req Request) (*domain.MarketSnapshot, bool, error) {
	snap := &domain.MarketSnapshot{
		Symbol:   req.Symbol,
		Market:   req.Market,
		Interval: req.Interval,
	}

	var (
		wg       sync.WaitGroup
		stale    bool
		klineErr error
		priceErr error
	)
	wg.Add(5)
	go func() {
		defer wg.Done()
		snap.Klines, stale, klineErr = s.loadKlines(ctx, req)
	}()
	go func() {
		defer wg.Done()
		snap.Price, priceErr = s.market.GetTickerPrice(ctx, req.Market, req.Symbol)
	}()
	go func() {
		defer wg.Done()
		snap.Volume24h, snap.Volume24hErr = s.volume24h(ctx, req)
	}()
	go func() {
		defer wg.Done()
		snap.OrderBook, snap.OrderBookErr = s.market.GetOrderBook(ctx, req.Market, req.Symbol, s.cfg.OrderBookDepth)
	}()
	go func() {
		defer wg.Done()
		snap.FearGreed, snap.FearGreedErr = s.fearGreed(ctx)
	}()
	wg.Wait()

	if klineErr != nil {
		return nil, false, unavailable(fmt.Sprintf("klines for %s %s", req.Symbol, req.Interval), klineErr)
	}
	if priceErr != nil {
		if !stale || isRequestError(priceErr) {
			return nil, false, unavailable("price for "+req.Symbol, priceErr)
		}
		// The exchange is unreachable and klines came from the cache.
		snap.Price = snap.Klines[len(snap.Klines)-1].Close
		s.logger.Warn(ctx, "Using last cached close as price", map[string]interface{}{
			"symbol": req.Symbol, "price": snap.Price, "error": priceErr.Error(),
		})
	}
	return snap, stale, nil
}

// loadKlines fetches the live series and records it in the kline cache. When
// the live fetch fails for a reason other than a bad request, the newest
// cached candles are used instead.
func (s *AnalysisService) loadKlines(ctx context.Context, req Request) ([]*domain.Kline, bool, error) {
	klines, err := s.market.GetKlines(ctx, req.Market, req.Symbol, req.Interval, s.cfg.KlineLimit)
	if err == nil && len(klines) == 0 {
		err = fmt.Errorf("%w: exchange returned no klines", ports.ErrDataUnavailable)
	}
	if err == nil {
		if s.klineRepo != nil {
			if saveErr := s.klineRepo.SaveKlines(ctx, req.Market, klines); saveErr != nil {
				s.logger.Warn(ctx, "Failed to cache klines", map[string]interface{}{
					"symbol": req.Symbol, "error": saveErr.Error(),
				})
			}
		}
		return klines, false, nil
	}

	if s.klineRepo == nil || isRequestError(err) {
		return nil, false, err
	}
	cached, cacheErr := s.klineRepo.FindRecentKlines(ctx, req.Market, req.Symbol, req.Interval, s.cfg.KlineLimit)
	if cacheErr != nil || len(cached) == 0 {
		return nil, false, err
	}
	s.logger.Warn(ctx, "Live klines unavailable, using cached series", map[string]interface{}{
		"symbol": req.Symbol, "interval": req.Interval, "count": len(cached), "error": err.Error(),
	})
	return cached, true, nil
}

func (s *AnalysisService) volume24h(ctx context.Context, req Request) (float64, error) {
	raw, err := s.readThrough(ctx, VolumeCacheKey(req.Market, req.Symbol), func() (string, error) {
		v, err := s.market.Get24hVolume(ctx, req.Market, req.Symbol)
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	})
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(raw, 64)
}

func (s *AnalysisService) fearGreed(ctx context.Context) (int, error) {
	raw, err := s.readThrough(ctx, FearGreedCacheKey, func() (string, error) {
		v, err := s.sentiment.GetFearGreedIndex(ctx)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(v), nil
	})
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(raw)
}

// readThrough serves key from the cache, loading and storing it on a miss.
// Cache failures are logged and otherwise ignored.
func (s *AnalysisService) readThrough(ctx context.Context, key string, load func() (string, error)) (string, error) {
	if s.cache != nil {
		v, err := s.cache.Get(ctx, key)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ports.ErrCacheMiss) {
			s.logger.Warn(ctx, "Cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	v, err := load()
	if err != nil {
		return "", err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, v, s.cfg.CacheTTL); err != nil {
			s.logger.Warn(ctx, "Cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
	return v, nil
}

// isRequestError reports errors caused by the request itself, which a cached
// series must not paper over.
func isRequestError(err error) bool {
	return errors.Is(err, ports.ErrInvalidSymbol) ||
		errors.Is(err, ports.ErrInvalidRequest) ||
		errors.Is(err, ports.ErrContextCanceled) ||
		errors.Is(err, context.Canceled)
}

// unavailable marks err as ErrDataUnavailable unless it already is.
func unavailable(what string, err error) error {
	if errors.Is(err, ports.ErrDataUnavailable) {
		return fmt.Errorf("fetch %s: %w", what, err)
	}
	return fmt.Errorf("fetch %s: %w: %w", what, ports.ErrDataUnavailable, err)
}

// Classify names the failure class of an Analyze error, for metrics and
// HTTP status mapping.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ports.ErrInvalidSymbol):
		return "invalid_symbol"
	case errors.Is(err, ports.ErrInvalidDirection):
		return "invalid_direction"
	case errors.Is(err, ports.ErrInvalidTimeframe):
		return "invalid_timeframe"
	case errors.Is(err, ports.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, context.Canceled), errors.Is(err, ports.ErrContextCanceled):
		return "canceled"
	case errors.Is(err, ports.ErrDataUnavailable):
		return "data_unavailable"
	default:
		return "internal"
	}
}
