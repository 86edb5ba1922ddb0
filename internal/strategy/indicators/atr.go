package indicators

import (
	"context"
	"fmt"
	"math"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
)

// ATRConfig holds configuration for the Average True Range indicator
type ATRConfig struct {
	IndicatorConfig
}

// ATR implements the Average True Range as a simple rolling mean of true range
type ATR struct {
	BaseIndicator
	config ATRConfig
}

// NewATR creates a new Average True Range indicator instance
func NewATR(config ATRConfig) *ATR {
	return &ATR{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the name of the indicator
func (a *ATR) Name() string {
	return "ATR"
}

// Calculate computes the Average True Range value for the given klines
func (a *ATR) Calculate(ctx context.Context, klines []*domain.Kline) (float64, error) {
	period := a.config.Period
	if period <= 0 {
		return 0, fmt.Errorf("ATR period must be positive, got %d", period)
	}
	if len(klines) < period {
		return 0, fmt.Errorf("ATR needs %d klines, got %d: %w", period, len(klines), ErrInsufficientData)
	}
	return Last(RollingMean(TrueRange(klines), period)), nil
}

// TrueRange returns, per kline, the greatest of:
//  1. Current High - Current Low
//  2. |Current High - Previous Close|
//  3. |Current Low - Previous Close|
//
// The first kline has no previous close and uses its high-low range.
func TrueRange(klines []*domain.Kline) []float64 {
	trs := make([]float64, len(klines))
	for i, k := range klines {
		tr := k.High - k.Low
		if i > 0 {
			prevClose := klines[i-1].Close
			tr = math.Max(tr, math.Max(math.Abs(k.High-prevClose), math.Abs(k.Low-prevClose)))
		}
		trs[i] = tr
	}
	return trs
}
