package indicators

import (
	"context"
	"fmt"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
)

// MovingAverageType defines the type of moving average
type MovingAverageType string

const (
	// SimpleMovingAverage represents a simple moving average
	SimpleMovingAverage MovingAverageType = "SMA"
	// ExponentialMovingAverage represents an exponential moving average
	ExponentialMovingAverage MovingAverageType = "EMA"
)

// MovingAverageConfig holds configuration for moving average indicators
type MovingAverageConfig struct {
	IndicatorConfig
	Type MovingAverageType
}

// MovingAverage implements both SMA and EMA indicators over closing prices
type MovingAverage struct {
	BaseIndicator
	config MovingAverageConfig
}

// NewMovingAverage creates a new moving average indicator instance
func NewMovingAverage(config MovingAverageConfig) *MovingAverage {
	return &MovingAverage{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the name of the indicator, e.g. "EMA50"
func (m *MovingAverage) Name() string {
	return fmt.Sprintf("%s%d", m.config.Type, m.config.Period)
}

// RequiredDataPoints returns the minimum number of klines needed.
// The EMA is seeded by the first close, so a single kline is enough.
func (m *MovingAverage) RequiredDataPoints() int {
	if m.config.Type == ExponentialMovingAverage {
		return 1
	}
	return m.config.Period
}

// Calculate computes the moving average value based on the configured type
func (m *MovingAverage) Calculate(ctx context.Context, klines []*domain.Kline) (float64, error) {
	if m.config.Period <= 0 {
		return 0, fmt.Errorf("moving average period must be positive, got %d", m.config.Period)
	}
	if len(klines) < m.RequiredDataPoints() {
		return 0, fmt.Errorf("%s needs %d klines, got %d: %w", m.Name(), m.RequiredDataPoints(), len(klines), ErrInsufficientData)
	}

	closes := domain.Closes(klines)
	switch m.config.Type {
	case SimpleMovingAverage:
		return Last(RollingMean(closes, m.config.Period)), nil
	case ExponentialMovingAverage:
		return Last(EMASeries(closes, m.config.Period)), nil
	default:
		return 0, fmt.Errorf("unsupported moving average type: %s", m.config.Type)
	}
}
