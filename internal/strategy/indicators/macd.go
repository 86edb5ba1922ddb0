package indicators

import (
	"context"
	"fmt"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
)

// MACDConfig holds the three EMA spans of the MACD.
type MACDConfig struct {
	FastPeriod   int
	SlowPeriod   int
	SignalPeriod int
}

// MACDValues are the latest MACD line and signal line readings.
type MACDValues struct {
	MACD   float64
	Signal float64
}

// MACD computes EMA(fast) - EMA(slow) and its EMA(signal).
type MACD struct {
	config MACDConfig
}

// NewMACD creates a new MACD indicator instance
func NewMACD(config MACDConfig) *MACD {
	return &MACD{config: config}
}

// Name returns the name of the indicator
func (m *MACD) Name() string {
	return "MACD"
}

// RequiredDataPoints returns the minimum number of klines needed for calculation
func (m *MACD) RequiredDataPoints() int {
	return 1
}

// Calculate returns the latest MACD histogram (MACD - Signal).
func (m *MACD) Calculate(ctx context.Context, klines []*domain.Kline) (float64, error) {
	v, err := m.Values(klines)
	if err != nil {
		return 0, err
	}
	return v.MACD - v.Signal, nil
}

// Values returns the latest MACD and signal line.
func (m *MACD) Values(klines []*domain.Kline) (MACDValues, error) {
	if m.config.FastPeriod <= 0 || m.config.SlowPeriod <= 0 || m.config.SignalPeriod <= 0 {
		return MACDValues{}, fmt.Errorf("MACD periods must be positive, got %d/%d/%d", m.config.FastPeriod, m.config.SlowPeriod, m.config.SignalPeriod)
	}
	if len(klines) == 0 {
		return MACDValues{}, fmt.Errorf("MACD needs at least one kline: %w", ErrInsufficientData)
	}

	closes := domain.Closes(klines)
	fast := EMASeries(closes, m.config.FastPeriod)
	slow := EMASeries(closes, m.config.SlowPeriod)
	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}
	signal := EMASeries(line, m.config.SignalPeriod)

	return MACDValues{
		MACD:   OrDefault(Last(line), 0),
		Signal: OrDefault(Last(signal), 0),
	}, nil
}
