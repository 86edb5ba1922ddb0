package indicators

import (
	"context"
	"fmt"
	"math"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
)

// NeutralOscillator is the value RSI-style oscillators fall back to when
// they are undefined (flat window, degenerate range).
const NeutralOscillator = 50.0

// RSIConfig holds configuration for the Relative Strength Index indicator
type RSIConfig struct {
	IndicatorConfig
}

// RSI computes the Relative Strength Index from simple rolling means of
// gains and losses.
type RSI struct {
	BaseIndicator
	config RSIConfig
}

// NewRSI creates a new RSI indicator instance
func NewRSI(config RSIConfig) *RSI {
	return &RSI{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the name of the indicator
func (r *RSI) Name() string {
	return "RSI"
}

// Calculate returns the latest RSI. A window without gains or losses yields
// NeutralOscillator; a window with gains and no losses yields 100.
func (r *RSI) Calculate(ctx context.Context, klines []*domain.Kline) (float64, error) {
	period := r.config.Period
	if period <= 0 {
		return 0, fmt.Errorf("RSI period must be positive, got %d", period)
	}
	if len(klines) < period {
		return 0, fmt.Errorf("RSI needs %d klines, got %d: %w", period, len(klines), ErrInsufficientData)
	}
	return OrDefault(Last(RSISeries(domain.Closes(klines), period)), NeutralOscillator), nil
}

// RSISeries returns the RSI for every index. The first close difference
// counts as a zero change. Values are NaN until the window fills and where
// both average gain and average loss are zero.
func RSISeries(closes []float64, period int) []float64 {
	delta := Diff(closes)
	gains := make([]float64, len(delta))
	losses := make([]float64, len(delta))
	for i, d := range delta {
		switch {
		case d > 0:
			gains[i] = d
		case d < 0:
			losses[i] = -d
		}
	}

	avgGain := RollingMean(gains, period)
	avgLoss := RollingMean(losses, period)

	out := make([]float64, len(closes))
	for i := range out {
		g, l := avgGain[i], avgLoss[i]
		switch {
		case math.IsNaN(g) || math.IsNaN(l):
			out[i] = math.NaN()
		case l == 0 && g == 0:
			out[i] = math.NaN()
		case l == 0:
			out[i] = 100
		default:
			out[i] = 100 - 100/(1+g/l)
		}
	}
	return out
}

// StochRSIConfig holds configuration for the Stochastic RSI indicator
type StochRSIConfig struct {
	IndicatorConfig     // RSI period
	StochPeriod     int // window of the min/max normalisation
}

// StochRSI re-normalises RSI against its own rolling range.
type StochRSI struct {
	BaseIndicator
	config StochRSIConfig
}

// NewStochRSI creates a new Stochastic RSI indicator instance
func NewStochRSI(config StochRSIConfig) *StochRSI {
	return &StochRSI{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the name of the indicator
func (s *StochRSI) Name() string {
	return "StochRSI"
}

// RequiredDataPoints is the RSI warm-up plus the normalisation window.
func (s *StochRSI) RequiredDataPoints() int {
	return s.config.Period + s.config.StochPeriod - 1
}

// Calculate returns the latest StochRSI in [0,100]; an undefined or flat
// RSI range yields NeutralOscillator.
func (s *StochRSI) Calculate(ctx context.Context, klines []*domain.Kline) (float64, error) {
	if s.config.Period <= 0 || s.config.StochPeriod <= 0 {
		return 0, fmt.Errorf("StochRSI periods must be positive, got %d/%d", s.config.Period, s.config.StochPeriod)
	}
	if len(klines) < s.RequiredDataPoints() {
		return 0, fmt.Errorf("StochRSI needs %d klines, got %d: %w", s.RequiredDataPoints(), len(klines), ErrInsufficientData)
	}

	rsi := RSISeries(domain.Closes(klines), s.config.Period)
	lo := Last(RollingMin(rsi, s.config.StochPeriod))
	hi := Last(RollingMax(rsi, s.config.StochPeriod))
	cur := Last(rsi)
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsNaN(cur) || hi == lo {
		return NeutralOscillator, nil
	}
	return 100 * (cur - lo) / (hi - lo), nil
}
