package indicators

import (
	"context"
	"fmt"
	"math"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
)

// ADXConfig holds configuration for the Average Directional Index
type ADXConfig struct {
	IndicatorConfig
}

// ADXValues are the latest directional readings; undefined readings are 0.
type ADXValues struct {
	ADX     float64
	PlusDI  float64
	MinusDI float64
}

// ADX measures trend strength from rolling sums of directional movement.
type ADX struct {
	BaseIndicator
	config ADXConfig
}

// NewADX creates a new ADX indicator instance
func NewADX(config ADXConfig) *ADX {
	return &ADX{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the name of the indicator
func (a *ADX) Name() string {
	return "ADX"
}

// RequiredDataPoints covers the DI window followed by the DX averaging window.
func (a *ADX) RequiredDataPoints() int {
	return 2*a.config.Period - 1
}

// Calculate returns the latest ADX value.
func (a *ADX) Calculate(ctx context.Context, klines []*domain.Kline) (float64, error) {
	if a.config.Period <= 0 {
		return 0, fmt.Errorf("ADX period must be positive, got %d", a.config.Period)
	}
	if len(klines) < a.RequiredDataPoints() {
		return 0, fmt.Errorf("ADX needs %d klines, got %d: %w", a.RequiredDataPoints(), len(klines), ErrInsufficientData)
	}
	return a.Values(klines).ADX, nil
}

// Values computes ADX, +DI and -DI for the latest kline. Any reading that is
// undefined for lack of history or a zero range is reported as 0.
func (a *ADX) Values(klines []*domain.Kline) ADXValues {
	period := a.config.Period
	if period <= 0 || len(klines) == 0 {
		return ADXValues{}
	}

	upMove := Diff(domain.Highs(klines))
	downMove := Diff(domain.Lows(klines))
	plusDM := make([]float64, len(klines))
	minusDM := make([]float64, len(klines))
	for i := range klines {
		if upMove[i] > downMove[i] && upMove[i] > 0 {
			plusDM[i] = upMove[i]
		}
		// compared against the already filtered +DM
		if downMove[i] > plusDM[i] && downMove[i] > 0 {
			minusDM[i] = downMove[i]
		}
	}

	trSum := RollingSum(TrueRange(klines), period)
	plusSum := RollingSum(plusDM, period)
	minusSum := RollingSum(minusDM, period)

	plusDI := make([]float64, len(klines))
	minusDI := make([]float64, len(klines))
	dx := make([]float64, len(klines))
	for i := range klines {
		plusDI[i] = ratio(100*plusSum[i], trSum[i])
		minusDI[i] = ratio(100*minusSum[i], trSum[i])
		dx[i] = ratio(100*math.Abs(plusDI[i]-minusDI[i]), plusDI[i]+minusDI[i])
	}

	return ADXValues{
		ADX:     OrDefault(Last(RollingMean(dx, period)), 0),
		PlusDI:  OrDefault(Last(plusDI), 0),
		MinusDI: OrDefault(Last(minusDI), 0),
	}
}

// ratio divides, returning NaN for NaN operands and for a zero denominator.
func ratio(num, den float64) float64 {
	if math.IsNaN(num) || math.IsNaN(den) || den == 0 {
		return math.NaN()
	}
	return num / den
}
