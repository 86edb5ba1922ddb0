package evaluators

import (
	"context"
	"fmt"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/strategy/indicators"
	"github.com/devenn05/Crypto-signal-check/internal/utils"
)

// EMA compares a fast and a slow exponential moving average of closes.
type EMA struct {
	fast *indicators.MovingAverage
	slow *indicators.MovingAverage
}

// NewEMA creates the moving average cross evaluator.
func NewEMA(t Thresholds) *EMA {
	newEMA := func(span int) *indicators.MovingAverage {
		return indicators.NewMovingAverage(indicators.MovingAverageConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: span},
			Type:            indicators.ExponentialMovingAverage,
		})
	}
	return &EMA{fast: newEMA(t.EMAFastSpan), slow: newEMA(t.EMASlowSpan)}
}

func (e *EMA) Name() string { return NameEMA }

func (e *EMA) Evaluate(ctx context.Context, snap *domain.MarketSnapshot, dir domain.TradeDirection) domain.VerdictRecord {
	return guard(e.Name(), "EMA", func() (domain.VerdictRecord, error) {
		klines, err := requireKlines(ctx, snap, 1)
		if err != nil {
			return domain.VerdictRecord{}, err
		}
		fast, err := e.fast.Calculate(ctx, klines)
		if err != nil {
			return domain.VerdictRecord{}, err
		}
		slow, err := e.slow.Calculate(ctx, klines)
		if err != nil {
			return domain.VerdictRecord{}, err
		}

		explanation := fmt.Sprintf("%s: %s, %s: %s", e.fast.Name(), utils.FormatPrice(fast), e.slow.Name(), utils.FormatPrice(slow))
		if dir == domain.Long {
			if fast > slow {
				return verdict(true, explanation+" (Bullish Crossover)")
			}
			return verdict(false, explanation+" (No Bullish Crossover)")
		}
		if fast < slow {
			return verdict(true, explanation+" (Bearish Crossover)")
		}
		return verdict(false, explanation+" (No Bearish Crossover)")
	})
}
