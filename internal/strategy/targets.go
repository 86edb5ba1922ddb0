package strategy

import (
	"context"
	"math"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/strategy/indicators"
)

// CalculateTargets derives exits from ATR multiples and the recent range.
// Longs step up from price and stop at the higher of range support and two
// ATRs below; shorts mirror. An undefined ATR counts as zero.
func CalculateTargets(ctx context.Context, klines []*domain.Kline, price float64, dir domain.TradeDirection, cfg TargetsConfig) domain.PriceTargets {
	atr := indicators.NewATR(indicators.ATRConfig{IndicatorConfig: indicators.IndicatorConfig{Period: cfg.ATRPeriod}})
	value, err := atr.Calculate(ctx, klines)
	if err != nil {
		value = 0
	}
	value = indicators.OrDefault(value, 0)

	support, resistance := indicators.RangeExtremes(klines, cfg.Lookback)

	if dir == domain.Short {
		aggressive := price - 3*value
		if support < price {
			aggressive = math.Min(support, aggressive)
		}
		return domain.PriceTargets{
			Conservative: price - value,
			Moderate:     price - 2*value,
			Aggressive:   aggressive,
			StopLoss:     math.Min(resistance, price+2*value),
		}
	}

	aggressive := price + 3*value
	if resistance > price {
		aggressive = math.Max(resistance, aggressive)
	}
	return domain.PriceTargets{
		Conservative: price + value,
		Moderate:     price + 2*value,
		Aggressive:   aggressive,
		StopLoss:     math.Max(support, price-2*value),
	}
}
