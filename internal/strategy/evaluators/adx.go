package evaluators

import (
	"context"
	"fmt"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/strategy/indicators"
	"github.com/devenn05/Crypto-signal-check/internal/utils"
)

// ADX votes Yes when the trend is strong, whichever way it points.
type ADX struct {
	adx       *indicators.ADX
	threshold float64
}

// NewADX creates the trend strength evaluator.
func NewADX(t Thresholds) *ADX {
	return &ADX{
		adx:       indicators.NewADX(indicators.ADXConfig{IndicatorConfig: indicators.IndicatorConfig{Period: t.Period}}),
		threshold: t.ADXStrongTrend,
	}
}

func (e *ADX) Name() string { return NameADX }

func (e *ADX) Evaluate(ctx context.Context, snap *domain.MarketSnapshot, dir domain.TradeDirection) domain.VerdictRecord {
	return guard(e.Name(), "ADX", func() (domain.VerdictRecord, error) {
		klines, err := requireKlines(ctx, snap, 1)
		if err != nil {
			return domain.VerdictRecord{}, err
		}

		v := e.adx.Values(klines)
		if v.ADX <= e.threshold {
			return verdict(false, fmt.Sprintf("ADX: %s (Weak Trend)", utils.FormatPrice(v.ADX)))
		}

		explanation := fmt.Sprintf("ADX: %s (Strong Trend)", utils.FormatPrice(v.ADX))
		switch {
		case dir == domain.Long && v.PlusDI > v.MinusDI:
			explanation += fmt.Sprintf(" | +DI(%s) > -DI(%s)", utils.FormatPrice(v.PlusDI), utils.FormatPrice(v.MinusDI))
		case dir == domain.Short && v.MinusDI > v.PlusDI:
			explanation += fmt.Sprintf(" | -DI(%s) > +DI(%s)", utils.FormatPrice(v.MinusDI), utils.FormatPrice(v.PlusDI))
		}
		return verdict(true, explanation)
	})
}
