package evaluators

import (
	"context"
	"fmt"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/strategy/indicators"
	"github.com/devenn05/Crypto-signal-check/internal/utils"
)

// MACD votes with the side of the MACD line relative to its signal line.
type MACD struct {
	macd *indicators.MACD
}

// NewMACD creates the MACD cross evaluator.
func NewMACD(t Thresholds) *MACD {
	return &MACD{macd: indicators.NewMACD(indicators.MACDConfig{
		FastPeriod:   t.MACDFast,
		SlowPeriod:   t.MACDSlow,
		SignalPeriod: t.MACDSignal,
	})}
}

func (e *MACD) Name() string { return NameMACD }

func (e *MACD) Evaluate(ctx context.Context, snap *domain.MarketSnapshot, dir domain.TradeDirection) domain.VerdictRecord {
	return guard(e.Name(), "MACD", func() (domain.VerdictRecord, error) {
		klines, err := requireKlines(ctx, snap, 1)
		if err != nil {
			return domain.VerdictRecord{}, err
		}
		v, err := e.macd.Values(klines)
		if err != nil {
			return domain.VerdictRecord{}, err
		}

		explanation := fmt.Sprintf("MACD: %s, Signal: %s", utils.FormatPrice(v.MACD), utils.FormatPrice(v.Signal))
		if v.MACD > v.Signal {
			if dir == domain.Long {
				return verdict(true, explanation+" (Bullish Crossover)")
			}
			return verdict(false, explanation+" (Bullish but trade mismatch)")
		}
		if dir == domain.Short {
			return verdict(true, explanation+" (Bearish Crossover)")
		}
		return verdict(false, explanation+" (Bearish but trade mismatch)")
	})
}
