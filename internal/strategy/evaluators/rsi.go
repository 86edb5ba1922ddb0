package evaluators

import (
	"context"
	"errors"
	"fmt"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/strategy/indicators"
	"github.com/devenn05/Crypto-signal-check/internal/utils"
)

// RSI votes for longs when oversold and for shorts when overbought.
type RSI struct {
	rsi        *indicators.RSI
	oversold   float64
	overbought float64
}

// NewRSI creates the RSI evaluator.
func NewRSI(t Thresholds) *RSI {
	return &RSI{
		rsi:        indicators.NewRSI(indicators.RSIConfig{IndicatorConfig: indicators.IndicatorConfig{Period: t.Period}}),
		oversold:   t.RSIOversold,
		overbought: t.RSIOverbought,
	}
}

func (e *RSI) Name() string { return NameRSI }

func (e *RSI) Evaluate(ctx context.Context, snap *domain.MarketSnapshot, dir domain.TradeDirection) domain.VerdictRecord {
	return guard(e.Name(), "RSI", func() (domain.VerdictRecord, error) {
		klines, err := requireKlines(ctx, snap, 1)
		if err != nil {
			return domain.VerdictRecord{}, err
		}
		value, err := oscillator(ctx, e.rsi, klines)
		if err != nil {
			return domain.VerdictRecord{}, err
		}
		return band(fmt.Sprintf("RSI: %s", utils.FormatPrice(value)), value, e.oversold, e.overbought, dir)
	})
}

// StochRSI applies the oscillator bands to RSI normalised by its own range.
type StochRSI struct {
	stoch      *indicators.StochRSI
	oversold   float64
	overbought float64
}

// NewStochRSI creates the Stochastic RSI evaluator.
func NewStochRSI(t Thresholds) *StochRSI {
	return &StochRSI{
		stoch: indicators.NewStochRSI(indicators.StochRSIConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: t.Period},
			StochPeriod:     t.StochPeriod,
		}),
		oversold:   t.StochOversold,
		overbought: t.StochOverbought,
	}
}

func (e *StochRSI) Name() string { return NameStochRSI }

func (e *StochRSI) Evaluate(ctx context.Context, snap *domain.MarketSnapshot, dir domain.TradeDirection) domain.VerdictRecord {
	return guard(e.Name(), "StochRSI", func() (domain.VerdictRecord, error) {
		klines, err := requireKlines(ctx, snap, 1)
		if err != nil {
			return domain.VerdictRecord{}, err
		}
		value, err := oscillator(ctx, e.stoch, klines)
		if err != nil {
			return domain.VerdictRecord{}, err
		}
		return band(fmt.Sprintf("StochRSI: %s", utils.FormatPrice(value)), value, e.oversold, e.overbought, dir)
	})
}

// oscillator reads a 0..100 oscillator, treating a short history as neutral.
func oscillator(ctx context.Context, ind indicators.Indicator, klines []*domain.Kline) (float64, error) {
	value, err := ind.Calculate(ctx, klines)
	if errors.Is(err, indicators.ErrInsufficientData) {
		return indicators.NeutralOscillator, nil
	}
	if err != nil {
		return 0, err
	}
	return indicators.OrDefault(value, indicators.NeutralOscillator), nil
}

func band(prefix string, value, oversold, overbought float64, dir domain.TradeDirection) (domain.VerdictRecord, error) {
	switch {
	case value < oversold:
		return verdict(dir == domain.Long, prefix+" (Oversold)")
	case value > overbought:
		return verdict(dir == domain.Short, prefix+" (Overbought)")
	default:
		return verdict(false, prefix+" (Neutral)")
	}
}
