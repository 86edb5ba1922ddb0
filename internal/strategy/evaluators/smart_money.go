package evaluators

import (
	"context"
	"fmt"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/utils"
)

// SmartMoney reads break of structure and order blocks from the last few candles.
type SmartMoney struct {
	lookback      int
	bullishFactor float64
	bearishFactor float64
}

// NewSmartMoney creates the smart money structure evaluator.
func NewSmartMoney(t Thresholds) *SmartMoney {
	return &SmartMoney{lookback: t.SMCLookback, bullishFactor: t.SMCBullishFactor, bearishFactor: t.SMCBearishFactor}
}

func (e *SmartMoney) Name() string { return NameSmartMoney }

func (e *SmartMoney) Evaluate(ctx context.Context, snap *domain.MarketSnapshot, dir domain.TradeDirection) domain.VerdictRecord {
	return guard(e.Name(), "SMC", func() (domain.VerdictRecord, error) {
		klines, err := requireKlines(ctx, snap, 2)
		if err != nil {
			return domain.VerdictRecord{}, err
		}
		recent := klines
		if len(recent) > e.lookback {
			recent = recent[len(recent)-e.lookback:]
		}

		last, prev := recent[len(recent)-1], recent[len(recent)-2]
		bos := "neutral"
		switch {
		case last.High > prev.High && last.Low > prev.Low:
			bos = "bullish"
		case last.High < prev.High && last.Low < prev.Low:
			bos = "bearish"
		}

		bullishOB, bearishOB := recent[0].Low, recent[0].High
		for _, k := range recent[1:] {
			if k.Low < bullishOB {
				bullishOB = k.Low
			}
			if k.High > bearishOB {
				bearishOB = k.High
			}
		}

		price := last.Close
		explanation := fmt.Sprintf("BoS: %s | Bullish OB: %s | Bearish OB: %s", bos, utils.FormatPrice(bullishOB), utils.FormatPrice(bearishOB))
		if dir == domain.Long {
			if bos == "bullish" || price >= bullishOB*e.bullishFactor {
				return verdict(true, explanation+" (Bullish confirmation)")
			}
			return verdict(false, explanation)
		}
		if bos == "bearish" || price <= bearishOB*e.bearishFactor {
			return verdict(true, explanation+" (Bearish confirmation)")
		}
		return verdict(false, explanation)
	})
}
