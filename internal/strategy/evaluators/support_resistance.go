package evaluators

import (
	"context"
	"fmt"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/strategy/indicators"
	"github.com/devenn05/Crypto-signal-check/internal/utils"
)

// SupportResistance votes for longs close above support and for shorts
// close below resistance.
type SupportResistance struct {
	levels           indicators.KeyLevelsConfig
	supportFactor    float64
	resistanceFactor float64
}

// NewSupportResistance creates the support/resistance proximity evaluator.
func NewSupportResistance(t Thresholds) *SupportResistance {
	return &SupportResistance{
		levels: indicators.KeyLevelsConfig{
			Lookback: t.SRLookback,
			Passes:   t.SRPasses,
			Cluster:  t.SRCluster,
		},
		supportFactor:    t.SRSupportFactor,
		resistanceFactor: t.SRResistanceFactor,
	}
}

func (e *SupportResistance) Name() string { return NameSupportResistance }

func (e *SupportResistance) Evaluate(ctx context.Context, snap *domain.MarketSnapshot, dir domain.TradeDirection) domain.VerdictRecord {
	return guard(e.Name(), "S/R", func() (domain.VerdictRecord, error) {
		klines, err := requireKlines(ctx, snap, 1)
		if err != nil {
			return domain.VerdictRecord{}, err
		}

		price := domain.LastClose(klines)
		supports, resistances := indicators.SplitLevels(indicators.KeyLevels(klines, e.levels), price)

		// supports ascend, so the nearest is the last; resistances the first
		var support, resistance float64
		hasSupport, hasResistance := len(supports) > 0, len(resistances) > 0
		if hasSupport {
			support = supports[len(supports)-1]
		}
		if hasResistance {
			resistance = resistances[0]
		}
		nearSupport := hasSupport && price <= support*e.supportFactor
		nearResistance := hasResistance && price >= resistance*e.resistanceFactor

		explanation := fmt.Sprintf("Levels: S[%s] | R[%s] | Current: %s",
			utils.FormatPrices(supports), utils.FormatPrices(resistances), utils.FormatPrice(price))

		if dir == domain.Long {
			switch {
			case nearSupport:
				return verdict(true, explanation+fmt.Sprintf(" (Near strong support at %s)", utils.FormatPrice(support)))
			case nearResistance:
				return verdict(false, explanation+fmt.Sprintf(" (Approaching resistance at %s)", utils.FormatPrice(resistance)))
			default:
				return verdict(false, explanation+" (Between levels)")
			}
		}
		switch {
		case nearResistance:
			return verdict(true, explanation+fmt.Sprintf(" (Near strong resistance at %s)", utils.FormatPrice(resistance)))
		case nearSupport:
			return verdict(false, explanation+fmt.Sprintf(" (Approaching support at %s)", utils.FormatPrice(support)))
		default:
			return verdict(false, explanation+" (Between levels)")
		}
	})
}
