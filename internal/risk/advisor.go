package risk

import (
	"fmt"
	"math"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
)

// AdvisorConfig holds configuration for trade advice
type AdvisorConfig struct {
	MaxPositionFraction float64 // share of capital suggested at the highest tier
}

// DefaultAdvisorConfig returns the standard advice settings.
func DefaultAdvisorConfig() AdvisorConfig {
	return AdvisorConfig{MaxPositionFraction: 0.1}
}

// Advice is the trader-facing guidance for one analysis.
type Advice struct {
	Headline         string   `json:"headline"`
	Alternatives     []string `json:"alternatives"`
	RiskReward       float64  `json:"risk_reward"`
	PositionFraction float64  `json:"position_fraction"`
}

// Advisor turns an analysis into sizing and follow-up suggestions.
type Advisor struct {
	config AdvisorConfig
}

// NewAdvisor creates a new advisor instance
func NewAdvisor(config AdvisorConfig) (*Advisor, error) {
	if config.MaxPositionFraction <= 0 || config.MaxPositionFraction > 1 {
		return nil, fmt.Errorf("max position fraction must be in (0,1], got %v", config.MaxPositionFraction)
	}
	return &Advisor{config: config}, nil
}

// Advise builds the full advice for an analysis.
func (a *Advisor) Advise(analysis *domain.Analysis) Advice {
	return Advice{
		Headline:         a.Headline(analysis.Final),
		Alternatives:     a.Alternatives(analysis.Final.Tier, analysis.Direction),
		RiskReward:       RiskReward(analysis.Price, analysis.Targets, analysis.Direction),
		PositionFraction: a.PositionFraction(analysis.Final.Tier),
	}
}

// Headline returns the one-line recommendation for a final verdict.
func (a *Advisor) Headline(final domain.FinalVerdict) string {
	switch final.Tier {
	case domain.ExtremeConfidence:
		return final.Emoji + " STRONG SIGNAL! Consider aggressive position sizing"
	case domain.HighConfidence:
		return final.Emoji + " Good opportunity, standard position recommended"
	case domain.Solid:
		return final.Emoji + " Decent setup, consider smaller position"
	case domain.Caution:
		return "⚠️ Marginal setup - wait for confirmation"
	default:
		return "🚫 Avoid this trade - too many red flags"
	}
}

// Alternatives suggests follow-ups that fit the tier and direction.
func (a *Advisor) Alternatives(tier domain.ConfidenceTier, dir domain.TradeDirection) []string {
	side, opposite := "long", "short"
	if dir == domain.Short {
		side, opposite = "short", "long"
	}

	var out []string
	switch {
	case tier.Rank() >= domain.HighConfidence.Rank():
		if dir == domain.Long {
			out = append(out, "Consider scaling in at key support levels")
		} else {
			out = append(out, "Consider scaling in at key resistance levels")
		}
	case tier.Rank() >= domain.Caution.Rank():
		out = append(out,
			"Wait for stronger confirmation signals",
			fmt.Sprintf("Check lower timeframes for better %s entry", side))
	default:
		out = append(out,
			"Consider waiting for market conditions to improve",
			fmt.Sprintf("Look for opposite %s opportunities", opposite))
	}

	if dir == domain.Long {
		return append(out, "Watch for bullish reversal patterns")
	}
	return append(out, "Watch for bearish continuation patterns")
}

// PositionFraction scales the maximum position share down by tier.
func (a *Advisor) PositionFraction(tier domain.ConfidenceTier) float64 {
	// ranks run 0 (confirm loss) to 4 (extreme confidence)
	return a.config.MaxPositionFraction * float64(tier.Rank()) / float64(domain.ExtremeConfidence.Rank())
}

// RiskReward is the distance to the moderate target over the distance to
// the stop. It is 0 when the stop sits at or beyond the entry.
func RiskReward(price float64, targets domain.PriceTargets, dir domain.TradeDirection) float64 {
	reward := targets.Moderate - price
	risk := price - targets.StopLoss
	if dir == domain.Short {
		reward, risk = -reward, -risk
	}
	if risk <= 0 || math.IsNaN(risk) || math.IsNaN(reward) {
		return 0
	}
	return reward / risk
}
