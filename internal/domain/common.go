package domain

import (
	"fmt"
	"strings"
)

// TradeDirection is the side of the proposed position.
type TradeDirection string

const (
	Long  TradeDirection = "long"
	Short TradeDirection = "short"
)

// Valid reports whether d is one of the known directions.
func (d TradeDirection) Valid() bool {
	return d == Long || d == Short
}

// ParseDirection converts user input ("long", "SHORT", ...) to a TradeDirection.
func ParseDirection(s string) (TradeDirection, error) {
	d := TradeDirection(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown trade direction %q", s)
	}
	return d, nil
}

// MarketType selects the Binance venue used for market data.
type MarketType string

const (
	Spot    MarketType = "spot"
	Futures MarketType = "futures"
)

// ParseMarketType converts user input to a MarketType.
func ParseMarketType(s string) (MarketType, error) {
	m := MarketType(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case Spot, Futures:
		return m, nil
	default:
		return "", fmt.Errorf("unknown market type %q", s)
	}
}

// Verdict is the binary outcome of an evaluator or of the whole analysis.
type Verdict string

const (
	Yes Verdict = "yes"
	No  Verdict = "no"
)

// VerdictOf maps a boolean condition to a Verdict.
func VerdictOf(ok bool) Verdict {
	if ok {
		return Yes
	}
	return No
}

// ConfidenceTier classifies the agreement count of an analysis.
type ConfidenceTier string

const (
	ExtremeConfidence ConfidenceTier = "EXTREME_CONFIDENCE"
	HighConfidence    ConfidenceTier = "HIGH_CONFIDENCE"
	Solid             ConfidenceTier = "SOLID"
	Caution           ConfidenceTier = "CAUTION"
	ConfirmLoss       ConfidenceTier = "CONFIRM_LOSS"
)

// Rank orders tiers from weakest (0) to strongest (4).
func (t ConfidenceTier) Rank() int {
	switch t {
	case ExtremeConfidence:
		return 4
	case HighConfidence:
		return 3
	case Solid:
		return 2
	case Caution:
		return 1
	default:
		return 0
	}
}

// Label is the human readable tier name used in reports.
func (t ConfidenceTier) Label() string {
	switch t {
	case ExtremeConfidence:
		return "EXTREME CONFIDENCE"
	case HighConfidence:
		return "HIGH CONFIDENCE"
	case Solid:
		return "SOLID"
	case Caution:
		return "CAUTION"
	default:
		return "CONFIRM LOSS"
	}
}

// Emoji is the banner decoration for the tier.
func (t ConfidenceTier) Emoji() string {
	switch t {
	case ExtremeConfidence:
		return "🚀🚀🚀"
	case HighConfidence:
		return "🚀🚀"
	case Solid:
		return "🚀"
	case Caution:
		return "⚠️"
	default:
		return "🛑"
	}
}
