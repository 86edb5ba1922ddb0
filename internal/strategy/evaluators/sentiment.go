package evaluators

import (
	"context"
	"fmt"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/ports"
)

// Sentiment is contrarian: extreme fear supports longs, extreme greed supports shorts.
type Sentiment struct {
	fear  int
	greed int
}

// NewSentiment creates the fear and greed evaluator.
func NewSentiment(t Thresholds) *Sentiment {
	return &Sentiment{fear: t.ExtremeFear, greed: t.ExtremeGreed}
}

func (e *Sentiment) Name() string { return NameSentiment }

func (e *Sentiment) Evaluate(ctx context.Context, snap *domain.MarketSnapshot, dir domain.TradeDirection) domain.VerdictRecord {
	return guard(e.Name(), "Sentiment", func() (domain.VerdictRecord, error) {
		if err := ctx.Err(); err != nil {
			return domain.VerdictRecord{}, err
		}
		if snap == nil {
			return domain.VerdictRecord{}, fmt.Errorf("%w: no market snapshot", ports.ErrIndicatorComputation)
		}
		if snap.FearGreedErr != nil {
			return domain.VerdictRecord{}, snap.FearGreedErr
		}
		index := snap.FearGreed
		if index < 0 || index > 100 {
			return domain.VerdictRecord{}, fmt.Errorf("%w: index %d outside 0..100", ports.ErrIndicatorComputation, index)
		}

		explanation := fmt.Sprintf("F&G Index: %d - ", index)
		switch {
		case index <= e.fear:
			return verdict(dir == domain.Long, explanation+"Extreme Fear")
		case index >= e.greed:
			return verdict(dir == domain.Short, explanation+"Extreme Greed")
		default:
			return verdict(false, explanation+"Neutral")
		}
	})
}
