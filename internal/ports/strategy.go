package ports

import (
	"context"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
)

// Evaluator is one named indicator that votes on a proposed trade.
type Evaluator interface {
	// Name is the stable indicator name used in reports and aggregation.
	Name() string

	// Evaluate never fails: computation problems are reported as a No verdict
	// whose explanation carries the error.
	Evaluate(ctx context.Context, snapshot *domain.MarketSnapshot, direction domain.TradeDirection) domain.VerdictRecord
}
