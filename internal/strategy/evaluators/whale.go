package evaluators

import (
	"context"
	"fmt"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/ports"
	"github.com/devenn05/Crypto-signal-check/internal/utils"
)

// Whale compares resting whale-sized liquidity on each side of the book.
type Whale struct {
	orderSize float64
	ratio     float64
}

// NewWhale creates the whale order imbalance evaluator.
func NewWhale(t Thresholds) *Whale {
	return &Whale{orderSize: t.WhaleOrderSize, ratio: t.WhaleRatio}
}

func (e *Whale) Name() string { return NameWhale }

func (e *Whale) Evaluate(ctx context.Context, snap *domain.MarketSnapshot, dir domain.TradeDirection) domain.VerdictRecord {
	return guard(e.Name(), "Whale", func() (domain.VerdictRecord, error) {
		if err := ctx.Err(); err != nil {
			return domain.VerdictRecord{}, err
		}
		if snap == nil {
			return domain.VerdictRecord{}, fmt.Errorf("%w: no market snapshot", ports.ErrIndicatorComputation)
		}
		if snap.OrderBookErr != nil {
			return domain.VerdictRecord{}, snap.OrderBookErr
		}
		if snap.OrderBook == nil {
			return domain.VerdictRecord{}, fmt.Errorf("%w: no order book", ports.ErrIndicatorComputation)
		}

		buys := e.whaleVolume(snap.OrderBook.Bids)
		sells := e.whaleVolume(snap.OrderBook.Asks)
		explanation := fmt.Sprintf("Whale Buys: %s | Whale Sells: %s", utils.FormatPrice(buys), utils.FormatPrice(sells))

		switch {
		case buys > sells*e.ratio:
			if dir == domain.Long {
				return verdict(true, explanation+" (Strong buying pressure)")
			}
		case sells > buys*e.ratio:
			if dir == domain.Short {
				return verdict(true, explanation+" (Strong selling pressure)")
			}
		}
		return verdict(false, explanation)
	})
}

func (e *Whale) whaleVolume(levels []domain.BookLevel) float64 {
	total := 0.0
	for _, l := range levels {
		if l.Quantity > e.orderSize {
			total += l.Quantity
		}
	}
	return total
}
