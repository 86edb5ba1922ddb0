package evaluators

import (
	"context"
	"fmt"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/ports"
	"github.com/devenn05/Crypto-signal-check/internal/utils"
)

// NetFlow approximates exchange netflow as a fixed share of 24h volume.
// The approximation is never negative, so it only ever favours shorts.
type NetFlow struct {
	multiplier float64
}

// NewNetFlow creates the net flow approximation evaluator.
func NewNetFlow(t Thresholds) *NetFlow {
	return &NetFlow{multiplier: t.NetflowMultiplier}
}

func (e *NetFlow) Name() string { return NameNetFlow }

func (e *NetFlow) Evaluate(ctx context.Context, snap *domain.MarketSnapshot, dir domain.TradeDirection) domain.VerdictRecord {
	return guard(e.Name(), "Flow", func() (domain.VerdictRecord, error) {
		if err := ctx.Err(); err != nil {
			return domain.VerdictRecord{}, err
		}
		if snap == nil {
			return domain.VerdictRecord{}, fmt.Errorf("%w: no market snapshot", ports.ErrIndicatorComputation)
		}
		if snap.Volume24hErr != nil {
			return domain.VerdictRecord{}, snap.Volume24hErr
		}

		netflow := snap.Volume24h * e.multiplier
		sign := ""
		if netflow >= 0 {
			sign = "+"
		}
		explanation := fmt.Sprintf("24h Vol: %s | Flow: %s%s", utils.FormatPrice(snap.Volume24h), sign, utils.FormatPrice(netflow))

		if netflow < 0 {
			if dir == domain.Long {
				return verdict(true, explanation+" (Outflow favors longs)")
			}
			return verdict(false, explanation)
		}
		if dir == domain.Short {
			return verdict(true, explanation+" (Inflow favors shorts)")
		}
		return verdict(false, explanation)
	})
}
