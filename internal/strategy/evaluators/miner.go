package evaluators

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/utils"
)

// MinerFlow stands in for on-chain miner netflow, which is not available,
// with a uniform draw in [-range, range]. Negative flow (miners holding)
// votes Yes regardless of trade direction.
type MinerFlow struct {
	mu     sync.Mutex
	rng    *rand.Rand
	bounds float64
}

// NewMinerFlow creates the simulated miner flow evaluator. A nil rng is
// replaced by a time-seeded source.
func NewMinerFlow(t Thresholds, rng *rand.Rand) *MinerFlow {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MinerFlow{rng: rng, bounds: t.MinerRange}
}

func (e *MinerFlow) Name() string { return NameMiner }

func (e *MinerFlow) Evaluate(ctx context.Context, snap *domain.MarketSnapshot, dir domain.TradeDirection) domain.VerdictRecord {
	return guard(e.Name(), "Miner", func() (domain.VerdictRecord, error) {
		if err := ctx.Err(); err != nil {
			return domain.VerdictRecord{}, err
		}
		flow := e.draw()
		explanation := fmt.Sprintf("Miner Flow: %s", utils.FormatPrice(flow))
		if flow < 0 {
			return verdict(true, explanation+" (Miners holding)")
		}
		return verdict(false, explanation+" (Miners selling)")
	})
}

func (e *MinerFlow) draw() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return -e.bounds + 2*e.bounds*e.rng.Float64()
}
