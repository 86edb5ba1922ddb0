package strategy

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/ports"
	"github.com/devenn05/Crypto-signal-check/internal/strategy/evaluators"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct {
	debugMsgs []string
	infoMsgs  []string
	errorMsgs []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.debugMsgs = append(m.debugMsgs, msg)
}

func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.infoMsgs = append(m.infoMsgs, msg)
}

func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {}

func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	m.errorMsgs = append(m.errorMsgs, msg)
}

func candle(i int, high, low, close float64) *domain.Kline {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Kline{
		OpenTime: start.Add(time.Duration(i) * time.Hour),
		Open:     close, High: high, Low: low, Close: close, Volume: 1,
	}
}

func flatKlines(n int, price float64) []*domain.Kline {
	klines := make([]*domain.Kline, n)
	for i := range klines {
		klines[i] = candle(i, price, price, price)
	}
	return klines
}

func newEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	e, err := New(cfg, evaluators.All(cfg.Evaluators, rand.New(rand.NewSource(seed))), &mockLogger{})
	require.NoError(t, err)
	return e
}

func TestNew(t *testing.T) {
	cfg := DefaultConfig()
	evs := evaluators.All(cfg.Evaluators, rand.New(rand.NewSource(1)))

	badTiers := DefaultConfig()
	badTiers.Aggregation.HighConfidence = 10

	badTargets := DefaultConfig()
	badTargets.Targets.ATRPeriod = 0

	tests := []struct {
		name    string
		cfg     Config
		evs     []ports.Evaluator
		logger  ports.Logger
		wantErr bool
	}{
		{name: "valid config", cfg: cfg, evs: evs, logger: &mockLogger{}},
		{name: "nil logger", cfg: cfg, evs: evs, logger: nil, wantErr: true},
		{name: "no evaluators", cfg: cfg, evs: nil, logger: &mockLogger{}, wantErr: true},
		{name: "unordered tiers", cfg: badTiers, evs: evs, logger: &mockLogger{}, wantErr: true},
		{name: "invalid targets", cfg: badTargets, evs: evs, logger: &mockLogger{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(tt.cfg, tt.evs, tt.logger)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, e)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg, e.Config())
		})
	}
}

func TestMapTierBoundaries(t *testing.T) {
	agg := DefaultConfig().Aggregation
	tests := []struct {
		count int
		tier  domain.ConfidenceTier
	}{
		{12, domain.ExtremeConfidence},
		{9, domain.ExtremeConfidence},
		{8, domain.HighConfidence},
		{7, domain.HighConfidence},
		{6, domain.Solid},
		{5, domain.Caution},
		{4, domain.Caution},
		{3, domain.ConfirmLoss},
		{0, domain.ConfirmLoss},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tier, agg.MapTier(tt.count), "count %d", tt.count)
	}
}

func TestMapTierMonotonic(t *testing.T) {
	agg := DefaultConfig().Aggregation
	prev := agg.MapTier(0).Rank()
	for n := 1; n <= 12; n++ {
		rank := agg.MapTier(n).Rank()
		assert.GreaterOrEqual(t, rank, prev, "tier rank dropped at %d", n)
		prev = rank
	}
}

func TestAggregateInvariants(t *testing.T) {
	agg := DefaultConfig().Aggregation
	rng := rand.New(rand.NewSource(3))

	for round := 0; round < 200; round++ {
		records := make([]domain.VerdictRecord, len(evaluators.Names))
		yes := 0
		for i, name := range evaluators.Names {
			ok := rng.Intn(2) == 1
			if ok {
				yes++
			}
			records[i] = domain.VerdictRecord{Name: name, Verdict: domain.VerdictOf(ok)}
		}

		final := Aggregate(records, agg)
		assert.Equal(t, yes, final.AgreementCount)
		assert.Equal(t, 12, final.Total)
		assert.Equal(t, fmt.Sprintf("%d/12", yes), final.Score)
		assert.Equal(t, domain.VerdictOf(yes >= 6), final.Verdict)
		assert.Len(t, final.Supporting, yes)
		assert.Len(t, final.Opposing, 12-yes)
		assert.Equal(t, final.Tier.Label(), final.Confidence)
		assert.Equal(t, final.Tier.Emoji(), final.Emoji)
	}
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	e := newEngine(t, 1)
	ctx := context.Background()

	_, err := e.Analyze(ctx, &domain.MarketSnapshot{Price: 100, Klines: flatKlines(60, 100)}, domain.TradeDirection("sideways"))
	assert.ErrorIs(t, err, ports.ErrInvalidDirection)

	_, err = e.Analyze(ctx, &domain.MarketSnapshot{Price: 100}, domain.Long)
	assert.ErrorIs(t, err, ports.ErrDataUnavailable)

	_, err = e.Analyze(ctx, nil, domain.Long)
	assert.ErrorIs(t, err, ports.ErrDataUnavailable)

	_, err = e.Analyze(ctx, &domain.MarketSnapshot{Klines: flatKlines(60, 100)}, domain.Short)
	assert.ErrorIs(t, err, ports.ErrDataUnavailable)
}

func TestAnalyzeDeterministicWithSeededMiner(t *testing.T) {
	snap := &domain.MarketSnapshot{
		Symbol:    "BTCUSDT",
		Price:     100,
		Klines:    flatKlines(60, 100),
		FearGreed: 50,
	}

	a, err := newEngine(t, 42).Analyze(context.Background(), snap, domain.Long)
	require.NoError(t, err)
	b, err := newEngine(t, 42).Analyze(context.Background(), snap, domain.Long)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAnalyzeFlatMarket(t *testing.T) {
	snap := &domain.MarketSnapshot{
		Symbol:    "BTCUSDT",
		Price:     100,
		Klines:    flatKlines(60, 100),
		FearGreed: 50,
	}

	analysis, err := newEngine(t, 7).Analyze(context.Background(), snap, domain.Long)
	require.NoError(t, err)

	require.Len(t, analysis.Verdicts, len(evaluators.Names))
	for i, v := range analysis.Verdicts {
		assert.Equal(t, evaluators.Names[i], v.Name)
	}

	indicators := analysis.Indicators()
	assert.Equal(t, domain.Yes, indicators[evaluators.NameSmartMoney].Verdict)
	assert.Equal(t, "RSI: 50 (Neutral)", indicators[evaluators.NameRSI].Explanation)
	assert.Contains(t, indicators[evaluators.NameWhale].Explanation, "Whale Error: ")

	// only smart money and possibly the miner draw agree
	assert.Contains(t, []int{1, 2}, analysis.Final.AgreementCount)
	assert.Equal(t, domain.No, analysis.Final.Verdict)
	assert.Equal(t, domain.ConfirmLoss, analysis.Final.Tier)

	assert.Equal(t, domain.PriceTargets{Conservative: 100, Moderate: 100, Aggressive: 100, StopLoss: 100}, analysis.Targets)
}

func TestAnalyzeWhaleBook(t *testing.T) {
	snap := &domain.MarketSnapshot{
		Symbol:    "BTCUSDT",
		Price:     100,
		Klines:    flatKlines(60, 100),
		FearGreed: 50,
		OrderBook: &domain.OrderBook{Bids: []domain.BookLevel{{Price: 99, Quantity: 10}}},
	}

	long, err := newEngine(t, 1).Analyze(context.Background(), snap, domain.Long)
	require.NoError(t, err)
	assert.Equal(t, domain.Yes, long.Indicators()[evaluators.NameWhale].Verdict)

	short, err := newEngine(t, 1).Analyze(context.Background(), snap, domain.Short)
	require.NoError(t, err)
	assert.Equal(t, domain.No, short.Indicators()[evaluators.NameWhale].Verdict)
}

func TestCalculateTargets(t *testing.T) {
	cfg := DefaultConfig().Targets
	ctx := context.Background()

	ranging := make([]*domain.Kline, 20)
	for i := range ranging {
		ranging[i] = candle(i, 101, 99, 100)
	}
	withSpike := append([]*domain.Kline{candle(0, 120, 99, 100)}, ranging[1:]...)

	tests := []struct {
		name   string
		klines []*domain.Kline
		dir    domain.TradeDirection
		want   domain.PriceTargets
	}{
		{
			name:   "long inside range",
			klines: ranging,
			dir:    domain.Long,
			want:   domain.PriceTargets{Conservative: 102, Moderate: 104, Aggressive: 106, StopLoss: 99},
		},
		{
			name:   "short inside range",
			klines: ranging,
			dir:    domain.Short,
			want:   domain.PriceTargets{Conservative: 98, Moderate: 96, Aggressive: 94, StopLoss: 101},
		},
		{
			name:   "long reaches for distant resistance",
			klines: withSpike,
			dir:    domain.Long,
			want:   domain.PriceTargets{Conservative: 102, Moderate: 104, Aggressive: 120, StopLoss: 99},
		},
		{
			name:   "too little history for atr",
			klines: ranging[:5],
			dir:    domain.Long,
			want:   domain.PriceTargets{Conservative: 100, Moderate: 100, Aggressive: 101, StopLoss: 100},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateTargets(ctx, tt.klines, 100, tt.dir, cfg))
		})
	}
}
