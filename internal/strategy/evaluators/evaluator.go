// Package evaluators holds the named indicator evaluators that vote on a
// proposed trade. Every evaluator is a total function: computation problems
// become a No verdict whose explanation carries the error.
package evaluators

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/ports"
)

// Indicator names, in report order.
const (
	NameADX               = "ADX"
	NameEMA               = "EMA"
	NameNetFlow           = "Exchange Net Flow"
	NameSentiment         = "Market Sentiment"
	NameMiner             = "Miner Activity"
	NameMACD              = "MACD"
	NameVolumeProfile     = "Volume Profile"
	NameRSI               = "RSI"
	NameSmartMoney        = "Smart Money"
	NameWhale             = "Whale Activity"
	NameStochRSI          = "Stochastic RSI"
	NameSupportResistance = "Support/Resistance"
)

// Names lists every evaluator name in report order.
var Names = []string{
	NameADX, NameEMA, NameNetFlow, NameSentiment, NameMiner, NameMACD,
	NameVolumeProfile, NameRSI, NameSmartMoney, NameWhale, NameStochRSI, NameSupportResistance,
}

// Thresholds are the tunable constants of all evaluators.
type Thresholds struct {
	Period int `yaml:"period"` // shared lookback of ADX, RSI and StochRSI

	ADXStrongTrend float64 `yaml:"adx_strong_trend"`

	EMAFastSpan int `yaml:"ema_fast_span"`
	EMASlowSpan int `yaml:"ema_slow_span"`

	NetflowMultiplier float64 `yaml:"netflow_multiplier"`

	ExtremeFear  int `yaml:"extreme_fear"`
	ExtremeGreed int `yaml:"extreme_greed"`

	MinerRange float64 `yaml:"miner_range"`

	MACDFast   int `yaml:"macd_fast"`
	MACDSlow   int `yaml:"macd_slow"`
	MACDSignal int `yaml:"macd_signal"`

	VolumeBins      int     `yaml:"volume_bins"`
	StrongZoneRatio float64 `yaml:"strong_zone_ratio"`

	RSIOversold   float64 `yaml:"rsi_oversold"`
	RSIOverbought float64 `yaml:"rsi_overbought"`

	StochPeriod     int     `yaml:"stoch_period"`
	StochOversold   float64 `yaml:"stoch_oversold"`
	StochOverbought float64 `yaml:"stoch_overbought"`

	SMCLookback      int     `yaml:"smc_lookback"`
	SMCBullishFactor float64 `yaml:"smc_bullish_factor"`
	SMCBearishFactor float64 `yaml:"smc_bearish_factor"`

	WhaleOrderSize float64 `yaml:"whale_order_size"`
	WhaleRatio     float64 `yaml:"whale_ratio"`

	SRLookback         int     `yaml:"sr_lookback"`
	SRPasses           int     `yaml:"sr_passes"`
	SRCluster          float64 `yaml:"sr_cluster"`
	SRSupportFactor    float64 `yaml:"sr_support_factor"`
	SRResistanceFactor float64 `yaml:"sr_resistance_factor"`
}

// DefaultThresholds returns the standard evaluator constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Period:             14,
		ADXStrongTrend:     25,
		EMAFastSpan:        50,
		EMASlowSpan:        200,
		NetflowMultiplier:  0.05,
		ExtremeFear:        25,
		ExtremeGreed:       75,
		MinerRange:         1000,
		MACDFast:           12,
		MACDSlow:           26,
		MACDSignal:         9,
		VolumeBins:         10,
		StrongZoneRatio:    0.7,
		RSIOversold:        30,
		RSIOverbought:      70,
		StochPeriod:        14,
		StochOversold:      20,
		StochOverbought:    80,
		SMCLookback:        5,
		SMCBullishFactor:   0.98,
		SMCBearishFactor:   1.02,
		WhaleOrderSize:     5,
		WhaleRatio:         1.5,
		SRLookback:         50,
		SRPasses:           3,
		SRCluster:          0.01,
		SRSupportFactor:    1.02,
		SRResistanceFactor: 0.98,
	}
}

// Validate checks that periods are positive and that paired bounds are ordered.
func (t Thresholds) Validate() error {
	periods := map[string]int{
		"period": t.Period, "ema_fast_span": t.EMAFastSpan, "ema_slow_span": t.EMASlowSpan,
		"macd_fast": t.MACDFast, "macd_slow": t.MACDSlow, "macd_signal": t.MACDSignal,
		"volume_bins": t.VolumeBins, "stoch_period": t.StochPeriod, "smc_lookback": t.SMCLookback,
		"sr_lookback": t.SRLookback, "sr_passes": t.SRPasses,
	}
	for _, name := range sortedKeys(periods) {
		if periods[name] <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, periods[name])
		}
	}
	if t.SMCLookback < 2 {
		return fmt.Errorf("smc_lookback must be at least 2, got %d", t.SMCLookback)
	}
	if t.EMAFastSpan >= t.EMASlowSpan {
		return fmt.Errorf("ema_fast_span (%d) must be below ema_slow_span (%d)", t.EMAFastSpan, t.EMASlowSpan)
	}
	if t.MACDFast >= t.MACDSlow {
		return fmt.Errorf("macd_fast (%d) must be below macd_slow (%d)", t.MACDFast, t.MACDSlow)
	}
	if t.RSIOversold >= t.RSIOverbought || t.RSIOversold < 0 || t.RSIOverbought > 100 {
		return fmt.Errorf("invalid RSI bounds %v/%v", t.RSIOversold, t.RSIOverbought)
	}
	if t.StochOversold >= t.StochOverbought || t.StochOversold < 0 || t.StochOverbought > 100 {
		return fmt.Errorf("invalid StochRSI bounds %v/%v", t.StochOversold, t.StochOverbought)
	}
	if t.ExtremeFear >= t.ExtremeGreed {
		return fmt.Errorf("extreme_fear (%d) must be below extreme_greed (%d)", t.ExtremeFear, t.ExtremeGreed)
	}
	if t.StrongZoneRatio <= 0 || t.StrongZoneRatio > 1 {
		return fmt.Errorf("strong_zone_ratio must be in (0,1], got %v", t.StrongZoneRatio)
	}
	if t.WhaleRatio < 1 {
		return fmt.Errorf("whale_ratio must be at least 1, got %v", t.WhaleRatio)
	}
	if t.MinerRange <= 0 {
		return fmt.Errorf("miner_range must be positive, got %v", t.MinerRange)
	}
	return nil
}

// All builds the full evaluator set in report order. rng drives the
// simulated miner flow; pass a seeded source for reproducible output.
func All(t Thresholds, rng *rand.Rand) []ports.Evaluator {
	return []ports.Evaluator{
		NewADX(t),
		NewEMA(t),
		NewNetFlow(t),
		NewSentiment(t),
		NewMinerFlow(t, rng),
		NewMACD(t),
		NewVolumeProfile(t),
		NewRSI(t),
		NewSmartMoney(t),
		NewWhale(t),
		NewStochRSI(t),
		NewSupportResistance(t),
	}
}

// guard runs fn and folds an error or panic into a No verdict labelled with prefix.
func guard(name, prefix string, fn func() (domain.VerdictRecord, error)) (rec domain.VerdictRecord) {
	defer func() {
		if r := recover(); r != nil {
			rec = failed(name, prefix, fmt.Errorf("%w: %v", ports.ErrIndicatorComputation, r))
		}
	}()

	rec, err := fn()
	if err != nil {
		return failed(name, prefix, err)
	}
	rec.Name = name
	return rec
}

func failed(name, prefix string, err error) domain.VerdictRecord {
	return domain.VerdictRecord{
		Name:        name,
		Verdict:     domain.No,
		Explanation: fmt.Sprintf("%s Error: %v", prefix, err),
	}
}

func verdict(ok bool, explanation string) (domain.VerdictRecord, error) {
	return domain.VerdictRecord{Verdict: domain.VerdictOf(ok), Explanation: explanation}, nil
}

func requireKlines(ctx context.Context, snap *domain.MarketSnapshot, min int) ([]*domain.Kline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: no market snapshot", ports.ErrIndicatorComputation)
	}
	if len(snap.Klines) < min {
		return nil, fmt.Errorf("%w: need %d klines, got %d", ports.ErrIndicatorComputation, min, len(snap.Klines))
	}
	return snap.Klines, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
