// Package strategy runs the indicator evaluators over a market snapshot and
// turns their votes into a final verdict with price targets.
package strategy

import (
	"context"
	"fmt"
	"sync"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/ports"
	"github.com/devenn05/Crypto-signal-check/internal/strategy/evaluators"
)

// AggregationConfig holds the agreement thresholds of the final verdict.
type AggregationConfig struct {
	YesThreshold      int `yaml:"yes_threshold"`      // minimum Yes votes for a Yes verdict
	ExtremeConfidence int `yaml:"extreme_confidence"` // lower bounds of each tier
	HighConfidence    int `yaml:"high_confidence"`
	Solid             int `yaml:"solid"`
	Caution           int `yaml:"caution"`
}

// TargetsConfig holds parameters for price target calculation.
type TargetsConfig struct {
	ATRPeriod int `yaml:"atr_period"`
	Lookback  int `yaml:"lookback"` // candles scanned for support and resistance
}

// Config holds every tunable constant of an analysis.
type Config struct {
	Evaluators  evaluators.Thresholds `yaml:"evaluators"`
	Aggregation AggregationConfig     `yaml:"aggregation"`
	Targets     TargetsConfig         `yaml:"targets"`
}

// DefaultConfig returns the standard analysis constants.
func DefaultConfig() Config {
	return Config{
		Evaluators: evaluators.DefaultThresholds(),
		Aggregation: AggregationConfig{
			YesThreshold:      6,
			ExtremeConfidence: 9,
			HighConfidence:    7,
			Solid:             6,
			Caution:           4,
		},
		Targets: TargetsConfig{ATRPeriod: 14, Lookback: 50},
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if err := c.Evaluators.Validate(); err != nil {
		return err
	}
	a := c.Aggregation
	if !(a.ExtremeConfidence > a.HighConfidence && a.HighConfidence > a.Solid && a.Solid > a.Caution && a.Caution > 0) {
		return fmt.Errorf("tier bounds must strictly decrease to a positive caution bound, got %d/%d/%d/%d",
			a.ExtremeConfidence, a.HighConfidence, a.Solid, a.Caution)
	}
	if a.YesThreshold <= 0 {
		return fmt.Errorf("yes threshold must be positive, got %d", a.YesThreshold)
	}
	if c.Targets.ATRPeriod <= 0 || c.Targets.Lookback <= 0 {
		return fmt.Errorf("target periods must be positive, got %d/%d", c.Targets.ATRPeriod, c.Targets.Lookback)
	}
	return nil
}

// Engine evaluates a snapshot with a fixed set of evaluators.
type Engine struct {
	cfg        Config
	evaluators []ports.Evaluator
	logger     ports.Logger
}

// New creates a new Engine instance.
func New(cfg Config, evs []ports.Evaluator, logger ports.Logger) (*Engine, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for strategy engine")
	}
	if len(evs) == 0 {
		return nil, fmt.Errorf("at least one evaluator is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid strategy config: %w", err)
	}
	return &Engine{cfg: cfg, evaluators: evs, logger: logger}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Analyze runs every evaluator on snap for the given direction and
// aggregates the result. Evaluators run concurrently; verdicts keep the
// evaluator order.
func (e *Engine) Analyze(ctx context.Context, snap *domain.MarketSnapshot, dir domain.TradeDirection) (*domain.Analysis, error) {
	if !dir.Valid() {
		return nil, fmt.Errorf("%w: %q", ports.ErrInvalidDirection, dir)
	}
	if snap == nil || len(snap.Klines) == 0 {
		return nil, fmt.Errorf("%w: no klines to analyze", ports.ErrDataUnavailable)
	}
	if snap.Price <= 0 {
		return nil, fmt.Errorf("%w: no current price for %s", ports.ErrDataUnavailable, snap.Symbol)
	}

	records := make([]domain.VerdictRecord, len(e.evaluators))
	var wg sync.WaitGroup
	for i, ev := range e.evaluators {
		wg.Add(1)
		go func(i int, ev ports.Evaluator) {
			defer wg.Done()
			records[i] = ev.Evaluate(ctx, snap, dir)
		}(i, ev)
	}
	wg.Wait()

	final := Aggregate(records, e.cfg.Aggregation)
	targets := CalculateTargets(ctx, snap.Klines, snap.Price, dir, e.cfg.Targets)

	e.logger.Debug(ctx, "Analysis complete", map[string]interface{}{
		"symbol":    snap.Symbol,
		"direction": string(dir),
		"score":     final.Score,
		"tier":      string(final.Tier),
	})

	return &domain.Analysis{
		Direction: dir,
		Price:     snap.Price,
		Verdicts:  records,
		Final:     final,
		Targets:   targets,
	}, nil
}
