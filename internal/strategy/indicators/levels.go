package indicators

import (
	"math"
	"sort"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
)

// KeyLevelsConfig controls support/resistance extraction.
type KeyLevelsConfig struct {
	Lookback int     // number of trailing klines considered
	Passes   int     // support/resistance pairs extracted
	Cluster  float64 // fraction around a level whose values are discarded
}

// KeyLevels extracts declustered support and resistance levels: each pass
// records the current highest high and lowest low, then drops every high and
// low within Cluster of them. The result is sorted and de-duplicated.
func KeyLevels(klines []*domain.Kline, cfg KeyLevelsConfig) []float64 {
	recent := tail(klines, cfg.Lookback)
	highs := domain.Highs(recent)
	lows := domain.Lows(recent)

	var levels []float64
	for pass := 0; pass < cfg.Passes; pass++ {
		if len(highs) == 0 || len(lows) == 0 {
			break
		}
		resistance := maxOf(highs)
		support := minOf(lows)
		levels = append(levels, support, resistance)

		highs = dropNear(highs, resistance, cfg.Cluster)
		lows = dropNear(lows, support, cfg.Cluster)
	}

	sort.Float64s(levels)
	unique := levels[:0]
	for i, l := range levels {
		if i == 0 || l != levels[i-1] {
			unique = append(unique, l)
		}
	}
	return unique
}

// SplitLevels partitions levels into those strictly below and strictly above price.
func SplitLevels(levels []float64, price float64) (supports, resistances []float64) {
	for _, l := range levels {
		switch {
		case l < price:
			supports = append(supports, l)
		case l > price:
			resistances = append(resistances, l)
		}
	}
	return supports, resistances
}

// RangeExtremes returns the lowest low and highest high of the trailing lookback klines.
func RangeExtremes(klines []*domain.Kline, lookback int) (support, resistance float64) {
	recent := tail(klines, lookback)
	if len(recent) == 0 {
		return 0, 0
	}
	return minOf(domain.Lows(recent)), maxOf(domain.Highs(recent))
}

func tail(klines []*domain.Kline, n int) []*domain.Kline {
	if n <= 0 || n >= len(klines) {
		return klines
	}
	return klines[len(klines)-n:]
}

func dropNear(xs []float64, level, frac float64) []float64 {
	kept := xs[:0:0]
	for _, x := range xs {
		if level*(1-frac) <= x && x <= level*(1+frac) {
			continue
		}
		kept = append(kept, x)
	}
	return kept
}

func maxOf(xs []float64) float64 {
	m := math.Inf(-1)
	for _, x := range xs {
		m = math.Max(m, x)
	}
	return m
}

func minOf(xs []float64) float64 {
	m := math.Inf(1)
	for _, x := range xs {
		m = math.Min(m, x)
	}
	return m
}
