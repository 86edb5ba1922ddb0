package risk

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
)

func finalFor(tier domain.ConfidenceTier) domain.FinalVerdict {
	return domain.FinalVerdict{Tier: tier, Confidence: tier.Label(), Emoji: tier.Emoji()}
}

func TestNewAdvisor(t *testing.T) {
	if _, err := NewAdvisor(DefaultAdvisorConfig()); err != nil {
		t.Fatalf("Expected default config to be valid, got %v", err)
	}
	if _, err := NewAdvisor(AdvisorConfig{MaxPositionFraction: 0}); err == nil {
		t.Error("Expected error for zero position fraction")
	}
	if _, err := NewAdvisor(AdvisorConfig{MaxPositionFraction: 1.5}); err == nil {
		t.Error("Expected error for position fraction above 1")
	}
}

func TestHeadline(t *testing.T) {
	advisor, _ := NewAdvisor(DefaultAdvisorConfig())

	tests := []struct {
		tier domain.ConfidenceTier
		want string
	}{
		{domain.ExtremeConfidence, "🚀🚀🚀 STRONG SIGNAL! Consider aggressive position sizing"},
		{domain.HighConfidence, "🚀🚀 Good opportunity, standard position recommended"},
		{domain.Solid, "🚀 Decent setup, consider smaller position"},
		{domain.Caution, "⚠️ Marginal setup - wait for confirmation"},
		{domain.ConfirmLoss, "🚫 Avoid this trade - too many red flags"},
	}
	for _, tt := range tests {
		if got := advisor.Headline(finalFor(tt.tier)); got != tt.want {
			t.Errorf("tier %s: expected %q, got %q", tt.tier, tt.want, got)
		}
	}
}

func TestAlternatives(t *testing.T) {
	advisor, _ := NewAdvisor(DefaultAdvisorConfig())

	tests := []struct {
		name string
		tier domain.ConfidenceTier
		dir  domain.TradeDirection
		want []string
	}{
		{
			name: "strong long",
			tier: domain.HighConfidence,
			dir:  domain.Long,
			want: []string{"Consider scaling in at key support levels", "Watch for bullish reversal patterns"},
		},
		{
			name: "strong short",
			tier: domain.ExtremeConfidence,
			dir:  domain.Short,
			want: []string{"Consider scaling in at key resistance levels", "Watch for bearish continuation patterns"},
		},
		{
			name: "marginal long",
			tier: domain.Solid,
			dir:  domain.Long,
			want: []string{
				"Wait for stronger confirmation signals",
				"Check lower timeframes for better long entry",
				"Watch for bullish reversal patterns",
			},
		},
		{
			name: "weak short",
			tier: domain.ConfirmLoss,
			dir:  domain.Short,
			want: []string{
				"Consider waiting for market conditions to improve",
				"Look for opposite long opportunities",
				"Watch for bearish continuation patterns",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := advisor.Alternatives(tt.tier, tt.dir)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPositionFraction(t *testing.T) {
	advisor, _ := NewAdvisor(AdvisorConfig{MaxPositionFraction: 0.2})

	expected := map[domain.ConfidenceTier]float64{
		domain.ExtremeConfidence: 0.2,
		domain.HighConfidence:    0.15,
		domain.Solid:             0.1,
		domain.Caution:           0.05,
		domain.ConfirmLoss:       0,
	}
	for tier, want := range expected {
		if got := advisor.PositionFraction(tier); math.Abs(got-want) > 1e-9 {
			t.Errorf("tier %s: expected fraction %f, got %f", tier, want, got)
		}
	}
}

func TestRiskReward(t *testing.T) {
	long := domain.PriceTargets{Conservative: 102, Moderate: 104, Aggressive: 106, StopLoss: 98}
	if got := RiskReward(100, long, domain.Long); got != 2 {
		t.Errorf("Expected long risk/reward 2, got %f", got)
	}

	short := domain.PriceTargets{Conservative: 98, Moderate: 94, Aggressive: 90, StopLoss: 102}
	if got := RiskReward(100, short, domain.Short); got != 3 {
		t.Errorf("Expected short risk/reward 3, got %f", got)
	}

	flat := domain.PriceTargets{Conservative: 100, Moderate: 100, Aggressive: 100, StopLoss: 100}
	if got := RiskReward(100, flat, domain.Long); got != 0 {
		t.Errorf("Expected zero risk/reward without a stop distance, got %f", got)
	}
}

func TestAdvise(t *testing.T) {
	advisor, _ := NewAdvisor(DefaultAdvisorConfig())
	analysis := &domain.Analysis{
		Direction: domain.Long,
		Price:     100,
		Final:     finalFor(domain.Caution),
		Targets:   domain.PriceTargets{Moderate: 110, StopLoss: 95},
	}

	advice := advisor.Advise(analysis)
	if !strings.Contains(advice.Headline, "Marginal setup") {
		t.Errorf("unexpected headline %q", advice.Headline)
	}
	if len(advice.Alternatives) != 3 {
		t.Errorf("Expected 3 alternatives, got %d", len(advice.Alternatives))
	}
	if advice.RiskReward != 2 {
		t.Errorf("Expected risk/reward 2, got %f", advice.RiskReward)
	}
}
