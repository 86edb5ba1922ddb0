package strategy

import (
	"fmt"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
)

type tierBound struct {
	min  int
	tier domain.ConfidenceTier
}

// tiers lists the tier lower bounds from highest to lowest.
func (a AggregationConfig) tiers() []tierBound {
	return []tierBound{
		{a.ExtremeConfidence, domain.ExtremeConfidence},
		{a.HighConfidence, domain.HighConfidence},
		{a.Solid, domain.Solid},
		{a.Caution, domain.Caution},
	}
}

// MapTier maps an agreement count to its confidence tier.
func (a AggregationConfig) MapTier(count int) domain.ConfidenceTier {
	for _, t := range a.tiers() {
		if count >= t.min {
			return t.tier
		}
	}
	return domain.ConfirmLoss
}

// Aggregate counts Yes votes and derives the final verdict and tier.
func Aggregate(records []domain.VerdictRecord, cfg AggregationConfig) domain.FinalVerdict {
	supporting := make([]string, 0, len(records))
	opposing := make([]string, 0, len(records))
	for _, r := range records {
		if r.Verdict == domain.Yes {
			supporting = append(supporting, r.Name)
		} else {
			opposing = append(opposing, r.Name)
		}
	}

	count := len(supporting)
	tier := cfg.MapTier(count)
	return domain.FinalVerdict{
		Verdict:        domain.VerdictOf(count >= cfg.YesThreshold),
		AgreementCount: count,
		Total:          len(records),
		Score:          fmt.Sprintf("%d/%d", count, len(records)),
		Tier:           tier,
		Confidence:     tier.Label(),
		Emoji:          tier.Emoji(),
		Supporting:     supporting,
		Opposing:       opposing,
	}
}
