package domain

// VerdictRecord is the output of one indicator evaluator for one analysis.
type VerdictRecord struct {
	Name        string  `json:"name"`
	Verdict     Verdict `json:"verdict"`
	Explanation string  `json:"explanation"`
}

// FinalVerdict is the aggregated recommendation over all evaluator records.
type FinalVerdict struct {
	Verdict        Verdict        `json:"verdict"`
	AgreementCount int            `json:"confidence_level"`
	Total          int            `json:"total"`
	Score          string         `json:"score"`
	Tier           ConfidenceTier `json:"tier"`
	Confidence     string         `json:"confidence"`
	Emoji          string         `json:"emoji"`
	Supporting     []string       `json:"yes_indicators"`
	Opposing       []string       `json:"no_indicators"`
}

// PriceTargets holds exit levels derived from volatility and recent extremes.
type PriceTargets struct {
	Conservative float64 `json:"conservative"`
	Moderate     float64 `json:"moderate"`
	Aggressive   float64 `json:"aggressive"`
	StopLoss     float64 `json:"stop_loss"`
}

// Analysis is the complete result of one engine invocation.
type Analysis struct {
	Direction TradeDirection  `json:"trade_type"`
	Price     float64         `json:"price"`
	Verdicts  []VerdictRecord `json:"verdicts"`
	Final     FinalVerdict    `json:"final_verdict"`
	Targets   PriceTargets    `json:"targets"`
}

// Indicators returns the verdict records keyed by indicator name.
func (a *Analysis) Indicators() map[string]VerdictRecord {
	out := make(map[string]VerdictRecord, len(a.Verdicts))
	for _, v := range a.Verdicts {
		out[v.Name] = v
	}
	return out
}
