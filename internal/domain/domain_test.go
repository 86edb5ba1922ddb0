package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInterval(t *testing.T) {
	tests := []struct {
		name    string
		unit    string
		value   string
		want    string
		wantErr bool
	}{
		{name: "minutes", unit: "minutes", value: "15", want: "15m"},
		{name: "hours upper case", unit: "HOURS", value: "4", want: "4h"},
		{name: "days", unit: "days", value: "1", want: "1d"},
		{name: "weeks", unit: "weeks", value: "1", want: "1w"},
		{name: "months map to capital M", unit: "months", value: "1", want: "1M"},
		{name: "singular unit", unit: "hour", value: "2", want: "2h"},
		{name: "unsupported value", unit: "minutes", value: "7", wantErr: true},
		{name: "unknown unit", unit: "years", value: "1", wantErr: true},
		{name: "non numeric", unit: "hours", value: "four", wantErr: true},
		{name: "empty", unit: "", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildInterval(tt.unit, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsValidInterval(got))
		})
	}
}

func TestParseDirectionAndMarket(t *testing.T) {
	d, err := ParseDirection(" Long ")
	require.NoError(t, err)
	assert.Equal(t, Long, d)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)

	m, err := ParseMarketType("FUTURES")
	require.NoError(t, err)
	assert.Equal(t, Futures, m)

	_, err = ParseMarketType("margin")
	assert.Error(t, err)
}

func TestConfidenceTierRankIsOrdered(t *testing.T) {
	tiers := []ConfidenceTier{ConfirmLoss, Caution, Solid, HighConfidence, ExtremeConfidence}
	for i := 1; i < len(tiers); i++ {
		assert.Greater(t, tiers[i].Rank(), tiers[i-1].Rank(), "%s should outrank %s", tiers[i], tiers[i-1])
	}
}

func TestFinalVerdictJSONRoundTrip(t *testing.T) {
	original := FinalVerdict{
		Verdict:        Yes,
		AgreementCount: 7,
		Total:          12,
		Score:          "7/12",
		Tier:           HighConfidence,
		Confidence:     HighConfidence.Label(),
		Emoji:          HighConfidence.Emoji(),
		Supporting:     []string{"ADX", "EMA", "MACD", "RSI", "Smart Money", "Whale Activity", "Support/Resistance"},
		Opposing:       []string{"Exchange Net Flow", "Market Sentiment", "Miner Activity", "Volume Profile", "Stochastic RSI"},
	}

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded FinalVerdict
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, original, decoded)
	assert.ElementsMatch(t, original.Supporting, decoded.Supporting)
	assert.ElementsMatch(t, original.Opposing, decoded.Opposing)
	assert.Equal(t, original.Tier, decoded.Tier)
}

func TestAnalysisIndicators(t *testing.T) {
	a := &Analysis{Verdicts: []VerdictRecord{
		{Name: "ADX", Verdict: Yes, Explanation: "ADX: 30 (Strong Trend)"},
		{Name: "RSI", Verdict: No, Explanation: "RSI: 50 (Neutral)"},
	}}
	byName := a.Indicators()
	require.Len(t, byName, 2)
	assert.Equal(t, Yes, byName["ADX"].Verdict)
	assert.Equal(t, "RSI: 50 (Neutral)", byName["RSI"].Explanation)
}

func TestSeriesExtractors(t *testing.T) {
	klines := []*Kline{
		{Open: 1, High: 3, Low: 0.5, Close: 2, Volume: 10},
		{Open: 2, High: 4, Low: 1.5, Close: 3, Volume: 20},
	}
	assert.Equal(t, []float64{2, 3}, Closes(klines))
	assert.Equal(t, []float64{3, 4}, Highs(klines))
	assert.Equal(t, []float64{0.5, 1.5}, Lows(klines))
	assert.Equal(t, []float64{10, 20}, Volumes(klines))
	assert.Equal(t, 3.0, LastClose(klines))
	assert.Equal(t, 0.0, LastClose(nil))
}
