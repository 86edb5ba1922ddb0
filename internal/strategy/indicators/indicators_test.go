package indicators

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
)

func klinesFromCloses(closes ...float64) []*domain.Kline {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	klines := make([]*domain.Kline, len(closes))
	for i, c := range closes {
		klines[i] = &domain.Kline{
			OpenTime: start.Add(time.Duration(i) * time.Hour),
			Open:     c, High: c, Low: c, Close: c, Volume: 1,
		}
	}
	return klines
}

func rampCloses(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestRollingHelpers(t *testing.T) {
	mean := RollingMean([]float64{1, 2, 3, 4}, 2)
	assert.True(t, math.IsNaN(mean[0]))
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, mean[1:])

	sum := RollingSum([]float64{math.NaN(), 1, 2, 3}, 2)
	assert.True(t, math.IsNaN(sum[1]), "window containing NaN must be NaN")
	assert.Equal(t, 3.0, sum[2])
	assert.Equal(t, 5.0, sum[3])

	assert.Equal(t, 1.0, Last(RollingMin([]float64{5, 1, 3}, 3)))
	assert.Equal(t, 5.0, Last(RollingMax([]float64{5, 1, 3}, 3)))
	assert.True(t, math.IsNaN(Last(nil)))

	diff := Diff([]float64{1, 4, 2})
	assert.True(t, math.IsNaN(diff[0]))
	assert.Equal(t, []float64{3, -2}, diff[1:])
}

func TestEMASeries(t *testing.T) {
	assert.Equal(t, []float64{10, 11, 12.5}, EMASeries([]float64{10, 12, 14}, 3))
	assert.Equal(t, []float64{1, 2, 3}, EMASeries([]float64{1, 2, 3}, 1))
	assert.Empty(t, EMASeries(nil, 5))
}

func TestMovingAverage_Calculate(t *testing.T) {
	ctx := context.Background()
	klines := klinesFromCloses(10, 12, 14)

	ema := NewMovingAverage(MovingAverageConfig{IndicatorConfig: IndicatorConfig{Period: 3}, Type: ExponentialMovingAverage})
	v, err := ema.Calculate(ctx, klines)
	require.NoError(t, err)
	assert.InDelta(t, 12.5, v, 1e-9)
	assert.Equal(t, "EMA3", ema.Name())

	sma := NewMovingAverage(MovingAverageConfig{IndicatorConfig: IndicatorConfig{Period: 2}, Type: SimpleMovingAverage})
	v, err = sma.Calculate(ctx, klines)
	require.NoError(t, err)
	assert.InDelta(t, 13, v, 1e-9)

	long := NewMovingAverage(MovingAverageConfig{IndicatorConfig: IndicatorConfig{Period: 200}, Type: ExponentialMovingAverage})
	_, err = long.Calculate(ctx, klines)
	assert.NoError(t, err, "EMA is seeded by the first close and needs no warm-up")

	_, err = NewMovingAverage(MovingAverageConfig{IndicatorConfig: IndicatorConfig{Period: 5}, Type: SimpleMovingAverage}).Calculate(ctx, klines)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestRSI_Calculate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		period  int
		klines  []*domain.Kline
		want    float64
		wantErr error
	}{
		{
			name:   "mixed moves",
			period: 3,
			klines: klinesFromCloses(100, 102, 101, 103), // gains 2,0,2 losses 0,1,0
			want:   80,
		},
		{name: "all gains saturate at 100", period: 14, klines: klinesFromCloses(rampCloses(30, 100, 1)...), want: 100},
		{name: "all losses saturate at 0", period: 14, klines: klinesFromCloses(rampCloses(30, 200, -1)...), want: 0},
		{name: "flat price is neutral", period: 14, klines: klinesFromCloses(rampCloses(30, 100, 0)...), want: 50},
		{name: "insufficient data", period: 14, klines: klinesFromCloses(1, 2, 3), wantErr: ErrInsufficientData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rsi := NewRSI(RSIConfig{IndicatorConfig: IndicatorConfig{Period: tt.period}})
			got, err := rsi.Calculate(ctx, tt.klines)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestStochRSI_StaysInRange(t *testing.T) {
	ctx := context.Background()
	stoch := NewStochRSI(StochRSIConfig{IndicatorConfig: IndicatorConfig{Period: 14}, StochPeriod: 14})

	flat, err := stoch.Calculate(ctx, klinesFromCloses(rampCloses(60, 100, 0)...))
	require.NoError(t, err)
	assert.Equal(t, NeutralOscillator, flat)

	rising, err := stoch.Calculate(ctx, klinesFromCloses(rampCloses(60, 100, 1)...))
	require.NoError(t, err)
	assert.Equal(t, NeutralOscillator, rising, "constant RSI of 100 has a degenerate range")

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		closes := make([]float64, 80)
		price := 100.0
		for i := range closes {
			price += rng.Float64()*4 - 2
			closes[i] = price
		}
		v, err := stoch.Calculate(ctx, klinesFromCloses(closes...))
		require.NoError(t, err)
		assert.False(t, math.IsNaN(v))
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}

	_, err = stoch.Calculate(ctx, klinesFromCloses(1, 2, 3))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestATR_Calculate(t *testing.T) {
	ctx := context.Background()
	atr := NewATR(ATRConfig{IndicatorConfig: IndicatorConfig{Period: 14}})

	flat, err := atr.Calculate(ctx, klinesFromCloses(rampCloses(60, 100, 0)...))
	require.NoError(t, err)
	assert.Equal(t, 0.0, flat)

	klines := klinesFromCloses(rampCloses(20, 100, 0)...)
	for _, k := range klines {
		k.High = k.Close + 1
		k.Low = k.Close - 1
	}
	v, err := atr.Calculate(ctx, klines)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v, 1e-9)

	_, err = atr.Calculate(ctx, klines[:5])
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestTrueRange_UsesPreviousClose(t *testing.T) {
	klines := []*domain.Kline{
		{High: 10, Low: 9, Close: 9.5},
		{High: 12, Low: 11, Close: 11.5}, // gap up: |12 - 9.5| = 2.5
	}
	assert.Equal(t, []float64{1, 2.5}, TrueRange(klines))
}

func TestADX_Values(t *testing.T) {
	adx := NewADX(ADXConfig{IndicatorConfig: IndicatorConfig{Period: 14}})

	flat := adx.Values(klinesFromCloses(rampCloses(60, 100, 0)...))
	assert.Equal(t, ADXValues{}, flat, "zero range leaves every reading undefined")

	// highs climb faster than lows, so only +DM is ever positive
	klines := klinesFromCloses(rampCloses(60, 100, 1.5)...)
	for i, k := range klines {
		k.High = 101 + 2*float64(i)
		k.Low = 99 + float64(i)
	}
	v := adx.Values(klines)
	assert.InDelta(t, 100, v.ADX, 1e-9)
	assert.Greater(t, v.PlusDI, v.MinusDI)
	assert.Equal(t, 0.0, v.MinusDI)

	short := adx.Values(klines[:10])
	assert.Equal(t, 0.0, short.ADX)

	_, err := adx.Calculate(context.Background(), klines[:10])
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestMACD_Values(t *testing.T) {
	macd := NewMACD(MACDConfig{FastPeriod: 12, SlowPeriod: 26, SignalPeriod: 9})

	up, err := macd.Values(klinesFromCloses(rampCloses(60, 100, 1)...))
	require.NoError(t, err)
	assert.Greater(t, up.MACD, up.Signal)

	down, err := macd.Values(klinesFromCloses(rampCloses(60, 200, -1)...))
	require.NoError(t, err)
	assert.Less(t, down.MACD, down.Signal)

	flat, err := macd.Values(klinesFromCloses(rampCloses(60, 100, 0)...))
	require.NoError(t, err)
	assert.Equal(t, MACDValues{}, flat)

	_, err = macd.Values(nil)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestVolumeProfile(t *testing.T) {
	klines := klinesFromCloses(rampCloses(11, 0, 1)...) // closes 0..10, one per bin
	for i, k := range klines {
		switch i {
		case 3:
			k.Volume = 100
		case 4:
			k.Volume = 75
		default:
			k.Volume = 10
		}
	}

	vp, err := NewVolumeProfile(klines, 10)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, vp.BinWidth, 1e-9)
	assert.Equal(t, 10.0, vp.Edges[10])
	total := 0.0
	for _, v := range vp.Volumes {
		total += v
	}
	assert.InDelta(t, 255.0, total, 1e-9, "highest close falls outside every bin")

	zones := vp.StrongZones(0.7)
	assert.Equal(t, []float64{3, 4}, zones)
	assert.True(t, vp.InZone(3.5, zones))
	assert.True(t, vp.InZone(5, zones), "upper bound of a zone is inclusive")
	assert.False(t, vp.InZone(7, zones))
}

func TestVolumeProfile_FlatSeriesHasNoZones(t *testing.T) {
	vp, err := NewVolumeProfile(klinesFromCloses(rampCloses(60, 100, 0)...), 10)
	require.NoError(t, err)
	assert.Empty(t, vp.StrongZones(0.7))

	_, err = NewVolumeProfile(nil, 10)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestKeyLevels(t *testing.T) {
	highs := []float64{110, 109.5, 120, 115}
	lows := []float64{100, 100.5, 90, 95}
	klines := make([]*domain.Kline, len(highs))
	for i := range highs {
		klines[i] = &domain.Kline{High: highs[i], Low: lows[i], Close: (highs[i] + lows[i]) / 2}
	}

	levels := KeyLevels(klines, KeyLevelsConfig{Lookback: 50, Passes: 3, Cluster: 0.01})
	assert.Equal(t, []float64{90, 95, 100, 110, 115, 120}, levels)

	supports, resistances := SplitLevels(levels, 105)
	assert.Equal(t, []float64{90, 95, 100}, supports)
	assert.Equal(t, []float64{110, 115, 120}, resistances)

	support, resistance := RangeExtremes(klines, 50)
	assert.Equal(t, 90.0, support)
	assert.Equal(t, 120.0, resistance)
}

func TestKeyLevels_FlatSeriesCollapsesToPrice(t *testing.T) {
	klines := klinesFromCloses(rampCloses(60, 100, 0)...)
	levels := KeyLevels(klines, KeyLevelsConfig{Lookback: 50, Passes: 3, Cluster: 0.01})
	assert.Equal(t, []float64{100}, levels)

	support, resistance := RangeExtremes(klines, 50)
	assert.Equal(t, 100.0, support)
	assert.Equal(t, support, resistance)
}
