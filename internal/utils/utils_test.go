package utils

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  string
	}{
		{"zero", 0, "0.00"},
		{"nan", math.NaN(), "0.00"},
		{"extremely small", 0.00000089, "0.00000089"},
		{"very small", 0.000234, "0.000234"},
		{"small", 0.00456, "0.0046"},
		{"below one trims zeros", 0.5, "0.5"},
		{"normal", 123.456, "123.46"},
		{"normal integral", 25, "25"},
		{"large", 123456.7, "123457"},
		{"negative normal", -42.5, "-42.5"},
		{"negative large", -2000, "-2000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.price))
		})
	}
}

func TestFormatPrices(t *testing.T) {
	assert.Equal(t, "1.5, 2000", FormatPrices([]float64{1.5, 2000}))
	assert.Equal(t, "", FormatPrices(nil))
}

func TestKlinesCSVRoundTrip(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	klines := []*domain.Kline{
		{OpenTime: start, CloseTime: start.Add(time.Hour), Symbol: "BTCUSDT", Interval: "1h", Open: 100, High: 110, Low: 95, Close: 105.5, Volume: 12.25},
		{OpenTime: start.Add(time.Hour), CloseTime: start.Add(2 * time.Hour), Symbol: "BTCUSDT", Interval: "1h", Open: 105.5, High: 107, Low: 101, Close: 102, Volume: 8},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteKlines(&buf, klines))

	got, err := ReadKlines(&buf)
	require.NoError(t, err)
	assert.Equal(t, klines, got)
}

func TestKlinesCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "klines.csv")
	klines := []*domain.Kline{{OpenTime: time.Unix(0, 0).UTC(), CloseTime: time.Unix(60, 0).UTC(), Symbol: "ETHUSDT", Interval: "1m", Close: 1}}

	require.NoError(t, WriteKlinesToCSV(klines, path))
	got, err := ReadKlinesFromCSV(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ETHUSDT", got[0].Symbol)
}

func TestReadKlinesRejectsBadRows(t *testing.T) {
	input := "open_time,close_time,symbol,interval,open,high,low,close,volume\n" +
		"2024-03-01T00:00:00Z,2024-03-01T01:00:00Z,BTCUSDT,1h,abc,1,1,1,1\n"
	_, err := ReadKlines(bytes.NewBufferString(input))
	assert.Error(t, err)
}
