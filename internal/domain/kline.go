package domain

import "time"

// Kline represents a single candlestick data point.
type Kline struct {
	OpenTime  time.Time // Start time of the interval
	CloseTime time.Time // End time of the interval
	Symbol    string    // Trading symbol
	Interval  string    // Kline interval (e.g., "1m", "1h")
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64 // Base asset volume
}

// Closes extracts the closing prices of a series.
func Closes(klines []*Kline) []float64 {
	out := make([]float64, len(klines))
	for i, k := range klines {
		out[i] = k.Close
	}
	return out
}

// Highs extracts the high prices of a series.
func Highs(klines []*Kline) []float64 {
	out := make([]float64, len(klines))
	for i, k := range klines {
		out[i] = k.High
	}
	return out
}

// Lows extracts the low prices of a series.
func Lows(klines []*Kline) []float64 {
	out := make([]float64, len(klines))
	for i, k := range klines {
		out[i] = k.Low
	}
	return out
}

// Volumes extracts the volumes of a series.
func Volumes(klines []*Kline) []float64 {
	out := make([]float64, len(klines))
	for i, k := range klines {
		out[i] = k.Volume
	}
	return out
}

// LastClose returns the close of the most recent kline, or 0 for an empty series.
func LastClose(klines []*Kline) float64 {
	if len(klines) == 0 {
		return 0
	}
	return klines[len(klines)-1].Close
}
