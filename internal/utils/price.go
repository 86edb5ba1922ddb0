package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatPrice renders a price with precision scaled to its magnitude and
// trailing zeros removed: 0.00000089, 0.000234, 0.0046, 123.46, 64213.
func FormatPrice(price float64) string {
	if price == 0 || math.IsNaN(price) {
		return "0.00"
	}
	if math.IsInf(price, 0) {
		return fmt.Sprintf("%v", price)
	}

	var formatted string
	abs := math.Abs(price)
	switch {
	case abs < 0.000001:
		formatted = fmt.Sprintf("%.8f", price)
	case abs < 0.0001:
		formatted = fmt.Sprintf("%.6f", price)
	case abs < 1:
		formatted = fmt.Sprintf("%.4f", price)
	case abs < 1000:
		formatted = fmt.Sprintf("%.2f", price)
	default:
		formatted = fmt.Sprintf("%.0f", price)
	}

	if strings.Contains(formatted, ".") {
		formatted = strings.TrimRight(formatted, "0")
		formatted = strings.TrimRight(formatted, ".")
	}
	return formatted
}

// FormatPrices formats each price and joins them with ", ".
func FormatPrices(prices []float64) string {
	parts := make([]string, len(prices))
	for i, p := range prices {
		parts[i] = FormatPrice(p)
	}
	return strings.Join(parts, ", ")
}
