package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidTimeframes lists the kline intervals accepted per time unit.
var ValidTimeframes = map[string][]string{
	"minutes": {"1m", "3m", "5m", "15m", "30m"},
	"hours":   {"1h", "2h", "4h", "6h", "8h", "12h"},
	"days":    {"1d", "3d"},
	"weeks":   {"1w"},
	"months":  {"1M"},
}

// BuildInterval joins a time value and unit ("4", "hours") into a Binance
// interval ("4h") and checks it against ValidTimeframes.
func BuildInterval(timeUnit, timeValue string) (string, error) {
	unit := strings.ToLower(strings.TrimSpace(timeUnit))
	value := strings.TrimSpace(timeValue)
	if unit == "" || value == "" {
		return "", fmt.Errorf("time unit and value are required")
	}
	if n, err := strconv.Atoi(value); err != nil || n <= 0 {
		return "", fmt.Errorf("time value %q must be a positive integer", timeValue)
	}

	suffix := unit[:1]
	if unit == "months" || unit == "month" {
		suffix = "M"
	}
	interval := value + suffix

	key := unit
	if !strings.HasSuffix(key, "s") {
		key += "s"
	}
	allowed, ok := ValidTimeframes[key]
	if !ok {
		return "", fmt.Errorf("unknown time unit %q", timeUnit)
	}
	for _, tf := range allowed {
		if tf == interval {
			return interval, nil
		}
	}
	return "", fmt.Errorf("interval %s is not supported, valid %s: %s", interval, key, strings.Join(allowed, ", "))
}

// IsValidInterval reports whether interval appears in ValidTimeframes.
func IsValidInterval(interval string) bool {
	for _, list := range ValidTimeframes {
		for _, tf := range list {
			if tf == interval {
				return true
			}
		}
	}
	return false
}
