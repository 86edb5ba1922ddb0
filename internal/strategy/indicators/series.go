package indicators

import "math"

// Rolling-window helpers over float series. A window value is NaN until the
// window is full, or when any element inside it is NaN.

// Diff returns xs[i]-xs[i-1]; the first element is NaN.
func Diff(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = xs[i] - xs[i-1]
	}
	return out
}

// RollingSum returns the sum of each trailing window.
func RollingSum(xs []float64, window int) []float64 {
	return rolling(xs, window, func(w []float64) float64 {
		sum := 0.0
		for _, v := range w {
			sum += v
		}
		return sum
	})
}

// RollingMean returns the arithmetic mean of each trailing window.
func RollingMean(xs []float64, window int) []float64 {
	return rolling(xs, window, func(w []float64) float64 {
		sum := 0.0
		for _, v := range w {
			sum += v
		}
		return sum / float64(len(w))
	})
}

// RollingMin returns the minimum of each trailing window.
func RollingMin(xs []float64, window int) []float64 {
	return rolling(xs, window, func(w []float64) float64 {
		m := w[0]
		for _, v := range w[1:] {
			m = math.Min(m, v)
		}
		return m
	})
}

// RollingMax returns the maximum of each trailing window.
func RollingMax(xs []float64, window int) []float64 {
	return rolling(xs, window, func(w []float64) float64 {
		m := w[0]
		for _, v := range w[1:] {
			m = math.Max(m, v)
		}
		return m
	})
}

func rolling(xs []float64, window int, fn func([]float64) float64) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		if window <= 0 || i < window-1 {
			out[i] = math.NaN()
			continue
		}
		w := xs[i-window+1 : i+1]
		if hasNaN(w) {
			out[i] = math.NaN()
			continue
		}
		out[i] = fn(w)
	}
	return out
}

// EMASeries is the recursive exponential average with alpha = 2/(span+1),
// seeded by the first observation.
func EMASeries(xs []float64, span int) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = out[i-1] + alpha*(xs[i]-out[i-1])
	}
	return out
}

// Last returns the final element of xs, or NaN when xs is empty.
func Last(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return xs[len(xs)-1]
}

// OrDefault replaces NaN and infinities with def.
func OrDefault(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func hasNaN(xs []float64) bool {
	for _, v := range xs {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
