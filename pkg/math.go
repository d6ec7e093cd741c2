package pkg

import "math"

// Round rounds half up (towards +Inf), so Round(-0.5) == 0 and Round(2.5) == 3.
func Round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// RoundTo rounds x half up to the given number of decimal places.
func RoundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return Round(x*p) / p
}

func RoundInt(x float64) int {
	return int(Round(x))
}

func Clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}

func Clamp01(x float64) float64 {
	return Clamp(x, 0, 1)
}

func ClampInt(x, lo, hi int) int {
	return min(hi, max(lo, x))
}

// Mean returns 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev is the population standard deviation; 0 for an empty slice.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Mean(values)
	variance := 0.0
	for _, v := range values {
		variance += (v - m) * (v - m)
	}
	return math.Sqrt(variance / float64(len(values)))
}

// Tail returns the last n values (or all of them when fewer).
func Tail[T any](values []T, n int) []T {
	if n <= 0 {
		return nil
	}
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
