package mathutil

import "math"

// Clamp returns v limited to [lo, hi]. NaN passes through unchanged.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1]. NaN maps to 0 so callers can index with the result.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return Clamp(v, 0, 1)
}

// Wrap01 wraps v into [0, 1) for finite input. NaN and ±Inf map to 0.
func Wrap01(v float64) float64 {
	if !IsFinite(v) {
		return 0
	}
	w := v - math.Floor(v)
	if w >= 1 {
		// floor rounding on values like -1e-17
		return 0
	}
	return w
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
