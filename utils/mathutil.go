package utils

import "math"

// Round2 rounds to two decimal places. Applied consistently wherever trait
// or similarity values are persisted, so repeated recomputation of the same
// pair cannot drift.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ClampInt bounds v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
