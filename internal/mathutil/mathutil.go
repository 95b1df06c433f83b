// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"cmp"
	"math"
)

// Clamp restricts a value to be within a specified range.
// Returns low if val < low, high if val > high, otherwise returns val.
func Clamp[T cmp.Ordered](val, low, high T) T {
	if val < low {
		return low
	}
	if val > high {
		return high
	}
	return val
}

// Lerp linearly interpolates between a and b. t is not clamped, so values
// outside [0, 1] extrapolate.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// AlmostEqual reports whether a and b differ by no more than tolerance,
// scaled by the larger magnitude once both exceed 1.
func AlmostEqual(a, b, tolerance float64) bool {
	diff := math.Abs(a - b)
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return diff <= tolerance*scale
}
