// Package utils contains small numeric and environment helpers shared by the planner packages.
package utils

import (
	"math"
)

// TwoPi is a full revolution in radians.
const TwoPi = 2 * math.Pi

// ModAngRad wraps an angle in radians into [0, 2pi).
func ModAngRad(ang float64) float64 {
	wrapped := math.Mod(ang, TwoPi)
	if wrapped < 0 {
		wrapped += TwoPi
	}
	// math.Mod of a tiny negative value plus 2pi can round up to exactly 2pi.
	if wrapped >= TwoPi {
		wrapped = 0
	}
	return wrapped
}

// AngleDiffRad returns the unsigned length of the shorter arc between two angles in radians.
// The arguments are commutative and need not be wrapped.
func AngleDiffRad(a1, a2 float64) float64 {
	d := math.Mod(math.Abs(a1-a2), TwoPi)
	return math.Min(d, TwoPi-d)
}
