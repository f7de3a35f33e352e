package systems

import "math"

const twoPi = 2 * math.Pi

// LerpAngle moves from angle a toward b by fraction t along the shorter arc.
// The difference is wrapped into (-Pi, Pi] before scaling, so the result never
// jumps by a full turn when the inputs straddle the 0/2Pi seam.
func LerpAngle(a, b, t float64) float64 {
	diff := b - a
	for diff > math.Pi {
		diff -= twoPi
	}
	for diff <= -math.Pi {
		diff += twoPi
	}
	return a + diff*t
}

// EaseOutCubic maps t in [0, 1] to 1-(1-t)^3.
func EaseOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}
