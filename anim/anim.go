// Package anim provides the concrete animation kinds driven by the pop
// scheduler: eased time curves, springs, exponential decay, custom time
// functions, and composites. Each kind is a Solver; the scheduler decides
// when to step it, the solver decides what the values are.
package anim

// Easing maps normalized time to normalized progress, as in
// github.com/fogleman/ease.
type Easing func(t float64) float64

func lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
