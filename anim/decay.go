package anim

import (
	"math"

	"github.com/naftaly/pop"
)

const (
	// velocity scale factor per millisecond, matching the feel of
	// scroll-view style deceleration
	defaultDeceleration = 0.998

	defaultDecayThreshold = 0.1
)

// NewDecay creates a decay animation that coasts from From with the given
// initial velocity, slowing exponentially until the velocity drops under
// the property threshold. To is projected from the velocity at start.
func NewDecay(velocity ...float64) *pop.Animation {
	a := pop.NewAnimation(pop.KindDecay, &decaySolver{
		deceleration: defaultDeceleration,
	})
	a.Velocity = velocity
	return a
}

type decaySolver struct {
	deceleration float64

	values  []float64
	stepped bool
}

func (s *decaySolver) Step(a *pop.Animation, dt, elapsed float64) []float64 {
	if a.Velocity == nil {
		return nil
	}

	if s.values == nil {
		if a.From == nil || len(a.From) != len(a.Velocity) {
			return nil
		}
		s.values = append([]float64(nil), a.From...)
		s.project(a)
	}

	k := math.Pow(s.deceleration, dt*1000)
	for i := range s.values {
		s.values[i] += a.Velocity[i] * dt
		a.Velocity[i] *= k
	}
	s.stepped = true

	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// project estimates the terminal value from the originating velocity:
// integrating v0*d^(1000t) over all time gives v0 * -1/(1000*ln d).
func (s *decaySolver) project(a *pop.Animation) {
	scale := -1.0 / (1000 * math.Log(s.deceleration))
	to := make([]float64, len(s.values))
	for i := range s.values {
		to[i] = s.values[i] + a.Velocity[i]*scale
	}
	a.To = to
}

func (s *decaySolver) Done(a *pop.Animation) bool {
	if !s.stepped {
		return false
	}

	threshold := defaultDecayThreshold
	if a.Prop != nil && a.Prop.Threshold > 0 {
		threshold = a.Prop.Threshold
	}

	for _, v := range a.Velocity {
		if math.Abs(v) >= threshold {
			return false
		}
	}
	return true
}

func (s *decaySolver) Reset(a *pop.Animation) {
	s.values = nil
	s.stepped = false
	a.To = nil
}
