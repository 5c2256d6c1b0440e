package anim

import (
	"github.com/fogleman/ease"

	"github.com/naftaly/pop"
)

// NewBasic creates a fixed-duration animation between From and To shaped
// by an easing function. A nil easing means linear. Duration is in
// seconds.
func NewBasic(duration float64, easing Easing) *pop.Animation {
	if easing == nil {
		easing = ease.Linear
	}
	return pop.NewAnimation(pop.KindBasic, &basicSolver{
		duration: duration,
		easing:   easing,
	})
}

type basicSolver struct {
	duration float64
	easing   Easing
	finished bool
}

func (s *basicSolver) Step(a *pop.Animation, dt, elapsed float64) []float64 {
	from, to := a.From, a.To
	if from == nil || to == nil || len(from) != len(to) {
		return nil
	}

	t := 1.0
	if s.duration > 0 {
		t = clamp01(elapsed / s.duration)
	}
	if t >= 1 {
		s.finished = true
	}

	e := s.easing(t)
	out := make([]float64, len(from))
	for i := range from {
		out[i] = lerp(from[i], to[i], e)
	}
	return out
}

func (s *basicSolver) Done(a *pop.Animation) bool {
	return s.finished
}

func (s *basicSolver) Reset(a *pop.Animation) {
	s.finished = false
}
