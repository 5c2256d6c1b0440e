package anim

import "github.com/naftaly/pop"

// CustomFunc produces raw values for a point in time. elapsed is the time
// since the animation started; returning done retires the animation after
// this frame. Returning nil values means nothing changed.
type CustomFunc func(a *pop.Animation, elapsed float64) (values []float64, done bool)

// NewCustom creates an animation driven by an arbitrary time function.
func NewCustom(fn CustomFunc) *pop.Animation {
	return pop.NewAnimation(pop.KindCustom, &customSolver{fn: fn})
}

type customSolver struct {
	fn       CustomFunc
	finished bool
}

func (s *customSolver) Step(a *pop.Animation, dt, elapsed float64) []float64 {
	if s.fn == nil {
		s.finished = true
		return nil
	}
	values, done := s.fn(a, elapsed)
	if done {
		s.finished = true
	}
	return values
}

func (s *customSolver) Done(a *pop.Animation) bool {
	return s.finished
}

func (s *customSolver) Reset(a *pop.Animation) {
	s.finished = false
}
