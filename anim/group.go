package anim

import "github.com/naftaly/pop"

// NewGroup creates a composite animation. Adding the group registers each
// named sub-animation under its own key on the same target; removing the
// group key removes the sub-keys first. The group itself produces no
// values and finishes once every sub-animation has run to a stop.
func NewGroup(subs map[string]*pop.Animation) *pop.Animation {
	a := pop.NewAnimation(pop.KindGroup, &groupSolver{})
	a.Subs = subs
	return a
}

// groupSolver remembers which subs it has observed running, because a
// finished sub is reset and no longer reports as started.
type groupSolver struct {
	seen map[*pop.Animation]bool
}

func (*groupSolver) Step(a *pop.Animation, dt, elapsed float64) []float64 {
	return nil
}

func (s *groupSolver) Done(a *pop.Animation) bool {
	if s.seen == nil {
		s.seen = make(map[*pop.Animation]bool, len(a.Subs))
	}
	done := true
	for _, sub := range a.Subs {
		if sub.Started() || sub.Active() {
			s.seen[sub] = true
		}
		if !s.seen[sub] || sub.Active() {
			done = false
		}
	}
	return done
}

func (s *groupSolver) Reset(a *pop.Animation) { s.seen = nil }
