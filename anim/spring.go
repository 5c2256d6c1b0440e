package anim

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/naftaly/pop"
)

const (
	springFPS             = 60
	defaultSpringFreq     = 6.0
	defaultSpringDamping  = 0.8
	defaultValueThreshold = 1e-3
)

// SpringOption tunes a spring animation.
type SpringOption func(*springSolver)

// WithFrequency sets the spring's angular frequency; higher is stiffer.
func WithFrequency(freq float64) SpringOption {
	return func(s *springSolver) {
		if freq > 0 {
			s.freq = freq
		}
	}
}

// WithDamping sets the damping ratio; below 1 overshoots, 1 is critical.
func WithDamping(damping float64) SpringOption {
	return func(s *springSolver) {
		if damping > 0 {
			s.damping = damping
		}
	}
}

// NewSpring creates a spring animation toward To. The initial velocity is
// taken from the animation's Velocity field when set.
func NewSpring(opts ...SpringOption) *pop.Animation {
	s := &springSolver{
		freq:    defaultSpringFreq,
		damping: defaultSpringDamping,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.spring = harmonica.NewSpring(harmonica.FPS(springFPS), s.freq, s.damping)
	return pop.NewAnimation(pop.KindSpring, s)
}

type springSolver struct {
	freq    float64
	damping float64
	spring  harmonica.Spring

	pos, vel []float64
	accum    float64
	stepped  bool
}

func (s *springSolver) Step(a *pop.Animation, dt, elapsed float64) []float64 {
	to := a.To
	if to == nil {
		return nil
	}

	if s.pos == nil {
		if a.From == nil || len(a.From) != len(to) {
			return nil
		}
		s.pos = append([]float64(nil), a.From...)
		s.vel = make([]float64, len(to))
		copy(s.vel, a.Velocity)
	}

	// harmonica integrates at a fixed timestep; fold the variable frame
	// dt into whole steps
	s.accum += dt
	step := 1.0 / springFPS
	moved := false
	for s.accum >= step {
		s.accum -= step
		for i := range s.pos {
			p, v := s.spring.Update(s.pos[i], s.vel[i], to[i])
			if p != s.pos[i] || v != s.vel[i] {
				moved = true
			}
			s.pos[i], s.vel[i] = p, v
		}
		s.stepped = true
	}
	if !moved {
		return nil
	}

	out := make([]float64, len(s.pos))
	copy(out, s.pos)
	return out
}

func (s *springSolver) Done(a *pop.Animation) bool {
	if !s.stepped || a.To == nil || s.pos == nil {
		return false
	}

	threshold := defaultValueThreshold
	if a.Prop != nil && a.Prop.Threshold > 0 {
		threshold = a.Prop.Threshold
	}

	for i := range s.pos {
		if math.Abs(s.pos[i]-a.To[i]) >= threshold || math.Abs(s.vel[i]) >= threshold {
			return false
		}
	}
	return true
}

func (s *springSolver) Reset(a *pop.Animation) {
	s.pos = nil
	s.vel = nil
	s.accum = 0
	s.stepped = false
}
