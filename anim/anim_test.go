package anim

import (
	"testing"

	"github.com/fogleman/ease"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naftaly/pop"
)

func TestBasic(t *testing.T) {
	t.Run("linear by default", func(t *testing.T) {
		an := NewBasic(2, nil)
		an.From = []float64{0, 100}
		an.To = []float64{10, 200}
		s := an.Solver()

		assert.Equal(t, []float64{2.5, 125}, s.Step(an, 0.5, 0.5))
		assert.False(t, s.Done(an))

		assert.Equal(t, []float64{10, 200}, s.Step(an, 1.5, 2))
		assert.True(t, s.Done(an))
	})

	t.Run("easing shapes progress", func(t *testing.T) {
		an := NewBasic(1, ease.InQuad)
		an.From = []float64{0}
		an.To = []float64{10}

		// quadratic ease-in: t=0.5 maps to 0.25
		assert.Equal(t, []float64{2.5}, an.Solver().Step(an, 0.5, 0.5))
	})

	t.Run("progress clamps past the duration", func(t *testing.T) {
		an := NewBasic(1, nil)
		an.From = []float64{0}
		an.To = []float64{10}

		assert.Equal(t, []float64{10}, an.Solver().Step(an, 5, 5))
	})

	t.Run("zero duration finishes on the first step", func(t *testing.T) {
		an := NewBasic(0, nil)
		an.From = []float64{0}
		an.To = []float64{10}
		s := an.Solver()

		assert.Equal(t, []float64{10}, s.Step(an, 0.1, 0.1))
		assert.True(t, s.Done(an))
	})

	t.Run("mismatched bounds produce nothing", func(t *testing.T) {
		an := NewBasic(1, nil)
		an.From = []float64{0}
		an.To = []float64{1, 2}

		assert.Nil(t, an.Solver().Step(an, 0.5, 0.5))
	})

	t.Run("reset rearms a finished curve", func(t *testing.T) {
		an := NewBasic(1, nil)
		an.From = []float64{0}
		an.To = []float64{10}
		s := an.Solver()

		s.Step(an, 1, 1)
		require.True(t, s.Done(an))

		s.Reset(an)
		assert.False(t, s.Done(an))
	})
}

func TestSpring(t *testing.T) {
	step := 1.0 / 60

	t.Run("converges onto the target", func(t *testing.T) {
		an := NewSpring()
		an.From = []float64{0}
		an.To = []float64{1}
		s := an.Solver()

		var last []float64
		for i := 0; i < 10000 && !s.Done(an); i++ {
			if out := s.Step(an, step, float64(i)*step); out != nil {
				last = out
			}
		}

		require.True(t, s.Done(an))
		require.NotNil(t, last)
		assert.InDelta(t, 1, last[0], 1e-3)
	})

	t.Run("underdamped spring overshoots", func(t *testing.T) {
		an := NewSpring(WithDamping(0.3))
		an.From = []float64{0}
		an.To = []float64{1}
		s := an.Solver()

		peak := 0.0
		for i := 0; i < 10000 && !s.Done(an); i++ {
			if out := s.Step(an, step, float64(i)*step); out != nil && out[0] > peak {
				peak = out[0]
			}
		}

		assert.Greater(t, peak, 1.0)
	})

	t.Run("sub-step deltas accumulate", func(t *testing.T) {
		an := NewSpring()
		an.From = []float64{0}
		an.To = []float64{1}
		s := an.Solver()

		// each delta is under the fixed timestep; only the second call
		// crosses it and integrates
		assert.Nil(t, s.Step(an, step/2, step/2))
		assert.NotNil(t, s.Step(an, step/2, step))
	})

	t.Run("property threshold widens convergence", func(t *testing.T) {
		coarse := NewSpring()
		coarse.From = []float64{0}
		coarse.To = []float64{1}
		coarse.Prop = &pop.Property{Name: "x", Threshold: 0.5}

		fine := NewSpring()
		fine.From = []float64{0}
		fine.To = []float64{1}

		steps := func(an *pop.Animation) int {
			s := an.Solver()
			for i := 0; i < 10000; i++ {
				s.Step(an, step, float64(i)*step)
				if s.Done(an) {
					return i
				}
			}
			return -1
		}

		nc, nf := steps(coarse), steps(fine)
		require.NotEqual(t, -1, nc)
		require.NotEqual(t, -1, nf)
		assert.Less(t, nc, nf)
	})
}

func TestDecay(t *testing.T) {
	step := 1.0 / 60

	t.Run("projects the terminal value at start", func(t *testing.T) {
		an := NewDecay(1000)
		an.From = []float64{0}
		s := an.Solver()

		require.Nil(t, an.To)
		s.Step(an, step, step)
		require.NotNil(t, an.To)
		// v0 * -1/(1000*ln 0.998)
		assert.InDelta(t, 499.5, an.To[0], 0.1)
	})

	t.Run("coasts to a stop near the projection", func(t *testing.T) {
		an := NewDecay(1000)
		an.From = []float64{0}
		s := an.Solver()

		var last []float64
		for i := 0; i < 2000 && !s.Done(an); i++ {
			if out := s.Step(an, step, float64(i)*step); out != nil {
				last = out
			}
		}

		require.True(t, s.Done(an))
		require.NotNil(t, last)
		// first-order integration drifts slightly past the continuous
		// projection
		assert.InDelta(t, an.To[0], last[0], 15)
	})

	t.Run("reset clears the projection", func(t *testing.T) {
		an := NewDecay(1000)
		an.From = []float64{0}
		s := an.Solver()

		s.Step(an, step, step)
		require.NotNil(t, an.To)

		s.Reset(an)
		assert.Nil(t, an.To)
	})

	t.Run("no velocity means no motion", func(t *testing.T) {
		an := NewDecay()
		an.From = []float64{0}

		assert.Nil(t, an.Solver().Step(an, step, step))
	})
}

func TestCustom(t *testing.T) {
	t.Run("function output drives the values", func(t *testing.T) {
		an := NewCustom(func(a *pop.Animation, elapsed float64) ([]float64, bool) {
			return []float64{elapsed * 2}, elapsed >= 1
		})
		s := an.Solver()

		assert.Equal(t, []float64{1}, s.Step(an, 0.5, 0.5))
		assert.False(t, s.Done(an))

		assert.Equal(t, []float64{2}, s.Step(an, 0.5, 1))
		assert.True(t, s.Done(an))
	})

	t.Run("nil function finishes immediately", func(t *testing.T) {
		an := NewCustom(nil)
		s := an.Solver()

		assert.Nil(t, s.Step(an, 0.1, 0.1))
		assert.True(t, s.Done(an))
	})
}

func TestColorValues(t *testing.T) {
	c := ColorFromValues([]float64{1.2, -0.1, 0.5})
	assert.Equal(t, 1.0, c.R)
	assert.Equal(t, 0.0, c.G)
	assert.Equal(t, 0.5, c.B)

	assert.Equal(t, []float64{1, 0, 0.5}, ColorValues(c))
}

type box struct{ x, y float64 }

func boxProp() *pop.Property {
	return pop.NewProperty("box",
		func(target any) []float64 {
			b := target.(*box)
			return []float64{b.x, b.y}
		},
		func(target any, values []float64) {
			b := target.(*box)
			b.x, b.y = values[0], values[1]
		})
}

func TestDriven(t *testing.T) {
	t.Run("basic animation writes through the scheduler", func(t *testing.T) {
		a := pop.New(pop.WithTimerDisabled())
		b := &box{}

		an := NewBasic(1, nil)
		an.To = []float64{10, 20}
		an.Prop = boxProp()
		a.Add(b, "move", an)

		a.RenderAtTime(0)
		a.RenderAtTime(0.5)
		assert.Equal(t, 5.0, b.x)
		assert.Equal(t, 10.0, b.y)

		a.RenderAtTime(1)
		assert.Equal(t, 10.0, b.x)
		assert.Equal(t, 20.0, b.y)
		assert.Empty(t, a.Keys(b))
	})

	t.Run("spring settles through the scheduler", func(t *testing.T) {
		a := pop.New(pop.WithTimerDisabled())
		b := &box{}

		an := NewSpring()
		an.From = []float64{0, 0}
		an.To = []float64{10, 20}
		an.Prop = boxProp()
		a.Add(b, "spring", an)

		for i := 0; i <= 600; i++ {
			a.RenderAtTime(float64(i) / 60)
		}

		assert.InDelta(t, 10, b.x, 1e-2)
		assert.InDelta(t, 20, b.y, 1e-2)
		assert.Empty(t, a.Keys(b))
	})

	t.Run("group finishes once its subs settle", func(t *testing.T) {
		a := pop.New(pop.WithTimerDisabled())
		b := &box{}

		x := NewBasic(1, nil)
		x.To = []float64{10, 0}
		x.Prop = boxProp()

		g := NewGroup(map[string]*pop.Animation{"x": x})
		a.Add(b, "both", g)

		a.RenderAtTime(0)
		a.RenderAtTime(1)
		// the group observes the sub stopping one pass later
		a.RenderAtTime(2)
		assert.Empty(t, a.Keys(b))
		assert.Equal(t, 10.0, b.x)
	})
}
