package pop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	x, y float64
}

func pointProp() *Property {
	return NewProperty("point",
		func(target any) []float64 {
			p := target.(*point)
			return []float64{p.x, p.y}
		},
		func(target any, values []float64) {
			p := target.(*point)
			p.x, p.y = values[0], values[1]
		})
}

// linearSolver moves From to To over a fixed duration. Tests use it so
// frame times stay deterministic.
type linearSolver struct {
	duration float64
	finished bool
}

func (s *linearSolver) Step(a *Animation, dt, elapsed float64) []float64 {
	t := 1.0
	if s.duration > 0 && elapsed < s.duration {
		t = elapsed / s.duration
	}
	if elapsed >= s.duration {
		s.finished = true
	}
	out := make([]float64, len(a.From))
	for i := range a.From {
		out[i] = a.From[i] + (a.To[i]-a.From[i])*t
	}
	return out
}

func (s *linearSolver) Done(a *Animation) bool { return s.finished }
func (s *linearSolver) Reset(a *Animation)     { s.finished = false }

func newLinear(duration float64, from, to []float64) *Animation {
	a := NewAnimation(KindBasic, &linearSolver{duration: duration})
	a.From = from
	a.To = to
	return a
}

func TestAdd(t *testing.T) {
	t.Run("nil target or animation is a no-op", func(t *testing.T) {
		a := New(WithTimerDisabled())

		a.Add(nil, "x", newLinear(1, []float64{0}, []float64{1}))
		a.Add(&point{}, "x", nil)

		assert.Empty(t, a.items)
		assert.Empty(t, a.registry)
	})

	t.Run("non-pointer target is a no-op", func(t *testing.T) {
		a := New(WithTimerDisabled())

		a.Add(point{}, "x", newLinear(1, []float64{0}, []float64{1}))

		assert.Empty(t, a.items)
	})

	t.Run("empty key gets a generated unique one", func(t *testing.T) {
		a := New(WithTimerDisabled())
		target := &point{}

		a.Add(target, "", newLinear(1, []float64{0}, []float64{1}))
		a.Add(target, "", newLinear(1, []float64{0}, []float64{1}))

		keys := a.Keys(target)
		require.Len(t, keys, 2)
		assert.NotEqual(t, keys[0], keys[1])
	})

	t.Run("same instance same key is idempotent", func(t *testing.T) {
		a := New(WithTimerDisabled())
		target := &point{}
		an := newLinear(1, []float64{0}, []float64{1})

		a.Add(target, "x", an)
		a.Add(target, "x", an)

		assert.Len(t, a.items, 1)
		assert.Len(t, a.pending, 1)
		assert.Same(t, an, a.Animation(target, "x"))
	})

	t.Run("different instance replaces the prior occupant", func(t *testing.T) {
		a := New(WithTimerDisabled())
		target := &point{}
		first := newLinear(1, []float64{0}, []float64{1})
		second := newLinear(1, []float64{0}, []float64{2})

		a.Add(target, "x", first)
		a.Add(target, "x", second)

		assert.Len(t, a.items, 1)
		assert.Same(t, second, a.Animation(target, "x"))
		assert.Len(t, a.Keys(target), 1)
	})

	t.Run("registry and active list agree", func(t *testing.T) {
		a := New(WithTimerDisabled())
		t1, t2 := &point{}, &point{}

		a.Add(t1, "x", newLinear(1, []float64{0}, []float64{1}))
		a.Add(t1, "y", newLinear(1, []float64{0}, []float64{1}))
		a.Add(t2, "x", newLinear(1, []float64{0}, []float64{1}))

		count := 0
		for _, byKey := range a.registry {
			count += len(byKey)
		}
		assert.Equal(t, 3, count)
		assert.Len(t, a.items, 3)
	})

	t.Run("reset on add supports instance reuse", func(t *testing.T) {
		a := New(WithTimerDisabled())
		target := &point{}
		an := newLinear(1, []float64{0}, []float64{10})
		an.RemovedOnCompletion = false
		a.Add(target, "x", an)

		a.RenderAtTime(0)
		a.RenderAtTime(2)
		require.True(t, an.Started())
		require.False(t, an.Active())

		// re-adding the same, finished instance restarts it
		a.Remove(target, "x")
		a.Add(target, "x", an)
		assert.False(t, an.Started())

		a.RenderAtTime(3)
		assert.True(t, an.Active())
	})
}

func TestRemove(t *testing.T) {
	t.Run("idempotent removal", func(t *testing.T) {
		a := New(WithTimerDisabled())
		target := &point{}

		a.Add(target, "x", newLinear(1, []float64{0}, []float64{1}))
		a.Add(target, "y", newLinear(1, []float64{0}, []float64{1}))

		a.Remove(target, "x")
		a.Remove(target, "x")

		assert.Nil(t, a.Animation(target, "x"))
		assert.NotNil(t, a.Animation(target, "y"))
		assert.Len(t, a.items, 1)
	})

	t.Run("reports finished only when already inactive", func(t *testing.T) {
		a := New(WithTimerDisabled())
		target := &point{}

		log := []bool{}
		an := newLinear(10, []float64{0}, []float64{1})
		an.Delegate = &testAnimDelegate{
			stop: func(a *Animation, finished bool) { log = append(log, finished) },
		}

		a.Add(target, "x", an)
		a.RenderAtTime(0)
		require.True(t, an.Active())

		// mid-flight removal is an interruption, not a finish
		a.Remove(target, "x")
		assert.Equal(t, []bool{false}, log)
	})

	t.Run("remove all snapshots atomically", func(t *testing.T) {
		a := New(WithTimerDisabled())
		target := &point{}
		other := &point{}

		a.Add(target, "x", newLinear(1, []float64{0}, []float64{1}))
		a.Add(target, "y", newLinear(1, []float64{0}, []float64{1}))
		a.Add(other, "x", newLinear(1, []float64{0}, []float64{1}))

		a.RemoveAll(target)

		assert.Empty(t, a.Keys(target))
		assert.Len(t, a.Keys(other), 1)
		assert.Len(t, a.items, 1)
	})

	t.Run("lookups are safe snapshots", func(t *testing.T) {
		a := New(WithTimerDisabled())
		target := &point{}

		a.Add(target, "x", newLinear(1, []float64{0}, []float64{1}))

		keys := a.Keys(target)
		anims := a.Animations(target)
		a.RemoveAll(target)

		// copies survive the removal
		assert.Equal(t, []string{"x"}, keys)
		assert.Len(t, anims, 1)
	})
}

type testAnimDelegate struct {
	start func(a *Animation)
	apply func(a *Animation)
	stop  func(a *Animation, finished bool)
}

func (d *testAnimDelegate) DidStart(a *Animation) {
	if d.start != nil {
		d.start(a)
	}
}

func (d *testAnimDelegate) DidApply(a *Animation) {
	if d.apply != nil {
		d.apply(a)
	}
}

func (d *testAnimDelegate) DidStop(a *Animation, finished bool) {
	if d.stop != nil {
		d.stop(a, finished)
	}
}
