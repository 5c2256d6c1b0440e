package pop

import "sync"

// Kind discriminates the animation variants the render loop has to treat
// differently. Repeat and reverse semantics are keyed off this rather than
// runtime type inspection.
type Kind int

const (
	KindCustom Kind = iota
	KindBasic
	KindSpring
	KindDecay
	KindGroup
)

// Solver integrates a single animation curve. It is the only piece of an
// animation the core doesn't own: the scheduler decides when and how often
// to step, the solver decides what the values are.
type Solver interface {
	// Step advances the curve by dt seconds (elapsed is the total time
	// since the animation started) and returns the new current values,
	// or nil if nothing changed this frame.
	Step(a *Animation, dt, elapsed float64) []float64

	// Done reports curve convergence.
	Done(a *Animation) bool

	// Reset clears integrator state so the animation can run again.
	Reset(a *Animation)
}

// AnimationDelegate receives animation-local callouts.
type AnimationDelegate interface {
	DidStart(a *Animation)
	DidApply(a *Animation)
	DidStop(a *Animation, finished bool)
}

// Tracer is an optional sink for debugging animation state transitions.
type Tracer interface {
	DidStart(a *Animation, now float64)
	DidAdvance(a *Animation, values []float64, now float64)
	DidStop(a *Animation, finished bool)
}

// Animation is one schedulable value animation. The shared state machine
// (start, advance, finish, repeat, autoreverse) lives here; the numeric
// integration is delegated to the Solver.
//
// Configuration fields are meant to be set before the animation is added to
// an animator. Mutating them while the animation is being driven is not
// synchronized.
type Animation struct {
	Kind Kind

	// KeyPath names the property to animate when Prop is nil. It is
	// resolved once at registration time (target resolver first, then
	// the animator's provider) and cached in Prop.
	KeyPath string

	// Prop is the read/write capability bound to the target. A nil
	// write capability means produced values are silently dropped.
	Prop *Property

	From     []float64
	To       []float64
	Velocity []float64

	// Additive animations are combined as a delta against the target's
	// externally read current value rather than written directly.
	Additive bool

	// BeginTime delays the start by this many seconds.
	BeginTime float64

	RepeatCount   int
	RepeatForever bool
	Autoreverses  bool

	// RemovedOnCompletion controls whether a finished, non-repeating
	// animation is deregistered automatically. Defaults to true.
	RemovedOnCompletion bool

	Delegate AnimationDelegate
	Tracer   Tracer

	// Subs holds the named sub-animations of a KindGroup composite.
	Subs map[string]*Animation

	solver Solver

	mu         sync.Mutex
	started    bool
	active     bool
	paused     bool
	startTime  float64
	lastTime   float64
	values     []float64
	prevValues []float64
	prev2      []float64
	hasWritten bool
	reversed   bool

	// originating velocity, restored before each non-autoreversing
	// decay repeat
	originalVelocity []float64
}

// NewAnimation creates an animation of the given kind driven by solver.
func NewAnimation(kind Kind, solver Solver) *Animation {
	return &Animation{
		Kind:                kind,
		RemovedOnCompletion: true,
		solver:              solver,
	}
}

// Active reports whether the animation has started and not yet stopped.
func (an *Animation) Active() bool {
	an.mu.Lock()
	defer an.mu.Unlock()
	return an.active
}

// Started reports whether the animation has been initialized against a
// frame time since its last reset.
func (an *Animation) Started() bool {
	an.mu.Lock()
	defer an.mu.Unlock()
	return an.started
}

// Paused reports the user pause flag. A paused animation stays scheduled
// but is skipped by the frame pass.
func (an *Animation) Paused() bool {
	an.mu.Lock()
	defer an.mu.Unlock()
	return an.paused
}

// SetPaused toggles the user pause flag.
func (an *Animation) SetPaused(paused bool) {
	an.mu.Lock()
	an.paused = paused
	an.mu.Unlock()
}

// CurrentValues returns a copy of the most recently produced values, or
// nil if the animation hasn't produced any yet.
func (an *Animation) CurrentValues() []float64 {
	an.mu.Lock()
	defer an.mu.Unlock()
	return cloneValues(an.values)
}

// Solver returns the integration collaborator.
func (an *Animation) Solver() Solver {
	return an.solver
}

// startIfNeeded initializes the state machine against the current time.
// Idempotent once started. Establishes From by reading the target when the
// caller didn't provide one.
func (an *Animation) startIfNeeded(target any, now, offset float64) bool {
	an.mu.Lock()
	if an.started {
		an.mu.Unlock()
		return false
	}
	an.started = true
	an.active = true
	an.startTime = now + offset + an.BeginTime
	an.lastTime = an.startTime

	if an.originalVelocity == nil && an.Velocity != nil {
		an.originalVelocity = cloneValues(an.Velocity)
	}

	p := an.Prop
	needFrom := an.From == nil && p != nil && p.Read != nil
	tracer, delegate := an.Tracer, an.Delegate
	an.mu.Unlock()

	if needFrom && target != nil {
		from := p.Read(target)
		an.mu.Lock()
		if an.From == nil {
			an.From = from
		}
		an.mu.Unlock()
	}

	if tracer != nil {
		tracer.DidStart(an, now)
	}
	if delegate != nil {
		delegate.DidStart(an)
	}
	return true
}

// advance moves internal progress to now. Reports whether the produced
// values changed; false also covers not-yet-begun and zero-dt calls.
func (an *Animation) advance(now float64, target any) bool {
	an.mu.Lock()
	if !an.active || an.paused || now < an.startTime {
		an.mu.Unlock()
		return false
	}
	dt := now - an.lastTime
	if dt <= 0 {
		an.mu.Unlock()
		return false
	}
	an.lastTime = now
	elapsed := now - an.startTime
	s := an.solver
	tracer := an.Tracer
	an.mu.Unlock()

	if s == nil {
		return false
	}
	vals := s.Step(an, dt, elapsed)
	if vals == nil {
		return false
	}

	an.mu.Lock()
	an.values = vals
	an.mu.Unlock()

	if tracer != nil {
		tracer.DidAdvance(an, cloneValues(vals), now)
	}
	return true
}

// done reports whether the solver has converged this frame.
func (an *Animation) done() bool {
	if an.solver == nil {
		return true
	}
	return an.solver.Done(an)
}

// finalizeProgress snaps the produced values to the canonical end value.
func (an *Animation) finalizeProgress() {
	an.mu.Lock()
	if an.To != nil {
		an.values = cloneValues(an.To)
	}
	an.mu.Unlock()
}

// stop deactivates the state machine. finished distinguishes natural
// completion from interruption; shouldRemove mirrors whether the animator
// is retiring the item.
func (an *Animation) stop(shouldRemove, finished bool) {
	an.mu.Lock()
	an.active = false
	tracer, delegate := an.Tracer, an.Delegate
	an.mu.Unlock()

	_ = shouldRemove

	if tracer != nil {
		tracer.DidStop(an, finished)
	}
	if delegate != nil {
		delegate.DidStop(an, finished)
	}
}

// reset clears internal progress. A non-forced reset only applies to
// animations that are removed on completion; forced resets support
// instance reuse and same-frame repeat restarts.
func (an *Animation) reset(force bool) {
	an.mu.Lock()
	if !force && !an.RemovedOnCompletion {
		an.mu.Unlock()
		return
	}
	an.started = false
	an.active = false
	an.values = nil
	an.prevValues = nil
	an.prev2 = nil
	an.hasWritten = false
	an.startTime = 0
	an.lastTime = 0
	s := an.solver
	an.mu.Unlock()

	if s != nil {
		s.Reset(an)
	}
}

// delegateApply fires the animation-local apply callout.
func (an *Animation) delegateApply() {
	an.mu.Lock()
	delegate := an.Delegate
	an.mu.Unlock()

	if delegate != nil {
		delegate.DidApply(an)
	}
}

// decrementRepeat consumes one repeat cycle and reports whether another
// cycle should run.
func (an *Animation) decrementRepeat() bool {
	an.mu.Lock()
	defer an.mu.Unlock()
	if an.RepeatCount > 0 {
		an.RepeatCount--
	}
	return an.RepeatForever || an.RepeatCount > 0
}

// repeatBounds prepares From/To (or velocity, for decay) for the next
// repeat cycle.
func (an *Animation) repeatBounds() {
	an.mu.Lock()
	defer an.mu.Unlock()

	switch {
	case an.Autoreverses && an.Kind == KindDecay:
		// decay has no meaningful bounds to mirror; reverse the
		// velocity instead
		for i := range an.Velocity {
			an.Velocity[i] = -an.Velocity[i]
		}
	case an.Autoreverses:
		an.From, an.To = an.To, an.From
		an.reversed = !an.reversed
	case an.Kind == KindDecay:
		an.Velocity = cloneValues(an.originalVelocity)
	default:
		// advance the bounds forward so the next cycle starts where
		// this one finished
		if an.From != nil && an.To != nil && len(an.From) == len(an.To) {
			from := cloneValues(an.To)
			to := make([]float64, len(an.To))
			for i := range an.To {
				to[i] = an.To[i] + (an.To[i] - an.From[i])
			}
			an.From, an.To = from, to
		}
	}
}

// restoreBounds swaps autoreversed bounds back to their original order
// once the animation fully completes on a mirrored cycle.
func (an *Animation) restoreBounds() {
	an.mu.Lock()
	defer an.mu.Unlock()
	if an.Autoreverses && an.reversed {
		an.From, an.To = an.To, an.From
		an.reversed = false
	}
}

// snapshotValues returns the current values, or nil if none were produced.
func (an *Animation) snapshotValues() []float64 {
	an.mu.Lock()
	defer an.mu.Unlock()
	return cloneValues(an.values)
}

// previousSnapshot returns the last committed sample.
func (an *Animation) previousSnapshot() []float64 {
	an.mu.Lock()
	defer an.mu.Unlock()
	return cloneValues(an.prevValues)
}

// recordSample rotates the two most recent committed samples.
func (an *Animation) recordSample(vals []float64) {
	an.mu.Lock()
	an.prev2 = an.prevValues
	an.prevValues = cloneValues(vals)
	an.hasWritten = true
	an.mu.Unlock()
}

func (an *Animation) wroteBefore() bool {
	an.mu.Lock()
	defer an.mu.Unlock()
	return an.hasWritten
}

func cloneValues(v []float64) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

func equalValues(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
