package pop

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/naftaly/pop/internal/keys"
	"github.com/naftaly/pop/internal/weakref"
)

// Animator schedules value animations against a display refresh signal.
// It owns the registry mapping (target, key) pairs to animations, the
// ordered active list the frame pass walks, and the pending list of
// registrations awaiting their first deferred drain.
//
// All structural state is guarded by one mutex. The mutex is never held
// across a callout into animation, delegate, observer, or property code,
// so every callout may safely re-enter the animator.
type Animator struct {
	mu sync.Mutex

	registry map[weakref.Token]map[string]*Animation
	items    []*item // active list, insertion ordered
	pending  []*item // subset of items awaiting one drain

	// at most one outstanding drain per animator
	drainScheduled bool

	observers []Observer
	delegate  AnimatorDelegate

	proxies  map[weakref.Token]*Proxy
	provider PropertyProvider

	// externally supplied fixed time for drains; zero means read the clock
	beginTime float64

	log *slog.Logger

	timer              frameTimer
	timerDisabled      bool
	coalescingDisabled bool
	frameInterval      time.Duration

	frames  chan float64
	drainCh chan struct{}
	closed  chan struct{}

	// in-flight coalescing counter for ticks arriving off the render
	// goroutine
	enqueued atomic.Int32

	// goroutine id of an in-progress render pass, for reentrancy detection
	renderGID atomic.Int64

	closeOnce sync.Once
}

// Option configures an Animator.
type Option func(*Animator)

// WithTimerDisabled disables the internal frame clock. Advancement is then
// host driven through RenderAtTime, and pending drains fall back to running
// as part of the next manual pass.
func WithTimerDisabled() Option {
	return func(a *Animator) { a.timerDisabled = true }
}

// WithCoalescingDisabled queues every timer tick to the render goroutine
// instead of dropping ticks while a hand-off is in flight.
func WithCoalescingDisabled() Option {
	return func(a *Animator) { a.coalescingDisabled = true }
}

// WithFrameInterval overrides the frame clock interval (default 60 Hz).
func WithFrameInterval(d time.Duration) Option {
	return func(a *Animator) {
		if d > 0 {
			a.frameInterval = d
		}
	}
}

// WithLogger installs a structured logger. The default discards.
func WithLogger(log *slog.Logger) Option {
	return func(a *Animator) {
		if log != nil {
			a.log = log
		}
	}
}

// WithPropertyProvider installs the animator-wide key-path resolver.
func WithPropertyProvider(p PropertyProvider) Option {
	return func(a *Animator) { a.provider = p }
}

// New creates an animator. Unless the timer is disabled it starts ticking
// as soon as there is something to drive.
func New(opts ...Option) *Animator {
	a := &Animator{
		registry:      make(map[weakref.Token]map[string]*Animation),
		proxies:       make(map[weakref.Token]*Proxy),
		log:           slog.New(slog.DiscardHandler),
		frameInterval: time.Second / 60,
		frames:        make(chan float64, 1),
		drainCh:       make(chan struct{}, 1),
		closed:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(a)
	}

	if !a.timerDisabled {
		a.timer = newDisplayLink(a.frameInterval, a.tick)
		go a.loop()
	}

	return a
}

var (
	sharedOnce sync.Once
	shared     *Animator
)

// Shared returns the process-wide animator, constructing it on first use.
// It lives for the duration of the process.
func Shared() *Animator {
	sharedOnce.Do(func() { shared = New() })
	return shared
}

// Close stops the frame clock and the render goroutine. Pending and active
// animations are left in place; Close exists for hosts and tests that need
// deterministic shutdown.
func (a *Animator) Close() {
	a.closeOnce.Do(func() {
		close(a.closed)
		if a.timer != nil {
			a.timer.Stop()
		}
	})
}

// SetBeginTime fixes the time drains render at. Zero restores reading the
// clock.
func (a *Animator) SetBeginTime(t float64) {
	a.mu.Lock()
	a.beginTime = t
	a.mu.Unlock()
}

// Add registers an animation on target under key. A nil target or
// animation is a no-op. An empty key is replaced with a generated,
// process-unique one. Re-adding the identical animation instance under the
// same key is idempotent; a different instance first retires the prior
// occupant. The animation's internal progress is unconditionally reset so
// instances can be reused.
//
// The registration is applied to the target on the next drain or frame
// pass, never synchronously.
func (a *Animator) Add(target any, key string, an *Animation) {
	if target == nil || an == nil {
		return
	}

	ref, ok := weakref.Make(target)
	if !ok {
		a.log.Warn("pop: animation target must be a non-nil pointer", "key", key)
		return
	}
	if key == "" {
		key = keys.Next()
	}

	a.resolveProperty(target, an)

	tok := ref.Token()

	a.mu.Lock()
	prior := a.registry[tok][key]
	if prior == an {
		a.mu.Unlock()
		return
	}
	if prior != nil {
		// retire the prior occupant without the cleanup pass; the
		// entry is about to be overwritten anyway
		a.items = removeItem(a.items, tok, key)
		a.pending = removeItem(a.pending, tok, key)
	}

	byKey := a.registry[tok]
	if byKey == nil {
		byKey = make(map[string]*Animation)
		a.registry[tok] = byKey
	}
	byKey[key] = an

	it := newItem(ref, key, an)
	a.items = append(a.items, it)
	a.pending = append(a.pending, it)

	needDrain := a.scheduleDrainLocked()
	a.updateTimerLocked()
	a.mu.Unlock()

	if prior != nil {
		prior.stop(true, !prior.Active())
	}
	an.reset(true)

	a.log.Debug("pop: added animation", "key", key, "kind", an.Kind)

	if needDrain {
		select {
		case a.drainCh <- struct{}{}:
		default:
		}
	}

	// a composite registers each named sub-animation under its own key
	if an.Kind == KindGroup {
		for subKey, sub := range an.Subs {
			a.Add(target, subKey, sub)
		}
	}
}

// Remove deregisters the animation under (target, key). Removing an absent
// key is a no-op. A composite first removes each named sub-key. By the
// time Remove returns the registry and active list no longer contain the
// entry, even if a frame pass is mid-flight.
func (a *Animator) Remove(target any, key string) {
	ref, ok := weakref.Make(target)
	if !ok {
		return
	}
	a.removeToken(ref.Token(), key)
}

func (a *Animator) removeToken(tok weakref.Token, key string) {
	a.mu.Lock()
	an := a.registry[tok][key]
	if an == nil {
		a.mu.Unlock()
		return
	}

	var subKeys []string
	if an.Kind == KindGroup {
		for subKey := range an.Subs {
			subKeys = append(subKeys, subKey)
		}
	}

	delete(a.registry[tok], key)
	if len(a.registry[tok]) == 0 {
		delete(a.registry, tok)
	}
	a.items = removeItem(a.items, tok, key)
	a.pending = removeItem(a.pending, tok, key)
	a.updateTimerLocked()
	a.mu.Unlock()

	for _, subKey := range subKeys {
		a.removeToken(tok, subKey)
	}

	// finished only when it had already gone inactive on its own
	an.stop(true, !an.Active())

	a.log.Debug("pop: removed animation", "key", key)
}

// RemoveAll deregisters every animation attached to target.
func (a *Animator) RemoveAll(target any) {
	ref, ok := weakref.Make(target)
	if !ok {
		return
	}
	tok := ref.Token()

	a.mu.Lock()
	byKey := a.registry[tok]
	delete(a.registry, tok)

	stopped := make([]*Animation, 0, len(byKey))
	for key, an := range byKey {
		a.items = removeItem(a.items, tok, key)
		a.pending = removeItem(a.pending, tok, key)
		stopped = append(stopped, an)
	}
	a.updateTimerLocked()
	a.mu.Unlock()

	for _, an := range stopped {
		an.stop(true, !an.Active())
	}
}

// Keys returns the association keys of every animation attached to target.
// The result is a snapshot, safe to iterate without synchronization.
func (a *Animator) Keys(target any) []string {
	ref, ok := weakref.Make(target)
	if !ok {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	byKey := a.registry[ref.Token()]
	if len(byKey) == 0 {
		return nil
	}
	out := make([]string, 0, len(byKey))
	for key := range byKey {
		out = append(out, key)
	}
	return out
}

// Animations returns a snapshot of every animation attached to target.
func (a *Animator) Animations(target any) []*Animation {
	ref, ok := weakref.Make(target)
	if !ok {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	byKey := a.registry[ref.Token()]
	if len(byKey) == 0 {
		return nil
	}
	out := make([]*Animation, 0, len(byKey))
	for _, an := range byKey {
		out = append(out, an)
	}
	return out
}

// Animation returns the animation attached to target under key, or nil.
func (a *Animator) Animation(target any, key string) *Animation {
	ref, ok := weakref.Make(target)
	if !ok {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.registry[ref.Token()][key]
}

// scheduleDrainLocked requests a deferred drain of the pending list.
// Idempotent while one is outstanding. Reports whether the caller should
// signal the render goroutine; in host-driven mode the drain instead runs
// as part of the next manual pass.
func (a *Animator) scheduleDrainLocked() bool {
	if a.drainScheduled {
		return false
	}
	a.drainScheduled = true
	return !a.timerDisabled
}

// updateTimerLocked reflects whether there is any reason to keep ticking.
func (a *Animator) updateTimerLocked() {
	if a.timer == nil {
		return
	}
	if len(a.observers) == 0 && len(a.items) == 0 {
		a.timer.Pause()
	} else {
		a.timer.Resume()
	}
}
