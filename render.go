package pop

import "github.com/petermattis/goid"

// RenderAtTime advances every scheduled animation to now. This is the
// host-driven entry point for callers that bring their own frame signal;
// with the internal timer disabled a pending drain also runs as part of
// this pass. Calling it from within a frame callout is ignored.
func (a *Animator) RenderAtTime(now float64) {
	if a.renderGID.Load() == goid.Get() {
		a.log.Warn("pop: reentrant render ignored")
		return
	}

	a.renderPass(now, a.snapshotItems())

	if a.timerDisabled {
		a.mu.Lock()
		a.pending = a.pending[:0]
		a.drainScheduled = false
		a.mu.Unlock()
	}
}

func (a *Animator) snapshotItems() []*item {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*item, len(a.items))
	copy(out, a.items)
	return out
}

// drainPending applies the pending list once, just ahead of the next
// frame, so a new animation's first values land in the same visual update
// as other pending work.
func (a *Animator) drainPending() {
	a.mu.Lock()
	pending := make([]*item, len(a.pending))
	copy(pending, a.pending)
	now := a.beginTime
	a.mu.Unlock()

	if now == 0 {
		now = Now()
	}

	a.renderPass(now, pending)

	a.mu.Lock()
	a.pending = a.pending[:0]
	a.drainScheduled = false
	a.mu.Unlock()
}

// renderPass is one frame: delegate callout, per-item state machine walk
// in registration order, observer fan-out. The item slice is the caller's
// snapshot; registrations made by callouts during the pass land on the
// pending list and are not visited until a later pass.
func (a *Animator) renderPass(now float64, items []*item) {
	a.renderGID.Store(goid.Get())
	defer a.renderGID.Store(0)

	a.mu.Lock()
	delegate := a.delegate
	a.mu.Unlock()

	if delegate != nil {
		delegate.WillAnimate(a)
	}
	for _, o := range a.snapshotObservers() {
		o.WillAnimate(a)
	}

	for _, it := range items {
		a.renderItem(it, now)
	}

	// registration order, re-read so observers added mid-pass are
	// included in this frame's completion fan-out
	for _, o := range a.snapshotObservers() {
		o.DidAnimate(a)
	}
	if delegate != nil {
		delegate.DidAnimate(a)
	}
}

func (a *Animator) snapshotObservers() []Observer {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Observer, len(a.observers))
	copy(out, a.observers)
	return out
}

// renderItem runs one item's state machine transition for this frame.
func (a *Animator) renderItem(it *item, now float64) {
	an := it.anim

	target, ok := it.ref.Target()
	if !ok {
		// target went away; a normal, expected completion path
		a.retire(it, true, false)
		return
	}

	an.startIfNeeded(target, now, 0)

	if !an.Active() || an.Paused() {
		// stays scheduled, just not advanced this frame
		return
	}

	if an.advance(now, target) {
		a.applyValues(it, target, false)
		an.delegateApply()
	}

	if !an.done() {
		return
	}

	// finishing pass: snap to the canonical end value and write once
	// more, avoiding a redundant commit
	an.finalizeProgress()
	a.applyValues(it, target, true)
	an.delegateApply()

	if an.decrementRepeat() {
		an.repeatBounds()
		an.stop(false, false)
		an.reset(true)
		// restart immediately so the next cycle begins at the current
		// time with no frame gap
		an.startIfNeeded(target, now, 0)
		return
	}

	an.restoreBounds()
	a.retire(it, an.RemovedOnCompletion, true)
}

// applyValues commits the animation's current values to the target.
// finishing selects the redundant-write suppression paths.
func (a *Animator) applyValues(it *item, target any, finishing bool) {
	an := it.anim

	vals := an.snapshotValues()
	if vals == nil {
		return
	}

	p := an.Prop
	if p == nil || p.Write == nil {
		// no write capability; the value is silently dropped
		return
	}

	if an.Additive {
		prev := an.previousSnapshot()
		delta := make([]float64, len(vals))
		for i := range vals {
			// first sample composes against a zero baseline
			if prev != nil && i < len(prev) {
				delta[i] = vals[i] - prev[i]
			} else {
				delta[i] = vals[i]
			}
		}

		if finishing && allZero(delta) {
			return
		}

		out := delta
		if p.Read != nil {
			cur := p.Read(target)
			out = make([]float64, len(delta))
			for i := range delta {
				if i < len(cur) {
					out[i] = cur[i] + delta[i]
				} else {
					out[i] = delta[i]
				}
			}
		}

		p.Write(target, out)
		an.recordSample(vals)
		return
	}

	// outside the initial pass only: skip the write when the committed
	// value already equals the computed one
	if finishing && an.wroteBefore() && p.Read != nil {
		if equalValues(p.Read(target), vals) {
			return
		}
	}

	p.Write(target, vals)
	an.recordSample(vals)
}

// retire removes the item from the registry and both lists (when
// shouldRemove is set) and stops its animation. An entry already removed
// by a concurrent caller is treated as handled.
func (a *Animator) retire(it *item, shouldRemove, finished bool) {
	an := it.anim
	tok := it.ref.Token()

	a.mu.Lock()
	current := a.registry[tok][it.key]
	if current != an {
		// removed (or replaced) while this pass was mid-flight
		a.mu.Unlock()
		return
	}
	if shouldRemove {
		delete(a.registry[tok], it.key)
		if len(a.registry[tok]) == 0 {
			delete(a.registry, tok)
		}
		a.items = removeItem(a.items, tok, it.key)
		a.pending = removeItem(a.pending, tok, it.key)
	}
	a.updateTimerLocked()
	a.mu.Unlock()

	an.stop(shouldRemove, finished)
	if shouldRemove {
		an.reset(false)
	}
}

func allZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
