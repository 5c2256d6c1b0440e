package pop

// Observer is notified around every frame pass, in registration order.
type Observer interface {
	WillAnimate(a *Animator)
	DidAnimate(a *Animator)
}

// AnimatorDelegate is the singular counterpart of Observer.
type AnimatorDelegate interface {
	WillAnimate(a *Animator)
	DidAnimate(a *Animator)
}

// AddObserver registers an observer. Observers keep the frame clock
// running even with no animations scheduled. Duplicate registrations are
// not suppressed. A nil observer is a programmer error and is dropped.
func (a *Animator) AddObserver(o Observer) {
	if o == nil {
		a.log.Warn("pop: nil observer")
		return
	}

	a.mu.Lock()
	a.observers = append(a.observers, o)
	a.updateTimerLocked()
	a.mu.Unlock()
}

// RemoveObserver removes the first registration of o. Removing an absent
// observer is a no-op.
func (a *Animator) RemoveObserver(o Observer) {
	if o == nil {
		a.log.Warn("pop: nil observer")
		return
	}

	a.mu.Lock()
	for i, cur := range a.observers {
		if cur == o {
			a.observers = append(a.observers[:i], a.observers[i+1:]...)
			break
		}
	}
	a.updateTimerLocked()
	a.mu.Unlock()
}

// SetDelegate installs the frame delegate. Pass nil to clear.
func (a *Animator) SetDelegate(d AnimatorDelegate) {
	a.mu.Lock()
	a.delegate = d
	a.mu.Unlock()
}
