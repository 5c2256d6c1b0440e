package pop

// Property is the read/write capability pair an animation uses to talk to
// its target. Write commits produced values; Read, when present, lets the
// core seed missing From values, compose additive deltas, and suppress
// redundant writes on the finishing pass.
type Property struct {
	Name string

	Read  func(target any) []float64
	Write func(target any, values []float64)

	// Threshold scales solver convergence checks. Zero means the solver
	// default.
	Threshold float64
}

// NewProperty builds a property capability from the two accessors.
func NewProperty(name string, read func(target any) []float64, write func(target any, values []float64)) *Property {
	return &Property{Name: name, Read: read, Write: write}
}

// PropertyResolver lets a target opt into custom read/write logic for a
// string-identified property without compile-time knowledge of its type.
type PropertyResolver interface {
	AnimatableProperty(keyPath string) (*Property, bool)
}

// PropertyProvider resolves key paths for targets that don't resolve their
// own. Installed animator-wide via WithPropertyProvider.
type PropertyProvider interface {
	Property(target any, keyPath string) (*Property, bool)
}

// resolveProperty binds an animation's property capability exactly once,
// at registration time. Explicit Prop wins, then the target's own
// resolver, then the animator-level provider.
func (a *Animator) resolveProperty(target any, an *Animation) {
	if an.Prop != nil || an.KeyPath == "" {
		return
	}

	if r, ok := target.(PropertyResolver); ok {
		if p, ok := r.AnimatableProperty(an.KeyPath); ok {
			an.Prop = p
			return
		}
	}

	if a.provider != nil {
		if p, ok := a.provider.Property(target, an.KeyPath); ok {
			an.Prop = p
		}
	}
}
