package pop

import "github.com/naftaly/pop/internal/weakref"

// Proxy is a per-target handle for interacting with that target's
// animations without carrying the target around. It holds the target
// weakly; every method is a no-op once the target is gone.
type Proxy struct {
	a   *Animator
	ref weakref.Ref
}

// ProxyFor returns the cached proxy for target, creating it on first use.
// The cache entry disappears on its own once target is no longer
// referenced elsewhere. A non-pointer target yields nil.
func (a *Animator) ProxyFor(target any) *Proxy {
	ref, ok := weakref.Make(target)
	if !ok {
		return nil
	}
	tok := ref.Token()

	a.mu.Lock()
	if p, ok := a.proxies[tok]; ok {
		a.mu.Unlock()
		return p
	}

	p := &Proxy{a: a, ref: ref}
	a.proxies[tok] = p
	a.mu.Unlock()

	weakref.OnFree(target, func() {
		a.mu.Lock()
		if a.proxies[tok] == p {
			delete(a.proxies, tok)
		}
		a.mu.Unlock()
	})

	return p
}

// Add registers an animation on the proxied target.
func (p *Proxy) Add(key string, an *Animation) {
	if target, ok := p.ref.Target(); ok {
		p.a.Add(target, key, an)
	}
}

// Remove deregisters the animation under key.
func (p *Proxy) Remove(key string) {
	if p.ref.Alive() {
		p.a.removeToken(p.ref.Token(), key)
	}
}

// RemoveAll deregisters every animation on the proxied target.
func (p *Proxy) RemoveAll() {
	if target, ok := p.ref.Target(); ok {
		p.a.RemoveAll(target)
	}
}

// Keys lists the proxied target's animation keys.
func (p *Proxy) Keys() []string {
	if target, ok := p.ref.Target(); ok {
		return p.a.Keys(target)
	}
	return nil
}

// Animation returns the proxied target's animation under key, or nil.
func (p *Proxy) Animation(key string) *Animation {
	if target, ok := p.ref.Target(); ok {
		return p.a.Animation(target, key)
	}
	return nil
}
