// Package pop drives continuously updating value animations (springs,
// decays, eased curves, custom time functions) applied to properties of
// live objects, synchronized to a frame clock.
//
// The animator decides, every frame, which animations are active, advances
// each one by the elapsed time, writes the resulting value back to its
// target, and retires animations that finish. Animations may be added,
// removed, or replaced concurrently from any goroutine at any time,
// including from within the per-frame callouts themselves.
//
// Targets are held weakly: attaching an animation to an object never
// extends the object's lifetime, and animations whose target has been
// collected are retired on the next frame pass.
//
// The value-producing animation kinds live in the anim subpackage; the
// core only orchestrates when and how often they are asked for a value.
package pop
