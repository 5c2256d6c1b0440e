// Package keys generates process-unique animation keys for callers that
// register without naming one.
package keys

import "github.com/google/uuid"

// Next returns a fresh key. Keys never collide with each other; callers
// that want a stable, replaceable slot should pass their own key instead.
func Next() string {
	return "pop." + uuid.NewString()
}
