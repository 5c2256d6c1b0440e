package pop

import "github.com/naftaly/pop/internal/weakref"

// item is one scheduled (target, key, animation) registration. The target
// is held weakly; the token stays valid for map keying after the target is
// gone.
type item struct {
	ref  weakref.Ref
	key  string
	anim *Animation
}

func newItem(ref weakref.Ref, key string, an *Animation) *item {
	return &item{ref: ref, key: key, anim: an}
}

// removeItem splices the first item matching (token, key) out of list.
func removeItem(list []*item, tok weakref.Token, key string) []*item {
	for i, it := range list {
		if it.ref.Token() == tok && it.key == key {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
