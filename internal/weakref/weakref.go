// Package weakref tracks a target object without extending its lifetime,
// while keeping an identity token that stays valid for comparison after
// the target is gone.
package weakref

import (
	"reflect"
	"runtime"
	"unsafe"
	"weak"
)

// Token identifies a target by its allocation address. It is only ever
// compared or hashed, never dereferenced.
type Token uintptr

// Ref is a non-owning handle to a pointer target.
type Ref struct {
	ptr weak.Pointer[struct{}]

	// element type of the original pointer, needed to revive the
	// typed interface value from the raw address
	typ reflect.Type

	tok Token
}

// Make returns a weak handle to target. The target must be a non-nil
// pointer; anything else reports ok=false.
func Make(target any) (Ref, bool) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return Ref{}, false
	}

	p := rv.UnsafePointer()

	return Ref{
		ptr: weak.Make((*struct{})(p)),
		typ: rv.Type().Elem(),
		tok: Token(uintptr(p)),
	}, true
}

// Target revives the original typed pointer. ok is false once the
// referent has been collected; the returned value must not be retained
// across frames.
func (r Ref) Target() (any, bool) {
	p := r.ptr.Value()
	if p == nil {
		return nil, false
	}

	return reflect.NewAt(r.typ, unsafe.Pointer(p)).Interface(), true
}

// Token returns the identity token for equality and map keying.
func (r Ref) Token() Token {
	return r.tok
}

// Alive reports whether the referent is still reachable.
func (r Ref) Alive() bool {
	return r.ptr.Value() != nil
}

// OnFree arranges for fn to run after target becomes unreachable.
// The target must be a non-nil pointer; anything else is a no-op.
// fn runs on a runtime-owned goroutine and must not block.
func OnFree(target any, fn func()) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return
	}

	runtime.AddCleanup((*struct{})(rv.UnsafePointer()), func(struct{}) { fn() }, struct{}{})
}
