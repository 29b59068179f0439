// Package lens provides copy-on-write helpers for writing mutators over
// nested immutable state.
//
// A Lens focuses on one part of a structure. Setting through a lens returns
// a new structure; the input is never modified, so lenses over maps and
// slices copy before writing.
package lens

// Lens focuses on a value of type A inside a structure of type S.
type Lens[S, A any] struct {
	get func(S) A
	set func(S, A) S
}

// New creates a lens from get and set functions. set must not modify its
// input.
func New[S, A any](get func(S) A, set func(S, A) S) Lens[S, A] {
	return Lens[S, A]{get: get, set: set}
}

// Get retrieves the focused value.
func (l Lens[S, A]) Get(source S) A {
	return l.get(source)
}

// Set returns a new structure with the focused value replaced.
func (l Lens[S, A]) Set(source S, value A) S {
	return l.set(source, value)
}

// Modify returns a new structure with fn applied to the focused value.
func (l Lens[S, A]) Modify(source S, fn func(A) A) S {
	return l.set(source, fn(l.get(source)))
}

// Compose focuses inner within the value focused by outer.
func Compose[S, A, B any](outer Lens[S, A], inner Lens[A, B]) Lens[S, B] {
	return Lens[S, B]{
		get: func(s S) B {
			return inner.get(outer.get(s))
		},
		set: func(s S, b B) S {
			return outer.set(s, inner.set(outer.get(s), b))
		},
	}
}

// Key focuses on the entry for key in a map. Get yields the zero value for a
// missing key. Set copies the map.
func Key[K comparable, V any](key K) Lens[map[K]V, V] {
	return Lens[map[K]V, V]{
		get: func(m map[K]V) V {
			return m[key]
		},
		set: func(m map[K]V, v V) map[K]V {
			result := make(map[K]V, len(m)+1)
			for k, val := range m {
				result[k] = val
			}
			result[key] = v
			return result
		},
	}
}
