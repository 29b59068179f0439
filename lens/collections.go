package lens

// Dissoc returns a copy of m without key.
func Dissoc[K comparable, V any](key K) func(map[K]V) map[K]V {
	return func(m map[K]V) map[K]V {
		result := make(map[K]V, len(m))
		for k, v := range m {
			if k != key {
				result[k] = v
			}
		}
		return result
	}
}

// Append returns a function that copies a slice and appends v.
func Append[T any](v T) func([]T) []T {
	return func(s []T) []T {
		result := make([]T, len(s), len(s)+1)
		copy(result, s)
		return append(result, v)
	}
}

// Reject returns a function that copies a slice without the elements
// matching pred. The result is never nil.
func Reject[T any](pred func(T) bool) func([]T) []T {
	return func(s []T) []T {
		result := make([]T, 0, len(s))
		for _, v := range s {
			if !pred(v) {
				result = append(result, v)
			}
		}
		return result
	}
}

// Equals returns a predicate matching v.
func Equals[T comparable](v T) func(T) bool {
	return func(other T) bool {
		return other == v
	}
}
