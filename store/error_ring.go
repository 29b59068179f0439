package store

import "sync"

// errorRing keeps the most recent errors up to a fixed capacity.
// A nil ring discards everything.
type errorRing struct {
	mu     sync.RWMutex
	errors []error
	size   int
	next   int
	full   bool
}

// newErrorRing returns nil for a non-positive size.
func newErrorRing(size int) *errorRing {
	if size <= 0 {
		return nil
	}
	return &errorRing{errors: make([]error, size), size: size}
}

func (r *errorRing) push(err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errors[r.next] = err
	r.next = (r.next + 1) % r.size
	if r.next == 0 {
		r.full = true
	}
}

// all returns the retained errors, oldest first.
func (r *errorRing) all() []error {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.full {
		if r.next == 0 {
			return nil
		}
		return append([]error(nil), r.errors[:r.next]...)
	}
	result := make([]error, 0, r.size)
	result = append(result, r.errors[r.next:]...)
	return append(result, r.errors[:r.next]...)
}
