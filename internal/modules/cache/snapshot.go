package cache

import "sync/atomic"

// Snapshot holds an immutable derived index behind an atomic pointer. Readers
// always see either the previous complete build or the new one, never a
// rebuild in progress.
type Snapshot[T any] struct {
	ptr atomic.Pointer[T]
}

// Load returns the current value, or nil before the first Swap.
func (s *Snapshot[T]) Load() *T {
	return s.ptr.Load()
}

// Swap publishes a freshly built value.
func (s *Snapshot[T]) Swap(v *T) {
	s.ptr.Store(v)
}
