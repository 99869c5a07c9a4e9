package task

import "sync"

// Lazy is a thread-safe single-assignment cell: the value is computed on
// first access and cached for the process lifetime. Generated descriptor
// values (registration descriptors and function ids) live in Lazy cells so
// registration order follows first use, not package initialization order.
type Lazy[T any] struct {
	once    sync.Once
	compute func() T
	value   T
}

// NewLazy returns a cell that computes its value from fn on first Get.
func NewLazy[T any](fn func() T) *Lazy[T] {
	return &Lazy[T]{compute: fn}
}

// Get returns the cell's value, computing it on the first call.
func (l *Lazy[T]) Get() T {
	l.once.Do(func() {
		l.value = l.compute()
		l.compute = nil
	})

	return l.value
}
