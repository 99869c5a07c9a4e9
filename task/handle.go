package task

// RawHandle is the engine-internal representation of a value reference.
// Zero is never a valid handle.
type RawHandle uint64

// Unit is the output type of task functions that return nothing.
type Unit struct{}

// Handle is an opaque reference to a memoized value managed by the task
// engine. The referenced value may still be pending computation.
type Handle[T any] struct {
	raw RawHandle
}

// FromRaw wraps an engine-internal handle into a typed Handle.
func FromRaw[T any](raw RawHandle) Handle[T] {
	return Handle[T]{raw: raw}
}

// IntoRaw unwraps the handle into its engine-internal representation.
func (h Handle[T]) IntoRaw() RawHandle {
	return h.raw
}

// IsZero reports whether the handle refers to nothing.
func (h Handle[T]) IsZero() bool {
	return h.raw == 0
}

// ResolvedHandle is a Handle variant that is guaranteed to refer to a value
// that has already been fully computed (not pending). Generated exposed
// signatures accept the general Handle form; the engine re-resolves on entry.
type ResolvedHandle[T any] struct {
	raw RawHandle
}

// ResolvedFromRaw wraps an engine-internal handle into a typed ResolvedHandle.
// The caller asserts that the referenced value is already computed.
func ResolvedFromRaw[T any](raw RawHandle) ResolvedHandle[T] {
	return ResolvedHandle[T]{raw: raw}
}

// Handle downgrades the resolved handle to the general handle form.
func (h ResolvedHandle[T]) Handle() Handle[T] {
	return Handle[T]{raw: h.raw}
}

// IntoRaw unwraps the handle into its engine-internal representation.
func (h ResolvedHandle[T]) IntoRaw() RawHandle {
	return h.raw
}
