package task

import "sync/atomic"

// Dispatcher is the engine-side entry point for indirect calls. The engine
// attaches one implementation per process via SetDispatcher before any
// generated exposed function runs.
type Dispatcher interface {
	// Call schedules the function registered under id with the given packed
	// arguments and returns a handle to its (possibly pending) output.
	Call(id FunctionID, inputs *Inputs, persistence Persistence) RawHandle
	// ThisCall is Call with a receiver handle.
	ThisCall(id FunctionID, this RawHandle, inputs *Inputs, persistence Persistence) RawHandle
	// TraitCall dispatches dynamically through the trait's method table.
	TraitCall(trait TraitTypeID, method string, this RawHandle, inputs *Inputs, persistence Persistence) RawHandle
	// IsTransient reports whether the value behind the handle is transient.
	IsTransient(h RawHandle) bool
}

var activeDispatcher atomic.Pointer[Dispatcher]

// SetDispatcher attaches the engine's dispatcher. Passing nil detaches it.
func SetDispatcher(d Dispatcher) {
	if d == nil {
		activeDispatcher.Store(nil)
		return
	}

	activeDispatcher.Store(&d)
}

func dispatcher() Dispatcher {
	p := activeDispatcher.Load()
	if p == nil {
		return nil
	}

	return *p
}

func mustDispatcher() Dispatcher {
	d := dispatcher()
	if d == nil {
		panic("task: no dispatcher attached, call task.SetDispatcher first")
	}

	return d
}

// DynamicCall schedules a receiver-less task function by id.
func DynamicCall(id FunctionID, inputs *Inputs, persistence Persistence) RawHandle {
	return mustDispatcher().Call(id, inputs, persistence)
}

// DynamicThisCall schedules a task method by id with its receiver handle.
func DynamicThisCall(id FunctionID, this RawHandle, inputs *Inputs, persistence Persistence) RawHandle {
	return mustDispatcher().ThisCall(id, this, inputs, persistence)
}

// TraitCall dispatches a task method dynamically by trait type and method
// name.
func TraitCall(trait TraitTypeID, method string, this RawHandle, inputs *Inputs, persistence Persistence) RawHandle {
	return mustDispatcher().TraitCall(trait, method, this, inputs, persistence)
}
