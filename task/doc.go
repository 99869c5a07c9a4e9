// Package task is the runtime facade that generated task-function code
// compiles against.
//
// The actual task-graph engine (scheduling, memoization, persistence) lives
// elsewhere and attaches itself via SetDispatcher. This package only declares
// the surface the generator emits calls to:
//   - Handle / ResolvedHandle value references
//   - the native-function registry and lazily-built descriptors
//   - dispatch entry points (by function id, or by trait + method name)
//   - input/output conversions and persistence inference
package task
