package task

import (
	"fmt"
	"sync"
)

// FunctionID identifies a registered native function. Ids are assigned
// sequentially on first registration and are stable for the process lifetime.
type FunctionID uint32

// TraitTypeID identifies a registered trait type, keyed by trait name.
type TraitTypeID uint32

// FunctionMeta carries static metadata recorded with a registration.
type FunctionMeta struct {
	// LocalCells forces the local-cells persistence mode for every call.
	LocalCells bool
}

// NativeFunction is the registration descriptor for one task function. It is
// built once per declaration by generated code, inside a Lazy cell.
type NativeFunction struct {
	// Name is the fully-qualified path of the inline function,
	// e.g. "examples/basic.FileSource.Content".
	Name string
	// Meta is the static metadata recorded at registration.
	Meta FunctionMeta
	// Callable is the inline function itself (a func or method expression),
	// invoked by the engine's executor.
	Callable any

	isMethod bool
}

// NewFunction builds a registration descriptor for a free task function.
func NewFunction(name string, meta FunctionMeta, callable any) *NativeFunction {
	return &NativeFunction{Name: name, Meta: meta, Callable: callable}
}

// NewMethod builds a registration descriptor for a task method. The callable
// is a method expression whose first argument is the receiver.
func NewMethod(name string, meta FunctionMeta, callable any) *NativeFunction {
	return &NativeFunction{Name: name, Meta: meta, Callable: callable, isMethod: true}
}

// IsMethod reports whether the descriptor was built with NewMethod.
func (nf *NativeFunction) IsMethod() bool {
	return nf.isMethod
}

// registry assigns process-wide ids. Guarded by mu; ids start at 1 so the
// zero value of FunctionID/TraitTypeID stays invalid.
var (
	mu          sync.Mutex
	functionIDs = map[*NativeFunction]FunctionID{}
	functions   []*NativeFunction
	traitIDs    = map[string]TraitTypeID{}
	traitNames  []string
)

// GetFunctionID returns the process-wide id for the given descriptor,
// registering it on first use.
func GetFunctionID(nf *NativeFunction) FunctionID {
	mu.Lock()
	defer mu.Unlock()

	if id, ok := functionIDs[nf]; ok {
		return id
	}

	functions = append(functions, nf)
	id := FunctionID(len(functions))
	functionIDs[nf] = id

	return id
}

// LookupFunction returns the descriptor registered under the given id.
func LookupFunction(id FunctionID) (*NativeFunction, error) {
	mu.Lock()
	defer mu.Unlock()

	if id == 0 || int(id) > len(functions) {
		return nil, fmt.Errorf("task: unknown function id %d", id)
	}

	return functions[id-1], nil
}

// GetTraitTypeID returns the process-wide id for the given trait name,
// registering it on first use.
func GetTraitTypeID(name string) TraitTypeID {
	mu.Lock()
	defer mu.Unlock()

	if id, ok := traitIDs[name]; ok {
		return id
	}

	traitNames = append(traitNames, name)
	id := TraitTypeID(len(traitNames))
	traitIDs[name] = id

	return id
}

// LookupTraitName returns the trait name registered under the given id.
func LookupTraitName(id TraitTypeID) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	if id == 0 || int(id) > len(traitNames) {
		return "", fmt.Errorf("task: unknown trait type id %d", id)
	}

	return traitNames[id-1], nil
}
