package task

// Persistence controls whether values produced by a task function are cached
// across executions or only for the current one.
type Persistence int

const (
	// PersistencePersistent caches produced values across executions.
	PersistencePersistent Persistence = iota
	// PersistenceTransient caches produced values for the current execution
	// only. Inferred when any input is itself transient.
	PersistenceTransient
	// PersistenceLocalCells restricts produced cells to the calling task.
	// Selected statically by the local_cells directive flag.
	PersistenceLocalCells
)

// String returns a human-readable persistence name.
func (p Persistence) String() string {
	switch p {
	case PersistencePersistent:
		return "persistent"
	case PersistenceTransient:
		return "transient"
	case PersistenceLocalCells:
		return "local-cells"
	default:
		return "unknown"
	}
}

// TransientValue is implemented by input values that must not be persisted
// across executions. Any transient input makes the whole call transient.
type TransientValue interface {
	TransientTaskValue()
}

// Inputs is the boxed heterogeneous argument tuple passed to dispatch entry
// points. Argument order matches the declared parameter order.
type Inputs struct {
	values []any
}

// NewInputs packs the given argument values, preserving order.
func NewInputs(values ...any) *Inputs {
	return &Inputs{values: values}
}

// Len returns the number of packed arguments.
func (in *Inputs) Len() int {
	return len(in.values)
}

// At returns the i-th packed argument.
func (in *Inputs) At(i int) any {
	return in.values[i]
}

// NonLocalPersistenceFromInputs infers the persistence mode of a call from
// its argument values alone.
func NonLocalPersistenceFromInputs(inputs *Inputs) Persistence {
	for _, v := range inputs.values {
		if _, ok := v.(TransientValue); ok {
			return PersistenceTransient
		}
	}

	return PersistencePersistent
}

// NonLocalPersistenceFromInputsAndThis infers the persistence mode of a call
// from its receiver and its argument values.
func NonLocalPersistenceFromInputsAndThis(this RawHandle, inputs *Inputs) Persistence {
	if d := dispatcher(); d != nil && d.IsTransient(this) {
		return PersistenceTransient
	}

	return NonLocalPersistenceFromInputs(inputs)
}
