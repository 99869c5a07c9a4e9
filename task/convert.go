package task

import (
	"fmt"
	"reflect"
)

// FromTaskInput converts a decoded argument value back into the parameter
// type the task function declared. The generator widens declared
// ResolvedHandle parameters to Handle in the exposed signature; this is the
// matching runtime narrowing, applied per argument inside the inline body.
//
// Handle[T] and ResolvedHandle[T] share an underlying representation, so the
// conversion walks slice and pointer containers and converts handle layers in
// place.
func FromTaskInput[T any](input any) T {
	want := reflect.TypeFor[T]()

	v, err := convertInput(reflect.ValueOf(input), want)
	if err != nil {
		panic(fmt.Sprintf("task: cannot decode input %T as %s: %v", input, want, err))
	}

	return v.Interface().(T)
}

func convertInput(v reflect.Value, want reflect.Type) (reflect.Value, error) {
	if !v.IsValid() {
		// nil input, only representable as a nil-able target
		switch want.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Interface, reflect.Map:
			return reflect.Zero(want), nil
		default:
			return reflect.Value{}, fmt.Errorf("nil value for non-nilable type %s", want)
		}
	}

	if v.Type() == want {
		return v, nil
	}

	// Handle <-> ResolvedHandle share struct{raw RawHandle}. The shortcut is
	// limited to those; general Go convertibility (int to string, numeric
	// widening) would silently mangle a mismatched engine input.
	if isHandleType(v.Type()) && isHandleType(want) && v.Type().ConvertibleTo(want) {
		return v.Convert(want), nil
	}

	// boxing into an interface-typed parameter
	if want.Kind() == reflect.Interface && v.Type().Implements(want) {
		out := reflect.New(want).Elem()
		out.Set(v)

		return out, nil
	}

	switch want.Kind() {
	case reflect.Slice:
		if v.Kind() != reflect.Slice {
			break
		}

		out := reflect.MakeSlice(want, v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			ev, err := convertInput(v.Index(i), want.Elem())
			if err != nil {
				return reflect.Value{}, err
			}

			out.Index(i).Set(ev)
		}

		return out, nil
	case reflect.Pointer:
		if v.Kind() != reflect.Pointer {
			break
		}

		if v.IsNil() {
			return reflect.Zero(want), nil
		}

		ev, err := convertInput(v.Elem(), want.Elem())
		if err != nil {
			return reflect.Value{}, err
		}

		out := reflect.New(want.Elem())
		out.Elem().Set(ev)

		return out, nil
	}

	return reflect.Value{}, fmt.Errorf("no conversion from %s", v.Type())
}

var rawHandleType = reflect.TypeOf(RawHandle(0))

// isHandleType reports whether t is an instantiation of Handle or
// ResolvedHandle: a single-field struct wrapping the raw representation.
func isHandleType(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.NumField() == 1 && t.Field(0).Type == rawHandleType
}

// OutputFromRaw converts a dispatch result back into the typed handle the
// exposed signature declares. V is the handle's element type.
func OutputFromRaw[V any](raw RawHandle) Handle[V] {
	return FromRaw[V](raw)
}

// ResolvedValue is implemented by value types that are guaranteed to be fully
// resolved whenever they sit behind a handle: they hold no nested unresolved
// handles.
type ResolvedValue interface {
	ResolvedTaskValue()
}

// AssertReturnsResolved is a compile-time assertion emitted by the generator
// for functions flagged resolved: instantiating it fails to compile unless
// the output's element type implements ResolvedValue.
func AssertReturnsResolved[V ResolvedValue]() {}
