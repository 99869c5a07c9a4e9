package expand

import "go/ast"

//go:generate go tool stringer -type=Shape -output=shape_string.go

// Shape classifies a type expression into the closed set of wrapper shapes
// the input expander understands.
type Shape int

const (
	// ShapeUnrecognized is any type the expander leaves untouched,
	// including the general handle type itself.
	ShapeUnrecognized Shape = iota
	// ShapeSequence is a slice type.
	ShapeSequence
	// ShapeOptional is a pointer type.
	ShapeOptional
	// ShapeResolvedHandle is a ResolvedHandle[T] path, qualified by the
	// runtime package or bare under a dot-import.
	ShapeResolvedHandle
)

// pathState is the state machine over qualified-name segments. Recognized
// paths are at most a runtime-package qualifier followed by one of the two
// handle type names; anything longer or different falls out immediately.
type pathState int

const (
	stateEmpty pathState = iota
	stateRuntimeMod
	stateHandle
	stateResolvedHandle
	stateNoMatch
)

// classifyPath runs the segment state machine over a path expression
// (an identifier or a selector chain). Terminal states are stateHandle and
// stateResolvedHandle; everything else means "unrecognized".
func (e *Expander) classifyPath(expr ast.Expr) pathState {
	segments, ok := pathSegments(expr)
	if !ok {
		return stateNoMatch
	}

	state := stateEmpty
	for _, seg := range segments {
		switch {
		case state == stateEmpty && seg == e.RuntimePkg:
			state = stateRuntimeMod
		case (state == stateEmpty || state == stateRuntimeMod) && seg == "Handle":
			state = stateHandle
		case (state == stateEmpty || state == stateRuntimeMod) && seg == "ResolvedHandle":
			state = stateResolvedHandle
		default:
			return stateNoMatch
		}
	}

	if state == stateRuntimeMod || state == stateEmpty {
		// a bare qualifier is not a type
		return stateNoMatch
	}

	return state
}

// pathSegments flattens an identifier or selector chain into its name
// segments. Returns false for any other expression kind.
func pathSegments(expr ast.Expr) ([]string, bool) {
	switch t := expr.(type) {
	case *ast.Ident:
		return []string{t.Name}, true
	case *ast.SelectorExpr:
		left, ok := pathSegments(t.X)
		if !ok {
			return nil, false
		}

		return append(left, t.Sel.Name), true
	default:
		return nil, false
	}
}
