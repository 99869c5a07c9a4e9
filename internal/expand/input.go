package expand

import "go/ast"

// DefaultRuntimePkg is the package qualifier of the runtime facade as seen
// from annotated source files.
const DefaultRuntimePkg = "task"

// Expander rewrites type expressions into their task-input and task-output
// normalized forms. It never mutates the expressions it is given; unchanged
// sub-trees are returned as the same node, which makes re-expansion a no-op.
type Expander struct {
	// RuntimePkg is the qualifier under which annotated code imports the
	// runtime facade package.
	RuntimePkg string
}

// New returns an Expander recognizing the given runtime package qualifier,
// falling back to DefaultRuntimePkg when empty.
func New(runtimePkg string) *Expander {
	if runtimePkg == "" {
		runtimePkg = DefaultRuntimePkg
	}

	return &Expander{RuntimePkg: runtimePkg}
}

// Classify returns the wrapper shape of the given type expression.
// Paren groups are transparent.
func (e *Expander) Classify(expr ast.Expr) Shape {
	switch t := expr.(type) {
	case *ast.ParenExpr:
		return e.Classify(t.X)
	case *ast.ArrayType:
		if t.Len == nil {
			return ShapeSequence
		}
	case *ast.StarExpr:
		return ShapeOptional
	case *ast.IndexExpr:
		if e.classifyPath(t.X) == stateResolvedHandle {
			return ShapeResolvedHandle
		}
	}

	return ShapeUnrecognized
}

// InputType rewrites a declared parameter type into its task-input form:
// sequence and optional containers recurse into their element, resolved
// handles widen to the general handle type, and any unrecognized type is
// returned unchanged.
func (e *Expander) InputType(expr ast.Expr) ast.Expr {
	switch t := expr.(type) {
	case *ast.ParenExpr:
		return e.InputType(t.X)
	case *ast.ArrayType:
		if t.Len != nil {
			return expr
		}

		elem := e.InputType(t.Elt)
		if elem == t.Elt {
			return expr
		}

		return &ast.ArrayType{Elt: elem}
	case *ast.StarExpr:
		elem := e.InputType(t.X)
		if elem == t.X {
			return expr
		}

		return &ast.StarExpr{X: elem}
	case *ast.IndexExpr:
		if e.classifyPath(t.X) != stateResolvedHandle {
			return expr
		}

		return &ast.IndexExpr{
			X:     e.rewriteToHandle(t.X),
			Index: t.Index,
		}
	default:
		return expr
	}
}

// rewriteToHandle rebuilds a recognized ResolvedHandle path with its last
// segment replaced by Handle, preserving the qualifier spelling.
func (e *Expander) rewriteToHandle(path ast.Expr) ast.Expr {
	switch t := path.(type) {
	case *ast.Ident:
		return ast.NewIdent("Handle")
	case *ast.SelectorExpr:
		qual, _ := t.X.(*ast.Ident)

		return &ast.SelectorExpr{
			X:   ast.NewIdent(qual.Name),
			Sel: ast.NewIdent("Handle"),
		}
	default:
		return path
	}
}

// HandleElem returns the element type of a recognized Handle[T] path.
func (e *Expander) HandleElem(expr ast.Expr) (ast.Expr, bool) {
	idx, ok := expr.(*ast.IndexExpr)
	if !ok || e.classifyPath(idx.X) != stateHandle {
		return nil, false
	}

	return idx.Index, true
}

// handleUnit builds the canonical task.Handle[task.Unit] type.
func (e *Expander) handleUnit() ast.Expr {
	return &ast.IndexExpr{
		X: &ast.SelectorExpr{
			X:   ast.NewIdent(e.RuntimePkg),
			Sel: ast.NewIdent("Handle"),
		},
		Index: &ast.SelectorExpr{
			X:   ast.NewIdent(e.RuntimePkg),
			Sel: ast.NewIdent("Unit"),
		},
	}
}
