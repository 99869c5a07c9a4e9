package expand

import (
	"go/ast"
	"go/token"

	"taskfn-generator/internal/diagnostic"
)

// outputDiag is the message for return types that never reach the terminal
// handle shape.
const outputDiag = "expected return type to be task.Handle[T] or (task.Handle[T], error), unable to process type"

// OutputType maps a declared result list to the effective return type of the
// exposed signature by stripping known wrapper layers:
//
//   - no results               -> task.Handle[task.Unit]
//   - error alone              -> task.Handle[task.Unit]
//   - (T, error)               -> T, continue stripping
//   - parenthesized type       -> unwrap, continue stripping
//   - Handle[T] path           -> terminal, done
//
// When the terminal shape is never reached, a diagnostic is reported at the
// declared return type's position and the declared type is returned as a
// best-effort fallback so downstream stages can still surface a coherent
// secondary error.
func (e *Expander) OutputType(fset *token.FileSet, results *ast.FieldList) (ast.Expr, *diagnostic.Diagnostics) {
	diags := &diagnostic.Diagnostics{}

	exprs := flattenResults(results)
	if len(exprs) == 0 {
		return e.handleUnit(), diags
	}

	var cur ast.Expr

	switch {
	case len(exprs) == 1 && isErrorIdent(exprs[0]):
		// a fallible function producing nothing
		return e.handleUnit(), diags
	case len(exprs) == 1:
		cur = exprs[0]
	case len(exprs) == 2 && isErrorIdent(exprs[1]):
		cur = exprs[0]
	default:
		diags.AddError("return_shape", outputDiag, position(fset, results.Pos()))

		return exprs[0], diags
	}

	fallback := cur

	for {
		switch t := cur.(type) {
		case *ast.ParenExpr:
			cur = t.X

			continue
		case *ast.IndexExpr:
			if e.classifyPath(t.X) == stateHandle {
				return cur, diags
			}
		}

		break
	}

	diags.AddError("return_shape", outputDiag, position(fset, fallback.Pos()))

	return fallback, diags
}

// flattenResults expands a result field list into one type expression per
// declared result, honoring named result groups like (a, b Handle[T]).
func flattenResults(results *ast.FieldList) []ast.Expr {
	if results == nil {
		return nil
	}

	var exprs []ast.Expr
	for _, field := range results.List {
		n := len(field.Names)
		if n == 0 {
			n = 1
		}

		for i := 0; i < n; i++ {
			exprs = append(exprs, field.Type)
		}
	}

	return exprs
}

func isErrorIdent(expr ast.Expr) bool {
	for {
		p, ok := expr.(*ast.ParenExpr)
		if !ok {
			break
		}

		expr = p.X
	}

	id, ok := expr.(*ast.Ident)

	return ok && id.Name == "error"
}

func position(fset *token.FileSet, pos token.Pos) token.Position {
	if fset == nil || !pos.IsValid() {
		return token.Position{}
	}

	return fset.Position(pos)
}
