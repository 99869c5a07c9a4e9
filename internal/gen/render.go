package gen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/printer"
	"go/token"
	"strings"
)

// exprString renders a type or expression node to source text.
func exprString(fset *token.FileSet, expr ast.Expr) string {
	if expr == nil {
		return ""
	}

	if fset == nil {
		fset = token.NewFileSet()
	}

	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, expr); err != nil {
		// printer only fails on unsupported node kinds, which we never build
		panic(fmt.Sprintf("gen: rendering %T: %v", expr, err))
	}

	return buf.String()
}

// blockString renders a statement block to source text, braces included.
func blockString(fset *token.FileSet, block *ast.BlockStmt) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, block); err != nil {
		panic(fmt.Sprintf("gen: rendering body: %v", err))
	}

	return buf.String()
}

// resultsString renders a result list, including the leading space.
// Go allows dropping the parentheses only for a single unnamed result.
func resultsString(fset *token.FileSet, results *ast.FieldList) string {
	if results == nil || len(results.List) == 0 {
		return ""
	}

	if len(results.List) == 1 && len(results.List[0].Names) == 0 {
		return " " + exprString(fset, results.List[0].Type)
	}

	var parts []string
	for _, field := range results.List {
		typ := exprString(fset, field.Type)

		if len(field.Names) == 0 {
			parts = append(parts, typ)

			continue
		}

		var names []string
		for _, n := range field.Names {
			names = append(names, n.Name)
		}

		parts = append(parts, strings.Join(names, ", ")+" "+typ)
	}

	return " (" + strings.Join(parts, ", ") + ")"
}
