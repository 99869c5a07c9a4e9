package expand

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustType(t *testing.T, src string) ast.Expr {
	t.Helper()

	expr, err := parser.ParseExpr(src)
	require.NoError(t, err, "parse %q", src)

	return expr
}

func render(t *testing.T, expr ast.Expr) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, printer.Fprint(&buf, token.NewFileSet(), expr))

	return buf.String()
}

func TestInputTypeRewritesResolvedHandle(t *testing.T) {
	e := New("")

	tests := []struct {
		in   string
		want string
	}{
		{"task.ResolvedHandle[Doc]", "task.Handle[Doc]"},
		{"ResolvedHandle[Doc]", "Handle[Doc]"},
		{"[]task.ResolvedHandle[Doc]", "[]task.Handle[Doc]"},
		{"*task.ResolvedHandle[Doc]", "*task.Handle[Doc]"},
		// only the innermost resolved-handle occurrence is rewritten,
		// container nesting stays intact
		{"[]*task.ResolvedHandle[Doc]", "[]*task.Handle[Doc]"},
		{"(task.ResolvedHandle[Doc])", "task.Handle[Doc]"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := e.InputType(mustType(t, tt.in))
			assert.Equal(t, tt.want, render(t, got))
		})
	}
}

func TestInputTypeLeavesUnrecognizedUntouched(t *testing.T) {
	e := New("")

	for _, src := range []string{
		"int",
		"string",
		"task.Handle[Doc]",
		"Handle[Doc]",
		"[]int",
		"*string",
		"map[string]int",
		"other.ResolvedHandle[Doc]",
		"deep.pkg.ResolvedHandle[Doc]",
		"[4]task.ResolvedHandle[Doc]",
	} {
		t.Run(src, func(t *testing.T) {
			expr := mustType(t, src)

			// unchanged input comes back as the very same node
			assert.Same(t, expr, e.InputType(expr))
		})
	}
}

func TestInputTypeIsIdempotent(t *testing.T) {
	e := New("")

	expr := mustType(t, "[]*task.ResolvedHandle[Doc]")
	once := e.InputType(expr)
	twice := e.InputType(once)

	assert.Same(t, once, twice, "re-expanding an expanded type must be a no-op")
}

func TestInputTypeDoesNotMutateInput(t *testing.T) {
	e := New("")

	expr := mustType(t, "[]task.ResolvedHandle[Doc]")
	before := render(t, expr)

	_ = e.InputType(expr)

	assert.Equal(t, before, render(t, expr))
}

func TestInputTypeCustomRuntimeQualifier(t *testing.T) {
	e := New("tt")

	got := e.InputType(mustType(t, "tt.ResolvedHandle[Doc]"))
	assert.Equal(t, "tt.Handle[Doc]", render(t, got))

	// the default qualifier is now unrecognized
	expr := mustType(t, "task.ResolvedHandle[Doc]")
	assert.Same(t, expr, e.InputType(expr))
}

func TestClassify(t *testing.T) {
	e := New("")

	tests := []struct {
		in   string
		want Shape
	}{
		{"[]int", ShapeSequence},
		{"*int", ShapeOptional},
		{"task.ResolvedHandle[Doc]", ShapeResolvedHandle},
		{"ResolvedHandle[Doc]", ShapeResolvedHandle},
		{"(ResolvedHandle[Doc])", ShapeResolvedHandle},
		{"task.Handle[Doc]", ShapeUnrecognized},
		{"int", ShapeUnrecognized},
		{"[3]int", ShapeUnrecognized},
		{"other.ResolvedHandle[Doc]", ShapeUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Classify(mustType(t, tt.in)))
		})
	}
}

func TestHandleElem(t *testing.T) {
	e := New("")

	elem, ok := e.HandleElem(mustType(t, "task.Handle[Doc]"))
	require.True(t, ok)
	assert.Equal(t, "Doc", render(t, elem))

	_, ok = e.HandleElem(mustType(t, "task.ResolvedHandle[Doc]"))
	assert.False(t, ok)

	_, ok = e.HandleElem(mustType(t, "int"))
	assert.False(t, ok)
}
