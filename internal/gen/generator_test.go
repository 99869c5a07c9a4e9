package gen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskfn-generator/internal/plan"
)

// analyzeFile parses src and builds one plan per function declaration, using
// the context returned by pick.
func analyzeFile(t *testing.T, src string, pick func(decl *ast.FuncDecl) plan.DefinitionContext) (*ast.File, []*plan.Plan) {
	t.Helper()

	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, "demo/source.go", src, parser.ParseComments)
	require.NoError(t, err)

	analyzer := plan.NewAnalyzer("task")

	var plans []*plan.Plan

	for _, d := range file.Decls {
		fd, ok := d.(*ast.FuncDecl)
		if !ok {
			continue
		}

		p, diags := analyzer.Analyze(fset, "example.com/demo", fd, pick(fd), nil)
		require.True(t, diags.IsValid(), diags.String())
		plans = append(plans, p)
	}

	return file, plans
}

func TestGenerateFile(t *testing.T) {
	src := `package demo

import (
	"strings"

	"taskfn-generator/task"
)

func (s *FileSource) Content(path string) (task.Handle[FileContent], error) {
	return s.read(strings.TrimSpace(path))
}

func Fetch(url string) task.Handle[Body] {
	return load(url)
}
`

	file, plans := analyzeFile(t, src, func(decl *ast.FuncDecl) plan.DefinitionContext {
		if decl.Recv != nil {
			return plan.ContextInherentMethod
		}

		return plan.ContextFreeFunction
	})
	require.Len(t, plans, 2)

	g := NewGenerator(DefaultConfig())

	out, diags := g.GenerateFile("demo", "demo/source.go", file, plans)
	require.True(t, diags.IsValid(), diags.String())
	require.NotNil(t, out)

	assert.Equal(t, "demo/source_taskfn.go", out.Path)

	_, err := parser.ParseFile(token.NewFileSet(), out.Path, out.Content, 0)
	require.NoError(t, err, "generated output must be valid Go:\n%s", out.Content)

	content := string(out.Content)
	assert.Contains(t, content, "// Code generated by taskfn-generator. DO NOT EDIT.")
	assert.Contains(t, content, "package demo")
	assert.Contains(t, content, `"strings"`, "imports used by the transplanted body survive")
	assert.Contains(t, content, `"taskfn-generator/task"`)

	assert.Contains(t, content, "var fileSourceContentNative *task.Lazy[*task.NativeFunction]")
	assert.Contains(t, content, "var fileSourceContentFunctionID *task.Lazy[task.FunctionID]")
	assert.Contains(t, content, "func (s *FileSource) contentTaskFunctionInline(arg1 string)")
	assert.Contains(t, content, "func FileSourceContentTask(s task.Handle[FileSource], path string) task.Handle[FileContent]")

	assert.Contains(t, content, "var fetchNative *task.Lazy[*task.NativeFunction]")
	assert.Contains(t, content, "func fetchTaskFunctionInline(arg0 string)")
	assert.Contains(t, content, "func FetchTask(url string) task.Handle[Body]")
}

func TestGenerateFileTraitDefault(t *testing.T) {
	src := `package demo

import "taskfn-generator/task"

func (s *FileSource) Versioned(key string) task.Handle[Version] {
	return s.lookup(key)
}
`

	file, plans := analyzeFile(t, src, func(*ast.FuncDecl) plan.DefinitionContext {
		return plan.ContextTraitDefaultMethod
	})
	require.Len(t, plans, 1)
	plans[0].Trait = "VersionedContent"

	g := NewGenerator(DefaultConfig())

	out, diags := g.GenerateFile("demo", "demo/source.go", file, plans)
	require.True(t, diags.IsValid(), diags.String())
	require.NotNil(t, out)

	content := string(out.Content)
	assert.Contains(t, content, "var versionedContentTraitTypeID =")
	assert.Contains(t, content, `task.GetTraitTypeID("VersionedContent")`)
	assert.Contains(t, content, `task.TraitCall(versionedContentTraitTypeID.Get(), "Versioned"`)
	assert.NotContains(t, content, "DynamicThisCall")
}

func TestGenerateFileBadReturnShape(t *testing.T) {
	src := `package demo

func Count(name string) int {
	return len(name)
}
`

	file, plans := analyzeFile(t, src, func(*ast.FuncDecl) plan.DefinitionContext {
		return plan.ContextFreeFunction
	})

	g := NewGenerator(DefaultConfig())

	out, diags := g.GenerateFile("demo", "demo/source.go", file, plans)
	assert.True(t, diags.HasErrors())
	require.Len(t, diags.Errors, 1)
	assert.Equal(t, "return_shape", diags.Errors[0].Code)

	// Generation still produces a file; the declared type stands in so the
	// compiler reports the mismatch at an obvious place.
	require.NotNil(t, out)
	assert.Contains(t, string(out.Content), "func CountTask(name string) int")
}

func TestExposedAndVarNames(t *testing.T) {
	tests := []struct {
		name    string
		recv    string
		fn      string
		exposed string
		varBase string
	}{
		{"exported free function", "", "Fetch", "FetchTask", "fetch"},
		{"unexported free function", "", "fetch", "fetchTask", "fetch"},
		{"exported method", "FileSource", "Content", "FileSourceContentTask", "fileSourceContent"},
		{"unexported method", "FileSource", "content", "fileSourceContentTask", "fileSourceContent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &plan.Plan{Name: tt.fn, RecvType: tt.recv}
			assert.Equal(t, tt.exposed, exposedName(p))
			assert.Equal(t, tt.varBase, varBase(p))
		})
	}
}
