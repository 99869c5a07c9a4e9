package gen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskfn-generator/internal/directive"
	"taskfn-generator/internal/expand"
	"taskfn-generator/internal/plan"
)

// parseDecl parses the first function declaration in src.
func parseDecl(t *testing.T, src string) (*token.FileSet, *ast.File, *ast.FuncDecl) {
	t.Helper()

	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, "src.go", src, parser.ParseComments)
	require.NoError(t, err)

	for _, d := range file.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok {
			return fset, file, fd
		}
	}

	t.Fatal("no function declaration in source")

	return nil, nil, nil
}

// analyzePlan runs the analyzer on the first declaration in src and requires
// success.
func analyzePlan(t *testing.T, src string, ctx plan.DefinitionContext, opts *directive.Options) *plan.Plan {
	t.Helper()

	fset, _, decl := parseDecl(t, src)

	p, diags := plan.NewAnalyzer("task").Analyze(fset, "example.com/demo", decl, ctx, opts)
	require.True(t, diags.IsValid(), diags.String())
	require.NotNil(t, p)

	return p
}

func expandPlan(t *testing.T, p *plan.Plan) *Expansion {
	t.Helper()

	x, diags := Expand(p, expand.New("task"))
	require.True(t, diags.IsValid(), diags.String())

	return x
}

const freeFnSrc = `package demo

import "taskfn-generator/task"

func Fetch(url string, opts *task.ResolvedHandle[Options]) (task.Handle[Body], error) {
	return load(url, opts)
}
`

const methodSrc = `package demo

import "taskfn-generator/task"

func (s *FileSource) Content(path string) (task.Handle[FileContent], error) {
	return s.read(path)
}
`

func TestExposedSignature(t *testing.T) {
	t.Run("free function widens resolved handles", func(t *testing.T) {
		p := analyzePlan(t, freeFnSrc, plan.ContextFreeFunction, nil)
		x := expandPlan(t, p)

		sig := ExposedSignature(p, x, "FetchTask")
		assert.Equal(t,
			"func FetchTask(url string, opts *task.Handle[Options]) task.Handle[Body]",
			sig)
	})

	t.Run("method gains a handle receiver parameter", func(t *testing.T) {
		p := analyzePlan(t, methodSrc, plan.ContextInherentMethod, nil)
		x := expandPlan(t, p)

		sig := ExposedSignature(p, x, "FileSourceContentTask")
		assert.Equal(t,
			"func FileSourceContentTask(s task.Handle[FileSource], path string) task.Handle[FileContent]",
			sig)
	})
}

func TestInlineDecl(t *testing.T) {
	t.Run("free function binds declared names from slot args", func(t *testing.T) {
		p := analyzePlan(t, freeFnSrc, plan.ContextFreeFunction, nil)
		x := expandPlan(t, p)

		decl := InlineDecl(p, x, "task")
		assert.Contains(t, decl, "func fetchTaskFunctionInline(arg0 string, arg1 *task.Handle[Options]) (task.Handle[Body], error) {")
		assert.Contains(t, decl, "url := task.FromTaskInput[string](arg0)")
		assert.Contains(t, decl, "opts := task.FromTaskInput[*task.ResolvedHandle[Options]](arg1)")
		assert.Contains(t, decl, "return load(url, opts)")
	})

	t.Run("method keeps the original receiver clause", func(t *testing.T) {
		p := analyzePlan(t, methodSrc, plan.ContextInherentMethod, nil)
		x := expandPlan(t, p)

		decl := InlineDecl(p, x, "task")
		assert.Contains(t, decl, "func (s *FileSource) contentTaskFunctionInline(arg1 string)")
		assert.Contains(t, decl, "path := task.FromTaskInput[string](arg1)")
		assert.NotContains(t, decl, "arg0", "the receiver must not become a slot parameter")
	})

	t.Run("unnamed parameters get no binding", func(t *testing.T) {
		src := `package demo

import "taskfn-generator/task"

func Tick(int) task.Handle[Clock] {
	return now()
}
`
		p := analyzePlan(t, src, plan.ContextFreeFunction, nil)
		x := expandPlan(t, p)

		decl := InlineDecl(p, x, "task")
		assert.Contains(t, decl, "func tickTaskFunctionInline(arg0 int)")
		assert.NotContains(t, decl, "FromTaskInput[int]")
	})
}

func TestStaticBody(t *testing.T) {
	t.Run("free function dispatches without this", func(t *testing.T) {
		p := analyzePlan(t, freeFnSrc, plan.ContextFreeFunction, nil)
		x := expandPlan(t, p)

		body := StaticBody(p, x, "fetchFunctionID", "task")
		assert.Contains(t, body, "inputs := task.NewInputs(url, opts)")
		assert.Contains(t, body, "persistence := task.NonLocalPersistenceFromInputs(inputs)")
		assert.Contains(t, body, "return task.OutputFromRaw[Body](task.DynamicCall(fetchFunctionID.Get(), inputs, persistence))")
		assert.NotContains(t, body, "this")
	})

	t.Run("method dispatches through this", func(t *testing.T) {
		p := analyzePlan(t, methodSrc, plan.ContextInherentMethod, nil)
		x := expandPlan(t, p)

		body := StaticBody(p, x, "fileSourceContentFunctionID", "task")
		assert.Contains(t, body, "this := s.IntoRaw()")
		assert.Contains(t, body, "persistence := task.NonLocalPersistenceFromInputsAndThis(this, inputs)")
		assert.Contains(t, body, "task.DynamicThisCall(fileSourceContentFunctionID.Get(), this, inputs, persistence)")
	})

	t.Run("local cells force the persistence mode", func(t *testing.T) {
		opts := &directive.Options{LocalCells: true, Resolved: &token.Position{}}
		p := analyzePlan(t, freeFnSrc, plan.ContextFreeFunction, opts)
		x := expandPlan(t, p)

		body := StaticBody(p, x, "fetchFunctionID", "task")
		assert.Contains(t, body, "persistence := task.PersistenceLocalCells")
		assert.NotContains(t, body, "NonLocalPersistence")
	})

	t.Run("resolved flag emits the output assertion", func(t *testing.T) {
		opts := &directive.Options{Resolved: &token.Position{}}
		p := analyzePlan(t, freeFnSrc, plan.ContextFreeFunction, opts)
		x := expandPlan(t, p)

		body := StaticBody(p, x, "fetchFunctionID", "task")
		assert.Contains(t, body, "task.AssertReturnsResolved[Body]()")
	})
}

func TestDynamicBody(t *testing.T) {
	t.Run("trait default dispatches by name", func(t *testing.T) {
		p := analyzePlan(t, methodSrc, plan.ContextTraitDefaultMethod, nil)
		x := expandPlan(t, p)

		body := DynamicBody(p, x, "contentSourceTraitTypeID", "task")
		assert.Contains(t, body, `task.TraitCall(contentSourceTraitTypeID.Get(), "Content", this, inputs, persistence)`)
	})

	t.Run("receiver-less trait method is an unimplemented stub", func(t *testing.T) {
		p := &plan.Plan{Name: "Len", Context: plan.ContextTraitDefaultMethod}

		body := DynamicBody(p, &Expansion{}, "v", "task")
		assert.Contains(t, body, `panic("unimplemented`)
		assert.NotContains(t, body, "TraitCall")
	})
}

func TestDescriptorFor(t *testing.T) {
	t.Run("free function registers a plain reference", func(t *testing.T) {
		p := analyzePlan(t, freeFnSrc, plan.ContextFreeFunction, nil)

		d := DescriptorFor(p)
		assert.Equal(t, "fetchTaskFunctionInline", d.PathExpr)
		assert.False(t, d.IsMethod)
		assert.Contains(t, d.Definition("task"), `task.NewFunction("example.com/demo.Fetch"`)
	})

	t.Run("method registers a method expression", func(t *testing.T) {
		p := analyzePlan(t, methodSrc, plan.ContextInherentMethod, nil)

		d := DescriptorFor(p)
		assert.Equal(t, "(*FileSource).contentTaskFunctionInline", d.PathExpr)
		assert.True(t, d.IsMethod)
		assert.Contains(t, d.Definition("task"), `task.NewMethod("example.com/demo.FileSource.Content"`)
	})

	t.Run("local cells land in the metadata", func(t *testing.T) {
		opts := &directive.Options{LocalCells: true, Resolved: &token.Position{}}
		p := analyzePlan(t, freeFnSrc, plan.ContextFreeFunction, opts)

		assert.Contains(t, DescriptorFor(p).Definition("task"), "task.FunctionMeta{LocalCells: true}")
	})

	t.Run("id lookup goes through the registration value", func(t *testing.T) {
		p := analyzePlan(t, freeFnSrc, plan.ContextFreeFunction, nil)

		def := DescriptorFor(p).IDDefinition("fetchNative", "task")
		assert.Contains(t, def, "task.GetFunctionID(fetchNative.Get())")
	})
}
