package gen

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"golang.org/x/tools/imports"

	"taskfn-generator/internal/common"
	"taskfn-generator/internal/diagnostic"
	"taskfn-generator/internal/expand"
	"taskfn-generator/internal/plan"
)

// Config holds configuration for code generation.
type Config struct {
	// OutputSuffix replaces the ".go" suffix of the source file to name the
	// generated sibling file.
	OutputSuffix string
	// RuntimeImport is the import path of the runtime facade package.
	RuntimeImport string
	// RuntimePkg is the qualifier under which annotated code references the
	// runtime facade.
	RuntimePkg string
}

// DefaultConfig returns the default generator configuration.
func DefaultConfig() Config {
	return Config{
		OutputSuffix:  "_taskfn.go",
		RuntimeImport: "taskfn-generator/task",
		RuntimePkg:    expand.DefaultRuntimePkg,
	}
}

// Generator assembles generated task-function files from analyzed plans.
type Generator struct {
	config Config
	exp    *expand.Expander
}

// NewGenerator creates a Generator with the given configuration.
func NewGenerator(config Config) *Generator {
	if config.OutputSuffix == "" {
		config.OutputSuffix = "_taskfn.go"
	}

	if config.RuntimeImport == "" {
		config.RuntimeImport = "taskfn-generator/task"
	}

	exp := expand.New(config.RuntimePkg)
	config.RuntimePkg = exp.RuntimePkg

	return &Generator{config: config, exp: exp}
}

// Expander returns the expander matching the generator's runtime qualifier.
func (g *Generator) Expander() *expand.Expander {
	return g.exp
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Path is where the file belongs, next to its source file.
	Path string
	// Content is the formatted Go source code.
	Content []byte
}

// GenerateFile generates the sibling _taskfn.go file for one annotated
// source file. Return-shape diagnostics are collected per declaration;
// generation proceeds best-effort so a single bad return type cannot stall
// the remaining declarations.
func (g *Generator) GenerateFile(pkgName, srcPath string, file *ast.File, plans []*plan.Plan) (*GeneratedFile, *diagnostic.Diagnostics) {
	diags := &diagnostic.Diagnostics{}

	data := &templateData{
		Source:        srcPath,
		PackageName:   pkgName,
		RuntimeImport: g.config.RuntimeImport,
	}

	traitSeen := map[string]bool{}

	for _, p := range plans {
		x, xdiags := Expand(p, g.exp)
		diags.Merge(xdiags)

		d := DescriptorFor(p)
		base := varBase(p)
		nativeVar := base + "Native"
		idVar := base + "FunctionID"
		exposedName := exposedName(p)

		fn := functionData{
			OriginalName: p.Name,
			NativeVar:    nativeVar,
			NativeType:   d.Type(g.config.RuntimePkg),
			NativeDef:    d.Definition(g.config.RuntimePkg),
			IDVar:        idVar,
			IDType:       d.IDType(g.config.RuntimePkg),
			IDDef:        d.IDDefinition(nativeVar, g.config.RuntimePkg),
			InlineDecl:   InlineDecl(p, x, g.config.RuntimePkg),
			ExposedName:  exposedName,
			Exposed:      ExposedSignature(p, x, exposedName),
		}

		if p.Context == plan.ContextTraitDefaultMethod {
			traitVar := traitVarName(traitName(p))
			if !traitSeen[traitName(p)] {
				traitSeen[traitName(p)] = true
				data.Traits = append(data.Traits, traitData{
					VarName:    traitVar,
					Name:       traitName(p),
					Definition: traitDefinition(traitName(p), g.config.RuntimePkg),
				})
			}

			fn.ExposedBody = DynamicBody(p, x, traitVar, g.config.RuntimePkg)
		} else {
			fn.ExposedBody = StaticBody(p, x, idVar, g.config.RuntimePkg)
		}

		data.Functions = append(data.Functions, fn)
	}

	g.collectImports(data, file, plans)

	content, err := renderFile(data)
	if err != nil {
		diags.AddError("render_failed", fmt.Sprintf("rendering %s: %v", srcPath, err), position(plans, srcPath))

		return nil, diags
	}

	outPath := strings.TrimSuffix(srcPath, ".go") + g.config.OutputSuffix

	formatted, err := imports.Process(outPath, content, nil)
	if err != nil {
		diags.AddError("format_failed",
			fmt.Sprintf("formatting %s: %v\nunformatted source:\n%s", outPath, err, content),
			position(plans, srcPath))

		return nil, diags
	}

	return &GeneratedFile{Path: outPath, Content: formatted}, diags
}

// collectImports carries the source file's imports plus the runtime facade
// into the generated file. Unused ones are pruned by the imports processor,
// so over-approximating here is harmless.
func (g *Generator) collectImports(data *templateData, file *ast.File, plans []*plan.Plan) {
	if g.usesBareHandles(plans) {
		data.DotImportRuntime = true
	}

	seen := map[string]bool{}

	runtimeAlias := ""
	if common.PkgAlias(g.config.RuntimeImport) != g.config.RuntimePkg {
		runtimeAlias = g.config.RuntimePkg
	}

	data.Imports = append(data.Imports, importSpec{Alias: runtimeAlias, Path: g.config.RuntimeImport})
	seen[g.config.RuntimeImport] = true

	if file == nil {
		return
	}

	for _, imp := range file.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		if seen[path] {
			continue
		}

		seen[path] = true

		alias := ""
		if imp.Name != nil && imp.Name.Name != "_" {
			alias = imp.Name.Name
		}

		data.Imports = append(data.Imports, importSpec{Alias: alias, Path: path})
	}
}

// usesBareHandles reports whether any declared type spells a handle without
// the runtime qualifier, which forces a dot-import of the facade.
func (g *Generator) usesBareHandles(plans []*plan.Plan) bool {
	bare := false

	check := func(expr ast.Expr) {
		if expr == nil {
			return
		}

		ast.Inspect(expr, func(n ast.Node) bool {
			idx, ok := n.(*ast.IndexExpr)
			if !ok {
				return true
			}

			if id, ok := idx.X.(*ast.Ident); ok && (id.Name == "Handle" || id.Name == "ResolvedHandle") {
				bare = true
			}

			return true
		})
	}

	for _, p := range plans {
		if p.Recv != nil {
			check(p.Recv.Type)
		}

		for _, in := range p.Inputs {
			check(in.Type)
		}

		if p.Results != nil {
			for _, field := range p.Results.List {
				check(field.Type)
			}
		}
	}

	return bare
}

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

// varBase derives the shared identifier stem for a function's generated
// variables, always unexported.
func varBase(p *plan.Plan) string {
	base := p.Name
	if p.RecvType != "" {
		base = p.RecvType + upperFirst(p.Name)
	}

	return lowerFirst(base)
}

// exposedName names the generated exposed function. The original name cannot
// be reused: the original declaration stays in the package. Export matches
// the original function's export.
func exposedName(p *plan.Plan) string {
	base := p.Name
	if p.RecvType != "" {
		base = p.RecvType + upperFirst(p.Name)
		if !ast.IsExported(p.Name) {
			base = lowerFirst(base)
		}
	}

	return base + "Task"
}

func traitName(p *plan.Plan) string {
	if p.Trait != "" {
		return p.Trait
	}

	return p.RecvType
}

func traitVarName(trait string) string {
	return lowerFirst(trait) + "TraitTypeID"
}

func traitDefinition(trait, runtimePkg string) string {
	return fmt.Sprintf(`%s.NewLazy(func() %s.TraitTypeID {
	return %s.GetTraitTypeID(%q)
})`, runtimePkg, runtimePkg, runtimePkg, trait)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}

	return strings.ToLower(s[:1]) + s[1:]
}

// position picks a representative position for file-level failures: the
// first plan's declaration, or just the file when no plan is available.
func position(plans []*plan.Plan, srcPath string) token.Position {
	for _, p := range plans {
		if p.Fset != nil && p.Decl != nil && p.Decl.Pos().IsValid() {
			return p.Fset.Position(p.Decl.Pos())
		}
	}

	return token.Position{Filename: srcPath}
}
