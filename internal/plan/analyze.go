package plan

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"taskfn-generator/internal/diagnostic"
	"taskfn-generator/internal/directive"
	"taskfn-generator/internal/expand"
)

// Analyzer validates annotated declarations and builds their plans.
type Analyzer struct {
	runtimePkg string
	exp        *expand.Expander
}

// NewAnalyzer creates an Analyzer recognizing the given runtime package
// qualifier (empty means the default).
func NewAnalyzer(runtimePkg string) *Analyzer {
	exp := expand.New(runtimePkg)

	return &Analyzer{runtimePkg: exp.RuntimePkg, exp: exp}
}

// Expander returns the type expander configured for this analyzer.
func (a *Analyzer) Expander() *expand.Expander {
	return a.exp
}

// Analyze validates the declaration against its definition context and
// builds a Plan. On any violation it reports exactly one error at its source
// position and returns a nil plan, letting the caller short-circuit without
// cascading secondary errors.
func (a *Analyzer) Analyze(fset *token.FileSet, pkgPath string, decl *ast.FuncDecl, ctx DefinitionContext, opts *directive.Options) (*Plan, *diagnostic.Diagnostics) {
	diags := &diagnostic.Diagnostics{}
	kind := ctx.FunctionKind()
	name := decl.Name.Name
	qualified := qualify(pkgPath, "", name)

	// Checked before any other validation.
	if tp := decl.Type.TypeParams; tp != nil && len(tp.List) > 0 {
		diags.AddErrorFor("generic_params",
			fmt.Sprintf("%s do not support generic parameters", kind),
			qualified, position(fset, tp.Pos()))

		return nil, diags
	}

	var (
		recv         *Input
		recvType     string
		explicitSelf bool
	)

	if decl.Recv != nil && len(decl.Recv.List) > 0 {
		field := decl.Recv.List[0]
		shape := receiverShape(field.Type)

		switch {
		case shape.generic:
			diags.AddErrorFor("generic_receiver",
				fmt.Sprintf("%s do not support generic receivers", kind),
				qualified, position(fset, field.Type.Pos()))

			return nil, diags
		case ctx == ContextFreeFunction:
			diags.AddErrorFor("receiver_context",
				fmt.Sprintf("%s cannot declare a method receiver", kind),
				qualified, position(fset, field.Pos()))

			return nil, diags
		case !shape.pointer || shape.base == "":
			diags.AddErrorFor("receiver_by_value",
				fmt.Sprintf("%s cannot take the receiver by value, use a pointer receiver or self %s.Handle[%s] instead",
					kind, a.runtimePkg, receiverName(shape.base)),
				qualified, position(fset, field.Type.Pos()))

			return nil, diags
		}

		recvName := "self"
		if len(field.Names) == 1 && field.Names[0].Name != "_" {
			recvName = field.Names[0].Name
		}

		recvType = shape.base
		recv = &Input{Name: recvName, Type: a.handleOf(shape.base)}
	}

	raw := flattenParams(decl.Type.Params)

	var inputs []Input

	start := 0

	if recv == nil && len(raw) > 0 {
		first := raw[0]

		if first.name != nil && first.name.Name == "self" {
			if ctx == ContextFreeFunction {
				diags.AddErrorFor("self_in_free_function",
					fmt.Sprintf("%s cannot take a self parameter", kind),
					qualified, position(fset, first.pos))

				return nil, diags
			}

			// Accepted as the receiver without validating the declared
			// type; the compiler rejects mismatches in the generated file.
			recv = &Input{Name: "self", Type: first.typ}
			explicitSelf = true
			recvType = a.receiverTypeFromHandle(first.typ)
		} else {
			if ctx == ContextTraitImplMethod || ctx == ContextTraitDefaultMethod {
				diags.AddErrorFor("missing_receiver",
					fmt.Sprintf("%s must accept a pointer receiver or self %s.Handle[Self] as the first argument", kind, a.runtimePkg),
					qualified, position(fset, first.pos))

				return nil, diags
			}

			inputs = append(inputs, paramInput(first, 1))
		}

		start = 1
	}

	if recv == nil && (ctx == ContextTraitImplMethod || ctx == ContextTraitDefaultMethod) && len(raw) == 0 {
		diags.AddErrorFor("missing_receiver",
			fmt.Sprintf("%s must accept a pointer receiver or self %s.Handle[Self] as the first argument", kind, a.runtimePkg),
			qualified, position(fset, decl.Name.Pos()))

		return nil, diags
	}

	for i := start; i < len(raw); i++ {
		slot := i + 1
		if decl.Recv != nil {
			slot = i + 2
		}

		inputs = append(inputs, paramInput(raw[i], slot))
	}

	return &Plan{
		Name:          name,
		QualifiedPath: qualify(pkgPath, recvType, name),
		Context:       ctx,
		Recv:          recv,
		RecvType:      recvType,
		ExplicitSelf:  explicitSelf,
		Inputs:        inputs,
		Results:       decl.Type.Results,
		Options:       opts,
		InlineName:    InlineName(name),
		Decl:          decl,
		Fset:          fset,
	}, diags
}

// InlineName mangles the original function name into the inline function's
// identifier. The inline function is always unexported.
func InlineName(name string) string {
	return strings.ToLower(name[:1]) + name[1:] + "TaskFunctionInline"
}

// handleOf builds the canonical handle-to-receiver type, task.Handle[Base].
func (a *Analyzer) handleOf(base string) ast.Expr {
	return &ast.IndexExpr{
		X: &ast.SelectorExpr{
			X:   ast.NewIdent(a.runtimePkg),
			Sel: ast.NewIdent("Handle"),
		},
		Index: ast.NewIdent(base),
	}
}

// receiverTypeFromHandle extracts the base type name from an explicitly
// declared self parameter of the form Handle[Base]. Best-effort only.
func (a *Analyzer) receiverTypeFromHandle(typ ast.Expr) string {
	elem, ok := a.exp.HandleElem(typ)
	if !ok {
		return ""
	}

	id, ok := elem.(*ast.Ident)
	if !ok {
		return ""
	}

	return id.Name
}

type rawParam struct {
	name *ast.Ident
	typ  ast.Expr
	pos  token.Pos
}

// flattenParams expands the parameter field list into one entry per declared
// parameter, so grouped declarations like (a, b int) yield two entries.
func flattenParams(params *ast.FieldList) []rawParam {
	if params == nil {
		return nil
	}

	var raw []rawParam
	for _, field := range params.List {
		if len(field.Names) == 0 {
			raw = append(raw, rawParam{typ: field.Type, pos: field.Type.Pos()})

			continue
		}

		for _, n := range field.Names {
			raw = append(raw, rawParam{name: n, typ: field.Type, pos: n.Pos()})
		}
	}

	return raw
}

// paramInput builds the Input for a parameter, synthesizing the
// deterministic arg{slot} placeholder for unnamed and blank bindings.
func paramInput(p rawParam, slot int) Input {
	if p.name != nil && p.name.Name != "" && p.name.Name != "_" {
		return Input{Name: p.name.Name, Type: p.typ}
	}

	return Input{Name: fmt.Sprintf("arg%d", slot), Type: p.typ, Synthesized: true}
}

type recvShape struct {
	base    string
	pointer bool
	generic bool
}

// receiverShape decomposes a method receiver's type expression.
func receiverShape(typ ast.Expr) recvShape {
	var shape recvShape

	for {
		switch t := typ.(type) {
		case *ast.ParenExpr:
			typ = t.X

			continue
		case *ast.StarExpr:
			if shape.pointer {
				return shape // **T, not a valid receiver anyway
			}

			shape.pointer = true
			typ = t.X

			continue
		case *ast.Ident:
			shape.base = t.Name

			return shape
		case *ast.IndexExpr, *ast.IndexListExpr:
			shape.generic = true

			return shape
		default:
			return shape
		}
	}
}

func receiverName(base string) string {
	if base == "" {
		return "Self"
	}

	return base
}

func position(fset *token.FileSet, pos token.Pos) token.Position {
	if fset == nil || !pos.IsValid() {
		return token.Position{}
	}

	return fset.Position(pos)
}

func qualify(pkgPath, recvType, name string) string {
	var parts []string
	if pkgPath != "" {
		parts = append(parts, pkgPath)
	}

	if recvType != "" {
		parts = append(parts, recvType)
	}

	parts = append(parts, name)

	return strings.Join(parts, ".")
}
