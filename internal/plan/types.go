package plan

import (
	"go/ast"
	"go/token"

	"taskfn-generator/internal/directive"
)

// Input is a normalized parameter: a simple name bound to a type expression.
// The receiver, when present, is represented as a synthetic Input whose type
// is the canonical handle-to-receiver type.
type Input struct {
	Name string
	Type ast.Expr
	// Synthesized is set when Name is a deterministic arg{n} placeholder
	// for an unnamed or blank binding. The inline body skips the input
	// conversion for synthesized names; nothing can reference them.
	Synthesized bool
}

// Plan is the analyzed form of one annotated function. It owns no external
// state; the generator paths read it without mutating it.
type Plan struct {
	// Name is the original function name.
	Name string
	// QualifiedPath is the registry identity,
	// e.g. "examples/basic.FileSource.Content".
	QualifiedPath string
	// Context is the declaration kind the function appeared in.
	Context DefinitionContext
	// Recv is the synthetic receiver input, nil for receiver-less functions.
	Recv *Input
	// RecvType is the receiver's base type name ("" when unknown or absent).
	RecvType string
	// ExplicitSelf is set when the receiver came from an explicitly typed
	// first parameter named self rather than a method receiver.
	ExplicitSelf bool
	// Inputs are the non-receiver parameters in declaration order.
	Inputs []Input
	// Results is the declared result list, nil for no results. Output
	// normalization happens in the expander.
	Results *ast.FieldList
	// Options is the parsed directive configuration.
	Options *directive.Options
	// Trait is the trait name for trait contexts, "" otherwise. Filled by
	// the scanner, not the analyzer.
	Trait string
	// InlineName is the mangled identifier of the generated inline function.
	InlineName string
	// Decl is the original declaration; its body is transplanted verbatim
	// into the inline function.
	Decl *ast.FuncDecl
	// Fset positions Decl.
	Fset *token.FileSet
}

// IsMethod reports whether the plan carries a receiver.
func (p *Plan) IsMethod() bool {
	return p.Recv != nil
}

// ParamSlotOffset is the 0-based slot index of the first non-receiver
// parameter, used for the inline function's synthesized argN names: the
// receiver, when present, occupies slot 0.
func (p *Plan) ParamSlotOffset() int {
	if p.Recv != nil {
		return 1
	}

	return 0
}
