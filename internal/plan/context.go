package plan

import "taskfn-generator/internal/common"

// DefinitionContext is the kind of declaration an annotated function appears
// in. It decides which receiver forms are legal and which dispatch path the
// exposed body takes.
type DefinitionContext int

const (
	// ContextFreeFunction is a plain annotated top-level function.
	ContextFreeFunction DefinitionContext = iota
	// ContextInherentMethod is a method on a task value type that is not
	// part of any trait.
	ContextInherentMethod
	// ContextTraitImplMethod is a method implementing a configured trait.
	ContextTraitImplMethod
	// ContextTraitDefaultMethod is a method on a trait's defaults type.
	ContextTraitDefaultMethod
)

// FunctionKind returns the declaration kind used in diagnostics, e.g.
// "task trait impl methods do not support generic parameters".
func (c DefinitionContext) FunctionKind() string {
	switch c {
	case ContextFreeFunction:
		return "task functions"
	case ContextInherentMethod:
		return "task value methods"
	case ContextTraitImplMethod:
		return "task trait impl methods"
	case ContextTraitDefaultMethod:
		return "task trait methods"
	default:
		return common.UnknownStr
	}
}

// String returns a short context name.
func (c DefinitionContext) String() string {
	switch c {
	case ContextFreeFunction:
		return "free-function"
	case ContextInherentMethod:
		return "inherent-method"
	case ContextTraitImplMethod:
		return "trait-impl-method"
	case ContextTraitDefaultMethod:
		return "trait-default-method"
	default:
		return common.UnknownStr
	}
}
