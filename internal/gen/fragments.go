package gen

import (
	"fmt"
	"go/ast"
	"strings"

	"taskfn-generator/internal/diagnostic"
	"taskfn-generator/internal/expand"
	"taskfn-generator/internal/plan"
)

// Expansion is the expanded view of one plan's signature, computed once and
// shared by the signature and body fragments so the return-shape diagnostic
// is reported exactly once.
type Expansion struct {
	// Params is the exposed parameter list, receiver first, with expanded
	// input types.
	Params []plan.Input
	// Output is the expanded return type (or the declared fallback when
	// expansion failed).
	Output ast.Expr
	// OutputElem is the element type of the expanded Handle output, nil
	// when the terminal handle shape was not reached.
	OutputElem ast.Expr
}

// Expand computes the exposed parameter and return types for a plan. The
// returned diagnostics carry at most the single return-shape error;
// generation continues with the declared type as fallback.
func Expand(p *plan.Plan, exp *expand.Expander) (*Expansion, *diagnostic.Diagnostics) {
	x := &Expansion{}

	if p.Recv != nil {
		// the receiver's canonical handle type is already normalized
		x.Params = append(x.Params, *p.Recv)
	}

	for _, in := range p.Inputs {
		x.Params = append(x.Params, plan.Input{
			Name:        in.Name,
			Type:        exp.InputType(in.Type),
			Synthesized: in.Synthesized,
		})
	}

	output, diags := exp.OutputType(p.Fset, p.Results)
	x.Output = output

	if elem, ok := exp.HandleElem(output); ok {
		x.OutputElem = elem
	}

	return x, diags
}

// outputElemString is the type argument for the output conversion and the
// resolved assertion. When output expansion failed we fall back to the
// declared type so the generated file carries the same secondary type error
// the user would get anyway.
func (x *Expansion) outputElemString(p *plan.Plan) string {
	if x.OutputElem != nil {
		return exprString(p.Fset, x.OutputElem)
	}

	return exprString(p.Fset, x.Output)
}

// ExposedSignature renders the public call form: receiver-first parameters
// with expanded input types and the expanded return type.
func ExposedSignature(p *plan.Plan, x *Expansion, name string) string {
	var params []string
	for _, in := range x.Params {
		params = append(params, in.Name+" "+exprString(p.Fset, in.Type))
	}

	return fmt.Sprintf("func %s(%s) %s",
		name, strings.Join(params, ", "), exprString(p.Fset, x.Output))
}

// InlineDecl renders the inline function: the original declaration with
// parameters renamed to slot-indexed argN values of the expanded input
// types, each declared name rebound through the task-input conversion, and
// the original body appended verbatim as a nested block. The receiver, when
// present, is passed through unconverted.
func InlineDecl(p *plan.Plan, x *Expansion, runtimePkg string) string {
	var b strings.Builder

	b.WriteString("func ")

	if p.Decl.Recv != nil && len(p.Decl.Recv.List) > 0 {
		recv := p.Decl.Recv.List[0]

		recvName := ""
		if len(recv.Names) == 1 {
			recvName = recv.Names[0].Name + " "
		}

		fmt.Fprintf(&b, "(%s%s) ", recvName, exprString(p.Fset, recv.Type))
	}

	b.WriteString(p.InlineName)
	b.WriteString("(")

	offset := p.ParamSlotOffset()
	params := make([]string, 0, len(p.Inputs)+1)

	if p.ExplicitSelf {
		// the explicitly typed self parameter is kept as-is
		params = append(params, "self "+exprString(p.Fset, p.Recv.Type))
	}

	expanded := x.Params[len(x.Params)-len(p.Inputs):]
	for i, in := range expanded {
		params = append(params, fmt.Sprintf("arg%d %s", i+offset, exprString(p.Fset, in.Type)))
	}

	b.WriteString(strings.Join(params, ", "))
	b.WriteString(")")
	b.WriteString(resultsString(p.Fset, p.Results))
	b.WriteString(" {\n")

	for i, in := range p.Inputs {
		if in.Synthesized {
			// nothing in the body can reference an unnamed parameter
			continue
		}

		fmt.Fprintf(&b, "%s := %s.FromTaskInput[%s](arg%d)\n",
			in.Name, runtimePkg, exprString(p.Fset, in.Type), i+offset)
	}

	b.WriteString(blockString(p.Fset, p.Decl.Body))
	b.WriteString("\n}")

	return b.String()
}

// persistence renders the persistence-mode selection for a receiver-less
// call site.
func persistence(p *plan.Plan, runtimePkg string) string {
	if p.Options != nil && p.Options.LocalCells {
		return runtimePkg + ".PersistenceLocalCells"
	}

	return runtimePkg + ".NonLocalPersistenceFromInputs(inputs)"
}

// persistenceWithThis renders the persistence-mode selection for a call site
// with a receiver.
func persistenceWithThis(p *plan.Plan, runtimePkg string) string {
	if p.Options != nil && p.Options.LocalCells {
		return runtimePkg + ".PersistenceLocalCells"
	}

	return runtimePkg + ".NonLocalPersistenceFromInputsAndThis(this, inputs)"
}

// assertion renders the resolved-output compile-time assertion, or "" when
// the resolved flag is not set.
func assertion(p *plan.Plan, x *Expansion, runtimePkg string) string {
	if p.Options == nil || p.Options.Resolved == nil {
		return ""
	}

	return fmt.Sprintf("%s.AssertReturnsResolved[%s]()\n", runtimePkg, x.outputElemString(p))
}

// inputIdents lists the exposed non-receiver parameter names in order.
func inputIdents(p *plan.Plan) string {
	var names []string
	for _, in := range p.Inputs {
		names = append(names, in.Name)
	}

	return strings.Join(names, ", ")
}

// StaticBody renders the exposed body for a static dispatch call through the
// given function-id lazy value.
func StaticBody(p *plan.Plan, x *Expansion, functionIDVar, runtimePkg string) string {
	var b strings.Builder

	b.WriteString("{\n")
	b.WriteString(assertion(p, x, runtimePkg))
	fmt.Fprintf(&b, "inputs := %s.NewInputs(%s)\n", runtimePkg, inputIdents(p))

	if p.Recv != nil {
		fmt.Fprintf(&b, "this := %s.IntoRaw()\n", p.Recv.Name)
		fmt.Fprintf(&b, "persistence := %s\n", persistenceWithThis(p, runtimePkg))
		fmt.Fprintf(&b, "return %s.OutputFromRaw[%s](%s.DynamicThisCall(%s.Get(), this, inputs, persistence))\n",
			runtimePkg, x.outputElemString(p), runtimePkg, functionIDVar)
	} else {
		fmt.Fprintf(&b, "persistence := %s\n", persistence(p, runtimePkg))
		fmt.Fprintf(&b, "return %s.OutputFromRaw[%s](%s.DynamicCall(%s.Get(), inputs, persistence))\n",
			runtimePkg, x.outputElemString(p), runtimePkg, functionIDVar)
	}

	b.WriteString("}")

	return b.String()
}

// DynamicBody renders the exposed body for a dynamic dispatch call through
// the given trait-type-id lazy value, keyed by the function's textual name.
// Trait methods without a receiver are not supported; the generated body is
// an explicit unimplemented stub.
func DynamicBody(p *plan.Plan, x *Expansion, traitIDVar, runtimePkg string) string {
	if p.Recv == nil {
		return "{\npanic(\"unimplemented: trait methods without a receiver are not supported\")\n}"
	}

	var b strings.Builder

	b.WriteString("{\n")
	b.WriteString(assertion(p, x, runtimePkg))
	fmt.Fprintf(&b, "inputs := %s.NewInputs(%s)\n", runtimePkg, inputIdents(p))
	fmt.Fprintf(&b, "this := %s.IntoRaw()\n", p.Recv.Name)
	fmt.Fprintf(&b, "persistence := %s\n", persistenceWithThis(p, runtimePkg))
	fmt.Fprintf(&b, "return %s.OutputFromRaw[%s](%s.TraitCall(%s.Get(), %q, this, inputs, persistence))\n",
		runtimePkg, x.outputElemString(p), runtimePkg, traitIDVar, p.Name)
	b.WriteString("}")

	return b.String()
}
