package gen

import (
	"fmt"

	"taskfn-generator/internal/plan"
)

// NativeFunctionDescriptor is the identity used to register one task
// function: the qualified path string, the expression referencing the inline
// callable, and the two flags recorded in the registration metadata.
type NativeFunctionDescriptor struct {
	QualifiedPath string
	// PathExpr references the inline function: a plain identifier for free
	// functions, a method expression like (*FileSource).contentTaskFunctionInline
	// for methods with a declared receiver.
	PathExpr   string
	IsMethod   bool
	LocalCells bool
}

// DescriptorFor builds the registration descriptor for a plan.
func DescriptorFor(p *plan.Plan) NativeFunctionDescriptor {
	pathExpr := p.InlineName
	if p.Decl.Recv != nil && len(p.Decl.Recv.List) > 0 {
		pathExpr = fmt.Sprintf("(%s).%s", exprString(p.Fset, p.Decl.Recv.List[0].Type), p.InlineName)
	}

	localCells := p.Options != nil && p.Options.LocalCells

	return NativeFunctionDescriptor{
		QualifiedPath: p.QualifiedPath,
		PathExpr:      pathExpr,
		IsMethod:      p.IsMethod(),
		LocalCells:    localCells,
	}
}

// Type is the declared type of the registration value.
func (d NativeFunctionDescriptor) Type(runtimePkg string) string {
	return fmt.Sprintf("*%s.Lazy[*%s.NativeFunction]", runtimePkg, runtimePkg)
}

// Definition renders the lazily-built registration value. The constructor is
// NewMethod or NewFunction depending on the method flag.
func (d NativeFunctionDescriptor) Definition(runtimePkg string) string {
	constructor := "NewFunction"
	if d.IsMethod {
		constructor = "NewMethod"
	}

	return fmt.Sprintf(`%s.NewLazy(func() *%s.NativeFunction {
	return %s.%s(%q, %s.FunctionMeta{LocalCells: %t}, %s)
})`,
		runtimePkg, runtimePkg, runtimePkg, constructor,
		d.QualifiedPath, runtimePkg, d.LocalCells, d.PathExpr)
}

// IDType is the declared type of the function-id value.
func (d NativeFunctionDescriptor) IDType(runtimePkg string) string {
	return fmt.Sprintf("*%s.Lazy[%s.FunctionID]", runtimePkg, runtimePkg)
}

// IDDefinition renders the lazily-resolved function id, looked up from the
// registration value in nativeVar.
func (d NativeFunctionDescriptor) IDDefinition(nativeVar, runtimePkg string) string {
	return fmt.Sprintf(`%s.NewLazy(func() %s.FunctionID {
	return %s.GetFunctionID(%s.Get())
})`,
		runtimePkg, runtimePkg, runtimePkg, nativeVar)
}
