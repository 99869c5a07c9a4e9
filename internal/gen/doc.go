// Package gen produces the generated code for task functions.
//
// Every body kind is an independent pure function of the analyzed plan:
// the inline declaration (the minimally wrapped original body the executor
// invokes), the exposed signature, the static dispatch body (call by function
// id), the dynamic dispatch body (trait call by trait type and method name),
// and the two lazily-initialized descriptor values. The Generator assembles
// the fragments for one source file into a sibling _taskfn.go file, runs it
// through the goimports processor, and the writer puts it on disk.
package gen
