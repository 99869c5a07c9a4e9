// Package plan analyzes an annotated function declaration into a
// TaskFunctionPlan: the validated receiver, the ordered input list, the raw
// return shape, and the parsed directive options. The plan is built once per
// declaration and read by every code-generation path.
package plan
