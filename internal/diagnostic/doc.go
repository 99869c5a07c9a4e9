// Package diagnostic provides structured, source-positioned errors for the
// task-function generator.
//
// Every validation failure in the pass is a Diagnostic attached to a
// token.Position. A declaration that fails validation reports exactly one
// error and yields no plan; the overall run keeps processing the remaining
// declarations.
package diagnostic
