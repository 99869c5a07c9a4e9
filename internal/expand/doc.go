// Package expand normalizes parameter and return types of task functions.
//
// Input expansion rewrites a declared parameter type into the form the
// exposed signature advertises: resolved handles widen to general handles,
// recursing through slice, pointer, and parenthesized wrappers; every other
// type passes through unchanged.
//
// Output expansion strips the known return wrappers (paren groups, the
// trailing error of a (T, error) pair, absence of results) down to the
// required terminal handle type, reporting a diagnostic when the terminal
// shape cannot be reached.
package expand
