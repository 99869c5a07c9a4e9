// Package analyze scans Go packages for annotated function declarations.
//
// The scanner loads packages, walks their syntax for the task-function
// directive, classifies each annotated declaration into its definition
// context using the configured trait topology, and delegates validation and
// planning to the plan analyzer. Declarations fail independently: one bad
// function never blocks the rest of its file.
package analyze
