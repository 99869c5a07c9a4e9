// Package directive recognizes and parses the //task:function annotation.
//
// The directive marks a function for the task-function transformation and
// optionally carries a parenthesized, comma-separated flag list:
//
//	//task:function
//	//task:function(fs, network)
//	//task:function(local_cells)
//
// Accepted flags are fs, network (advisory IO classification), resolved
// (assert the output is a fully resolved value), and local_cells (force
// local-cells persistence; implies resolved). Any other token is a hard
// parse error.
package directive
