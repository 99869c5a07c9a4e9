package directive

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"taskfn-generator/internal/common"
	"taskfn-generator/internal/diagnostic"
)

// Prefix is the comment text that marks a task function declaration.
const Prefix = "//task:function"

// IoMarker is an advisory classification of the IO a task function performs.
// Recorded for static analysis tooling; the transformation itself ignores it.
type IoMarker int

const (
	// IoFilesystem marks functions that directly touch the filesystem.
	IoFilesystem IoMarker = iota
	// IoNetwork marks functions that directly touch the network.
	IoNetwork
)

// String returns the directive token for the marker.
func (m IoMarker) String() string {
	switch m {
	case IoFilesystem:
		return "fs"
	case IoNetwork:
		return "network"
	default:
		return common.UnknownStr
	}
}

// Options is the parsed configuration of one //task:function directive.
type Options struct {
	// IoMarkers is the set of declared IO classifications.
	IoMarkers map[IoMarker]struct{}
	// Resolved is the position of the resolved flag when set. Errors caused
	// by the flag are reported at this position. Setting local_cells sets
	// Resolved to the same position.
	Resolved *token.Position
	// LocalCells forces the local-cells persistence mode.
	LocalCells bool
}

// Match reports whether the comment is a task:function directive and, if so,
// returns the raw argument text (without parentheses) and its byte offset
// within the comment.
func Match(c *ast.Comment) (args string, argsOffset int, ok bool) {
	text := c.Text
	if !strings.HasPrefix(text, Prefix) {
		return "", 0, false
	}

	rest := text[len(Prefix):]
	trimmed := strings.TrimRight(rest, " \t")

	if trimmed == "" {
		return "", len(Prefix), true
	}

	if !strings.HasPrefix(trimmed, "(") {
		// some other directive sharing the prefix, e.g. //task:functions
		return "", 0, false
	}

	if !strings.HasSuffix(trimmed, ")") {
		// unterminated argument list, surfaced via Malformed
		return "", 0, false
	}

	return trimmed[1 : len(trimmed)-1], len(Prefix) + 1, true
}

// Malformed reports whether the comment opens a task:function argument list
// that never closes. Such comments are unmistakably meant as directives, so
// callers report an error rather than skipping them.
func Malformed(c *ast.Comment) bool {
	if !strings.HasPrefix(c.Text, Prefix) {
		return false
	}

	rest := strings.TrimRight(c.Text[len(Prefix):], " \t")

	return strings.HasPrefix(rest, "(") && !strings.HasSuffix(rest, ")")
}

// Parse parses the directive's argument list into Options. base is the
// source position of the comment's first character; argsOffset is the byte
// offset of the argument text within the comment, used to position errors at
// the offending token.
func Parse(args string, base token.Position, argsOffset int) (*Options, *diagnostic.Diagnostics) {
	opts := &Options{IoMarkers: map[IoMarker]struct{}{}}
	diags := &diagnostic.Diagnostics{}

	offset := argsOffset
	for _, raw := range strings.Split(args, ",") {
		tok := strings.TrimSpace(raw)
		tokPos := tokenPosition(base, offset+leadingSpace(raw))
		offset += len(raw) + 1 // consumed text plus the comma

		if tok == "" {
			if strings.TrimSpace(args) == "" {
				break // empty parentheses
			}

			diags.AddError("empty_flag", "empty task:function flag", tokPos)

			continue
		}

		switch tok {
		case "fs":
			opts.IoMarkers[IoFilesystem] = struct{}{}
		case "network":
			opts.IoMarkers[IoNetwork] = struct{}{}
		case "resolved":
			pos := tokPos
			opts.Resolved = &pos
		case "local_cells":
			pos := tokPos
			opts.LocalCells = true
			opts.Resolved = &pos
		default:
			diags.AddError("unknown_flag",
				fmt.Sprintf("unexpected token %q, expected one of: \"fs\", \"network\", \"resolved\", \"local_cells\"", tok),
				tokPos)
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}

	return opts, diags
}

func leadingSpace(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t"))
}

// tokenPosition shifts base right by offset bytes. Directive comments are
// single-line, so only the column moves.
func tokenPosition(base token.Position, offset int) token.Position {
	pos := base
	pos.Column += offset
	pos.Offset += offset

	return pos
}
