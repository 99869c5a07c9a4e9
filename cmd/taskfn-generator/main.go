// Package main provides the CLI entrypoint for taskfn-generator.
//
// taskfn-generator is a Go codegen tool that:
//   - Scans Go packages for //task:function annotated declarations
//   - Validates each declaration against its definition context
//   - Generates schedulable wrappers, inline callables and registration
//     descriptors into sibling _taskfn.go files
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/mattn/go-isatty"
	"github.com/xyproto/env/v2"

	"taskfn-generator/internal/analyze"
	"taskfn-generator/internal/config"
	"taskfn-generator/internal/diagnostic"
	"taskfn-generator/internal/gen"
)

func main() {
	configPath := flag.String("config", env.Str("TASKFN_CONFIG", "taskfn.yaml"), "path to the generator configuration")
	outputSuffix := flag.String("output-suffix", "", "override the configured generated-file suffix")
	dryRun := flag.Bool("dry-run", false, "report what would be generated without writing files")
	debug := flag.Bool("debug", env.Bool("TASKFN_DEBUG"), "dump analyzed plans to stderr")
	flag.Parse()

	os.Exit(run(*configPath, *outputSuffix, flag.Args(), *dryRun, *debug))
}

func run(configPath, outputSuffix string, patterns []string, dryRun, debug bool) int {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	if outputSuffix != "" {
		cfg.OutputSuffix = outputSuffix
	}

	scanner := analyze.NewScanner(cfg)

	files, diags, err := scanner.Scan(patterns...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	g := gen.NewGenerator(gen.Config{
		OutputSuffix:  cfg.OutputSuffix,
		RuntimeImport: cfg.RuntimeImport,
		RuntimePkg:    cfg.RuntimePackage,
	})

	var generated []*gen.GeneratedFile

	for _, sf := range files {
		if debug {
			fmt.Fprintf(os.Stderr, "== %s (%d annotated)\n", sf.Path, len(sf.Plans))
			spew.Fdump(os.Stderr, sf.Plans)
		}

		out, fdiags := g.GenerateFile(sf.PkgName, sf.Path, sf.File, sf.Plans)
		diags.Merge(fdiags)

		if out != nil {
			generated = append(generated, out)
		}
	}

	report(diags)

	if dryRun {
		for _, f := range generated {
			fmt.Printf("would write %s (%d bytes)\n", f.Path, len(f.Content))
		}
	} else {
		// Files with a return-shape fallback are still written; the generated
		// code carries the type mismatch to an obvious place for the compiler.
		if err := gen.WriteFiles(generated); err != nil {
			fmt.Fprintln(os.Stderr, err)

			return 1
		}

		fmt.Printf("generated %d file(s) from %d annotated source file(s)\n", len(generated), len(files))
	}

	if diags.HasErrors() {
		return 1
	}

	return 0
}

// ANSI colors for terminal diagnostics.
const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorReset  = "\x1b[0m"
)

// report prints all diagnostics to stderr, colorized by severity when stderr
// is a terminal.
func report(diags *diagnostic.Diagnostics) {
	color := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

	print := func(tint string, d diagnostic.Diagnostic) {
		if color {
			fmt.Fprintf(os.Stderr, "%s%s: %s%s\n", tint, d.Severity, d.String(), colorReset)

			return
		}

		fmt.Fprintf(os.Stderr, "%s: %s\n", d.Severity, d.String())
	}

	for _, w := range diags.Warnings {
		print(colorYellow, w)
	}

	for _, e := range diags.Errors {
		print(colorRed, e)
	}
}
