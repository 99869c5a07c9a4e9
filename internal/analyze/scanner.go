package analyze

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"golang.org/x/tools/go/packages"

	"taskfn-generator/internal/config"
	"taskfn-generator/internal/diagnostic"
	"taskfn-generator/internal/directive"
	"taskfn-generator/internal/plan"
)

// LoadMode specifies what information to load from packages. Syntax and file
// positions are enough; classification is purely syntactic.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax

// SourceFile is one scanned file holding at least one annotated declaration,
// ready for generation.
type SourceFile struct {
	PkgName string
	PkgPath string
	Path    string
	File    *ast.File
	Plans   []*plan.Plan
}

// Scanner finds annotated declarations across packages.
type Scanner struct {
	cfg      *config.File
	analyzer *plan.Analyzer
}

// NewScanner creates a Scanner for the given configuration.
func NewScanner(cfg *config.File) *Scanner {
	return &Scanner{
		cfg:      cfg,
		analyzer: plan.NewAnalyzer(cfg.RuntimePackage),
	}
}

// Scan loads the given package patterns (the configured ones when empty) and
// scans their syntax. Load failures abort with an error; per-declaration
// violations accumulate in the diagnostics.
func (s *Scanner) Scan(patterns ...string) ([]*SourceFile, *diagnostic.Diagnostics, error) {
	if len(patterns) == 0 {
		patterns = s.cfg.Packages
	}

	pkgs, err := packages.Load(&packages.Config{Mode: LoadMode}, patterns...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, nil, fmt.Errorf("package errors: %v", errs)
	}

	diags := &diagnostic.Diagnostics{}

	var files []*SourceFile

	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			path := pkg.Fset.Position(file.Pos()).Filename
			if strings.HasSuffix(path, s.cfg.OutputSuffix) {
				// never rescan generated siblings
				continue
			}

			sf, fdiags := s.scanFile(pkg.Fset, pkg.Name, pkg.PkgPath, path, file)
			diags.Merge(fdiags)

			if sf != nil {
				files = append(files, sf)
			}
		}
	}

	return files, diags, nil
}

// scanFile walks one file's declarations and plans every annotated one.
// Returns nil when the file carries no annotations.
func (s *Scanner) scanFile(fset *token.FileSet, pkgName, pkgPath, path string, file *ast.File) (*SourceFile, *diagnostic.Diagnostics) {
	diags := &diagnostic.Diagnostics{}

	var plans []*plan.Plan

	for _, d := range file.Decls {
		decl, ok := d.(*ast.FuncDecl)
		if !ok || decl.Doc == nil {
			continue
		}

		marker := findDirective(decl.Doc)
		if marker == nil {
			if bad := findMalformed(decl.Doc); bad != nil {
				diags.AddError("malformed_directive",
					"unterminated task:function argument list",
					fset.Position(bad.Pos()))
			}

			continue
		}

		args, argsOffset, _ := directive.Match(marker)

		opts, odiags := directive.Parse(args, fset.Position(marker.Pos()), argsOffset)
		diags.Merge(odiags)

		if opts == nil {
			continue
		}

		ctx, trait := s.classify(decl)

		p, pdiags := s.analyzer.Analyze(fset, pkgPath, decl, ctx, opts)
		diags.Merge(pdiags)

		if p == nil {
			continue
		}

		p.Trait = trait
		plans = append(plans, p)
	}

	if len(plans) == 0 {
		return nil, diags
	}

	return &SourceFile{
		PkgName: pkgName,
		PkgPath: pkgPath,
		Path:    path,
		File:    file,
		Plans:   plans,
	}, diags
}

// findDirective returns the first directive comment in the doc group, nil
// when there is none.
func findDirective(doc *ast.CommentGroup) *ast.Comment {
	for _, c := range doc.List {
		if _, _, ok := directive.Match(c); ok {
			return c
		}
	}

	return nil
}

// findMalformed returns the first comment opening an argument list that never
// closes, nil when there is none.
func findMalformed(doc *ast.CommentGroup) *ast.Comment {
	for _, c := range doc.List {
		if directive.Malformed(c) {
			return c
		}
	}

	return nil
}

// classify maps a declaration onto its definition context using the trait
// topology. The receiver type decides: default-body types yield trait
// methods, implementing types yield trait impl methods, any other receiver
// is an inherent method, and no receiver at all is a free function. An
// explicitly typed self parameter classifies by its handle's element type.
func (s *Scanner) classify(decl *ast.FuncDecl) (plan.DefinitionContext, string) {
	name := decl.Name.Name

	base := recvBase(decl)
	if base == "" {
		base = s.selfBase(decl)
		if base == "" {
			return plan.ContextFreeFunction, ""
		}
	}

	if t := s.cfg.TraitForDefault(base, name); t != nil {
		return plan.ContextTraitDefaultMethod, t.Name
	}

	if t := s.cfg.TraitForImpl(base, name); t != nil {
		return plan.ContextTraitImplMethod, t.Name
	}

	return plan.ContextInherentMethod, ""
}

// recvBase extracts the receiver's base type name, "" for receiver-less
// declarations or shapes the analyzer will reject anyway.
func recvBase(decl *ast.FuncDecl) string {
	if decl.Recv == nil || len(decl.Recv.List) == 0 {
		return ""
	}

	typ := decl.Recv.List[0].Type

	for {
		switch t := typ.(type) {
		case *ast.ParenExpr:
			typ = t.X
		case *ast.StarExpr:
			typ = t.X
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}

// selfBase extracts the element type name of an explicitly typed first
// parameter named self, "" when there is none.
func (s *Scanner) selfBase(decl *ast.FuncDecl) string {
	params := decl.Type.Params
	if params == nil || len(params.List) == 0 {
		return ""
	}

	first := params.List[0]
	if len(first.Names) == 0 || first.Names[0].Name != "self" {
		return ""
	}

	elem, ok := s.analyzer.Expander().HandleElem(first.Type)
	if !ok {
		return ""
	}

	if id, ok := elem.(*ast.Ident); ok {
		return id.Name
	}

	return ""
}
