package gen

import (
	"bytes"
	"text/template"
)

// templateData is the root of the generated-file template.
type templateData struct {
	Source           string
	PackageName      string
	RuntimeImport    string
	DotImportRuntime bool
	Imports          []importSpec
	Traits           []traitData
	Functions        []functionData
}

// traitData declares one trait-type-id value, emitted once per trait per file.
type traitData struct {
	VarName    string
	Name       string
	Definition string
}

// functionData carries the rendered fragments of one task function.
type functionData struct {
	OriginalName string
	NativeVar    string
	NativeType   string
	NativeDef    string
	IDVar        string
	IDType       string
	IDDef        string
	InlineDecl   string
	ExposedName  string
	Exposed      string
	ExposedBody  string
}

var fileTemplate = template.Must(template.New("taskfn").Parse(
	`// Code generated by taskfn-generator. DO NOT EDIT.
//
// Source: {{.Source}}

package {{.PackageName}}

import (
{{- if .DotImportRuntime}}
	. "{{.RuntimeImport}}"
{{- end}}
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)
{{range .Traits}}
var {{.VarName}} = {{.Definition}}
{{end}}
{{- range .Functions}}
var {{.NativeVar}} {{.NativeType}} = {{.NativeDef}}

var {{.IDVar}} {{.IDType}} = {{.IDDef}}

{{.InlineDecl}}

// {{.ExposedName}} schedules {{.OriginalName}} on the attached dispatcher and
// returns a handle to its eventual output.
{{.Exposed}} {{.ExposedBody}}
{{end}}`))

// renderFile executes the file template. The output is not yet formatted;
// the caller runs it through the imports processor.
func renderFile(data *templateData) ([]byte, error) {
	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
