package assets

import (
	"embed"
	"strings"
	"text/template"
)

//go:embed templates/*
var templatesFS embed.FS

// Funcs are available to all templates.
var Funcs = template.FuncMap{
	"tclPath": TclPath,
}

var Templates = template.Must(template.New("").Funcs(Funcs).ParseFS(templatesFS, "templates/*.tmpl"))

// TclPath turns a file system path into one Tcl accepts inside double quotes.
func TclPath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// VivadoFlowTemplate are the parameters of vivado_flow.tcl.tmpl.
type VivadoFlowTemplate struct {
	Created      string
	Program      string
	Revision     string
	Dirty        bool
	OriginDir    string
	Name         string
	ProjectDir   string
	Part         string
	Sources      []string
	Constraints  string
	TimingReport string
	Bitstream    string
}
