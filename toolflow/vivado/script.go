package vivado

import (
	"bytes"
	"path/filepath"
	"time"

	"github.com/daedaleanai/fpgaflow/assets"
	"github.com/daedaleanai/fpgaflow/board"
	"github.com/daedaleanai/fpgaflow/toolflow"
	"github.com/daedaleanai/fpgaflow/util"
)

// ScriptExt is the extension of generated flow scripts.
const ScriptExt = "tcl"

const flowTemplateName = "vivado_flow.tcl.tmpl"

// Format of the creation time in the script header.
const createdLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

// ScriptParams are the inputs of a Vivado batch flow script.
type ScriptParams struct {
	Board *board.Board
	// Name of the top-level design. Also names the project, timing report and bitstream.
	Name        string
	Sources     []string
	Constraints string
	OutputDir   string

	Created  time.Time
	Program  string
	Revision string
	Dirty    bool
}

// TimingReportPath returns where the timing summary of design `name` is written.
func TimingReportPath(dir, name string) string {
	return filepath.Join(dir, name+"_timing.rpt")
}

// BitstreamPath returns where the bitstream of design `name` is written.
func BitstreamPath(dir, name string) string {
	return filepath.Join(dir, name+".bit")
}

// ScriptPath returns where the flow script of `b` is written inside `dir`.
func ScriptPath(dir string, b *board.Board) string {
	return filepath.Join(dir, b.Name()+"."+ScriptExt)
}

// GenerateFlowScript renders the Tcl script that creates the project and runs
// synthesis, optimization, placement, routing and bitstream generation.
func GenerateFlowScript(params ScriptParams) (string, error) {
	if params.Board == nil {
		return "", toolflow.Configurationf("flow script needs a board")
	}
	if params.Name == "" {
		return "", toolflow.Configurationf("flow script needs a design name")
	}
	if err := params.Board.Identity().Validate(); err != nil {
		return "", err
	}

	data := assets.VivadoFlowTemplate{
		Created:      params.Created.UTC().Format(createdLayout),
		Program:      params.Program,
		Revision:     params.Revision,
		Dirty:        params.Dirty,
		OriginDir:    params.OutputDir,
		Name:         params.Name,
		ProjectDir:   filepath.Join(params.OutputDir, params.Name),
		Part:         params.Board.Part(),
		Sources:      params.Sources,
		Constraints:  params.Constraints,
		TimingReport: TimingReportPath(params.OutputDir, params.Name),
		Bitstream:    BitstreamPath(params.OutputDir, params.Name),
	}

	var buff bytes.Buffer
	if err := assets.Templates.ExecuteTemplate(&buff, flowTemplateName, data); err != nil {
		return "", err
	}
	return buff.String(), nil
}

// WriteFlowScript renders the flow script and replaces `<dir>/<board>.tcl` with it.
func WriteFlowScript(params ScriptParams) (string, error) {
	script, err := GenerateFlowScript(params)
	if err != nil {
		return "", err
	}

	file := ScriptPath(params.OutputDir, params.Board)
	if err := util.WriteFileAtomic(file, []byte(script)); err != nil {
		return "", &toolflow.PathError{Op: "write", Path: file, Err: err}
	}
	return file, nil
}
