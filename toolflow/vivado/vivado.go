// Package vivado implements the toolflow for the Xilinx Vivado design suite.
package vivado

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/daedaleanai/fpgaflow/board"
	"github.com/daedaleanai/fpgaflow/convert"
	"github.com/daedaleanai/fpgaflow/log"
	"github.com/daedaleanai/fpgaflow/manifest"
	"github.com/daedaleanai/fpgaflow/toolflow"
	"github.com/daedaleanai/fpgaflow/util"
)

// DefaultOutputDir holds all intermediate files unless configured otherwise.
const DefaultOutputDir = "./xilinx/"

var _ toolflow.Toolflow = (*Flow)(nil)

// Options configure a Flow. The zero value runs Vivado from the search path
// and writes everything to DefaultOutputDir.
type Options struct {
	OutputDir string
	Runner    Runner
	// Now stamps the flow script and the build record.
	Now func() time.Time
	// Program names the invoking program in the flow script header.
	Program string
	// Provenance looks up the revision of the sources. Defaults to manifest.GitProvenance.
	Provenance func(dir string) manifest.Provenance
	// SkipRecord disables writing `<board>.build.yaml` after a run.
	SkipRecord bool
}

// Run is the state of one invocation.
type Run struct {
	Dir         string
	Design      string
	Dialect     toolflow.Dialect
	Sources     []string
	Constraints string
	Script      string
	Outcome     RunOutcome
}

// Flow builds designs for one board with Vivado.
type Flow struct {
	board     *board.Board
	converter convert.Converter
	opts      Options
	last      *Run
}

// New creates a Vivado toolflow for `b`. The converter provides the design sources.
func New(b *board.Board, converter convert.Converter, opts Options) *Flow {
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultOutputDir
	}
	if opts.Runner == nil {
		opts.Runner = ProcessRunner{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Program == "" {
		opts.Program = filepath.Base(os.Args[0])
	}
	if opts.Provenance == nil {
		opts.Provenance = manifest.GitProvenance
	}
	return &Flow{board: b, converter: converter, opts: opts}
}

// Name implements toolflow.Toolflow.
func (f *Flow) Name() string {
	return "Xilinx Vivado"
}

// LastRun returns the state of the last successful Run, or nil.
func (f *Flow) LastRun() *Run {
	return f.last
}

// Run implements toolflow.Toolflow. `name` defaults to the board name.
func (f *Flow) Run(ctx context.Context, use toolflow.Dialect, name string) (string, error) {
	if !use.Valid() {
		return "", toolflow.Configurationf("unsupported source dialect %q", use)
	}
	if name == "" {
		name = f.board.Name()
	}
	f.last = nil

	// Catch configuration errors before anything touches the disk.
	if _, err := GenerateConstraints(f.board); err != nil {
		return "", err
	}

	dir := f.opts.OutputDir
	log.Debug("Output directory: %s.\n", dir)
	if err := util.EnsureDir(dir); err != nil {
		return "", &toolflow.PathError{Op: "mkdir", Path: dir, Err: err}
	}

	started := f.opts.Now()
	run := &Run{Dir: dir, Design: name, Dialect: use}

	sources, err := f.converter.Convert(ctx, f.board, name, use, dir)
	if err != nil {
		return "", errors.Wrapf(err, "converting design %q", name)
	}
	run.Sources = sources

	run.Constraints, err = WriteConstraints(dir, f.board)
	if err != nil {
		return "", err
	}
	log.Debug("Constraints: %s.\n", run.Constraints)

	provenance := f.opts.Provenance(dir)
	run.Script, err = WriteFlowScript(ScriptParams{
		Board:       f.board,
		Name:        name,
		Sources:     sources,
		Constraints: run.Constraints,
		OutputDir:   dir,
		Created:     started,
		Program:     f.opts.Program,
		Revision:    provenance.Revision,
		Dirty:       provenance.Dirty,
	})
	if err != nil {
		return "", err
	}
	log.Debug("Flow script: %s.\n", run.Script)

	run.Outcome, err = f.opts.Runner.Run(ctx, dir, run.Script)
	if err != nil {
		return "", err
	}
	if run.Outcome.ExitCode != 0 && !run.Outcome.TimedOut {
		log.Warning("Vivado exited with status %d, see %s.\n", run.Outcome.ExitCode, run.Outcome.LogPath)
	}

	if !f.opts.SkipRecord {
		if err := f.writeRecord(run, provenance, started); err != nil {
			return "", err
		}
	}
	f.last = run
	return run.Outcome.LogPath, nil
}

// Utilization implements toolflow.Toolflow.
func (f *Flow) Utilization() (toolflow.BuildResult, error) {
	if f.last == nil {
		return toolflow.BuildResult{}, toolflow.ErrNotRun
	}
	return runResult(f.last), nil
}

func runResult(run *Run) toolflow.BuildResult {
	if run.Outcome.TimedOut {
		return toolflow.TimedOut(run.Outcome.LogPath)
	}
	return ParseUtilization(run.Outcome.LogPath)
}

// RecordPath returns where the build record of `b` is written inside `dir`.
func RecordPath(dir string, b *board.Board) string {
	return filepath.Join(dir, b.Name()+manifest.RecordExt)
}

func (f *Flow) writeRecord(run *Run, provenance manifest.Provenance, started time.Time) error {
	result := runResult(run)
	record := manifest.Record{
		ToolVersion: util.ToolVersion.String(),
		Board:       f.board.Name(),
		Part:        f.board.Part(),
		Design:      run.Design,
		Dialect:     string(run.Dialect),
		Sources:     run.Sources,
		Constraints: run.Constraints,
		Script:      run.Script,
		Log:         run.Outcome.LogPath,
		Provenance:  provenance,
		Started:     started,
		Finished:    f.opts.Now(),
		ExitCode:    run.Outcome.ExitCode,
		TimedOut:    run.Outcome.TimedOut,
		Status:      result.Status.String(),
		Utilization: result.Syn,
	}

	file := RecordPath(run.Dir, f.board)
	if err := record.Write(file); err != nil {
		return &toolflow.PathError{Op: "write", Path: file, Err: err}
	}
	log.Debug("Build record: %s.\n", file)
	return nil
}
