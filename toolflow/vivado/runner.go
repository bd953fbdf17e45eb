package vivado

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/daedaleanai/fpgaflow/log"
	"github.com/daedaleanai/fpgaflow/toolflow"
	"github.com/daedaleanai/fpgaflow/util"
)

// LogFileName is the name of the captured tool output inside the output directory.
const LogFileName = "build_vivado.log"

// Vivado always drops these into its working directory.
var strayFiles = []string{"vivado.log", "vivado.jou"}

// BinaryName returns the name of the Vivado launcher on `goos`.
func BinaryName(goos string) string {
	if goos == "windows" {
		return "vivado.bat"
	}
	return "vivado"
}

// RunOutcome describes a finished tool process.
type RunOutcome struct {
	LogPath  string
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// Runner executes a flow script.
type Runner interface {
	Run(ctx context.Context, dir, script string) (RunOutcome, error)
}

// ProcessRunner runs Vivado in batch mode as a child process.
type ProcessRunner struct {
	// Binary overrides the launcher name. Defaults to BinaryName(runtime.GOOS).
	Binary string
	// Timeout kills the tool after the given duration. Zero means no limit.
	Timeout time.Duration
	// WorkDir is the directory the tool runs in. Defaults to the current directory.
	WorkDir string
	// Progress shows a spinner while the tool runs.
	Progress bool
}

func (r ProcessRunner) binary() string {
	if r.Binary != "" {
		return r.Binary
	}
	return BinaryName(runtime.GOOS)
}

// Command returns the argument vector used to run `script`.
func (r ProcessRunner) Command(script string) []string {
	return []string{r.binary(), "-mode", "batch", "-source", script}
}

// Run executes `script` and captures the combined output in `<dir>/build_vivado.log`.
//
// A non-zero exit status is not an error: the tool writes a log for failed builds
// too, and the log is what tells whether the build succeeded.
func (r ProcessRunner) Run(ctx context.Context, dir, script string) (RunOutcome, error) {
	outcome := RunOutcome{LogPath: filepath.Join(dir, LogFileName)}

	if err := util.EnsureDir(dir); err != nil {
		return outcome, &toolflow.PathError{Op: "mkdir", Path: dir, Err: err}
	}

	logFile, err := os.Create(outcome.LogPath)
	if err != nil {
		return outcome, &toolflow.PathError{Op: "create", Path: outcome.LogPath, Err: err}
	}
	defer logFile.Close()

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	argv := r.Command(script)
	log.Debug("Running '%s'.\n", strings.Join(argv, " "))
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.WorkDir
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return outcome, &toolflow.ToolLaunchError{Binary: argv[0], Err: err}
	}

	if r.Progress {
		log.Spinner.Suffix = " " + filepath.Base(argv[0]) + " " + filepath.Base(script)
		log.Spinner.Start()
	}
	err = cmd.Wait()
	if r.Progress {
		log.Spinner.Stop()
	}
	outcome.Duration = time.Since(start)

	var exitErr *exec.ExitError
	switch {
	case ctx.Err() != nil:
		outcome.TimedOut = true
		outcome.ExitCode = -1
		log.Warning("%s was stopped after %s: %s.\n", argv[0], outcome.Duration.Round(time.Second), ctx.Err())
	case errors.As(err, &exitErr):
		outcome.ExitCode = exitErr.ExitCode()
	case err != nil:
		return outcome, &toolflow.ToolLaunchError{Binary: argv[0], Err: err}
	}

	if err := r.relocateStrayFiles(dir); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// relocateStrayFiles moves the journal and log files Vivado leaves in its working directory into `dir`.
func (r ProcessRunner) relocateStrayFiles(dir string) error {
	workDir := r.WorkDir
	if workDir == "" {
		workDir = "."
	}
	absWork, _ := filepath.Abs(workDir)
	absDir, _ := filepath.Abs(dir)
	if absWork == absDir {
		return nil
	}

	for _, name := range strayFiles {
		from := filepath.Join(workDir, name)
		if !util.FileExists(from) {
			continue
		}
		to := filepath.Join(dir, name)
		log.Debug("Moving '%s' to '%s'.\n", from, to)
		if err := util.MoveFile(from, to); err != nil {
			return &toolflow.PathError{Op: "move", Path: from, Err: err}
		}
	}
	return nil
}
