// Package toolflow defines the interface shared by vendor toolflows: turning a
// board description and design sources into tool inputs, running the vendor
// tool and reading results back out of its logs.
package toolflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrConfiguration marks invalid board or flow configuration. Nothing is written to disk.
	ErrConfiguration = errors.New("configuration error")

	// ErrPath marks failures to create or write output directories and files.
	ErrPath = errors.New("path error")

	// ErrToolLaunch marks an external tool that could not be started.
	ErrToolLaunch = errors.New("tool launch error")

	// ErrNotRun is returned when results are requested before a toolflow was run.
	ErrNotRun = errors.New("toolflow has not been run")
)

// Configurationf returns an error wrapping ErrConfiguration.
func Configurationf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConfiguration, format, args...)
}

// UnsupportedAttributeError reports a port attribute the backend cannot express.
type UnsupportedAttributeError struct {
	Port string
	Key  string
}

func (e *UnsupportedAttributeError) Error() string {
	return fmt.Sprintf("port %q: unsupported attribute %q", e.Port, e.Key)
}

// Is makes the error match ErrConfiguration.
func (e *UnsupportedAttributeError) Is(target error) bool {
	return target == ErrConfiguration
}

// PathError reports a file system operation that failed on an output path.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Is makes the error match ErrPath.
func (e *PathError) Is(target error) bool {
	return target == ErrPath
}

// ToolLaunchError reports an external tool that could not be started.
type ToolLaunchError struct {
	Binary string
	Err    error
}

func (e *ToolLaunchError) Error() string {
	return fmt.Sprintf("launching %s: %s", e.Binary, e.Err)
}

func (e *ToolLaunchError) Unwrap() error {
	return e.Err
}

// Is makes the error match ErrToolLaunch.
func (e *ToolLaunchError) Is(target error) bool {
	return target == ErrToolLaunch
}

// Dialect is the hardware description language the design is converted to.
type Dialect string

const (
	Verilog Dialect = "verilog"
	VHDL    Dialect = "vhdl"
)

// Dialects lists all supported dialects.
var Dialects = []Dialect{Verilog, VHDL}

// ParseDialect converts a user supplied string into a Dialect.
func ParseDialect(s string) (Dialect, error) {
	d := Dialect(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", Configurationf("unsupported source dialect %q", s)
	}
	return d, nil
}

// Valid reports whether the dialect is supported.
func (d Dialect) Valid() bool {
	for _, known := range Dialects {
		if d == known {
			return true
		}
	}
	return false
}

// Status distinguishes the outcomes of reading a build result.
type Status int

const (
	// StatusOK means the log was read. Syn may still be empty if the log had no usage report.
	StatusOK Status = iota
	// StatusLogNotFound means the log file is missing, usually because the build failed early.
	StatusLogNotFound
	// StatusTimedOut means the tool was killed at its deadline and its log was not parsed.
	StatusTimedOut
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusLogNotFound:
		return "log-not-found"
	case StatusTimedOut:
		return "timed-out"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// BuildResult is the outcome parsed from a tool log.
type BuildResult struct {
	Status  Status
	Message string
	// Syn maps vendor cell names (LUT1, FDRE, BUFG, ...) to the count printed by the tool.
	Syn map[string]string
}

// OK reports whether the log could be read.
func (r BuildResult) OK() bool {
	return r.Status == StatusOK
}

// LogNotFound returns the result for a log file that does not exist.
func LogNotFound(path string) BuildResult {
	return BuildResult{
		Status:  StatusLogNotFound,
		Message: fmt.Sprintf("Could not find the logfile %s. Something must have gone wrong in the build process", path),
	}
}

// TimedOut returns the result for a tool run that hit its deadline.
func TimedOut(logPath string) BuildResult {
	return BuildResult{
		Status:  StatusTimedOut,
		Message: fmt.Sprintf("The tool was stopped at its deadline; see %s for its partial output", logPath),
	}
}

// Toolflow drives one vendor tool for one board.
//
// Runs against the same output directory must be serialized by the caller.
type Toolflow interface {
	// Name is a human readable name of the vendor tool.
	Name() string

	// Run converts the design, generates tool inputs and blocks until the tool exits.
	// It returns the path of the captured tool log.
	Run(ctx context.Context, use Dialect, name string) (string, error)

	// Utilization parses the log of the last run. It returns ErrNotRun before Run.
	Utilization() (BuildResult, error)
}
