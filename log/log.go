package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/sirupsen/logrus"
)

// Verbose controls whether debug messages are being printed.
var Verbose bool

// IndentationLevel controls the amount of indentation of log messages.
var IndentationLevel = 0

// Spinner is shown while long-running external tools are busy.
var Spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))

var errorOccured = false

var logger = &logrus.Logger{
	Out:       os.Stderr,
	Formatter: &formatter{},
	Hooks:     make(logrus.LevelHooks),
	Level:     logrus.DebugLevel,
	ExitFunc:  os.Exit,
}

// formatter renders entries the way the command line tool always did:
// indentation, a coloured level prefix and the message verbatim.
type formatter struct{}

func (f *formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	indent, _ := entry.Data["indent"].(int)
	b.WriteString(strings.Repeat("  ", indent))
	switch entry.Level {
	case logrus.DebugLevel:
		b.WriteString("\033[36mDebug: \033[0m")
	case logrus.WarnLevel:
		b.WriteString("\033[33mWarning: \033[0m")
	case logrus.ErrorLevel, logrus.FatalLevel:
		b.WriteString("\033[31mError: \033[0m")
	case logrus.InfoLevel:
		if success, _ := entry.Data["success"].(bool); success {
			b.WriteString("\033[32mSuccess: \033[0m")
		}
	}
	b.WriteString(entry.Message)
	return b.Bytes(), nil
}

// SetOutput redirects all log output. Mostly useful in tests.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func entry() *logrus.Entry {
	return logger.WithField("indent", IndentationLevel)
}

// ErrorOccured reports whether any errors have occured.
func ErrorOccured() bool {
	return errorOccured
}

// Log prints an indented and formatted message to os.Stderr.
func Log(format string, a ...interface{}) {
	entry().Info(fmt.Sprintf(format, a...))
}

// Debug prints an indented and formatted debug message to os.Stderr if verbose output is selected.
func Debug(format string, a ...interface{}) {
	if Verbose {
		entry().Debug(fmt.Sprintf(format, a...))
	}
}

// Success prints an indented and formatted success message to os.Stderr.
func Success(format string, a ...interface{}) {
	entry().WithField("success", true).Info(fmt.Sprintf(format, a...))
}

// Warning prints an indented and formatted warning to os.Stderr.
func Warning(format string, a ...interface{}) {
	entry().Warn(fmt.Sprintf(format, a...))
}

// Error prints an indented and formatted error message to os.Stderr.
func Error(format string, a ...interface{}) {
	errorOccured = true
	entry().Error(fmt.Sprintf(format, a...))
}

// Fatal prints an indented and formatted error message to os.Stderr and terminates the program.
func Fatal(format string, a ...interface{}) {
	Error(format, a...)
	fmt.Fprintf(logger.Out, "\033[31mA fatal error occured. Exiting...\033[0m\n")
	logger.Exit(1)
}
