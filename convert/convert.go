// Package convert provides design sources to toolflows.
//
// Turning a design into HDL is done elsewhere; a Converter only has to place the
// resulting files into the build directory and report them in compile order.
package convert

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/daedaleanai/fpgaflow/board"
	"github.com/daedaleanai/fpgaflow/log"
	"github.com/daedaleanai/fpgaflow/toolflow"
	"github.com/daedaleanai/fpgaflow/util"
)

// Converter produces the HDL sources of design `name` for board `b` inside `dir`.
type Converter interface {
	Convert(ctx context.Context, b *board.Board, name string, use toolflow.Dialect, dir string) ([]string, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(ctx context.Context, b *board.Board, name string, use toolflow.Dialect, dir string) ([]string, error)

// Convert calls f.
func (f ConverterFunc) Convert(ctx context.Context, b *board.Board, name string, use toolflow.Dialect, dir string) ([]string, error) {
	return f(ctx, b, name, use, dir)
}

// Files stages existing HDL files into the build directory.
type Files struct {
	Paths []string
}

// Convert copies the files of dialect `use` and all header files into `dir`.
// It returns the staged sources in the given order. Headers are staged but not returned.
func (f Files) Convert(ctx context.Context, b *board.Board, name string, use toolflow.Dialect, dir string) ([]string, error) {
	if !use.Valid() {
		return nil, toolflow.Configurationf("unsupported source dialect %q", use)
	}

	sources := util.FilteredSlice(f.Paths, func(p string) bool { return IsDialect(p, use) })
	if len(sources) == 0 {
		return nil, toolflow.Configurationf("design %q has no %s sources", name, use)
	}
	headers := util.FilteredSlice(f.Paths, IsHeader)

	for _, src := range f.Paths {
		if reason := ignoreReason(src, use); reason != "" {
			log.Warning("Ignoring '%s': %s.\n", src, reason)
		}
	}

	staged := []string{}
	seen := map[string]string{}
	for _, src := range append(sources, headers...) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		base := filepath.Base(src)
		if other, ok := seen[base]; ok {
			return nil, toolflow.Configurationf("sources '%s' and '%s' would both be staged as '%s'", other, src, base)
		}
		seen[base] = src
		dst, err := stage(src, dir)
		if err != nil {
			return nil, err
		}
		if !IsHeader(src) {
			staged = append(staged, dst)
		}
	}
	return staged, nil
}

// ignoreReason tells why `src` is not staged for dialect `use`, or returns "" if it is.
func ignoreReason(src string, use toolflow.Dialect) string {
	switch {
	case IsDialect(src, use) || IsHeader(src):
		return ""
	case IsRtl(src):
		return fmt.Sprintf("not a %s source", use)
	}
	return "not an HDL source"
}

func stage(src, dir string) (string, error) {
	dst := filepath.Join(dir, filepath.Base(src))
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return "", err
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return "", err
	}
	if absSrc == absDst {
		return dst, nil
	}
	if !util.FileExists(src) {
		return "", fmt.Errorf("source file '%s' does not exist", src)
	}
	log.Debug("Staging '%s' as '%s'.\n", src, dst)
	if err := util.CopyFile(src, dst); err != nil {
		return "", &toolflow.PathError{Op: "copy", Path: src, Err: err}
	}
	return dst, nil
}
