package convert

import (
	"strings"

	"github.com/daedaleanai/fpgaflow/toolflow"
)

func IsRtl(path string) bool {
	return IsVerilog(path) || IsVhdl(path)
}

func IsVerilog(path string) bool {
	return strings.HasSuffix(path, ".v") ||
		strings.HasSuffix(path, ".sv")
}

func IsVhdl(path string) bool {
	return strings.HasSuffix(path, ".vhdl") ||
		strings.HasSuffix(path, ".vhd")
}

func IsHeader(path string) bool {
	return strings.HasSuffix(path, ".vh") ||
		strings.HasSuffix(path, ".svh") ||
		strings.HasSuffix(path, ".svp")
}

// IsDialect reports whether `path` is a source file of dialect `use`.
func IsDialect(path string, use toolflow.Dialect) bool {
	switch use {
	case toolflow.Verilog:
		return IsVerilog(path)
	case toolflow.VHDL:
		return IsVhdl(path)
	}
	return false
}
