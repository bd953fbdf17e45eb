package vivado

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/daedaleanai/fpgaflow/board"
	"github.com/daedaleanai/fpgaflow/toolflow"
	"github.com/daedaleanai/fpgaflow/util"
)

// ConstraintsExt is the extension of generated constraint files.
const ConstraintsExt = "xdc"

const sectionDelimiter = "#"

// PortRef returns the get_ports argument for bit `index` of a port with `width` pins.
// Buses are braced so that Tcl does not evaluate the index as a command.
func PortRef(name string, index, width int) string {
	if width == 1 {
		return name
	}
	return fmt.Sprintf("{ %s[%d] }", name, index)
}

// ClockConstraint renders the create_clock statement for a clock driving `port`.
// The waveform edge is the period halved and floored, which is what the tool flow always emitted.
func ClockConstraint(port string, clock board.Clock) string {
	period := clock.Period()
	half := math.Floor(period / 2)
	return fmt.Sprintf("create_clock -period %s -waveform {0 %s} [get_ports %s]",
		strconv.FormatFloat(period, 'f', -1, 64),
		strconv.FormatFloat(half, 'f', -1, 64),
		port)
}

// GenerateConstraints renders the XDC statements for all ports in use.
//
// The layout is: clock periods, then per port all PACKAGE_PIN lines followed by the
// port attributes. Attributes of buses are attached to the reference of bit 0.
func GenerateConstraints(b *board.Board) ([]string, error) {
	lines := []string{sectionDelimiter}

	ports := util.FilteredSlice(b.Ports(), func(p board.Port) bool { return p.InUse })

	for _, port := range ports {
		switch port.Signal.Kind() {
		case board.ClockSignal:
			clock, _ := port.Signal.Clock()
			lines = append(lines, ClockConstraint(port.Name, clock))
		case board.PlainSignal:
		}
	}
	lines = append(lines, sectionDelimiter)

	for _, port := range ports {
		width := len(port.Pins)
		for i, pin := range port.Pins {
			lines = append(lines, fmt.Sprintf("set_property PACKAGE_PIN %s [get_ports %s]", pin, PortRef(port.Name, i, width)))
		}

		ref := PortRef(port.Name, 0, width)
		for _, attr := range port.Attributes {
			line, err := RenderAttribute(ref, attr)
			if err != nil {
				var unsupported *toolflow.UnsupportedAttributeError
				if errors.As(err, &unsupported) {
					unsupported.Port = port.Name
				}
				return nil, err
			}
			lines = append(lines, line)
		}
	}
	lines = append(lines, sectionDelimiter)

	return lines, nil
}

// ConstraintsPath returns where the constraints of `b` are written inside `dir`.
func ConstraintsPath(dir string, b *board.Board) string {
	return filepath.Join(dir, b.Name()+"."+ConstraintsExt)
}

// WriteConstraints generates the constraints of `b` and replaces `<dir>/<board>.xdc` with them.
// Nothing is written if generation fails.
func WriteConstraints(dir string, b *board.Board) (string, error) {
	lines, err := GenerateConstraints(b)
	if err != nil {
		return "", err
	}

	file := ConstraintsPath(dir, b)
	data := []byte(strings.Join(lines, "\n") + "\n")
	if err := util.WriteFileAtomic(file, data); err != nil {
		return "", &toolflow.PathError{Op: "write", Path: file, Err: err}
	}
	return file, nil
}
