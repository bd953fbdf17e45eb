package vivado

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/daedaleanai/fpgaflow/toolflow"
)

// The synthesis log contains a table like this:
//
//	Report Cell Usage:
//	+------+-------+------+
//	|      |Cell   |Count |
//	+------+-------+------+
//	|1     |BUFG   |     1|
//	|2     |LUT1   |    28|
//	|3     |FDRE   |    28|
//	+------+-------+------+
const (
	cellUsageMarker   = "Report Cell Usage:"
	cellHeaderLabel   = "Cell"
	tableBoundaries   = 3
	tableRowPrefix    = "|"
	tableBorderPrefix = "+"
)

type parseState int

const (
	seeking parseState = iota
	inTable
)

// ParseUtilization reads the cell usage table from the log at `path`.
// A missing log yields a StatusLogNotFound result, never an error.
func ParseUtilization(path string) toolflow.BuildResult {
	f, err := os.Open(path)
	if err != nil {
		return toolflow.LogNotFound(path)
	}
	defer f.Close()
	return ParseUtilizationFrom(f)
}

// ParseUtilizationFrom reads the cell usage table from a log stream.
//
// A log without the table yields an empty mapping. A table cut short by the end of
// the log yields the rows read so far.
func ParseUtilizationFrom(r io.Reader) toolflow.BuildResult {
	result := toolflow.BuildResult{Status: toolflow.StatusOK, Syn: map[string]string{}}

	state := seeking
	boundaries := 0
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")

		switch state {
		case seeking:
			if strings.Contains(line, cellUsageMarker) {
				state = inTable
				boundaries = 0
			}
		case inTable:
			if strings.HasPrefix(line, tableRowPrefix) {
				fields := strings.Split(line, tableRowPrefix)
				for i := range fields {
					fields[i] = strings.TrimSpace(fields[i])
				}
				if len(fields) > 3 && fields[2] != cellHeaderLabel {
					result.Syn[fields[2]] = fields[3]
				}
			} else if strings.HasPrefix(line, tableBorderPrefix) {
				boundaries++
				if boundaries >= tableBoundaries {
					state = seeking
				}
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			result.Message = fmt.Sprintf("log read interrupted: %s", err)
			break
		}
	}
	return result
}
