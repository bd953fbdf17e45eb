package vivado

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/daedaleanai/fpgaflow/toolflow"
)

func TestGenerateFlowScript(t *testing.T) {
	b := newBoard(t, nil, nil)
	params := ScriptParams{
		Board:       b,
		Name:        "blinky",
		Sources:     []string{"out/blinky.v", "out/counter.v"},
		Constraints: "out/zybo.xdc",
		OutputDir:   "out",
		Created:     time.Date(2024, 1, 2, 4, 4, 5, 0, time.FixedZone("CET", 3600)),
		Program:     "fpgaflow",
		Revision:    "0123abcd",
		Dirty:       true,
	}

	script, err := GenerateFlowScript(params)
	if err != nil {
		t.Fatal(err)
	}

	header := "#\n#\n# Vivado implementation script\n" +
		"# create: Tue, 02 Jan 2024 03:04:05 +0000\n" +
		"# by: fpgaflow\n" +
		"# revision: 0123abcd (dirty)\n" +
		"#\n#\n"
	if !strings.HasPrefix(script, header) {
		t.Errorf("Unexpected header:\n%s", script)
	}

	body := strings.Join([]string{
		`set origin_dir "out"`,
		`create_project -force blinky "out/blinky"`,
		`set proj_dir [get_property directory [current_project]]`,
		`set obj [get_projects blinky]`,
		`set_property PART xc7z010clg400-1 $obj`,
		``,
		`# add sources`,
		`add_files "out/blinky.v"`,
		`add_files "out/counter.v"`,
		`read_xdc "out/zybo.xdc"`,
		``,
		`# build design`,
		`synth_design -top blinky`,
		`opt_design`,
		`place_design`,
		`route_design`,
		`report_timing_summary -file "out/blinky_timing.rpt"`,
		`write_bitstream -force "out/blinky.bit"`,
		`quit`,
	}, "\n")
	if !strings.Contains(script, body) {
		t.Errorf("Expected the script to contain\n%s\ngot\n%s", body, script)
	}
}

func TestGenerateFlowScriptWithoutRevision(t *testing.T) {
	script, err := GenerateFlowScript(ScriptParams{
		Board:     newBoard(t, nil, nil),
		Name:      "top",
		OutputDir: "out",
		Program:   "fpgaflow",
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(script, "revision") {
		t.Errorf("Expected no revision line:\n%s", script)
	}
	if !strings.Contains(script, "# by: fpgaflow\n#\n") {
		t.Errorf("Unexpected header:\n%s", script)
	}
}

func TestGenerateFlowScriptErrors(t *testing.T) {
	if _, err := GenerateFlowScript(ScriptParams{Name: "top"}); !errors.Is(err, toolflow.ErrConfiguration) {
		t.Errorf("Expected a configuration error without a board, got %v", err)
	}
	if _, err := GenerateFlowScript(ScriptParams{Board: newBoard(t, nil, nil)}); !errors.Is(err, toolflow.ErrConfiguration) {
		t.Errorf("Expected a configuration error without a name, got %v", err)
	}
}

func TestWriteFlowScript(t *testing.T) {
	dir := t.TempDir()
	file, err := WriteFlowScript(ScriptParams{
		Board:     newBoard(t, nil, nil),
		Name:      "top",
		OutputDir: dir,
	})
	if err != nil {
		t.Fatal(err)
	}
	if file != filepath.Join(dir, "zybo.tcl") {
		t.Errorf("Unexpected script path %s", file)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "quit\n") && !strings.HasSuffix(string(data), "quit") {
		t.Errorf("Expected the script to end with quit")
	}
}
