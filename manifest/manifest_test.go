package manifest

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestWriteRead(t *testing.T) {
	record := Record{
		ToolVersion: "v0.3.0",
		Board:       "zybo",
		Part:        "xc7z010clg400-1",
		Design:      "blinky",
		Dialect:     "verilog",
		Sources:     []string{"xilinx/blinky.v"},
		Constraints: "xilinx/zybo.xdc",
		Script:      "xilinx/zybo.tcl",
		Log:         "xilinx/build_vivado.log",
		Provenance:  Provenance{Revision: "0123abcd", Dirty: true},
		Started:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Finished:    time.Date(2024, 1, 2, 3, 14, 5, 0, time.UTC),
		ExitCode:    0,
		Status:      "ok",
		Utilization: map[string]string{"LUT1": "28", "FDRE": "28"},
	}

	file := filepath.Join(t.TempDir(), "zybo"+RecordExt)
	if err := record.Write(file); err != nil {
		t.Fatal(err)
	}
	read, err := Read(file)
	if err != nil {
		t.Fatal(err)
	}
	if !read.Started.Equal(record.Started) || !read.Finished.Equal(record.Finished) {
		t.Errorf("Timestamps changed: %v %v", read.Started, read.Finished)
	}
	read.Started, read.Finished = record.Started, record.Finished
	if !reflect.DeepEqual(read, record) {
		t.Errorf("Expected\n%+v\ngot\n%+v", record, read)
	}
}

func TestReadMissing(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "missing.build.yaml")); err == nil {
		t.Errorf("Expected an error")
	}
}

func TestReadRejectsMalformedVersion(t *testing.T) {
	file := filepath.Join(t.TempDir(), "zybo"+RecordExt)
	for _, version := range []string{"", "0.3.0", "v0.3"} {
		if err := (Record{ToolVersion: version, Board: "zybo"}).Write(file); err != nil {
			t.Fatal(err)
		}
		if _, err := Read(file); err == nil {
			t.Errorf("Expected an error for tool version %q", version)
		}
	}
}

func TestDiff(t *testing.T) {
	old := Record{ToolVersion: "0.3.0", Part: "xc7z010clg400-1", Utilization: map[string]string{"LUT1": "28", "FDRE": "28", "BUFG": "1"}}

	same := Diff(old, old)
	if same.Differ || len(same.Cells) != 0 {
		t.Errorf("Expected no difference, got %+v", same)
	}

	updated := Record{ToolVersion: "0.3.0", Part: "xc7z020clg400-1", Utilization: map[string]string{"LUT1": "30", "FDRE": "28", "CARRY4": "2"}}
	diff := Diff(updated, old)
	if !diff.Differ {
		t.Errorf("Expected a difference")
	}
	if diff.Part == "" || diff.ToolVersion != "" {
		t.Errorf("Unexpected header diff: %+v", diff)
	}

	got := []string{}
	for _, cell := range diff.Cells {
		got = append(got, cell.String())
	}
	want := []string{"- BUFG: 1", "+ CARRY4: 2", "~ LUT1: 28 -> 30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestGitProvenanceOutsideRepository(t *testing.T) {
	if p := GitProvenance(t.TempDir()); p != (Provenance{}) {
		t.Errorf("Expected an empty provenance, got %+v", p)
	}
}
