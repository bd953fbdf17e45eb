package vivado

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/daedaleanai/fpgaflow/toolflow"
	"github.com/daedaleanai/fpgaflow/util"
)

func TestBinaryName(t *testing.T) {
	if name := BinaryName("windows"); name != "vivado.bat" {
		t.Errorf("Expected vivado.bat, got %s", name)
	}
	if name := BinaryName("linux"); name != "vivado" {
		t.Errorf("Expected vivado, got %s", name)
	}
}

func TestCommand(t *testing.T) {
	r := ProcessRunner{Binary: "/opt/Xilinx/bin/vivado"}
	want := []string{"/opt/Xilinx/bin/vivado", "-mode", "batch", "-source", "out/zybo.tcl"}
	if got := r.Command("out/zybo.tcl"); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

// fakeVivado writes a shell script that behaves like the tool launcher.
func fakeVivado(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tool is a shell script")
	}
	bin := filepath.Join(t.TempDir(), "vivado")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"+body), 0775); err != nil {
		t.Fatal(err)
	}
	return bin
}

func TestProcessRunner(t *testing.T) {
	bin := fakeVivado(t, `echo "args: $@"
echo "Report Cell Usage:"
echo journal > vivado.jou
echo log > vivado.log
exit 3
`)
	workDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "xilinx")

	r := ProcessRunner{Binary: bin, WorkDir: workDir}
	outcome, err := r.Run(context.Background(), outDir, "zybo.tcl")
	if err != nil {
		t.Fatal(err)
	}

	if outcome.ExitCode != 3 {
		t.Errorf("Expected exit code 3, got %d", outcome.ExitCode)
	}
	if outcome.TimedOut {
		t.Errorf("Expected the run not to time out")
	}
	if outcome.LogPath != filepath.Join(outDir, LogFileName) {
		t.Errorf("Unexpected log path %s", outcome.LogPath)
	}

	data, err := os.ReadFile(outcome.LogPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "args: -mode batch -source zybo.tcl") {
		t.Errorf("Unexpected log content %q", data)
	}

	for _, name := range []string{"vivado.jou", "vivado.log"} {
		if util.FileExists(filepath.Join(workDir, name)) {
			t.Errorf("Expected %s to be moved out of the working directory", name)
		}
		if !util.FileExists(filepath.Join(outDir, name)) {
			t.Errorf("Expected %s in the output directory", name)
		}
	}
}

func TestProcessRunnerTimeout(t *testing.T) {
	bin := fakeVivado(t, "sleep 10\n")

	r := ProcessRunner{Binary: bin, WorkDir: t.TempDir(), Timeout: 100 * time.Millisecond}
	start := time.Now()
	outcome, err := r.Run(context.Background(), t.TempDir(), "zybo.tcl")
	if err != nil {
		t.Fatal(err)
	}
	if !outcome.TimedOut {
		t.Errorf("Expected the run to time out")
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("The tool was not stopped at its deadline")
	}
}

func TestProcessRunnerLaunchError(t *testing.T) {
	r := ProcessRunner{Binary: filepath.Join(t.TempDir(), "missing")}
	_, err := r.Run(context.Background(), t.TempDir(), "zybo.tcl")

	var launch *toolflow.ToolLaunchError
	if !errors.As(err, &launch) {
		t.Fatalf("Expected a ToolLaunchError, got %v", err)
	}
	if !errors.Is(err, toolflow.ErrToolLaunch) {
		t.Errorf("Expected the error to match ErrToolLaunch")
	}
}

func TestProcessRunnerOutputDirIsAFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "xilinx")
	if err := os.WriteFile(file, nil, util.FileMode); err != nil {
		t.Fatal(err)
	}
	r := ProcessRunner{Binary: filepath.Join(t.TempDir(), "missing")}
	_, err := r.Run(context.Background(), filepath.Join(file, "out"), "zybo.tcl")

	var pathErr *toolflow.PathError
	if !errors.As(err, &pathErr) || pathErr.Op != "mkdir" {
		t.Fatalf("Expected a mkdir PathError, got %v", err)
	}
	if !errors.Is(err, toolflow.ErrPath) {
		t.Errorf("Expected the error to match ErrPath")
	}
	if errors.Is(err, toolflow.ErrToolLaunch) {
		t.Errorf("Expected the tool not to be launched")
	}
}
