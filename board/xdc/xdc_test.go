package xdc

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/daedaleanai/fpgaflow/board"
	"github.com/daedaleanai/fpgaflow/toolflow"
	"github.com/daedaleanai/fpgaflow/toolflow/vivado"
)

var arty = board.Identity{
	Vendor:  "xilinx",
	Family:  "artix7",
	Device:  "xc7a35t",
	Package: "csg324",
	Speed:   "-1",
	Name:    "arty",
}

func parseBoard(t *testing.T, text string) *board.Board {
	t.Helper()
	file, err := Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Parse() failed: %s", err)
	}
	b, err := file.Board(arty)
	if err != nil {
		t.Fatalf("Board() failed: %s", err)
	}
	return b
}

func TestVendorMasterFile(t *testing.T) {
	text := `## Clock signal
set_property -dict { PACKAGE_PIN E3    IOSTANDARD LVCMOS33 } [get_ports { CLK100MHZ }]; #IO_L12P_T1_MRCC_35 Sch=gclk[100]
create_clock -add -name sys_clk_pin -period 10.00 -waveform {0 5} [get_ports { CLK100MHZ }];

## LEDs
set_property -dict { PACKAGE_PIN H5    IOSTANDARD LVCMOS33 } [get_ports { led[0] }];
set_property -dict { PACKAGE_PIN J5    IOSTANDARD LVCMOS33 } [get_ports { led[1] }];
#set_property -dict { PACKAGE_PIN T9    IOSTANDARD LVCMOS33 } [get_ports { led[2] }];

set_property CONFIG_VOLTAGE 3.3 [current_design]
set_property CFGBVS VCCO [current_design]
`
	b := parseBoard(t, text)

	ports := b.Ports()
	if len(ports) != 2 {
		t.Fatalf("Expected 2 ports, got %d", len(ports))
	}

	clk := ports[0]
	if clk.Name != "CLK100MHZ" || !reflect.DeepEqual(clk.Pins, []string{"E3"}) || !clk.InUse {
		t.Errorf("Unexpected clock port: %+v", clk)
	}
	clock, ok := clk.Signal.Clock()
	if !ok {
		t.Fatalf("Expected CLK100MHZ to carry a clock")
	}
	if clock.Frequency != 1e8 {
		t.Errorf("Expected 100 MHz, got %g", clock.Frequency)
	}

	led := ports[1]
	if !reflect.DeepEqual(led.Pins, []string{"H5", "J5"}) {
		t.Errorf("Unexpected led pins: %v", led.Pins)
	}
	want := []board.Attribute{{Key: "iostandard", Value: "LVCMOS33"}}
	if !reflect.DeepEqual(led.Attributes, want) {
		t.Errorf("Expected %v, got %v", want, led.Attributes)
	}
}

func TestRoundTrip(t *testing.T) {
	clock := board.Clock{Name: "clk", Frequency: 125e6, InUse: true}
	original, err := board.New(arty, []board.Clock{clock}, []board.Port{
		{Name: "clk", Pins: []string{"E3"}, Signal: board.ClockOf(clock), InUse: true,
			Attributes: []board.Attribute{{Key: "iostandard", Value: "LVCMOS33"}}},
		{Name: "led", Pins: []string{"H5", "J5", "T9"}, Signal: board.Plain(), InUse: true,
			Attributes: []board.Attribute{{Key: "iostandard", Value: "LVCMOS33"}, {Key: "drive", Value: 12}, {Key: "dci_cascade", Value: "32"}}},
		{Name: "btn", Pins: []string{"D9"}, Signal: board.Plain(), InUse: true},
	})
	if err != nil {
		t.Fatal(err)
	}

	lines, err := vivado.GenerateConstraints(original)
	if err != nil {
		t.Fatal(err)
	}
	imported := parseBoard(t, strings.Join(lines, "\n"))

	got, want := imported.Ports(), original.Ports()
	if len(got) != len(want) {
		t.Fatalf("Expected %d ports, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Name != want[i].Name {
			t.Errorf("Port %d: expected %q, got %q", i, want[i].Name, got[i].Name)
		}
		if !reflect.DeepEqual(got[i].Pins, want[i].Pins) {
			t.Errorf("Port %q: expected pins %v, got %v", want[i].Name, want[i].Pins, got[i].Pins)
		}
		if len(got[i].Attributes) != len(want[i].Attributes) {
			t.Fatalf("Port %q: expected %d attributes, got %d", want[i].Name, len(want[i].Attributes), len(got[i].Attributes))
		}
		for j := range want[i].Attributes {
			g, w := got[i].Attributes[j], want[i].Attributes[j]
			if g.Key != w.Key || g.String() != w.String() {
				t.Errorf("Port %q: expected %s=%s, got %s=%s", want[i].Name, w.Key, w, g.Key, g)
			}
		}
		if got[i].Signal.Kind() != want[i].Signal.Kind() {
			t.Errorf("Port %q: expected %s signal, got %s", want[i].Name, want[i].Signal.Kind(), got[i].Signal.Kind())
		}
	}

	clocks := imported.Clocks()
	if len(clocks) != 1 || clocks[0].Frequency != 125e6 {
		t.Errorf("Expected a single 125 MHz clock, got %+v", clocks)
	}

	again, err := vivado.GenerateConstraints(imported)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(again, lines) {
		t.Errorf("Regenerated constraints differ:\n%s\nvs\n%s", strings.Join(again, "\n"), strings.Join(lines, "\n"))
	}
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"unknown directive", "set_property FOO bar [get_ports x]\nset_property PACKAGE_PIN A1 [get_ports x]"},
		{"no pins", "set_property IOSTANDARD LVCMOS33 [get_ports x]"},
		{"missing bit", "set_property PACKAGE_PIN A1 [get_ports { x[0] }]\nset_property PACKAGE_PIN A2 [get_ports { x[2] }]"},
		{"bus and scalar", "set_property PACKAGE_PIN A1 [get_ports { x[0] }]\nset_property PACKAGE_PIN A2 [get_ports x]"},
		{"conflicting values", "set_property PACKAGE_PIN A1 [get_ports x]\nset_property SLEW FAST [get_ports x]\nset_property SLEW SLOW [get_ports x]"},
		{"clock without period", "set_property PACKAGE_PIN A1 [get_ports x]\ncreate_clock -name x [get_ports x]"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			file, err := Parse(strings.NewReader(test.text))
			if err != nil {
				t.Fatalf("Parse() failed: %s", err)
			}
			_, err = file.Board(arty)
			if !errors.Is(err, toolflow.ErrConfiguration) {
				t.Errorf("Expected a configuration error, got %v", err)
			}
		})
	}
}

func TestSyntaxError(t *testing.T) {
	_, err := Parse(strings.NewReader("set_property PACKAGE_PIN A1 [get_cells x]"))
	if !errors.Is(err, toolflow.ErrConfiguration) {
		t.Errorf("Expected a configuration error, got %v", err)
	}
}

func TestDuplicateAttributesAreMerged(t *testing.T) {
	b := parseBoard(t, `
set_property PACKAGE_PIN A1 [get_ports { x[0] }]
set_property PACKAGE_PIN A2 [get_ports { x[1] }]
set_property IOSTANDARD LVCMOS18 [get_ports { x[0] }]
set_property IOSTANDARD LVCMOS18 [get_ports { x[1] }]
`)
	port, ok := b.Port("x")
	if !ok {
		t.Fatalf("Expected port x")
	}
	want := []board.Attribute{{Key: "iostandard", Value: "LVCMOS18"}}
	if !reflect.DeepEqual(port.Attributes, want) {
		t.Errorf("Expected %v, got %v", want, port.Attributes)
	}
}
