// Package board describes FPGA boards: device identity, clocks and the ports
// that connect the device pins to the outside world.
package board

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/daedaleanai/fpgaflow/toolflow"
	"github.com/daedaleanai/fpgaflow/util"
)

var partRegexp = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Identity names the target device of a board.
type Identity struct {
	Vendor  string
	Family  string
	Device  string
	Package string
	Speed   string
	Name    string
}

// Part returns the lower-cased part identifier, e.g. "xc7z010clg400-1".
func (id Identity) Part() string {
	return strings.ToLower(id.Device + id.Package + id.Speed)
}

// Validate checks that the identity names a usable part.
func (id Identity) Validate() error {
	if id.Name == "" {
		return toolflow.Configurationf("board has no name")
	}
	if id.Device == "" || id.Package == "" {
		return toolflow.Configurationf("board %q: device and package must be set", id.Name)
	}
	if part := id.Part(); !partRegexp.MatchString(part) {
		return toolflow.Configurationf("board %q: %q is not a valid part identifier", id.Name, part)
	}
	return nil
}

// Clock is a clock source with a frequency in Hz.
type Clock struct {
	Name      string
	Frequency float64
	InUse     bool
}

// Period returns the clock period in nanoseconds.
func (c Clock) Period() float64 {
	return 1e9 / c.Frequency
}

// SignalKind tells plain ports from ports driven by a clock.
type SignalKind int

const (
	PlainSignal SignalKind = iota
	ClockSignal
)

func (k SignalKind) String() string {
	switch k {
	case PlainSignal:
		return "plain"
	case ClockSignal:
		return "clock"
	}
	return fmt.Sprintf("SignalKind(%d)", int(k))
}

// Signal is what a port carries. Clock signals carry a copy of their clock.
type Signal struct {
	kind  SignalKind
	clock Clock
}

// Plain returns a signal without clock semantics.
func Plain() Signal {
	return Signal{kind: PlainSignal}
}

// ClockOf returns a signal carrying `clock`.
func ClockOf(clock Clock) Signal {
	return Signal{kind: ClockSignal, clock: clock}
}

// Kind returns the tag of the signal.
func (s Signal) Kind() SignalKind {
	return s.kind
}

// Clock returns the clock of a ClockSignal. The second result is false for plain signals.
func (s Signal) Clock() (Clock, bool) {
	return s.clock, s.kind == ClockSignal
}

// Attribute is a single electrical property of a port, e.g. iostandard=LVCMOS33.
type Attribute struct {
	Key   string
	Value interface{}
}

// String renders the value of the attribute.
func (a Attribute) String() string {
	return fmt.Sprint(a.Value)
}

// Port is a named connection with one pin per bit.
type Port struct {
	Name       string
	Pins       []string
	Signal     Signal
	InUse      bool
	Attributes []Attribute
}

func (p Port) clone() Port {
	c := p
	c.Pins = append([]string(nil), p.Pins...)
	c.Attributes = append([]Attribute(nil), p.Attributes...)
	return c
}

// Board is an immutable board description. Use New to construct one.
type Board struct {
	id     Identity
	clocks util.OrderedMap[string, Clock]
	ports  util.OrderedMap[string, Port]
}

// New validates the given definitions and builds a Board. Clocks and ports keep the given order.
// A port clock is resolved by name against `clocks`.
func New(id Identity, clocks []Clock, ports []Port) (*Board, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	b := &Board{
		id:     id,
		clocks: util.NewOrderedMap[string, Clock](),
		ports:  util.NewOrderedMap[string, Port](),
	}
	for _, clock := range clocks {
		if clock.Name == "" {
			return nil, toolflow.Configurationf("board %q: clock without name", id.Name)
		}
		if !(clock.Frequency > 0) {
			return nil, toolflow.Configurationf("board %q: clock %q must have a positive frequency", id.Name, clock.Name)
		}
		if err := b.clocks.Insert(clock.Name, clock); err != nil {
			return nil, toolflow.Configurationf("board %q: duplicate clock %q", id.Name, clock.Name)
		}
	}
	for _, port := range ports {
		if port.Name == "" {
			return nil, toolflow.Configurationf("board %q: port without name", id.Name)
		}
		if len(port.Pins) == 0 {
			return nil, toolflow.Configurationf("board %q: port %q has no pins", id.Name, port.Name)
		}
		port = port.clone()
		if clock, ok := port.Signal.Clock(); ok {
			known, found := b.clocks.Lookup(clock.Name)
			if !found {
				return nil, toolflow.Configurationf("board %q: port %q refers to unknown clock %q", id.Name, port.Name, clock.Name)
			}
			// The port carries the board's clock, whatever copy it was built with.
			port.Signal = ClockOf(known)
		}
		if err := b.ports.Insert(port.Name, port); err != nil {
			return nil, toolflow.Configurationf("board %q: duplicate port %q", id.Name, port.Name)
		}
	}
	return b, nil
}

// Identity returns the device identity of the board.
func (b *Board) Identity() Identity {
	return b.id
}

// Name returns the board name.
func (b *Board) Name() string {
	return b.id.Name
}

// Part returns the part identifier passed to the vendor tools.
func (b *Board) Part() string {
	return b.id.Part()
}

// Clocks returns a copy of the clocks in declaration order.
func (b *Board) Clocks() []Clock {
	return b.clocks.Values()
}

// Ports returns a copy of the ports in declaration order.
func (b *Board) Ports() []Port {
	return util.MappedSlice(b.ports.Values(), Port.clone)
}

// Port looks up a port by name.
func (b *Board) Port(name string) (Port, bool) {
	p, ok := b.ports.Lookup(name)
	if !ok {
		return Port{}, false
	}
	return p.clone(), true
}

// WithPortsInUse returns a copy of the board where the named ports, and the clocks they carry, are in use.
func (b *Board) WithPortsInUse(names ...string) (*Board, error) {
	wanted := map[string]bool{}
	for _, name := range names {
		if _, ok := b.ports.Lookup(name); !ok {
			return nil, toolflow.Configurationf("board %q has no port %q", b.id.Name, name)
		}
		wanted[name] = true
	}

	usedClocks := map[string]bool{}
	ports := b.Ports()
	for i := range ports {
		if !wanted[ports[i].Name] {
			continue
		}
		ports[i].InUse = true
		if clock, ok := ports[i].Signal.Clock(); ok {
			usedClocks[clock.Name] = true
		}
	}

	clocks := b.Clocks()
	for i := range clocks {
		if usedClocks[clocks[i].Name] {
			clocks[i].InUse = true
		}
	}
	for i := range ports {
		if clock, ok := ports[i].Signal.Clock(); ok && usedClocks[clock.Name] {
			clock.InUse = true
			ports[i].Signal = ClockOf(clock)
		}
	}
	return New(b.id, clocks, ports)
}

// WithAllPortsInUse marks every port, and the clocks they carry, as used.
func (b *Board) WithAllPortsInUse() *Board {
	used, err := b.WithPortsInUse(b.ports.Keys()...)
	if err != nil {
		// All names come from the board itself.
		panic(err)
	}
	return used
}
