package xdc

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/daedaleanai/fpgaflow/board"
	"github.com/daedaleanai/fpgaflow/log"
	"github.com/daedaleanai/fpgaflow/toolflow"
	"github.com/daedaleanai/fpgaflow/toolflow/vivado"
	"github.com/daedaleanai/fpgaflow/util"
)

const packagePin = "PACKAGE_PIN"

// Parse reads a constraint file.
func Parse(r io.Reader) (*File, error) {
	file, err := parser.Parse("", r)
	if err != nil {
		return nil, toolflow.Configurationf("parsing constraints: %s", err)
	}
	return file, nil
}

// ParseFile reads the constraint file at `path`.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	file, err := parser.Parse(path, f)
	if err != nil {
		return nil, toolflow.Configurationf("parsing constraints: %s", err)
	}
	return file, nil
}

type portDef struct {
	name    string
	indexed bool
	scalar  bool
	pins    map[int]string
	// Order of the first PACKAGE_PIN of the port in the file.
	firstPin int
	attrs    util.OrderedMap[string, string]
	period   float64
}

func (d *portDef) width() int {
	return len(d.pins)
}

type folder struct {
	ports   util.OrderedMap[string, *portDef]
	pinSeen int
}

func (f *folder) port(ref *PortRef) (*portDef, int, error) {
	name, index, indexed := ref.Name, 0, false
	if ref.Braced != nil {
		name = ref.Braced.Name
		if ref.Braced.Index != "" {
			i, err := strconv.Atoi(ref.Braced.Index)
			if err != nil {
				return nil, 0, toolflow.Configurationf("port %q: invalid index %q", name, ref.Braced.Index)
			}
			index, indexed = i, true
		}
	}

	def, ok := f.ports.Lookup(name)
	if !ok {
		def = &portDef{
			name:     name,
			pins:     map[int]string{},
			firstPin: -1,
			attrs:    util.NewOrderedMap[string, string](),
		}
		if err := f.ports.Insert(name, def); err != nil {
			return nil, 0, err
		}
	}
	if indexed {
		def.indexed = true
	} else {
		def.scalar = true
	}
	if def.indexed && def.scalar {
		return nil, 0, toolflow.Configurationf("port %q is referenced both as a bus and as a single pin", name)
	}
	return def, index, nil
}

func (f *folder) setProperty(pos string, prop *SetProperty) error {
	if prop.Target.Design {
		for _, pair := range prop.Values.Pairs() {
			log.Debug("%s: skipping design property %s.\n", pos, pair.Key)
		}
		return nil
	}

	def, index, err := f.port(prop.Target.Ports)
	if err != nil {
		return err
	}
	for _, pair := range prop.Values.Pairs() {
		if pair.Key == packagePin {
			if pin, ok := def.pins[index]; ok && pin != pair.Value {
				return toolflow.Configurationf("%s: bit %d of port %q is placed on both %s and %s", pos, index, def.name, pin, pair.Value)
			}
			def.pins[index] = pair.Value
			if def.firstPin < 0 {
				def.firstPin = f.pinSeen
				f.pinSeen++
			}
			continue
		}

		key, ok := vivado.AttributeKey(pair.Key)
		if !ok {
			return &toolflow.UnsupportedAttributeError{Port: def.name, Key: pair.Key}
		}
		if value, ok := def.attrs.Lookup(key); ok {
			if value != pair.Value {
				return toolflow.Configurationf("%s: port %q has conflicting values for %s: %s and %s", pos, def.name, pair.Key, value, pair.Value)
			}
			continue
		}
		if err := def.attrs.Insert(key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}

func (f *folder) createClock(pos string, clock *CreateClock) error {
	def, _, err := f.port(clock.Target)
	if err != nil {
		return err
	}
	for _, option := range clock.Options {
		if option.Name != "-period" {
			continue
		}
		if option.Value == nil || option.Value.Scalar == "" {
			return toolflow.Configurationf("%s: clock on %q has no period", pos, def.name)
		}
		period, err := strconv.ParseFloat(option.Value.Scalar, 64)
		if err != nil || !(period > 0) {
			return toolflow.Configurationf("%s: clock on %q has an invalid period %q", pos, def.name, option.Value.Scalar)
		}
		def.period = period
		return nil
	}
	return toolflow.Configurationf("%s: clock on %q has no period", pos, def.name)
}

// Board folds the statements into a board with identity `id`.
//
// Ports keep the order of their first PACKAGE_PIN. Every imported port is in use.
// Clocks are named after the port they are created on.
func (file *File) Board(id board.Identity) (*board.Board, error) {
	f := &folder{ports: util.NewOrderedMap[string, *portDef]()}
	for _, stmt := range file.Statements {
		pos := stmt.Pos.String()
		var err error
		switch {
		case stmt.Property != nil:
			err = f.setProperty(pos, stmt.Property)
		case stmt.Clock != nil:
			err = f.createClock(pos, stmt.Clock)
		}
		if err != nil {
			return nil, err
		}
	}

	defs := f.ports.Values()
	for _, def := range defs {
		if def.width() == 0 {
			return nil, toolflow.Configurationf("port %q has no PACKAGE_PIN", def.name)
		}
		for i := 0; i < def.width(); i++ {
			if _, ok := def.pins[i]; !ok {
				return nil, toolflow.Configurationf("port %q has no PACKAGE_PIN for bit %d", def.name, i)
			}
		}
	}
	defs = util.SliceOrderedBy(defs, func(d **portDef) int { return (*d).firstPin })

	clocks := []board.Clock{}
	ports := []board.Port{}
	for _, def := range defs {
		port := board.Port{
			Name:   def.name,
			Signal: board.Plain(),
			InUse:  true,
		}
		for i := 0; i < def.width(); i++ {
			port.Pins = append(port.Pins, def.pins[i])
		}
		for _, attr := range def.attrs.Entries() {
			port.Attributes = append(port.Attributes, board.Attribute{Key: attr.Key, Value: attr.Value})
		}
		if def.period > 0 {
			clock := board.Clock{Name: def.name, Frequency: 1e9 / def.period, InUse: true}
			clocks = append(clocks, clock)
			port.Signal = board.ClockOf(clock)
		}
		ports = append(ports, port)
	}

	return board.New(id, clocks, ports)
}

// Describe summarizes the file for log output.
func (file *File) Describe() string {
	properties, clocks := 0, 0
	for _, stmt := range file.Statements {
		if stmt.Property != nil {
			properties++
		} else if stmt.Clock != nil {
			clocks++
		}
	}
	return fmt.Sprintf("%d properties, %d clocks", properties, clocks)
}
