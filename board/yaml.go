package board

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/daedaleanai/fpgaflow/toolflow"
)

// FileExt is the extension of board description files.
const FileExt = ".yaml"

type yamlClock struct {
	Name      string        `yaml:"name"`
	Frequency string        `yaml:"frequency"`
	InUse     bool          `yaml:"inuse,omitempty"`
	Pins      []string      `yaml:"pins,omitempty"`
	Attrs     yaml.MapSlice `yaml:"attributes,omitempty"`
}

type yamlPort struct {
	Name  string        `yaml:"name"`
	Pins  []string      `yaml:"pins"`
	Clock string        `yaml:"clock,omitempty"`
	InUse bool          `yaml:"inuse,omitempty"`
	Attrs yaml.MapSlice `yaml:"attributes,omitempty"`
}

type yamlBoard struct {
	Vendor  string      `yaml:"vendor"`
	Family  string      `yaml:"family"`
	Device  string      `yaml:"device"`
	Package string      `yaml:"package"`
	Speed   string      `yaml:"speed"`
	Name    string      `yaml:"name"`
	Clocks  []yamlClock `yaml:"clocks,omitempty"`
	Ports   []yamlPort  `yaml:"ports,omitempty"`
}

var frequencyUnits = []struct {
	suffix string
	scale  float64
}{
	{"ghz", 1e9},
	{"mhz", 1e6},
	{"khz", 1e3},
	{"hz", 1},
}

// ParseFrequency parses a frequency in Hz. Plain numbers ("125e6") and unit suffixes ("125MHz") are accepted.
func ParseFrequency(s string) (float64, error) {
	text := strings.ToLower(strings.TrimSpace(s))
	scale := 1.0
	for _, unit := range frequencyUnits {
		if strings.HasSuffix(text, unit.suffix) {
			text = strings.TrimSpace(strings.TrimSuffix(text, unit.suffix))
			scale = unit.scale
			break
		}
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frequency %q", s)
	}
	return value * scale, nil
}

func attributesFromYaml(items yaml.MapSlice) []Attribute {
	attrs := make([]Attribute, 0, len(items))
	for _, item := range items {
		attrs = append(attrs, Attribute{Key: fmt.Sprint(item.Key), Value: item.Value})
	}
	return attrs
}

func attributesToYaml(attrs []Attribute) yaml.MapSlice {
	items := yaml.MapSlice{}
	for _, attr := range attrs {
		items = append(items, yaml.MapItem{Key: attr.Key, Value: attr.Value})
	}
	return items
}

// Parse decodes a YAML board description.
//
// A clock entry with pins also declares a port of the same name that carries the clock.
func Parse(data []byte) (*Board, error) {
	var raw yamlBoard
	if err := yaml.UnmarshalStrict(data, &raw); err != nil {
		return nil, toolflow.Configurationf("%s", err)
	}

	id := Identity{
		Vendor:  raw.Vendor,
		Family:  raw.Family,
		Device:  raw.Device,
		Package: raw.Package,
		Speed:   raw.Speed,
		Name:    raw.Name,
	}

	clocks := []Clock{}
	clocksByName := map[string]Clock{}
	ports := []Port{}
	for _, c := range raw.Clocks {
		frequency, err := ParseFrequency(c.Frequency)
		if err != nil {
			return nil, toolflow.Configurationf("clock %q: %s", c.Name, err)
		}
		clock := Clock{Name: c.Name, Frequency: frequency, InUse: c.InUse}
		clocks = append(clocks, clock)
		clocksByName[c.Name] = clock
		if len(c.Pins) > 0 {
			ports = append(ports, Port{
				Name:       c.Name,
				Pins:       c.Pins,
				Signal:     ClockOf(clock),
				InUse:      c.InUse,
				Attributes: attributesFromYaml(c.Attrs),
			})
		}
	}

	for _, p := range raw.Ports {
		signal := Plain()
		if p.Clock != "" {
			clock, ok := clocksByName[p.Clock]
			if !ok {
				return nil, toolflow.Configurationf("port %q refers to unknown clock %q", p.Name, p.Clock)
			}
			signal = ClockOf(clock)
		}
		ports = append(ports, Port{
			Name:       p.Name,
			Pins:       p.Pins,
			Signal:     signal,
			InUse:      p.InUse,
			Attributes: attributesFromYaml(p.Attrs),
		})
	}

	return New(id, clocks, ports)
}

// Load reads a YAML board description from a file.
func Load(file string) (*Board, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return b, nil
}

// LoadDir loads all board descriptions in `dir`, keyed by board name.
func LoadDir(dir string) (map[string]*Board, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+FileExt))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	boards := map[string]*Board{}
	for _, file := range matches {
		b, err := Load(file)
		if err != nil {
			return nil, err
		}
		if _, exists := boards[b.Name()]; exists {
			return nil, toolflow.Configurationf("%s: board %q is defined more than once", file, b.Name())
		}
		boards[b.Name()] = b
	}
	return boards, nil
}

// Marshal encodes a board as YAML. Clock ports are folded into their clock entries.
func Marshal(b *Board) ([]byte, error) {
	id := b.Identity()
	raw := yamlBoard{
		Vendor:  id.Vendor,
		Family:  id.Family,
		Device:  id.Device,
		Package: id.Package,
		Speed:   id.Speed,
		Name:    id.Name,
	}

	clockPorts := map[string]Port{}
	for _, p := range b.Ports() {
		if clock, ok := p.Signal.Clock(); ok && clock.Name == p.Name {
			clockPorts[p.Name] = p
		}
	}

	for _, c := range b.Clocks() {
		entry := yamlClock{
			Name:      c.Name,
			Frequency: strconv.FormatFloat(c.Frequency, 'g', -1, 64),
			InUse:     c.InUse,
		}
		if p, ok := clockPorts[c.Name]; ok {
			entry.Pins = p.Pins
			entry.Attrs = attributesToYaml(p.Attributes)
		}
		raw.Clocks = append(raw.Clocks, entry)
	}

	for _, p := range b.Ports() {
		if _, folded := clockPorts[p.Name]; folded {
			continue
		}
		entry := yamlPort{
			Name:  p.Name,
			Pins:  p.Pins,
			InUse: p.InUse,
			Attrs: attributesToYaml(p.Attributes),
		}
		if clock, ok := p.Signal.Clock(); ok {
			entry.Clock = clock.Name
		}
		raw.Ports = append(raw.Ports, entry)
	}

	return yaml.Marshal(&raw)
}
