package vivado

import (
	"fmt"

	"github.com/daedaleanai/fpgaflow/board"
	"github.com/daedaleanai/fpgaflow/toolflow"
	"github.com/daedaleanai/fpgaflow/util"
)

// I/O port properties, see UG903 "I/O constraints".
var directives = map[string]string{
	// Output buffer drive strength in mA.
	"drive": "DRIVE",
	// I/O standard of the port.
	"iostandard": "IOSTANDARD",
	// Output slew rate.
	"slew": "SLEW",
	// Input termination resistance.
	"in_term": "IN_TERM",
	// 100 ohm differential termination.
	"diff_term": "DIFF_TERM",
	// Weak driver keeping the last value of a tri-stated port.
	"keeper": "KEEPER",
	// Weak pull on a tri-stated port.
	"pulltype": "PULLTYPE",
	// Master/slave DCI bank chaining. Vivado spells it this way.
	"dci_cascade": "DCI_CASACDE",
	// Use the internal Vref instead of the bank's Vref pins.
	"internal_vref": "INTERNAL_VREF",
	// IDELAYCTRL replication group.
	"iodelay_group": "IODELAY_GROUP",
	// Pack the register into the I/O block.
	"iob": "IOB",
}

var attributeKeys = func() map[string]string {
	keys := make(map[string]string, len(directives))
	for key, directive := range directives {
		keys[directive] = key
	}
	return keys
}()

// Directive returns the Vivado property name for a port attribute key.
func Directive(key string) (string, bool) {
	directive, ok := directives[key]
	return directive, ok
}

// AttributeKey returns the port attribute key for a Vivado property name.
func AttributeKey(directive string) (string, bool) {
	key, ok := attributeKeys[directive]
	return key, ok
}

// SupportedAttributes lists the attribute keys that can be rendered, sorted.
func SupportedAttributes() []string {
	return util.OrderedKeys(directives)
}

// RenderAttribute renders one port attribute as a set_property statement for `ref`.
func RenderAttribute(ref string, attr board.Attribute) (string, error) {
	directive, ok := Directive(attr.Key)
	if !ok {
		return "", &toolflow.UnsupportedAttributeError{Port: ref, Key: attr.Key}
	}
	return fmt.Sprintf("set_property %s %s [get_ports %s]", directive, attr, ref), nil
}
