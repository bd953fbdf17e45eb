// Package xdc reads Xilinx design constraint files back into board descriptions.
//
// Only the subset written by the constraint generator and found in vendor master
// files is understood: `set_property` on ports or the current design, and
// `create_clock` on ports.
package xdc

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var xdcLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `(?:[ \t\r\n]|\\\n)+`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Option", Pattern: `-[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Number", Pattern: `[0-9]+(?:\.[0-9]*)?(?:[eE][-+]?[0-9]+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.\-]*`},
	{Name: "Punct", Pattern: `[\[\]{};]`},
})

// File is a parsed constraint file.
type File struct {
	Statements []*Statement `( @@ ";"? )*`
}

// Statement is one command.
type Statement struct {
	Pos lexer.Position

	Property *SetProperty `  @@`
	Clock    *CreateClock `| @@`
}

// SetProperty is `set_property KEY VALUE [target]` or `set_property -dict { K V ... } [target]`.
type SetProperty struct {
	Values *PropertyValues `"set_property" @@`
	Target *Target         `"[" @@ "]"`
}

type PropertyValues struct {
	Dict   []*Pair `  "-dict" "{" @@* "}"`
	Single *Pair   `| @@`
}

// Pairs returns the assigned properties in file order.
func (v *PropertyValues) Pairs() []*Pair {
	if v.Single != nil {
		return []*Pair{v.Single}
	}
	return v.Dict
}

type Pair struct {
	Key   string `@Ident`
	Value string `@( Ident | Number | String )`
}

// Target is the object a property is set on.
type Target struct {
	Design bool     `  @"current_design"`
	Ports  *PortRef `| "get_ports" @@`
}

// PortRef names a single-pin port or one bit of a bus.
type PortRef struct {
	Braced *BracedRef `  "{" @@ "}"`
	Name   string     `| @Ident`
}

type BracedRef struct {
	Name  string `@Ident`
	Index string `( "[" @Number "]" )?`
}

// CreateClock is `create_clock -name N -period P -waveform {R F} [get_ports REF]`.
type CreateClock struct {
	Options []*ClockOption `"create_clock" @@*`
	Target  *PortRef       `"[" "get_ports" @@ "]"`
}

type ClockOption struct {
	Name  string       `@Option`
	Value *OptionValue `@@?`
}

type OptionValue struct {
	List   []string `  "{" @Number* "}"`
	Scalar string   `| @( Number | Ident | String )`
}

var parser = participle.MustBuild[File](
	participle.Lexer(xdcLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)
