// Package emit builds indented source text for the generated Java and Dart files.
package emit

import (
	"fmt"
	"strings"
)

// Emitter accumulates source code with indentation.
type Emitter struct {
	buf    strings.Builder
	indent int
	unit   string
}

// New returns an emitter that indents with unit.
func New(unit string) *Emitter {
	return &Emitter{unit: unit}
}

// NewJava returns an emitter indenting with four spaces.
func NewJava() *Emitter {
	return New("    ")
}

// NewDart returns an emitter indenting with two spaces.
func NewDart() *Emitter {
	return New("  ")
}

func (e *Emitter) format(format string, args []any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

func (e *Emitter) pad() {
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString(e.unit)
	}
}

// Line writes a single line at the current indentation level. Without args the
// format is written verbatim.
func (e *Emitter) Line(format string, args ...any) {
	line := e.format(format, args)
	if line == "" {
		e.buf.WriteByte('\n')
		return
	}
	e.pad()
	e.buf.WriteString(line)
	e.buf.WriteByte('\n')
}

// Lines writes each line at the current indentation level.
func (e *Emitter) Lines(lines ...string) {
	for _, l := range lines {
		e.Line(l)
	}
}

// Raw writes a raw string without indentation or newline.
func (e *Emitter) Raw(s string) {
	e.buf.WriteString(s)
}

// Blank writes an empty line.
func (e *Emitter) Blank() {
	e.buf.WriteByte('\n')
}

// Block opens a brace block (appends " {" to the line and increases indent).
func (e *Emitter) Block(format string, args ...any) {
	e.Open(e.format(format, args) + " {")
}

// EndBlock closes a block (decreases indent and writes "}").
func (e *Emitter) EndBlock() {
	e.Close("}")
}

// EndBlockSuffix closes a block with a suffix (e.g., "} else {" or "});").
func (e *Emitter) EndBlockSuffix(suffix string) {
	e.Close("}" + suffix)
}

// Open writes the line as given and increases indent. Used for Dart widget trees
// that open with "(" or "[".
func (e *Emitter) Open(format string, args ...any) {
	e.Line(format, args...)
	e.indent++
}

// Close decreases indent and writes the line.
func (e *Emitter) Close(format string, args ...any) {
	e.Dedent()
	e.Line(format, args...)
}

// Indent increases the indentation level.
func (e *Emitter) Indent() {
	e.indent++
}

// Dedent decreases the indentation level.
func (e *Emitter) Dedent() {
	if e.indent > 0 {
		e.indent--
	}
}

// String returns the accumulated source code.
func (e *Emitter) String() string {
	return e.buf.String()
}

// Bytes returns the accumulated source code.
func (e *Emitter) Bytes() []byte {
	return []byte(e.buf.String())
}

// Len returns the current byte length.
func (e *Emitter) Len() int {
	return e.buf.Len()
}
