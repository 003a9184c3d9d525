package vhdl

import "strings"

// Builder accumulates lines of code at a tracked indent depth.
type Builder struct {
	buf    strings.Builder
	indent string
	level  int
}

func NewBuilder(indent string) *Builder {
	return &Builder{indent: indent}
}

// Line adds one line at the current depth. An empty line carries no indent.
func (b *Builder) Line(line string) {
	if line != "" {
		b.buf.WriteString(strings.Repeat(b.indent, b.level))
		b.buf.WriteString(line)
	}
	b.buf.WriteByte('\n')
}

func (b *Builder) Lines(lines ...string) {
	for _, l := range lines {
		b.Line(l)
	}
}

// StartBlock adds line and indents what follows.
func (b *Builder) StartBlock(line string) {
	b.Line(line)
	b.level++
}

// EndBlock dedents and adds line.
func (b *Builder) EndBlock(line string) {
	if b.level > 0 {
		b.level--
	}
	b.Line(line)
}

// Inset adds a line one level shallower than the current depth, such as the
// "begin" of an architecture.
func (b *Builder) Inset(line string) {
	if b.level == 0 {
		b.Line(line)
		return
	}
	b.level--
	b.Line(line)
	b.level++
}

func (b *Builder) String() string { return b.buf.String() }
