package vhdl

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/pborges/clb/internal/algebra"
	"github.com/pborges/clb/internal/block"
)

type PortOrder string

const (
	// PortOrderFirstSeen lists inputs in order of first use and outputs in
	// equation order.
	PortOrderFirstSeen PortOrder = "first-seen"
	// PortOrderSorted lists inputs, then outputs, each sorted by name.
	PortOrderSorted PortOrder = "sorted"
)

type Config struct {
	// Header lines are emitted as "--" comments before the library clause.
	Header       []string
	Architecture string
	Indent       string
	PortOrder    PortOrder
	// Declarations go between "architecture ... is" and "begin".
	Declarations []string
}

func (c Config) withDefaults() Config {
	if c.Architecture == "" {
		c.Architecture = "behavioral"
	}
	if c.Indent == "" {
		c.Indent = "    "
	}
	if c.PortOrder == "" {
		c.PortOrder = PortOrderFirstSeen
	}
	return c
}

// Module generates a VHDL entity/architecture pair named name for b.
func Module(cfg Config, name string, b *block.Block) (string, error) {
	cfg = cfg.withDefaults()
	if !IsBasicIdentifier(name) {
		return "", fmt.Errorf("invalid entity name %q", name)
	}
	if !IsBasicIdentifier(cfg.Architecture) {
		return "", fmt.Errorf("invalid architecture name %q", cfg.Architecture)
	}
	inputs, outputs := b.Inputs(), b.Outputs()
	if err := checkPortNames(inputs, outputs); err != nil {
		return "", err
	}
	switch cfg.PortOrder {
	case PortOrderFirstSeen:
	case PortOrderSorted:
		sort.Strings(inputs)
		sort.Strings(outputs)
	default:
		return "", fmt.Errorf("unknown port order %q", cfg.PortOrder)
	}

	buf := NewBuilder(cfg.Indent)
	for _, entry := range cfg.Header {
		for _, line := range strings.Split(entry, "\n") {
			buf.Line(strings.TrimRight("-- "+strings.TrimRight(line, "\r"), " "))
		}
	}
	useStdLogic(buf)

	ports := make([]string, 0, len(inputs)+len(outputs))
	for _, in := range inputs {
		ports = append(ports, Identifier(in)+" : in std_logic")
	}
	for _, out := range outputs {
		ports = append(ports, Identifier(out)+" : out std_logic")
	}
	addEntity(buf, name, ports)
	buf.Line("")

	body := make([]string, 0, len(b.Equations()))
	for _, eq := range b.Equations() {
		body = append(body, Equation(eq))
	}
	addArchitecture(buf, name, cfg.Architecture, cfg.Declarations, body)
	return buf.String(), nil
}

// portKey is the name VHDL sees for a port. Basic identifiers are
// case-insensitive; extended identifiers are not.
func portKey(name string) string {
	if IsBasicIdentifier(name) {
		return strings.ToLower(name)
	}
	return Identifier(name)
}

// checkPortNames rejects blocks whose distinct signal names collapse to one
// VHDL port. An input that collides with an output is feedback.
func checkPortNames(inputs, outputs []string) error {
	type port struct {
		name  string
		input bool
	}
	seen := make(map[string]port, len(inputs)+len(outputs))
	var feedback []string
	add := func(name string, input bool) error {
		key := portKey(name)
		prev, dup := seen[key]
		if !dup {
			seen[key] = port{name: name, input: input}
			return nil
		}
		if prev.input == input {
			return fmt.Errorf("signals %s and %s are the same VHDL port", prev.name, name)
		}
		feedback = append(feedback, prev.name)
		return nil
	}
	for _, in := range inputs {
		if err := add(in, true); err != nil {
			return err
		}
	}
	for _, out := range outputs {
		if err := add(out, false); err != nil {
			return err
		}
	}
	if len(feedback) > 0 {
		slog.Warn("combinational feedback through case-insensitive names", "signals", feedback)
		return &algebra.CombinationalFeedbackError{Signals: feedback}
	}
	return nil
}

func useStdLogic(buf *Builder) {
	buf.Line("library IEEE;")
	buf.Line("use IEEE.STD_LOGIC_1164.all;")
	buf.Line("")
}

func addEntity(buf *Builder, name string, ports []string) {
	buf.StartBlock("entity " + name + " is")
	buf.StartBlock("port(")
	for i, p := range ports {
		if i < len(ports)-1 {
			p += ";"
		}
		buf.Line(p)
	}
	buf.EndBlock(");")
	buf.EndBlock("end entity;")
}

func addArchitecture(buf *Builder, entity, arch string, declarations, body []string) {
	buf.StartBlock("architecture " + arch + " of " + entity + " is")
	buf.Lines(declarations...)
	buf.Inset("begin")
	buf.Lines(body...)
	buf.EndBlock("end architecture;")
}
