package testutil

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Design is the parsed form of a single-entity VHDL file limited to the
// constructs the code generator emits.
type Design struct {
	Library      string
	Uses         []string
	Entity       string
	Ports        []Port
	Architecture string
	Assignments  []Assignment
}

type Port struct {
	Name string
	Mode string
	Type string
}

type Assignment struct {
	Target string
	Reads  []string
	expr   *logicExpr
}

// Eval evaluates the assignment's right-hand side. values is keyed by the
// identifiers as written in the VHDL text.
func (a Assignment) Eval(values map[string]bool) (bool, error) {
	return a.expr.eval(values)
}

var vhdlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `--[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Keyword", Pattern: `\b(?:library|use|entity|is|port|in|out|end|architecture|of|begin|and|or|xor|not)\b`},
	{Name: "ExtIdent", Pattern: `\\(?:[^\\\n]|\\\\)*\\`},
	{Name: "Char", Pattern: `'[01]'`},
	{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `<=|[();:,.]`},
})

type designFile struct {
	Library string       `"library" @Ident ";"`
	Uses    []*useClause `@@*`
	Entity  *entityDecl  `@@`
	Arch    *archBody    `@@`
}

type useClause struct {
	Path []string `"use" @Ident ( "." @Ident )* ";"`
}

type entityDecl struct {
	Name    string      `"entity" @Ident "is"`
	Ports   []*portDecl `"port" "(" @@ ( ";" @@ )* ")" ";"`
	EndName string      `"end" "entity"? @Ident? ";"`
}

type portDecl struct {
	Names []string `@(Ident | ExtIdent) ( "," @(Ident | ExtIdent) )* ":"`
	Mode  string   `@("in" | "out")`
	Type  string   `@Ident`
}

type archBody struct {
	Name    string        `"architecture" @Ident "of"`
	Entity  string        `@Ident "is" "begin"`
	Assigns []*assignment `@@*`
	EndName string        `"end" "architecture"? @Ident? ";"`
}

type assignment struct {
	Target string     `@(Ident | ExtIdent) "<="`
	Value  *logicExpr `@@ ";"`
}

type logicExpr struct {
	Head *factor   `@@`
	Tail []*opTerm `@@*`
}

type opTerm struct {
	Op    string  `@("and" | "or" | "xor")`
	Right *factor `@@`
}

// "not" applies to a primary, so "not not x" is rejected as VHDL does.
type factor struct {
	Not     *primary `  "not" @@`
	Primary *primary `| @@`
}

type primary struct {
	Group *logicExpr `  "(" @@ ")"`
	Lit   string     `| @Char`
	Name  string     `| @(Ident | ExtIdent)`
}

var vhdlParser = participle.MustBuild[designFile](
	participle.Lexer(vhdlLexer),
	participle.Elide("Whitespace", "Comment"),
)

// ParseVHDL parses src and checks the rules a VHDL analyzer would reject:
// mixed logical operators without parentheses, assignments to inputs, reads
// of undeclared signals, and outputs driven more or less than once.
func ParseVHDL(src string) (Design, error) {
	var d Design
	f, err := vhdlParser.ParseString("", src)
	if err != nil {
		return d, err
	}
	d.Library = f.Library
	for _, u := range f.Uses {
		d.Uses = append(d.Uses, strings.Join(u.Path, "."))
	}
	d.Entity = f.Entity.Name
	if f.Entity.EndName != "" && f.Entity.EndName != d.Entity {
		return d, fmt.Errorf("entity %s closed as %s", d.Entity, f.Entity.EndName)
	}
	modes := map[string]string{}
	declared := map[string]string{}
	for _, p := range f.Entity.Ports {
		for _, n := range p.Names {
			if prev, dup := declared[foldName(n)]; dup {
				return d, fmt.Errorf("port %s declared twice (as %s)", n, prev)
			}
			declared[foldName(n)] = n
			modes[n] = p.Mode
			d.Ports = append(d.Ports, Port{Name: n, Mode: p.Mode, Type: p.Type})
		}
	}
	d.Architecture = f.Arch.Name
	if f.Arch.Entity != d.Entity {
		return d, fmt.Errorf("architecture %s is of %s, not %s", f.Arch.Name, f.Arch.Entity, d.Entity)
	}
	if f.Arch.EndName != "" && f.Arch.EndName != d.Architecture {
		return d, fmt.Errorf("architecture %s closed as %s", d.Architecture, f.Arch.EndName)
	}
	driven := map[string]bool{}
	for _, a := range f.Arch.Assigns {
		if modes[a.Target] != "out" {
			return d, fmt.Errorf("assignment to %s, which is not an output port", a.Target)
		}
		if driven[a.Target] {
			return d, fmt.Errorf("%s has more than one driver", a.Target)
		}
		driven[a.Target] = true
		if err := a.Value.check(); err != nil {
			return d, fmt.Errorf("%s: %w", a.Target, err)
		}
		reads := map[string]bool{}
		a.Value.names(reads)
		var names []string
		for n := range reads {
			if modes[n] != "in" {
				return d, fmt.Errorf("%s reads %s, which is not an input port", a.Target, n)
			}
			names = append(names, n)
		}
		sort.Strings(names)
		d.Assignments = append(d.Assignments, Assignment{Target: a.Target, Reads: names, expr: a.Value})
	}
	for n, m := range modes {
		if m == "out" && !driven[n] {
			return d, fmt.Errorf("output %s is never driven", n)
		}
	}
	return d, nil
}

// foldName returns the form under which VHDL compares n: basic identifiers
// ignore case, extended identifiers do not.
func foldName(n string) string {
	if strings.HasPrefix(n, `\`) {
		return n
	}
	return strings.ToLower(n)
}

func (e *logicExpr) check() error {
	for _, t := range e.Tail {
		if t.Op != e.Tail[0].Op {
			return fmt.Errorf("%s mixed with %s without parentheses", e.Tail[0].Op, t.Op)
		}
	}
	if err := e.Head.check(); err != nil {
		return err
	}
	for _, t := range e.Tail {
		if err := t.Right.check(); err != nil {
			return err
		}
	}
	return nil
}

func (f *factor) operand() *primary {
	if f.Not != nil {
		return f.Not
	}
	return f.Primary
}

func (f *factor) check() error {
	if g := f.operand().Group; g != nil {
		return g.check()
	}
	return nil
}

func (e *logicExpr) names(out map[string]bool) {
	e.Head.names(out)
	for _, t := range e.Tail {
		t.Right.names(out)
	}
}

func (f *factor) names(out map[string]bool) {
	p := f.operand()
	switch {
	case p.Group != nil:
		p.Group.names(out)
	case p.Name != "":
		out[p.Name] = true
	}
}

func (e *logicExpr) eval(values map[string]bool) (bool, error) {
	acc, err := e.Head.eval(values)
	if err != nil {
		return false, err
	}
	for _, t := range e.Tail {
		v, err := t.Right.eval(values)
		if err != nil {
			return false, err
		}
		switch t.Op {
		case "and":
			acc = acc && v
		case "or":
			acc = acc || v
		case "xor":
			acc = acc != v
		}
	}
	return acc, nil
}

func (f *factor) eval(values map[string]bool) (bool, error) {
	v, err := f.operand().eval(values)
	if f.Not != nil {
		v = !v
	}
	return v, err
}

func (p *primary) eval(values map[string]bool) (bool, error) {
	switch {
	case p.Group != nil:
		return p.Group.eval(values)
	case p.Lit != "":
		return p.Lit == "'1'", nil
	}
	v, ok := values[p.Name]
	if !ok {
		return false, fmt.Errorf("no value for %s", p.Name)
	}
	return v, nil
}
