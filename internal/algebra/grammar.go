package algebra

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Operators, loosest first: ^ (XOR), + (OR), * or juxtaposition (AND),
// postfix ' (NOT). All binary operators are left-associative.

type xorExpr struct {
	Terms []*orExpr `@@ ( "^" @@ )*`
}

type orExpr struct {
	Terms []*andExpr `@@ ( "+" @@ )*`
}

type andExpr struct {
	Head *factor    `@@`
	Tail []*andTerm `@@*`
}

// andTerm is a right-hand AND operand, written after an explicit "*" or
// directly juxtaposed with the previous factor.
type andTerm struct {
	Explicit *factor `  "*" @@`
	Implicit *factor `| @@`
}

type factor struct {
	Operand *operand `@@`
	Nots    []string `( @"'" )*`
}

type operand struct {
	Leaf  *string  `  @(Ident | Const)`
	Group *xorExpr `| "(" @@ ")"`
}

const identChars = `[A-Za-z0-9_\[\]]+`

var identRe = regexp.MustCompile(`^` + identChars + `$`)

// IsSignalName reports whether s is usable as a signal: a run of letters,
// digits, underscores and brackets that is not a boolean literal.
func IsSignalName(s string) bool {
	return identRe.MatchString(s) && s != "0" && s != "1"
}

// Grammar parses algebra notation. A Grammar built with known signals only
// accepts those signals as leaves.
type Grammar struct {
	parser *participle.Parser[xorExpr]
	known  []string
}

var defaultGrammar = mustGrammar()

func mustGrammar() *Grammar {
	g, err := NewGrammar()
	if err != nil {
		panic(err)
	}
	return g
}

// NewGrammar builds a grammar. With no known signals any identifier is a
// leaf; otherwise only the listed signals are, and runs of identifier
// characters are split into the longest listed signals ("AB" is A AND B).
// The split is greedy and never backtracks: with A, AB and BC listed, "ABC"
// lexes as AB then C and is rejected even though A BC would fit.
func NewGrammar(known ...string) (*Grammar, error) {
	ident := identChars
	var names []string
	if len(known) > 0 {
		var err error
		names, err = normalizeKnown(known)
		if err != nil {
			return nil, err
		}
		quoted := make([]string, len(names))
		byLength := append([]string(nil), names...)
		sort.SliceStable(byLength, func(i, j int) bool { return len(byLength[i]) > len(byLength[j]) })
		for i, n := range byLength {
			quoted[i] = regexp.QuoteMeta(n)
		}
		ident = `(?:` + strings.Join(quoted, "|") + `)`
	}
	def, err := lexer.NewSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Ident", Pattern: ident},
		{Name: "Const", Pattern: `[01]`},
		{Name: "Punct", Pattern: `[*+^'()]`},
	})
	if err != nil {
		return nil, fmt.Errorf("building lexer: %w", err)
	}
	p, err := participle.Build[xorExpr](
		participle.Lexer(def),
		participle.Elide("Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("building grammar: %w", err)
	}
	return &Grammar{parser: p, known: names}, nil
}

func normalizeKnown(known []string) ([]string, error) {
	seen := make(map[string]bool, len(known))
	out := make([]string, 0, len(known))
	for _, k := range known {
		k = strings.TrimSpace(k)
		if !IsSignalName(k) {
			return nil, fmt.Errorf("invalid known signal %q", k)
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out, nil
}

// Known returns the grammar's allowed leaf signals, or nil when any
// identifier is accepted.
func (g *Grammar) Known() []string {
	return append([]string(nil), g.known...)
}

// Parse parses text with the unrestricted grammar.
func Parse(text string) (Expr, error) {
	return defaultGrammar.Parse(text)
}

// Parse converts algebra notation into an AST.
func (g *Grammar) Parse(text string) (Expr, error) {
	if strings.TrimSpace(text) == "" {
		return nil, invalid(text, "empty expression")
	}
	tree, err := g.parser.ParseString("", text)
	if err != nil {
		return nil, invalid(text, "%s", describe(err))
	}
	return tree.build(), nil
}

func describe(err error) string {
	var perr participle.Error
	if errors.As(err, &perr) {
		return fmt.Sprintf("column %d: %s", perr.Position().Column, perr.Message())
	}
	return err.Error()
}

func (x *xorExpr) build() Expr {
	if len(x.Terms) == 1 {
		return x.Terms[0].build()
	}
	terms := make([]Expr, len(x.Terms))
	for i, t := range x.Terms {
		terms[i] = t.build()
	}
	return ExprXor{Terms: terms}
}

func (o *orExpr) build() Expr {
	if len(o.Terms) == 1 {
		return o.Terms[0].build()
	}
	terms := make([]Expr, len(o.Terms))
	for i, t := range o.Terms {
		terms[i] = t.build()
	}
	return ExprOr{Terms: terms}
}

func (a *andExpr) build() Expr {
	head := a.Head.build()
	if len(a.Tail) == 0 {
		return head
	}
	terms := make([]Expr, 0, len(a.Tail)+1)
	terms = append(terms, head)
	for _, t := range a.Tail {
		f := t.Explicit
		if f == nil {
			f = t.Implicit
		}
		terms = append(terms, f.build())
	}
	return ExprAnd{Terms: terms}
}

func (f *factor) build() Expr {
	e := f.Operand.build()
	for range f.Nots {
		e = ExprNot{X: e}
	}
	return e
}

func (o *operand) build() Expr {
	if o.Group != nil {
		return o.Group.build()
	}
	switch *o.Leaf {
	case "0":
		return ExprConst{Value: false}
	case "1":
		return ExprConst{Value: true}
	default:
		return ExprIdent{Name: *o.Leaf}
	}
}
