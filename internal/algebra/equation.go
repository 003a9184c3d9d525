package algebra

import (
	"errors"
	"strings"
)

// Equation binds an expression to the output signal it drives.
type Equation struct {
	*Expression
	Output string
	Text   string
	Line   int
}

// ParseEquation parses "output = expression" with the unrestricted grammar,
// or with a grammar restricted to known when any are given.
func ParseEquation(text string, known ...string) (*Equation, error) {
	g := defaultGrammar
	if len(known) > 0 {
		var err error
		if g, err = NewGrammar(known...); err != nil {
			return nil, err
		}
	}
	return g.ParseEquation(text)
}

func (g *Grammar) ParseEquation(text string) (*Equation, error) {
	if n := strings.Count(text, "="); n != 1 {
		return nil, invalid(text, "expected exactly one '=', found %d", n)
	}
	lhs, rhs, _ := strings.Cut(text, "=")
	output := strings.TrimSpace(lhs)
	if !IsSignalName(output) {
		return nil, invalid(text, "invalid output signal %q", output)
	}
	root, err := g.Parse(rhs)
	if err != nil {
		// Report the whole equation, not just its right-hand side.
		var ie *InvalidExpressionError
		if errors.As(err, &ie) {
			ie.Text = text
		}
		return nil, err
	}
	return &Equation{Expression: NewExpression(root), Output: output, Text: text}, nil
}
