package algebra

import "fmt"

// Expression is a parsed AST together with the signals it reads.
type Expression struct {
	root   Expr
	inputs []string
}

// NewExpression wraps root. The inputs are derived from the tree, so signals
// that were allowed but never used do not appear.
func NewExpression(root Expr) *Expression {
	return &Expression{root: root, inputs: Signals(root)}
}

// ParseExpression parses text with the unrestricted grammar, or with a
// grammar restricted to known when any are given.
func ParseExpression(text string, known ...string) (*Expression, error) {
	g := defaultGrammar
	if len(known) > 0 {
		var err error
		if g, err = NewGrammar(known...); err != nil {
			return nil, err
		}
	}
	return g.ParseExpression(text)
}

func (g *Grammar) ParseExpression(text string) (*Expression, error) {
	root, err := g.Parse(text)
	if err != nil {
		return nil, err
	}
	return NewExpression(root), nil
}

func (e *Expression) Root() Expr { return e.root }

// Inputs returns the referenced signals in order of first appearance.
func (e *Expression) Inputs() []string {
	return append([]string(nil), e.inputs...)
}

func (e *Expression) Uses(signal string) bool {
	for _, in := range e.inputs {
		if in == signal {
			return true
		}
	}
	return false
}

func (e *Expression) String() string { return Format(e.root) }

// Evaluate computes the expression under assignment, which must cover every
// input signal.
func (e *Expression) Evaluate(assignment map[string]bool) (bool, error) {
	return Evaluate(e.root, assignment)
}

// Evaluate reduces expr under assignment.
func Evaluate(expr Expr, assignment map[string]bool) (bool, error) {
	switch e := expr.(type) {
	case ExprConst:
		return e.Value, nil
	case ExprIdent:
		v, ok := assignment[e.Name]
		if !ok {
			return false, fmt.Errorf("%w: %q", ErrUnassignedSignal, e.Name)
		}
		return v, nil
	case ExprNot:
		v, err := Evaluate(e.X, assignment)
		return !v, err
	case ExprAnd:
		return fold(e.Terms, assignment, func(a, b bool) bool { return a && b })
	case ExprOr:
		return fold(e.Terms, assignment, func(a, b bool) bool { return a || b })
	case ExprXor:
		return fold(e.Terms, assignment, func(a, b bool) bool { return a != b })
	default:
		return false, fmt.Errorf("unsupported expression %T", expr)
	}
}

func fold(terms []Expr, assignment map[string]bool, op func(a, b bool) bool) (bool, error) {
	var acc bool
	for i, t := range terms {
		v, err := Evaluate(t, assignment)
		if err != nil {
			return false, err
		}
		if i == 0 {
			acc = v
			continue
		}
		acc = op(acc, v)
	}
	return acc, nil
}
