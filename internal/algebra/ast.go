package algebra

import "strings"

// Expr AST

type Expr interface{ isExpr() }

type ExprIdent struct{ Name string }

func (ExprIdent) isExpr() {}

type ExprConst struct{ Value bool }

func (ExprConst) isExpr() {}

type ExprNot struct{ X Expr }

func (ExprNot) isExpr() {}

// ExprAnd, ExprOr and ExprXor hold a left-associative chain of at least two
// operands joined by the same operator.

type ExprAnd struct{ Terms []Expr }

func (ExprAnd) isExpr() {}

type ExprOr struct{ Terms []Expr }

func (ExprOr) isExpr() {}

type ExprXor struct{ Terms []Expr }

func (ExprXor) isExpr() {}

// Signals returns the signal names referenced by expr in left-to-right order
// of first appearance. Literals are not signals.
func Signals(expr Expr) []string {
	var out []string
	seen := make(map[string]bool)
	var walk func(Expr)
	walk = func(e Expr) {
		switch e := e.(type) {
		case ExprIdent:
			if !seen[e.Name] {
				seen[e.Name] = true
				out = append(out, e.Name)
			}
		case ExprConst:
		case ExprNot:
			walk(e.X)
		case ExprAnd:
			for _, t := range e.Terms {
				walk(t)
			}
		case ExprOr:
			for _, t := range e.Terms {
				walk(t)
			}
		case ExprXor:
			for _, t := range e.Terms {
				walk(t)
			}
		}
	}
	walk(expr)
	return out
}

// Format renders expr back into algebra notation. Every n-ary node is
// parenthesized, so the result parses to the same tree.
func Format(expr Expr) string {
	var buf strings.Builder
	format(&buf, expr)
	return buf.String()
}

func format(buf *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case ExprIdent:
		buf.WriteString(e.Name)
	case ExprConst:
		if e.Value {
			buf.WriteByte('1')
		} else {
			buf.WriteByte('0')
		}
	case ExprNot:
		format(buf, e.X)
		buf.WriteByte('\'')
	case ExprAnd:
		formatTerms(buf, e.Terms, "*")
	case ExprOr:
		formatTerms(buf, e.Terms, " + ")
	case ExprXor:
		formatTerms(buf, e.Terms, " ^ ")
	}
}

func formatTerms(buf *strings.Builder, terms []Expr, op string) {
	buf.WriteByte('(')
	for i, t := range terms {
		if i > 0 {
			buf.WriteString(op)
		}
		format(buf, t)
	}
	buf.WriteByte(')')
}
