package vhdl

import (
	"strings"

	"github.com/pborges/clb/internal/algebra"
)

// Expression renders an AST as a VHDL expression. Every n-ary node is
// parenthesized, so the result does not depend on VHDL's precedence rules
// (which also forbid mixing and/or/xor without parentheses).
func Expression(expr algebra.Expr) string {
	var buf strings.Builder
	render(&buf, expr)
	return buf.String()
}

func render(buf *strings.Builder, expr algebra.Expr) {
	switch e := expr.(type) {
	case algebra.ExprIdent:
		buf.WriteString(Identifier(e.Name))
	case algebra.ExprConst:
		if e.Value {
			buf.WriteString("'1'")
		} else {
			buf.WriteString("'0'")
		}
	case algebra.ExprNot:
		buf.WriteString("not ")
		// "not not x" is not a VHDL factor.
		if _, nested := e.X.(algebra.ExprNot); nested {
			buf.WriteByte('(')
			render(buf, e.X)
			buf.WriteByte(')')
			return
		}
		render(buf, e.X)
	case algebra.ExprAnd:
		renderTerms(buf, e.Terms, " and ")
	case algebra.ExprOr:
		renderTerms(buf, e.Terms, " or ")
	case algebra.ExprXor:
		renderTerms(buf, e.Terms, " xor ")
	}
}

func renderTerms(buf *strings.Builder, terms []algebra.Expr, op string) {
	buf.WriteByte('(')
	for i, t := range terms {
		if i > 0 {
			buf.WriteString(op)
		}
		render(buf, t)
	}
	buf.WriteByte(')')
}

// Equation renders eq as a concurrent signal assignment.
func Equation(eq *algebra.Equation) string {
	return Identifier(eq.Output) + " <= " + Expression(eq.Root()) + ";"
}
