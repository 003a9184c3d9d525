// Package verify answers satisfiability questions about expressions:
// whether two expressions compute the same function, and whether an
// expression is constant.
package verify

import (
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/pborges/clb/internal/algebra"
)

// Equivalent reports whether a and b agree under every assignment of their
// signals. When they don't, the returned assignment is a witness: a and b
// evaluate differently under it.
func Equivalent(a, b algebra.Expr) (bool, map[string]bool, error) {
	names := union(algebra.Signals(a), algebra.Signals(b))
	c := logic.NewC()
	ins := make(map[string]z.Lit, len(names))
	for _, n := range names {
		ins[n] = c.Lit()
	}
	miter := c.Xor(circuit(c, a, ins), circuit(c, b, ins))

	switch miter {
	case c.F:
		return true, nil, nil
	case c.T:
		// Structurally different everywhere, so any assignment is a witness.
		witness := make(map[string]bool, len(names))
		for _, n := range names {
			witness[n] = false
		}
		return false, witness, nil
	}

	g := gini.New()
	c.ToCnf(g)
	g.Add(c.T)
	g.Add(z.LitNull)
	g.Add(miter)
	g.Add(z.LitNull)
	switch g.Solve() {
	case 1:
	case -1:
		return true, nil, nil
	default:
		return false, nil, fmt.Errorf("equivalence check did not terminate")
	}
	witness := make(map[string]bool, len(names))
	for _, n := range names {
		// Inputs the solver never saw are unconstrained.
		witness[n] = ins[n].Var() <= g.MaxVar() && g.Value(ins[n])
	}
	return false, witness, nil
}

func circuit(c *logic.C, expr algebra.Expr, ins map[string]z.Lit) z.Lit {
	switch e := expr.(type) {
	case algebra.ExprIdent:
		return ins[e.Name]
	case algebra.ExprConst:
		if e.Value {
			return c.T
		}
		return c.F
	case algebra.ExprNot:
		return circuit(c, e.X, ins).Not()
	case algebra.ExprAnd:
		return c.Ands(circuits(c, e.Terms, ins)...)
	case algebra.ExprOr:
		return c.Ors(circuits(c, e.Terms, ins)...)
	case algebra.ExprXor:
		ms := circuits(c, e.Terms, ins)
		acc := ms[0]
		for _, m := range ms[1:] {
			acc = c.Xor(acc, m)
		}
		return acc
	}
	panic(fmt.Sprintf("verify: unexpected expression %T", expr))
}

func circuits(c *logic.C, terms []algebra.Expr, ins map[string]z.Lit) []z.Lit {
	ms := make([]z.Lit, len(terms))
	for i, t := range terms {
		ms[i] = circuit(c, t, ins)
	}
	return ms
}

func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, n := range append(append([]string(nil), a...), b...) {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
