package verify

import (
	"fmt"

	"github.com/crillab/gophersat/bf"

	"github.com/pborges/clb/internal/algebra"
)

type Class int

const (
	Contingent Class = iota
	Tautology
	Contradiction
)

func (c Class) String() string {
	switch c {
	case Tautology:
		return "tautology"
	case Contradiction:
		return "contradiction"
	default:
		return "contingent"
	}
}

// Classify reports whether expr is true under every assignment, false under
// every assignment, or neither.
func Classify(expr algebra.Expr) Class {
	var enc encoder
	root := enc.encode(expr)
	if bf.Solve(bf.And(append(enc.defs, bf.Not(root))...)) == nil {
		return Tautology
	}
	if bf.Solve(bf.And(append(enc.defs, root)...)) == nil {
		return Contradiction
	}
	return Contingent
}

// encoder names every operator node with an auxiliary variable and defines
// it over its operands' variables, so no formula handed to the solver nests
// more than one operator deep.
type encoder struct {
	defs []bf.Formula
	n    int
}

func (enc *encoder) fresh() bf.Formula {
	enc.n++
	// '#' cannot occur in a signal name.
	return bf.Var(fmt.Sprintf("#%d", enc.n))
}

func (enc *encoder) define(f bf.Formula) bf.Formula {
	v := enc.fresh()
	enc.defs = append(enc.defs, bf.Eq(v, f))
	return v
}

func (enc *encoder) encode(expr algebra.Expr) bf.Formula {
	switch e := expr.(type) {
	case algebra.ExprIdent:
		return bf.Var(e.Name)
	case algebra.ExprConst:
		v := enc.fresh()
		if e.Value {
			enc.defs = append(enc.defs, v)
		} else {
			enc.defs = append(enc.defs, bf.Not(v))
		}
		return v
	case algebra.ExprNot:
		return enc.define(bf.Not(enc.encode(e.X)))
	case algebra.ExprAnd:
		return enc.define(bf.And(enc.encodeAll(e.Terms)...))
	case algebra.ExprOr:
		return enc.define(bf.Or(enc.encodeAll(e.Terms)...))
	case algebra.ExprXor:
		fs := enc.encodeAll(e.Terms)
		acc := fs[0]
		for _, f := range fs[1:] {
			acc = enc.define(bf.Xor(acc, f))
		}
		return acc
	}
	panic(fmt.Sprintf("verify: unexpected expression %T", expr))
}

func (enc *encoder) encodeAll(terms []algebra.Expr) []bf.Formula {
	fs := make([]bf.Formula, len(terms))
	for i, t := range terms {
		fs[i] = enc.encode(t)
	}
	return fs
}
