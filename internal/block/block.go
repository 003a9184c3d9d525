// Package block groups equations into a combinational logic block and derives
// its ports.
package block

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pborges/clb/internal/algebra"
	"github.com/pborges/clb/internal/eqfile"
)

// Block is an ordered set of equations with derived input and output ports.
// Inputs are in order of first appearance across the equations; outputs are in
// equation order.
type Block struct {
	equations []*algebra.Equation
	inputs    []string
	outputs   []string
	byOutput  map[string]*algebra.Equation
}

// NoEquations is the Text of the error New returns for an empty block.
const NoEquations = "<no equations>"

type options struct {
	known []string
}

type Option func(*options)

// WithKnownSignals restricts equation right-hand sides to the given signals.
func WithKnownSignals(names ...string) Option {
	return func(o *options) { o.known = append(o.known, names...) }
}

func grammarFor(opts []Option) (*algebra.Grammar, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return algebra.NewGrammar(o.known...)
}

// FromEquations parses every text and builds a block. The first parse error
// aborts construction.
func FromEquations(texts []string, opts ...Option) (*Block, error) {
	src := make([]eqfile.Equation, len(texts))
	for i, t := range texts {
		src[i] = eqfile.Equation{Text: t}
	}
	return FromSource(src, opts...)
}

// FromSource is FromEquations for equations read from a file; errors carry the
// equation's line.
func FromSource(src []eqfile.Equation, opts ...Option) (*Block, error) {
	g, err := grammarFor(opts)
	if err != nil {
		return nil, err
	}
	eqs := make([]*algebra.Equation, 0, len(src))
	for _, s := range src {
		eq, err := g.ParseEquation(s.Text)
		if err != nil {
			var ie *algebra.InvalidExpressionError
			if errors.As(err, &ie) {
				ie.Line = s.Line
			}
			slog.Warn("rejected equation", "line", s.Line, "text", s.Text, "err", err)
			return nil, err
		}
		eq.Line = s.Line
		eqs = append(eqs, eq)
	}
	return New(eqs)
}

// New validates eqs and derives the block's ports.
func New(eqs []*algebra.Equation) (*Block, error) {
	if len(eqs) == 0 {
		return nil, &algebra.InvalidExpressionError{Text: NoEquations, Reason: "logic block has no equations"}
	}
	b := &Block{
		equations: eqs,
		byOutput:  make(map[string]*algebra.Equation, len(eqs)),
	}
	for _, eq := range eqs {
		if _, exists := b.byOutput[eq.Output]; exists {
			return nil, &algebra.InvalidExpressionError{
				Text:   eq.Text,
				Line:   eq.Line,
				Reason: fmt.Sprintf("output %q already defined", eq.Output),
			}
		}
		b.byOutput[eq.Output] = eq
		b.outputs = append(b.outputs, eq.Output)
		slog.Debug("equation", "line", eq.Line, "output", eq.Output, "inputs", eq.Inputs())
	}

	seen := make(map[string]bool)
	var feedback []string
	for _, eq := range eqs {
		for _, in := range eq.Inputs() {
			if seen[in] {
				continue
			}
			seen[in] = true
			if _, isOutput := b.byOutput[in]; isOutput {
				feedback = append(feedback, in)
				continue
			}
			b.inputs = append(b.inputs, in)
		}
	}
	if len(feedback) > 0 {
		slog.Warn("combinational feedback", "signals", feedback)
		return nil, &algebra.CombinationalFeedbackError{Signals: feedback}
	}
	slog.Debug("logic block", "inputs", b.inputs, "outputs", b.outputs)
	return b, nil
}

func (b *Block) Equations() []*algebra.Equation {
	return append([]*algebra.Equation(nil), b.equations...)
}

func (b *Block) Inputs() []string { return append([]string(nil), b.inputs...) }

func (b *Block) Outputs() []string { return append([]string(nil), b.outputs...) }

// Equation returns the equation driving output.
func (b *Block) Equation(output string) (*algebra.Equation, bool) {
	eq, ok := b.byOutput[output]
	return eq, ok
}

// Evaluate computes every output under assignment, which must cover the
// block's inputs.
func (b *Block) Evaluate(assignment map[string]bool) (map[string]bool, error) {
	out := make(map[string]bool, len(b.equations))
	for _, eq := range b.equations {
		v, err := eq.Evaluate(assignment)
		if err != nil {
			return nil, fmt.Errorf("evaluating %s: %w", eq.Output, err)
		}
		out[eq.Output] = v
	}
	return out, nil
}
