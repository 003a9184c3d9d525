package lint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pborges/clb/internal/block"
	"github.com/pborges/clb/internal/eqfile"
)

const noisy = `Y = in * d[0] + 2x
Z = a + A'
K = B + B'
bit = C
`

func compile(t *testing.T, src string) *block.Block {
	t.Helper()
	eqs, err := eqfile.SplitString(src)
	require.NoError(t, err)
	b, err := block.FromSource(eqs)
	require.NoError(t, err)
	return b
}

func rulesOf(vs []Violation) []string {
	var out []string
	for _, v := range vs {
		out = append(out, v.Rule+":"+v.Signal)
	}
	return out
}

func TestFacts(t *testing.T) {
	in := Facts("gate", compile(t, noisy), "case-collision")
	assert.Equal(t, "gate", in.Entity)
	assert.Equal(t, []string{"case-collision"}, in.Disabled)

	byName := map[string]Signal{}
	for _, s := range in.Signals {
		byName[s.Name] = s
	}
	assert.Equal(t, Signal{Name: "in", Kind: "input", VHDL: `\in\`, Line: 1, Reserved: true}, byName["in"])
	assert.Equal(t, Signal{Name: "C", Kind: "input", VHDL: "C", Line: 4, Basic: true}, byName["C"])
	assert.Equal(t, "tautology", byName["K"].Class)
	assert.Equal(t, "contingent", byName["Y"].Class)
	assert.Equal(t, "output", byName["bit"].Kind)
}

func TestEvaluate(t *testing.T) {
	ctx := context.Background()
	e, err := New(ctx)
	require.NoError(t, err)

	res, err := e.Evaluate(ctx, Facts("gate", compile(t, noisy)))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"bracketed-name:d[0]",
		"extended-identifier:2x",
		"reserved-word:in",
		"case-collision:a",
		"constant-output:K",
		"predefined-name:bit",
	}, rulesOf(res.Violations))
	assert.Equal(t, Summary{TotalViolations: 6, Errors: 1, Warnings: 3, Info: 2}, res.Summary)
	assert.True(t, res.HasErrors())

	for _, v := range res.Violations {
		if v.Rule == "constant-output" {
			assert.Equal(t, 3, v.Line)
			assert.Equal(t, "K is a tautology and always drives '1'", v.Message)
		}
	}
}

func TestEvaluateDisabled(t *testing.T) {
	ctx := context.Background()
	e, err := New(ctx)
	require.NoError(t, err)

	res, err := e.Evaluate(ctx, Facts("gate", compile(t, noisy), "case-collision", "bracketed-name", "extended-identifier"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"reserved-word:in",
		"constant-output:K",
		"predefined-name:bit",
	}, rulesOf(res.Violations))
	assert.False(t, res.HasErrors())
	assert.Equal(t, 3, res.Summary.Warnings)
}

func TestEvaluateClean(t *testing.T) {
	ctx := context.Background()
	e, err := New(ctx)
	require.NoError(t, err)

	res, err := e.Evaluate(ctx, Facts("adder", compile(t, "S = A ^ B\nC = A*B\n")))
	require.NoError(t, err)
	assert.Empty(t, res.Violations)
	assert.Equal(t, Summary{}, res.Summary)
}

func TestEntityCollision(t *testing.T) {
	ctx := context.Background()
	e, err := New(ctx)
	require.NoError(t, err)

	res, err := e.Evaluate(ctx, Facts("y", compile(t, "Y = A*0\n")))
	require.NoError(t, err)
	assert.Equal(t, []string{"constant-output:Y", "entity-collision:Y"}, rulesOf(res.Violations))
	assert.Equal(t, 1, res.Summary.Errors)
}

func TestExtraPolicyDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "short.rego"), []byte(`package clb.lint

violations contains v if {
	some s in input.signals
	count(s.name) == 1
	v := {"rule": "short-name", "severity": "info", "signal": s.name, "line": s.line, "message": "short"}
}
`), 0o644))

	ctx := context.Background()
	e, err := New(ctx, dir)
	require.NoError(t, err)
	res, err := e.Evaluate(ctx, Facts("inv", compile(t, "Y = A'\n")))
	require.NoError(t, err)
	assert.Equal(t, []string{"short-name:A", "short-name:Y"}, rulesOf(res.Violations))

	_, err = New(ctx, t.TempDir())
	assert.Error(t, err)
}

func TestBadPolicy(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.rego"), []byte("package clb.lint\n\nviolations contains v if {\n"), 0o644))
	_, err := New(context.Background(), dir)
	assert.Error(t, err)
}
