// Package lint checks a compiled logic block against naming and constant
// output rules written in Rego.
package lint

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/pborges/clb/internal/block"
	"github.com/pborges/clb/internal/verify"
	"github.com/pborges/clb/internal/vhdl"
)

//go:embed policy/*.rego
var builtin embed.FS

// Rules lists the built-in rule names.
var Rules = []string{
	"bracketed-name",
	"case-collision",
	"constant-output",
	"entity-collision",
	"extended-identifier",
	"predefined-name",
	"reserved-word",
}

// Engine evaluates lint policies against block facts
type Engine struct {
	violations rego.PreparedEvalQuery
	summary    rego.PreparedEvalQuery
}

type Violation struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Signal   string `json:"signal"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
}

type Result struct {
	Violations []Violation
	Summary    Summary
}

type Summary struct {
	TotalViolations int `json:"total_violations"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Info            int `json:"info"`
}

// HasErrors reports whether any error-severity rule fired.
func (r *Result) HasErrors() bool { return r.Summary.Errors > 0 }

// Input is the data structure passed to OPA
type Input struct {
	Entity   string   `json:"entity"`
	Signals  []Signal `json:"signals"`
	Disabled []string `json:"disabled"`
}

type Signal struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	VHDL     string `json:"vhdl"`
	Line     int    `json:"line"`
	Basic    bool   `json:"basic"`
	Reserved bool   `json:"reserved"`
	// Class is the constant classification of an output's equation.
	Class    string `json:"class,omitempty"`
}

// Facts extracts the lint input for b compiled as entity. Inputs carry the
// line of the first equation that reads them.
func Facts(entity string, b *block.Block, disabled ...string) Input {
	in := Input{Entity: entity, Disabled: append([]string{}, disabled...)}
	lines := make(map[string]int)
	for _, eq := range b.Equations() {
		for _, s := range eq.Inputs() {
			if _, ok := lines[s]; !ok {
				lines[s] = eq.Line
			}
		}
	}
	for _, s := range b.Inputs() {
		in.Signals = append(in.Signals, signal(s, "input", lines[s]))
	}
	for _, s := range b.Outputs() {
		eq, _ := b.Equation(s)
		sig := signal(s, "output", eq.Line)
		sig.Class = verify.Classify(eq.Root()).String()
		in.Signals = append(in.Signals, sig)
	}
	return in
}

func signal(name, kind string, line int) Signal {
	return Signal{
		Name:     name,
		Kind:     kind,
		VHDL:     vhdl.Identifier(name),
		Line:     line,
		Basic:    vhdl.IsBasicIdentifier(name),
		Reserved: vhdl.IsReserved(name),
	}
}

// New prepares the built-in policies plus any *.rego files found in
// policyDirs. Extra policies must be in package clb.lint and add to
// violations.
func New(ctx context.Context, policyDirs ...string) (*Engine, error) {
	var modules []func(*rego.Rego)
	err := fs.WalkDir(builtin, "policy", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := builtin.ReadFile(path)
		if err != nil {
			return err
		}
		modules = append(modules, rego.Module(path, string(content)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading built-in policies: %w", err)
	}
	for _, dir := range policyDirs {
		files, err := filepath.Glob(filepath.Join(dir, "*.rego"))
		if err != nil {
			return nil, fmt.Errorf("finding policy files: %w", err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no policy files found in %s", dir)
		}
		for _, f := range files {
			content, err := os.ReadFile(f)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", f, err)
			}
			modules = append(modules, rego.Module(f, string(content)))
		}
	}

	e := &Engine{}
	opts := append(modules, rego.Query("data.clb.lint.all_violations"))
	if e.violations, err = rego.New(opts...).PrepareForEval(ctx); err != nil {
		return nil, fmt.Errorf("preparing violations query: %w", err)
	}
	opts = append(modules[:len(modules):len(modules)], rego.Query("data.clb.lint.summary"))
	if e.summary, err = rego.New(opts...).PrepareForEval(ctx); err != nil {
		return nil, fmt.Errorf("preparing summary query: %w", err)
	}
	return e, nil
}

// Evaluate runs the policies against input. Violations are ordered by line,
// then rule, then signal.
func (e *Engine) Evaluate(ctx context.Context, input Input) (*Result, error) {
	inputMap, err := structToMap(input)
	if err != nil {
		return nil, fmt.Errorf("converting input: %w", err)
	}

	result := &Result{}
	rs, err := e.violations.Eval(ctx, rego.EvalInput(inputMap))
	if err != nil {
		return nil, fmt.Errorf("evaluating violations: %w", err)
	}
	if len(rs) > 0 && len(rs[0].Expressions) > 0 {
		vs, _ := rs[0].Expressions[0].Value.([]interface{})
		for _, v := range vs {
			vmap, ok := v.(map[string]interface{})
			if !ok {
				continue
			}
			result.Violations = append(result.Violations, Violation{
				Rule:     getString(vmap, "rule"),
				Severity: getString(vmap, "severity"),
				Signal:   getString(vmap, "signal"),
				Line:     getInt(vmap, "line"),
				Message:  getString(vmap, "message"),
			})
		}
	}
	sort.SliceStable(result.Violations, func(i, j int) bool {
		a, b := result.Violations[i], result.Violations[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		return a.Signal < b.Signal
	})

	rs, err = e.summary.Eval(ctx, rego.EvalInput(inputMap))
	if err != nil {
		return nil, fmt.Errorf("evaluating summary: %w", err)
	}
	if len(rs) > 0 && len(rs[0].Expressions) > 0 {
		if smap, ok := rs[0].Expressions[0].Value.(map[string]interface{}); ok {
			result.Summary = Summary{
				TotalViolations: getInt(smap, "total_violations"),
				Errors:          getInt(smap, "errors"),
				Warnings:        getInt(smap, "warnings"),
				Info:            getInt(smap, "info"),
			}
		}
	}
	return result, nil
}

func structToMap(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var result map[string]interface{}
	err = json.Unmarshal(data, &result)
	return result, err
}

func getString(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func getInt(m map[string]interface{}, key string) int {
	switch n := m[key].(type) {
	case int:
		return n
	case float64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	}
	return 0
}
