package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pborges/clb/internal/config"
	"github.com/pborges/clb/internal/testutil"
)

// run executes the CLI in a fresh working directory state, resetting flags
// left over from earlier runs.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	verbose, configPath, knownFlag = false, "", ""
	color.NoColor = true
	var reset func(*cobra.Command)
	reset = func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func workspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

const adder = `// full adder
S    = A ^ B ^ Cin
Cout = A*B
     + Cin*(A ^ B)
`

func TestBuild(t *testing.T) {
	dir := workspace(t, map[string]string{"full-adder.eq": adder})
	_, err := run(t, "build", "full-adder.eq")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "full-adder.vhd"))
	require.NoError(t, err)
	d, err := testutil.ParseVHDL(string(data))
	require.NoError(t, err, string(data))
	assert.Equal(t, "full_adder", d.Entity)
	require.Len(t, d.Assignments, 2)
	assert.Equal(t, "Cout", d.Assignments[1].Target)
	assert.Contains(t, string(data), "-- Generated by clb. Do not edit.\n")
}

func TestBuildToStdoutWithOptions(t *testing.T) {
	workspace(t, map[string]string{
		"gate.eq":  "Y = AB + C\n",
		"clb.json": `{"architecture": "rtl", "portOrder": "sorted", "header": []}`,
	})
	out, err := run(t, "build", "gate.eq", "-o", "-", "-n", "my_gate", "--known", "A,B,C")
	require.NoError(t, err)
	d, err := testutil.ParseVHDL(out)
	require.NoError(t, err, out)
	assert.Equal(t, "my_gate", d.Entity)
	assert.Equal(t, "rtl", d.Architecture)
	assert.Contains(t, out, "Y <= ((A and B) or C);")
	assert.NotContains(t, out, "--")
}

func TestBuildErrors(t *testing.T) {
	workspace(t, map[string]string{
		"feedback.eq": "Y = A + Z\nZ = Y\n",
		"bad.eq":      "Y = A +\n",
		"empty.eq":    "// nothing\n",
		"folded.eq":   "y = Y'\n",
	})
	_, err := run(t, "build", "feedback.eq")
	assert.ErrorContains(t, err, "cannot use a signal as both an output and an input")

	_, err = run(t, "build", "bad.eq")
	assert.ErrorContains(t, err, "bad.eq: line 1:")

	_, err = run(t, "build", "empty.eq")
	assert.ErrorContains(t, err, "no equations")

	_, err = run(t, "build", "folded.eq")
	assert.ErrorContains(t, err, "cannot use a signal as both an output and an input: Y")

	_, err = run(t, "build", "missing.eq")
	assert.Error(t, err)
}

func TestTable(t *testing.T) {
	workspace(t, map[string]string{"and.eq": "Y = A*B\n"})
	out, err := run(t, "table", "and.eq")
	require.NoError(t, err)
	assert.Equal(t, "A B | Y\n0 0 | 0\n0 1 | 0\n1 0 | 0\n1 1 | 1\n", out)

	out, err = run(t, "table", "and.eq", "--minterms")
	require.NoError(t, err)
	assert.Equal(t, "Y = m(3)\n", out)
}

func TestEquiv(t *testing.T) {
	workspace(t, nil)
	out, err := run(t, "equiv", "A*B + C", "(A B) + C")
	require.NoError(t, err)
	assert.Equal(t, "equivalent\n", out)

	out, err = run(t, "equiv", "A ^ B", "A + B")
	assert.ErrorIs(t, err, errNotEquivalent)
	assert.Equal(t, "not equivalent\n  when A=1 B=1\n  (A ^ B) = 0\n  (A + B) = 1\n", out)

	_, err = run(t, "equiv", "A +", "A")
	assert.Error(t, err)
}

func TestLint(t *testing.T) {
	workspace(t, map[string]string{
		"clean.eq": "Y = A*B\n",
		"noisy.eq": "Y = in + d[0]\nZ = a + A\n",
	})
	out, err := run(t, "lint", "clean.eq")
	require.NoError(t, err)
	assert.Equal(t, "0 problems (0 errors, 0 warnings, 0 info)\n", out)

	out, err = run(t, "lint", "noisy.eq")
	assert.ErrorIs(t, err, errLintFailed)
	assert.Contains(t, out, "noisy.eq:1: warning: in is a VHDL reserved word and is written as \\in\\ [reserved-word]")
	assert.Contains(t, out, "noisy.eq:2: error: A and a are the same VHDL identifier [case-collision]")
	assert.Contains(t, out, "3 problems (1 errors, 1 warnings, 1 info)")
}

func TestLintRulesFromConfig(t *testing.T) {
	workspace(t, map[string]string{
		"noisy.eq": "Z = a + A\n",
		"clb.json": `{"lint": {"rules": {"case-collision": "off"}}}`,
	})
	out, err := run(t, "lint", "noisy.eq")
	require.NoError(t, err)
	assert.Equal(t, "0 problems (0 errors, 0 warnings, 0 info)\n", out)
}

func TestInit(t *testing.T) {
	dir := workspace(t, nil)
	out, err := run(t, "init")
	require.NoError(t, err)
	assert.Equal(t, "wrote clb.json\n", out)

	cfg, err := config.LoadFile(filepath.Join(dir, "clb.json"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	_, err = run(t, "init")
	assert.Error(t, err)
	_, err = run(t, "init", "--force")
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "0.1.0\n", out)
}

func TestEntityFromPath(t *testing.T) {
	cases := map[string]string{
		"adder.eq":          "adder",
		"dir/full-adder.eq": "full_adder",
		"7seg.eq":           "e_7seg",
		"--x--y--.eq":       "x_y",
		"and.eq":            "e_and",
		"___.eq":            "logic_block",
	}
	for in, want := range cases {
		assert.Equal(t, want, entityFromPath(in), in)
	}
}
