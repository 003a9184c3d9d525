package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func design(body string) string {
	return `library IEEE;
use IEEE.STD_LOGIC_1164.all;

entity m is
    port(
        A : in std_logic;
        \b[0]\ : in std_logic;
        Y : out std_logic
    );
end entity;

architecture a of m is
begin
` + body + `end architecture;
`
}

func TestParseVHDL(t *testing.T) {
	d, err := ParseVHDL(design("    Y <= (not A or '1') and not (\\b[0]\\ xor A);\n"))
	require.NoError(t, err)
	assert.Equal(t, "m", d.Entity)
	assert.Equal(t, "a", d.Architecture)
	require.Len(t, d.Assignments, 1)
	assert.Equal(t, []string{"A", `\b[0]\`}, d.Assignments[0].Reads)

	v, err := d.Assignments[0].Eval(map[string]bool{"A": true, `\b[0]\`: true})
	require.NoError(t, err)
	assert.True(t, v)
	v, err = d.Assignments[0].Eval(map[string]bool{"A": true, `\b[0]\`: false})
	require.NoError(t, err)
	assert.False(t, v)
	_, err = d.Assignments[0].Eval(map[string]bool{"A": true})
	assert.Error(t, err)
}

func TestParseVHDLPortNamesIgnoreCase(t *testing.T) {
	src := `library IEEE;
use IEEE.STD_LOGIC_1164.all;

entity m is
    port(
        Y : in std_logic;
        y : out std_logic
    );
end entity;

architecture a of m is
begin
    y <= not Y;
end architecture;
`
	_, err := ParseVHDL(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared twice")

	_, err = ParseVHDL(strings.Replace(strings.Replace(src, "Y : in", `\Y\ : in`, 1), "not Y", `not \Y\`, 1))
	assert.NoError(t, err)
}

func TestParseVHDLRejects(t *testing.T) {
	cases := map[string]string{
		"mixed operators": "Y <= A and A or A;\n",
		"double not":      "Y <= not not A;\n",
		"undriven output": "",
		"two drivers":     "Y <= A;\nY <= A;\n",
		"drives input":    "A <= A;\nY <= A;\n",
		"undeclared read": "Y <= C;\n",
		"missing semi":    "Y <= A\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseVHDL(design(body))
			assert.Error(t, err)
		})
	}
}
