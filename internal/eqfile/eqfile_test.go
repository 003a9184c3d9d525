package eqfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitContinuationLines(t *testing.T) {
	src := "Y = A*B\n" +
		"  + C\n" +
		"\n" +
		"Z = A'\n" +
		"  ^ B\n" +
		"  ^ C\n"
	eqs, err := Split(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []Equation{
		{Line: 1, Text: "Y = A*B   + C"},
		{Line: 4, Text: "Z = A'   ^ B   ^ C"},
	}, eqs)
	assert.Equal(t, []string{"Y = A*B   + C", "Z = A'   ^ B   ^ C"}, Texts(eqs))
}

func TestSplitComments(t *testing.T) {
	src := "// full adder\n" +
		"S = A ^ B ^ Cin // sum\n" +
		"/* carry\n" +
		"   out */\n" +
		"Cout = A*B + Cin*(A ^ B)\n"
	eqs, err := SplitString(src)
	require.NoError(t, err)
	require.Len(t, eqs, 2)
	assert.Equal(t, 2, eqs[0].Line)
	assert.Equal(t, "S = A ^ B ^ Cin ", eqs[0].Text)
	assert.Equal(t, 5, eqs[1].Line)
}

func TestSplitCRLF(t *testing.T) {
	eqs, err := SplitString("Y = A\r\n + B\r\n")
	require.NoError(t, err)
	assert.Equal(t, []Equation{{Line: 1, Text: "Y = A  + B"}}, eqs)
}

func TestSplitLeadingContinuation(t *testing.T) {
	_, err := SplitString("\n  A + B\nY = C\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestSplitEmpty(t *testing.T) {
	eqs, err := SplitString("\n\n// nothing\n")
	require.NoError(t, err)
	assert.Empty(t, eqs)
}
