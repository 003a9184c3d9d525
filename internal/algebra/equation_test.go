package algebra

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEquation(t *testing.T) {
	eq, err := ParseEquation("  Y = A*B + C")
	require.NoError(t, err)
	assert.Equal(t, "Y", eq.Output)
	assert.Equal(t, []string{"A", "B", "C"}, eq.Inputs())
	assert.Equal(t, "  Y = A*B + C", eq.Text)
}

func TestParseEquationRejects(t *testing.T) {
	for _, text := range []string{
		"A = B = C",
		"Y A*B",
		"= A",
		"Y Z = A",
		"1 = A",
		"Y = ",
		"Y = A**B",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseEquation(text)
			var ie *InvalidExpressionError
			require.True(t, errors.As(err, &ie), "got %v", err)
			assert.Equal(t, text, ie.Text)
		})
	}
}

func TestParseEquationKnownSignals(t *testing.T) {
	eq, err := ParseEquation("Y = AB'", "A", "B")
	require.NoError(t, err)
	assert.Equal(t, ExprAnd{Terms: []Expr{id("A"), ExprNot{X: id("B")}}}, eq.Root())

	_, err = ParseEquation("Y = AC", "A", "B")
	assert.Error(t, err)
}

func TestFeedbackErrorIsInvalidExpression(t *testing.T) {
	var err error = &CombinationalFeedbackError{Signals: []string{"Y"}}
	var ie *InvalidExpressionError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "Y", ie.Text)
	assert.Contains(t, err.Error(), "Y")
}
