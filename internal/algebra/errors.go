package algebra

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnassignedSignal is returned by Evaluate when the assignment has no
// value for a signal the expression reads.
var ErrUnassignedSignal = errors.New("signal has no assigned value")

// InvalidExpressionError reports text that is not a well-formed expression,
// equation or logic block. Text is always the original offending input.
type InvalidExpressionError struct {
	Text   string
	Line   int
	Reason string
}

func (e *InvalidExpressionError) Error() string {
	var buf strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&buf, "line %d: ", e.Line)
	}
	fmt.Fprintf(&buf, "couldn't figure out what you meant by %q", e.Text)
	if e.Reason != "" {
		buf.WriteString(": ")
		buf.WriteString(e.Reason)
	}
	return buf.String()
}

func invalid(text, format string, args ...any) *InvalidExpressionError {
	return &InvalidExpressionError{Text: text, Reason: fmt.Sprintf(format, args...)}
}

// CombinationalFeedbackError reports signals that a logic block both drives
// and reads. It unwraps to an *InvalidExpressionError.
type CombinationalFeedbackError struct {
	Signals []string
}

func (e *CombinationalFeedbackError) Error() string {
	return fmt.Sprintf("cannot use a signal as both an output and an input: %s", strings.Join(e.Signals, ", "))
}

func (e *CombinationalFeedbackError) Unwrap() error {
	return &InvalidExpressionError{
		Text:   strings.Join(e.Signals, ", "),
		Reason: "combinational feedback",
	}
}
