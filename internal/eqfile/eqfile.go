// Package eqfile splits an equation file into one logical equation per entry.
//
// An equation starts on a line containing "=". Lines without "=" continue the
// previous equation. Blank lines, "//" line comments and "/* */" block
// comments are ignored.
package eqfile

import (
	"fmt"
	"io"
	"strings"
)

type Equation struct {
	Line int
	Text string
}

// Split reads r and returns its equations in file order.
func Split(r io.Reader) ([]Equation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return SplitString(string(data))
}

func SplitString(src string) ([]Equation, error) {
	text := stripComments(src)
	var eqs []Equation
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Contains(line, "=") {
			eqs = append(eqs, Equation{Line: i + 1, Text: line})
			continue
		}
		if len(eqs) == 0 {
			return nil, fmt.Errorf("line %d: continuation %q before any equation", i+1, strings.TrimSpace(line))
		}
		last := &eqs[len(eqs)-1]
		last.Text += " " + line
	}
	return eqs, nil
}

// Texts returns just the equation texts.
func Texts(eqs []Equation) []string {
	out := make([]string, len(eqs))
	for i, eq := range eqs {
		out[i] = eq.Text
	}
	return out
}

// stripComments blanks out comments, keeping newlines so line numbers hold.
func stripComments(s string) string {
	var out strings.Builder
	i := 0
	for i < len(s) {
		if i+1 < len(s) && s[i] == '/' && s[i+1] == '*' {
			i += 2
			for i+1 < len(s) && !(s[i] == '*' && s[i+1] == '/') {
				if s[i] == '\n' {
					out.WriteByte('\n')
				}
				i++
			}
			if i+1 < len(s) {
				i += 2
			} else {
				i = len(s)
			}
			continue
		}
		if i+1 < len(s) && s[i] == '/' && s[i+1] == '/' {
			i += 2
			for i < len(s) && s[i] != '\n' {
				i++
			}
			continue
		}
		out.WriteByte(s[i])
		i++
	}
	return out.String()
}
