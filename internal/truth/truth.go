// Package truth enumerates the truth table of a logic block.
package truth

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pborges/clb/internal/block"
)

// MaxInputs bounds the table at 2^20 rows.
const MaxInputs = 20

// Row is one input combination. Minterm encodes the inputs with the first
// input as the most significant bit.
type Row struct {
	Minterm uint64
	Inputs  []bool
	Outputs []bool
}

type Table struct {
	Inputs  []string
	Outputs []string
	Rows    []Row
}

// Build evaluates b under every input combination, in minterm order.
func Build(b *block.Block) (*Table, error) {
	t := &Table{Inputs: b.Inputs(), Outputs: b.Outputs()}
	n := len(t.Inputs)
	if n > MaxInputs {
		return nil, fmt.Errorf("truth table: %d inputs exceeds the limit of %d", n, MaxInputs)
	}
	t.Rows = make([]Row, 0, 1<<n)
	assignment := make(map[string]bool, n)
	for m := uint64(0); m < uint64(1)<<n; m++ {
		row := Row{Minterm: m, Inputs: decode(m, n)}
		for i, name := range t.Inputs {
			assignment[name] = row.Inputs[i]
		}
		values, err := b.Evaluate(assignment)
		if err != nil {
			return nil, fmt.Errorf("truth table: minterm %d: %w", m, err)
		}
		row.Outputs = make([]bool, len(t.Outputs))
		for i, out := range t.Outputs {
			row.Outputs[i] = values[out]
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func decode(m uint64, n int) []bool {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = m&(uint64(1)<<(n-1-i)) != 0
	}
	return bits
}

// Minterms returns the rows for which output is true.
func (t *Table) Minterms(output string) ([]uint64, error) {
	col := -1
	for i, o := range t.Outputs {
		if o == output {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("no output %q", output)
	}
	var on []uint64
	for _, r := range t.Rows {
		if r.Outputs[col] {
			on = append(on, r.Minterm)
		}
	}
	return on, nil
}

// SumOfMinterms renders output's on-set as "Y = m(1, 3)".
func (t *Table) SumOfMinterms(output string) (string, error) {
	on, err := t.Minterms(output)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(on))
	for i, m := range on {
		parts[i] = fmt.Sprint(m)
	}
	return fmt.Sprintf("%s = m(%s)", output, strings.Join(parts, ", ")), nil
}

// Write prints the table as aligned columns, inputs and outputs separated by
// a "|" column.
func (t *Table) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	header := append(append(append([]string(nil), t.Inputs...), "|"), t.Outputs...)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range t.Rows {
		cells := make([]string, 0, len(header))
		for _, v := range r.Inputs {
			cells = append(cells, bit(v))
		}
		cells = append(cells, "|")
		for _, v := range r.Outputs {
			cells = append(cells, bit(v))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func (t *Table) String() string {
	var buf strings.Builder
	_ = t.Write(&buf)
	return buf.String()
}

func bit(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
