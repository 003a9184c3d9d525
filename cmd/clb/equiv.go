package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pborges/clb/internal/algebra"
	"github.com/pborges/clb/internal/config"
	"github.com/pborges/clb/internal/verify"
)

var errNotEquivalent = errors.New("expressions are not equivalent")

var equivCmd = &cobra.Command{
	Use:   "equiv <expr> <expr>",
	Short: "Checks whether two expressions compute the same function",
	Long: `Checks whether two expressions compute the same function. When they
don't, prints an input assignment under which they differ and exits non-zero.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := algebra.NewGrammar(config.SplitList(knownFlag)...)
		if err != nil {
			return err
		}
		exprs := make([]algebra.Expr, 2)
		for i, text := range args {
			if exprs[i], err = g.Parse(text); err != nil {
				return err
			}
		}
		same, witness, err := verify.Equivalent(exprs[0], exprs[1])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if same {
			color.New(color.FgGreen).Fprintln(out, "equivalent")
			return nil
		}

		names := make([]string, 0, len(witness))
		for n := range witness {
			names = append(names, n)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, n := range names {
			parts[i] = fmt.Sprintf("%s=%d", n, bit(witness[n]))
		}
		color.New(color.FgYellow).Fprintln(out, "not equivalent")
		fmt.Fprintf(out, "  when %s\n", strings.Join(parts, " "))
		for _, e := range exprs {
			v, err := algebra.Evaluate(e, witness)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  %s = %d\n", algebra.Format(e), bit(v))
		}
		return errNotEquivalent
	},
}

func bit(v bool) int {
	if v {
		return 1
	}
	return 0
}

func init() {
	AddCommand(equivCmd)
}
