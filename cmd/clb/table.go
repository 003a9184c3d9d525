package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pborges/clb/internal/truth"
)

var tableCmd = &cobra.Command{
	Use:   "table <file>",
	Short: "Prints the truth table of an equation file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minterms, _ := cmd.Flags().GetBool("minterms")
		cfg, err := loadConfig(args[0])
		if err != nil {
			return err
		}
		b, err := compileFile(args[0], cfg)
		if err != nil {
			return err
		}
		tbl, err := truth.Build(b)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !minterms {
			return tbl.Write(out)
		}
		for _, o := range tbl.Outputs {
			line, err := tbl.SumOfMinterms(o)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	tableCmd.Flags().BoolP("minterms", "m", false, "print each output as a sum of minterms")
	AddCommand(tableCmd)
}
