package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pborges/clb"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the clb version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), clb.Version())
	},
}

func init() {
	AddCommand(versionCmd)
}
