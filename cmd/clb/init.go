package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pborges/clb/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Writes a default " + config.FileName + " in the current directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(config.FileName); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
		}
		if err := config.DefaultConfig().Save(config.FileName); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "wrote", config.FileName)
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing file")
	AddCommand(initCmd)
}
