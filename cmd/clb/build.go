package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pborges/clb/internal/vhdl"
)

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Compiles an equation file into a VHDL module",
	Long: `Compiles an equation file into a VHDL module. The output defaults to the
input path with a .vhd extension; "-o -" writes to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inPath := args[0]
		outPath, _ := cmd.Flags().GetString("output")
		entity, _ := cmd.Flags().GetString("entity")

		cfg, err := loadConfig(inPath)
		if err != nil {
			return err
		}
		b, err := compileFile(inPath, cfg)
		if err != nil {
			return err
		}
		text, err := vhdl.Module(cfg.VHDL(), entityName(entity, cfg, inPath), b)
		if err != nil {
			return err
		}

		if outPath == "-" {
			_, err := fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		}
		if outPath == "" {
			outPath = strings.TrimSuffix(inPath, filepath.Ext(inPath)) + ".vhd"
		}
		if err := os.WriteFile(outPath, []byte(text), 0644); err != nil {
			return err
		}
		slog.Info("wrote module", "path", outPath, "inputs", len(b.Inputs()), "outputs", len(b.Outputs()))
		return nil
	},
}

func init() {
	buildCmd.Flags().StringP("output", "o", "", "output VHDL file")
	buildCmd.Flags().StringP("entity", "n", "", "entity name (default: config entity or the input file name)")
	AddCommand(buildCmd)
}
