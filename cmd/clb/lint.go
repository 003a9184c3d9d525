package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pborges/clb/internal/lint"
)

var errLintFailed = errors.New("lint found errors")

var lintCmd = &cobra.Command{
	Use:   "lint <file>",
	Short: "Checks an equation file for names and outputs that need attention",
	Long: `Checks an equation file against the built-in rules (` + fmt.Sprint(lint.Rules) + `)
and any policies in the config's lint.policyDirs. Exits non-zero if an
error-severity rule fires.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inPath := args[0]
		entity, _ := cmd.Flags().GetString("entity")
		cfg, err := loadConfig(inPath)
		if err != nil {
			return err
		}
		b, err := compileFile(inPath, cfg)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		engine, err := lint.New(ctx, cfg.Lint.PolicyDirs...)
		if err != nil {
			return err
		}
		res, err := engine.Evaluate(ctx, lint.Facts(entityName(entity, cfg, inPath), b, cfg.DisabledRules()...))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, v := range res.Violations {
			fmt.Fprintf(out, "%s:%d: %s %s [%s]\n", inPath, v.Line, severity(v.Severity), v.Message, v.Rule)
		}
		s := res.Summary
		fmt.Fprintf(out, "%d problems (%d errors, %d warnings, %d info)\n", s.TotalViolations, s.Errors, s.Warnings, s.Info)
		if res.HasErrors() {
			return errLintFailed
		}
		return nil
	},
}

func severity(s string) string {
	switch s {
	case "error":
		return color.RedString(s + ":")
	case "warning":
		return color.YellowString(s + ":")
	default:
		return color.BlueString(s + ":")
	}
}

func init() {
	lintCmd.Flags().StringP("entity", "n", "", "entity name (default: config entity or the input file name)")
	AddCommand(lintCmd)
}
