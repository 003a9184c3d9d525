package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pborges/clb/internal/block"
	"github.com/pborges/clb/internal/config"
	"github.com/pborges/clb/internal/eqfile"
	"github.com/pborges/clb/internal/vhdl"
)

var (
	verbose    bool
	configPath string
	knownFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "clb",
	Short: "clb compiles Boolean-algebra equations into VHDL",
	Long: `clb translates equations such as "Y = A*B + C'" into a VHDL entity and
architecture describing a block of combinational logic.

Operators, loosest first: ^ (xor), + (or), * or juxtaposition (and),
postfix ' (not). 0 and 1 are constants.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(NewPrettyHandler(os.Stderr, PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{Level: level},
		})))
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: clb.json, .clb.json or ~/.config/clb/config.json)")
	rootCmd.PersistentFlags().StringVar(&knownFlag, "known", "", "comma separated list of known signals (overrides the config)")
}

// AddCommand allows adding subcommands from other files.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// loadConfig reads --config, or searches next to input and the working
// directory.
func loadConfig(input string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		if err := config.LoadEnv(".env"); err != nil {
			return nil, err
		}
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load(filepath.Dir(input))
	}
	if err != nil {
		return nil, err
	}
	if knownFlag != "" {
		cfg.KnownSignals = config.SplitList(knownFlag)
	}
	slog.Debug("config", "architecture", cfg.Architecture, "portOrder", cfg.PortOrder, "known", cfg.KnownSignals)
	return cfg, nil
}

// compileFile reads an equation file and builds its logic block.
func compileFile(path string, cfg *config.Config) (*block.Block, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	eqs, err := eqfile.Split(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(eqs) == 0 {
		return nil, fmt.Errorf("%s: no equations", path)
	}
	b, err := block.FromSource(eqs, block.WithKnownSignals(cfg.KnownSignals...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// entityName picks the entity name: the flag, then the config, then the
// input file's base name made into a VHDL identifier.
func entityName(flag string, cfg *config.Config, input string) string {
	if flag != "" {
		return flag
	}
	if cfg.Entity != "" {
		return cfg.Entity
	}
	return entityFromPath(input)
}

func entityFromPath(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			if s := b.String(); s != "" && !strings.HasSuffix(s, "_") {
				b.WriteByte('_')
			}
		}
	}
	name := strings.TrimSuffix(b.String(), "_")
	if name == "" {
		return "logic_block"
	}
	if (name[0] >= '0' && name[0] <= '9') || vhdl.IsReserved(name) {
		name = "e_" + name
	}
	return name
}
