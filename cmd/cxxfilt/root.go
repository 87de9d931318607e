package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/skdltmxn/cxxdemangle/internal/config"
)

var (
	outputFile string
	configFile string
	output     io.Writer

	cfg    config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cxxfilt [symbol...]",
	Short: "Demangle Itanium C++ symbol names",
	Long: `cxxfilt decodes C++ symbol names mangled with the Itanium ABI
(GCC, Clang) back into readable declarations.

Symbols given as arguments are demangled one per line. With no
arguments, standard input is copied to the output with every mangled
name inside it replaced.

Settings may also come from a config file (--config) or from
CXXFILT_* environment variables, e.g. CXXFILT_RECURSION_LIMIT.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile, cmd.Flags())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err = cfg.Logger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			output = f
		} else {
			output = cmd.OutOrStdout()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if f, ok := output.(*os.File); ok && f != os.Stdout {
			f.Close()
		}
	},
	RunE: runDemangle,
}

func init() {
	def := config.Default()

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")
	flags.StringVar(&configFile, "config", "", "read settings from this file (yaml, json, toml)")

	flags.BoolP("no-params", "p", def.NoParams, "do not print function parameters")
	flags.Bool("no-return-type", def.NoReturnType, "do not print return types of template functions")
	flags.String("literal-case", def.LiteralCase, "case of integer literal suffixes (lower, upper)")
	flags.Int("recursion-limit", def.RecursionLimit, "maximum grammar nesting depth")
	flags.Int("output-limit", def.OutputLimit, "maximum demangled length in bytes")
	flags.Int("input-limit", def.InputLimit, "maximum mangled length in bytes")
	flags.Bool("compact-angles", def.CompactAngles, `print ">>" instead of "> >"`)
	flags.IntP("jobs", "j", def.Jobs, "number of symbols demangled concurrently")
	flags.String("log-level", def.LogLevel, "log level (trace, debug, info, warn, error)")
	flags.String("log-format", def.LogFormat, "log format (console, json)")

	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(serveCmd)
}
