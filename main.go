// stacktidy: canonicalize Dart and dart2js stack traces into a compact,
// stable form.
//
// Usage:
//
//	stacktidy <command> [flags] [file]
//
// Input: a trace read from a file, a .gz file, or stdin (-). With no file
// argument every command reads stdin.
//
// Commands: canon, frames, filter, export, summary, config
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger is replaced by the root command's PersistentPreRunE; the nop default
// keeps helpers safe to call from tests.
var logger = zap.NewNop()

type rootOptions struct {
	configPath string
	verbose    bool
	cfg        *config
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{cfg: &config{}}

	rootCmd := &cobra.Command{
		Use:           "stacktidy",
		Short:         "Canonicalize Dart and dart2js stack traces",
		Long: `stacktidy reduces a raw runtime stack trace to a compact, stable form:
frame lines are parsed, anonymous-closure noise is folded, extension-origin
URIs are stripped from source locations, and the leading run of
runtime/library frames is collapsed to the single frame nearest application
code. Lines that match no known format pass through unchanged.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zc := zap.NewProductionConfig()
			if opts.verbose {
				zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = zc.Build()
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			opts.cfg, err = loadConfig(opts.configPath)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newCanonCommand(opts))
	rootCmd.AddCommand(newFramesCommand(opts))
	rootCmd.AddCommand(newFilterCommand(opts))
	rootCmd.AddCommand(newExportCommand(opts))
	rootCmd.AddCommand(newSummaryCommand(opts))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
