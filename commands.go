package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// traceArg returns the positional input path, defaulting to stdin.
func traceArg(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

// ---------------------------------------------------------------------------
// canon
// ---------------------------------------------------------------------------

func newCanonCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "canon [file]",
		Short: "Canonicalize a stack trace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trace, err := readTrace(traceArg(args))
			if err != nil {
				return err
			}
			out := newCanonicalizer(opts.cfg).canonicalize(trace)
			logger.Debug("canonicalized trace",
				zap.Int("bytes_in", len(trace)),
				zap.Int("bytes_out", len(out)))
			if out != "" {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// frames
// ---------------------------------------------------------------------------

func newFramesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "frames [file]",
		Short: "Show every frame the recognizer extracted, untrimmed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trace, err := readTrace(traceArg(args))
			if err != nil {
				return err
			}
			frames := newCanonicalizer(opts.cfg).parseTrace(trace)
			if len(frames) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no frames")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderFrameTable(frames))
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// filter
// ---------------------------------------------------------------------------

func newFilterCommand(opts *rootOptions) *cobra.Command {
	var where string
	var method string

	cmd := &cobra.Command{
		Use:   "filter [file]",
		Short: "Print frames passing a predicate",
		Long: `Print the frames passing a predicate, one canonical line each.

The predicate is either -m (substring match against the method, or the raw
line for unrecognized frames) or --where, a Starlark expression over the
bindings method, location, internal and raw:

  stacktidy filter --where 'not internal' trace.txt
  stacktidy filter --where '"main" in method' trace.txt
  stacktidy filter -m '<anon>' trace.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (where == "") == (method == "") {
				return errors.New("exactly one of --where or -m is required")
			}
			trace, err := readTrace(traceArg(args))
			if err != nil {
				return err
			}
			frames := newCanonicalizer(opts.cfg).parseTrace(trace)

			var kept []frame
			if where != "" {
				kept, err = filterWhere(frames, where)
				if err != nil {
					return err
				}
			} else {
				kept = filterMethod(frames, method)
			}

			if len(kept) == 0 {
				pattern := where
				if pattern == "" {
					pattern = method
				}
				fmt.Fprintf(cmd.OutOrStdout(), "no frames matching '%s'\n", pattern)
				return nil
			}
			for _, f := range kept {
				fmt.Fprintln(cmd.OutOrStdout(), f.render())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&where, "where", "", "Starlark predicate over method, location, internal, raw")
	cmd.Flags().StringVarP(&method, "method", "m", "", "Substring match against method names")
	return cmd
}

// ---------------------------------------------------------------------------
// export
// ---------------------------------------------------------------------------

func newExportCommand(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the canonical frames as a pprof profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trace, err := readTrace(traceArg(args))
			if err != nil {
				return err
			}
			c := newCanonicalizer(opts.cfg)
			frames := c.parseTrace(trace)
			if !c.keepInternalRun {
				frames = trimInternalRun(frames)
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := writeProfile(frames, f); err != nil {
				return err
			}
			logger.Debug("exported profile", zap.String("path", output), zap.Int("frames", len(frames)))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frame(s) to %s\n", len(frames), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "trace.pb.gz", "Output path for the profile")
	return cmd
}

// ---------------------------------------------------------------------------
// summary
// ---------------------------------------------------------------------------

func summarize(frames, kept []frame) string {
	counts := make(map[string]int)
	internal := 0
	for _, f := range frames {
		if f.grammar != "" {
			counts[f.grammar]++
		}
		if f.internal {
			internal++
		}
	}
	recognized := counts["vm"] + counts["js"] + counts["js-annot"]

	var b strings.Builder
	fmt.Fprintf(&b, "Frames:      %d\n", len(frames))
	fmt.Fprintf(&b, "Recognized:  %d (vm: %d, js: %d, js-annot: %d)\n",
		recognized, counts["vm"], counts["js"], counts["js-annot"])
	fmt.Fprintf(&b, "Internal:    %d\n", internal)
	fmt.Fprintf(&b, "Application: %d\n", len(frames)-internal)
	fmt.Fprintf(&b, "Trimmed:     %d leading runtime frame(s)\n", len(frames)-len(kept))
	return b.String()
}

func newSummaryCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [file]",
		Short: "One-shot triage: frame counts, grammar mix, trim effect",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trace, err := readTrace(traceArg(args))
			if err != nil {
				return err
			}
			c := newCanonicalizer(opts.cfg)
			frames := c.parseTrace(trace)
			kept := frames
			if !c.keepInternalRun {
				kept = trimInternalRun(frames)
			}
			fmt.Fprint(cmd.OutOrStdout(), summarize(frames, kept))
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// config
// ---------------------------------------------------------------------------

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print a sample configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), sampleConfig)
			return nil
		},
	}
}
