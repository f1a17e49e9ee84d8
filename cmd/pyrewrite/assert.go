package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pyrewrite/internal/diag"
	"pyrewrite/internal/diagfmt"
	"pyrewrite/internal/driver"
	"pyrewrite/internal/pyexec"
)

var assertCmd = &cobra.Command{
	Use:   "assert [flags] <file.py|directory>...",
	Short: "Rewrite assert statements to print the values involved",
	Long: `Assert turns every assert statement into an if-guard that prints the
file, position, expression text and variable values when the condition is
false. The rewritten programs go to stdout unless --write or --output is
given; --run executes them with the configured Python interpreter and exits
with status 1 if any of them fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAssert,
}

func init() {
	assertCmd.Flags().BoolP("write", "w", false, "rewrite the files in place")
	assertCmd.Flags().StringP("output", "o", "", "write rewritten files into this directory")
	assertCmd.Flags().Bool("strict", false, "fail on assert tests that cannot be fully inspected")
	assertCmd.Flags().Bool("raise", false, "raise AssertionError after printing")
	assertCmd.Flags().Bool("run", false, "run each rewritten program")
	assertCmd.Flags().String("python", "python3", "interpreter used by --run")
	assertCmd.Flags().Bool("fullpath", false, "emit absolute file paths in diagnostics")
}

func runAssert(cmd *cobra.Command, args []string) error {
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := overrideBool(cmd, "strict", &cfg.Assert.Strict); err != nil {
		return err
	}
	if err := overrideBool(cmd, "raise", &cfg.Assert.Raise); err != nil {
		return err
	}
	if err := overrideString(cmd, "python", &cfg.Assert.Python); err != nil {
		return err
	}

	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return fmt.Errorf("failed to get write flag: %w", err)
	}
	outDir, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	run, err := cmd.Flags().GetBool("run")
	if err != nil {
		return fmt.Errorf("failed to get run flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if write && outDir != "" {
		return fmt.Errorf("--write and --output cannot be used together")
	}

	timer := g.timer()
	opts := driver.EnhanceOptions{
		Strict:         cfg.Assert.Strict,
		Raise:          cfg.Assert.Raise,
		Write:          write,
		OutDir:         outDir,
		MaxDiagnostics: g.maxDiagnostics,
		Logger:         logger,
		Timer:          timer,
	}
	res, err := runMaybeWithUI(cmd.Context(), g, "rewriting asserts", args, func(ctx context.Context, sink driver.ProgressSink) (*driver.EnhanceResult, error) {
		o := opts
		o.Progress = sink
		return driver.Enhance(ctx, o, args)
	})
	if err != nil {
		return err
	}

	// AST01 is one line per rewritten assert; only problems are shown
	res.Bag.Filter(func(d *diag.Diagnostic) bool { return d.Severity >= diag.SevWarning })
	if !g.quiet || res.Bag.HasErrors() {
		if err := diagfmt.Short(cmd.ErrOrStderr(), res.Bag, res.FileSet, pathModeFor(fullPath)); err != nil {
			return err
		}
	}

	exit := res.ExitCode
	switch {
	case run:
		code, err := runEnhanced(cmd, res.Files, cfg.Assert.Python)
		if err != nil {
			return err
		}
		exit |= code
	case !write && outDir == "":
		printEnhanced(cmd, res.Files)
	}
	if timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if exit != 0 {
		return errViolations
	}
	return nil
}

// printEnhanced writes the rewritten programs to stdout in their own
// encodings, each under a comment naming its file when there is more than
// one.
func printEnhanced(cmd *cobra.Command, files []driver.EnhancedFile) {
	out := cmd.OutOrStdout()
	for i, f := range files {
		if f.Err != nil {
			continue
		}
		if len(files) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "# %s\n", f.Path)
		}
		_, _ = out.Write(f.Raw)
	}
}

// runEnhanced executes every rewritten program from the directory of its
// source file and ORs their failures together.
func runEnhanced(cmd *cobra.Command, files []driver.EnhancedFile, python string) (int, error) {
	exit := 0
	for _, f := range files {
		if f.Err != nil {
			continue
		}
		runner := &pyexec.Runner{
			Python: python,
			Dir:    filepath.Dir(f.Path),
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
		}
		code, err := runner.Run(cmd.Context(), string(f.Raw))
		if err != nil {
			return 1, err
		}
		logger.Debug("program finished", zap.String("file", f.Path), zap.Int("exit", code))
		if code != 0 {
			exit = 1
		}
	}
	return exit, nil
}
