package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pyrewrite/internal/driver"
	"pyrewrite/internal/rules"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.py|directory>...",
	Short: "Report bare/empty exception handlers and placeholder function bodies",
	Long: `Check runs the enabled rules over every given file (directories are
searched for *.py). With --fix, fixable findings are corrected and the files
rewritten in place. The exit status is 1 when any file had a finding, fixed
or not, or could not be processed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Bool("fix", false, "apply available fixes and rewrite files in place")
	checkCmd.Flags().String("fix-mode", "unparse", "how fixes are written (unparse|edit)")
	checkCmd.Flags().String("format", "short", "output format (short|pretty|json|sarif)")
	checkCmd.Flags().StringSlice("select", nil, "rule codes or families to enable (e.g. TRY,FUN01 or ALL)")
	checkCmd.Flags().StringSlice("ignore", nil, "rule codes or families to disable")
	checkCmd.Flags().String("bare-except-type", "Exception", "exception class inserted into bare handlers")
	checkCmd.Flags().Bool("show-fixes", false, "include fix suggestions in pretty/json output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	for _, o := range []struct {
		name string
		dst  *string
	}{
		{"fix-mode", &cfg.FixMode},
		{"format", &cfg.Format},
		{"bare-except-type", &cfg.BareExceptType},
	} {
		if err := overrideString(cmd, o.name, o.dst); err != nil {
			return err
		}
	}
	if err := overrideBool(cmd, "fix", &cfg.Fix); err != nil {
		return err
	}
	if err := overrideStrings(cmd, "select", &cfg.Select); err != nil {
		return err
	}
	if err := overrideStrings(cmd, "ignore", &cfg.Ignore); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	showFixes, err := cmd.Flags().GetBool("show-fixes")
	if err != nil {
		return fmt.Errorf("failed to get show-fixes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}

	reg := rules.Default(rules.Options{ExceptType: cfg.BareExceptType})
	enabled, err := reg.Select(cfg.Select, cfg.Ignore)
	if err != nil {
		return err
	}
	logger.Debug("rules selected", zap.Int("count", len(enabled)))

	timer := g.timer()
	opts := driver.Options{
		Rules:          enabled,
		Fix:            cfg.Fix,
		FixMode:        driver.FixMode(cfg.FixMode),
		MaxDiagnostics: g.maxDiagnostics,
		Logger:         logger,
		Timer:          timer,
	}
	res, err := runMaybeWithUI(cmd.Context(), g, "checking", args, func(ctx context.Context, sink driver.ProgressSink) (*driver.Result, error) {
		o := opts
		o.Progress = sink
		return driver.Run(ctx, o, args)
	})
	if err != nil {
		return err
	}

	out := outputOptions{format: cfg.Format, pathMode: pathModeFor(fullPath), showFixes: showFixes}
	if err := writeDiagnostics(cmd.OutOrStdout(), res.Bag, res.FileSet, out); err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}
	if timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if !g.quiet && cfg.Format != "json" && cfg.Format != "sarif" {
		printCheckSummary(cmd, res, driver.FixMode(cfg.FixMode))
	}
	if res.ExitCode != 0 {
		return errViolations
	}
	return nil
}

func printCheckSummary(cmd *cobra.Command, res *driver.Result, mode driver.FixMode) {
	var found, fixed, failed, regenerated int
	for _, f := range res.Files {
		found += f.Found
		fixed += f.Fixed
		if f.Err != nil {
			failed++
		}
		if f.Written && mode != driver.FixModeEdit {
			regenerated++
		}
	}
	w := cmd.ErrOrStderr()
	switch {
	case found == 0 && failed == 0:
		fmt.Fprintf(w, "All checks passed (%d files).\n", len(res.Files))
		return
	case fixed > 0:
		fmt.Fprintf(w, "Found %d violations in %d files (%d fixed).\n", found, len(res.Files), fixed)
	default:
		fmt.Fprintf(w, "Found %d violations in %d files.\n", found, len(res.Files))
	}
	if failed > 0 {
		fmt.Fprintf(w, "%d files could not be processed.\n", failed)
	}
	if regenerated > 0 {
		fmt.Fprintf(w, "note: %d files were regenerated from the syntax tree and lost their comments; use --fix-mode edit to keep them.\n", regenerated)
	}
}
