package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"pyrewrite/internal/version"
)

var (
	logger *zap.Logger

	// errViolations makes the process exit with status 1 without printing
	// anything; the diagnostics already explain why.
	errViolations = errors.New("violations found")
)

var rootCmd = &cobra.Command{
	Use:   "pyrewrite",
	Short: "Lint and rewrite Python sources",
	Long: `pyrewrite checks Python files for bare or empty exception handlers and
placeholder function bodies, and can fix some of them in place.

The assert command rewrites assert statements so that a failing one prints
the values involved.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := cmd.Root().PersistentFlags().GetString("log-level")
		if err != nil {
			return fmt.Errorf("failed to get log-level flag: %w", err)
		}
		logger, err = newLogger(level)
		if err != nil {
			return err
		}
		colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return fmt.Errorf("failed to get color flag: %w", err)
		}
		if err := applyColorMode(colorFlag); err != nil {
			return err
		}
		return setupProfiling(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		stopProfiling()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(assertCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(unparseCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("config", "", "configuration file (default: nearest pyrewrite.toml, .pyrewrite.yaml or pyproject.toml)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to collect (0 = unlimited)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("ui", "auto", "show a progress UI (auto|on|off)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime trace to this file")
}

// main runs the root command with a context cancelled on Ctrl-C.
// Any error exits with status 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stopProfiling()
	stop()
	if err == nil {
		return
	}
	if !errors.Is(err, errViolations) {
		fmt.Fprintf(os.Stderr, "pyrewrite: %v\n", err)
	}
	os.Exit(1)
}

// applyColorMode overrides the terminal detection of fatih/color.
func applyColorMode(mode string) error {
	switch mode {
	case "auto":
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
