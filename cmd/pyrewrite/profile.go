package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pyrewrite/internal/prof"
)

var profSession *prof.Session

// setupProfiling inspects persistent profiling flags and enables the
// corresponding profilers.
func setupProfiling(cmd *cobra.Command) error {
	root := cmd.Root()

	cpuProfile, err := root.PersistentFlags().GetString("cpu-profile")
	if err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := root.PersistentFlags().GetString("mem-profile")
	if err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	tracePath, err := root.PersistentFlags().GetString("runtime-trace")
	if err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}

	profSession, err = prof.Start(prof.Options{CPU: cpuProfile, Mem: memProfile, Trace: tracePath})
	return err
}

// stopProfiling is called on every exit path; PersistentPostRun does not
// run when a command fails.
func stopProfiling() {
	if err := profSession.Stop(); err != nil && logger != nil {
		logger.Warn("profiling", zap.Error(err))
	}
	profSession = nil
}
