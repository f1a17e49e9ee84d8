package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pyrewrite/internal/config"
	"pyrewrite/internal/observ"
)

// globalFlags are the persistent flags every command reads.
type globalFlags struct {
	quiet          bool
	timings        bool
	maxDiagnostics int
	ui             uiMode
}

func readGlobalFlags(cmd *cobra.Command) (globalFlags, error) {
	var g globalFlags
	flags := cmd.Root().PersistentFlags()
	var err error
	if g.quiet, err = flags.GetBool("quiet"); err != nil {
		return g, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if g.timings, err = flags.GetBool("timings"); err != nil {
		return g, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return g, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	uiFlag, err := flags.GetString("ui")
	if err != nil {
		return g, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if g.ui, err = readUIMode(uiFlag); err != nil {
		return g, err
	}
	return g, nil
}

func (g globalFlags) timer() *observ.Timer {
	if !g.timings {
		return nil
	}
	return observ.NewTimer()
}

// loadConfig reads --config, or discovers the nearest configuration file
// from the working directory.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		var wd string
		if wd, err = os.Getwd(); err != nil {
			return config.Config{}, err
		}
		cfg, err = config.Discover(wd)
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Debug("configuration loaded", zap.String("path", cfg.Path), zap.Strings("select", cfg.Select), zap.Strings("ignore", cfg.Ignore))
	return cfg, nil
}

// override copies a flag into dst when the user set it explicitly.
func overrideString(cmd *cobra.Command, name string, dst *string) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	*dst = v
	return nil
}

func overrideBool(cmd *cobra.Command, name string, dst *bool) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	*dst = v
	return nil
}

func overrideStrings(cmd *cobra.Command, name string, dst *[]string) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		return fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	*dst = v
	return nil
}
