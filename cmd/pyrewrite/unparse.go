package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pyrewrite/internal/format"
	"pyrewrite/internal/parser"
	"pyrewrite/internal/pyast"
)

var unparseCmd = &cobra.Command{
	Use:   "unparse [flags] <file.py>",
	Short: "Regenerate a Python file from its syntax tree",
	Long: `Unparse prints the source that fixes in unparse mode would write for
the file. With --check it instead verifies that the output parses back to
the same tree and exits with status 1 if it does not.`,
	Args: cobra.ExactArgs(1),
	RunE: runUnparse,
}

func init() {
	unparseCmd.Flags().Bool("check", false, "verify the round trip instead of printing")
}

func runUnparse(cmd *cobra.Command, args []string) error {
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return fmt.Errorf("failed to get check flag: %w", err)
	}
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	fs, id, err := loadOne(args[0])
	if err != nil {
		return err
	}
	mod, err := parser.Parse(cmd.Context(), fs, id)
	if err != nil {
		return err
	}
	text, err := format.Unparse(mod)
	if err != nil {
		return fmt.Errorf("failed to unparse: %w", err)
	}
	if !check {
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	}

	if err := roundTrip(cmd.Context(), fs.Get(id).Path, mod, text); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", args[0], err)
		return errViolations
	}
	if !g.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: round trip ok\n", args[0])
	}
	return nil
}

// roundTrip reparses text and compares it structurally with mod.
func roundTrip(ctx context.Context, path string, mod *pyast.Module, text string) error {
	again, err := parser.ParseSource(ctx, path, []byte(text))
	if err != nil {
		return fmt.Errorf("output does not parse: %w", err)
	}
	if pyast.Dump(again) != pyast.Dump(mod) {
		return fmt.Errorf("output parses to a different tree")
	}
	return nil
}
