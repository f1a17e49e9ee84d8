package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pyrewrite/internal/parser"
	"pyrewrite/internal/pyast"
	"pyrewrite/internal/source"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] <file.py>",
	Short: "Print the syntax tree of a Python file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cst, err := cmd.Flags().GetBool("cst")
		if err != nil {
			return fmt.Errorf("failed to get cst flag: %w", err)
		}
		fs, id, err := loadOne(args[0])
		if err != nil {
			return err
		}
		if cst {
			out, err := parser.DumpCST(cmd.Context(), fs.Get(id).Content)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}
		mod, err := parser.Parse(cmd.Context(), fs, id)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), pyast.Dump(mod))
		return nil
	},
}

func init() {
	dumpCmd.Flags().Bool("cst", false, "print the concrete tree-sitter tree instead")
}

// loadOne resolves and reads a single file.
func loadOne(path string) (*source.FileSet, source.FileID, error) {
	resolved, err := source.ResolvePath(path)
	if err != nil {
		return nil, 0, err
	}
	fs := source.NewFileSet()
	id, err := fs.Load(resolved)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read file: %w", err)
	}
	return fs, id, nil
}
