package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"pyrewrite/internal/diag"
	"pyrewrite/internal/diagfmt"
	"pyrewrite/internal/source"
	"pyrewrite/internal/version"
)

// outputOptions are the rendering knobs shared by the commands.
type outputOptions struct {
	format    string
	pathMode  diagfmt.PathMode
	showFixes bool
}

func writeDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts outputOptions) error {
	switch opts.format {
	case "short":
		return diagfmt.Short(w, bag, fs, opts.pathMode)
	case "pretty":
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:       !color.NoColor,
			Context:     2,
			PathMode:    opts.pathMode,
			ShowNotes:   true,
			ShowFixes:   opts.showFixes,
			ShowPreview: opts.showFixes,
		})
		return nil
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			PathMode:        opts.pathMode,
			IncludeNotes:    true,
			IncludeFixes:    opts.showFixes,
			IncludePreviews: opts.showFixes,
		})
	case "sarif":
		return diagfmt.Sarif(w, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "pyrewrite",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		})
	default:
		return fmt.Errorf("unknown format: %s", opts.format)
	}
}

func pathModeFor(fullPath bool) diagfmt.PathMode {
	if fullPath {
		return diagfmt.PathModeAbsolute
	}
	return diagfmt.PathModeRelative
}
