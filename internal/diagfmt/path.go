package diagfmt

import (
	"io"

	"pyrewrite/internal/diag"
	"pyrewrite/internal/source"
)

func displayPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	return diag.DisplayPath(fs, id, mode.String())
}

// position returns the line and offset of d, resolving its span when the
// diagnostic carries none.
func position(fs *source.FileSet, d *diag.Diagnostic) (line, col uint32) {
	if d.Line > 0 || !known(fs, d.Primary.File) {
		return d.Line, d.Offset
	}
	start, _ := fs.Resolve(d.Primary)
	return start.Line, start.Col
}

func spanStart(fs *source.FileSet, sp source.Span) (line, col uint32) {
	if !known(fs, sp.File) {
		return 0, 0
	}
	start, _ := fs.Resolve(sp)
	return start.Line, start.Col
}

func known(fs *source.FileSet, id source.FileID) bool {
	return fs != nil && int(id) < fs.Len()
}

// Short writes the canonical one-line form of every diagnostic.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) error {
	_, err := io.WriteString(w, diag.FormatShortDiagnostics(bag.Items(), fs, mode.String()))
	return err
}
