package diag

import (
	"fmt"
	"strings"

	"pyrewrite/internal/source"
)

// FormatShortLine renders the canonical one-line form:
//
//	<file>:<line>:<offset>: <CODE> Found <message>
//
// "Fixed" replaces "Found" for applied corrections.
func FormatShortLine(d *Diagnostic, path string) string {
	return fmt.Sprintf("%s:%d:%d: %s %s %s", path, d.Line, d.Offset, d.Code.ID(), d.Verb(), sanitizeMessage(d.Message))
}

// FormatShortDiagnostics renders diags in order, one line each, resolving
// paths through fs with the given path mode.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, pathMode string) string {
	var b strings.Builder
	for i := range diags {
		b.WriteString(FormatShortLine(&diags[i], DisplayPath(fs, diags[i].Primary.File, pathMode)))
		b.WriteByte('\n')
	}
	return b.String()
}

// DisplayPath formats the path of id, tolerating unknown files.
func DisplayPath(fs *source.FileSet, id source.FileID, mode string) string {
	if fs == nil || int(id) >= fs.Len() {
		return "<unknown>"
	}
	return fs.Get(id).FormatPath(mode, fs.BaseDir())
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
