package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"pyrewrite/internal/diag"
	"pyrewrite/internal/source"
)

type palette struct {
	err, warn, info, code, path, gutter, caret, note, fix *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.FgWhite, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
		fix:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note, p.fix} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
//
//	<path>:<line>:<offset>: <SEV> <CODE>: <Message>
//
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i := range bag.Items() {
		d := &bag.Items()[i]
		prettyOne(w, d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	line, col := position(fs, d)
	path := displayPath(fs, d.Primary.File, opts.PathMode)

	status := ""
	if d.Fixed {
		status = " " + pal.fix.Sprint("(fixed)")
	}
	fmt.Fprintf(w, "%s: %s %s%s: %s\n",
		pal.path.Sprintf("%s:%d:%d", path, line, col),
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		pal.code.Sprint(d.Code.ID()),
		status,
		d.Message,
	)

	if known(fs, d.Primary.File) && line > 0 {
		writeContext(w, fs.Get(d.Primary.File), d.Primary, line, col, opts.Context, pal)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nl, nc := spanStart(fs, n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"), displayPath(fs, n.Span.File, opts.PathMode), nl, nc, n.Msg)
		}
	}

	if opts.ShowFixes {
		for i, f := range d.Fixes {
			if f == nil {
				continue
			}
			writeFix(w, fs, i+1, f, opts, pal)
		}
	}
}

// writeContext prints up to ctx lines before the diagnostic line, the line
// itself, and a caret line under the primary span.
func writeContext(w io.Writer, file *source.File, span source.Span, line, col uint32, ctx int8, pal palette) {
	first := line
	for n := int8(0); n < ctx && first > 1; n++ {
		first--
	}
	width := len(fmt.Sprint(line))
	for l := first; l <= line; l++ {
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", width, l), expandTabs(file.GetLine(l)))
	}

	text := file.GetLine(line)
	if int(col) > len(text) {
		col = uint32(len(text))
	}
	pad := runewidth.StringWidth(expandTabs(text[:col]))

	rest := text[col:]
	length := int(span.Len())
	if length > len(rest) {
		length = len(rest)
	}
	marker := "^"
	if length > 1 {
		marker += strings.Repeat("~", runewidth.StringWidth(expandTabs(rest[:length]))-1)
	}
	fmt.Fprintf(w, "%s %s%s\n", pal.gutter.Sprintf("%*s |", width, ""), strings.Repeat(" ", pad), pal.caret.Sprint(marker))
}

func writeFix(w io.Writer, fs *source.FileSet, n int, f *diag.Fix, opts PrettyOpts, pal palette) {
	header := fmt.Sprintf("fix #%d: %s", n, f.Title)
	meta := []string{f.Applicability.String()}
	if f.ID != "" {
		meta = append(meta, "id="+f.ID)
	}
	if f.IsPreferred {
		meta = append(meta, "preferred")
	}
	fmt.Fprintf(w, "  %s [%s]\n", pal.fix.Sprint(header), strings.Join(meta, ", "))

	for _, e := range f.Edits {
		el, ec := spanStart(fs, e.Span)
		fmt.Fprintf(w, "    edit %s:%d:%d apply=%q", displayPath(fs, e.Span.File, opts.PathMode), el, ec, e.NewText)
		if e.OldText != "" {
			fmt.Fprintf(w, " expect=%q", e.OldText)
		}
		fmt.Fprintln(w)
		if !opts.ShowPreview {
			continue
		}
		preview, err := previewEdit(fs, e)
		if err != nil {
			continue
		}
		fmt.Fprintln(w, "    preview:")
		for _, l := range preview.before {
			fmt.Fprintf(w, "      %s\n", pal.err.Sprint("- "+l))
		}
		for _, l := range preview.after {
			fmt.Fprintf(w, "      %s\n", pal.fix.Sprint("+ "+l))
		}
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
