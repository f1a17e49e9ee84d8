package diagfmt

import (
	"bytes"
	"fmt"
	"strings"

	"pyrewrite/internal/diag"
	"pyrewrite/internal/source"
)

// editPreview holds the whole lines an edit touches, as they read before
// and after it is applied.
type editPreview struct {
	before []string
	after  []string
}

func previewEdit(fs *source.FileSet, edit diag.TextEdit) (editPreview, error) {
	if !known(fs, edit.Span.File) {
		return editPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	content := fs.Get(edit.Span.File).Content
	start, end := int(edit.Span.Start), int(edit.Span.End)
	if start > end || end > len(content) {
		return editPreview{}, fmt.Errorf("edit span %s is outside the file (%d bytes)", edit.Span, len(content))
	}

	// блок от начала первой до конца последней затронутой строки
	lo := bytes.LastIndexByte(content[:start], '\n') + 1
	hi := len(content)
	if i := bytes.IndexByte(content[end:], '\n'); i >= 0 {
		hi = end + i
	}

	var after strings.Builder
	after.Write(content[lo:start])
	after.WriteString(edit.NewText)
	after.Write(content[end:hi])

	return editPreview{
		before: previewLines(string(content[lo:hi])),
		after:  previewLines(after.String()),
	}, nil
}

func previewLines(block string) []string {
	block = strings.TrimSuffix(block, "\n")
	if block == "" {
		return nil
	}
	return strings.Split(block, "\n")
}
