package diag

import (
	"pyrewrite/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one finding or one applied rewrite.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Line     uint32 // 1-based, from the matched node
	Offset   uint32 // 0-based column of the matched node
	Subject  string // enclosing name when relevant, e.g. the function
	Fixed    bool
	Notes    []Note
	Fixes    []*Fix
}

// New builds a diagnostic positioned at primary with an explicit line and offset.
func New(sev Severity, code Code, primary source.Span, line, offset uint32, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Line:     line,
		Offset:   offset,
	}
}

func NewError(code Code, primary source.Span, line, offset uint32, msg string) Diagnostic {
	return New(SevError, code, primary, line, offset, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithSubject(name string) Diagnostic {
	d.Subject = name
	return d
}

// AsFixed marks the diagnostic as describing an applied correction.
func (d Diagnostic) AsFixed() Diagnostic {
	d.Fixed = true
	return d
}

func (d Diagnostic) WithFixSuggestion(fix *Fix) Diagnostic {
	if fix == nil {
		return d
	}
	d.Fixes = append(d.Fixes, fix)
	return d
}

// Verb is the word printed before the message in line-oriented output.
func (d *Diagnostic) Verb() string {
	if d.Fixed {
		return "Fixed"
	}
	return "Found"
}
