package fix

import (
	"pyrewrite/internal/diag"
	"pyrewrite/internal/source"
)

// Option mutates fix during construction.
type Option func(*diag.Fix)

// WithApplicability overrides applicability metadata.
func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) {
		f.Applicability = app
	}
}

// Preferred marks fix as preferred suggestion.
func Preferred() Option {
	return func(f *diag.Fix) {
		f.IsPreferred = true
	}
}

// WithID sets stable identifier for fix.
func WithID(id string) Option {
	return func(f *diag.Fix) {
		f.ID = id
	}
}

func applyOptions(f *diag.Fix, opts []Option) *diag.Fix {
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// InsertText creates fix that inserts text at a zero-length span.
func InsertText(title string, at source.Span, text string, opts ...Option) *diag.Fix {
	at.End = at.Start
	fix := &diag.Fix{
		Title:         title,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         []diag.TextEdit{{Span: at, NewText: text}},
	}
	return applyOptions(fix, opts)
}

// ReplaceSpan replaces text covered by span with newText. expect guards the
// edit: it is skipped when the bytes under span differ.
func ReplaceSpan(title string, span source.Span, newText, expect string, opts ...Option) *diag.Fix {
	fix := &diag.Fix{
		Title:         title,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         []diag.TextEdit{{Span: span, NewText: newText, OldText: expect}},
	}
	return applyOptions(fix, opts)
}
