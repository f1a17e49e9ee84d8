package diagfmt

import (
	"encoding/json"
	"io"
	"sort"

	"pyrewrite/internal/diag"
	"pyrewrite/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	Line      uint32 `json:"line"`
	Offset    uint32 `json:"offset"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixEditJSON представляет одно редактирование для JSON
type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	OldText     string       `json:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

// FixJSON представляет предложение по исправлению для JSON
type FixJSON struct {
	ID            string        `json:"id,omitempty"`
	Title         string        `json:"title"`
	Applicability string        `json:"applicability"`
	IsPreferred   bool          `json:"is_preferred,omitempty"`
	Edits         []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Rule     string       `json:"rule"`
	Message  string       `json:"message"`
	Subject  string       `json:"subject,omitempty"`
	Fixed    bool         `json:"fixed"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode) LocationJSON {
	line, col := spanStart(fs, span)
	return LocationJSON{
		File:      displayPath(fs, span.File, pathMode),
		StartByte: span.Start,
		EndByte:   span.End,
		Line:      line,
		Offset:    col,
	}
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}
	diagnostics := make([]DiagnosticJSON, 0, maxItems)

	for i := range maxItems {
		d := &items[i]

		loc := makeLocation(d.Primary, fs, opts.PathMode)
		loc.Line, loc.Offset = position(fs, d)
		diagJSON := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Rule:     d.Code.Title(),
			Message:  d.Message,
			Subject:  d.Subject,
			Fixed:    d.Fixed,
			Location: loc,
		}

		if opts.IncludeNotes && len(d.Notes) > 0 {
			diagJSON.Notes = make([]NoteJSON, len(d.Notes))
			for j, note := range d.Notes {
				diagJSON.Notes[j] = NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(note.Span, fs, opts.PathMode),
				}
			}
		}

		if opts.IncludeFixes && len(d.Fixes) > 0 {
			diagJSON.Fixes = buildFixes(d.Fixes, fs, opts)
		}

		diagnostics = append(diagnostics, diagJSON)
	}

	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
	}
}

func buildFixes(in []*diag.Fix, fs *source.FileSet, opts JSONOpts) []FixJSON {
	fixes := make([]*diag.Fix, 0, len(in))
	for _, f := range in {
		if f != nil {
			fixes = append(fixes, f)
		}
	}
	sort.SliceStable(fixes, func(i, j int) bool {
		fi, fj := fixes[i], fixes[j]
		if fi.IsPreferred != fj.IsPreferred {
			return fi.IsPreferred && !fj.IsPreferred
		}
		if fi.Applicability != fj.Applicability {
			return fi.Applicability < fj.Applicability
		}
		if fi.Title != fj.Title {
			return fi.Title < fj.Title
		}
		return fi.ID < fj.ID
	})

	out := make([]FixJSON, 0, len(fixes))
	for _, fix := range fixes {
		fixJSON := FixJSON{
			ID:            fix.ID,
			Title:         fix.Title,
			Applicability: fix.Applicability.String(),
			IsPreferred:   fix.IsPreferred,
		}
		if len(fix.Edits) > 0 {
			fixJSON.Edits = make([]FixEditJSON, len(fix.Edits))
			for k, edit := range fix.Edits {
				editJSON := FixEditJSON{
					Location: makeLocation(edit.Span, fs, opts.PathMode),
					NewText:  edit.NewText,
					OldText:  edit.OldText,
				}
				if opts.IncludePreviews {
					if preview, err := previewEdit(fs, edit); err == nil {
						editJSON.BeforeLines = preview.before
						editJSON.AfterLines = preview.after
					}
				}
				fixJSON.Edits[k] = editJSON
			}
		}
		out = append(out, fixJSON)
	}
	return out
}

// JSON форматирует диагностики в JSON формат.
// Выводит массив диагностик с полной информацией о местоположении, заметках и исправлениях.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
