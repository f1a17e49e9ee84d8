package diag

import (
	"strings"
	"testing"

	"pyrewrite/internal/source"
)

func TestCodeIDs(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{TryBareExcept, "TRY01"},
		{TryEmptyExcept, "TRY02"},
		{FunPlaceholderBody, "FUN01"},
		{FunEllipsisBody, "FUN02"},
		{AstUnsupported, "AST02"},
		{SynInvalid, "SYN01"},
		{IOReadFailed, "IOE01"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("Code(%d).ID() = %q, want %q", tt.code, got, tt.want)
		}
		if tt.code == UnknownCode {
			continue
		}
		back, ok := ParseCode(strings.ToLower(tt.want))
		if !ok || back != tt.code {
			t.Errorf("ParseCode(%q) = %d, %v", tt.want, back, ok)
		}
	}
}

func TestKnownCodesSkipsInfo(t *testing.T) {
	for _, c := range KnownCodes() {
		if c%1000 == 0 {
			t.Errorf("KnownCodes contains informational code %s", c.ID())
		}
	}
}

func TestBagSortAndLimit(t *testing.T) {
	b := NewBag(3)
	b.Add(New(SevWarning, TryEmptyExcept, source.Span{}, 7, 8, "empty except body"))
	b.Add(New(SevWarning, TryBareExcept, source.Span{}, 3, 0, "bare exception"))
	b.Add(New(SevError, SynInvalid, source.Span{}, 3, 0, "invalid syntax"))
	if b.Add(New(SevInfo, AstEnhanced, source.Span{}, 1, 0, "x")) {
		t.Fatal("expected limit to reject fourth diagnostic")
	}

	b.Sort()
	got := make([]string, 0, b.Len())
	for _, d := range b.Items() {
		got = append(got, d.Code.ID())
	}
	want := "SYN01 TRY01 TRY02"
	if strings.Join(got, " ") != want {
		t.Fatalf("sorted codes = %v, want %s", got, want)
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Error("expected errors and warnings")
	}
}

func TestBagDedup(t *testing.T) {
	b := NewBag(0)
	d := New(SevWarning, TryBareExcept, source.Span{Start: 4, End: 10}, 2, 0, "bare exception")
	b.Add(d)
	b.Add(d)
	b.Add(d.AsFixed())
	b.Dedup()
	if b.Len() != 2 {
		t.Fatalf("Len after Dedup = %d, want 2", b.Len())
	}
}

func TestFormatShortLine(t *testing.T) {
	d := New(SevWarning, TryBareExcept, source.Span{}, 3, 0, "bare exception")
	if got, want := FormatShortLine(&d, "a.py"), "a.py:3:0: TRY01 Found bare exception"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	fixed := d.AsFixed()
	if got, want := FormatShortLine(&fixed, "a.py"), "a.py:3:0: TRY01 Fixed bare exception"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("pkg/mod.py", []byte("x\n"))
	diags := []Diagnostic{
		New(SevWarning, TryEmptyExcept, source.Span{File: id}, 4, 4, "empty\nexcept body"),
	}
	got := FormatShortDiagnostics(diags, fs, "as-is")
	if want := "pkg/mod.py:4:4: TRY02 Found empty except body\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
