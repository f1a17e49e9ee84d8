package diagfmt

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"pyrewrite/internal/diag"
	"pyrewrite/internal/source"
)

func TestPreviewEdit(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.py", []byte("try:\n    f()\nexcept:\n    pass\n"))

	tests := []struct {
		name       string
		start, end uint32
		text       string
		before     []string
		after      []string
	}{
		{"insert", 19, 19, " Exception", []string{"except:"}, []string{"except Exception:"}},
		{"replace", 25, 29, "...", []string{"    pass"}, []string{"    ..."}},
		{"two lines", 9, 19, "g()\nexcept", []string{"    f()", "except:"}, []string{"    g()", "except:"}},
		{"add line", 13, 13, "finally:\n", []string{"except:"}, []string{"finally:", "except:"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edit := diag.TextEdit{Span: source.Span{File: id, Start: tt.start, End: tt.end}, NewText: tt.text}
			got, err := previewEdit(fs, edit)
			if err != nil {
				t.Fatalf("previewEdit: %v", err)
			}
			if diff := cmp.Diff(tt.before, got.before); diff != "" {
				t.Errorf("before (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.after, got.after); diff != "" {
				t.Errorf("after (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := previewEdit(fs, diag.TextEdit{Span: source.Span{File: id, Start: 5, End: 500}}); err == nil {
		t.Fatal("expected an error for a span past the end of the file")
	}
}
