package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("mod.py", []byte("x = 1\n"), 0)
	id2 := fs.Add("mod.py", []byte("x = 2\n"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}

	latest, ok := fs.GetLatest("mod.py")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d, true", latest, ok, id2)
	}
	// старая версия остаётся доступной
	if got := string(fs.Get(id1).Content); got != "x = 1\n" {
		t.Errorf("first version content = %q", got)
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("a.py", []byte("a\nb\n")))

	want := []uint32{1, 3}
	if len(file.LineIdx) != len(want) {
		t.Fatalf("LineIdx = %v, want %v", file.LineIdx, want)
	}
	for i := range want {
		if file.LineIdx[i] != want[i] {
			t.Errorf("LineIdx[%d] = %d, want %d", i, file.LineIdx[i], want[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag")
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.py", []byte("try:\n    f()\nexcept:\n    pass\n"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 0}},
		{4, LineCol{Line: 1, Col: 4}},
		{5, LineCol{Line: 2, Col: 0}},
		{9, LineCol{Line: 2, Col: 4}},
		{13, LineCol{Line: 3, Col: 0}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("Resolve(%d) = %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("a.py", []byte("first\nsecond\nthird")))

	cases := map[uint32]string{0: "", 1: "first", 2: "second", 3: "third", 4: ""}
	for line, want := range cases {
		if got := file.GetLine(line); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", line, got, want)
		}
	}
}

func TestLoadNormalizesAndEncodeRestores(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.py")
	raw := []byte("\xEF\xBB\xBFx = 1\r\ny = 2\r\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if got := string(file.Content); got != "x = 1\ny = 2\n" {
		t.Fatalf("content = %q", got)
	}
	if file.Flags&FileHadBOM == 0 || file.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b, want BOM and CRLF set", file.Flags)
	}

	back, err := file.Encode(file.Content)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(back) != string(raw) {
		t.Errorf("Encode = %q, want %q", back, raw)
	}
}

func TestResolvePath(t *testing.T) {
	got, err := ResolvePath("  some/file.py \n")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if !filepath.IsAbs(filepath.FromSlash(got)) {
		t.Errorf("expected absolute path, got %q", got)
	}
	if filepath.Base(got) != "file.py" {
		t.Errorf("unexpected base in %q", got)
	}
	if _, err := ResolvePath("   "); err != ErrEmptyPath {
		t.Errorf("blank path error = %v, want ErrEmptyPath", err)
	}
}

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()
	baseDir := filepath.Join(tmp, "base")
	target := filepath.Join(tmp, "other", "file.py")

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if want := normalizePath(target); got != want {
		t.Fatalf("expected absolute fallback %q, got %q", want, got)
	}
}
