package driver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const assertScript = "a = 1\nb = 2\nassert a == b\n"

func TestEnhanceToOutDir(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "prog.py", assertScript)
	out := filepath.Join(dir, "out")

	res, err := Enhance(context.Background(), EnhanceOptions{OutDir: out}, []string{path})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("exit code = %d, want 0", res.ExitCode)
	}
	ef := res.Files[0]
	if !ef.Changed || ef.Output != filepath.Join(out, "prog.py") {
		t.Fatalf("unexpected result: %+v", ef)
	}
	want := "if not a == b:\n    print('" + path + ":3:0 a == b = ', repr(a == b), ' (a=', repr(a), ', b=', repr(b), ')', sep='')\n"
	if !strings.HasSuffix(ef.Source, want) {
		t.Fatalf("rewritten source:\n%s\nwant suffix:\n%s", ef.Source, want)
	}

	written, err := os.ReadFile(ef.Output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(written) != ef.Source {
		t.Fatalf("written file differs from Source")
	}
	orig, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read input: %v", err)
	}
	if string(orig) != assertScript {
		t.Fatalf("input was modified:\n%s", orig)
	}

	if res.Bag.Len() != 1 || res.Bag.Items()[0].Code.ID() != "AST01" {
		t.Fatalf("diagnostics = %+v", res.Bag.Items())
	}
}

func TestEnhanceWriteInPlace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "prog.py", assertScript)

	res, err := Enhance(context.Background(), EnhanceOptions{Write: true, Raise: true}, []string{path})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != res.Files[0].Source || !strings.HasSuffix(string(data), "    raise AssertionError\n") {
		t.Fatalf("file not rewritten:\n%s", data)
	}
}

func TestEnhanceWriteKeepsEncoding(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "la.py", "# coding: latin-1\ns = '\xe9'\nassert s == 'x'\n")

	res, err := Enhance(context.Background(), EnhanceOptions{Write: true}, []string{path})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	ef := res.Files[0]
	if ef.Err != nil || !ef.Changed {
		t.Fatalf("unexpected result: %+v", ef)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("# coding: latin-1\n")) {
		t.Fatalf("coding cookie dropped:\n%q", data)
	}
	if !bytes.Contains(data, []byte("s = '\xe9'\n")) || bytes.Contains(data, []byte("\xc3\xa9")) {
		t.Fatalf("file not written as latin-1:\n%q", data)
	}
	if !bytes.Equal(data, ef.Raw) {
		t.Fatalf("written file differs from Raw")
	}

	// the rewritten file loads and has nothing left to rewrite
	again, err := Enhance(context.Background(), EnhanceOptions{}, []string{path})
	if err != nil {
		t.Fatalf("second Enhance: %v", err)
	}
	if again.ExitCode != 0 || again.Files[0].Changed {
		t.Fatalf("second run: %+v", again.Files[0])
	}
}

func TestEnhanceWithoutAssertsKeepsSource(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "prog.py", "x = 1\n")

	res, err := Enhance(context.Background(), EnhanceOptions{Write: true}, []string{path})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	ef := res.Files[0]
	if ef.Changed || ef.Output != "" || ef.Source != "x = 1\n" {
		t.Fatalf("unexpected result: %+v", ef)
	}
}

func TestEnhanceStrictAbortsFile(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.py", "assert f(a)\n")
	good := writeFile(t, dir, "good.py", assertScript)

	res, err := Enhance(context.Background(), EnhanceOptions{Strict: true}, []string{bad, good})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if res.ExitCode != 1 {
		t.Fatalf("exit code = %d, want 1", res.ExitCode)
	}
	if res.Files[0].Err == nil || res.Files[0].Source != "" {
		t.Fatalf("strict file: %+v", res.Files[0])
	}
	if res.Files[1].Err != nil || !res.Files[1].Changed {
		t.Fatalf("second file should still be rewritten: %+v", res.Files[1])
	}
	if first := res.Bag.Items()[0]; first.Code.ID() != "AST03" {
		t.Fatalf("first diagnostic = %s, want AST03", first.Code.ID())
	}
}

func TestEnhanceDegradeKeepsUnsupportedAssert(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "prog.py", "assert f(a)\n")

	res, err := Enhance(context.Background(), EnhanceOptions{}, []string{path})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("exit code = %d, want 0", res.ExitCode)
	}
	if got := res.Files[0].Source; got != "assert f(a)\n" {
		t.Fatalf("source = %q", got)
	}
	if d := res.Bag.Items()[0]; d.Code.ID() != "AST02" {
		t.Fatalf("diagnostic = %s, want AST02", d.Code.ID())
	}
}
