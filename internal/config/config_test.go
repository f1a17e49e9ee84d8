package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyrewrite.toml")
	writeFile(t, path, `
select = ["TRY", "FUN02"]
ignore = ["TRY02"]
fix = true
fix-mode = "edit"

[assert]
strict = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	want.Path = path
	want.Select = []string{"TRY", "FUN02"}
	want.Ignore = []string{"TRY02"}
	want.Fix = true
	want.FixMode = FixModeEdit
	want.Assert.Strict = true
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".pyrewrite.yaml")
	writeFile(t, path, "format: json\nbare-except-type: BaseException\nassert:\n  raise: true\n  python: /usr/bin/python3.12\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format != "json" || cfg.BareExceptType != "BaseException" || !cfg.Assert.Raise || cfg.Assert.Python != "/usr/bin/python3.12" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.FixMode != FixModeUnparse {
		t.Fatalf("unset key lost its default: %q", cfg.FixMode)
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".pyrewrite.yml")
	writeFile(t, path, "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format != "short" {
		t.Fatalf("format = %q", cfg.Format)
	}
}

func TestLoadPyproject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyproject.toml")
	writeFile(t, path, `
[project]
name = "demo"

[tool.black]
line-length = 100

[tool.pyrewrite]
select = ["ALL"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff([]string{"ALL"}, cfg.Select); diff != "" {
		t.Fatalf("select mismatch (-want +got):\n%s", diff)
	}
	if cfg.BareExceptType != "Exception" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"unknown toml key", "pyrewrite.toml", "selekt = []\n", `unknown key "selekt"`},
		{"unknown yaml key", ".pyrewrite.yaml", "fixx: true\n", "field fixx not found"},
		{"bad fix mode", "pyrewrite.toml", "fix-mode = \"patch\"\n", "fix-mode must be"},
		{"bad format", "pyrewrite.toml", "format = \"xml\"\n", "format must be one of"},
		{"broken toml", "pyrewrite.toml", "select = [\n", "failed to parse TOML"},
		{"unknown pyproject key", "pyproject.toml", "[tool.pyrewrite]\nfoo = 1\n", `unknown key "tool.pyrewrite.foo"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "pkg", "sub")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	// pyproject without our table is skipped
	writeFile(t, filepath.Join(root, "pkg", "pyproject.toml"), "[project]\nname = \"x\"\n")
	writeFile(t, filepath.Join(root, "pyrewrite.toml"), "fix = true\n")

	got, err := Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if want := filepath.Join(root, "pyrewrite.toml"); got != want {
		t.Fatalf("Find = %q, want %q", got, want)
	}

	cfg, err := Discover(nested)
	if err != nil || !cfg.Fix {
		t.Fatalf("Discover = %+v, %v", cfg, err)
	}
}

func TestFindPrefersNearest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pyrewrite.toml"), "")
	writeFile(t, filepath.Join(root, "app", "pyproject.toml"), "[tool.pyrewrite]\nfix = true\n")

	got, err := Find(filepath.Join(root, "app"))
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if filepath.Base(got) != "pyproject.toml" {
		t.Fatalf("Find = %q", got)
	}
}

func TestDiscoverDefaults(t *testing.T) {
	dir := t.TempDir()
	if _, err := Find(dir); err != nil && !errors.Is(err, ErrNotFound) {
		t.Skipf("a parent of %s carries a configuration: %v", dir, err)
	} else if err == nil {
		t.Skipf("a parent of %s carries a configuration", dir)
	}
	cfg, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}
