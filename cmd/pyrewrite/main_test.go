package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags puts every flag back to its default; the command tree is
// package state shared by all tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func executeCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--ui", "off", "--color", "off"}, args...))
	err = rootCmd.ExecuteContext(context.Background())
	stopProfiling()
	return out.String(), errOut.String(), err
}

// workspace creates a directory with an empty configuration file so that
// discovery never escapes into the real tree.
func workspace(t *testing.T, files map[string]string) (dir, cfg string) {
	t.Helper()
	dir = t.TempDir()
	cfg = filepath.Join(dir, "pyrewrite.toml")
	files["pyrewrite.toml"] = ""
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir, cfg
}

func TestCheckFixScenario(t *testing.T) {
	dir, cfg := workspace(t, map[string]string{
		"m.py": "try:\n    x = 1\nexcept:\n    x = 2\n",
	})
	path := filepath.ToSlash(filepath.Join(dir, "m.py"))

	stdout, _, err := executeCLI(t, "--config", cfg, "--quiet", "check", "--fullpath", path)
	if !errors.Is(err, errViolations) {
		t.Fatalf("check error = %v, want errViolations", err)
	}
	if want := path + ":3:0: TRY01 Found bare exception\n"; stdout != want {
		t.Fatalf("check output = %q, want %q", stdout, want)
	}

	stdout, _, err = executeCLI(t, "--config", cfg, "--quiet", "check", "--fullpath", "--fix", path)
	if !errors.Is(err, errViolations) {
		t.Fatalf("fix error = %v, want errViolations", err)
	}
	if want := path + ":3:0: TRY01 Fixed bare exception\n"; stdout != want {
		t.Fatalf("fix output = %q, want %q", stdout, want)
	}

	stdout, _, err = executeCLI(t, "--config", cfg, "--quiet", "check", path)
	if err != nil {
		t.Fatalf("check after fix: %v", err)
	}
	if stdout != "" {
		t.Fatalf("unexpected output after fix: %q", stdout)
	}
}

func TestCheckFixModeNote(t *testing.T) {
	dir, cfg := workspace(t, map[string]string{
		"a.py": "# keep me\ntry:\n    x = 1\nexcept:\n    x = 2\n",
		"b.py": "# keep me\ntry:\n    x = 1\nexcept:\n    x = 2\n",
	})

	_, stderr, err := executeCLI(t, "--config", cfg, "check", "--fix", filepath.Join(dir, "a.py"))
	if !errors.Is(err, errViolations) {
		t.Fatalf("fix error = %v, want errViolations", err)
	}
	if !strings.Contains(stderr, "note: 1 files were regenerated") {
		t.Fatalf("unparse note missing from stderr:\n%s", stderr)
	}

	_, stderr, err = executeCLI(t, "--config", cfg, "check", "--fix", "--fix-mode", "edit", filepath.Join(dir, "b.py"))
	if !errors.Is(err, errViolations) {
		t.Fatalf("edit fix error = %v, want errViolations", err)
	}
	if strings.Contains(stderr, "regenerated") {
		t.Fatalf("edit mode should not print the note:\n%s", stderr)
	}
	data, err := os.ReadFile(filepath.Join(dir, "b.py"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasPrefix(string(data), "# keep me\n") {
		t.Fatalf("edit mode dropped the comment:\n%s", data)
	}
}

func TestCheckSelectAndSummary(t *testing.T) {
	dir, cfg := workspace(t, map[string]string{
		"m.py": "def f():\n    ...\n",
	})
	path := filepath.Join(dir, "m.py")

	stdout, stderr, err := executeCLI(t, "--config", cfg, "check", "--fullpath", "--select", "FUN", "--ignore", "FUN01", path)
	if !errors.Is(err, errViolations) {
		t.Fatalf("check error = %v, want errViolations", err)
	}
	if !strings.Contains(stdout, ":2:4: FUN02 Found '...' detected as placeholder") {
		t.Fatalf("missing FUN02 finding:\n%s", stdout)
	}
	if strings.Contains(stdout, "FUN01") {
		t.Fatalf("ignored rule reported:\n%s", stdout)
	}
	if !strings.Contains(stderr, "Found 1 violations in 1 files.") {
		t.Fatalf("summary missing from stderr:\n%s", stderr)
	}

	if _, _, err := executeCLI(t, "--config", cfg, "check", "--select", "NOPE", path); err == nil || errors.Is(err, errViolations) {
		t.Fatalf("unknown selector error = %v", err)
	}
}

func TestCheckJSONFormat(t *testing.T) {
	dir, cfg := workspace(t, map[string]string{
		"m.py": "try:\n    x = 1\nexcept:\n    x = 2\n",
	})
	stdout, _, err := executeCLI(t, "--config", cfg, "check", "--format", "json", filepath.Join(dir, "m.py"))
	if !errors.Is(err, errViolations) {
		t.Fatalf("check error = %v, want errViolations", err)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
}

func TestAssertPrintsRewrittenProgram(t *testing.T) {
	dir, cfg := workspace(t, map[string]string{
		"prog.py": "a = 1\nb = 2\nassert a == b\n",
	})
	stdout, _, err := executeCLI(t, "--config", cfg, "assert", filepath.Join(dir, "prog.py"))
	if err != nil {
		t.Fatalf("assert: %v", err)
	}
	if !strings.Contains(stdout, "if not a == b:\n    print(") {
		t.Fatalf("rewritten program missing:\n%s", stdout)
	}
	if !strings.Contains(stdout, "' (a=', repr(a), ', b=', repr(b), ')', sep='')") {
		t.Fatalf("variable values missing:\n%s", stdout)
	}
}

func TestAssertStrictFails(t *testing.T) {
	dir, cfg := workspace(t, map[string]string{
		"prog.py": "assert f(a)\n",
	})
	_, stderr, err := executeCLI(t, "--config", cfg, "assert", "--strict", filepath.Join(dir, "prog.py"))
	if !errors.Is(err, errViolations) {
		t.Fatalf("assert error = %v, want errViolations", err)
	}
	if !strings.Contains(stderr, "AST03") {
		t.Fatalf("AST03 missing from stderr:\n%s", stderr)
	}
}

func TestUnparseCheck(t *testing.T) {
	dir, cfg := workspace(t, map[string]string{
		"m.py": "def f(a, b=1):\n    if a:\n        return b\n    return None\n",
	})
	stdout, _, err := executeCLI(t, "--config", cfg, "unparse", "--check", filepath.Join(dir, "m.py"))
	if err != nil {
		t.Fatalf("unparse --check: %v", err)
	}
	if !strings.HasSuffix(stdout, "round trip ok\n") {
		t.Fatalf("output = %q", stdout)
	}
}

func TestRulesListing(t *testing.T) {
	stdout, _, err := executeCLI(t, "rules")
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d rules:\n%s", len(lines), stdout)
	}
	if !strings.HasPrefix(lines[0], "TRY01  on ") || !strings.HasSuffix(lines[0], "(fixable)") {
		t.Fatalf("first line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[3], "FUN02  off") {
		t.Fatalf("last line = %q", lines[3])
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := executeCLI(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Tool != "pyrewrite" || payload.Version == "" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{" ON ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("readUIMode(%q) = %q, %v", tt.in, got, err)
		}
	}
	if shouldUseTUI(uiModeAuto, 1) {
		t.Errorf("auto mode should not draw progress for one file")
	}
}

func TestApplyColorModeRejectsUnknown(t *testing.T) {
	if err := applyColorMode("rainbow"); err == nil {
		t.Fatalf("expected error")
	}
}
