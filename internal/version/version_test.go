package version

import (
	"testing"

	"github.com/fatih/color"
)

func withPlainColor(t *testing.T) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })
}

func override(t *testing.T, version, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = version, commit, date
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })
}

func TestColoredPlain(t *testing.T) {
	withPlainColor(t)
	tests := []struct {
		version string
		want    string
	}{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.0.0-beta.1", "1.0.0-beta.1"},
		{"nightly", "nightly"},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			override(t, tt.version, "", "")
			if got := Colored(); got != tt.want {
				t.Errorf("Colored() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBanner(t *testing.T) {
	withPlainColor(t)

	override(t, "1.2.3", "", "")
	if got, want := Banner(), "pyrewrite 1.2.3\n"; got != want {
		t.Errorf("Banner() = %q, want %q", got, want)
	}

	override(t, "1.2.3", "abc123", "2024-01-15T10:30:00Z")
	want := "pyrewrite 1.2.3\ncommit: abc123\nbuilt:  2024-01-15T10:30:00Z\n"
	if got := Banner(); got != want {
		t.Errorf("Banner() = %q, want %q", got, want)
	}
}
