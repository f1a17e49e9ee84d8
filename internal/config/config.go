// Package config loads pyrewrite settings from pyrewrite.toml,
// [tool.pyrewrite] in pyproject.toml, or .pyrewrite.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by Find when no configuration file exists in the
// start directory or any of its parents.
var ErrNotFound = errors.New("no pyrewrite configuration found")

// Config holds the settings shared by the check and assert commands.
// Command-line flags override them.
type Config struct {
	// Path is the file the settings came from; empty for defaults.
	Path string `toml:"-" yaml:"-"`

	Select         []string     `toml:"select" yaml:"select"`
	Ignore         []string     `toml:"ignore" yaml:"ignore"`
	Fix            bool         `toml:"fix" yaml:"fix"`
	FixMode        string       `toml:"fix-mode" yaml:"fix-mode"`
	Format         string       `toml:"format" yaml:"format"`
	BareExceptType string       `toml:"bare-except-type" yaml:"bare-except-type"`
	Assert         AssertConfig `toml:"assert" yaml:"assert"`
}

type AssertConfig struct {
	Strict bool   `toml:"strict" yaml:"strict"`
	Raise  bool   `toml:"raise" yaml:"raise"`
	Python string `toml:"python" yaml:"python"`
}

const (
	FixModeUnparse = "unparse"
	FixModeEdit    = "edit"
)

// Formats lists the accepted values of the format key.
var Formats = []string{"short", "pretty", "json", "sarif"}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		FixMode:        FixModeUnparse,
		Format:         "short",
		BareExceptType: "Exception",
		Assert:         AssertConfig{Python: "python3"},
	}
}

// candidates are checked in this order inside each directory.
var candidates = []string{"pyrewrite.toml", ".pyrewrite.yaml", ".pyrewrite.yml", "pyproject.toml"}

// Find walks up from startDir and returns the first configuration file.
// A pyproject.toml only counts when it has a [tool.pyrewrite] table.
func Find(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range candidates {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
			if name == "pyproject.toml" {
				ok, err := hasToolTable(candidate)
				if err != nil {
					return "", err
				}
				if !ok {
					continue
				}
			}
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ErrNotFound
}

// Discover loads the configuration found from startDir, or the defaults
// when there is none.
func Discover(startDir string) (Config, error) {
	path, err := Find(startDir)
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	return Load(path)
}

// Load reads one configuration file; the format follows the file name.
// Unset keys keep their defaults and unknown keys are an error.
func Load(path string) (Config, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch {
	case filepath.Base(path) == "pyproject.toml":
		err = decodePyproject(data, &cfg)
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		err = decodeYAML(data, &cfg)
	default:
		err = decodeTOML(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func decodeTOML(data []byte, cfg *Config) error {
	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}
	return undecoded(meta, nil)
}

func decodePyproject(data []byte, cfg *Config) error {
	doc := struct {
		Tool struct {
			Pyrewrite Config `toml:"pyrewrite"`
		} `toml:"tool"`
	}{}
	doc.Tool.Pyrewrite = *cfg
	meta, err := toml.Decode(string(data), &doc)
	if err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}
	if !meta.IsDefined("tool", "pyrewrite") {
		return fmt.Errorf("missing [tool.pyrewrite]")
	}
	*cfg = doc.Tool.Pyrewrite
	return undecoded(meta, []string{"tool", "pyrewrite"})
}

// undecoded rejects unknown keys below prefix; other tables of a shared
// file such as pyproject.toml are not ours to check.
func undecoded(meta toml.MetaData, prefix []string) error {
	for _, key := range meta.Undecoded() {
		if len(key) <= len(prefix) || !hasPrefix(key, prefix) {
			continue
		}
		return fmt.Errorf("unknown key %q", key.String())
	}
	return nil
}

func hasPrefix(key toml.Key, prefix []string) bool {
	for i, p := range prefix {
		if key[i] != p {
			return false
		}
	}
	return true
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func hasToolTable(path string) (bool, error) {
	var doc map[string]any
	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return false, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return meta.IsDefined("tool", "pyrewrite"), nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch c.FixMode {
	case FixModeUnparse, FixModeEdit:
	default:
		return fmt.Errorf("fix-mode must be %q or %q, got %q", FixModeUnparse, FixModeEdit, c.FixMode)
	}
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("format must be one of %s, got %q", strings.Join(Formats, ", "), c.Format)
	}
	if strings.TrimSpace(c.BareExceptType) == "" {
		return fmt.Errorf("bare-except-type must not be empty")
	}
	return nil
}
