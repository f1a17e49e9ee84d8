package source

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"
)

// ErrEmptyPath is returned by ResolvePath for blank input.
var ErrEmptyPath = errors.New("empty path")

// ResolvePath trims surrounding whitespace and makes p absolute.
func ResolvePath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", ErrEmptyPath
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns target relative to baseDir, or the cleaned target
// itself when it lies outside baseDir.
func RelativePath(target, baseDir string) (string, error) {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(absTarget), nil
	}
	return normalizePath(rel), nil
}

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}
	out := make([]byte, 0, len(content))
	changed := false
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			changed = true
			continue
		}
		out = append(out, content[i])
	}
	return out, changed
}

func restoreCRLF(content []byte) []byte {
	out := make([]byte, 0, len(content)+len(content)/32)
	for _, b := range content {
		if b == '\n' {
			out = append(out, '\r')
		}
		out = append(out, b)
	}
	return out
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, 64)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) //nolint:gosec // file size fits FileSet limits
		}
	}
	return out
}

// toLineCol maps a byte offset to a 1-based line and 0-based column.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// число переводов строки строго до off
	n, _ := slices.BinarySearch(lineIdx, off)
	if n == 0 {
		return LineCol{Line: 1, Col: off}
	}
	startOff := lineIdx[n-1] + 1
	return LineCol{Line: uint32(n + 1), Col: off - startOff} //nolint:gosec // n <= len(lineIdx)
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
