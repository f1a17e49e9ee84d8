package source

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

const defaultEncoding = "utf-8"

// PEP 263: only the first two lines may carry the cookie.
var codingCookie = regexp.MustCompile(`^[ \t\f]*#.*?coding[:=][ \t]*([-\w.]+)`)
var blankOrComment = regexp.MustCompile(`^[ \t\f]*(?:[#\r\n]|$)`)

// CodingCookie returns the normalized encoding declared in the first two
// lines of src, or "" when there is none.
func CodingCookie(src []byte) string {
	for i, line := range firstLines(src, 2) {
		if m := codingCookie.FindSubmatch(line); m != nil {
			return normalizeEncodingName(string(m[1]))
		}
		if i == 0 && !blankOrComment.Match(line) {
			break
		}
	}
	return ""
}

func firstLines(src []byte, n int) [][]byte {
	out := make([][]byte, 0, n)
	for len(out) < n && len(src) > 0 {
		idx := bytes.IndexByte(src, '\n')
		if idx < 0 {
			out = append(out, src)
			break
		}
		out = append(out, src[:idx])
		src = src[idx+1:]
	}
	return out
}

// normalizeEncodingName follows the aliasing the Python tokenizer applies.
func normalizeEncodingName(name string) string {
	enc := strings.ReplaceAll(strings.ToLower(name), "_", "-")
	switch {
	case enc == "utf-8" || strings.HasPrefix(enc, "utf-8-"), enc == "utf8":
		return "utf-8"
	case enc == "latin-1", enc == "iso-8859-1", enc == "iso-latin-1",
		strings.HasPrefix(enc, "latin-1-"), strings.HasPrefix(enc, "iso-8859-1-"), strings.HasPrefix(enc, "iso-latin-1-"):
		return "iso-8859-1"
	}
	return enc
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err == nil && enc != nil {
		return enc, nil
	}
	// WHATWG labels cover spellings like cp1252
	if enc, herr := htmlindex.Get(name); herr == nil {
		return enc, nil
	}
	return nil, fmt.Errorf("unknown encoding: %s", name)
}

// decodeSource turns raw file bytes into normalized UTF-8 content.
func decodeSource(raw []byte) ([]byte, FileFlags, string, error) {
	var flags FileFlags
	content, hadBOM := removeBOM(raw)
	if hadBOM {
		flags |= FileHadBOM
	}

	name := CodingCookie(content)
	if name == "" {
		name = defaultEncoding
	}
	if name != defaultEncoding {
		if hadBOM {
			return nil, 0, "", fmt.Errorf("encoding problem: %s with BOM", name)
		}
		enc, err := lookupEncoding(name)
		if err != nil {
			return nil, 0, "", err
		}
		decoded, err := enc.NewDecoder().Bytes(content)
		if err != nil {
			return nil, 0, "", fmt.Errorf("decode %s: %w", name, err)
		}
		content = decoded
		flags |= FileDecoded
	}

	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return content, flags, name, nil
}

// Preamble returns the leading lines of f that a regenerated text has to
// keep: the shebang and the line with the coding cookie, plus whatever sits
// between them. It is empty when f has neither.
func (f *File) Preamble() string {
	lines := firstLines(f.Content, 2)
	keep := 0
	for i, line := range lines {
		if codingCookie.Match(line) {
			keep = i + 1
			break
		}
		if i == 0 && !blankOrComment.Match(line) {
			break
		}
	}
	if keep == 0 && len(lines) > 0 && bytes.HasPrefix(lines[0], []byte("#!")) {
		keep = 1
	}
	var b strings.Builder
	for _, line := range lines[:keep] {
		b.Write(line)
		b.WriteByte('\n')
	}
	return b.String()
}
