package fuzztests

import (
	"context"
	"errors"
	"testing"
	"time"

	"pyrewrite/internal/format"
	"pyrewrite/internal/parser"
	"pyrewrite/internal/pyast"
	"pyrewrite/internal/rewrite"
	"pyrewrite/internal/rules"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

// FuzzParserNoHang tests that the parser returns on any input, either a
// tree or an error.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("def f(:\n    pass\n"))
	f.Add([]byte("try:\nexcept\n"))
	f.Add([]byte("\tif x:\n  \ty\n"))
	f.Add([]byte("# -*- coding: latin-1 -*-\nx = '\xe9'\n"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = parser.ParseSource(ctx, "fuzz.py", input)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// FuzzRoundTrip checks that every tree the parser accepts survives
// unparse and reparse unchanged, and that fixing and assert rewriting
// produce source that still parses.
func FuzzRoundTrip(f *testing.F) {
	addCorpusSeeds(f)
	reg := rules.Default(rules.Options{})
	all, err := reg.Select([]string{"ALL"}, nil)
	if err != nil {
		f.Fatalf("Select: %v", err)
	}

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx := context.Background()

		mod, err := parser.ParseSource(ctx, "fuzz.py", input)
		if err != nil {
			return
		}
		text, err := format.Unparse(mod)
		if err != nil {
			t.Fatalf("unparse: %v\ninput: %q", err, truncateForLog(input, 200))
		}
		again, err := parser.ParseSource(ctx, "fuzz.py", []byte(text))
		if err != nil {
			t.Fatalf("unparsed source does not parse: %v\ninput: %q\noutput: %q", err, truncateForLog(input, 200), text)
		}
		if pyast.Dump(again) != pyast.Dump(mod) {
			t.Fatalf("round trip changed the tree\ninput: %q\noutput: %q", truncateForLog(input, 200), text)
		}

		fixed, _ := rules.Fix(mod, all)
		mustReparse(t, "fixed", fixed, input)

		enhanced, _, err := (&rewrite.Enhancer{Path: "fuzz.py"}).Enhance(mod)
		if err != nil {
			t.Fatalf("degrade mode must not fail: %v", err)
		}
		mustReparse(t, "enhanced", enhanced, input)

		var shape *rewrite.UnsupportedShapeError
		if _, _, err := (&rewrite.Enhancer{Path: "fuzz.py", Strict: true}).Enhance(mod); err != nil && !errors.As(err, &shape) {
			t.Fatalf("strict mode failed with %T: %v", err, err)
		}
	})
}

func mustReparse(t *testing.T, what string, mod *pyast.Module, input []byte) {
	t.Helper()
	text, err := format.Unparse(mod)
	if err != nil {
		t.Fatalf("unparse %s tree: %v\ninput: %q", what, err, truncateForLog(input, 200))
	}
	if _, err := parser.ParseSource(context.Background(), "fuzz.py", []byte(text)); err != nil {
		t.Fatalf("%s source does not parse: %v\noutput: %q", what, err, text)
	}
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
