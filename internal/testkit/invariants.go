// Package testkit holds checks shared by the tests of several packages.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"pyrewrite/internal/pyast"
	"pyrewrite/internal/source"
)

// CheckSpanInvariants runs a minimal set of location invariants on a parsed
// module:
// 1) every span points into the module's file and within its content
// 2) every node's line and column agree with its span start
// 3) statements nest inside their parent and follow each other in order
//
// Trees with synthesized nodes (fix or rewrite output) do not satisfy 3.
func CheckSpanInvariants(fs *source.FileSet, mod *pyast.Module) error {
	if fs == nil || mod == nil {
		return fmt.Errorf("nil file set or module")
	}
	file := mod.Span.File
	if int(file) >= fs.Len() {
		return fmt.Errorf("module span points to unknown file %d", file)
	}
	sf := fs.Get(file)
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var walk func(parent pyast.Node) error
	walk = func(parent pyast.Node) error {
		ploc := parent.Location()
		var prev *pyast.Loc
		for _, child := range pyast.Children(parent) {
			loc := child.Location()
			if err := checkNode(fs, sf, lenContent, child, loc); err != nil {
				return err
			}
			if isBlockItem(child) {
				// 3) nesting and order
				if !ploc.Span.Contains(loc.Span) {
					return fmt.Errorf("%s span %v is outside its parent %s %v", child.Kind(), loc.Span, parent.Kind(), ploc.Span)
				}
				if prev != nil && loc.Span.Start < prev.Span.End {
					return fmt.Errorf("%s at %d:%d overlaps the previous statement", child.Kind(), loc.Line, loc.Col)
				}
				prev = &loc
			}
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}

	if mod.Span.End > lenContent {
		return fmt.Errorf("module span end beyond content: %d > %d", mod.Span.End, lenContent)
	}
	return walk(mod)
}

func checkNode(fs *source.FileSet, sf *source.File, lenContent uint32, n pyast.Node, loc pyast.Loc) error {
	// 1) file and bounds
	if !loc.Valid() {
		return fmt.Errorf("%s has no location", n.Kind())
	}
	if loc.Span.File != sf.ID {
		return fmt.Errorf("%s span file mismatch: got=%d want=%d", n.Kind(), loc.Span.File, sf.ID)
	}
	if loc.Span.End < loc.Span.Start || loc.Span.End > lenContent {
		return fmt.Errorf("%s span %v is out of bounds (content %d bytes)", n.Kind(), loc.Span, lenContent)
	}
	// 2) position agrees with span
	start, _ := fs.Resolve(loc.Span)
	if start.Line != loc.Line || start.Col != loc.Col {
		return fmt.Errorf("%s at %d:%d but its span starts at %d:%d", n.Kind(), loc.Line, loc.Col, start.Line, start.Col)
	}
	return nil
}

func isBlockItem(n pyast.Node) bool {
	switch n.(type) {
	case *pyast.ExceptHandler, *pyast.MatchCase:
		return true
	}
	_, ok := n.(pyast.Stmt)
	return ok
}
