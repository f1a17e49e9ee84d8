package rules

import (
	"pyrewrite/internal/diag"
	"pyrewrite/internal/pyast"
)

// dispatch groups rules by the node kinds they inspect.
type dispatch map[pyast.Kind][]Rule

func newDispatch(rs []Rule) dispatch {
	d := make(dispatch)
	for _, r := range rs {
		for _, k := range r.Kinds() {
			d[k] = append(d[k], r)
		}
	}
	return d
}

// Check runs rs over every node of the tree, nested ones included.
// Diagnostics come back in traversal order.
func Check(root pyast.Node, rs []Rule) []diag.Diagnostic {
	d := newDispatch(rs)
	var out []diag.Diagnostic
	pyast.Inspect(root, func(n pyast.Node) bool {
		for _, r := range d[n.Kind()] {
			out = append(out, r.Check(n)...)
		}
		return true
	})
	return out
}

// Fix rebuilds the tree applying every Fixer in rs, innermost nodes first.
// Rules without a fixer are skipped. The returned tree has locations
// filled in for synthesized nodes; root itself is left untouched.
func Fix(root *pyast.Module, rs []Rule) (*pyast.Module, []diag.Diagnostic) {
	fixers := make(map[pyast.Kind][]Fixer)
	for _, r := range rs {
		f, ok := r.(Fixer)
		if !ok {
			continue
		}
		for _, k := range f.Kinds() {
			fixers[k] = append(fixers[k], f)
		}
	}
	if len(fixers) == 0 {
		return root, nil
	}
	var fixed []diag.Diagnostic
	out := pyast.Rewrite(root, func(n pyast.Node) pyast.Node {
		for _, f := range fixers[n.Kind()] {
			var ds []diag.Diagnostic
			n, ds = f.Fix(n)
			fixed = append(fixed, ds...)
		}
		return n
	})
	if len(fixed) == 0 {
		return root, nil
	}
	return pyast.FixMissingLocations(out).(*pyast.Module), fixed
}

// Remaining returns the diagnostics in found that no fixer handled, so a fix
// run can still report what it left behind.
func Remaining(found, fixed []diag.Diagnostic) []diag.Diagnostic {
	type key struct {
		code      diag.Code
		line, col uint32
	}
	done := make(map[key]struct{}, len(fixed))
	for _, d := range fixed {
		done[key{d.Code, d.Line, d.Offset}] = struct{}{}
	}
	var out []diag.Diagnostic
	for _, d := range found {
		if _, ok := done[key{d.Code, d.Line, d.Offset}]; !ok {
			out = append(out, d)
		}
	}
	return out
}
