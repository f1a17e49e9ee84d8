package rewrite

import (
	"fmt"

	"pyrewrite/internal/pyast"
)

// UnsupportedShapeError reports an expression the extractor does not
// descend into.
type UnsupportedShapeError struct {
	Kind string // node kind, or the grammar type for raw expressions
	Loc  pyast.Loc
	Text string
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("%d:%d: unsupported expression %s: %s", e.Loc.Line, e.Loc.Col, e.Kind, e.Text)
}

// VariableSet is an ordered set of identifier names, in order of first
// appearance.
type VariableSet struct {
	Names []string
	// Partial is set in degrade mode when some operand could not be
	// inspected; Names then holds what was collected around it.
	Partial bool
}

func (s *VariableSet) add(name string) {
	for _, n := range s.Names {
		if n == name {
			return
		}
	}
	s.Names = append(s.Names, name)
}

func (s VariableSet) Len() int { return len(s.Names) }

// ExtractVariables collects the names referenced by expr. Names, unary,
// boolean, binary and comparison nodes are descended into; constants are
// leaves. Any other node fails with *UnsupportedShapeError when strict is
// set, and is skipped with Partial set otherwise.
func ExtractVariables(expr pyast.Expr, strict bool) (VariableSet, error) {
	var set VariableSet
	if err := collect(expr, strict, &set); err != nil {
		return VariableSet{}, err
	}
	return set, nil
}

func collect(e pyast.Expr, strict bool, set *VariableSet) error {
	switch x := e.(type) {
	case *pyast.Name:
		set.add(x.ID)
	case *pyast.Constant:
	case *pyast.UnaryOp:
		return collect(x.Operand, strict, set)
	case *pyast.BoolOp:
		for _, v := range x.Values {
			if err := collect(v, strict, set); err != nil {
				return err
			}
		}
	case *pyast.BinOp:
		if err := collect(x.Left, strict, set); err != nil {
			return err
		}
		return collect(x.Right, strict, set)
	case *pyast.Compare:
		if err := collect(x.Left, strict, set); err != nil {
			return err
		}
		for _, c := range x.Comparators {
			if err := collect(c, strict, set); err != nil {
				return err
			}
		}
	default:
		if strict {
			return unsupported(e)
		}
		set.Partial = true
	}
	return nil
}

func unsupported(e pyast.Expr) *UnsupportedShapeError {
	kind := e.Kind().String()
	if raw, ok := e.(*pyast.RawExpr); ok {
		kind = raw.Type
	}
	return &UnsupportedShapeError{Kind: kind, Loc: e.Location(), Text: exprText(e)}
}
