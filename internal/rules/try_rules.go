package rules

import (
	"pyrewrite/internal/diag"
	"pyrewrite/internal/fix"
	"pyrewrite/internal/pyast"
	"pyrewrite/internal/source"
)

// DefaultExceptType is what a bare handler is rewritten to catch.
const DefaultExceptType = "Exception"

// BareExcept flags `except:` clauses that name no exception type.
// Every handler is a candidate; the parser already rejects a bare handler
// that is not the last one.
type BareExcept struct {
	// TypeName replaces the missing type when fixing; empty means Exception.
	TypeName string
}

func (BareExcept) Code() diag.Code     { return diag.TryBareExcept }
func (BareExcept) Name() string        { return "bare-except" }
func (BareExcept) Kinds() []pyast.Kind { return []pyast.Kind{pyast.KindTry} }

func (r BareExcept) typeName() string {
	if r.TypeName == "" {
		return DefaultExceptType
	}
	return r.TypeName
}

func (r BareExcept) Check(n pyast.Node) []diag.Diagnostic {
	try, ok := n.(*pyast.Try)
	if !ok {
		return nil
	}
	var out []diag.Diagnostic
	for _, h := range try.Handlers {
		if h.Type != nil {
			continue
		}
		d := at(diag.TryBareExcept, h.Loc, "bare exception")
		out = append(out, d.WithFixSuggestion(r.edit(h)))
	}
	return out
}

// edit inserts the type name right after the except keyword.
func (r BareExcept) edit(h *pyast.ExceptHandler) *diag.Fix {
	pos := source.At(h.Span.File, h.Span.Start+uint32(len("except")))
	return fix.InsertText("catch "+r.typeName()+" explicitly", pos, " "+r.typeName(),
		fix.WithID(diag.TryBareExcept.ID()), fix.Preferred())
}

// Fix returns a new Try whose bare handlers name the configured type.
func (r BareExcept) Fix(n pyast.Node) (pyast.Node, []diag.Diagnostic) {
	try, ok := n.(*pyast.Try)
	if !ok {
		return n, nil
	}
	var (
		handlers []*pyast.ExceptHandler
		fixed    []diag.Diagnostic
	)
	for i, h := range try.Handlers {
		if h.Type != nil {
			if handlers != nil {
				handlers = append(handlers, h)
			}
			continue
		}
		if handlers == nil {
			handlers = append(make([]*pyast.ExceptHandler, 0, len(try.Handlers)), try.Handlers[:i]...)
		}
		cp := *h
		cp.Type = pyast.NewName(r.typeName())
		handlers = append(handlers, &cp)
		fixed = append(fixed, at(diag.TryBareExcept, h.Loc, "bare exception").AsFixed())
	}
	if handlers == nil {
		return n, nil
	}
	out := *try
	out.Handlers = handlers
	return &out, fixed
}

// EmptyExcept flags handlers whose whole body is one placeholder statement.
// There is no fixer: choosing the recovery action is left to the author.
type EmptyExcept struct{}

func (EmptyExcept) Code() diag.Code     { return diag.TryEmptyExcept }
func (EmptyExcept) Name() string        { return "empty-except" }
func (EmptyExcept) Kinds() []pyast.Kind { return []pyast.Kind{pyast.KindTry} }

func (EmptyExcept) Check(n pyast.Node) []diag.Diagnostic {
	try, ok := n.(*pyast.Try)
	if !ok {
		return nil
	}
	var out []diag.Diagnostic
	for _, h := range try.Handlers {
		if len(h.Body) == 1 && pyast.IsPlaceholder(h.Body[0]) {
			out = append(out, at(diag.TryEmptyExcept, h.Body[0].Location(), "empty except body"))
		}
	}
	return out
}
