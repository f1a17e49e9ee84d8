package rules

import (
	"fmt"

	"pyrewrite/internal/diag"
	"pyrewrite/internal/fix"
	"pyrewrite/internal/pyast"
)

// placeholderBody returns the lone placeholder statement of a function body,
// allowing one leading docstring. It returns nil for any other shape.
func placeholderBody(body []pyast.Stmt) pyast.Stmt {
	if len(body) == 2 && pyast.IsDocstring(body[0]) {
		body = body[1:]
	}
	if len(body) == 1 && pyast.IsPlaceholder(body[0]) {
		return body[0]
	}
	return nil
}

// PlaceholderBody flags functions whose body does nothing.
type PlaceholderBody struct{}

func (PlaceholderBody) Code() diag.Code     { return diag.FunPlaceholderBody }
func (PlaceholderBody) Name() string        { return "placeholder-body" }
func (PlaceholderBody) Kinds() []pyast.Kind { return []pyast.Kind{pyast.KindFunctionDef} }

func (PlaceholderBody) Check(n pyast.Node) []diag.Diagnostic {
	fn, ok := n.(*pyast.FunctionDef)
	if !ok {
		return nil
	}
	stmt := placeholderBody(fn.Body)
	if stmt == nil {
		return nil
	}
	msg := fmt.Sprintf("placeholder function body in '%s'", fn.Name)
	return []diag.Diagnostic{at(diag.FunPlaceholderBody, stmt.Location(), msg).WithSubject(fn.Name)}
}

// EllipsisBody flags `...` used as the body of a function and rewrites it
// to pass. It is opt-in: stubs in .pyi-style code use ... on purpose.
type EllipsisBody struct{}

const ellipsisMessage = "'...' detected as placeholder for empty function body, use 'pass' instead"

func (EllipsisBody) Code() diag.Code     { return diag.FunEllipsisBody }
func (EllipsisBody) Name() string        { return "ellipsis-body" }
func (EllipsisBody) Kinds() []pyast.Kind { return []pyast.Kind{pyast.KindFunctionDef} }

func (EllipsisBody) match(n pyast.Node) (*pyast.FunctionDef, *pyast.ExprStmt) {
	fn, ok := n.(*pyast.FunctionDef)
	if !ok {
		return nil, nil
	}
	es, ok := placeholderBody(fn.Body).(*pyast.ExprStmt)
	if !ok {
		return nil, nil
	}
	return fn, es
}

func (r EllipsisBody) Check(n pyast.Node) []diag.Diagnostic {
	fn, es := r.match(n)
	if fn == nil {
		return nil
	}
	d := at(diag.FunEllipsisBody, es.Loc, ellipsisMessage).WithSubject(fn.Name)
	edit := fix.ReplaceSpan("replace ... with pass", es.Span, "pass", "...",
		fix.WithID(diag.FunEllipsisBody.ID()), fix.Preferred())
	return []diag.Diagnostic{d.WithFixSuggestion(edit)}
}

func (r EllipsisBody) Fix(n pyast.Node) (pyast.Node, []diag.Diagnostic) {
	fn, es := r.match(n)
	if fn == nil {
		return n, nil
	}
	body := append([]pyast.Stmt(nil), fn.Body...)
	body[len(body)-1] = &pyast.Pass{Loc: es.Loc}
	out := *fn
	out.Body = body
	d := at(diag.FunEllipsisBody, es.Loc, ellipsisMessage).WithSubject(fn.Name).AsFixed()
	return &out, []diag.Diagnostic{d}
}
