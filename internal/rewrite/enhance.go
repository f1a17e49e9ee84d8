// Package rewrite turns assert statements into guarded print calls that
// show the values involved when the assertion fails, power-assert style.
//
// The transform is source to source: the result is a new tree to be
// emitted as text, never something executed in process.
package rewrite

import (
	"fmt"

	"pyrewrite/internal/diag"
	"pyrewrite/internal/format"
	"pyrewrite/internal/pyast"
)

// Enhancer rewrites every assert of a module.
type Enhancer struct {
	// Path is printed at the start of each failure line.
	Path string
	// Strict aborts on a test expression that cannot be fully inspected.
	// Otherwise such asserts are kept or rewritten partially with a warning.
	Strict bool
	// Raise appends `raise AssertionError` after the print.
	Raise bool
}

// Enhance returns a rewritten copy of mod and one diagnostic per assert.
// In strict mode the first unsupported test stops the run: the returned
// error wraps *UnsupportedShapeError and the tree is nil.
func (e *Enhancer) Enhance(mod *pyast.Module) (*pyast.Module, []diag.Diagnostic, error) {
	var (
		diags   []diag.Diagnostic
		failed  error
		changed bool
	)
	out := pyast.Rewrite(mod, func(n pyast.Node) pyast.Node {
		a, ok := n.(*pyast.Assert)
		if !ok || failed != nil {
			return n
		}
		stmt, ds, err := e.rewriteAssert(a)
		diags = append(diags, ds...)
		if err != nil {
			failed = err
			return n
		}
		if stmt != pyast.Stmt(a) {
			changed = true
		}
		return stmt
	})
	if failed != nil {
		return nil, diags, failed
	}
	if !changed {
		return mod, diags, nil
	}
	return pyast.FixMissingLocations(out).(*pyast.Module), diags, nil
}

func (e *Enhancer) rewriteAssert(a *pyast.Assert) (pyast.Stmt, []diag.Diagnostic, error) {
	args := []pyast.Expr{pyast.Str(e.prefix(a)), repr(a.Test)}
	var diags []diag.Diagnostic

	switch a.Test.(type) {
	case *pyast.Name:
	case *pyast.Compare, *pyast.BinOp, *pyast.BoolOp, *pyast.UnaryOp:
		vars, err := ExtractVariables(a.Test, e.Strict)
		if err != nil {
			return nil, []diag.Diagnostic{e.abort(a, err)}, fmt.Errorf("assert at %d:%d: %w", a.Line, a.Col, err)
		}
		if vars.Partial {
			diags = append(diags, e.warn(a, "some operands are not shown in the failure message"))
		}
		args = append(args, variableArgs(vars.Names)...)
	default:
		if e.Strict {
			err := unsupported(a.Test)
			return nil, []diag.Diagnostic{e.abort(a, err)}, fmt.Errorf("assert at %d:%d: %w", a.Line, a.Col, err)
		}
		return a, []diag.Diagnostic{e.warn(a, fmt.Sprintf("assert left unchanged: unsupported test %s", exprText(a.Test)))}, nil
	}

	if a.Msg != nil {
		args = append(args, pyast.Str(": "), a.Msg)
	}
	call := pyast.NewCall(pyast.NewName("print"), args...).WithKeyword("sep", pyast.Str(""))
	body := []pyast.Stmt{pyast.NewExprStmt(call)}
	if e.Raise {
		body = append(body, pyast.NewRaise(pyast.NewName("AssertionError")))
	}

	stmt := pyast.NewIf(pyast.Not(a.Test), body...)
	stmt.Loc = a.Loc
	info := diag.New(diag.SevInfo, diag.AstEnhanced, a.Span, a.Line, a.Col, "assert rewritten: "+exprText(a.Test))
	return stmt, append([]diag.Diagnostic{info}, diags...), nil
}

// prefix is the constant head of the failure line.
func (e *Enhancer) prefix(a *pyast.Assert) string {
	return fmt.Sprintf("%s:%d:%d %s = ", e.Path, a.Line, a.Col, exprText(a.Test))
}

func (e *Enhancer) warn(a *pyast.Assert, msg string) diag.Diagnostic {
	return diag.New(diag.SevWarning, diag.AstUnsupported, a.Span, a.Line, a.Col, msg)
}

func (e *Enhancer) abort(a *pyast.Assert, err error) diag.Diagnostic {
	return diag.NewError(diag.AstStrictAbort, a.Span, a.Line, a.Col, err.Error())
}

// variableArgs renders ` (a=`, repr(a), `, b=`, repr(b), `)`.
func variableArgs(names []string) []pyast.Expr {
	if len(names) == 0 {
		return nil
	}
	out := make([]pyast.Expr, 0, 2*len(names)+1)
	for i, name := range names {
		sep := ", "
		if i == 0 {
			sep = " ("
		}
		out = append(out, pyast.Str(sep+name+"="), repr(pyast.NewName(name)))
	}
	return append(out, pyast.Str(")"))
}

func repr(e pyast.Expr) pyast.Expr {
	return pyast.NewCall(pyast.NewName("repr"), e)
}

func exprText(e pyast.Expr) string {
	return format.ExprString(e)
}
