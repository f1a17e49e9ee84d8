package format

import (
	"errors"
	"fmt"

	"pyrewrite/internal/pyast"
)

// ErrMissingLocation is returned when a node has no source position.
// Run pyast.FixMissingLocations on rewritten trees first.
var ErrMissingLocation = errors.New("node without location")

// Unparse regenerates source text for a module, a statement or an expression.
func Unparse(n pyast.Node) (string, error) {
	return UnparseWith(n, Options{})
}

// UnparseWith is Unparse with explicit indentation options.
func UnparseWith(n pyast.Node, opt Options) (string, error) {
	if n == nil {
		return "", errors.New("format: nil node")
	}
	if err := checkLocations(n); err != nil {
		return "", err
	}
	p := &printer{w: NewWriter(opt)}
	switch x := n.(type) {
	case *pyast.Module:
		p.block(x.Body, false)
	case pyast.Stmt:
		p.stmt(x)
	case pyast.Expr:
		p.expr(x, precTest)
	default:
		return "", fmt.Errorf("format: cannot unparse %s on its own", n.Kind())
	}
	return string(p.w.Bytes()), nil
}

// ExprString renders an expression the way it would appear as an assert
// test. Positions are not required.
func ExprString(e pyast.Expr) string {
	p := &printer{w: NewWriter(Options{})}
	p.expr(e, precTest)
	return string(p.w.Bytes())
}

func checkLocations(n pyast.Node) error {
	var missing pyast.Node
	pyast.Inspect(n, func(c pyast.Node) bool {
		if missing != nil {
			return false
		}
		if !c.Location().Valid() {
			missing = c
			return false
		}
		return true
	})
	if missing != nil {
		return fmt.Errorf("%w: %s", ErrMissingLocation, missing.Kind())
	}
	return nil
}

type printer struct {
	w *Writer
}

func (p *printer) line(parts ...string) {
	p.w.Newline()
	for _, s := range parts {
		p.w.WriteString(s)
	}
}

// block prints statements at the current indentation; an empty block
// becomes pass.
func (p *printer) block(body []pyast.Stmt, indent bool) {
	if indent {
		p.w.IndentPush()
		defer p.w.IndentPop()
	}
	if len(body) == 0 && indent {
		p.line("pass")
		return
	}
	for i, s := range body {
		if i > 0 && isDefinition(s) {
			p.w.BlankLine()
		}
		p.stmt(s)
	}
	p.w.Newline()
}

func isDefinition(s pyast.Stmt) bool {
	switch s.(type) {
	case *pyast.FunctionDef, *pyast.ClassDef:
		return true
	}
	return false
}

func (p *printer) stmt(s pyast.Stmt) {
	switch x := s.(type) {
	case *pyast.Pass:
		p.line("pass")
	case *pyast.Break:
		p.line("break")
	case *pyast.Continue:
		p.line("continue")
	case *pyast.RawStmt:
		p.line(x.Text)
	case *pyast.ExprStmt:
		p.line()
		p.expr(x.Value, precYield)
	case *pyast.Return:
		p.line("return")
		if x.Value != nil {
			p.w.WriteString(" ")
			p.expr(x.Value, precTuple)
		}
	case *pyast.Raise:
		p.line("raise")
		if x.Exc != nil {
			p.w.WriteString(" ")
			p.expr(x.Exc, precTest)
		}
		if x.Cause != nil {
			p.w.WriteString(" from ")
			p.expr(x.Cause, precTest)
		}
	case *pyast.Assert:
		p.line("assert ")
		p.expr(x.Test, precTest)
		if x.Msg != nil {
			p.w.WriteString(", ")
			p.expr(x.Msg, precTest)
		}
	case *pyast.If:
		p.ifStmt(x)
	case *pyast.For:
		p.line(asyncPrefix(x.Async), "for ")
		p.expr(x.Target, precTuple)
		p.w.WriteString(" in ")
		p.expr(x.Iter, precTuple)
		p.w.WriteString(":")
		p.block(x.Body, true)
		p.orelse(x.Orelse)
	case *pyast.While:
		p.line("while ")
		p.expr(x.Test, precTest)
		p.w.WriteString(":")
		p.block(x.Body, true)
		p.orelse(x.Orelse)
	case *pyast.With:
		p.line(asyncPrefix(x.Async), "with ", x.Items, ":")
		p.block(x.Body, true)
	case *pyast.Try:
		p.tryStmt(x)
	case *pyast.FunctionDef:
		p.decorators(x.Decorators)
		p.line(asyncPrefix(x.Async), "def ", x.Name, x.TypeParams, paramsOrEmpty(x.Params))
		if x.Returns != nil {
			p.w.WriteString(" -> ")
			p.expr(x.Returns, precTest)
		}
		p.w.WriteString(":")
		p.block(x.Body, true)
	case *pyast.ClassDef:
		p.decorators(x.Decorators)
		p.line("class ", x.Name, x.TypeParams, x.Bases, ":")
		p.block(x.Body, true)
	case *pyast.Match:
		p.line("match ", x.Subject, ":")
		p.w.IndentPush()
		for _, c := range x.Cases {
			p.line("case ", c.Pattern, ":")
			p.block(c.Body, true)
		}
		p.w.IndentPop()
	default:
		panic(fmt.Sprintf("format: unexpected statement %T", s))
	}
}

func asyncPrefix(async bool) string {
	if async {
		return "async "
	}
	return ""
}

func paramsOrEmpty(params string) string {
	if params == "" {
		return "()"
	}
	return params
}

func (p *printer) decorators(decos []pyast.Expr) {
	for _, d := range decos {
		p.line("@")
		p.expr(d, precTest)
	}
}

// ifStmt prints a single nested If in Orelse as elif.
func (p *printer) ifStmt(x *pyast.If) {
	p.line("if ")
	p.expr(x.Test, precTest)
	p.w.WriteString(":")
	p.block(x.Body, true)
	orelse := x.Orelse
	for len(orelse) == 1 {
		elif, ok := orelse[0].(*pyast.If)
		if !ok {
			break
		}
		p.line("elif ")
		p.expr(elif.Test, precTest)
		p.w.WriteString(":")
		p.block(elif.Body, true)
		orelse = elif.Orelse
	}
	p.orelse(orelse)
}

func (p *printer) orelse(body []pyast.Stmt) {
	if len(body) == 0 {
		return
	}
	p.line("else:")
	p.block(body, true)
}

func (p *printer) tryStmt(x *pyast.Try) {
	p.line("try:")
	p.block(x.Body, true)
	keyword := "except"
	if x.Star {
		keyword = "except*"
	}
	for _, h := range x.Handlers {
		p.line(keyword)
		if h.Type != nil {
			p.w.WriteString(" ")
			p.expr(h.Type, precTest)
			if h.Name != "" {
				p.w.WriteString(" as " + h.Name)
			}
		}
		p.w.WriteString(":")
		p.block(h.Body, true)
	}
	p.orelse(x.Orelse)
	if len(x.Finalbody) > 0 {
		p.line("finally:")
		p.block(x.Finalbody, true)
	}
}
