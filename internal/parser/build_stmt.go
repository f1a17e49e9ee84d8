package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"pyrewrite/internal/pyast"
	"pyrewrite/internal/source"
)

type builder struct {
	src  []byte
	file source.FileID
	path string
	err  *SyntaxError // первая ошибка, обнаруженная при построении
}

func (b *builder) loc(n *sitter.Node) pyast.Loc {
	sp, ep := n.StartPoint(), n.EndPoint()
	return pyast.Loc{
		Span:    source.Span{File: b.file, Start: n.StartByte(), End: n.EndByte()},
		Line:    sp.Row + 1,
		Col:     sp.Column,
		EndLine: ep.Row + 1,
		EndCol:  ep.Column,
	}
}

func (b *builder) text(n *sitter.Node) string {
	return n.Content(b.src)
}

// isTrivia reports nodes that never become tree nodes.
func isTrivia(n *sitter.Node) bool {
	switch n.Type() {
	case "comment", "line_continuation":
		return true
	}
	return false
}

// namedChildren returns the named, non-trivia children of n.
func namedChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		if c := n.NamedChild(i); c != nil && !isTrivia(c) {
			out = append(out, c)
		}
	}
	return out
}

func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil && c.Type() == typ {
			return c
		}
	}
	return nil
}

// textBetween returns the trimmed source between the end of the first child
// of type after and the start of the last child of type before.
func (b *builder) textBetween(n *sitter.Node, after, before string) string {
	var start, end uint32
	found := false
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		if c.Type() == after && !found {
			start, found = c.EndByte(), true
		}
		if c.Type() == before && found {
			end = c.StartByte()
		}
	}
	if !found || end < start {
		return ""
	}
	return strings.TrimSpace(string(b.src[start:end]))
}

func (b *builder) module(root *sitter.Node) *pyast.Module {
	mod := &pyast.Module{Loc: b.loc(root), Path: b.path}
	// модуль всегда начинается с 1:0, даже если первая строка пустая
	mod.Line, mod.Col = 1, 0
	mod.Body = b.stmts(root)
	return mod
}

// stmts builds the statements that are direct children of n (a module or a block).
func (b *builder) stmts(n *sitter.Node) []pyast.Stmt {
	if n == nil {
		return nil
	}
	children := namedChildren(n)
	out := make([]pyast.Stmt, 0, len(children))
	for _, c := range children {
		if s := b.stmt(c); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (b *builder) body(n *sitter.Node, field string) []pyast.Stmt {
	return b.stmts(n.ChildByFieldName(field))
}

func (b *builder) stmt(n *sitter.Node) pyast.Stmt {
	switch n.Type() {
	case "expression_statement":
		return b.exprStmt(n)
	case "pass_statement":
		return &pyast.Pass{Loc: b.loc(n)}
	case "break_statement":
		return &pyast.Break{Loc: b.loc(n)}
	case "continue_statement":
		return &pyast.Continue{Loc: b.loc(n)}
	case "return_statement":
		ret := &pyast.Return{Loc: b.loc(n)}
		if vals := namedChildren(n); len(vals) > 0 {
			ret.Value = b.expr(vals[0])
		}
		return ret
	case "raise_statement":
		return b.raiseStmt(n)
	case "assert_statement":
		return b.assertStmt(n)
	case "if_statement":
		return b.ifStmt(n)
	case "for_statement":
		return b.forStmt(n)
	case "while_statement":
		return &pyast.While{
			Loc:    b.loc(n),
			Test:   b.expr(n.ChildByFieldName("condition")),
			Body:   b.body(n, "body"),
			Orelse: b.elseBody(n.ChildByFieldName("alternative")),
		}
	case "with_statement":
		return &pyast.With{
			Loc:   b.loc(n),
			Async: childOfType(n, "async") != nil,
			Items: b.withItems(n),
			Body:  b.body(n, "body"),
		}
	case "try_statement":
		return b.tryStmt(n)
	case "function_definition":
		return b.functionDef(n, nil)
	case "class_definition":
		return b.classDef(n, nil)
	case "decorated_definition":
		return b.decorated(n)
	case "match_statement":
		return b.matchStmt(n)
	}
	return &pyast.RawStmt{Loc: b.loc(n), Type: n.Type(), Text: b.text(n)}
}

func (b *builder) exprStmt(n *sitter.Node) pyast.Stmt {
	children := namedChildren(n)
	if len(children) == 1 {
		switch children[0].Type() {
		case "assignment", "augmented_assignment":
			return &pyast.RawStmt{Loc: b.loc(n), Type: children[0].Type(), Text: b.text(n)}
		}
		return &pyast.ExprStmt{Loc: b.loc(n), Value: b.expr(children[0])}
	}
	// a, b: кортеж без скобок
	return &pyast.RawStmt{Loc: b.loc(n), Type: n.Type(), Text: b.text(n)}
}

func (b *builder) raiseStmt(n *sitter.Node) pyast.Stmt {
	r := &pyast.Raise{Loc: b.loc(n)}
	afterFrom := false
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || isTrivia(c) {
			continue
		}
		switch {
		case c.Type() == "from":
			afterFrom = true
		case !c.IsNamed():
		case afterFrom:
			r.Cause = b.expr(c)
		default:
			r.Exc = b.expr(c)
		}
	}
	return r
}

func (b *builder) assertStmt(n *sitter.Node) pyast.Stmt {
	a := &pyast.Assert{Loc: b.loc(n)}
	parts := namedChildren(n)
	if len(parts) > 0 {
		a.Test = b.expr(parts[0])
	}
	if len(parts) > 1 {
		a.Msg = b.expr(parts[1])
	}
	return a
}

// ifStmt folds elif clauses into nested If nodes in Orelse.
func (b *builder) ifStmt(n *sitter.Node) pyast.Stmt {
	var clauses []*sitter.Node
	var orelse []pyast.Stmt
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		switch c.Type() {
		case "elif_clause":
			clauses = append(clauses, c)
		case "else_clause":
			orelse = b.body(c, "body")
		}
	}
	end := b.loc(n)
	for i := len(clauses) - 1; i >= 0; i-- {
		c := clauses[i]
		// an elif runs to the end of the whole statement, as in CPython
		loc := b.loc(c)
		loc.Span.End, loc.EndLine, loc.EndCol = end.Span.End, end.EndLine, end.EndCol
		orelse = []pyast.Stmt{&pyast.If{
			Loc:    loc,
			Test:   b.expr(c.ChildByFieldName("condition")),
			Body:   b.body(c, "consequence"),
			Orelse: orelse,
		}}
	}
	return &pyast.If{
		Loc:    end,
		Test:   b.expr(n.ChildByFieldName("condition")),
		Body:   b.body(n, "consequence"),
		Orelse: orelse,
	}
}

func (b *builder) forStmt(n *sitter.Node) pyast.Stmt {
	return &pyast.For{
		Loc:    b.loc(n),
		Async:  childOfType(n, "async") != nil,
		Target: b.expr(n.ChildByFieldName("left")),
		Iter:   b.expr(n.ChildByFieldName("right")),
		Body:   b.body(n, "body"),
		Orelse: b.elseBody(n.ChildByFieldName("alternative")),
	}
}

func (b *builder) elseBody(n *sitter.Node) []pyast.Stmt {
	if n == nil {
		return nil
	}
	return b.body(n, "body")
}

func (b *builder) withItems(n *sitter.Node) string {
	if clause := childOfType(n, "with_clause"); clause != nil {
		return b.text(clause)
	}
	return b.textBetween(n, "with", ":")
}

func (b *builder) tryStmt(n *sitter.Node) pyast.Stmt {
	t := &pyast.Try{Loc: b.loc(n), Body: b.body(n, "body")}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		switch c.Type() {
		case "except_clause":
			t.Handlers = append(t.Handlers, b.handler(c))
		case "except_group_clause":
			t.Star = true
			t.Handlers = append(t.Handlers, b.handler(c))
		case "else_clause":
			t.Orelse = b.body(c, "body")
		case "finally_clause":
			t.Finalbody = b.stmts(childOfType(c, "block"))
		}
	}
	for i, h := range t.Handlers {
		if h.Type == nil && i != len(t.Handlers)-1 {
			b.failAt(h.Loc, "default 'except:' must be last")
		}
	}
	return t
}

func (b *builder) failAt(loc pyast.Loc, msg string) {
	if b.err != nil {
		return
	}
	b.err = &SyntaxError{Path: b.path, Line: loc.Line, Col: loc.Col, Span: loc.Span, Msg: msg}
}

// handler builds an except clause. The grammar spells the type either as a
// plain expression followed by `as name`, or as an as_pattern node.
func (b *builder) handler(n *sitter.Node) *pyast.ExceptHandler {
	h := &pyast.ExceptHandler{Loc: b.loc(n)}
	afterAs := false
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || isTrivia(c) {
			continue
		}
		switch c.Type() {
		case "except", "except*", ":", "*":
		case "as", ",":
			afterAs = true
		case "block":
			h.Body = b.stmts(c)
		case "as_pattern":
			if parts := namedChildren(c); len(parts) > 0 {
				h.Type = b.expr(parts[0])
			}
			if alias := c.ChildByFieldName("alias"); alias != nil {
				h.Name = strings.TrimSpace(b.text(alias))
			}
		default:
			if !c.IsNamed() {
				continue
			}
			if afterAs {
				h.Name = strings.TrimSpace(b.text(c))
			} else if h.Type == nil {
				h.Type = b.expr(c)
			}
		}
	}
	return h
}

func (b *builder) functionDef(n *sitter.Node, decorators []pyast.Expr) pyast.Stmt {
	fn := &pyast.FunctionDef{
		Loc:        b.loc(n),
		Name:       b.optText(n.ChildByFieldName("name")),
		Async:      childOfType(n, "async") != nil,
		Decorators: decorators,
		TypeParams: b.optText(n.ChildByFieldName("type_parameters")),
		Params:     b.optText(n.ChildByFieldName("parameters")),
		Body:       b.body(n, "body"),
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		fn.Returns = b.expr(ret)
	}
	return fn
}

func (b *builder) classDef(n *sitter.Node, decorators []pyast.Expr) pyast.Stmt {
	return &pyast.ClassDef{
		Loc:        b.loc(n),
		Name:       b.optText(n.ChildByFieldName("name")),
		Decorators: decorators,
		TypeParams: b.optText(n.ChildByFieldName("type_parameters")),
		Bases:      b.optText(n.ChildByFieldName("superclasses")),
		Body:       b.body(n, "body"),
	}
}

func (b *builder) optText(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return b.text(n)
}

// decorated attaches decorators to the definition; the node keeps the
// position of the def/class keyword.
func (b *builder) decorated(n *sitter.Node) pyast.Stmt {
	var decorators []pyast.Expr
	for _, c := range namedChildren(n) {
		if c.Type() != "decorator" {
			continue
		}
		if parts := namedChildren(c); len(parts) > 0 {
			decorators = append(decorators, b.expr(parts[0]))
		}
	}
	def := n.ChildByFieldName("definition")
	if def == nil {
		return &pyast.RawStmt{Loc: b.loc(n), Type: n.Type(), Text: b.text(n)}
	}
	if def.Type() == "class_definition" {
		return b.classDef(def, decorators)
	}
	return b.functionDef(def, decorators)
}

func (b *builder) matchStmt(n *sitter.Node) pyast.Stmt {
	m := &pyast.Match{Loc: b.loc(n), Subject: b.textBetween(n, "match", ":")}
	body := n.ChildByFieldName("body")
	if body == nil {
		body = childOfType(n, "block")
	}
	if body == nil {
		return m
	}
	for _, c := range namedChildren(body) {
		if c.Type() != "case_clause" {
			continue
		}
		cons := c.ChildByFieldName("consequence")
		if cons == nil {
			cons = childOfType(c, "block")
		}
		m.Cases = append(m.Cases, &pyast.MatchCase{
			Loc:     b.loc(c),
			Pattern: b.textBetween(c, "case", ":"),
			Body:    b.stmts(cons),
		})
	}
	return m
}
