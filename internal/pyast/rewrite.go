package pyast

import "fmt"

// Rewrite rebuilds n bottom-up: children are rewritten first, then fn is
// applied to the node holding the new children. fn must return a node of
// the same category (statement for statement, expression for expression).
// The input tree is never modified.
func Rewrite(n Node, fn func(Node) Node) Node {
	if n == nil {
		return nil
	}
	n = mapChildren(n, func(c Node) Node { return Rewrite(c, fn) })
	return fn(n)
}

// FixMissingLocations gives every node without a position the position of
// its nearest positioned ancestor.
func FixMissingLocations(n Node) Node {
	return fixLocations(n, Loc{Line: 1})
}

func fixLocations(n Node, parent Loc) Node {
	loc := n.Location()
	if !loc.Valid() {
		cp := clone(n)
		cp.(interface{ setLoc(Loc) }).setLoc(parent)
		n, loc = cp, parent
	}
	return mapChildren(n, func(c Node) Node { return fixLocations(c, loc) })
}

type mapper struct {
	f       func(Node) Node
	changed bool
}

func (m *mapper) expr(e Expr) Expr {
	if e == nil {
		return nil
	}
	r, ok := m.f(e).(Expr)
	if !ok {
		panic(fmt.Sprintf("pyast: expression %s replaced by a non-expression", e.Kind()))
	}
	if r != e {
		m.changed = true
	}
	return r
}

func (m *mapper) exprs(es []Expr) []Expr {
	var out []Expr
	for i, e := range es {
		r := m.expr(e)
		if r != e && out == nil {
			out = append(make([]Expr, 0, len(es)), es[:i]...)
		}
		if out != nil {
			out = append(out, r)
		}
	}
	if out == nil {
		return es
	}
	return out
}

func (m *mapper) stmts(ss []Stmt) []Stmt {
	var out []Stmt
	for i, s := range ss {
		r, ok := m.f(s).(Stmt)
		if !ok {
			panic(fmt.Sprintf("pyast: statement %s replaced by a non-statement", s.Kind()))
		}
		if r != s && out == nil {
			out = append(make([]Stmt, 0, len(ss)), ss[:i]...)
		}
		if out != nil {
			out = append(out, r)
		}
	}
	if out == nil {
		return ss
	}
	m.changed = true
	return out
}

func (m *mapper) handlers(hs []*ExceptHandler) []*ExceptHandler {
	var out []*ExceptHandler
	for i, h := range hs {
		r, ok := m.f(h).(*ExceptHandler)
		if !ok {
			panic("pyast: except handler replaced by another node kind")
		}
		if r != h && out == nil {
			out = append(make([]*ExceptHandler, 0, len(hs)), hs[:i]...)
		}
		if out != nil {
			out = append(out, r)
		}
	}
	if out == nil {
		return hs
	}
	m.changed = true
	return out
}

func (m *mapper) cases(cs []*MatchCase) []*MatchCase {
	var out []*MatchCase
	for i, c := range cs {
		r, ok := m.f(c).(*MatchCase)
		if !ok {
			panic("pyast: match case replaced by another node kind")
		}
		if r != c && out == nil {
			out = append(make([]*MatchCase, 0, len(cs)), cs[:i]...)
		}
		if out != nil {
			out = append(out, r)
		}
	}
	if out == nil {
		return cs
	}
	m.changed = true
	return out
}

func (m *mapper) keywords(ks []*Keyword) []*Keyword {
	var out []*Keyword
	for i, k := range ks {
		r, ok := m.f(k).(*Keyword)
		if !ok {
			panic("pyast: keyword replaced by another node kind")
		}
		if r != k && out == nil {
			out = append(make([]*Keyword, 0, len(ks)), ks[:i]...)
		}
		if out != nil {
			out = append(out, r)
		}
	}
	if out == nil {
		return ks
	}
	m.changed = true
	return out
}

// mapChildren applies f to every direct child and returns n itself when
// nothing changed, or a shallow copy carrying the new children.
func mapChildren(n Node, f func(Node) Node) Node {
	m := &mapper{f: f}
	switch x := n.(type) {
	case *Module:
		body := m.stmts(x.Body)
		if m.changed {
			cp := *x
			cp.Body = body
			return &cp
		}
	case *FunctionDef:
		decos, returns, body := m.exprs(x.Decorators), m.expr(x.Returns), m.stmts(x.Body)
		if m.changed {
			cp := *x
			cp.Decorators, cp.Returns, cp.Body = decos, returns, body
			return &cp
		}
	case *ClassDef:
		decos, body := m.exprs(x.Decorators), m.stmts(x.Body)
		if m.changed {
			cp := *x
			cp.Decorators, cp.Body = decos, body
			return &cp
		}
	case *If:
		test, body, orelse := m.expr(x.Test), m.stmts(x.Body), m.stmts(x.Orelse)
		if m.changed {
			cp := *x
			cp.Test, cp.Body, cp.Orelse = test, body, orelse
			return &cp
		}
	case *For:
		target, iter := m.expr(x.Target), m.expr(x.Iter)
		body, orelse := m.stmts(x.Body), m.stmts(x.Orelse)
		if m.changed {
			cp := *x
			cp.Target, cp.Iter, cp.Body, cp.Orelse = target, iter, body, orelse
			return &cp
		}
	case *While:
		test, body, orelse := m.expr(x.Test), m.stmts(x.Body), m.stmts(x.Orelse)
		if m.changed {
			cp := *x
			cp.Test, cp.Body, cp.Orelse = test, body, orelse
			return &cp
		}
	case *With:
		body := m.stmts(x.Body)
		if m.changed {
			cp := *x
			cp.Body = body
			return &cp
		}
	case *Try:
		body, handlers := m.stmts(x.Body), m.handlers(x.Handlers)
		orelse, final := m.stmts(x.Orelse), m.stmts(x.Finalbody)
		if m.changed {
			cp := *x
			cp.Body, cp.Handlers, cp.Orelse, cp.Finalbody = body, handlers, orelse, final
			return &cp
		}
	case *ExceptHandler:
		typ, body := m.expr(x.Type), m.stmts(x.Body)
		if m.changed {
			cp := *x
			cp.Type, cp.Body = typ, body
			return &cp
		}
	case *Match:
		cases := m.cases(x.Cases)
		if m.changed {
			cp := *x
			cp.Cases = cases
			return &cp
		}
	case *MatchCase:
		body := m.stmts(x.Body)
		if m.changed {
			cp := *x
			cp.Body = body
			return &cp
		}
	case *Assert:
		test, msg := m.expr(x.Test), m.expr(x.Msg)
		if m.changed {
			cp := *x
			cp.Test, cp.Msg = test, msg
			return &cp
		}
	case *Return:
		value := m.expr(x.Value)
		if m.changed {
			cp := *x
			cp.Value = value
			return &cp
		}
	case *Raise:
		exc, cause := m.expr(x.Exc), m.expr(x.Cause)
		if m.changed {
			cp := *x
			cp.Exc, cp.Cause = exc, cause
			return &cp
		}
	case *ExprStmt:
		value := m.expr(x.Value)
		if m.changed {
			cp := *x
			cp.Value = value
			return &cp
		}
	case *BinOp:
		left, right := m.expr(x.Left), m.expr(x.Right)
		if m.changed {
			cp := *x
			cp.Left, cp.Right = left, right
			return &cp
		}
	case *UnaryOp:
		operand := m.expr(x.Operand)
		if m.changed {
			cp := *x
			cp.Operand = operand
			return &cp
		}
	case *BoolOp:
		values := m.exprs(x.Values)
		if m.changed {
			cp := *x
			cp.Values = values
			return &cp
		}
	case *Compare:
		left, comps := m.expr(x.Left), m.exprs(x.Comparators)
		if m.changed {
			cp := *x
			cp.Left, cp.Comparators = left, comps
			return &cp
		}
	case *Call:
		fn, args, kws := m.expr(x.Func), m.exprs(x.Args), m.keywords(x.Keywords)
		if m.changed {
			cp := *x
			cp.Func, cp.Args, cp.Keywords = fn, args, kws
			return &cp
		}
	case *Keyword:
		value := m.expr(x.Value)
		if m.changed {
			cp := *x
			cp.Value = value
			return &cp
		}
	}
	return n
}

// clone returns a shallow copy of n.
func clone(n Node) Node {
	switch x := n.(type) {
	case *Module:
		cp := *x
		return &cp
	case *FunctionDef:
		cp := *x
		return &cp
	case *ClassDef:
		cp := *x
		return &cp
	case *If:
		cp := *x
		return &cp
	case *For:
		cp := *x
		return &cp
	case *While:
		cp := *x
		return &cp
	case *With:
		cp := *x
		return &cp
	case *Try:
		cp := *x
		return &cp
	case *ExceptHandler:
		cp := *x
		return &cp
	case *Match:
		cp := *x
		return &cp
	case *MatchCase:
		cp := *x
		return &cp
	case *Assert:
		cp := *x
		return &cp
	case *Pass:
		cp := *x
		return &cp
	case *Break:
		cp := *x
		return &cp
	case *Continue:
		cp := *x
		return &cp
	case *Return:
		cp := *x
		return &cp
	case *Raise:
		cp := *x
		return &cp
	case *ExprStmt:
		cp := *x
		return &cp
	case *RawStmt:
		cp := *x
		return &cp
	case *Name:
		cp := *x
		return &cp
	case *Constant:
		cp := *x
		return &cp
	case *BinOp:
		cp := *x
		return &cp
	case *UnaryOp:
		cp := *x
		return &cp
	case *BoolOp:
		cp := *x
		return &cp
	case *Compare:
		cp := *x
		return &cp
	case *Call:
		cp := *x
		return &cp
	case *Keyword:
		cp := *x
		return &cp
	case *RawExpr:
		cp := *x
		return &cp
	}
	panic(fmt.Sprintf("pyast: clone of unknown node %T", n))
}
