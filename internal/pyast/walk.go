package pyast

// Children returns the direct child nodes of n in source order.
func Children(n Node) []Node {
	var out []Node
	addExpr := func(e Expr) {
		if e != nil {
			out = append(out, e)
		}
	}
	addStmts := func(ss []Stmt) {
		for _, s := range ss {
			out = append(out, s)
		}
	}
	switch x := n.(type) {
	case *Module:
		addStmts(x.Body)
	case *FunctionDef:
		for _, d := range x.Decorators {
			addExpr(d)
		}
		addExpr(x.Returns)
		addStmts(x.Body)
	case *ClassDef:
		for _, d := range x.Decorators {
			addExpr(d)
		}
		addStmts(x.Body)
	case *If:
		addExpr(x.Test)
		addStmts(x.Body)
		addStmts(x.Orelse)
	case *For:
		addExpr(x.Target)
		addExpr(x.Iter)
		addStmts(x.Body)
		addStmts(x.Orelse)
	case *While:
		addExpr(x.Test)
		addStmts(x.Body)
		addStmts(x.Orelse)
	case *With:
		addStmts(x.Body)
	case *Try:
		addStmts(x.Body)
		for _, h := range x.Handlers {
			out = append(out, h)
		}
		addStmts(x.Orelse)
		addStmts(x.Finalbody)
	case *ExceptHandler:
		addExpr(x.Type)
		addStmts(x.Body)
	case *Match:
		for _, c := range x.Cases {
			out = append(out, c)
		}
	case *MatchCase:
		addStmts(x.Body)
	case *Assert:
		addExpr(x.Test)
		addExpr(x.Msg)
	case *Return:
		addExpr(x.Value)
	case *Raise:
		addExpr(x.Exc)
		addExpr(x.Cause)
	case *ExprStmt:
		addExpr(x.Value)
	case *BinOp:
		addExpr(x.Left)
		addExpr(x.Right)
	case *UnaryOp:
		addExpr(x.Operand)
	case *BoolOp:
		for _, v := range x.Values {
			addExpr(v)
		}
	case *Compare:
		addExpr(x.Left)
		for _, c := range x.Comparators {
			addExpr(c)
		}
	case *Call:
		addExpr(x.Func)
		for _, a := range x.Args {
			addExpr(a)
		}
		for _, k := range x.Keywords {
			out = append(out, k)
		}
	case *Keyword:
		addExpr(x.Value)
	}
	return out
}

// Inspect traverses the tree depth-first. If f returns false the children
// of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}
