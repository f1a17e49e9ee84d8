package pyast

import (
	"strconv"
	"strings"
)

// Dump renders the tree structure without positions, in the spirit of
// Python's ast.dump. Two trees that dump equally are structurally equivalent.
// Raw text is compared with whitespace runs collapsed.
func Dump(n Node) string {
	var b strings.Builder
	dumpNode(&b, n)
	return b.String()
}

func dumpNode(b *strings.Builder, n Node) {
	if n == nil {
		b.WriteString("None")
		return
	}
	b.WriteString(n.Kind().String())
	b.WriteByte('(')
	switch x := n.(type) {
	case *Module:
		field(b, "body", true)
		dumpStmts(b, x.Body)
	case *FunctionDef:
		field(b, "name", true)
		b.WriteString(strconv.Quote(x.Name))
		field(b, "async", false)
		b.WriteString(strconv.FormatBool(x.Async))
		field(b, "type_params", false)
		b.WriteString(strconv.Quote(x.TypeParams))
		field(b, "args", false)
		b.WriteString(strconv.Quote(squash(x.Params)))
		field(b, "decorator_list", false)
		dumpExprs(b, x.Decorators)
		field(b, "returns", false)
		dumpNode(b, exprNode(x.Returns))
		field(b, "body", false)
		dumpStmts(b, x.Body)
	case *ClassDef:
		field(b, "name", true)
		b.WriteString(strconv.Quote(x.Name))
		field(b, "type_params", false)
		b.WriteString(strconv.Quote(x.TypeParams))
		field(b, "bases", false)
		b.WriteString(strconv.Quote(squash(x.Bases)))
		field(b, "decorator_list", false)
		dumpExprs(b, x.Decorators)
		field(b, "body", false)
		dumpStmts(b, x.Body)
	case *If:
		field(b, "test", true)
		dumpNode(b, x.Test)
		field(b, "body", false)
		dumpStmts(b, x.Body)
		field(b, "orelse", false)
		dumpStmts(b, x.Orelse)
	case *For:
		field(b, "async", true)
		b.WriteString(strconv.FormatBool(x.Async))
		field(b, "target", false)
		dumpNode(b, x.Target)
		field(b, "iter", false)
		dumpNode(b, x.Iter)
		field(b, "body", false)
		dumpStmts(b, x.Body)
		field(b, "orelse", false)
		dumpStmts(b, x.Orelse)
	case *While:
		field(b, "test", true)
		dumpNode(b, x.Test)
		field(b, "body", false)
		dumpStmts(b, x.Body)
		field(b, "orelse", false)
		dumpStmts(b, x.Orelse)
	case *With:
		field(b, "async", true)
		b.WriteString(strconv.FormatBool(x.Async))
		field(b, "items", false)
		b.WriteString(strconv.Quote(squash(x.Items)))
		field(b, "body", false)
		dumpStmts(b, x.Body)
	case *Try:
		field(b, "star", true)
		b.WriteString(strconv.FormatBool(x.Star))
		field(b, "body", false)
		dumpStmts(b, x.Body)
		field(b, "handlers", false)
		b.WriteByte('[')
		for i, h := range x.Handlers {
			if i > 0 {
				b.WriteString(", ")
			}
			dumpNode(b, h)
		}
		b.WriteByte(']')
		field(b, "orelse", false)
		dumpStmts(b, x.Orelse)
		field(b, "finalbody", false)
		dumpStmts(b, x.Finalbody)
	case *ExceptHandler:
		field(b, "type", true)
		dumpNode(b, exprNode(x.Type))
		field(b, "name", false)
		if x.Name == "" {
			b.WriteString("None")
		} else {
			b.WriteString(strconv.Quote(x.Name))
		}
		field(b, "body", false)
		dumpStmts(b, x.Body)
	case *Match:
		field(b, "subject", true)
		b.WriteString(strconv.Quote(squash(x.Subject)))
		field(b, "cases", false)
		b.WriteByte('[')
		for i, c := range x.Cases {
			if i > 0 {
				b.WriteString(", ")
			}
			dumpNode(b, c)
		}
		b.WriteByte(']')
	case *MatchCase:
		field(b, "pattern", true)
		b.WriteString(strconv.Quote(squash(x.Pattern)))
		field(b, "body", false)
		dumpStmts(b, x.Body)
	case *Assert:
		field(b, "test", true)
		dumpNode(b, x.Test)
		field(b, "msg", false)
		dumpNode(b, exprNode(x.Msg))
	case *Return:
		field(b, "value", true)
		dumpNode(b, exprNode(x.Value))
	case *Raise:
		field(b, "exc", true)
		dumpNode(b, exprNode(x.Exc))
		field(b, "cause", false)
		dumpNode(b, exprNode(x.Cause))
	case *ExprStmt:
		field(b, "value", true)
		dumpNode(b, x.Value)
	case *RawStmt:
		field(b, "type", true)
		b.WriteString(strconv.Quote(x.Type))
		field(b, "text", false)
		b.WriteString(strconv.Quote(squash(x.Text)))
	case *Name:
		field(b, "id", true)
		b.WriteString(strconv.Quote(x.ID))
	case *Constant:
		field(b, "value", true)
		b.WriteString(strconv.Quote(squash(x.Text)))
	case *BinOp:
		field(b, "left", true)
		dumpNode(b, x.Left)
		field(b, "op", false)
		b.WriteString(strconv.Quote(x.Op))
		field(b, "right", false)
		dumpNode(b, x.Right)
	case *UnaryOp:
		field(b, "op", true)
		b.WriteString(strconv.Quote(x.Op))
		field(b, "operand", false)
		dumpNode(b, x.Operand)
	case *BoolOp:
		field(b, "op", true)
		b.WriteString(strconv.Quote(x.Op))
		field(b, "values", false)
		dumpExprs(b, x.Values)
	case *Compare:
		field(b, "left", true)
		dumpNode(b, x.Left)
		field(b, "ops", false)
		b.WriteByte('[')
		for i, op := range x.Ops {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(op))
		}
		b.WriteByte(']')
		field(b, "comparators", false)
		dumpExprs(b, x.Comparators)
	case *Call:
		field(b, "func", true)
		dumpNode(b, x.Func)
		field(b, "args", false)
		dumpExprs(b, x.Args)
		field(b, "keywords", false)
		b.WriteByte('[')
		for i, k := range x.Keywords {
			if i > 0 {
				b.WriteString(", ")
			}
			dumpNode(b, k)
		}
		b.WriteByte(']')
	case *Keyword:
		field(b, "arg", true)
		if x.Arg == "" {
			b.WriteString("None")
		} else {
			b.WriteString(strconv.Quote(x.Arg))
		}
		field(b, "value", false)
		dumpNode(b, x.Value)
	case *RawExpr:
		field(b, "type", true)
		b.WriteString(strconv.Quote(x.Type))
		field(b, "text", false)
		b.WriteString(strconv.Quote(squash(x.Text)))
	}
	b.WriteByte(')')
}

// exprNode keeps a nil Expr a nil Node.
func exprNode(e Expr) Node {
	if e == nil {
		return nil
	}
	return e
}

func field(b *strings.Builder, name string, first bool) {
	if !first {
		b.WriteString(", ")
	}
	b.WriteString(name)
	b.WriteByte('=')
}

func dumpStmts(b *strings.Builder, ss []Stmt) {
	b.WriteByte('[')
	for i, s := range ss {
		if i > 0 {
			b.WriteString(", ")
		}
		dumpNode(b, s)
	}
	b.WriteByte(']')
}

func dumpExprs(b *strings.Builder, es []Expr) {
	b.WriteByte('[')
	for i, e := range es {
		if i > 0 {
			b.WriteString(", ")
		}
		dumpNode(b, e)
	}
	b.WriteByte(']')
}

// squash collapses whitespace and line continuations to single spaces.
func squash(s string) string {
	s = strings.ReplaceAll(s, "\\\n", " ")
	return strings.Join(strings.Fields(s), " ")
}
