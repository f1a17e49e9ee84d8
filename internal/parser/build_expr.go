package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"pyrewrite/internal/pyast"
)

func (b *builder) expr(n *sitter.Node) pyast.Expr {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier":
		return &pyast.Name{Loc: b.loc(n), ID: b.text(n)}
	case "integer", "float":
		return b.constant(n, pyast.ConstNum)
	case "true", "false":
		return b.constant(n, pyast.ConstBool)
	case "none":
		return b.constant(n, pyast.ConstNone)
	case "ellipsis":
		return b.constant(n, pyast.ConstEllipsis)
	case "string", "concatenated_string":
		return b.stringLit(n)
	case "parenthesized_expression":
		// скобки не входят в дерево, как и в ast
		if inner := namedChildren(n); len(inner) == 1 {
			return b.expr(inner[0])
		}
	case "binary_operator":
		return &pyast.BinOp{
			Loc:   b.loc(n),
			Left:  b.expr(n.ChildByFieldName("left")),
			Op:    opText(n.ChildByFieldName("operator")),
			Right: b.expr(n.ChildByFieldName("right")),
		}
	case "unary_operator":
		return &pyast.UnaryOp{
			Loc:     b.loc(n),
			Op:      opText(n.ChildByFieldName("operator")),
			Operand: b.expr(n.ChildByFieldName("argument")),
		}
	case "not_operator":
		return &pyast.UnaryOp{
			Loc:     b.loc(n),
			Op:      "not",
			Operand: b.expr(n.ChildByFieldName("argument")),
		}
	case "boolean_operator":
		return b.boolOp(n)
	case "comparison_operator":
		return b.compare(n)
	case "call":
		if args := n.ChildByFieldName("arguments"); args != nil && args.Type() == "argument_list" {
			return b.call(n, args)
		}
	}
	return b.raw(n)
}

func (b *builder) raw(n *sitter.Node) pyast.Expr {
	return &pyast.RawExpr{Loc: b.loc(n), Type: n.Type(), Text: b.text(n)}
}

func (b *builder) constant(n *sitter.Node, kind pyast.ConstKind) pyast.Expr {
	return &pyast.Constant{Loc: b.loc(n), Const: kind, Text: b.text(n)}
}

func opText(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Type()
}

// stringLit keeps f-strings and t-strings raw: they are not constants.
func (b *builder) stringLit(n *sitter.Node) pyast.Expr {
	parts := []*sitter.Node{n}
	if n.Type() == "concatenated_string" {
		parts = namedChildren(n)
	}
	kind := pyast.ConstStr
	for _, p := range parts {
		prefix := strings.ToLower(b.stringPrefix(p))
		if strings.ContainsAny(prefix, "ft") || childOfType(p, "interpolation") != nil {
			return b.raw(n)
		}
		if strings.Contains(prefix, "b") {
			kind = pyast.ConstBytes
		}
	}
	return b.constant(n, kind)
}

func (b *builder) stringPrefix(n *sitter.Node) string {
	start := b.text(n)
	if s := childOfType(n, "string_start"); s != nil {
		start = b.text(s)
	}
	return strings.TrimRight(start, `'"`)
}

// boolOp flattens unparenthesized chains of the same operator.
func (b *builder) boolOp(n *sitter.Node) pyast.Expr {
	op := opText(n.ChildByFieldName("operator"))
	left := n.ChildByFieldName("left")
	var values []pyast.Expr
	if left != nil && left.Type() == "boolean_operator" && opText(left.ChildByFieldName("operator")) == op {
		if inner, ok := b.boolOp(left).(*pyast.BoolOp); ok {
			values = append(values, inner.Values...)
		}
	} else {
		values = append(values, b.expr(left))
	}
	values = append(values, b.expr(n.ChildByFieldName("right")))
	return &pyast.BoolOp{Loc: b.loc(n), Op: op, Values: values}
}

// compare splits a chain into operands (named children) and operators
// (anonymous children such as "<" or "not in").
func (b *builder) compare(n *sitter.Node) pyast.Expr {
	cmp := &pyast.Compare{Loc: b.loc(n)}
	pendingOp := false
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || isTrivia(c) {
			continue
		}
		if !c.IsNamed() {
			// "not in" и "is not" могут прийти двумя токенами
			if pendingOp {
				cmp.Ops[len(cmp.Ops)-1] += " " + c.Type()
			} else {
				cmp.Ops = append(cmp.Ops, c.Type())
			}
			pendingOp = true
			continue
		}
		pendingOp = false
		if cmp.Left == nil {
			cmp.Left = b.expr(c)
		} else {
			cmp.Comparators = append(cmp.Comparators, b.expr(c))
		}
	}
	return cmp
}

func (b *builder) call(n, args *sitter.Node) pyast.Expr {
	call := &pyast.Call{Loc: b.loc(n), Func: b.expr(n.ChildByFieldName("function"))}
	for _, c := range namedChildren(args) {
		switch c.Type() {
		case "keyword_argument":
			call.Keywords = append(call.Keywords, &pyast.Keyword{
				Loc:   b.loc(c),
				Arg:   b.optText(c.ChildByFieldName("name")),
				Value: b.expr(c.ChildByFieldName("value")),
			})
		case "dictionary_splat":
			var value pyast.Expr
			if inner := namedChildren(c); len(inner) > 0 {
				value = b.expr(inner[0])
			}
			call.Keywords = append(call.Keywords, &pyast.Keyword{Loc: b.loc(c), Value: value})
		default:
			call.Args = append(call.Args, b.expr(c))
		}
	}
	return call
}
