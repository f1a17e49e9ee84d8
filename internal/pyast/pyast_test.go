package pyast

import (
	"strings"
	"testing"
)

func loc(line, col uint32) Loc { return Loc{Line: line, Col: col, EndLine: line, EndCol: col + 1} }

func sampleModule() *Module {
	return &Module{
		Loc: loc(1, 0),
		Body: []Stmt{
			&Assert{Loc: loc(1, 0), Test: &Name{Loc: loc(1, 7), ID: "x"}},
			&Pass{Loc: loc(2, 0)},
		},
	}
}

func TestRepr(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc", `'abc'`},
		{"it's", `"it's"`},
		{`say "hi"`, `'say "hi"'`},
		{`both ' and "`, `'both \' and "'`},
		{"tab\there\n", `'tab\there\n'`},
		{"\x00\x7f", `'\x00\x7f'`},
		{"é", `'é'`},
		{"\u00a0", `'\xa0'`},
		{"\u200b", `'\u200b'`},
		{`a\b`, `'a\\b'`},
	}
	for _, tt := range tests {
		if got := Repr(tt.in); got != tt.want {
			t.Errorf("Repr(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRewriteBuildsNewTree(t *testing.T) {
	mod := sampleModule()
	before := Dump(mod)

	out := Rewrite(mod, func(n Node) Node {
		if a, ok := n.(*Assert); ok {
			return NewIf(Not(a.Test), &Pass{})
		}
		return n
	}).(*Module)

	if Dump(mod) != before {
		t.Fatal("Rewrite modified its input")
	}
	if _, ok := out.Body[0].(*If); !ok {
		t.Fatalf("Body[0] = %T, want *If", out.Body[0])
	}
	// нетронутые поддеревья разделяются
	if out.Body[1] != mod.Body[1] {
		t.Error("unchanged statement was copied")
	}
}

func TestRewriteIdentityKeepsPointer(t *testing.T) {
	mod := sampleModule()
	if out := Rewrite(mod, func(n Node) Node { return n }); out != Node(mod) {
		t.Error("identity rewrite returned a different root")
	}
}

func TestFixMissingLocations(t *testing.T) {
	mod := sampleModule()
	rewritten := Rewrite(mod, func(n Node) Node {
		if a, ok := n.(*Assert); ok {
			return NewIf(Not(a.Test), NewExprStmt(NewCall(NewName("print"), Str("x"))))
		}
		return n
	})

	fixed := FixMissingLocations(rewritten)
	Inspect(fixed, func(n Node) bool {
		if !n.Location().Valid() {
			t.Errorf("%s has no location after FixMissingLocations", n.Kind())
		}
		return true
	})

	ifStmt := fixed.(*Module).Body[0].(*If)
	if ifStmt.Line != 1 || ifStmt.Col != 0 {
		t.Errorf("synthesized If at %d:%d, want parent 1:0", ifStmt.Line, ifStmt.Col)
	}
	// операнд сохранил собственную позицию
	if name := ifStmt.Test.(*UnaryOp).Operand.(*Name); name.Col != 7 {
		t.Errorf("original Name column = %d, want 7", name.Col)
	}
	if rewritten.(*Module).Body[0].Location().Valid() {
		t.Error("FixMissingLocations modified its input")
	}
}

func TestPlaceholderHelpers(t *testing.T) {
	ellipsis := NewExprStmt(&Constant{Const: ConstEllipsis, Text: "..."})
	doc := NewExprStmt(Str("doc"))
	call := NewExprStmt(NewCall(NewName("log")))

	if !IsPlaceholder(&Pass{}) || !IsPlaceholder(ellipsis) {
		t.Error("pass and ... must be placeholders")
	}
	if IsPlaceholder(doc) || IsPlaceholder(call) {
		t.Error("docstring and call are not placeholders")
	}
	if !IsDocstring(doc) || IsDocstring(ellipsis) {
		t.Error("IsDocstring misclassified")
	}
}

func TestDumpIgnoresPositionsAndWhitespace(t *testing.T) {
	a := &RawExpr{Loc: loc(1, 0), Type: "list", Text: "[1,\n   2]"}
	b := &RawExpr{Loc: loc(5, 3), Type: "list", Text: "[1, 2]"}
	if Dump(a) != Dump(b) {
		t.Errorf("dumps differ:\n%s\n%s", Dump(a), Dump(b))
	}
	if !strings.HasPrefix(Dump(sampleModule()), "Module(body=[Assert(test=Name(id=") {
		t.Errorf("unexpected dump %s", Dump(sampleModule()))
	}
}
