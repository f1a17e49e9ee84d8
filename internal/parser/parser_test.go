package parser_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"pyrewrite/internal/parser"
	"pyrewrite/internal/pyast"
	"pyrewrite/internal/source"
	"pyrewrite/internal/testkit"
)

func parse(t *testing.T, src string) *pyast.Module {
	t.Helper()
	mod, err := parser.ParseSource(context.Background(), "t.py", []byte(src))
	if err != nil {
		t.Fatalf("ParseSource(%q): %v", src, err)
	}
	return mod
}

var ignoreLoc = cmp.Options{cmpopts.IgnoreTypes(pyast.Loc{}), cmpopts.EquateEmpty()}

func TestParseBareExcept(t *testing.T) {
	mod := parse(t, "try:\n    risky()\nexcept:\n    handle()\n")

	call := func(name string) pyast.Stmt {
		return &pyast.ExprStmt{Value: &pyast.Call{Func: &pyast.Name{ID: name}}}
	}
	want := &pyast.Module{
		Path: "t.py",
		Body: []pyast.Stmt{&pyast.Try{
			Body:     []pyast.Stmt{call("risky")},
			Handlers: []*pyast.ExceptHandler{{Body: []pyast.Stmt{call("handle")}}},
		}},
	}
	if diff := cmp.Diff(want, mod, ignoreLoc); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}

	h := mod.Body[0].(*pyast.Try).Handlers[0]
	if h.Line != 3 || h.Col != 0 {
		t.Errorf("handler at %d:%d, want 3:0", h.Line, h.Col)
	}
}

func TestParseExceptForms(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantType string
		wantName string
	}{
		{"plain", "try:\n    f()\nexcept ValueError:\n    pass\n", "ValueError", ""},
		{"alias", "try:\n    f()\nexcept ValueError as e:\n    pass\n", "ValueError", "e"},
		{"tuple", "try:\n    f()\nexcept (A, B) as err:\n    pass\n", "(A, B)", "err"},
		{"attribute", "try:\n    f()\nexcept os.error:\n    pass\n", "os.error", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := parse(t, tt.src)
			h := mod.Body[0].(*pyast.Try).Handlers[0]
			if h.Type == nil {
				t.Fatal("handler type is nil")
			}
			if got := exprText(h.Type); got != tt.wantType {
				t.Errorf("type = %q, want %q", got, tt.wantType)
			}
			if h.Name != tt.wantName {
				t.Errorf("name = %q, want %q", h.Name, tt.wantName)
			}
		})
	}
}

func exprText(e pyast.Expr) string {
	switch x := e.(type) {
	case *pyast.Name:
		return x.ID
	case *pyast.RawExpr:
		return x.Text
	}
	return pyast.Dump(e)
}

func TestParseTryClauses(t *testing.T) {
	src := "try:\n    a()\nexcept KeyError:\n    b()\nexcept:\n    c()\nelse:\n    d()\nfinally:\n    e()\n"
	try := parse(t, src).Body[0].(*pyast.Try)
	if len(try.Handlers) != 2 || len(try.Orelse) != 1 || len(try.Finalbody) != 1 {
		t.Fatalf("handlers=%d orelse=%d finalbody=%d", len(try.Handlers), len(try.Orelse), len(try.Finalbody))
	}
	if try.Handlers[1].Type != nil {
		t.Error("second handler should be bare")
	}
}

func TestParseAssertShapes(t *testing.T) {
	mod := parse(t, "assert a + b < c, 'msg'\nassert x not in y\nassert p and q and r\nassert not z\n")

	first := mod.Body[0].(*pyast.Assert)
	cmpNode, ok := first.Test.(*pyast.Compare)
	if !ok {
		t.Fatalf("first test = %T, want *pyast.Compare", first.Test)
	}
	if bin, ok := cmpNode.Left.(*pyast.BinOp); !ok || bin.Op != "+" {
		t.Errorf("compare left = %s", pyast.Dump(cmpNode.Left))
	}
	if len(cmpNode.Ops) != 1 || cmpNode.Ops[0] != "<" {
		t.Errorf("ops = %v", cmpNode.Ops)
	}
	if c, ok := first.Msg.(*pyast.Constant); !ok || c.Text != "'msg'" {
		t.Errorf("msg = %s", pyast.Dump(first.Msg))
	}

	notIn := mod.Body[1].(*pyast.Assert).Test.(*pyast.Compare)
	if len(notIn.Ops) != 1 || notIn.Ops[0] != "not in" {
		t.Errorf("ops = %q, want [not in]", notIn.Ops)
	}

	chain := mod.Body[2].(*pyast.Assert).Test.(*pyast.BoolOp)
	if chain.Op != "and" || len(chain.Values) != 3 {
		t.Errorf("bool chain = %s", pyast.Dump(chain))
	}

	not := mod.Body[3].(*pyast.Assert).Test.(*pyast.UnaryOp)
	if not.Op != "not" {
		t.Errorf("unary op = %q", not.Op)
	}
}

func TestParseParenthesesAreDropped(t *testing.T) {
	mod := parse(t, "assert (a)\nassert (a and b) and c\n")
	if _, ok := mod.Body[0].(*pyast.Assert).Test.(*pyast.Name); !ok {
		t.Error("parenthesized name should parse as Name")
	}
	nested := mod.Body[1].(*pyast.Assert).Test.(*pyast.BoolOp)
	if len(nested.Values) != 2 {
		t.Fatalf("parenthesized left operand must not be flattened: %s", pyast.Dump(nested))
	}
	if _, ok := nested.Values[0].(*pyast.BoolOp); !ok {
		t.Errorf("left operand = %T, want *pyast.BoolOp", nested.Values[0])
	}
}

func TestParseFunctions(t *testing.T) {
	src := "@decorator\ndef stub(a, b=1) -> int:\n    \"\"\"Doc.\"\"\"\n    ...\n\nasync def go():\n    # comment\n    pass\n"
	mod := parse(t, src)
	if len(mod.Body) != 2 {
		t.Fatalf("len(Body) = %d, want 2", len(mod.Body))
	}

	fn := mod.Body[0].(*pyast.FunctionDef)
	if fn.Name != "stub" || fn.Params != "(a, b=1)" || len(fn.Decorators) != 1 {
		t.Errorf("function = %s", pyast.Dump(fn))
	}
	if fn.Line != 2 {
		t.Errorf("decorated def line = %d, want 2", fn.Line)
	}
	if len(fn.Body) != 2 || !pyast.IsDocstring(fn.Body[0]) || !pyast.IsPlaceholder(fn.Body[1]) {
		t.Errorf("body = %s", pyast.Dump(fn))
	}
	ellipsis := fn.Body[1].Location()
	if ellipsis.Line != 4 || ellipsis.Col != 4 {
		t.Errorf("placeholder at %d:%d, want 4:4", ellipsis.Line, ellipsis.Col)
	}

	async := mod.Body[1].(*pyast.FunctionDef)
	if !async.Async || len(async.Body) != 1 {
		t.Errorf("async function = %s", pyast.Dump(async))
	}
}

func TestParseElifChain(t *testing.T) {
	mod := parse(t, "if a:\n    x()\nelif b:\n    y()\nelse:\n    z()\n")
	top := mod.Body[0].(*pyast.If)
	if len(top.Orelse) != 1 {
		t.Fatalf("orelse = %d statements", len(top.Orelse))
	}
	elif, ok := top.Orelse[0].(*pyast.If)
	if !ok {
		t.Fatalf("orelse[0] = %T, want *pyast.If", top.Orelse[0])
	}
	if elif.Line != 3 || len(elif.Orelse) != 1 {
		t.Errorf("elif = %s at line %d", pyast.Dump(elif), elif.Line)
	}
	if elif.EndLine != top.EndLine || elif.Span.End != top.Span.End {
		t.Errorf("elif ends at line %d, want %d", elif.EndLine, top.EndLine)
	}
}

func TestParsedLocationsAreConsistent(t *testing.T) {
	paths, err := filepath.Glob("../../testdata/*/*.py")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(paths) == 0 {
		t.Fatal("no testdata found")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			fs := source.NewFileSet()
			id, err := fs.Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			mod, err := parser.Parse(context.Background(), fs, id)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if err := testkit.CheckSpanInvariants(fs, mod); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestParseKeepsUnmodelledCodeRaw(t *testing.T) {
	mod := parse(t, "import os\nx = f'{y}'\nprint(f'{y}', *rest, sep='', **kw)\n")
	if raw, ok := mod.Body[0].(*pyast.RawStmt); !ok || raw.Text != "import os" {
		t.Errorf("import = %s", pyast.Dump(mod.Body[0]))
	}
	if raw, ok := mod.Body[1].(*pyast.RawStmt); !ok || raw.Type != "assignment" {
		t.Errorf("assignment = %s", pyast.Dump(mod.Body[1]))
	}
	call := mod.Body[2].(*pyast.ExprStmt).Value.(*pyast.Call)
	if len(call.Args) != 2 || len(call.Keywords) != 2 {
		t.Fatalf("call = %s", pyast.Dump(call))
	}
	if _, ok := call.Args[0].(*pyast.RawExpr); !ok {
		t.Errorf("f-string arg = %T, want *pyast.RawExpr", call.Args[0])
	}
	if call.Keywords[0].Arg != "sep" || call.Keywords[1].Arg != "" {
		t.Errorf("keywords = %s", pyast.Dump(call))
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"broken def", "def f(:\n    pass\n", ""},
		{"bare except not last", "try:\n    f()\nexcept:\n    pass\nexcept ValueError:\n    pass\n", "must be last"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseSource(context.Background(), "bad.py", []byte(tt.src))
			var synErr *parser.SyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("err = %v, want *parser.SyntaxError", err)
			}
			if synErr.Line == 0 || synErr.Path != "bad.py" {
				t.Errorf("error position = %+v", synErr)
			}
			if tt.wantMsg != "" && !strings.Contains(synErr.Msg, tt.wantMsg) {
				t.Errorf("msg = %q, want it to contain %q", synErr.Msg, tt.wantMsg)
			}
		})
	}
}

func TestDumpCST(t *testing.T) {
	out, err := parser.DumpCST(context.Background(), []byte("try:\n    f()\nexcept:\n    pass\n"))
	if err != nil {
		t.Fatalf("DumpCST: %v", err)
	}
	for _, want := range []string{"(module", "try_statement", "except_clause", "pass_statement"} {
		if !strings.Contains(out, want) {
			t.Errorf("CST dump missing %q:\n%s", want, out)
		}
	}
}
