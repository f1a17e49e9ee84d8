package pyast

// Node is any tree node.
type Node interface {
	Kind() Kind
	Location() Loc
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

type (
	// Module is the root of a parsed file.
	Module struct {
		Loc
		Path string
		Body []Stmt
	}

	// FunctionDef covers def and async def. Parameters, type parameters and
	// the return annotation are kept as source text.
	FunctionDef struct {
		Loc
		Name       string
		Async      bool
		Decorators []Expr
		TypeParams string // "[T]" or ""
		Params     string // "(a, b=1)"
		Returns    Expr
		Body       []Stmt
	}

	ClassDef struct {
		Loc
		Name       string
		Decorators []Expr
		TypeParams string
		Bases      string // "(A, metaclass=M)" or ""
		Body       []Stmt
	}

	// If holds elif chains as a single nested If in Orelse.
	If struct {
		Loc
		Test   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	For struct {
		Loc
		Async  bool
		Target Expr
		Iter   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	While struct {
		Loc
		Test   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	With struct {
		Loc
		Async bool
		Items string // "open(p) as f, lock"
		Body  []Stmt
	}

	Try struct {
		Loc
		Body      []Stmt
		Handlers  []*ExceptHandler
		Orelse    []Stmt
		Finalbody []Stmt
		Star      bool // except*
	}

	// ExceptHandler with a nil Type is a bare handler.
	ExceptHandler struct {
		Loc
		Type Expr
		Name string
		Body []Stmt
	}

	Match struct {
		Loc
		Subject string
		Cases   []*MatchCase
	}

	// MatchCase keeps its pattern and guard as text, e.g. "Point(x=0) if y".
	MatchCase struct {
		Loc
		Pattern string
		Body    []Stmt
	}

	Assert struct {
		Loc
		Test Expr
		Msg  Expr
	}

	Pass     struct{ Loc }
	Break    struct{ Loc }
	Continue struct{ Loc }

	Return struct {
		Loc
		Value Expr
	}

	Raise struct {
		Loc
		Exc   Expr
		Cause Expr
	}

	// ExprStmt is an expression used as a statement.
	ExprStmt struct {
		Loc
		Value Expr
	}

	// RawStmt is a simple statement kept verbatim, e.g. an import or an assignment.
	RawStmt struct {
		Loc
		Type string // grammar node type
		Text string
	}
)

func (*Module) Kind() Kind        { return KindModule }
func (*FunctionDef) Kind() Kind   { return KindFunctionDef }
func (*ClassDef) Kind() Kind      { return KindClassDef }
func (*If) Kind() Kind            { return KindIf }
func (*For) Kind() Kind           { return KindFor }
func (*While) Kind() Kind         { return KindWhile }
func (*With) Kind() Kind          { return KindWith }
func (*Try) Kind() Kind           { return KindTry }
func (*ExceptHandler) Kind() Kind { return KindExceptHandler }
func (*Match) Kind() Kind         { return KindMatch }
func (*MatchCase) Kind() Kind     { return KindMatchCase }
func (*Assert) Kind() Kind        { return KindAssert }
func (*Pass) Kind() Kind          { return KindPass }
func (*Break) Kind() Kind         { return KindBreak }
func (*Continue) Kind() Kind      { return KindContinue }
func (*Return) Kind() Kind        { return KindReturn }
func (*Raise) Kind() Kind         { return KindRaise }
func (*ExprStmt) Kind() Kind      { return KindExprStmt }
func (*RawStmt) Kind() Kind       { return KindRawStmt }

func (*FunctionDef) stmtNode() {}
func (*ClassDef) stmtNode()    {}
func (*If) stmtNode()          {}
func (*For) stmtNode()         {}
func (*While) stmtNode()       {}
func (*With) stmtNode()        {}
func (*Try) stmtNode()         {}
func (*Match) stmtNode()       {}
func (*Assert) stmtNode()      {}
func (*Pass) stmtNode()        {}
func (*Break) stmtNode()       {}
func (*Continue) stmtNode()    {}
func (*Return) stmtNode()      {}
func (*Raise) stmtNode()       {}
func (*ExprStmt) stmtNode()    {}
func (*RawStmt) stmtNode()     {}

// ConstKind classifies Constant literals.
type ConstKind uint8

const (
	ConstStr ConstKind = iota
	ConstBytes
	ConstNum
	ConstBool
	ConstNone
	ConstEllipsis
)

type (
	Name struct {
		Loc
		ID string
	}

	// Constant is a literal; Text is its source spelling.
	Constant struct {
		Loc
		Const ConstKind
		Text  string
	}

	BinOp struct {
		Loc
		Left  Expr
		Op    string
		Right Expr
	}

	// UnaryOp Op is one of "not", "-", "+", "~".
	UnaryOp struct {
		Loc
		Op      string
		Operand Expr
	}

	// BoolOp flattens chains of the same operator: a and b and c.
	BoolOp struct {
		Loc
		Op     string
		Values []Expr
	}

	// Compare is a comparison chain: Left Ops[0] Comparators[0] ...
	Compare struct {
		Loc
		Left        Expr
		Ops         []string
		Comparators []Expr
	}

	Call struct {
		Loc
		Func     Expr
		Args     []Expr
		Keywords []*Keyword
	}

	// Keyword is name=value in a call; an empty Arg means **value.
	Keyword struct {
		Loc
		Arg   string
		Value Expr
	}

	// RawExpr is an expression kept verbatim; Type is the grammar node type
	// and decides how tightly the text binds.
	RawExpr struct {
		Loc
		Type string
		Text string
	}
)

func (*Name) Kind() Kind     { return KindName }
func (*Constant) Kind() Kind { return KindConstant }
func (*BinOp) Kind() Kind    { return KindBinOp }
func (*UnaryOp) Kind() Kind  { return KindUnaryOp }
func (*BoolOp) Kind() Kind   { return KindBoolOp }
func (*Compare) Kind() Kind  { return KindCompare }
func (*Call) Kind() Kind     { return KindCall }
func (*Keyword) Kind() Kind  { return KindKeyword }
func (*RawExpr) Kind() Kind  { return KindRawExpr }

func (*Name) exprNode()     {}
func (*Constant) exprNode() {}
func (*BinOp) exprNode()    {}
func (*UnaryOp) exprNode()  {}
func (*BoolOp) exprNode()   {}
func (*Compare) exprNode()  {}
func (*Call) exprNode()     {}
func (*RawExpr) exprNode()  {}

// IsPlaceholder reports whether s is a do-nothing statement: pass or a bare
// ellipsis expression.
func IsPlaceholder(s Stmt) bool {
	switch x := s.(type) {
	case *Pass:
		return true
	case *ExprStmt:
		return IsEllipsis(x.Value)
	}
	return false
}

// IsEllipsis reports whether e is the ... literal.
func IsEllipsis(e Expr) bool {
	c, ok := e.(*Constant)
	return ok && c.Const == ConstEllipsis
}

// IsDocstring reports whether s is a standalone string literal statement.
func IsDocstring(s Stmt) bool {
	es, ok := s.(*ExprStmt)
	if !ok {
		return false
	}
	c, ok := es.Value.(*Constant)
	return ok && c.Const == ConstStr
}
