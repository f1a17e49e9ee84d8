package pyast

// Constructors for synthesized nodes. They carry no location; run
// FixMissingLocations before emitting a tree that contains them.

func NewName(id string) *Name { return &Name{ID: id} }

// Str builds a string constant spelled the way repr() would spell it.
func Str(s string) *Constant { return &Constant{Const: ConstStr, Text: Repr(s)} }

func NewCall(fn Expr, args ...Expr) *Call { return &Call{Func: fn, Args: args} }

// WithKeyword returns a copy of c with name=value appended.
func (c *Call) WithKeyword(name string, value Expr) *Call {
	cp := *c
	cp.Keywords = append(append([]*Keyword(nil), c.Keywords...), &Keyword{Arg: name, Value: value})
	return &cp
}

func Not(e Expr) *UnaryOp { return &UnaryOp{Op: "not", Operand: e} }

func NewIf(test Expr, body ...Stmt) *If { return &If{Test: test, Body: body} }

func NewExprStmt(e Expr) *ExprStmt { return &ExprStmt{Value: e} }

// NewRaise builds `raise <exc>`.
func NewRaise(exc Expr) *Raise { return &Raise{Exc: exc} }
