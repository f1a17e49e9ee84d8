package pyast

// Kind tags every node.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindModule
	KindFunctionDef
	KindClassDef
	KindIf
	KindFor
	KindWhile
	KindWith
	KindTry
	KindExceptHandler
	KindMatch
	KindMatchCase
	KindAssert
	KindPass
	KindBreak
	KindContinue
	KindReturn
	KindRaise
	KindExprStmt
	KindRawStmt
	KindName
	KindConstant
	KindBinOp
	KindUnaryOp
	KindBoolOp
	KindCompare
	KindCall
	KindKeyword
	KindRawExpr
)

var kindNames = [...]string{
	KindInvalid:       "Invalid",
	KindModule:        "Module",
	KindFunctionDef:   "FunctionDef",
	KindClassDef:      "ClassDef",
	KindIf:            "If",
	KindFor:           "For",
	KindWhile:         "While",
	KindWith:          "With",
	KindTry:           "Try",
	KindExceptHandler: "ExceptHandler",
	KindMatch:         "Match",
	KindMatchCase:     "match_case",
	KindAssert:        "Assert",
	KindPass:          "Pass",
	KindBreak:         "Break",
	KindContinue:      "Continue",
	KindReturn:        "Return",
	KindRaise:         "Raise",
	KindExprStmt:      "Expr",
	KindRawStmt:       "RawStmt",
	KindName:          "Name",
	KindConstant:      "Constant",
	KindBinOp:         "BinOp",
	KindUnaryOp:       "UnaryOp",
	KindBoolOp:        "BoolOp",
	KindCompare:       "Compare",
	KindCall:          "Call",
	KindKeyword:       "keyword",
	KindRawExpr:       "RawExpr",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}
