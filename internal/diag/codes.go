package diag

import (
	"fmt"
	"sort"
	"strings"
)

// Code is a compact numeric diagnostic identifier. The thousands digit
// selects the family prefix, the rest is the number within the family.
type Code uint16

const (
	UnknownCode Code = 0

	// Обработчики исключений
	TryInfo        Code = 1000
	TryBareExcept  Code = 1001
	TryEmptyExcept Code = 1002

	// Тела функций
	FunInfo            Code = 2000
	FunPlaceholderBody Code = 2001
	FunEllipsisBody    Code = 2002

	// Переписывание assert
	AstInfo        Code = 3000
	AstEnhanced    Code = 3001
	AstUnsupported Code = 3002
	AstStrictAbort Code = 3003

	SynInfo        Code = 4000
	SynInvalid     Code = 4001
	SynUnparseFail Code = 4002

	IOInfo        Code = 5000
	IOReadFailed  Code = 5001
	IOWriteFailed Code = 5002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:        "Unknown error",
		TryInfo:            "Exception handler information",
		TryBareExcept:      "bare exception",
		TryEmptyExcept:     "empty except body",
		FunInfo:            "Function body information",
		FunPlaceholderBody: "placeholder function body",
		FunEllipsisBody:    "'...' used as placeholder for empty function body",
		AstInfo:            "Assert rewrite information",
		AstEnhanced:        "assert enhanced",
		AstUnsupported:     "assert test shape not supported",
		AstStrictAbort:     "assert rewrite aborted",
		SynInfo:            "Syntax information",
		SynInvalid:         "invalid syntax",
		SynUnparseFail:     "cannot regenerate source",
		IOInfo:             "I/O information",
		IOReadFailed:       "cannot read file",
		IOWriteFailed:      "cannot write file",
	}

	familyPrefix = [...]string{"", "TRY", "FUN", "AST", "SYN", "IOE"}
)

func (c Code) ID() string {
	ic := int(c)
	if fam := ic / 1000; fam > 0 && fam < len(familyPrefix) {
		return fmt.Sprintf("%s%02d", familyPrefix[fam], ic%1000)
	}
	return "E0000"
}

// Family returns the three-letter prefix of the code, e.g. "TRY".
func (c Code) Family() string {
	if fam := int(c) / 1000; fam > 0 && fam < len(familyPrefix) {
		return familyPrefix[fam]
	}
	return ""
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// ParseCode maps an ID such as "TRY01" back to its Code.
func ParseCode(id string) (Code, bool) {
	id = strings.ToUpper(strings.TrimSpace(id))
	for c := range codeDescription {
		if c%1000 != 0 && c.ID() == id {
			return c, true
		}
	}
	return UnknownCode, false
}

// KnownCodes returns every non-informational code in ascending order.
func KnownCodes() []Code {
	out := make([]Code, 0, len(codeDescription))
	for c := range codeDescription {
		if c%1000 != 0 {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
