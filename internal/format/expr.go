package format

import (
	"strings"

	"pyrewrite/internal/pyast"
)

// Binding strength, loosest first. An expression is parenthesized when the
// context demands a tighter level than the expression has.
type precedence int

const (
	precNamed precedence = iota // :=
	precTuple                   // a, b
	precYield                   // yield
	precTest                    // x if c else y, lambda
	precOr
	precAnd
	precNot
	precCmp
	precBor // |
	precBxor
	precBand
	precShift
	precArith // + -
	precTerm  // * / // % @
	precFactor
	precPower
	precAwait
	precAtom
)

func (p precedence) next() precedence {
	if p >= precAtom {
		return precAtom
	}
	return p + 1
}

var binopPrecedence = map[string]precedence{
	"|":  precBor,
	"^":  precBxor,
	"&":  precBand,
	"<<": precShift,
	">>": precShift,
	"+":  precArith,
	"-":  precArith,
	"*":  precTerm,
	"@":  precTerm,
	"/":  precTerm,
	"%":  precTerm,
	"//": precTerm,
	"**": precPower,
}

// rawPrecedence maps grammar node types of verbatim expressions to their level.
func rawPrecedence(typ string) precedence {
	switch typ {
	case "named_expression":
		return precNamed
	case "expression_list", "pattern_list":
		return precTuple
	case "yield":
		return precYield
	case "lambda", "conditional_expression":
		return precTest
	case "await":
		return precAwait
	}
	return precAtom
}

// expr writes e; ctx is the level the surrounding syntax requires.
func (p *printer) expr(e pyast.Expr, ctx precedence) {
	switch x := e.(type) {
	case nil:
		return
	case *pyast.Name:
		p.w.WriteString(x.ID)
	case *pyast.Constant:
		p.verbatim(x.Text, precAtom, ctx)
	case *pyast.RawExpr:
		if x.Type == "list_splat" || x.Type == "dictionary_splat" {
			p.w.WriteString(x.Text)
			return
		}
		p.verbatim(x.Text, rawPrecedence(x.Type), ctx)
	case *pyast.BinOp:
		prec, ok := binopPrecedence[x.Op]
		if !ok {
			prec = precArith
		}
		left, right := prec, prec.next()
		if x.Op == "**" {
			left, right = prec.next(), prec
		}
		p.paren(prec < ctx, func() {
			p.expr(x.Left, left)
			p.w.WriteString(" " + x.Op + " ")
			p.expr(x.Right, right)
		})
	case *pyast.UnaryOp:
		prec := precFactor
		if x.Op == "not" {
			prec = precNot
		}
		p.paren(prec < ctx, func() {
			p.w.WriteString(x.Op)
			if prec != precFactor {
				p.w.WriteString(" ")
			}
			p.expr(x.Operand, prec)
		})
	case *pyast.BoolOp:
		prec := precOr
		if x.Op == "and" {
			prec = precAnd
		}
		p.paren(prec < ctx, func() {
			// каждый следующий операнд связывается сильнее, чтобы
			// вложенные цепочки сохранили свою структуру
			level := prec
			for i, v := range x.Values {
				if i > 0 {
					p.w.WriteString(" " + x.Op + " ")
				}
				level = level.next()
				p.expr(v, level)
			}
		})
	case *pyast.Compare:
		p.paren(precCmp < ctx, func() {
			p.expr(x.Left, precCmp.next())
			for i, op := range x.Ops {
				p.w.WriteString(" " + op + " ")
				if i < len(x.Comparators) {
					p.expr(x.Comparators[i], precCmp.next())
				}
			}
		})
	case *pyast.Call:
		p.expr(x.Func, precAtom)
		p.w.WriteString("(")
		first := true
		sep := func() {
			if !first {
				p.w.WriteString(", ")
			}
			first = false
		}
		for _, a := range x.Args {
			sep()
			p.expr(a, precTest)
		}
		for _, k := range x.Keywords {
			sep()
			if k.Arg == "" {
				p.w.WriteString("**")
			} else {
				p.w.WriteString(k.Arg + "=")
			}
			p.expr(k.Value, precTest)
		}
		p.w.WriteString(")")
	}
}

func (p *printer) paren(need bool, body func()) {
	if need {
		p.w.WriteString("(")
	}
	body()
	if need {
		p.w.WriteString(")")
	}
}

// verbatim writes source text, adding parentheses when the context binds
// tighter or when the text breaks lines outside any bracket.
func (p *printer) verbatim(text string, prec, ctx precedence) {
	p.paren(prec < ctx || bareNewline(text), func() {
		p.w.WriteString(text)
	})
}

// bareNewline reports whether text contains a line break that is not inside
// brackets, a string literal or a backslash continuation.
func bareNewline(text string) bool {
	if !strings.Contains(text, "\n") {
		return false
	}
	depth := 0
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '\\':
			i++
		case '#':
			for i+1 < len(text) && text[i+1] != '\n' {
				i++
			}
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case '\n':
			if depth == 0 {
				return true
			}
		case '\'', '"':
			i = skipString(text, i)
		}
	}
	return false
}

// skipString returns the index of the closing quote of the literal opening at i.
func skipString(s string, i int) int {
	q := s[i]
	if i+2 < len(s) && s[i+1] == q && s[i+2] == q {
		for j := i + 3; j < len(s); j++ {
			if s[j] == '\\' {
				j++
				continue
			}
			if s[j] == q && j+2 < len(s) && s[j+1] == q && s[j+2] == q {
				return j + 2
			}
		}
		return len(s) - 1
	}
	for j := i + 1; j < len(s); j++ {
		if s[j] == '\\' {
			j++
			continue
		}
		if s[j] == q || s[j] == '\n' {
			return j
		}
	}
	return len(s) - 1
}
