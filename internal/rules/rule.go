// Package rules holds the lint rules and the walker that runs them.
//
// A rule is a pure function over one node kind: Check returns diagnostics,
// and a Fixer additionally returns a rebuilt node plus one Fixed diagnostic
// per corrected violation. Rules never modify the node they are given.
package rules

import (
	"pyrewrite/internal/diag"
	"pyrewrite/internal/pyast"
)

// Rule inspects nodes of the kinds it declares.
type Rule interface {
	Code() diag.Code
	// Name is a short kebab-case identifier shown by the rules command.
	Name() string
	Kinds() []pyast.Kind
	Check(n pyast.Node) []diag.Diagnostic
}

// Fixer is a Rule that can also correct what it finds.
type Fixer interface {
	Rule
	Fix(n pyast.Node) (pyast.Node, []diag.Diagnostic)
}

// at builds a warning positioned at loc.
func at(code diag.Code, loc pyast.Loc, msg string) diag.Diagnostic {
	return diag.New(diag.SevWarning, code, loc.Span, loc.Line, loc.Col, msg)
}
