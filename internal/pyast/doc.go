// Package pyast is the syntax tree the rules and rewriters work on.
//
// It models the Python statement and expression shapes the tool reasons
// about (exception handlers, function bodies, asserts and the operator
// expressions an assert test is built from). Everything else is carried as
// RawStmt or RawExpr holding the exact source text, so regenerating a file
// never loses code.
//
// Trees are immutable once built. Rewrite and FixMissingLocations return new
// trees and share untouched subtrees with their input.
package pyast
