// Package diag defines the diagnostic model shared by the parser, the lint
// rules, the assert rewriter and the driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: numeric identifier whose thousands digit selects a family
//     (TRY, FUN, AST, SYN, IOE) and whose remainder is the rule number, so
//     1001 renders as TRY01.
//   - Message: short human text, e.g. "bare exception".
//   - Primary, Line, Offset: where the matched node starts. Line is 1-based
//     and Offset is the 0-based column, exactly as the tree reported it at
//     match time.
//   - Subject: enclosing name when the rule has one (function name for FUN01).
//   - Fixed: the diagnostic describes a correction that was applied.
//   - Fixes: optional text-edit suggestions consumed by internal/fix.
//
// # Scope
//
// Package diag performs no IO. Rendering beyond the canonical short line lives
// in internal/diagfmt; applying edits lives in internal/fix.
package diag
