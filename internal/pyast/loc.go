package pyast

import "pyrewrite/internal/source"

// Loc is the source position of a node. Line is 1-based, Col is the 0-based
// byte column. A zero Line marks a synthesized node without a position.
type Loc struct {
	Span    source.Span
	Line    uint32
	Col     uint32
	EndLine uint32
	EndCol  uint32
}

// Valid reports whether the location was set.
func (l Loc) Valid() bool { return l.Line > 0 }

// Location returns the receiver; embedding Loc gives every node the method.
func (l Loc) Location() Loc { return l }

func (l *Loc) setLoc(to Loc) { *l = to }
