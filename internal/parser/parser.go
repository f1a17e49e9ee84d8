// Package parser turns Python source into a pyast tree using the
// tree-sitter Python grammar.
package parser

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"pyrewrite/internal/pyast"
	"pyrewrite/internal/source"
)

// SyntaxError reports source that is not valid Python. Line is 1-based and
// Col is the 0-based byte column.
type SyntaxError struct {
	Path string
	Line uint32
	Col  uint32
	Span source.Span
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Col, e.Msg)
}

// Parser wraps a reusable tree-sitter parser. It is not safe for concurrent use.
type Parser struct {
	ts *sitter.Parser
}

// New creates a parser configured for Python.
func New() *Parser {
	ts := sitter.NewParser()
	ts.SetLanguage(python.GetLanguage())
	return &Parser{ts: ts}
}

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	if p != nil && p.ts != nil {
		p.ts.Close()
		p.ts = nil
	}
}

// Parse parses the file id of fs. Invalid source yields *SyntaxError.
func (p *Parser) Parse(ctx context.Context, fs *source.FileSet, id source.FileID) (*pyast.Module, error) {
	file := fs.Get(id)
	tree, err := p.ts.ParseCtx(ctx, nil, file.Content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file.Path, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("parse %s: no tree", file.Path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if bad := firstError(root); bad != nil {
		return nil, syntaxErrorAt(file, bad)
	}

	b := &builder{src: file.Content, file: id, path: file.Path}
	mod := b.module(root)
	if b.err != nil {
		return nil, b.err
	}
	return mod, nil
}

// Parse parses one file with a throwaway parser.
func Parse(ctx context.Context, fs *source.FileSet, id source.FileID) (*pyast.Module, error) {
	p := New()
	defer p.Close()
	return p.Parse(ctx, fs, id)
}

// ParseSource parses src as a file named name.
func ParseSource(ctx context.Context, name string, src []byte) (*pyast.Module, error) {
	fs := source.NewFileSet()
	return Parse(ctx, fs, fs.AddVirtual(name, src))
}

// DumpCST renders the concrete syntax tree of src as an S-expression.
func DumpCST(ctx context.Context, src []byte) (string, error) {
	p := New()
	defer p.Close()
	tree, err := p.ts.ParseCtx(ctx, nil, src)
	if err != nil {
		return "", err
	}
	if tree == nil {
		return "", errors.New("no tree")
	}
	defer tree.Close()
	return tree.RootNode().String(), nil
}

// firstError finds the first ERROR or MISSING node in source order.
func firstError(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.IsMissing() || n.Type() == "ERROR" {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstError(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}

func syntaxErrorAt(file *source.File, n *sitter.Node) *SyntaxError {
	msg := "invalid syntax"
	if n.IsMissing() {
		msg = fmt.Sprintf("expected '%s'", n.Type())
	}
	pt := n.StartPoint()
	return &SyntaxError{
		Path: file.Path,
		Line: pt.Row + 1,
		Col:  pt.Column,
		Span: source.Span{File: file.ID, Start: n.StartByte(), End: n.EndByte()},
		Msg:  msg,
	}
}
