// Package cst defines the concrete syntax tree produced by the parser. Each
// node family (type expressions, patterns, expressions, statements,
// declarations) is a closed set of variants discriminated by its Go type;
// polymorphic queries such as FirstToken and LastToken are per-variant
// methods, and traversals are match-driven (see walk.go).
//
// Ownership runs downward: a node exclusively owns its children, and the
// SourceFile at the root owns the whole tree. Parent links are non-owning
// back references filled in by SetParents after construction.
package cst

import (
	"github.com/bolt-lang/bolt/internal/lexer"
	"github.com/bolt-lang/bolt/internal/text"
)

// Node is implemented by every CST node.
type Node interface {
	FirstToken() *lexer.Token
	LastToken() *lexer.Token
	Parent() Node
	setParent(Node)
}

// baseNode carries the parent back reference shared by all nodes.
type baseNode struct {
	parent Node
}

func (b *baseNode) Parent() Node     { return b.parent }
func (b *baseNode) setParent(p Node) { b.parent = p }

// RangeOf returns the source range covered by a node, from the start of its
// first token to the end of its last.
func RangeOf(n Node) lexer.TextRange {
	return lexer.TextRange{
		Start: n.FirstToken().Start,
		End:   n.LastToken().End(),
	}
}

// StartLoc returns the start location of the node's first token.
func StartLoc(n Node) lexer.TextLoc {
	return n.FirstToken().Start
}

// SourceFile is the root of the tree for one compilation unit.
type SourceFile struct {
	baseNode
	File     *text.File
	Elements []Node

	scope *Scope
}

func (n *SourceFile) FirstToken() *lexer.Token {
	if len(n.Elements) == 0 {
		return &lexer.Token{Kind: lexer.EndOfFile, Start: lexer.TextLoc{Line: 1, Column: 1}}
	}
	return n.Elements[0].FirstToken()
}

func (n *SourceFile) LastToken() *lexer.Token {
	if len(n.Elements) == 0 {
		return &lexer.Token{Kind: lexer.EndOfFile, Start: lexer.TextLoc{Line: 1, Column: 1}}
	}
	return n.Elements[len(n.Elements)-1].LastToken()
}

// Scope returns the file-level scope, creating and populating it on first
// use.
func (n *SourceFile) Scope() *Scope {
	if n.scope == nil {
		n.scope = newScope(n)
	}
	return n.scope
}

// SourceFileOf walks parent links up to the root source file, or nil when
// the node is detached.
func SourceFileOf(n Node) *SourceFile {
	for n != nil {
		if sf, ok := n.(*SourceFile); ok {
			return sf
		}
		n = n.Parent()
	}
	return nil
}
