package cst

import "github.com/bolt-lang/bolt/internal/lexer"

// Pattern is the family of patterns that appear in let bindings, parameters
// and match cases.
type Pattern interface {
	Node
	patternNode()
}

// BindPattern binds a lowercase identifier.
type BindPattern struct {
	baseNode
	Name *lexer.Token // Identifier
}

func (n *BindPattern) patternNode()             {}
func (n *BindPattern) FirstToken() *lexer.Token { return n.Name }
func (n *BindPattern) LastToken() *lexer.Token  { return n.Name }

// LiteralPattern matches an integer or string literal.
type LiteralPattern struct {
	baseNode
	Literal *lexer.Token
}

func (n *LiteralPattern) patternNode()             {}
func (n *LiteralPattern) FirstToken() *lexer.Token { return n.Literal }
func (n *LiteralPattern) LastToken() *lexer.Token  { return n.Literal }

// NamedPattern matches a constructor applied to sub-patterns.
type NamedPattern struct {
	baseNode
	Name     *lexer.Token // IdentifierAlt
	Patterns []Pattern
}

func (n *NamedPattern) patternNode()             {}
func (n *NamedPattern) FirstToken() *lexer.Token { return n.Name }

func (n *NamedPattern) LastToken() *lexer.Token {
	if len(n.Patterns) == 0 {
		return n.Name
	}
	return n.Patterns[len(n.Patterns)-1].LastToken()
}

// NestedPattern is a parenthesized pattern.
type NestedPattern struct {
	baseNode
	LParen *lexer.Token
	P      Pattern
	RParen *lexer.Token
}

func (n *NestedPattern) patternNode()             {}
func (n *NestedPattern) FirstToken() *lexer.Token { return n.LParen }
func (n *NestedPattern) LastToken() *lexer.Token  { return n.RParen }
