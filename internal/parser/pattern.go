package parser

import (
	"github.com/bolt-lang/bolt/internal/cst"
	"github.com/bolt-lang/bolt/internal/lexer"
)

func startsPattern(kind lexer.TokenKind) bool {
	switch kind {
	case lexer.Identifier, lexer.IdentifierAlt, lexer.IntegerLiteral,
		lexer.StringLiteral, lexer.LParen:
		return true
	}
	return false
}

// parsePattern parses a full pattern. A constructor name absorbs juxtaposed
// sub-patterns; sub-patterns that are themselves constructor applications
// need parentheses.
func (p *Parser) parsePattern() cst.Pattern {
	if p.peek(0).Kind == lexer.IdentifierAlt {
		name := p.get()
		var patterns []cst.Pattern
		for startsPattern(p.peek(0).Kind) {
			sub := p.parseNarrowPattern()
			if sub == nil {
				return nil
			}
			patterns = append(patterns, sub)
		}
		return &cst.NamedPattern{Name: name, Patterns: patterns}
	}
	return p.parseNarrowPattern()
}

// parseNarrowPattern parses a pattern that does not absorb juxtaposed
// arguments: a bind, a literal, a nullary constructor or a parenthesized
// pattern.
func (p *Parser) parseNarrowPattern() cst.Pattern {
	switch p.peek(0).Kind {
	case lexer.Identifier:
		return &cst.BindPattern{Name: p.get()}
	case lexer.IdentifierAlt:
		return &cst.NamedPattern{Name: p.get()}
	case lexer.IntegerLiteral, lexer.StringLiteral:
		return &cst.LiteralPattern{Literal: p.get()}
	case lexer.LParen:
		lparen := p.get()
		inner := p.parsePattern()
		if inner == nil {
			return nil
		}
		rparen, ok := p.expect(lexer.RParen)
		if !ok {
			return nil
		}
		return &cst.NestedPattern{LParen: lparen, P: inner, RParen: rparen}
	}
	p.unexpected(lexer.Identifier, lexer.IdentifierAlt, lexer.IntegerLiteral,
		lexer.StringLiteral, lexer.LParen)
	return nil
}
