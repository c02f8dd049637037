package parser

import (
	"github.com/bolt-lang/bolt/internal/cst"
	"github.com/bolt-lang/bolt/internal/lexer"
)

// startsExpression reports whether a token can begin a primitive
// expression; it doubles as the follow test for call arguments.
func startsExpression(kind lexer.TokenKind) bool {
	switch kind {
	case lexer.Identifier, lexer.IdentifierAlt, lexer.IntegerLiteral,
		lexer.StringLiteral, lexer.LParen, lexer.LBrace, lexer.MatchKeyword:
		return true
	}
	return false
}

// ParseExpression parses a full expression, including infix operators.
func (p *Parser) ParseExpression() cst.Expression {
	lhs := p.parseUnaryExpression()
	if lhs == nil {
		return nil
	}
	return p.parseInfixOperatorAfterExpression(lhs, 0)
}

// parseInfixOperatorAfterExpression is the Pratt loop: it keeps absorbing
// infix operators whose precedence is at least minPrecedence. For a
// left-associative operator of precedence q the right operand absorbs only
// operators with precedence > q; for a right-associative one, >= q.
func (p *Parser) parseInfixOperatorAfterExpression(lhs cst.Expression, minPrecedence int) cst.Expression {
	for {
		info, ok := p.ops.Infix(p.peek(0))
		if !ok || info.Precedence < minPrecedence {
			return lhs
		}
		op := p.get()
		rhs := p.parseUnaryExpression()
		if rhs == nil {
			return nil
		}
		next := info.Precedence + 1
		if info.IsRightAssoc() {
			next = info.Precedence
		}
		rhs = p.parseInfixOperatorAfterExpression(rhs, next)
		if rhs == nil {
			return nil
		}
		lhs = &cst.InfixExpression{LHS: lhs, Operator: op, RHS: rhs}
	}
}

// parseUnaryExpression parses prefix operators followed by a call.
func (p *Parser) parseUnaryExpression() cst.Expression {
	if p.ops.IsPrefix(p.peek(0)) {
		op := p.get()
		arg := p.parseUnaryExpression()
		if arg == nil {
			return nil
		}
		return &cst.PrefixExpression{Operator: op, Argument: arg}
	}
	return p.parseCallExpression()
}

// parseCallExpression parses juxtaposition: a primitive expression followed
// by zero or more primitive arguments.
func (p *Parser) parseCallExpression() cst.Expression {
	fn := p.parsePrimitiveExpression()
	if fn == nil {
		return nil
	}
	var args []cst.Expression
	for startsExpression(p.peek(0).Kind) {
		arg := p.parsePrimitiveExpression()
		if arg == nil {
			return nil
		}
		args = append(args, arg)
	}
	if len(args) == 0 {
		return fn
	}
	return &cst.CallExpression{Function: fn, Args: args}
}

// parsePrimitiveExpression parses an atomic expression plus any member
// access suffixes.
func (p *Parser) parsePrimitiveExpression() cst.Expression {
	var e cst.Expression
	switch p.peek(0).Kind {
	case lexer.Identifier, lexer.IdentifierAlt:
		e = p.parseReferenceExpression()
	case lexer.IntegerLiteral, lexer.StringLiteral:
		e = &cst.ConstantExpression{Token: p.get()}
	case lexer.LParen:
		e = p.parseParenExpression()
	case lexer.MatchKeyword:
		e = p.parseMatchExpression()
	case lexer.LBrace:
		e = p.parseRecordExpression()
	default:
		p.unexpected(lexer.Identifier, lexer.IdentifierAlt, lexer.IntegerLiteral,
			lexer.StringLiteral, lexer.LParen, lexer.MatchKeyword, lexer.LBrace)
		return nil
	}
	if e == nil {
		return nil
	}
	for p.peek(0).Kind == lexer.Dot {
		dot := p.get()
		name, ok := p.expect(lexer.Identifier)
		if !ok {
			return nil
		}
		e = &cst.MemberExpression{E: e, Dot: dot, Name: name}
	}
	return e
}

// parseReferenceExpression parses a reference with an optional module
// path: uppercase segments followed by a dot, then the final name.
func (p *Parser) parseReferenceExpression() cst.Expression {
	var modulePath []*lexer.Token
	for p.peek(0).Kind == lexer.IdentifierAlt && p.peek(1).Kind == lexer.Dot {
		modulePath = append(modulePath, p.get())
		p.get() // dot
	}
	switch p.peek(0).Kind {
	case lexer.Identifier, lexer.IdentifierAlt:
		return &cst.ReferenceExpression{ModulePath: modulePath, Name: p.get()}
	}
	p.unexpected(lexer.Identifier, lexer.IdentifierAlt)
	return nil
}

// parseParenExpression parses "()", "(e)" or a tuple "(e1, e2, ...)".
func (p *Parser) parseParenExpression() cst.Expression {
	lparen := p.get()
	if p.peek(0).Kind == lexer.RParen {
		return &cst.TupleExpression{LParen: lparen, RParen: p.get()}
	}
	first := p.ParseExpression()
	if first == nil {
		return nil
	}
	if p.peek(0).Kind != lexer.Comma {
		rparen, ok := p.expect(lexer.RParen)
		if !ok {
			return nil
		}
		return &cst.NestedExpression{LParen: lparen, Inner: first, RParen: rparen}
	}
	elements := []cst.Expression{first}
	for p.peek(0).Kind == lexer.Comma {
		p.get()
		next := p.ParseExpression()
		if next == nil {
			return nil
		}
		elements = append(elements, next)
	}
	rparen, ok := p.expect(lexer.RParen)
	if !ok {
		return nil
	}
	return &cst.TupleExpression{LParen: lparen, Elements: elements, RParen: rparen}
}

// parseMatchExpression parses "match value" followed by a block of
// "pattern => expression" cases.
func (p *Parser) parseMatchExpression() cst.Expression {
	kw := p.get()
	value := p.ParseExpression()
	if value == nil {
		return nil
	}
	blockStart, ok := p.expect(lexer.BlockStart)
	if !ok {
		return nil
	}
	var cases []*cst.MatchCase
	for {
		switch p.peek(0).Kind {
		case lexer.BlockEnd:
			p.get()
			return &cst.MatchExpression{
				MatchKeyword: kw,
				Value:        value,
				BlockStart:   blockStart,
				Cases:        cases,
			}
		case lexer.EndOfFile:
			return &cst.MatchExpression{
				MatchKeyword: kw,
				Value:        value,
				BlockStart:   blockStart,
				Cases:        cases,
			}
		}
		c := p.parseMatchCase()
		if c == nil {
			p.skipToLineFoldEnd()
			continue
		}
		cases = append(cases, c)
	}
}

func (p *Parser) parseMatchCase() *cst.MatchCase {
	pattern := p.parsePattern()
	if pattern == nil {
		return nil
	}
	arrow, ok := p.expect(lexer.RArrowAlt)
	if !ok {
		return nil
	}
	e := p.ParseExpression()
	if e == nil {
		return nil
	}
	if _, ok := p.expect(lexer.LineFoldEnd); !ok {
		return nil
	}
	return &cst.MatchCase{Pattern: pattern, RArrowAlt: arrow, Expression: e}
}

// parseRecordExpression parses a record literal "{ a = 1, b = 2 }".
func (p *Parser) parseRecordExpression() cst.Expression {
	lbrace := p.get()
	var fields []*cst.RecordExpressionField
	if p.peek(0).Kind != lexer.RBrace {
		for {
			name, ok := p.expect(lexer.Identifier)
			if !ok {
				return nil
			}
			equals, ok := p.expect(lexer.Equals)
			if !ok {
				return nil
			}
			e := p.ParseExpression()
			if e == nil {
				return nil
			}
			fields = append(fields, &cst.RecordExpressionField{Name: name, Equals: equals, E: e})
			if p.peek(0).Kind != lexer.Comma {
				break
			}
			p.get()
		}
	}
	rbrace, ok := p.expect(lexer.RBrace)
	if !ok {
		return nil
	}
	return &cst.RecordExpression{LBrace: lbrace, Fields: fields, RBrace: rbrace}
}
