package parser

import (
	"github.com/bolt-lang/bolt/internal/cst"
	"github.com/bolt-lang/bolt/internal/lexer"
)

func startsType(kind lexer.TokenKind) bool {
	switch kind {
	case lexer.Identifier, lexer.IdentifierAlt, lexer.LParen:
		return true
	}
	return false
}

// ParseTypeExpression parses a full type expression, including an optional
// constraint prefix "C1, C2 => T".
func (p *Parser) ParseTypeExpression() cst.TypeExpression {
	if p.hasConstraintPrefix() {
		return p.parseQualifiedTypeExpression()
	}
	return p.parseArrowTypeExpression()
}

// hasConstraintPrefix scans ahead for a "=>" at parenthesis depth zero
// before the type expression can end, which distinguishes a qualified type
// from a plain one.
func (p *Parser) hasConstraintPrefix() bool {
	depth := 0
	for i := 0; ; i++ {
		switch p.peek(i).Kind {
		case lexer.LParen:
			depth++
		case lexer.RParen:
			if depth == 0 {
				return false
			}
			depth--
		case lexer.RArrowAlt:
			if depth == 0 {
				return true
			}
		case lexer.Equals, lexer.BlockStart, lexer.BlockEnd, lexer.LineFoldEnd, lexer.EndOfFile:
			return false
		}
	}
}

func (p *Parser) parseQualifiedTypeExpression() cst.TypeExpression {
	var constraints []cst.ConstraintExpression
	for {
		c := p.parseConstraintExpression()
		if c == nil {
			return nil
		}
		constraints = append(constraints, c)
		if p.peek(0).Kind != lexer.Comma {
			break
		}
		p.get()
	}
	arrow, ok := p.expect(lexer.RArrowAlt)
	if !ok {
		return nil
	}
	te := p.parseArrowTypeExpression()
	if te == nil {
		return nil
	}
	return &cst.QualifiedTypeExpression{Constraints: constraints, RArrowAlt: arrow, TE: te}
}

// parseConstraintExpression parses either a class constraint "C a b" or an
// equality constraint "T1 ~ T2". A tilde ahead of the next comma or arrow
// picks the equality form.
func (p *Parser) parseConstraintExpression() cst.ConstraintExpression {
	if p.hasTildeAhead() {
		left := p.parseAppTypeExpression()
		if left == nil {
			return nil
		}
		tilde, ok := p.expect(lexer.Tilde)
		if !ok {
			return nil
		}
		right := p.parseAppTypeExpression()
		if right == nil {
			return nil
		}
		return &cst.EqualityConstraintExpression{Left: left, Tilde: tilde, Right: right}
	}
	name, ok := p.expect(lexer.IdentifierAlt)
	if !ok {
		return nil
	}
	var tes []*cst.VarTypeExpression
	for p.peek(0).Kind == lexer.Identifier {
		tes = append(tes, &cst.VarTypeExpression{Name: p.get()})
	}
	return &cst.TypeclassConstraintExpression{Name: name, TEs: tes}
}

func (p *Parser) hasTildeAhead() bool {
	depth := 0
	for i := 0; ; i++ {
		switch p.peek(i).Kind {
		case lexer.LParen:
			depth++
		case lexer.RParen:
			if depth == 0 {
				return false
			}
			depth--
		case lexer.Tilde:
			if depth == 0 {
				return true
			}
		case lexer.Comma, lexer.RArrowAlt, lexer.Equals, lexer.BlockStart,
			lexer.BlockEnd, lexer.LineFoldEnd, lexer.EndOfFile:
			return false
		}
	}
}

// parseArrowTypeExpression parses "A -> B -> C" as parameter types followed
// by a final return type; arrows associate to the right.
func (p *Parser) parseArrowTypeExpression() cst.TypeExpression {
	first := p.parseAppTypeExpression()
	if first == nil {
		return nil
	}
	var params []cst.TypeExpression
	result := first
	for p.peek(0).Kind == lexer.RArrow {
		p.get()
		params = append(params, result)
		result = p.parseAppTypeExpression()
		if result == nil {
			return nil
		}
	}
	if len(params) == 0 {
		return result
	}
	return &cst.ArrowTypeExpression{ParamTypes: params, ReturnType: result}
}

// parseAppTypeExpression parses juxtaposed type application such as
// "List a".
func (p *Parser) parseAppTypeExpression() cst.TypeExpression {
	op := p.parsePrimitiveTypeExpression()
	if op == nil {
		return nil
	}
	var args []cst.TypeExpression
	for startsType(p.peek(0).Kind) {
		arg := p.parsePrimitiveTypeExpression()
		if arg == nil {
			return nil
		}
		args = append(args, arg)
	}
	if len(args) == 0 {
		return op
	}
	return &cst.AppTypeExpression{Op: op, Args: args}
}

func (p *Parser) parsePrimitiveTypeExpression() cst.TypeExpression {
	switch p.peek(0).Kind {
	case lexer.IdentifierAlt:
		var modulePath []*lexer.Token
		for p.peek(0).Kind == lexer.IdentifierAlt && p.peek(1).Kind == lexer.Dot {
			modulePath = append(modulePath, p.get())
			p.get() // dot
		}
		name, ok := p.expect(lexer.IdentifierAlt)
		if !ok {
			return nil
		}
		return &cst.ReferenceTypeExpression{ModulePath: modulePath, Name: name}
	case lexer.Identifier:
		return &cst.VarTypeExpression{Name: p.get()}
	case lexer.LParen:
		return p.parseParenTypeExpression()
	}
	p.unexpected(lexer.IdentifierAlt, lexer.Identifier, lexer.LParen)
	return nil
}

func (p *Parser) parseParenTypeExpression() cst.TypeExpression {
	lparen := p.get()
	if p.peek(0).Kind == lexer.RParen {
		return &cst.TupleTypeExpression{LParen: lparen, RParen: p.get()}
	}
	first := p.ParseTypeExpression()
	if first == nil {
		return nil
	}
	if p.peek(0).Kind != lexer.Comma {
		rparen, ok := p.expect(lexer.RParen)
		if !ok {
			return nil
		}
		return &cst.NestedTypeExpression{LParen: lparen, TE: first, RParen: rparen}
	}
	elements := []cst.TypeExpression{first}
	for p.peek(0).Kind == lexer.Comma {
		p.get()
		next := p.ParseTypeExpression()
		if next == nil {
			return nil
		}
		elements = append(elements, next)
	}
	rparen, ok := p.expect(lexer.RParen)
	if !ok {
		return nil
	}
	return &cst.TupleTypeExpression{LParen: lparen, Elements: elements, RParen: rparen}
}
