package parser

import (
	"github.com/bolt-lang/bolt/internal/cst"
	"github.com/bolt-lang/bolt/internal/lexer"
)

// parseExpressionStatement parses an expression terminated by a line fold.
func (p *Parser) parseExpressionStatement() *cst.ExpressionStatement {
	e := p.ParseExpression()
	if e == nil {
		return nil
	}
	if _, ok := p.expect(lexer.LineFoldEnd); !ok {
		return nil
	}
	return &cst.ExpressionStatement{Expression: e}
}

// parseReturnStatement parses "return [expr]" terminated by a line fold.
func (p *Parser) parseReturnStatement() *cst.ReturnStatement {
	kw, ok := p.expect(lexer.ReturnKeyword)
	if !ok {
		return nil
	}
	var e cst.Expression
	if p.peek(0).Kind != lexer.LineFoldEnd {
		e = p.ParseExpression()
		if e == nil {
			return nil
		}
	}
	if _, ok := p.expect(lexer.LineFoldEnd); !ok {
		return nil
	}
	return &cst.ReturnStatement{ReturnKeyword: kw, Expression: e}
}

// parseIfStatement parses the ordered part list: one "if" with a condition,
// any number of "elif" parts, and an optional trailing "else". Each part
// owns its block; each part's line fold is consumed before looking for the
// next part.
func (p *Parser) parseIfStatement() *cst.IfStatement {
	var parts []*cst.IfStatementPart
	for {
		kw := p.get()
		part := &cst.IfStatementPart{Keyword: kw}
		if kw.Kind != lexer.ElseKeyword {
			test := p.ParseExpression()
			if test == nil {
				return nil
			}
			part.Test = test
		}
		if p.peek(0).Kind == lexer.BlockStart {
			part.BlockStart = p.get()
			part.Elements = p.parseBlockElements(p.parseLetBodyElement)
		}
		if _, ok := p.expect(lexer.LineFoldEnd); !ok {
			return nil
		}
		parts = append(parts, part)
		if kw.Kind == lexer.ElseKeyword {
			break
		}
		next := p.peek(0).Kind
		if next != lexer.ElifKeyword && next != lexer.ElseKeyword {
			break
		}
	}
	return &cst.IfStatement{Parts: parts}
}

// parseParam parses one let parameter: a narrow pattern, or a parenthesized
// pattern with a type assertion.
func (p *Parser) parseParam() *cst.Parameter {
	if p.peek(0).Kind == lexer.LParen && p.parenHoldsTypeAssert() {
		p.get() // lparen
		pattern := p.parsePattern()
		if pattern == nil {
			return nil
		}
		colon, ok := p.expect(lexer.Colon)
		if !ok {
			return nil
		}
		te := p.ParseTypeExpression()
		if te == nil {
			return nil
		}
		if _, ok := p.expect(lexer.RParen); !ok {
			return nil
		}
		return &cst.Parameter{
			Pattern:    pattern,
			TypeAssert: &cst.TypeAssert{Colon: colon, TE: te},
		}
	}
	pattern := p.parseNarrowPattern()
	if pattern == nil {
		return nil
	}
	return &cst.Parameter{Pattern: pattern}
}

// parenHoldsTypeAssert scans the parenthesized group ahead for a colon at
// depth one, which marks an annotated parameter.
func (p *Parser) parenHoldsTypeAssert() bool {
	depth := 0
	for i := 0; ; i++ {
		switch p.peek(i).Kind {
		case lexer.LParen:
			depth++
		case lexer.RParen:
			depth--
			if depth == 0 {
				return false
			}
		case lexer.Colon:
			if depth == 1 {
				return true
			}
		case lexer.LineFoldEnd, lexer.BlockStart, lexer.BlockEnd, lexer.EndOfFile:
			return false
		}
	}
}

// parseLetDeclaration parses
//
//	[pub] let [mut] pattern {param} [: type] [= expr | block]
//
// terminated by a line fold. The pub modifier precedes the let keyword;
// "let pub" is not accepted. A declaration without a body is abstract, as
// inside a class declaration.
func (p *Parser) parseLetDeclaration() *cst.LetDeclaration {
	var pub, mut *lexer.Token
	if p.peek(0).Kind == lexer.PubKeyword {
		pub = p.get()
	}
	letKw, ok := p.expect(lexer.LetKeyword)
	if !ok {
		return nil
	}
	if p.peek(0).Kind == lexer.MutKeyword {
		mut = p.get()
	}

	pattern := p.parseNarrowPattern()
	if pattern == nil {
		return nil
	}

	var params []*cst.Parameter
paramLoop:
	for {
		switch p.peek(0).Kind {
		case lexer.LineFoldEnd, lexer.BlockStart, lexer.BlockEnd,
			lexer.Equals, lexer.Colon, lexer.EndOfFile:
			break paramLoop
		}
		param := p.parseParam()
		if param == nil {
			return nil
		}
		params = append(params, param)
	}

	var assert *cst.TypeAssert
	if p.peek(0).Kind == lexer.Colon {
		colon := p.get()
		te := p.ParseTypeExpression()
		if te == nil {
			return nil
		}
		assert = &cst.TypeAssert{Colon: colon, TE: te}
	}

	var body cst.LetBody
	switch p.peek(0).Kind {
	case lexer.BlockStart:
		blockStart := p.get()
		elements := p.parseBlockElements(p.parseLetBodyElement)
		body = &cst.LetBlockBody{BlockStart: blockStart, Elements: elements}
	case lexer.Equals:
		equals := p.get()
		e := p.ParseExpression()
		if e == nil {
			return nil
		}
		body = &cst.LetExprBody{Equals: equals, Expression: e}
	case lexer.LineFoldEnd:
		// Abstract declaration.
	default:
		p.unexpected(lexer.BlockStart, lexer.Equals, lexer.Colon, lexer.LineFoldEnd)
		return nil
	}

	if _, ok := p.expect(lexer.LineFoldEnd); !ok {
		return nil
	}

	return &cst.LetDeclaration{
		PubKeyword: pub,
		LetKeyword: letKw,
		MutKeyword: mut,
		Pattern:    pattern,
		Params:     params,
		TypeAssert: assert,
		Body:       body,
	}
}

// parseRecordDeclaration parses a struct declaration with a block of
// "name : type" fields.
func (p *Parser) parseRecordDeclaration() *cst.RecordDeclaration {
	var pub *lexer.Token
	if p.peek(0).Kind == lexer.PubKeyword {
		pub = p.get()
	}
	kw, ok := p.expect(lexer.StructKeyword)
	if !ok {
		return nil
	}
	name, ok := p.expect(lexer.IdentifierAlt)
	if !ok {
		return nil
	}
	decl := &cst.RecordDeclaration{PubKeyword: pub, StructKeyword: kw, Name: name}
	if p.peek(0).Kind == lexer.BlockStart {
		decl.BlockStart = p.get()
		for p.peek(0).Kind != lexer.BlockEnd && p.peek(0).Kind != lexer.EndOfFile {
			field := p.parseRecordDeclarationField()
			if field == nil {
				p.skipToLineFoldEnd()
				continue
			}
			decl.Fields = append(decl.Fields, field)
		}
		if p.peek(0).Kind == lexer.BlockEnd {
			p.get()
		}
	}
	if _, ok := p.expect(lexer.LineFoldEnd); !ok {
		return nil
	}
	return decl
}

func (p *Parser) parseRecordDeclarationField() *cst.RecordDeclarationField {
	name, ok := p.expect(lexer.Identifier)
	if !ok {
		return nil
	}
	colon, ok := p.expect(lexer.Colon)
	if !ok {
		return nil
	}
	te := p.ParseTypeExpression()
	if te == nil {
		return nil
	}
	if _, ok := p.expect(lexer.LineFoldEnd); !ok {
		return nil
	}
	return &cst.RecordDeclarationField{Name: name, Colon: colon, TE: te}
}

// parseVariantDeclaration parses an enum declaration: a name, type
// variables, and a block of tuple-style or record-style members.
func (p *Parser) parseVariantDeclaration() *cst.VariantDeclaration {
	var pub *lexer.Token
	if p.peek(0).Kind == lexer.PubKeyword {
		pub = p.get()
	}
	kw, ok := p.expect(lexer.EnumKeyword)
	if !ok {
		return nil
	}
	name, ok := p.expect(lexer.IdentifierAlt)
	if !ok {
		return nil
	}
	decl := &cst.VariantDeclaration{PubKeyword: pub, EnumKeyword: kw, Name: name}
	for p.peek(0).Kind == lexer.Identifier {
		decl.TVs = append(decl.TVs, &cst.VarTypeExpression{Name: p.get()})
	}
	if p.peek(0).Kind == lexer.BlockStart {
		decl.BlockStart = p.get()
		for p.peek(0).Kind != lexer.BlockEnd && p.peek(0).Kind != lexer.EndOfFile {
			member := p.parseVariantDeclarationMember()
			if member == nil {
				p.skipToLineFoldEnd()
				continue
			}
			decl.Members = append(decl.Members, member)
		}
		if p.peek(0).Kind == lexer.BlockEnd {
			p.get()
		}
	}
	if _, ok := p.expect(lexer.LineFoldEnd); !ok {
		return nil
	}
	return decl
}

func (p *Parser) parseVariantDeclarationMember() cst.VariantDeclarationMember {
	name, ok := p.expect(lexer.IdentifierAlt)
	if !ok {
		return nil
	}
	if p.peek(0).Kind == lexer.BlockStart {
		member := &cst.RecordVariantDeclarationMember{Name: name, BlockStart: p.get()}
		for p.peek(0).Kind != lexer.BlockEnd && p.peek(0).Kind != lexer.EndOfFile {
			field := p.parseRecordDeclarationField()
			if field == nil {
				p.skipToLineFoldEnd()
				continue
			}
			member.Fields = append(member.Fields, field)
		}
		if p.peek(0).Kind == lexer.BlockEnd {
			p.get()
		}
		if _, ok := p.expect(lexer.LineFoldEnd); !ok {
			return nil
		}
		return member
	}
	member := &cst.TupleVariantDeclarationMember{Name: name}
	for startsType(p.peek(0).Kind) {
		te := p.parsePrimitiveTypeExpression()
		if te == nil {
			return nil
		}
		member.Elements = append(member.Elements, te)
	}
	if _, ok := p.expect(lexer.LineFoldEnd); !ok {
		return nil
	}
	return member
}

// parseClassDeclaration parses "class Name a b" with a block of class
// elements, which are let declarations that are usually abstract.
func (p *Parser) parseClassDeclaration() *cst.ClassDeclaration {
	var pub *lexer.Token
	if p.peek(0).Kind == lexer.PubKeyword {
		pub = p.get()
	}
	kw, ok := p.expect(lexer.ClassKeyword)
	if !ok {
		return nil
	}
	name, ok := p.expect(lexer.IdentifierAlt)
	if !ok {
		return nil
	}
	decl := &cst.ClassDeclaration{PubKeyword: pub, ClassKeyword: kw, Name: name}
	for p.peek(0).Kind == lexer.Identifier {
		decl.TypeVars = append(decl.TypeVars, &cst.VarTypeExpression{Name: p.get()})
	}
	if p.peek(0).Kind == lexer.BlockStart {
		decl.BlockStart = p.get()
		decl.Elements = p.parseBlockElements(func() cst.Node {
			return nodeOrNil(p.parseLetDeclaration())
		})
	}
	if _, ok := p.expect(lexer.LineFoldEnd); !ok {
		return nil
	}
	return decl
}

// parseInstanceDeclaration parses "instance Name T1 T2" with a block of
// method definitions.
func (p *Parser) parseInstanceDeclaration() *cst.InstanceDeclaration {
	kw, ok := p.expect(lexer.InstanceKeyword)
	if !ok {
		return nil
	}
	name, ok := p.expect(lexer.IdentifierAlt)
	if !ok {
		return nil
	}
	decl := &cst.InstanceDeclaration{InstanceKeyword: kw, Name: name}
	for startsType(p.peek(0).Kind) {
		te := p.parsePrimitiveTypeExpression()
		if te == nil {
			return nil
		}
		decl.TypeExps = append(decl.TypeExps, te)
	}
	if p.peek(0).Kind == lexer.BlockStart {
		decl.BlockStart = p.get()
		decl.Elements = p.parseBlockElements(func() cst.Node {
			return nodeOrNil(p.parseLetDeclaration())
		})
	}
	if _, ok := p.expect(lexer.LineFoldEnd); !ok {
		return nil
	}
	return decl
}
