// Package parser turns the punctuated token stream into a concrete syntax
// tree. It is a recursive descent parser with arbitrary lookahead through a
// peek buffer, plus a Pratt-style loop for infix and prefix operators.
//
// Error policy: a production that meets an unexpected token reports an
// UnexpectedToken diagnostic listing the acceptable kinds and returns nil;
// the enclosing element loop then resynchronizes by discarding tokens up to
// the next line-fold end or the matching block end, so a single error never
// aborts the file.
package parser

import (
	"github.com/bolt-lang/bolt/internal/cst"
	"github.com/bolt-lang/bolt/internal/diag"
	"github.com/bolt-lang/bolt/internal/lexer"
	"github.com/bolt-lang/bolt/internal/text"
)

// Parser consumes a token source and produces CST nodes.
type Parser struct {
	file   *text.File
	src    lexer.TokenSource
	buffer []lexer.Token

	ops   *OperatorTable
	diags *diag.Store
}

// New creates a parser over the given token source. Diagnostics are
// appended to diags.
func New(file *text.File, src lexer.TokenSource, diags *diag.Store) *Parser {
	return &Parser{
		file:  file,
		src:   src,
		ops:   NewOperatorTable(),
		diags: diags,
	}
}

// Operators exposes the operator table for queries and user extensions.
func (p *Parser) Operators() *OperatorTable { return p.ops }

// peek returns the i-th upcoming token without consuming it. peek(0) is the
// next token.
func (p *Parser) peek(i int) *lexer.Token {
	for len(p.buffer) <= i {
		p.buffer = append(p.buffer, p.src.NextToken())
	}
	return &p.buffer[i]
}

// get consumes and returns the next token.
func (p *Parser) get() *lexer.Token {
	tok := *p.peek(0)
	p.buffer = p.buffer[1:]
	out := tok
	return &out
}

// expect consumes the next token when it has the wanted kind; otherwise it
// reports an UnexpectedToken diagnostic and returns false. The offending
// token is left in the stream for resynchronization.
func (p *Parser) expect(kind lexer.TokenKind) (*lexer.Token, bool) {
	if p.peek(0).Kind == kind {
		return p.get(), true
	}
	p.unexpected(kind)
	return nil, false
}

// unexpected reports the next token against the set of kinds that would
// have been accepted.
func (p *Parser) unexpected(expected ...lexer.TokenKind) {
	p.diags.Add(&diag.UnexpectedToken{
		Found:    *p.peek(0),
		Expected: expected,
	})
}

// skipToLineFoldEnd discards tokens up to and including the next line-fold
// end at the current block depth. A block end belonging to the enclosing
// block stops the skip without being consumed, so the caller's loop can
// close its block normally.
func (p *Parser) skipToLineFoldEnd() {
	depth := 0
	for {
		switch p.peek(0).Kind {
		case lexer.EndOfFile:
			return
		case lexer.BlockStart:
			depth++
			p.get()
		case lexer.BlockEnd:
			if depth == 0 {
				return
			}
			depth--
			p.get()
		case lexer.LineFoldEnd:
			p.get()
			if depth == 0 {
				return
			}
		default:
			p.get()
		}
	}
}

// peekFirstTokenAfterModifiers looks past leading "pub" and "mut" keywords.
func (p *Parser) peekFirstTokenAfterModifiers() *lexer.Token {
	i := 0
	for {
		t := p.peek(i)
		switch t.Kind {
		case lexer.PubKeyword, lexer.MutKeyword:
			i++
		default:
			return t
		}
	}
}

// ParseSourceFile parses a whole compilation unit. The returned tree may be
// incomplete when diagnostics were reported, but it is always safe to
// traverse.
func (p *Parser) ParseSourceFile() *cst.SourceFile {
	var elements []cst.Node
	for p.peek(0).Kind != lexer.EndOfFile {
		el := p.parseSourceElement()
		if el == nil {
			p.skipToLineFoldEnd()
			continue
		}
		elements = append(elements, el)
	}
	return &cst.SourceFile{File: p.file, Elements: elements}
}

// parseSourceElement parses one top-level declaration or statement.
func (p *Parser) parseSourceElement() cst.Node {
	switch p.peekFirstTokenAfterModifiers().Kind {
	case lexer.LetKeyword:
		return nodeOrNil(p.parseLetDeclaration())
	case lexer.StructKeyword:
		return nodeOrNil(p.parseRecordDeclaration())
	case lexer.EnumKeyword:
		return nodeOrNil(p.parseVariantDeclaration())
	case lexer.ClassKeyword:
		return nodeOrNil(p.parseClassDeclaration())
	case lexer.InstanceKeyword:
		return nodeOrNil(p.parseInstanceDeclaration())
	case lexer.IfKeyword:
		return nodeOrNil(p.parseIfStatement())
	case lexer.ReturnKeyword:
		return nodeOrNil(p.parseReturnStatement())
	default:
		return nodeOrNil(p.parseExpressionStatement())
	}
}

// parseLetBodyElement parses one element of a let block body: a nested let
// declaration or a statement.
func (p *Parser) parseLetBodyElement() cst.Node {
	switch p.peekFirstTokenAfterModifiers().Kind {
	case lexer.LetKeyword:
		return nodeOrNil(p.parseLetDeclaration())
	case lexer.IfKeyword:
		return nodeOrNil(p.parseIfStatement())
	case lexer.ReturnKeyword:
		return nodeOrNil(p.parseReturnStatement())
	default:
		return nodeOrNil(p.parseExpressionStatement())
	}
}

// nodeOrNil keeps a typed nil from leaking into a cst.Node interface value.
func nodeOrNil[T cst.Node](n T) cst.Node {
	var zero T
	if any(n) == any(zero) {
		return nil
	}
	return n
}

// parseBlockElements parses elements until the matching block end, applying
// the resynchronization policy per element.
func (p *Parser) parseBlockElements(parse func() cst.Node) []cst.Node {
	var elements []cst.Node
	for {
		switch p.peek(0).Kind {
		case lexer.BlockEnd:
			p.get()
			return elements
		case lexer.EndOfFile:
			return elements
		}
		el := parse()
		if el == nil {
			p.skipToLineFoldEnd()
			continue
		}
		elements = append(elements, el)
	}
}
