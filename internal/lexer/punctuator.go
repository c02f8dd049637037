package lexer

// TokenSource is anything that produces a token stream. The Scanner and the
// Punctuator both satisfy it.
type TokenSource interface {
	NextToken() Token
}

// openerKinds lists the keywords after which the Punctuator expects an
// indented block on the following line.
var openerKinds = map[TokenKind]bool{
	LetKeyword:      true,
	ClassKeyword:    true,
	InstanceKeyword: true,
	IfKeyword:       true,
	ElifKeyword:     true,
	ElseKeyword:     true,
	MatchKeyword:    true,
	StructKeyword:   true,
	EnumKeyword:     true,
}

// Punctuator wraps a Scanner and injects the synthetic BlockStart, BlockEnd
// and LineFoldEnd tokens derived from line/column structure. The layout
// stack holds the columns of open blocks; the implicit bottom of the stack
// is column 1, the top-level block.
//
// Guarantees: BlockStart/BlockEnd nest and balance, and every statement or
// declaration boundary is marked by exactly one LineFoldEnd. Synthetic
// tokens carry the location of the real token that triggered them.
type Punctuator struct {
	src TokenSource

	queue  []Token
	layout []int

	expectBlock bool
	started     bool
	lastLine    int
	done        bool
	eofLoc      TextLoc
}

// NewPunctuator creates a layout-processing wrapper around src.
func NewPunctuator(src TokenSource) *Punctuator {
	return &Punctuator{src: src}
}

func (p *Punctuator) topColumn() int {
	if len(p.layout) == 0 {
		return 1
	}
	return p.layout[len(p.layout)-1]
}

// noteToken updates the block expectation after a real token is emitted. An
// opener keyword arms it; an equals sign disarms it, because "= expr" bodies
// continue the line fold instead of opening a block.
func (p *Punctuator) noteToken(t Token) {
	if openerKinds[t.Kind] {
		p.expectBlock = true
	} else if t.Kind == Equals {
		p.expectBlock = false
	}
}

func (p *Punctuator) pop() Token {
	t := p.queue[0]
	p.queue = p.queue[1:]
	return t
}

// NextToken produces the next token of the punctuated stream. At true end of
// input it closes the open line fold, unwinds the layout stack and finally
// yields EndOfFile, idempotently.
func (p *Punctuator) NextToken() Token {
	if len(p.queue) > 0 {
		return p.pop()
	}
	if p.done {
		return Token{Kind: EndOfFile, Start: p.eofLoc}
	}

	t := p.src.NextToken()

	if t.Kind == EndOfFile {
		p.done = true
		p.eofLoc = t.Start
		if p.started {
			p.queue = append(p.queue, Token{Kind: LineFoldEnd, Start: t.Start})
		}
		for range p.layout {
			p.queue = append(p.queue,
				Token{Kind: BlockEnd, Start: t.Start},
				Token{Kind: LineFoldEnd, Start: t.Start})
		}
		p.layout = nil
		p.queue = append(p.queue, t)
		return p.pop()
	}

	if !p.started {
		p.started = true
		p.lastLine = t.Start.Line
		p.noteToken(t)
		return t
	}

	if t.Start.Line > p.lastLine {
		p.lastLine = t.Start.Line
		col := t.Start.Column
		if p.expectBlock && col > p.topColumn() {
			p.expectBlock = false
			p.layout = append(p.layout, col)
			p.queue = append(p.queue, Token{Kind: BlockStart, Start: t.Start}, t)
		} else {
			p.expectBlock = false
			if col <= p.topColumn() {
				p.queue = append(p.queue, Token{Kind: LineFoldEnd, Start: t.Start})
				for len(p.layout) > 0 && col < p.topColumn() {
					p.layout = p.layout[:len(p.layout)-1]
					p.queue = append(p.queue,
						Token{Kind: BlockEnd, Start: t.Start},
						Token{Kind: LineFoldEnd, Start: t.Start})
				}
			}
			p.queue = append(p.queue, t)
		}
		p.noteToken(t)
		return p.pop()
	}

	p.noteToken(t)
	return t
}
