package parser

import "github.com/bolt-lang/bolt/internal/lexer"

// OperatorFlags encode how an operator may be used.
type OperatorFlags uint

const (
	OperatorPrefix OperatorFlags = 1 << iota
	OperatorSuffix
	OperatorInfixL
	OperatorInfixR
)

// OperatorInfo is one operator table entry.
type OperatorInfo struct {
	Precedence int
	Flags      OperatorFlags
}

func (i OperatorInfo) IsPrefix() bool { return i.Flags&OperatorPrefix != 0 }
func (i OperatorInfo) IsSuffix() bool { return i.Flags&OperatorSuffix != 0 }

func (i OperatorInfo) IsInfix() bool {
	return i.Flags&(OperatorInfixL|OperatorInfixR) != 0
}

func (i OperatorInfo) IsRightAssoc() bool { return i.Flags&OperatorInfixR != 0 }

// OperatorTable maps operator symbol text to parsing information. It is
// seeded with the built-in operators and extensible by symbol text.
type OperatorTable struct {
	mapping map[string]OperatorInfo
}

// defaultInfixInfo is used for custom operators that have no table entry.
var defaultInfixInfo = OperatorInfo{Precedence: 5, Flags: OperatorInfixL}

// NewOperatorTable returns a table populated with the default operator set.
func NewOperatorTable() *OperatorTable {
	t := &OperatorTable{mapping: make(map[string]OperatorInfo)}
	t.Add("$", OperatorInfixR, 0)
	t.Add("||", OperatorInfixL, 1)
	t.Add("&&", OperatorInfixL, 2)
	t.Add("==", OperatorInfixL, 3)
	t.Add("<", OperatorInfixL, 4)
	t.Add(">", OperatorInfixL, 4)
	t.Add("<=", OperatorInfixL, 4)
	t.Add(">=", OperatorInfixL, 4)
	t.Add("+", OperatorInfixL, 6)
	t.Add("-", OperatorInfixL|OperatorPrefix, 6)
	t.Add("*", OperatorInfixL, 7)
	t.Add("/", OperatorInfixL, 7)
	t.Add("%", OperatorInfixL, 7)
	t.Add("**", OperatorInfixR, 8)
	return t
}

// Add registers or replaces an entry.
func (t *OperatorTable) Add(name string, flags OperatorFlags, precedence int) {
	t.mapping[name] = OperatorInfo{Precedence: precedence, Flags: flags}
}

// Lookup returns the entry for the given symbol text.
func (t *OperatorTable) Lookup(name string) (OperatorInfo, bool) {
	info, ok := t.mapping[name]
	return info, ok
}

// Infix returns operator information when the token can act as an infix
// operator. Unregistered custom operators parse as left-associative with a
// middling precedence.
func (t *OperatorTable) Infix(tok *lexer.Token) (OperatorInfo, bool) {
	if tok.Kind != lexer.CustomOperator {
		return OperatorInfo{}, false
	}
	info, ok := t.mapping[tok.Text()]
	if !ok {
		return defaultInfixInfo, true
	}
	if !info.IsInfix() {
		return OperatorInfo{}, false
	}
	return info, true
}

// IsPrefix reports whether the token can begin a prefix expression.
func (t *OperatorTable) IsPrefix(tok *lexer.Token) bool {
	if tok.Kind != lexer.CustomOperator {
		return false
	}
	info, ok := t.mapping[tok.Text()]
	return ok && info.IsPrefix()
}
