// Package diag defines the structured diagnostics produced by the scanner,
// parser, scopes and type checker, together with the store that collects
// them and a console formatter.
//
// The producing phases never render diagnostics; they append reports into a
// Store supplied by the caller, and the caller sorts by source position
// before display.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bolt-lang/bolt/internal/cst"
	"github.com/bolt-lang/bolt/internal/lexer"
)

// Kind is the closed set of diagnostic kinds.
type Kind int

const (
	KindUnexpectedToken Kind = iota
	KindInvalidCharacter
	KindUnificationError
	KindUnresolvedName
	KindAmbiguousName
	KindClassResolutionError
	KindAmbiguousType
	KindShadowingDisallowed
)

// TypeRef is how diagnostics reference types without depending on the
// checker; any type representation that renders itself qualifies.
type TypeRef interface {
	String() string
}

// Diagnostic is a single structured report.
type Diagnostic interface {
	Kind() Kind
	// Node returns the originating CST node, or nil for diagnostics that
	// only carry a raw location (scanner errors).
	Node() cst.Node
	// Start returns the position the diagnostic is sorted and reported at.
	Start() lexer.TextLoc
	Message() string
}

// UnexpectedToken reports a token the parser could not accept, along with
// the set of token kinds that would have been accepted.
type UnexpectedToken struct {
	Found    lexer.Token
	Expected []lexer.TokenKind
}

func (d *UnexpectedToken) Kind() Kind           { return KindUnexpectedToken }
func (d *UnexpectedToken) Node() cst.Node       { return nil }
func (d *UnexpectedToken) Start() lexer.TextLoc { return d.Found.Start }

func (d *UnexpectedToken) Message() string {
	var expected []string
	for _, k := range d.Expected {
		expected = append(expected, k.String())
	}
	return fmt.Sprintf("unexpected %s; expected %s",
		describeToken(d.Found), strings.Join(expected, " or "))
}

func describeToken(t lexer.Token) string {
	switch t.Kind {
	case lexer.EndOfFile, lexer.BlockStart, lexer.BlockEnd, lexer.LineFoldEnd:
		return t.Kind.String()
	}
	return "'" + t.Text() + "'"
}

// InvalidCharacter reports a byte the scanner could not tokenize.
type InvalidCharacter struct {
	Ch  rune
	Loc lexer.TextLoc
}

func (d *InvalidCharacter) Kind() Kind           { return KindInvalidCharacter }
func (d *InvalidCharacter) Node() cst.Node       { return nil }
func (d *InvalidCharacter) Start() lexer.TextLoc { return d.Loc }

func (d *InvalidCharacter) Message() string {
	return fmt.Sprintf("invalid character %q", d.Ch)
}

// UnificationError reports two types that could not be made equal.
type UnificationError struct {
	Left  TypeRef
	Right TypeRef
	Site  cst.Node
}

func (d *UnificationError) Kind() Kind           { return KindUnificationError }
func (d *UnificationError) Node() cst.Node       { return d.Site }
func (d *UnificationError) Start() lexer.TextLoc { return cst.StartLoc(d.Site) }

func (d *UnificationError) Message() string {
	return fmt.Sprintf("type %s does not match %s", d.Left, d.Right)
}

// UnresolvedName reports a reference that no scope could resolve.
type UnresolvedName struct {
	Path       cst.SymbolPath
	SymbolKind cst.SymbolKind
	Site       cst.Node
}

func (d *UnresolvedName) Kind() Kind           { return KindUnresolvedName }
func (d *UnresolvedName) Node() cst.Node       { return d.Site }
func (d *UnresolvedName) Start() lexer.TextLoc { return cst.StartLoc(d.Site) }

func (d *UnresolvedName) Message() string {
	return fmt.Sprintf("%s '%s' is not defined", d.SymbolKind, d.Path)
}

// AmbiguousName reports a reference that resolved to several bindings of
// the same (name, kind) pair.
type AmbiguousName struct {
	Path       cst.SymbolPath
	SymbolKind cst.SymbolKind
	Candidates []cst.Node
	Site       cst.Node
}

func (d *AmbiguousName) Kind() Kind           { return KindAmbiguousName }
func (d *AmbiguousName) Node() cst.Node       { return d.Site }
func (d *AmbiguousName) Start() lexer.TextLoc { return cst.StartLoc(d.Site) }

func (d *AmbiguousName) Message() string {
	return fmt.Sprintf("%s '%s' is ambiguous (%d candidates)",
		d.SymbolKind, d.Path, len(d.Candidates))
}

// ClassResolutionError reports a class constraint with no matching
// instance, or with several.
type ClassResolutionError struct {
	Constraint string
	Site       cst.Node
	Ambiguous  bool
}

func (d *ClassResolutionError) Kind() Kind           { return KindClassResolutionError }
func (d *ClassResolutionError) Node() cst.Node       { return d.Site }
func (d *ClassResolutionError) Start() lexer.TextLoc { return cst.StartLoc(d.Site) }

func (d *ClassResolutionError) Message() string {
	if d.Ambiguous {
		return fmt.Sprintf("multiple instances match constraint %s", d.Constraint)
	}
	return fmt.Sprintf("no instance found for constraint %s", d.Constraint)
}

// AmbiguousType reports an expression whose type still contains an unsolved
// unification variable after all source files were processed.
type AmbiguousType struct {
	Var  TypeRef
	Site cst.Node
}

func (d *AmbiguousType) Kind() Kind           { return KindAmbiguousType }
func (d *AmbiguousType) Node() cst.Node       { return d.Site }
func (d *AmbiguousType) Start() lexer.TextLoc { return cst.StartLoc(d.Site) }

func (d *AmbiguousType) Message() string {
	return fmt.Sprintf("the type of this expression could not be fully determined (%s remains)", d.Var)
}

// ShadowingDisallowed reports two bindings of the same (name, kind) pair in
// one scope.
type ShadowingDisallowed struct {
	Name       string
	SymbolKind cst.SymbolKind
	Prior      cst.Node
	Current    cst.Node
}

func (d *ShadowingDisallowed) Kind() Kind           { return KindShadowingDisallowed }
func (d *ShadowingDisallowed) Node() cst.Node       { return d.Current }
func (d *ShadowingDisallowed) Start() lexer.TextLoc { return cst.StartLoc(d.Current) }

func (d *ShadowingDisallowed) Message() string {
	return fmt.Sprintf("%s '%s' is already bound in this scope", d.SymbolKind, d.Name)
}

// Store collects diagnostics from all phases. It is append-only until the
// caller sorts it for display.
type Store struct {
	Diagnostics []Diagnostic
}

// NewStore creates an empty diagnostic store.
func NewStore() *Store {
	return &Store{}
}

// Add appends a diagnostic.
func (s *Store) Add(d Diagnostic) {
	s.Diagnostics = append(s.Diagnostics, d)
}

// Count returns the number of collected diagnostics.
func (s *Store) Count() int {
	return len(s.Diagnostics)
}

// Sort orders diagnostics by (start line, start column) ascending. The sort
// is stable so that reports at the same position keep emission order.
func (s *Store) Sort() {
	sort.SliceStable(s.Diagnostics, func(i, j int) bool {
		a, b := s.Diagnostics[i].Start(), s.Diagnostics[j].Start()
		return a.Before(b)
	})
}
