package cst

import (
	"testing"

	"github.com/bolt-lang/bolt/internal/lexer"
)

func TestScopeLookupDirect(t *testing.T) {
	sf, letDecl, _ := buildFile()

	found := sf.Scope().LookupDirect(SymbolPath{Name: "f"}, SymVar)
	if len(found) != 1 || found[0] != letDecl {
		t.Fatalf("expected the let declaration for 'f', got %v", found)
	}
	if found := sf.Scope().LookupDirect(SymbolPath{Name: "f"}, SymType); found != nil {
		t.Fatalf("'f' must not resolve under the Type kind")
	}
	if found := sf.Scope().LookupDirect(SymbolPath{Name: "missing"}, SymVar); found != nil {
		t.Fatalf("unknown name must not resolve")
	}
}

func TestScopeWalksToParent(t *testing.T) {
	_, letDecl, ref := buildFile()

	// The reference sits inside the let body; its scope is the let's, where
	// the parameter x is visible.
	scope := ScopeOf(ref)
	if scope == nil {
		t.Fatalf("no scope found for reference")
	}
	if scope.Source() != letDecl {
		t.Fatalf("innermost scope should belong to the let declaration")
	}
	found := scope.Lookup(SymbolPath{Name: "x"}, SymVar)
	if len(found) != 1 {
		t.Fatalf("parameter x not found from body, got %v", found)
	}
	// f is only visible through the parent (file) scope.
	found = scope.Lookup(SymbolPath{Name: "f"}, SymVar)
	if len(found) != 1 || found[0] != letDecl {
		t.Fatalf("f not found through parent chain, got %v", found)
	}
}

func TestScopeModulePrefixNeverResolvesLocally(t *testing.T) {
	sf, _, _ := buildFile()
	found := sf.Scope().Lookup(SymbolPath{Modules: []string{"M"}, Name: "f"}, SymVar)
	if found != nil {
		t.Fatalf("module-qualified path must not resolve, got %v", found)
	}
}

func TestScopeRecordsDuplicates(t *testing.T) {
	first := &LetDeclaration{
		LetKeyword: tok(lexer.LetKeyword, "", 1, 1),
		Pattern:    &BindPattern{Name: tok(lexer.Identifier, "a", 1, 5)},
	}
	second := &LetDeclaration{
		LetKeyword: tok(lexer.LetKeyword, "", 2, 1),
		Pattern:    &BindPattern{Name: tok(lexer.Identifier, "a", 2, 5)},
	}
	sf := &SourceFile{Elements: []Node{first, second}}
	SetParents(sf)

	scope := sf.Scope()
	if len(scope.Duplicates) != 1 {
		t.Fatalf("expected 1 duplicate, got %d", len(scope.Duplicates))
	}
	d := scope.Duplicates[0]
	if d.Name != "a" || d.Kind != SymVar || d.Prior != first || d.Current != second {
		t.Fatalf("duplicate record wrong: %+v", d)
	}

	// Both entries survive so lookups can report ambiguity.
	if found := scope.Lookup(SymbolPath{Name: "a"}, SymVar); len(found) != 2 {
		t.Fatalf("expected 2 candidates for ambiguous name, got %d", len(found))
	}
}

func TestScopeKindsCoexist(t *testing.T) {
	record := &RecordDeclaration{
		StructKeyword: tok(lexer.StructKeyword, "", 1, 1),
		Name:          tok(lexer.IdentifierAlt, "Point", 1, 8),
	}
	letDecl := &LetDeclaration{
		LetKeyword: tok(lexer.LetKeyword, "", 2, 1),
		Pattern:    &BindPattern{Name: tok(lexer.Identifier, "point", 2, 5)},
	}
	class := &ClassDeclaration{
		ClassKeyword: tok(lexer.ClassKeyword, "", 3, 1),
		Name:         tok(lexer.IdentifierAlt, "Show", 3, 7),
	}
	sf := &SourceFile{Elements: []Node{record, letDecl, class}}
	SetParents(sf)

	scope := sf.Scope()
	if found := scope.LookupDirect(SymbolPath{Name: "Point"}, SymType); len(found) != 1 {
		t.Fatalf("struct name not under Type kind")
	}
	if found := scope.LookupDirect(SymbolPath{Name: "Show"}, SymClass); len(found) != 1 {
		t.Fatalf("class name not under Class kind")
	}
	if found := scope.LookupDirect(SymbolPath{Name: "Show"}, SymType); len(found) != 1 {
		t.Fatalf("class name must also register under Type kind")
	}
	if len(scope.Duplicates) != 0 {
		t.Fatalf("kinds must not collide: %+v", scope.Duplicates)
	}
}
