package cst

// SymbolKind discriminates the namespaces a name can live in. The same name
// may be bound as a value and as a type simultaneously.
type SymbolKind int

const (
	SymVar SymbolKind = iota
	SymClass
	SymType
)

func (k SymbolKind) String() string {
	switch k {
	case SymVar:
		return "value"
	case SymClass:
		return "class"
	case SymType:
		return "type"
	}
	return "symbol"
}

// SymbolPath is a name with an optional module prefix.
type SymbolPath struct {
	Modules []string
	Name    string
}

func (p SymbolPath) String() string {
	out := ""
	for _, m := range p.Modules {
		out += m + "."
	}
	return out + p.Name
}

type symbolEntry struct {
	kind SymbolKind
	node Node
}

// Duplicate records two bindings of the same (name, kind) pair in one
// scope. Scanning keeps both entries so lookups can report ambiguity; the
// checker turns Duplicates into shadowing diagnostics.
type Duplicate struct {
	Name    string
	Kind    SymbolKind
	Prior   Node
	Current Node
}

// Scope is the symbol table of one binding region. It owns its mapping but
// not the nodes the mapping refers to; the parent scope is discovered by
// walking CST parent links from the introducing node.
type Scope struct {
	source  Node
	mapping map[string][]symbolEntry

	Duplicates []Duplicate
}

// newScope builds and populates the scope of a scope-introducing node by a
// single shallow scan.
func newScope(source Node) *Scope {
	s := &Scope{
		source:  source,
		mapping: make(map[string][]symbolEntry),
	}
	s.scan(source)
	return s
}

// Source returns the node that introduced this scope.
func (s *Scope) Source() Node { return s.source }

func (s *Scope) addSymbol(name string, decl Node, kind SymbolKind) {
	for _, e := range s.mapping[name] {
		if e.kind == kind {
			s.Duplicates = append(s.Duplicates, Duplicate{
				Name:    name,
				Kind:    kind,
				Prior:   e.node,
				Current: decl,
			})
			break
		}
	}
	s.mapping[name] = append(s.mapping[name], symbolEntry{kind: kind, node: decl})
}

// visitPattern inserts every identifier bound by a pattern under SymVar,
// pointing at the given declaration node.
func (s *Scope) visitPattern(p Pattern, decl Node) {
	switch p := p.(type) {
	case *BindPattern:
		s.addSymbol(p.Name.Text(), decl, SymVar)
	case *NamedPattern:
		for _, sub := range p.Patterns {
			s.visitPattern(sub, decl)
		}
	case *NestedPattern:
		s.visitPattern(p.P, decl)
	case *LiteralPattern:
	}
}

// scan walks the introducing node one level deep. Nested scope introducers
// contribute only their bound names; their bodies populate their own
// scopes.
func (s *Scope) scan(n Node) {
	switch n := n.(type) {
	case *SourceFile:
		for _, el := range n.Elements {
			s.scanElement(el)
		}
	case *LetDeclaration:
		for _, param := range n.Params {
			s.visitPattern(param.Pattern, param)
		}
		if body, ok := n.Body.(*LetBlockBody); ok {
			for _, el := range body.Elements {
				s.scanElement(el)
			}
		}
	}
}

func (s *Scope) scanElement(n Node) {
	switch n := n.(type) {
	case *LetDeclaration:
		s.visitPattern(n.Pattern, n)
	case *RecordDeclaration:
		s.addSymbol(n.Name.Text(), n, SymType)
	case *VariantDeclaration:
		s.addSymbol(n.Name.Text(), n, SymType)
		for _, m := range n.Members {
			switch m := m.(type) {
			case *TupleVariantDeclarationMember:
				s.addSymbol(m.Name.Text(), m, SymVar)
			case *RecordVariantDeclarationMember:
				s.addSymbol(m.Name.Text(), m, SymVar)
			}
		}
	case *ClassDeclaration:
		s.addSymbol(n.Name.Text(), n, SymClass)
		s.addSymbol(n.Name.Text(), n, SymType)
		for _, el := range n.Elements {
			if let, ok := el.(*LetDeclaration); ok {
				s.visitPattern(let.Pattern, let)
			}
		}
	}
}

// LookupDirect consults only this scope's own mapping. Module-qualified
// paths never resolve locally; module declarations are not part of the
// surface grammar, so a non-empty prefix always misses.
func (s *Scope) LookupDirect(path SymbolPath, kind SymbolKind) []Node {
	if len(path.Modules) > 0 {
		return nil
	}
	var out []Node
	for _, e := range s.mapping[path.Name] {
		if e.kind == kind {
			out = append(out, e.node)
		}
	}
	return out
}

// ParentScope returns the scope of the nearest scope-introducing ancestor
// of this scope's source node, or nil at the root.
func (s *Scope) ParentScope() *Scope {
	n := s.source.Parent()
	for n != nil {
		if sc := introducedScope(n); sc != nil {
			return sc
		}
		n = n.Parent()
	}
	return nil
}

// Lookup resolves a path in this scope or any ancestor scope. It returns
// every candidate found in the nearest scope with a hit; an empty result
// means the name is unresolved.
func (s *Scope) Lookup(path SymbolPath, kind SymbolKind) []Node {
	for sc := s; sc != nil; sc = sc.ParentScope() {
		if found := sc.LookupDirect(path, kind); len(found) > 0 {
			return found
		}
	}
	return nil
}

func introducedScope(n Node) *Scope {
	switch n := n.(type) {
	case *SourceFile:
		return n.Scope()
	case *LetDeclaration:
		return n.Scope()
	}
	return nil
}

// ScopeOf returns the scope enclosing n: the scope of n itself when n
// introduces one, otherwise the scope of its nearest introducing ancestor.
func ScopeOf(n Node) *Scope {
	for n != nil {
		if sc := introducedScope(n); sc != nil {
			return sc
		}
		n = n.Parent()
	}
	return nil
}
