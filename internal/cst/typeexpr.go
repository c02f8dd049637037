package cst

import "github.com/bolt-lang/bolt/internal/lexer"

// TypeExpression is the family of syntactic type annotations.
type TypeExpression interface {
	Node
	typeExprNode()
}

// ConstraintExpression is the family of constraints that may prefix a
// qualified type.
type ConstraintExpression interface {
	Node
	constraintExprNode()
}

// ReferenceTypeExpression names a (possibly module-qualified) type.
type ReferenceTypeExpression struct {
	baseNode
	ModulePath []*lexer.Token // IdentifierAlt tokens before the final name
	Name       *lexer.Token   // IdentifierAlt
}

func (n *ReferenceTypeExpression) typeExprNode() {}

func (n *ReferenceTypeExpression) FirstToken() *lexer.Token {
	if len(n.ModulePath) > 0 {
		return n.ModulePath[0]
	}
	return n.Name
}

func (n *ReferenceTypeExpression) LastToken() *lexer.Token { return n.Name }

// Path returns the module prefix and name as a symbol path.
func (n *ReferenceTypeExpression) Path() SymbolPath {
	var modules []string
	for _, t := range n.ModulePath {
		modules = append(modules, t.Text())
	}
	return SymbolPath{Modules: modules, Name: n.Name.Text()}
}

// VarTypeExpression is a lowercase identifier used as a type variable.
type VarTypeExpression struct {
	baseNode
	Name *lexer.Token // Identifier
}

func (n *VarTypeExpression) typeExprNode()            {}
func (n *VarTypeExpression) FirstToken() *lexer.Token { return n.Name }
func (n *VarTypeExpression) LastToken() *lexer.Token  { return n.Name }

// AppTypeExpression applies a type constructor to arguments by
// juxtaposition.
type AppTypeExpression struct {
	baseNode
	Op   TypeExpression
	Args []TypeExpression
}

func (n *AppTypeExpression) typeExprNode()            {}
func (n *AppTypeExpression) FirstToken() *lexer.Token { return n.Op.FirstToken() }

func (n *AppTypeExpression) LastToken() *lexer.Token {
	if len(n.Args) == 0 {
		return n.Op.LastToken()
	}
	return n.Args[len(n.Args)-1].LastToken()
}

// ArrowTypeExpression is a function type. Arrows associate to the right;
// the parser flattens a chain into parameter types plus a final return
// type.
type ArrowTypeExpression struct {
	baseNode
	ParamTypes []TypeExpression
	ReturnType TypeExpression
}

func (n *ArrowTypeExpression) typeExprNode() {}

func (n *ArrowTypeExpression) FirstToken() *lexer.Token {
	if len(n.ParamTypes) > 0 {
		return n.ParamTypes[0].FirstToken()
	}
	return n.ReturnType.FirstToken()
}

func (n *ArrowTypeExpression) LastToken() *lexer.Token { return n.ReturnType.LastToken() }

// QualifiedTypeExpression prefixes a type with class or equality
// constraints, as in "Eq a => a -> a -> Bool".
type QualifiedTypeExpression struct {
	baseNode
	Constraints []ConstraintExpression
	RArrowAlt   *lexer.Token
	TE          TypeExpression
}

func (n *QualifiedTypeExpression) typeExprNode() {}

func (n *QualifiedTypeExpression) FirstToken() *lexer.Token {
	if len(n.Constraints) > 0 {
		return n.Constraints[0].FirstToken()
	}
	return n.RArrowAlt
}

func (n *QualifiedTypeExpression) LastToken() *lexer.Token { return n.TE.LastToken() }

// TupleTypeExpression is a parenthesized, comma-separated list of types.
type TupleTypeExpression struct {
	baseNode
	LParen   *lexer.Token
	Elements []TypeExpression
	RParen   *lexer.Token
}

func (n *TupleTypeExpression) typeExprNode()            {}
func (n *TupleTypeExpression) FirstToken() *lexer.Token { return n.LParen }
func (n *TupleTypeExpression) LastToken() *lexer.Token  { return n.RParen }

// NestedTypeExpression is a parenthesized type.
type NestedTypeExpression struct {
	baseNode
	LParen *lexer.Token
	TE     TypeExpression
	RParen *lexer.Token
}

func (n *NestedTypeExpression) typeExprNode()            {}
func (n *NestedTypeExpression) FirstToken() *lexer.Token { return n.LParen }
func (n *NestedTypeExpression) LastToken() *lexer.Token  { return n.RParen }

// TypeclassConstraintExpression is a class constraint over type variables,
// as in "Eq a".
type TypeclassConstraintExpression struct {
	baseNode
	Name *lexer.Token // IdentifierAlt
	TEs  []*VarTypeExpression
}

func (n *TypeclassConstraintExpression) constraintExprNode()      {}
func (n *TypeclassConstraintExpression) FirstToken() *lexer.Token { return n.Name }

func (n *TypeclassConstraintExpression) LastToken() *lexer.Token {
	if len(n.TEs) == 0 {
		return n.Name
	}
	return n.TEs[len(n.TEs)-1].LastToken()
}

// EqualityConstraintExpression asserts that two types are equal, as in
// "a ~ Int".
type EqualityConstraintExpression struct {
	baseNode
	Left  TypeExpression
	Tilde *lexer.Token
	Right TypeExpression
}

func (n *EqualityConstraintExpression) constraintExprNode()      {}
func (n *EqualityConstraintExpression) FirstToken() *lexer.Token { return n.Left.FirstToken() }
func (n *EqualityConstraintExpression) LastToken() *lexer.Token  { return n.Right.LastToken() }
