package cst

import "github.com/bolt-lang/bolt/internal/lexer"

// TypeAssert is a ": type" annotation on a let declaration or parameter.
type TypeAssert struct {
	baseNode
	Colon *lexer.Token
	TE    TypeExpression
}

func (n *TypeAssert) FirstToken() *lexer.Token { return n.Colon }
func (n *TypeAssert) LastToken() *lexer.Token  { return n.TE.LastToken() }

// Parameter is a pattern with an optional type assertion.
type Parameter struct {
	baseNode
	Pattern    Pattern
	TypeAssert *TypeAssert // may be nil
}

func (n *Parameter) FirstToken() *lexer.Token { return n.Pattern.FirstToken() }

func (n *Parameter) LastToken() *lexer.Token {
	if n.TypeAssert != nil {
		return n.TypeAssert.LastToken()
	}
	return n.Pattern.LastToken()
}

// LetBody is either a block body or an "= expr" body.
type LetBody interface {
	Node
	letBodyNode()
}

// LetBlockBody is an indented block of statements and nested declarations.
type LetBlockBody struct {
	baseNode
	BlockStart *lexer.Token
	Elements   []Node
}

func (n *LetBlockBody) letBodyNode()             {}
func (n *LetBlockBody) FirstToken() *lexer.Token { return n.BlockStart }

func (n *LetBlockBody) LastToken() *lexer.Token {
	if len(n.Elements) == 0 {
		return n.BlockStart
	}
	return n.Elements[len(n.Elements)-1].LastToken()
}

// LetExprBody is a single-expression body introduced by "=".
type LetExprBody struct {
	baseNode
	Equals     *lexer.Token
	Expression Expression
}

func (n *LetExprBody) letBodyNode()             {}
func (n *LetExprBody) FirstToken() *lexer.Token { return n.Equals }
func (n *LetExprBody) LastToken() *lexer.Token  { return n.Expression.LastToken() }

// LetDeclaration binds a pattern, possibly with parameters, to a body. A
// nil body declares an abstract binding, as inside a class declaration.
type LetDeclaration struct {
	baseNode
	PubKeyword *lexer.Token // may be nil
	LetKeyword *lexer.Token
	MutKeyword *lexer.Token // may be nil
	Pattern    Pattern
	Params     []*Parameter
	TypeAssert *TypeAssert // may be nil
	Body       LetBody     // may be nil

	scope *Scope
}

func (n *LetDeclaration) FirstToken() *lexer.Token {
	if n.PubKeyword != nil {
		return n.PubKeyword
	}
	return n.LetKeyword
}

func (n *LetDeclaration) LastToken() *lexer.Token {
	if n.Body != nil {
		return n.Body.LastToken()
	}
	if n.TypeAssert != nil {
		return n.TypeAssert.LastToken()
	}
	if len(n.Params) > 0 {
		return n.Params[len(n.Params)-1].LastToken()
	}
	return n.Pattern.LastToken()
}

// Scope returns the declaration's binding region, creating and populating
// it on first use.
func (n *LetDeclaration) Scope() *Scope {
	if n.scope == nil {
		n.scope = newScope(n)
	}
	return n.scope
}

// Name returns the bound identifier when the declaration binds a plain
// name, and nil otherwise.
func (n *LetDeclaration) Name() *lexer.Token {
	if bind, ok := n.Pattern.(*BindPattern); ok {
		return bind.Name
	}
	return nil
}

// RecordDeclarationField is one "name : type" field.
type RecordDeclarationField struct {
	baseNode
	Name  *lexer.Token
	Colon *lexer.Token
	TE    TypeExpression
}

func (n *RecordDeclarationField) FirstToken() *lexer.Token { return n.Name }
func (n *RecordDeclarationField) LastToken() *lexer.Token  { return n.TE.LastToken() }

// RecordDeclaration declares a record (struct) type.
type RecordDeclaration struct {
	baseNode
	PubKeyword    *lexer.Token // may be nil
	StructKeyword *lexer.Token
	Name          *lexer.Token // IdentifierAlt
	BlockStart    *lexer.Token // may be nil for an empty record
	Fields        []*RecordDeclarationField
}

func (n *RecordDeclaration) FirstToken() *lexer.Token {
	if n.PubKeyword != nil {
		return n.PubKeyword
	}
	return n.StructKeyword
}

func (n *RecordDeclaration) LastToken() *lexer.Token {
	if len(n.Fields) == 0 {
		return n.Name
	}
	return n.Fields[len(n.Fields)-1].LastToken()
}

// VariantDeclarationMember is either a tuple-style or record-style variant.
type VariantDeclarationMember interface {
	Node
	variantMemberNode()
}

// TupleVariantDeclarationMember is a constructor with positional element
// types.
type TupleVariantDeclarationMember struct {
	baseNode
	Name     *lexer.Token // IdentifierAlt
	Elements []TypeExpression
}

func (n *TupleVariantDeclarationMember) variantMemberNode()       {}
func (n *TupleVariantDeclarationMember) FirstToken() *lexer.Token { return n.Name }

func (n *TupleVariantDeclarationMember) LastToken() *lexer.Token {
	if len(n.Elements) == 0 {
		return n.Name
	}
	return n.Elements[len(n.Elements)-1].LastToken()
}

// RecordVariantDeclarationMember is a constructor with named fields.
type RecordVariantDeclarationMember struct {
	baseNode
	Name       *lexer.Token // IdentifierAlt
	BlockStart *lexer.Token
	Fields     []*RecordDeclarationField
}

func (n *RecordVariantDeclarationMember) variantMemberNode()       {}
func (n *RecordVariantDeclarationMember) FirstToken() *lexer.Token { return n.Name }

func (n *RecordVariantDeclarationMember) LastToken() *lexer.Token {
	if len(n.Fields) == 0 {
		return n.Name
	}
	return n.Fields[len(n.Fields)-1].LastToken()
}

// VariantDeclaration declares an algebraic data type (enum).
type VariantDeclaration struct {
	baseNode
	PubKeyword  *lexer.Token // may be nil
	EnumKeyword *lexer.Token
	Name        *lexer.Token // IdentifierAlt
	TVs         []*VarTypeExpression
	BlockStart  *lexer.Token // may be nil for an empty enum
	Members     []VariantDeclarationMember
}

func (n *VariantDeclaration) FirstToken() *lexer.Token {
	if n.PubKeyword != nil {
		return n.PubKeyword
	}
	return n.EnumKeyword
}

func (n *VariantDeclaration) LastToken() *lexer.Token {
	if len(n.Members) > 0 {
		return n.Members[len(n.Members)-1].LastToken()
	}
	if len(n.TVs) > 0 {
		return n.TVs[len(n.TVs)-1].LastToken()
	}
	return n.Name
}

// ClassDeclaration declares a type class: a name, type variables and a
// block of (usually abstract) let declarations.
type ClassDeclaration struct {
	baseNode
	PubKeyword   *lexer.Token // may be nil
	ClassKeyword *lexer.Token
	Name         *lexer.Token // IdentifierAlt
	TypeVars     []*VarTypeExpression
	BlockStart   *lexer.Token // may be nil for an empty class
	Elements     []Node
}

func (n *ClassDeclaration) FirstToken() *lexer.Token {
	if n.PubKeyword != nil {
		return n.PubKeyword
	}
	return n.ClassKeyword
}

func (n *ClassDeclaration) LastToken() *lexer.Token {
	if len(n.Elements) > 0 {
		return n.Elements[len(n.Elements)-1].LastToken()
	}
	if len(n.TypeVars) > 0 {
		return n.TypeVars[len(n.TypeVars)-1].LastToken()
	}
	return n.Name
}

// InstanceDeclaration provides class methods for a particular instance
// head.
type InstanceDeclaration struct {
	baseNode
	InstanceKeyword *lexer.Token
	Name            *lexer.Token // IdentifierAlt
	TypeExps        []TypeExpression
	BlockStart      *lexer.Token // may be nil for an empty instance
	Elements        []Node
}

func (n *InstanceDeclaration) FirstToken() *lexer.Token { return n.InstanceKeyword }

func (n *InstanceDeclaration) LastToken() *lexer.Token {
	if len(n.Elements) > 0 {
		return n.Elements[len(n.Elements)-1].LastToken()
	}
	if len(n.TypeExps) > 0 {
		return n.TypeExps[len(n.TypeExps)-1].LastToken()
	}
	return n.Name
}
