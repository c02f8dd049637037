package cst

import "github.com/bolt-lang/bolt/internal/lexer"

// Expression is the family of expression nodes.
type Expression interface {
	Node
	exprNode()
}

// ReferenceExpression names a value, optionally qualified by a module path.
type ReferenceExpression struct {
	baseNode
	ModulePath []*lexer.Token // IdentifierAlt tokens before the final name
	Name       *lexer.Token   // Identifier or IdentifierAlt
}

func (n *ReferenceExpression) exprNode() {}

func (n *ReferenceExpression) FirstToken() *lexer.Token {
	if len(n.ModulePath) > 0 {
		return n.ModulePath[0]
	}
	return n.Name
}

func (n *ReferenceExpression) LastToken() *lexer.Token { return n.Name }

// Path returns the module prefix and name as a symbol path.
func (n *ReferenceExpression) Path() SymbolPath {
	var modules []string
	for _, t := range n.ModulePath {
		modules = append(modules, t.Text())
	}
	return SymbolPath{Modules: modules, Name: n.Name.Text()}
}

// ConstantExpression is an integer or string literal.
type ConstantExpression struct {
	baseNode
	Token *lexer.Token
}

func (n *ConstantExpression) exprNode()                {}
func (n *ConstantExpression) FirstToken() *lexer.Token { return n.Token }
func (n *ConstantExpression) LastToken() *lexer.Token  { return n.Token }

// CallExpression applies a function to arguments by juxtaposition.
type CallExpression struct {
	baseNode
	Function Expression
	Args     []Expression
}

func (n *CallExpression) exprNode()                {}
func (n *CallExpression) FirstToken() *lexer.Token { return n.Function.FirstToken() }

func (n *CallExpression) LastToken() *lexer.Token {
	if len(n.Args) == 0 {
		return n.Function.LastToken()
	}
	return n.Args[len(n.Args)-1].LastToken()
}

// InfixExpression is a binary application of a user-defined or built-in
// operator.
type InfixExpression struct {
	baseNode
	LHS      Expression
	Operator *lexer.Token
	RHS      Expression
}

func (n *InfixExpression) exprNode()                {}
func (n *InfixExpression) FirstToken() *lexer.Token { return n.LHS.FirstToken() }
func (n *InfixExpression) LastToken() *lexer.Token  { return n.RHS.LastToken() }

// PrefixExpression applies a prefix operator.
type PrefixExpression struct {
	baseNode
	Operator *lexer.Token
	Argument Expression
}

func (n *PrefixExpression) exprNode()                {}
func (n *PrefixExpression) FirstToken() *lexer.Token { return n.Operator }
func (n *PrefixExpression) LastToken() *lexer.Token  { return n.Argument.LastToken() }

// MemberExpression accesses a record field.
type MemberExpression struct {
	baseNode
	E    Expression
	Dot  *lexer.Token
	Name *lexer.Token
}

func (n *MemberExpression) exprNode()                {}
func (n *MemberExpression) FirstToken() *lexer.Token { return n.E.FirstToken() }
func (n *MemberExpression) LastToken() *lexer.Token  { return n.Name }

// TupleExpression is a parenthesized, comma-separated list of expressions.
type TupleExpression struct {
	baseNode
	LParen   *lexer.Token
	Elements []Expression
	RParen   *lexer.Token
}

func (n *TupleExpression) exprNode()                {}
func (n *TupleExpression) FirstToken() *lexer.Token { return n.LParen }
func (n *TupleExpression) LastToken() *lexer.Token  { return n.RParen }

// NestedExpression is a parenthesized expression.
type NestedExpression struct {
	baseNode
	LParen *lexer.Token
	Inner  Expression
	RParen *lexer.Token
}

func (n *NestedExpression) exprNode()                {}
func (n *NestedExpression) FirstToken() *lexer.Token { return n.LParen }
func (n *NestedExpression) LastToken() *lexer.Token  { return n.RParen }

// MatchCase is one "pattern => expression" arm of a match expression.
type MatchCase struct {
	baseNode
	Pattern    Pattern
	RArrowAlt  *lexer.Token
	Expression Expression
}

func (n *MatchCase) FirstToken() *lexer.Token { return n.Pattern.FirstToken() }
func (n *MatchCase) LastToken() *lexer.Token  { return n.Expression.LastToken() }

// MatchExpression scrutinizes a value against a block of cases.
type MatchExpression struct {
	baseNode
	MatchKeyword *lexer.Token
	Value        Expression
	BlockStart   *lexer.Token
	Cases        []*MatchCase
}

func (n *MatchExpression) exprNode()                {}
func (n *MatchExpression) FirstToken() *lexer.Token { return n.MatchKeyword }

func (n *MatchExpression) LastToken() *lexer.Token {
	if len(n.Cases) == 0 {
		if n.Value != nil {
			return n.Value.LastToken()
		}
		return n.MatchKeyword
	}
	return n.Cases[len(n.Cases)-1].LastToken()
}

// RecordExpressionField is a single "name = expr" field of a record
// literal.
type RecordExpressionField struct {
	baseNode
	Name   *lexer.Token
	Equals *lexer.Token
	E      Expression
}

func (n *RecordExpressionField) FirstToken() *lexer.Token { return n.Name }
func (n *RecordExpressionField) LastToken() *lexer.Token  { return n.E.LastToken() }

// RecordExpression is a record literal.
type RecordExpression struct {
	baseNode
	LBrace *lexer.Token
	Fields []*RecordExpressionField
	RBrace *lexer.Token
}

func (n *RecordExpression) exprNode()                {}
func (n *RecordExpression) FirstToken() *lexer.Token { return n.LBrace }
func (n *RecordExpression) LastToken() *lexer.Token  { return n.RBrace }
