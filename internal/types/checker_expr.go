package types

import (
	"github.com/bolt-lang/bolt/internal/cst"
	"github.com/bolt-lang/bolt/internal/diag"
	"github.com/bolt-lang/bolt/internal/lexer"
)

// inferExpression walks an expression, assigns its type and emits the
// constraints its typing rule requires. A failed subexpression gets the
// error type, which unifies with anything.
func (c *Checker) inferExpression(e cst.Expression) Type {
	t := c.inferExpressionUncached(e)
	c.types[e] = t
	return t
}

func (c *Checker) inferExpressionUncached(e cst.Expression) Type {
	switch e := e.(type) {
	case *cst.ConstantExpression:
		switch e.Token.Kind {
		case lexer.IntegerLiteral:
			return IntType
		case lexer.StringLiteral:
			return StringType
		}
		return &TErr{}

	case *cst.ReferenceExpression:
		return c.inferReference(e)

	case *cst.CallExpression:
		fn := c.inferExpression(e.Function)
		args := make([]Type, len(e.Args))
		for i, a := range e.Args {
			args[i] = c.inferExpression(a)
		}
		result := c.freshVar()
		c.unify(fn, MakeArrow(args, result), e)
		return result

	case *cst.InfixExpression:
		op := c.operatorScheme(e.Operator, e)
		if op == nil {
			c.inferExpression(e.LHS)
			c.inferExpression(e.RHS)
			return &TErr{}
		}
		opType := c.instantiate(op, e)
		lhs := c.inferExpression(e.LHS)
		rhs := c.inferExpression(e.RHS)
		result := c.freshVar()
		c.unify(opType, MakeArrow([]Type{lhs, rhs}, result), e)
		return result

	case *cst.PrefixExpression:
		scheme, ok := c.prefixSchemes[e.Operator.Text()]
		if !ok {
			c.diags.Add(&diag.UnresolvedName{
				Path:       cst.SymbolPath{Name: e.Operator.Text()},
				SymbolKind: cst.SymVar,
				Site:       e,
			})
			c.inferExpression(e.Argument)
			return &TErr{}
		}
		opType := c.instantiate(scheme, e)
		arg := c.inferExpression(e.Argument)
		result := c.freshVar()
		c.unify(opType, MakeArrow([]Type{arg}, result), e)
		return result

	case *cst.MemberExpression:
		base := c.inferExpression(e.E)
		result := c.freshVar()
		c.members = append(c.members, &memberObligation{
			base:   base,
			field:  e.Name.Text(),
			result: result,
			origin: e,
		})
		return result

	case *cst.TupleExpression:
		elems := make([]Type, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = c.inferExpression(el)
		}
		return &TTuple{Elems: elems}

	case *cst.NestedExpression:
		return c.inferExpression(e.Inner)

	case *cst.MatchExpression:
		value := c.inferExpression(e.Value)
		result := c.freshVar()
		for _, arm := range e.Cases {
			binders := make(map[string]Type)
			c.binderStack = append(c.binderStack, binders)
			c.inferPattern(arm.Pattern, value)
			armType := c.inferExpression(arm.Expression)
			c.binderStack = c.binderStack[:len(c.binderStack)-1]
			c.unify(armType, result, arm)
		}
		return result

	case *cst.RecordExpression:
		fields := make(map[string]Type, len(e.Fields))
		for _, f := range e.Fields {
			fields[f.Name.Text()] = c.inferExpression(f.E)
		}
		result := c.freshVar()
		c.recordLits = append(c.recordLits, &recordObligation{
			fields: fields,
			result: result,
			origin: e,
		})
		return result
	}
	return &TErr{}
}

// operatorScheme treats an infix operator token as a reference to the
// operator's built-in signature.
func (c *Checker) operatorScheme(op *lexer.Token, origin cst.Node) *Scheme {
	if scheme, ok := c.builtins.Get(op.Text()); ok {
		return scheme
	}
	c.diags.Add(&diag.UnresolvedName{
		Path:       cst.SymbolPath{Name: op.Text()},
		SymbolKind: cst.SymVar,
		Site:       origin,
	})
	return nil
}

// inferReference resolves a name through match-case binders, the scope
// chain and finally the built-in environment, and instantiates whatever
// scheme it finds.
func (c *Checker) inferReference(e *cst.ReferenceExpression) Type {
	path := e.Path()

	if len(path.Modules) == 0 {
		for i := len(c.binderStack) - 1; i >= 0; i-- {
			if t, ok := c.binderStack[i][path.Name]; ok {
				return t
			}
		}
	}

	scope := cst.ScopeOf(e)
	var candidates []cst.Node
	if scope != nil {
		candidates = scope.Lookup(path, cst.SymVar)
	}

	switch len(candidates) {
	case 0:
		if len(path.Modules) == 0 {
			if scheme, ok := c.builtins.Get(path.Name); ok {
				return c.instantiate(scheme, e)
			}
		}
		c.diags.Add(&diag.UnresolvedName{
			Path:       path,
			SymbolKind: cst.SymVar,
			Site:       e,
		})
		return &TErr{}
	case 1:
		return c.typeOfBinding(candidates[0], path.Name, e)
	default:
		c.diags.Add(&diag.AmbiguousName{
			Path:       path,
			SymbolKind: cst.SymVar,
			Candidates: candidates,
			Site:       e,
		})
		return &TErr{}
	}
}

// typeOfBinding produces the use-site type of a resolved binding: schemes
// are instantiated, active recursion placeholders and mut bindings are
// used monomorphically.
func (c *Checker) typeOfBinding(binding cst.Node, name string, origin cst.Node) Type {
	switch binding := binding.(type) {
	case *cst.LetDeclaration:
		if scheme, ok := c.schemes[binding]; ok {
			return c.instantiate(scheme, origin)
		}
		if mono, ok := c.declTypes[binding]; ok {
			if _, isBind := binding.Pattern.(*cst.BindPattern); isBind {
				return mono
			}
			if t := c.binderTypeInPattern(binding.Pattern, name); t != nil {
				return t
			}
			return &TErr{}
		}
		// Declared but never inferred: a destructuring or an error path.
		if t := c.binderTypeInPattern(binding.Pattern, name); t != nil {
			return t
		}
		return &TErr{}
	case *cst.Parameter:
		if t := c.binderTypeInPattern(binding.Pattern, name); t != nil {
			return t
		}
		return &TErr{}
	case *cst.TupleVariantDeclarationMember, *cst.RecordVariantDeclarationMember:
		if scheme, ok := c.schemes[binding]; ok {
			return c.instantiate(scheme, origin)
		}
		return &TErr{}
	}
	return &TErr{}
}

// binderTypeInPattern finds the type assigned to the named bind inside a
// pattern.
func (c *Checker) binderTypeInPattern(p cst.Pattern, name string) Type {
	switch p := p.(type) {
	case *cst.BindPattern:
		if p.Name.Text() == name {
			return c.types[p]
		}
	case *cst.NamedPattern:
		for _, sub := range p.Patterns {
			if t := c.binderTypeInPattern(sub, name); t != nil {
				return t
			}
		}
	case *cst.NestedPattern:
		return c.binderTypeInPattern(p.P, name)
	}
	return nil
}

// inferPattern constrains a pattern against the type of the value it
// matches and records binder types. Binders are also published to the
// innermost entry of the binder stack when one is open (match cases).
func (c *Checker) inferPattern(p cst.Pattern, expected Type) {
	switch p := p.(type) {
	case *cst.BindPattern:
		c.types[p] = expected
		if len(c.binderStack) > 0 {
			c.binderStack[len(c.binderStack)-1][p.Name.Text()] = expected
		}

	case *cst.LiteralPattern:
		switch p.Literal.Kind {
		case lexer.IntegerLiteral:
			c.unify(expected, IntType, p)
		case lexer.StringLiteral:
			c.unify(expected, StringType, p)
		}

	case *cst.NamedPattern:
		ctor := c.constructorScheme(p)
		if ctor == nil {
			for _, sub := range p.Patterns {
				c.inferPattern(sub, c.freshVar())
			}
			return
		}
		ctorType := c.instantiate(ctor, p)
		args := make([]Type, len(p.Patterns))
		for i := range p.Patterns {
			args[i] = c.freshVar()
		}
		c.unify(ctorType, MakeArrow(args, expected), p)
		for i, sub := range p.Patterns {
			c.inferPattern(sub, args[i])
		}

	case *cst.NestedPattern:
		c.inferPattern(p.P, expected)
	}
}

// constructorScheme resolves the constructor a named pattern refers to.
func (c *Checker) constructorScheme(p *cst.NamedPattern) *Scheme {
	name := p.Name.Text()
	scope := cst.ScopeOf(p)
	var candidates []cst.Node
	if scope != nil {
		candidates = scope.Lookup(cst.SymbolPath{Name: name}, cst.SymVar)
	}
	switch len(candidates) {
	case 0:
		if scheme, ok := c.builtins.Get(name); ok {
			return scheme
		}
		c.diags.Add(&diag.UnresolvedName{
			Path:       cst.SymbolPath{Name: name},
			SymbolKind: cst.SymVar,
			Site:       p,
		})
		return nil
	case 1:
		if scheme, ok := c.schemes[candidates[0]]; ok {
			return scheme
		}
		return nil
	default:
		c.diags.Add(&diag.AmbiguousName{
			Path:       cst.SymbolPath{Name: name},
			SymbolKind: cst.SymVar,
			Candidates: candidates,
			Site:       p,
		})
		return nil
	}
}
