package types

import (
	"github.com/bolt-lang/bolt/internal/cst"
	"github.com/bolt-lang/bolt/internal/diag"
)

// tyVarEnv binds the lowercase type-variable names of one annotation or
// declaration head to their checker-level variables.
type tyVarEnv map[string]*TVar

// convertTypeExpr lowers a syntactic type expression into a checker type.
// Unknown lowercase names allocate a fresh variable in env, so the
// variables of one annotation are shared across its mentions.
func (c *Checker) convertTypeExpr(te cst.TypeExpression, env tyVarEnv) Type {
	switch te := te.(type) {
	case *cst.ReferenceTypeExpression:
		return c.resolveTypeName(te)
	case *cst.VarTypeExpression:
		name := te.Name.Text()
		if v, ok := env[name]; ok {
			return v
		}
		v := c.freshVar()
		v.Hint = name
		env[name] = v
		return v
	case *cst.AppTypeExpression:
		op := c.convertTypeExpr(te.Op, env)
		args := make([]Type, len(te.Args))
		for i, a := range te.Args {
			args[i] = c.convertTypeExpr(a, env)
		}
		return &TApp{Op: op, Args: args}
	case *cst.ArrowTypeExpression:
		params := make([]Type, len(te.ParamTypes))
		for i, p := range te.ParamTypes {
			params[i] = c.convertTypeExpr(p, env)
		}
		return MakeArrow(params, c.convertTypeExpr(te.ReturnType, env))
	case *cst.QualifiedTypeExpression:
		for _, constraint := range te.Constraints {
			c.convertConstraintExpr(constraint, env)
		}
		return c.convertTypeExpr(te.TE, env)
	case *cst.TupleTypeExpression:
		elems := make([]Type, len(te.Elements))
		for i, e := range te.Elements {
			elems[i] = c.convertTypeExpr(e, env)
		}
		return &TTuple{Elems: elems}
	case *cst.NestedTypeExpression:
		return c.convertTypeExpr(te.TE, env)
	}
	return &TErr{}
}

// convertConstraintExpr lowers a constraint of a qualified type: class
// constraints become obligations, equality constraints become pending
// unifications.
func (c *Checker) convertConstraintExpr(ce cst.ConstraintExpression, env tyVarEnv) {
	switch ce := ce.(type) {
	case *cst.TypeclassConstraintExpression:
		args := make([]Type, len(ce.TEs))
		for i, v := range ce.TEs {
			args[i] = c.convertTypeExpr(v, env)
		}
		c.obligations = append(c.obligations, &ClassConstraint{
			Class:  ce.Name.Text(),
			Args:   args,
			Origin: ce,
		})
	case *cst.EqualityConstraintExpression:
		c.equals = append(c.equals, &EqualConstraint{
			Left:   c.convertTypeExpr(ce.Left, env),
			Right:  c.convertTypeExpr(ce.Right, env),
			Origin: ce,
		})
	}
}

// primitiveTypes maps the names the checker pre-populates.
var primitiveTypes = map[string]Type{
	"Int":    IntType,
	"String": StringType,
	"Bool":   BoolType,
	"Unit":   UnitType,
}

// resolveTypeName resolves an uppercase type reference: first the
// pre-populated primitives, then the scope chain under the Type symbol
// kind.
func (c *Checker) resolveTypeName(te *cst.ReferenceTypeExpression) Type {
	path := te.Path()
	if len(path.Modules) == 0 {
		if prim, ok := primitiveTypes[path.Name]; ok {
			return prim
		}
	}
	scope := cst.ScopeOf(te)
	var candidates []cst.Node
	if scope != nil {
		candidates = scope.Lookup(path, cst.SymType)
	}
	switch len(candidates) {
	case 0:
		c.diags.Add(&diag.UnresolvedName{
			Path:       path,
			SymbolKind: cst.SymType,
			Site:       te,
		})
		return &TErr{}
	case 1:
		return &TCon{Name: path.Name}
	default:
		c.diags.Add(&diag.AmbiguousName{
			Path:       path,
			SymbolKind: cst.SymType,
			Candidates: candidates,
			Site:       te,
		})
		return &TErr{}
	}
}
