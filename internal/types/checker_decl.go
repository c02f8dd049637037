package types

import (
	"sort"

	"github.com/bolt-lang/bolt/internal/cst"
	"github.com/bolt-lang/bolt/internal/diag"
)

// checkElements infers every let declaration in an element list, grouped by
// strongly connected components of the reference graph, then checks the
// remaining statements in source order. retType is the result type of the
// enclosing let block body, or nil at the top level.
func (c *Checker) checkElements(elements []cst.Node, retType Type) {
	var lets []*cst.LetDeclaration
	siblings := make(map[string]*cst.LetDeclaration)
	for _, el := range elements {
		if d, ok := el.(*cst.LetDeclaration); ok {
			lets = append(lets, d)
			if name := d.Name(); name != nil {
				siblings[name.Text()] = d
			}
		}
	}

	groups := sccGroups(lets, func(d *cst.LetDeclaration) []*cst.LetDeclaration {
		return referencedSiblings(d, siblings)
	})
	for _, group := range groups {
		c.inferLetGroup(group)
	}

	for _, el := range elements {
		switch st := el.(type) {
		case *cst.ExpressionStatement:
			c.inferExpression(st.Expression)
		case *cst.ReturnStatement:
			var t Type = UnitType
			if st.Expression != nil {
				t = c.inferExpression(st.Expression)
			}
			if retType != nil {
				c.unify(t, retType, st)
			}
		case *cst.IfStatement:
			c.checkIfStatement(st, retType)
		}
	}
}

// inferLetGroup runs inference over one strongly connected component of
// sibling let declarations: every member is introduced at a fresh
// monomorphic variable, all bodies are inferred, the pending equalities
// are solved, and only then is any member generalized. mut bindings and
// destructuring bindings stay monomorphic.
func (c *Checker) inferLetGroup(group []*cst.LetDeclaration) {
	monoBase := len(c.monoStack)
	for _, d := range group {
		placeholder := c.freshVar()
		c.declTypes[d] = placeholder
		c.monoStack = append(c.monoStack, placeholder)
	}

	for _, d := range group {
		t := c.inferLetBody(d)
		c.unify(t, c.declTypes[d], d)
	}
	c.solveEquals()

	c.monoStack = c.monoStack[:monoBase]
	for _, d := range group {
		placeholder := c.declTypes[d]
		_, isBind := d.Pattern.(*cst.BindPattern)
		if d.MutKeyword != nil || !isBind {
			// The binding's variables must stay out of later
			// generalizations in this file.
			c.monoStack = append(c.monoStack, placeholder)
			continue
		}
		delete(c.declTypes, d)
		c.schemes[d] = c.generalize(Resolve(placeholder), d)
	}
}

// inferLetBody infers the type of one let declaration: parameter types,
// then the body, then the optional type assertion. The declared type is
// unified against the inferred one with the annotation on the left, so
// mismatches report the annotated type first.
func (c *Checker) inferLetBody(d *cst.LetDeclaration) Type {
	c.reportScopeIssues(d.Scope())

	env := tyVarEnv{}
	monoBase := len(c.monoStack)

	params := make([]Type, len(d.Params))
	for i, param := range d.Params {
		pt := c.freshVar()
		c.inferPattern(param.Pattern, pt)
		if param.TypeAssert != nil {
			c.unify(c.convertTypeExpr(param.TypeAssert.TE, env), pt, param)
		}
		params[i] = pt
		c.monoStack = append(c.monoStack, pt)
	}

	var result Type
	switch body := d.Body.(type) {
	case *cst.LetExprBody:
		result = c.inferExpression(body.Expression)
	case *cst.LetBlockBody:
		ret := c.freshVar()
		c.checkElements(body.Elements, ret)
		if !blockHasReturn(body.Elements) {
			c.unify(ret, UnitType, d)
		}
		result = ret
	default:
		result = c.freshVar()
	}

	if d.Pattern != nil {
		if _, isBind := d.Pattern.(*cst.BindPattern); !isBind {
			// Destructuring let: constrain the pattern against the body.
			c.inferPattern(d.Pattern, result)
		}
	}

	whole := MakeArrow(params, result)
	if d.TypeAssert != nil {
		c.unify(c.convertTypeExpr(d.TypeAssert.TE, env), whole, d)
	}

	c.monoStack = c.monoStack[:monoBase]
	return whole
}

// blockHasReturn reports whether a block body contains a return statement,
// without descending into nested let bodies.
func blockHasReturn(elements []cst.Node) bool {
	for _, el := range elements {
		switch el := el.(type) {
		case *cst.ReturnStatement:
			return true
		case *cst.IfStatement:
			for _, part := range el.Parts {
				if blockHasReturn(part.Elements) {
					return true
				}
			}
		}
	}
	return false
}

// checkIfStatement constrains every condition to Bool and checks each
// part's block.
func (c *Checker) checkIfStatement(st *cst.IfStatement, retType Type) {
	for _, part := range st.Parts {
		if part.Test != nil {
			t := c.inferExpression(part.Test)
			c.unify(BoolType, t, part.Test)
		}
		c.checkElements(part.Elements, retType)
	}
}

// registerRecord records a struct declaration's field table for member
// access and record literal resolution.
func (c *Checker) registerRecord(d *cst.RecordDeclaration) {
	env := tyVarEnv{}
	info := &recordInfo{decl: d, name: d.Name.Text()}
	for _, f := range d.Fields {
		info.fields = append(info.fields, recordField{
			name: f.Name.Text(),
			ty:   c.convertTypeExpr(f.TE, env),
		})
	}
	c.records[info.name] = info
}

// registerVariant records an enum declaration and gives every constructor
// its generalized scheme: arguments curried onto the applied enum head.
func (c *Checker) registerVariant(d *cst.VariantDeclaration) {
	env := tyVarEnv{}
	var headArgs []Type
	for _, tv := range d.TVs {
		v := c.freshVar()
		v.Quantified = true
		v.Hint = tv.Name.Text()
		env[tv.Name.Text()] = v
		headArgs = append(headArgs, v)
	}
	var result Type = &TCon{Name: d.Name.Text()}
	if len(headArgs) > 0 {
		result = &TApp{Op: result, Args: headArgs}
	}

	for _, member := range d.Members {
		var args []Type
		switch m := member.(type) {
		case *cst.TupleVariantDeclarationMember:
			for _, e := range m.Elements {
				args = append(args, c.convertTypeExpr(e, env))
			}
		case *cst.RecordVariantDeclarationMember:
			for _, f := range m.Fields {
				args = append(args, c.convertTypeExpr(f.TE, env))
			}
		}
		c.schemes[member] = &Scheme{
			Vars: quantifiedEnvVars(env),
			Body: MakeArrow(args, result),
		}
	}
}

// quantifiedEnvVars marks every variable of a declaration-head environment
// quantified and returns them in a stable order.
func quantifiedEnvVars(env tyVarEnv) []*TVar {
	var vars []*TVar
	for _, v := range env {
		v.Quantified = true
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].ID < vars[j].ID })
	return vars
}

// registerClass records a class declaration: its type variables and method
// signatures. Each method's let element receives a scheme qualified by the
// class constraint, which is what uses of the method instantiate.
func (c *Checker) registerClass(d *cst.ClassDeclaration) {
	name := d.Name.Text()
	env := tyVarEnv{}
	var classVars []*TVar
	for _, tv := range d.TypeVars {
		v := c.freshVar()
		v.Quantified = true
		v.Hint = tv.Name.Text()
		env[tv.Name.Text()] = v
		classVars = append(classVars, v)
	}

	info := &classInfo{decl: d, name: name, vars: classVars, methods: map[string]Type{}}

	classArgs := make([]Type, len(classVars))
	for i, v := range classVars {
		classArgs[i] = v
	}

	for _, el := range d.Elements {
		let, ok := el.(*cst.LetDeclaration)
		if !ok {
			continue
		}
		mname := let.Name()
		if mname == nil || let.TypeAssert == nil {
			continue
		}
		sig := c.convertTypeExpr(let.TypeAssert.TE, env)
		info.methods[mname.Text()] = sig
		c.schemes[let] = &Scheme{
			Vars:        quantifiedEnvVars(env),
			Constraints: []*ClassConstraint{{Class: name, Args: classArgs, Origin: let}},
			Body:        sig,
		}
	}
	c.classes[name] = info
}

// registerInstance records an instance head for constraint resolution. The
// instance's own lowercase type variables become rigid so that method body
// checking cannot specialize them.
func (c *Checker) registerInstance(d *cst.InstanceDeclaration) {
	class := d.Name.Text()
	if _, ok := c.classes[class]; !ok {
		c.diags.Add(&diag.UnresolvedName{
			Path:       cst.SymbolPath{Name: class},
			SymbolKind: cst.SymClass,
			Site:       d,
		})
		return
	}
	env := tyVarEnv{}
	args := make([]Type, len(d.TypeExps))
	for i, te := range d.TypeExps {
		args[i] = c.convertTypeExpr(te, env)
	}
	var vars []*TVar
	for _, v := range env {
		v.Rigid = true
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].ID < vars[j].ID })

	inst := &instanceInfo{decl: d, class: class, vars: vars, args: args}
	c.instances[class] = append(c.instances[class], inst)
	c.instanceDecls[d] = inst
}

// checkClassBodies checks the default method bodies of a class against
// their own signatures, with the class variables held rigid.
func (c *Checker) checkClassBodies(d *cst.ClassDeclaration) {
	info := c.classes[d.Name.Text()]
	if info == nil {
		return
	}
	skolems := make(map[*TVar]Type, len(info.vars))
	for _, v := range info.vars {
		skolems[v] = c.freshRigid(v.Hint)
	}
	for _, el := range d.Elements {
		let, ok := el.(*cst.LetDeclaration)
		if !ok || let.Body == nil {
			continue
		}
		mname := let.Name()
		if mname == nil {
			continue
		}
		sig, ok := info.methods[mname.Text()]
		if !ok {
			continue
		}
		c.checkMethodBody(let, substitute(sig, skolems))
	}
}

// checkInstanceBodies checks every method of an instance against the class
// signature with the instance's head types substituted for the class
// variables. Instance methods are not generalized on their own.
func (c *Checker) checkInstanceBodies(d *cst.InstanceDeclaration) {
	inst := c.instanceDecls[d]
	if inst == nil {
		return
	}
	info := c.classes[inst.class]
	if info == nil {
		return
	}
	subst := make(map[*TVar]Type, len(info.vars))
	for i, v := range info.vars {
		if i < len(inst.args) {
			subst[v] = inst.args[i]
		}
	}
	for _, el := range d.Elements {
		let, ok := el.(*cst.LetDeclaration)
		if !ok {
			continue
		}
		mname := let.Name()
		if mname == nil {
			continue
		}
		sig, ok := info.methods[mname.Text()]
		if !ok {
			c.diags.Add(&diag.UnresolvedName{
				Path:       cst.SymbolPath{Name: mname.Text()},
				SymbolKind: cst.SymVar,
				Site:       let,
			})
			continue
		}
		c.checkMethodBody(let, substitute(sig, subst))
	}
}

// checkMethodBody infers a method definition and unifies it against its
// expected signature, with the signature on the left.
func (c *Checker) checkMethodBody(let *cst.LetDeclaration, expected Type) {
	t := c.inferLetBody(let)
	c.unify(expected, t, let)
	c.solveEquals()
}
