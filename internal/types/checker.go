package types

import (
	"sort"

	"github.com/benbjohnson/immutable"
	"github.com/hashicorp/go-set/v3"
	"github.com/tliron/commonlog"

	"github.com/bolt-lang/bolt/internal/cst"
	"github.com/bolt-lang/bolt/internal/diag"
)

// Shared primitive type instances.
var (
	IntType    = &TCon{Name: "Int"}
	StringType = &TCon{Name: "String"}
	BoolType   = &TCon{Name: "Bool"}
	UnitType   = &TTuple{}
)

type classInfo struct {
	decl    *cst.ClassDeclaration // nil for built-in classes
	name    string
	vars    []*TVar
	methods map[string]Type // signature over vars
}

type instanceInfo struct {
	decl    *cst.InstanceDeclaration // nil for built-in instances
	class   string
	vars    []*TVar // instance-level type variables
	args    []Type  // instance head parameters over vars
	context []*ClassConstraint
}

type recordInfo struct {
	decl   *cst.RecordDeclaration
	name   string
	fields []recordField
}

type recordField struct {
	name string
	ty   Type
}

// memberObligation defers typing a field access until the base type is
// known.
type memberObligation struct {
	base   Type
	field  string
	result Type
	origin cst.Node
}

// recordObligation defers matching a record literal against the declared
// records.
type recordObligation struct {
	fields map[string]Type
	result Type
	origin *cst.RecordExpression
}

// Checker runs constraint generation and solving over parsed source files.
// All state is carried by this handle; there are no package-level tables.
type Checker struct {
	diags  *diag.Store
	logger commonlog.Logger

	nextID int

	// types carries the inferred type of every expression and binder node.
	types map[cst.Node]Type
	// schemes holds the generalized type of each let declaration.
	schemes map[cst.Node]*Scheme
	// declTypes holds the monomorphic type of declarations that are not
	// (or not yet) generalized: active recursion groups and mut bindings.
	declTypes map[cst.Node]Type

	builtins      *immutable.Map[string, *Scheme]
	prefixSchemes map[string]*Scheme

	classes       map[string]*classInfo
	instances     map[string][]*instanceInfo
	instanceDecls map[*cst.InstanceDeclaration]*instanceInfo
	records       map[string]*recordInfo

	equals      []*EqualConstraint
	obligations []*ClassConstraint
	members     []*memberObligation
	recordLits  []*recordObligation

	// monoStack holds types whose free variables must not be generalized:
	// parameters, recursion placeholders and mut bindings in scope.
	monoStack []Type
	// binderStack resolves names bound by match-case patterns, which live
	// outside the scope tables.
	binderStack []map[string]Type

	seenScopes    map[*cst.Scope]bool
	reportedAmbig map[*TVar]bool
}

// NewChecker creates a checker that appends diagnostics to diags. The
// logger receives debug traces only; the checker never renders diagnostics
// itself.
func NewChecker(diags *diag.Store, logger commonlog.Logger) *Checker {
	c := &Checker{
		diags:         diags,
		logger:        logger,
		types:         make(map[cst.Node]Type),
		schemes:       make(map[cst.Node]*Scheme),
		declTypes:     make(map[cst.Node]Type),
		prefixSchemes: make(map[string]*Scheme),
		classes:       make(map[string]*classInfo),
		instances:     make(map[string][]*instanceInfo),
		instanceDecls: make(map[*cst.InstanceDeclaration]*instanceInfo),
		records:       make(map[string]*recordInfo),
		seenScopes:    make(map[*cst.Scope]bool),
		reportedAmbig: make(map[*TVar]bool),
	}
	c.installBuiltins()
	return c
}

func (c *Checker) freshVar() *TVar {
	c.nextID++
	return &TVar{ID: c.nextID}
}

func (c *Checker) freshRigid(hint string) *TVar {
	v := c.freshVar()
	v.Rigid = true
	v.Hint = hint
	return v
}

// monoScheme wraps a type into a scheme with no quantifiers.
func monoScheme(t Type) *Scheme {
	return &Scheme{Body: t}
}

// installBuiltins seeds the primitive types, the built-in operator
// signatures and the Eq/Ord class signatures with their primitive
// instances.
func (c *Checker) installBuiltins() {
	b := immutable.NewMapBuilder[string, *Scheme](nil)

	b.Set("True", monoScheme(BoolType))
	b.Set("False", monoScheme(BoolType))

	intBinop := monoScheme(MakeArrow([]Type{IntType, IntType}, IntType))
	for _, op := range []string{"+", "-", "*", "/", "%", "**"} {
		b.Set(op, intBinop)
	}

	boolBinop := monoScheme(MakeArrow([]Type{BoolType, BoolType}, BoolType))
	b.Set("&&", boolBinop)
	b.Set("||", boolBinop)

	// == :: forall a. Eq a => a -> a -> Bool
	eqVar := c.freshVar()
	eqVar.Quantified = true
	b.Set("==", &Scheme{
		Vars:        []*TVar{eqVar},
		Constraints: []*ClassConstraint{{Class: "Eq", Args: []Type{eqVar}}},
		Body:        MakeArrow([]Type{eqVar, eqVar}, BoolType),
	})

	// Comparison operators share one Ord-qualified scheme.
	ordVar := c.freshVar()
	ordVar.Quantified = true
	ordScheme := &Scheme{
		Vars:        []*TVar{ordVar},
		Constraints: []*ClassConstraint{{Class: "Ord", Args: []Type{ordVar}}},
		Body:        MakeArrow([]Type{ordVar, ordVar}, BoolType),
	}
	for _, op := range []string{"<", ">", "<=", ">="} {
		b.Set(op, ordScheme)
	}

	// $ :: forall a b. (a -> b) -> a -> b
	av, bv := c.freshVar(), c.freshVar()
	av.Quantified = true
	bv.Quantified = true
	b.Set("$", &Scheme{
		Vars: []*TVar{av, bv},
		Body: MakeArrow([]Type{&TArrow{Param: av, Return: bv}, av}, bv),
	})

	c.builtins = b.Map()

	c.prefixSchemes["-"] = monoScheme(&TArrow{Param: IntType, Return: IntType})

	for _, name := range []string{"Eq", "Ord"} {
		v := c.freshVar()
		v.Quantified = true
		c.classes[name] = &classInfo{
			name:    name,
			vars:    []*TVar{v},
			methods: map[string]Type{},
		}
	}
	for _, ty := range []Type{IntType, StringType, BoolType} {
		c.instances["Eq"] = append(c.instances["Eq"], &instanceInfo{class: "Eq", args: []Type{ty}})
	}
	for _, ty := range []Type{IntType, StringType} {
		c.instances["Ord"] = append(c.instances["Ord"], &instanceInfo{class: "Ord", args: []Type{ty}})
	}
}

// TypeOf returns the solved type of an expression or binder node.
func (c *Checker) TypeOf(n cst.Node) Type {
	t, ok := c.types[n]
	if !ok {
		return nil
	}
	return Resolve(t)
}

// SchemeOf returns the generalized scheme of a let declaration, or nil for
// declarations that were not generalized.
func (c *Checker) SchemeOf(n cst.Node) *Scheme {
	return c.schemes[n]
}

// Check type-checks a whole source file: registration of declared types,
// classes and instances; constraint generation grouped by strongly
// connected let components; equality solving; class-constraint resolution;
// and finally the ambiguity sweep.
func (c *Checker) Check(sf *cst.SourceFile) {
	c.logger.Debugf("checking %s", sf.File.Path())

	c.reportScopeIssues(sf.Scope())

	for _, el := range sf.Elements {
		switch el := el.(type) {
		case *cst.RecordDeclaration:
			c.registerRecord(el)
		case *cst.VariantDeclaration:
			c.registerVariant(el)
		case *cst.ClassDeclaration:
			c.registerClass(el)
		}
	}
	for _, el := range sf.Elements {
		if inst, ok := el.(*cst.InstanceDeclaration); ok {
			c.registerInstance(inst)
		}
	}

	c.checkElements(sf.Elements, nil)

	for _, el := range sf.Elements {
		switch el := el.(type) {
		case *cst.ClassDeclaration:
			c.checkClassBodies(el)
		case *cst.InstanceDeclaration:
			c.checkInstanceBodies(el)
		}
	}

	c.solveEquals()
	c.resolveMembers()
	c.resolveRecordLiterals()
	c.resolveObligations()
	c.reportAmbiguousTypes(sf)
}

// reportScopeIssues converts the duplicate bindings a scope recorded while
// scanning into shadowing diagnostics, once per scope.
func (c *Checker) reportScopeIssues(scope *cst.Scope) {
	if c.seenScopes[scope] {
		return
	}
	c.seenScopes[scope] = true
	for _, d := range scope.Duplicates {
		c.diags.Add(&diag.ShadowingDisallowed{
			Name:       d.Name,
			SymbolKind: d.Kind,
			Prior:      d.Prior,
			Current:    d.Current,
		})
	}
}

// instantiate replaces the scheme's quantified variables with fresh ones
// and adds the scheme's constraints to the obligation set.
func (c *Checker) instantiate(s *Scheme, origin cst.Node) Type {
	if s.IsMono() {
		return s.Body
	}
	subst := make(map[*TVar]Type, len(s.Vars))
	for _, v := range s.Vars {
		subst[v] = c.freshVar()
	}
	for _, constraint := range s.Constraints {
		mapped := substituteConstraint(constraint, subst)
		mapped.Origin = origin
		c.obligations = append(c.obligations, mapped)
	}
	return substitute(s.Body, subst)
}

// generalize closes t over every variable that is free in t, not free in
// any enclosing monomorphic type, and not mentioned by an obligation that
// also involves enclosing variables. Obligations that mention only
// quantified variables move into the scheme's qualified prefix.
func (c *Checker) generalize(t Type, origin cst.Node) *Scheme {
	t = Resolve(t)

	envFree := set.New[*TVar](8)
	for _, mono := range c.monoStack {
		freeTypeVars(mono, envFree)
	}

	candidates := set.New[*TVar](4)
	for _, v := range FreeTypeVars(t).Slice() {
		if !envFree.Contains(v) {
			candidates.Insert(v)
		}
	}

	var attached []*ClassConstraint
	var pending []*ClassConstraint
	for _, o := range c.obligations {
		fv := o.freeVars()
		mentions := false
		escapes := false
		for v := range fv {
			if candidates.Contains(v) {
				mentions = true
			} else {
				escapes = true
			}
		}
		switch {
		case mentions && !escapes:
			attached = append(attached, o)
		case mentions && escapes:
			// The constraint ties a candidate to an enclosing variable, so
			// the candidate must stay monomorphic.
			for v := range fv {
				candidates.Remove(v)
			}
			pending = append(pending, o)
		default:
			pending = append(pending, o)
		}
	}
	c.obligations = pending

	vars := candidates.Slice()
	sort.Slice(vars, func(i, j int) bool { return vars[i].ID < vars[j].ID })
	for _, v := range vars {
		v.Quantified = true
	}

	scheme := &Scheme{Vars: vars, Constraints: attached, Body: t}
	c.logger.Debugf("generalized %s", scheme)
	return scheme
}

// resolveObligations discharges the class constraints that remain after
// solving. Ground constraints must be matched by exactly one instance;
// instance contexts are discharged recursively.
func (c *Checker) resolveObligations() {
	pending := c.obligations
	c.obligations = nil
	for _, o := range pending {
		c.resolveClassConstraint(o, 0)
	}
}

func (c *Checker) resolveClassConstraint(o *ClassConstraint, depth int) {
	if depth > 32 {
		return
	}
	for _, a := range o.Args {
		if _, ok := Resolve(a).(*TErr); ok {
			return
		}
	}
	if !o.isGround() {
		// An under-determined constraint is left alone; the variables it
		// mentions surface through the ambiguity sweep if they escape.
		return
	}

	var matches []*instanceInfo
	var substs []map[*TVar]Type
	for _, inst := range c.instances[o.Class] {
		subst := make(map[*TVar]Type, len(inst.vars))
		for _, v := range inst.vars {
			subst[v] = c.freshVar()
		}
		ok := len(inst.args) == len(o.Args)
		if ok {
			for i := range o.Args {
				if !c.unifyCommitting(substitute(inst.args[i], subst), o.Args[i]) {
					ok = false
					break
				}
			}
		}
		if ok {
			matches = append(matches, inst)
			substs = append(substs, subst)
		}
	}

	switch len(matches) {
	case 0:
		c.diags.Add(&diag.ClassResolutionError{Constraint: o.String(), Site: o.Origin})
	case 1:
		for _, ctx := range matches[0].context {
			c.resolveClassConstraint(substituteConstraint(ctx, substs[0]), depth+1)
		}
	default:
		c.diags.Add(&diag.ClassResolutionError{Constraint: o.String(), Site: o.Origin, Ambiguous: true})
	}
}

// resolveMembers types the deferred field accesses now that unification has
// run.
func (c *Checker) resolveMembers() {
	pending := c.members
	c.members = nil
	for _, m := range pending {
		base := Resolve(m.base)
		con, ok := base.(*TCon)
		if !ok {
			if _, isErr := base.(*TErr); isErr {
				continue
			}
			if _, isVar := base.(*TVar); isVar {
				// Leave it to the ambiguity sweep.
				continue
			}
			c.diags.Add(&diag.UnresolvedName{
				Path:       cst.SymbolPath{Name: m.field},
				SymbolKind: cst.SymVar,
				Site:       m.origin,
			})
			continue
		}
		rec, ok := c.records[con.Name]
		if !ok {
			c.diags.Add(&diag.UnresolvedName{
				Path:       cst.SymbolPath{Name: m.field},
				SymbolKind: cst.SymVar,
				Site:       m.origin,
			})
			continue
		}
		found := false
		for _, f := range rec.fields {
			if f.name == m.field {
				c.unify(m.result, f.ty, m.origin)
				found = true
				break
			}
		}
		if !found {
			c.diags.Add(&diag.UnresolvedName{
				Path:       cst.SymbolPath{Name: m.field},
				SymbolKind: cst.SymVar,
				Site:       m.origin,
			})
		}
	}
}

// resolveRecordLiterals matches each record literal against the declared
// records by field-name set. Exactly one match fixes the literal's type;
// anything else leaves the result variable for the ambiguity sweep.
func (c *Checker) resolveRecordLiterals() {
	pending := c.recordLits
	c.recordLits = nil
	for _, lit := range pending {
		if _, solved := Resolve(lit.result).(*TCon); solved {
			continue
		}
		var matches []*recordInfo
		for _, rec := range c.records {
			if recordFieldsMatch(rec, lit.fields) {
				matches = append(matches, rec)
			}
		}
		if len(matches) != 1 {
			continue
		}
		rec := matches[0]
		c.unify(lit.result, &TCon{Name: rec.name}, lit.origin)
		for _, f := range rec.fields {
			c.unify(lit.fields[f.name], f.ty, lit.origin)
		}
	}
}

func recordFieldsMatch(rec *recordInfo, fields map[string]Type) bool {
	if len(rec.fields) != len(fields) {
		return false
	}
	for _, f := range rec.fields {
		if _, ok := fields[f.name]; !ok {
			return false
		}
	}
	return true
}

// reportAmbiguousTypes sweeps the tree for expressions whose solved type
// still contains an unsolved variable. Each variable is reported once, at
// its first occurrence in source order.
func (c *Checker) reportAmbiguousTypes(sf *cst.SourceFile) {
	cst.Walk(sf, func(n cst.Node) bool {
		if _, isExpr := n.(cst.Expression); !isExpr {
			return true
		}
		t, ok := c.types[n]
		if !ok {
			return true
		}
		vars := FreeTypeVars(t).Slice()
		sort.Slice(vars, func(i, j int) bool { return vars[i].ID < vars[j].ID })
		for _, v := range vars {
			if v.Rigid || c.reportedAmbig[v] {
				continue
			}
			c.reportedAmbig[v] = true
			c.diags.Add(&diag.AmbiguousType{Var: v, Site: n})
		}
		return true
	})
}
