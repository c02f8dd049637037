package types

import (
	"github.com/bolt-lang/bolt/internal/cst"
	"github.com/bolt-lang/bolt/internal/diag"
)

// occursIn reports whether v appears in t after resolution. Binding a
// variable to a type containing itself would create an infinite type.
func occursIn(v *TVar, t Type) bool {
	switch t := Resolve(t).(type) {
	case *TVar:
		return t == v
	case *TApp:
		if occursIn(v, t.Op) {
			return true
		}
		for _, a := range t.Args {
			if occursIn(v, a) {
				return true
			}
		}
	case *TArrow:
		return occursIn(v, t.Param) || occursIn(v, t.Return)
	case *TTuple:
		for _, e := range t.Elems {
			if occursIn(v, e) {
				return true
			}
		}
	}
	return false
}

// unify makes left and right equal, reporting a UnificationError at origin
// when they cannot be. It returns false on mismatch but never aborts; the
// caller keeps checking so that all errors in a file are collected.
func (c *Checker) unify(left, right Type, origin cst.Node) bool {
	if c.unifyTypes(left, right, nil) {
		return true
	}
	c.diags.Add(&diag.UnificationError{
		Left:  Resolve(left),
		Right: Resolve(right),
		Site:  origin,
	})
	return false
}

// unifyTypes performs the structural unification. When trail is non-nil,
// every variable binding is recorded so the caller can roll the attempt
// back (instance matching).
func (c *Checker) unifyTypes(left, right Type, trail *[]*TVar) bool {
	left = Resolve(left)
	right = Resolve(right)

	if left == right {
		return true
	}

	if lv, ok := left.(*TVar); ok && !lv.Rigid {
		return c.bindVar(lv, right, trail)
	}
	if rv, ok := right.(*TVar); ok && !rv.Rigid {
		return c.bindVar(rv, left, trail)
	}

	// The error type absorbs anything to suppress cascaded reports.
	if _, ok := left.(*TErr); ok {
		return true
	}
	if _, ok := right.(*TErr); ok {
		return true
	}

	switch l := left.(type) {
	case *TVar:
		// Rigid variable: equal only to itself, which was handled above.
		return false
	case *TCon:
		r, ok := right.(*TCon)
		return ok && l.Name == r.Name
	case *TApp:
		r, ok := right.(*TApp)
		if !ok || len(l.Args) != len(r.Args) {
			return false
		}
		if !c.unifyTypes(l.Op, r.Op, trail) {
			return false
		}
		for i := range l.Args {
			if !c.unifyTypes(l.Args[i], r.Args[i], trail) {
				return false
			}
		}
		return true
	case *TArrow:
		r, ok := right.(*TArrow)
		if !ok {
			return false
		}
		return c.unifyTypes(l.Param, r.Param, trail) &&
			c.unifyTypes(l.Return, r.Return, trail)
	case *TTuple:
		r, ok := right.(*TTuple)
		if !ok || len(l.Elems) != len(r.Elems) {
			return false
		}
		for i := range l.Elems {
			if !c.unifyTypes(l.Elems[i], r.Elems[i], trail) {
				return false
			}
		}
		return true
	}
	return false
}

func (c *Checker) bindVar(v *TVar, t Type, trail *[]*TVar) bool {
	if tv, ok := t.(*TVar); ok && tv == v {
		return true
	}
	if occursIn(v, t) {
		return false
	}
	v.Link = t
	if trail != nil {
		*trail = append(*trail, v)
	}
	return true
}

// tryUnify attempts unification and rolls back every binding it made. It
// reports whether the attempt would succeed.
func (c *Checker) tryUnify(left, right Type) bool {
	var trail []*TVar
	ok := c.unifyTypes(left, right, &trail)
	for _, v := range trail {
		v.Link = nil
	}
	return ok
}

// unifyCommitting attempts unification and keeps the bindings on success,
// rolling back on failure without reporting.
func (c *Checker) unifyCommitting(left, right Type) bool {
	var trail []*TVar
	ok := c.unifyTypes(left, right, &trail)
	if !ok {
		for _, v := range trail {
			v.Link = nil
		}
	}
	return ok
}

// solveEquals unifies every pending equality constraint, in emission order.
func (c *Checker) solveEquals() {
	pending := c.equals
	c.equals = nil
	for _, eq := range pending {
		c.unify(eq.Left, eq.Right, eq.Origin)
	}
}
