package types

import (
	"strings"

	"github.com/bolt-lang/bolt/internal/cst"
)

// EqualConstraint requires two types to unify. Origin is the CST node
// reported when unification fails.
type EqualConstraint struct {
	Left   Type
	Right  Type
	Origin cst.Node
}

// ClassConstraint is an obligation "C t1 ... tn" that must be discharged by
// an instance, or absorbed into a scheme at generalization.
type ClassConstraint struct {
	Class  string
	Args   []Type
	Origin cst.Node
}

func (c *ClassConstraint) String() string {
	parts := []string{c.Class}
	for _, a := range c.Args {
		s := a.String()
		if needsParens(a) {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// freeVars returns the unsolved variables mentioned by the constraint.
func (c *ClassConstraint) freeVars() map[*TVar]bool {
	out := make(map[*TVar]bool)
	for _, a := range c.Args {
		for _, v := range FreeTypeVars(a).Slice() {
			out[v] = true
		}
	}
	return out
}

// isGround reports whether the constraint mentions no unsolved variables.
func (c *ClassConstraint) isGround() bool {
	return len(c.freeVars()) == 0
}

// substituteConstraint maps a constraint through a substitution, keeping
// the origin node.
func substituteConstraint(c *ClassConstraint, subst map[*TVar]Type) *ClassConstraint {
	args := make([]Type, len(c.Args))
	for i, a := range c.Args {
		args[i] = substitute(a, subst)
	}
	return &ClassConstraint{Class: c.Class, Args: args, Origin: c.Origin}
}
