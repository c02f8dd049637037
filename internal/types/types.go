// Package types implements the Bolt type system: a Hindley-Milner core
// extended with qualified types (class constraints) and equality
// constraints. The checker generates constraints during a traversal of the
// CST and solves them by unification over union-find style type variables.
package types

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// Type is the closed family of type representations. Types are immutable
// values except for the link cell inside a TVar, which is set at most once
// per solving step.
type Type interface {
	typeNode()
	String() string
}

// TCon is a primitive or user-declared named type constructor.
type TCon struct {
	Name string
}

func (t *TCon) typeNode()      {}
func (t *TCon) String() string { return t.Name }

// TVar is a unification variable. Link is nil while the variable is
// unsolved; Resolve follows and compresses link chains. Quantified marks
// variables that were generalized into a scheme, and Rigid marks skolem
// variables that must not be bound during unification (class and instance
// signature checking).
type TVar struct {
	ID         int
	Link       Type
	Quantified bool
	Rigid      bool
	Hint       string // display name for rigid and quantified variables
}

func (t *TVar) typeNode() {}

func (t *TVar) String() string {
	if t.Link != nil {
		return Resolve(t).String()
	}
	if t.Hint != "" {
		return t.Hint
	}
	return fmt.Sprintf("t%d", t.ID)
}

// TApp applies a type constructor to arguments, as in "List Int".
type TApp struct {
	Op   Type
	Args []Type
}

func (t *TApp) typeNode() {}

func (t *TApp) String() string {
	parts := []string{t.Op.String()}
	for _, a := range t.Args {
		s := a.String()
		if needsParens(a) {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// TArrow is a single-parameter function type; multi-parameter functions are
// curried chains of arrows.
type TArrow struct {
	Param  Type
	Return Type
}

func (t *TArrow) typeNode() {}

func (t *TArrow) String() string {
	param := t.Param.String()
	if _, ok := Resolve(t.Param).(*TArrow); ok {
		param = "(" + param + ")"
	}
	return param + " -> " + t.Return.String()
}

// TTuple is a tuple type. The empty tuple is the unit type.
type TTuple struct {
	Elems []Type
}

func (t *TTuple) typeNode() {}

func (t *TTuple) String() string {
	var parts []string
	for _, e := range t.Elems {
		parts = append(parts, e.String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// TErr is the error type assigned to nodes whose subexpressions failed. It
// unifies with anything so that one failure does not cascade.
type TErr struct{}

func (t *TErr) typeNode()      {}
func (t *TErr) String() string { return "<error>" }

func needsParens(t Type) bool {
	switch Resolve(t).(type) {
	case *TApp, *TArrow:
		return true
	}
	return false
}

// Resolve follows the link chain of a type variable and returns the
// representative type, compressing the path so later lookups are constant
// time.
func Resolve(t Type) Type {
	tv, ok := t.(*TVar)
	if !ok || tv.Link == nil {
		return t
	}
	root := Resolve(tv.Link)
	tv.Link = root
	return root
}

// MakeArrow builds a curried arrow chain from parameter types and a result.
func MakeArrow(params []Type, result Type) Type {
	out := result
	for i := len(params) - 1; i >= 0; i-- {
		out = &TArrow{Param: params[i], Return: out}
	}
	return out
}

// freeTypeVars inserts every unsolved, non-quantified type variable
// reachable from t into acc.
func freeTypeVars(t Type, acc *set.Set[*TVar]) {
	switch t := Resolve(t).(type) {
	case *TVar:
		if !t.Quantified {
			acc.Insert(t)
		}
	case *TApp:
		freeTypeVars(t.Op, acc)
		for _, a := range t.Args {
			freeTypeVars(a, acc)
		}
	case *TArrow:
		freeTypeVars(t.Param, acc)
		freeTypeVars(t.Return, acc)
	case *TTuple:
		for _, e := range t.Elems {
			freeTypeVars(e, acc)
		}
	}
}

// FreeTypeVars returns the set of unsolved type variables in t.
func FreeTypeVars(t Type) *set.Set[*TVar] {
	acc := set.New[*TVar](4)
	freeTypeVars(t, acc)
	return acc
}

// substitute returns a copy of t with the mapped variables replaced.
// Unmapped variables are shared, not copied.
func substitute(t Type, subst map[*TVar]Type) Type {
	switch t := Resolve(t).(type) {
	case *TVar:
		if repl, ok := subst[t]; ok {
			return repl
		}
		return t
	case *TApp:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = substitute(a, subst)
		}
		return &TApp{Op: substitute(t.Op, subst), Args: args}
	case *TArrow:
		return &TArrow{
			Param:  substitute(t.Param, subst),
			Return: substitute(t.Return, subst),
		}
	case *TTuple:
		elems := make([]Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = substitute(e, subst)
		}
		return &TTuple{Elems: elems}
	default:
		return t
	}
}

// Scheme is a generalized type: universally quantified variables, the class
// constraints they must satisfy, and a body. Schemes are created at let
// generalization and for built-in operators, enum constructors and class
// methods.
type Scheme struct {
	Vars        []*TVar
	Constraints []*ClassConstraint
	Body        Type
}

func (s *Scheme) String() string {
	var b strings.Builder
	if len(s.Vars) > 0 {
		b.WriteString("forall")
		for _, v := range s.Vars {
			b.WriteString(" " + v.String())
		}
		b.WriteString(". ")
	}
	for i, c := range s.Constraints {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.String())
	}
	if len(s.Constraints) > 0 {
		b.WriteString(" => ")
	}
	b.WriteString(s.Body.String())
	return b.String()
}

// IsMono reports whether the scheme quantifies nothing.
func (s *Scheme) IsMono() bool {
	return len(s.Vars) == 0 && len(s.Constraints) == 0
}
