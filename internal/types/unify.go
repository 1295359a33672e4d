package types

import "fmt"

// ApplySubstitution rewrites Variable leaves recursively, matching the
// teacher's free function of the same name in internal/types/unification.go.
func ApplySubstitution(sub Substitution, t Type) Type {
	return t.Substitute(sub)
}

// Compose returns a substitution equivalent to applying s1 then s2, per
// spec §8 ("Substitution composition"): apply(compose(s1,s2), T) ==
// apply(s2, apply(s1, T)).
func Compose(s1, s2 Substitution) Substitution {
	out := make(Substitution, len(s1)+len(s2))
	for k, v := range s1 {
		out[k] = v.Substitute(s2)
	}
	for k, v := range s2 {
		if _, exists := out[k]; !exists {
			out[k] = v
		}
	}
	return out
}

// TypeMismatchError is raised when two types of incompatible kind cannot be
// unified (spec §4.1 step 5, §7).
type TypeMismatchError struct {
	Expected, Actual Type
	Hint             string
}

func (e *TypeMismatchError) Error() string {
	msg := fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Actual)
	if e.Hint != "" {
		msg += "; " + e.Hint
	}
	return msg
}

// OccursCheckError guards a variable being substituted by a type containing
// itself (spec §4.1 step 3, §7).
type OccursCheckError struct {
	Var string
	In  Type
}

func (e *OccursCheckError) Error() string {
	return fmt.Sprintf("occurs check failed: %s occurs in %s", e.Var, e.In)
}

// Unifier performs the hot-path equality solving described in spec §4.1. It
// keeps a running call counter exposed for regression tests, mirroring the
// teacher's requirement of "a per-run counter of unifications ... exposed
// for regression tests."
type Unifier struct {
	Calls int
}

func NewUnifier() *Unifier { return &Unifier{} }

// Unify solves t1 == t2 against sub, returning the extended substitution.
func (u *Unifier) Unify(t1, t2 Type, sub Substitution) (Substitution, error) {
	u.Calls++

	// Step 1: path-shorten by applying the current substitution.
	t1 = t1.Substitute(sub)
	t2 = t2.Substitute(sub)

	// Step 2: reference/structural equality shortcut.
	if t1.Equals(t2) {
		return sub, nil
	}

	// Step 3: variable cases (either side).
	if v1, ok := t1.(*Variable); ok {
		return u.bindVar(v1, t2, sub)
	}
	if v2, ok := t2.(*Variable); ok {
		return u.bindVar(v2, t1, sub)
	}

	// Unknown unifies loosely with anything (spec §3.1: "unifies loosely
	// with Option/at results when the container is unknown").
	if _, ok := t1.(*UnknownType); ok {
		return sub, nil
	}
	if _, ok := t2.(*UnknownType); ok {
		return sub, nil
	}

	// Constrained wraps a base type; unify bases and keep the wrapper's
	// constraints (handled by the inferencer, not this solver).
	if c1, ok := t1.(*Constrained); ok {
		return u.Unify(c1.Base, t2, sub)
	}
	if c2, ok := t2.(*Constrained); ok {
		return u.Unify(t1, c2.Base, sub)
	}

	// Step 4: decompose by kind.
	switch a := t1.(type) {
	case *Primitive:
		return nil, &TypeMismatchError{Expected: t1, Actual: t2}
	case *UnitType:
		return nil, &TypeMismatchError{Expected: t1, Actual: t2}
	case *Function:
		b, ok := t2.(*Function)
		if !ok {
			return nil, &TypeMismatchError{Expected: t1, Actual: t2}
		}
		return u.unifyFunction(a, b, sub)
	case *List:
		b, ok := t2.(*List)
		if !ok {
			return nil, &TypeMismatchError{Expected: t1, Actual: t2}
		}
		return u.Unify(a.Element, b.Element, sub)
	case *Tuple:
		b, ok := t2.(*Tuple)
		if !ok || len(a.Elements) != len(b.Elements) {
			return nil, &TypeMismatchError{Expected: t1, Actual: t2, Hint: "tuple arity mismatch"}
		}
		var err error
		for i := range a.Elements {
			sub, err = u.Unify(a.Elements[i], b.Elements[i], sub)
			if err != nil {
				return nil, err
			}
		}
		return sub, nil
	case *Record:
		b, ok := t2.(*Record)
		if !ok {
			return nil, &TypeMismatchError{Expected: t1, Actual: t2}
		}
		return u.unifyRecord(a, b, sub)
	case *Variant:
		b, ok := t2.(*Variant)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return nil, &TypeMismatchError{Expected: t1, Actual: t2}
		}
		var err error
		for i := range a.Args {
			sub, err = u.Unify(a.Args[i], b.Args[i], sub)
			if err != nil {
				return nil, err
			}
		}
		return sub, nil
	case *Union:
		b, ok := t2.(*Union)
		if !ok || len(a.Types) != len(b.Types) {
			return nil, &TypeMismatchError{Expected: t1, Actual: t2}
		}
		var err error
		for i := range a.Types {
			sub, err = u.Unify(a.Types[i], b.Types[i], sub)
			if err != nil {
				return nil, err
			}
		}
		return sub, nil
	}
	return nil, &TypeMismatchError{Expected: t1, Actual: t2}
}

func (u *Unifier) unifyFunction(a, b *Function, sub Substitution) (Substitution, error) {
	if len(a.Params) != len(b.Params) {
		return nil, &TypeMismatchError{Expected: a, Actual: b, Hint: "function arity mismatch"}
	}
	var err error
	for i := range a.Params {
		sub, err = u.Unify(a.Params[i], b.Params[i], sub)
		if err != nil {
			return nil, err
		}
	}
	sub, err = u.Unify(a.Return, b.Return, sub)
	if err != nil {
		return nil, err
	}
	// Effect sets are never compared, so differing effects don't fail
	// unification (spec §4.1 step 4). The union computed here is discarded:
	// the substitution carries no effect information.
	_ = a.Effects.Union(b.Effects)
	return sub, nil
}

// unifyRecord requires exact key-set equality: "for records, the key-set
// must match exactly (no row polymorphism here ...)" (spec §4.1 step 4).
func (u *Unifier) unifyRecord(a, b *Record, sub Substitution) (Substitution, error) {
	if len(a.Fields) != len(b.Fields) {
		return nil, &TypeMismatchError{Expected: a, Actual: b, Hint: "record field-set mismatch"}
	}
	var err error
	for k, av := range a.Fields {
		bv, ok := b.Fields[k]
		if !ok {
			return nil, &TypeMismatchError{Expected: a, Actual: b, Hint: fmt.Sprintf("missing field @%s", k)}
		}
		sub, err = u.Unify(av, bv, sub)
		if err != nil {
			return nil, err
		}
	}
	return sub, nil
}

func (u *Unifier) bindVar(v *Variable, other Type, sub Substitution) (Substitution, error) {
	if ov, ok := other.(*Variable); ok && ov.Name == v.Name {
		return sub, nil
	}
	free := map[string]bool{}
	other.FreeVars(free)
	if free[v.Name] {
		return nil, &OccursCheckError{Var: v.Name, In: other}
	}
	out := make(Substitution, len(sub)+1)
	for k, t := range sub {
		out[k] = t
	}
	out[v.Name] = other
	// Copy any constraints on v onto the remaining free variable, or leave
	// them as pending constraints on v if `other` is concrete (spec §4.1
	// step 3).
	if len(v.Constraints) > 0 {
		if ovar, ok := other.(*Variable); ok {
			ovar.Constraints = DedupeConstraints(append(append([]Constraint{}, ovar.Constraints...), v.Constraints...))
		}
	}
	return out, nil
}
