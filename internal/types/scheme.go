package types

// TypeScheme is a ∀-closure over a type: TypeScheme{type, quantifiedVars}
// (spec §3.4).
type TypeScheme struct {
	Type           Type
	QuantifiedVars []string
	Effects        EffectSet
}

// Monotype wraps a concrete type with no quantified variables, used for
// let-bound monomorphic values (spec §4.3 "value restriction").
func Monotype(t Type) *TypeScheme { return &TypeScheme{Type: t} }

// Generalize implements spec §4.3: apply sigma to type, then quantify over
// freeVars(type) \ freeVars(env).
func Generalize(t Type, env *TypeEnvironment, sub Substitution) *TypeScheme {
	t = t.Substitute(sub)

	typeFree := map[string]bool{}
	t.FreeVars(typeFree)

	envFree := map[string]bool{}
	env.FreeVars(envFree, sub)

	var quantified []string
	for v := range typeFree {
		if !envFree[v] {
			quantified = append(quantified, v)
		}
	}
	return &TypeScheme{Type: t, QuantifiedVars: quantified}
}

// Instantiate implements spec §4.3: freshen each quantified variable to a
// new alpha_n and walk the scheme substituting q with its fresh variable;
// constraints attached to q transfer to the fresh variable, deduplicated.
func Instantiate(scheme *TypeScheme, state *TypeState) Type {
	if len(scheme.QuantifiedVars) == 0 {
		return scheme.Type
	}
	fresh := make(Substitution, len(scheme.QuantifiedVars))
	for _, q := range scheme.QuantifiedVars {
		fresh[q] = state.FreshVar()
	}
	return instantiateWithConstraints(scheme.Type, fresh)
}

// instantiateWithConstraints substitutes quantified variables and, for any
// Variable carrying inline constraints that itself gets replaced, transfers
// those constraints onto the fresh variable (deduped), per spec §4.3.
func instantiateWithConstraints(t Type, fresh Substitution) Type {
	if v, ok := t.(*Variable); ok {
		if nv, ok := fresh[v.Name]; ok {
			if fv, ok := nv.(*Variable); ok && len(v.Constraints) > 0 {
				transferred := make([]Constraint, len(v.Constraints))
				for i, c := range v.Constraints {
					transferred[i] = c.Substitute(fresh)
				}
				fv.Constraints = DedupeConstraints(append(append([]Constraint{}, fv.Constraints...), transferred...))
			}
			return nv
		}
		return v
	}
	return t.Substitute(fresh)
}

// String renders the scheme as `forall q1 q2. T`, or just T when nothing is
// quantified. The value restriction (spec §4.3) is decided by the
// inferencer's isSyntacticValue, not in this package.
func (s *TypeScheme) String() string {
	if len(s.QuantifiedVars) == 0 {
		return s.Type.String()
	}
	out := "forall"
	for _, q := range s.QuantifiedVars {
		out += " " + q
	}
	return out + ". " + s.Type.String()
}
