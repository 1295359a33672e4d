package types

// TypeEnvironment is a persistent, chained map from name to TypeScheme
// (spec §3.4), mirroring the teacher's internal/types/env.go TypeEnv
// parent-chain idiom.
type TypeEnvironment struct {
	bindings map[string]*TypeScheme
	parent   *TypeEnvironment
}

// NewTypeEnvironment creates an empty root environment.
func NewTypeEnvironment() *TypeEnvironment {
	return &TypeEnvironment{bindings: map[string]*TypeScheme{}}
}

// Extend returns a child environment with one additional binding, leaving
// the receiver untouched (persistent update, spec §3.4 "equivalent to
// persistent update").
func (e *TypeEnvironment) Extend(name string, scheme *TypeScheme) *TypeEnvironment {
	return &TypeEnvironment{
		bindings: map[string]*TypeScheme{name: scheme},
		parent:   e,
	}
}

// ExtendType is a convenience wrapper binding a bare (monomorphic) type.
func (e *TypeEnvironment) ExtendType(name string, t Type) *TypeEnvironment {
	return e.Extend(name, Monotype(t))
}

// Lookup walks the parent chain for name.
func (e *TypeEnvironment) Lookup(name string) (*TypeScheme, bool) {
	for env := e; env != nil; env = env.parent {
		if s, ok := env.bindings[name]; ok {
			return s, true
		}
	}
	return nil, false
}

// FreeVars collects free variables of every scheme reachable in the chain,
// after substitution, minus each scheme's own quantified variables — used
// by Generalize (spec §4.3: "freeVars(env), both after substitution").
func (e *TypeEnvironment) FreeVars(set map[string]bool, sub Substitution) {
	seen := map[string]bool{}
	for env := e; env != nil; env = env.parent {
		for name, scheme := range env.bindings {
			if seen[name] {
				continue
			}
			seen[name] = true
			schemeFree := map[string]bool{}
			scheme.Type.Substitute(sub).FreeVars(schemeFree)
			quantified := map[string]bool{}
			for _, q := range scheme.QuantifiedVars {
				quantified[q] = true
			}
			for v := range schemeFree {
				if !quantified[v] {
					set[v] = true
				}
			}
		}
	}
}

// Names returns every bound name visible in this environment chain,
// innermost first, used by diagnostics to suggest "did you mean" hints.
func (e *TypeEnvironment) Names() []string {
	seen := map[string]bool{}
	var out []string
	for env := e; env != nil; env = env.parent {
		for name := range env.bindings {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}
