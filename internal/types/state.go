package types

import "fmt"

// ADTDefinition records one `type T a b = C1 .. | C2 ..` declaration: its
// type parameters and the constructors registered against it, used by the
// inferencer to type constructor applications and by the evaluator (via
// the inferencer's decoration) to know a constructor's owning type name.
type ADTDefinition struct {
	Name       string
	TypeParams []string
	Ctors      map[string]*CtorInfo
}

// CtorInfo is one constructor's field types, in declaration order.
type CtorInfo struct {
	Name   string
	Fields []Type
	Owner  string // the ADT's Name
}

// ADTRegistry maps ADT name -> definition, and constructor name -> owning
// ADT, for O(1) lookup from either direction (spec §3.4 "adtRegistry").
type ADTRegistry struct {
	Defs  map[string]*ADTDefinition
	Ctors map[string]*ADTDefinition
}

func NewADTRegistry() *ADTRegistry {
	return &ADTRegistry{Defs: map[string]*ADTDefinition{}, Ctors: map[string]*ADTDefinition{}}
}

func (r *ADTRegistry) Register(def *ADTDefinition) {
	r.Defs[def.Name] = def
	for name := range def.Ctors {
		r.Ctors[name] = def
	}
}

// TypeState is the explicit, threaded bundle from spec §3.4: env,
// substitution, a fresh-variable counter, the ADT registry, the trait
// registry (an opaque interface{} here to avoid an import cycle between
// types and traits; internal/infer narrows it), and an accessor cache.
//
// TraitRegistry is typed as interface{} deliberately: internal/traits
// depends on internal/types (for Type/Constraint), so types cannot import
// traits back. internal/infer holds the concrete *traits.Registry and type
//-asserts it where needed — the same layering the teacher uses between
// internal/types and internal/eval for the class-instance environment.
type TypeState struct {
	Env            *TypeEnvironment
	Sub            Substitution
	Counter        *int
	ADTs           *ADTRegistry
	TraitRegistry  interface{}
	AccessorCache  map[string]*TypeScheme
	Unifier        *Unifier
}

// NewTypeState creates a fresh, empty TypeState.
func NewTypeState() *TypeState {
	counter := 0
	return &TypeState{
		Env:           NewTypeEnvironment(),
		Sub:           Substitution{},
		Counter:       &counter,
		ADTs:          NewADTRegistry(),
		AccessorCache: map[string]*TypeScheme{},
		Unifier:       NewUnifier(),
	}
}

// FreshVar freshens a brand-new unbound type variable (spec §4.3
// "instantiate ... freshen to a new alpha_n").
func (s *TypeState) FreshVar() *Variable {
	*s.Counter++
	return NewVar(fmt.Sprintf("t%d", *s.Counter))
}

// WithEnv returns a shallow copy of the state with a different Env,
// leaving Sub/Counter/registries shared (the threading idiom of spec §3.4:
// "new iterations produce fresh states; equivalent to persistent update").
func (s *TypeState) WithEnv(env *TypeEnvironment) *TypeState {
	cp := *s
	cp.Env = env
	return &cp
}

// WithSub returns a shallow copy of the state with an extended substitution.
func (s *TypeState) WithSub(sub Substitution) *TypeState {
	cp := *s
	cp.Sub = sub
	return &cp
}

// Unify is a convenience wrapper threading Sub through the state's Unifier.
func (s *TypeState) Unify(t1, t2 Type) (*TypeState, error) {
	sub, err := s.Unifier.Unify(t1, t2, s.Sub)
	if err != nil {
		return nil, err
	}
	return s.WithSub(sub), nil
}
