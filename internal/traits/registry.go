// Package traits implements THE CORE trait (nominal type class) system
// described in spec §3.3 and §4.2: trait registration, implementation
// registration with arity and signature checking, conditional
// implementations (`given a implements T`), and dispatch-type derivation
// used by both the constraint resolver (internal/infer) and the runtime
// (internal/eval).
//
// Modeled on the teacher's internal/types/instances.go InstanceEnv, but
// keyed by (traitName, typeName) with a nested map the way spec §3.3
// describes TraitRegistry, rather than the teacher's flattened
// "ClassName::TypeNF" string-keyed map — Noolang's impls carry raw
// expression ASTs (not dictionaries), so lookups need the two components
// separately addressable for the conditional-impl discharge path.
package traits

import (
	"fmt"
	"sort"

	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/types"
)

// TraitDefinition names one type parameter and a set of function
// signatures quantified over it (spec §3.3).
type TraitDefinition struct {
	Name      string
	TypeParam string
	Functions map[string]types.Type // fname -> declared signature
}

// TraitImplementation is a per-type implementation, optionally conditional
// (spec §3.3).
type TraitImplementation struct {
	TraitName        string
	TypeName         string
	Functions        map[string]ast.Expr // fname -> implementation AST
	GivenConstraints []ast.GivenConstraint
}

// Registry stores trait definitions, implementations, and conditional
// impls (spec §3.3 TraitRegistry).
type Registry struct {
	Definitions     map[string]*TraitDefinition
	Implementations map[string]map[string]*TraitImplementation // traitName -> typeName -> impl
}

func NewRegistry() *Registry {
	return &Registry{
		Definitions:     map[string]*TraitDefinition{},
		Implementations: map[string]map[string]*TraitImplementation{},
	}
}

// AddTraitDefinition inserts or replaces; idempotent if equal (spec §4.2).
func (r *Registry) AddTraitDefinition(def *TraitDefinition) {
	r.Definitions[def.Name] = def
}

// ArityOf reports the declared arity of a trait function, derived from its
// signature's curried Function.Params length (0 if the signature isn't a
// Function, e.g. a bare value-like trait method).
func ArityOf(sig types.Type) int {
	if fn, ok := sig.(*types.Function); ok {
		return len(fn.Params)
	}
	return 0
}

// exprArity counts an implementation AST's declared parameter count: a
// FuncExpr's Params length, or 0 for anything else (a bare variable
// reference, an already-curried partial application, etc. — spec §4.2:
// "variable references are accepted without arity check").
func exprArity(e ast.Expr) (int, bool) {
	if fn, ok := e.(*ast.FuncExpr); ok {
		return len(fn.Params), true
	}
	return 0, false
}

// AddTraitImplementation validates and stores one implementation, per the
// contract in spec §4.2:
//   - fails if the trait is unknown
//   - each function's arity (if it's a literal ast.FuncExpr) must match the
//     trait's declared arity
//   - rejects function names not declared by the trait
//   - conditional impls are stored as-is; their GivenConstraints are kept
//     on the record but are not checked by ResolveTraitFunction or by
//     runtime dispatch.
func (r *Registry) AddTraitImplementation(impl *TraitImplementation) (bool, error) {
	def, ok := r.Definitions[impl.TraitName]
	if !ok {
		return false, fmt.Errorf("unknown trait %q", impl.TraitName)
	}
	for fname, body := range impl.Functions {
		sig, declared := def.Functions[fname]
		if !declared {
			return false, fmt.Errorf("implement %s %s: %q is not a function of trait %s",
				impl.TraitName, impl.TypeName, fname, impl.TraitName)
		}
		if arity, isFunc := exprArity(body); isFunc {
			want := ArityOf(sig)
			if arity != want {
				return false, fmt.Errorf("implement %s %s: function %q has arity %d, trait declares arity %d",
					impl.TraitName, impl.TypeName, fname, arity, want)
			}
		}
	}
	byType, ok := r.Implementations[impl.TraitName]
	if !ok {
		byType = map[string]*TraitImplementation{}
		r.Implementations[impl.TraitName] = byType
	}
	byType[impl.TypeName] = impl
	return true, nil
}

// IsTraitFunction reports whether any trait defines name.
func (r *Registry) IsTraitFunction(name string) bool {
	for _, def := range r.Definitions {
		if _, ok := def.Functions[name]; ok {
			return true
		}
	}
	return false
}

// TraitsDefining returns the names of every trait that declares a function
// called name, sorted for deterministic iteration (used to detect the
// ambiguity case in spec §4.2's "Conflict rule").
func (r *Registry) TraitsDefining(name string) []string {
	var out []string
	for tname, def := range r.Definitions {
		if _, ok := def.Functions[name]; ok {
			out = append(out, tname)
		}
	}
	sort.Strings(out)
	return out
}

// ResolveResult is the outcome of resolveTraitFunction (spec §4.2).
type ResolveResult struct {
	Found     bool
	TraitName string
	TypeName  string
	Impl      *TraitImplementation
}

// ResolveTraitFunction finds at most one impl whose typeName matches the
// dispatch type derived from argTypes (spec §4.2). Ambiguity — two
// different traits both defining name and both having an impl for the same
// dispatch type — is reported via AmbiguousImplementation-shaped error; the
// caller (constraint resolver or runtime dispatch) decides how to surface
// it.
func (r *Registry) ResolveTraitFunction(name string, dispatchType string) (ResolveResult, error) {
	var matches []ResolveResult
	for _, traitName := range r.TraitsDefining(name) {
		byType, ok := r.Implementations[traitName]
		if !ok {
			continue
		}
		if impl, ok := byType[dispatchType]; ok {
			matches = append(matches, ResolveResult{Found: true, TraitName: traitName, TypeName: dispatchType, Impl: impl})
		}
	}
	switch len(matches) {
	case 0:
		return ResolveResult{}, nil
	case 1:
		return matches[0], nil
	default:
		var tnames []string
		for _, m := range matches {
			tnames = append(tnames, m.TraitName)
		}
		return ResolveResult{}, &AmbiguousImplementationError{Function: name, TypeName: dispatchType, Traits: tnames}
	}
}

// AmbiguousImplementationError is raised when a single dispatch type
// implements the same function name from two different traits
// simultaneously at a call site (spec §4.2 "Conflict rule", §7).
type AmbiguousImplementationError struct {
	Function string
	TypeName string
	Traits   []string
}

func (e *AmbiguousImplementationError) Error() string {
	return fmt.Sprintf("ambiguous implementation of %q for type %s: matches traits %v", e.Function, e.TypeName, e.Traits)
}

// AvailableTypes returns every typeName with a registered impl of
// traitName, sorted, used to build NoImplementation's availableImpls hint
// (spec §4.5, §7).
func (r *Registry) AvailableTypes(traitName string) []string {
	byType, ok := r.Implementations[traitName]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(byType))
	for t := range byType {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// DispatchTypeName derives the concrete dispatch type name from a
// types.Type, per spec §4.2: "Concrete types map to Float, String, Bool,
// List, Tuple, Record, variant names (Option, Result, user variants), else
// Unknown."
func DispatchTypeName(t types.Type) string {
	switch v := t.(type) {
	case *types.Primitive:
		return v.Name
	case *types.List:
		return "List"
	case *types.Tuple:
		return "Tuple"
	case *types.Record:
		return "Record"
	case *types.Variant:
		return v.Name
	case *types.UnitType:
		return "Unit"
	case *types.Constrained:
		return DispatchTypeName(v.Base)
	}
	return "Unknown"
}

// DispatchTypeFromArgs implements the "dispatch type derivation" rule of
// spec §4.2: "prefers the last argument for higher-kinded traits ..., then
// the first." It returns "Unknown" when both the last and the first
// argument are Unknown; arguments in between are not consulted.
func DispatchTypeFromArgs(argTypes []types.Type) string {
	if len(argTypes) == 0 {
		return "Unknown"
	}
	last := DispatchTypeName(argTypes[len(argTypes)-1])
	if last != "Unknown" {
		return last
	}
	first := DispatchTypeName(argTypes[0])
	return first
}
