package eval

import (
	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/diagnostic"
	"github.com/jethrolarson/noolang-sub003/internal/traits"
)

// applyTraitFunction accumulates one more argument onto a deferred trait
// call and attempts dispatch once enough arguments have arrived to derive a
// concrete dispatch type (spec §4.7): derive the dispatch type from the
// accumulated arguments (last-argument-then-first preference), resolve
// through the registry, and if found, evaluate the implementation body in
// the global environment and apply it to every accumulated argument in
// order. If no dispatch type is concrete yet, the call is deferred by
// returning a new TraitFunction with the argument appended.
func (e *Evaluator) applyTraitFunction(f *TraitFunction, arg Value, pos ast.Pos) (Value, error) {
	args := append(append([]Value{}, f.PartialArgs...), arg)

	dispatchType := dispatchTypeFromValues(args)
	if dispatchType == "Unknown" {
		needed := maxArity(e.Traits, f.Name)
		if needed == 0 || len(args) < needed {
			// Not enough information yet to know the dispatch type; defer.
			return &TraitFunction{Name: f.Name, PartialArgs: args}, nil
		}
	}

	result, err := e.Traits.ResolveTraitFunction(f.Name, dispatchType)
	if err != nil {
		if ae, ok := err.(*traits.AmbiguousImplementationError); ok {
			return nil, diagnostic.NewAmbiguousImplementation(pos, ae.Function, ae.TypeName, ae.Traits)
		}
		return nil, diagnostic.NewRuntimeError(pos, err.Error())
	}
	if !result.Found {
		traitName := ""
		if defs := e.Traits.TraitsDefining(f.Name); len(defs) > 0 {
			traitName = defs[0]
		}
		return nil, diagnostic.NewNoImplementation(pos, traitName, f.Name, dispatchType, e.Traits.AvailableTypes(traitName))
	}

	fn, err := e.Eval(result.Impl.Functions[f.Name], e.Global)
	if err != nil {
		return nil, err
	}
	var out Value = fn
	for _, a := range args {
		out, err = e.Apply(out, a, pos)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// dispatchTypeFromValues mirrors traits.DispatchTypeFromArgs but operates on
// runtime Values via GetValueTypeName rather than inferred types.Type,
// since at evaluation time no type information survives into the runtime
// Value representation (spec §4.7 "getValueTypeName").
func dispatchTypeFromValues(args []Value) string {
	if len(args) == 0 {
		return "Unknown"
	}
	last := GetValueTypeName(args[len(args)-1])
	if last != "Unknown" {
		return last
	}
	return GetValueTypeName(args[0])
}

// maxArity reports the largest declared arity across every trait defining
// name. applyTraitFunction consults it only while the dispatch type is
// still Unknown (e.g. every argument so far is itself a TraitFunction), so
// that dispatch on "Unknown" isn't attempted before that many arguments
// have arrived; a concrete argument type, including "Function", dispatches
// at once.
func maxArity(reg *traits.Registry, name string) int {
	best := 0
	for _, traitName := range reg.TraitsDefining(name) {
		def, ok := reg.Definitions[traitName]
		if !ok {
			continue
		}
		if sig, ok := def.Functions[name]; ok {
			if a := traits.ArityOf(sig); a > best {
				best = a
			}
		}
	}
	return best
}
