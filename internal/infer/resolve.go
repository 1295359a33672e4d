package infer

import (
	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/diagnostic"
	"github.com/jethrolarson/noolang-sub003/internal/traits"
	"github.com/jethrolarson/noolang-sub003/internal/types"
)

// The constraint resolver (spec §4.5) has two responsibilities: structural
// (`has`) composition/compatibility, and nominal (`implements`) resolution
// at application sites.

// collectConstraints walks a type's reachable Variable leaves (after the
// current substitution has been applied, so any orphaned constraints left
// by bindVar are visible) and gathers every attached Constraint, for
// attachment onto an inferred Function's Constraints field (spec §4.4:
// "Result: Function{params, return, effects, constraints} where
// constraints include all collected constraints still free").
func collectConstraints(t types.Type) []types.Constraint {
	seen := map[string]bool{}
	var out []types.Constraint
	var walk func(types.Type)
	walk = func(t types.Type) {
		switch v := t.(type) {
		case *types.Variable:
			if seen[v.Name] {
				return
			}
			seen[v.Name] = true
			out = append(out, v.Constraints...)
		case *types.Function:
			for _, p := range v.Params {
				walk(p)
			}
			walk(v.Return)
		case *types.List:
			walk(v.Element)
		case *types.Tuple:
			for _, e := range v.Elements {
				walk(e)
			}
		case *types.Record:
			for _, f := range v.Fields {
				walk(f)
			}
		case *types.Variant:
			for _, a := range v.Args {
				walk(a)
			}
		case *types.Constrained:
			walk(v.Base)
		}
	}
	walk(t)
	return types.DedupeConstraints(out)
}

// dischargeConstraint attempts to resolve a single constraint against a now
// (possibly) concrete argument type, per spec §4.5. It returns:
//   - (nil, nil) if the constraint is satisfied and fully discharged
//   - (constraint, nil) if the constraint must be retained (argType is
//     still a variable — dispatch position unresolved)
//   - (nil, err) if the dispatch position is concrete and no impl matches
func (inf *Inferencer) dischargeConstraint(pos ast.Pos, c types.Constraint, argType types.Type) (types.Constraint, error) {
	switch cc := c.(type) {
	case *types.Implements:
		dispatch := traits.DispatchTypeName(argType)
		if dispatch == "Unknown" {
			if _, isVar := argType.(*types.Variable); isVar {
				return cc, nil
			}
		}
		byType, ok := inf.Traits.Implementations[cc.Interface]
		if !ok {
			return nil, nil // no impls registered at all for this trait yet; not an error at infer time
		}
		if _, ok := byType[dispatch]; ok {
			return nil, nil
		}
		if dispatch == "Unknown" {
			return cc, nil
		}
		return nil, diagnostic.NewNoImplementation(pos, cc.Interface, "", dispatch, inf.Traits.AvailableTypes(cc.Interface))
	case *types.HasStructure:
		ok, retain, err := inf.checkStructural(pos, cc, argType)
		if err != nil {
			return nil, err
		}
		if retain {
			return cc, nil
		}
		if ok {
			return nil, nil
		}
		return cc, nil
	}
	return c, nil
}

// checkStructural implements width-subtyping compatibility between a
// HasStructure constraint and a concrete Record (spec §4.5.1): the record
// must contain every named field, with compatible field types; extra fields
// are allowed. retain==true means argType isn't concrete enough yet to
// decide (still a variable).
func (inf *Inferencer) checkStructural(pos ast.Pos, hs *types.HasStructure, argType types.Type) (ok bool, retain bool, err error) {
	rec, isRecord := argType.(*types.Record)
	if !isRecord {
		if _, isVar := argType.(*types.Variable); isVar {
			return false, true, nil
		}
		return false, false, diagnostic.NewTypeMismatch(pos, &types.Record{Fields: map[string]types.Type{}}, argType, nil)
	}
	for name, elem := range hs.Structure.Fields {
		fv, present := rec.Fields[name]
		if !present {
			return false, false, diagnostic.NewRowMissingField(pos, rec, name)
		}
		if elem.Nested != nil {
			if _, _, err := inf.checkStructural(pos, &types.HasStructure{TypeVar: hs.TypeVar, Structure: elem.Nested}, fv); err != nil {
				return false, false, err
			}
			continue
		}
		if av, isVar := elem.Type.(*types.Variable); isVar {
			_ = av // field type itself unifies loosely; caller's Unify call (if any) handles binding
			continue
		}
		if !elem.Type.Equals(fv) {
			return false, false, diagnostic.NewTypeMismatch(pos, elem.Type, fv, []string{name})
		}
	}
	return true, false, nil
}

// tryResolveConstraints implements spec §4.5's named entry point: given a
// function's return type and its residual constraints, plus the concrete
// (or still-variable) argument types supplied at an application site,
// attempt to discharge each constraint. Constraints that cannot yet be
// decided are retained on the returned list (propagated); others are
// dropped (discharged) or raise an error.
func (inf *Inferencer) tryResolveConstraints(pos ast.Pos, returnType types.Type, constraints []types.Constraint, argTypes []types.Type) (types.Type, []types.Constraint, error) {
	dispatchArg := dispatchArgType(argTypes)
	var retained []types.Constraint
	for _, c := range constraints {
		next, err := inf.dischargeConstraint(pos, c, dispatchArg)
		if err != nil {
			return nil, nil, err
		}
		if next != nil {
			retained = append(retained, next)
		}
	}
	if len(retained) == 0 {
		return returnType, nil, nil
	}
	return &types.Constrained{Base: returnType, Constraints: groupByVar(retained)}, retained, nil
}

// dispatchArgType mirrors traits.DispatchTypeFromArgs's last-then-first
// preference rule, operating on inferred types.Type values.
func dispatchArgType(argTypes []types.Type) types.Type {
	if len(argTypes) == 0 {
		return types.Unknown
	}
	last := argTypes[len(argTypes)-1]
	if traits.DispatchTypeName(last) != "Unknown" {
		return last
	}
	return argTypes[0]
}

func groupByVar(cs []types.Constraint) map[string][]types.Constraint {
	out := map[string][]types.Constraint{}
	for _, c := range cs {
		out[c.Var()] = append(out[c.Var()], c)
	}
	return out
}
