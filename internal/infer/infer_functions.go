package infer

import (
	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/diagnostic"
	"github.com/jethrolarson/noolang-sub003/internal/types"
)

// inferFunc freshens parameter types (or resolves their annotation),
// extends the environment, infers the body, and closes over the body's
// effects (spec §4.4 "Function (λ)").
func (inf *Inferencer) inferFunc(ex *ast.FuncExpr, state *types.TypeState) (*TypeResult, error) {
	callerEnv := state.Env
	scope := newTypeVarScope()
	params := make([]types.Type, len(ex.Params))
	env := state.Env
	for i, p := range ex.Params {
		var pt types.Type
		if p.Annotation != nil {
			pt = inf.resolveTypeExpr(p.Annotation, scope)
		} else {
			pt = state.FreshVar()
		}
		params[i] = pt
		env = env.Extend(p.Name, types.Monotype(pt))
	}
	bodyState := state.WithEnv(env)
	result, err := inf.Infer(ex.Body, bodyState)
	if err != nil {
		return nil, err
	}
	state = result.State

	subbedParams := make([]types.Type, len(params))
	for i, p := range params {
		subbedParams[i] = p.Substitute(state.Sub)
	}
	ret := result.Type.Substitute(state.Sub)

	var constraints []types.Constraint
	for _, p := range subbedParams {
		constraints = append(constraints, collectConstraints(p)...)
	}
	constraints = append(constraints, collectConstraints(ret)...)
	constraints = types.DedupeConstraints(constraints)

	fn := &types.Function{Params: subbedParams, Return: ret, Effects: result.Effects, Constraints: constraints}
	// Restore the caller's environment: the function's own params are not
	// visible outside its body (spec §5 "resource scoping").
	return &TypeResult{Type: fn, Effects: types.EffectSet{}, State: state.WithEnv(callerEnv)}, nil
}

// inferApp infers the function, then folds each argument against the
// function's remaining parameters, unifying and attempting constraint
// discharge at each step (spec §4.4 "Application", §4.5). Partial
// application returns a Function of the remaining parameters; full
// application returns the (possibly still-constrained) return type.
func (inf *Inferencer) inferApp(ex *ast.AppExpr, state *types.TypeState) (*TypeResult, error) {
	fnResult, err := inf.Infer(ex.Func, state)
	if err != nil {
		return nil, err
	}
	state = fnResult.State
	fnType := fnResult.Type
	effects := fnResult.Effects

	for _, argExpr := range ex.Args {
		argResult, err := inf.Infer(argExpr, state)
		if err != nil {
			return nil, err
		}
		state = argResult.State
		effects = effects.Union(argResult.Effects)

		var callEffects types.EffectSet
		fnType, callEffects, state, err = inf.applyOneArg(ex.Pos, fnType, argResult.Type, state)
		if err != nil {
			return nil, err
		}
		effects = effects.Union(callEffects)
	}
	return &TypeResult{Type: fnType, Effects: effects, State: state}, nil
}

// applyOneArg applies a single argument to a function type, unifying the
// argument against the first remaining parameter and either returning a
// Function of the remaining parameters (partial application) or the return
// type with constraints discharged where possible (full application). The
// returned effect set is empty on partial application (the callee hasn't
// run yet) and fn's own declared effects on full application, so a call's
// result effects are always a superset of its callee's (spec §8 effect
// monotonicity). Used by inferApp and by the operator family that desugars
// to application (`$`, `|`, `|>`, `<|`; spec §4.4).
func (inf *Inferencer) applyOneArg(pos ast.Pos, fnType, argType types.Type, state *types.TypeState) (types.Type, types.EffectSet, *types.TypeState, error) {
	fn, ok := concreteFunction(fnType, state)
	if !ok {
		return nil, nil, nil, diagnostic.NewTypeMismatch(pos, &types.Function{Params: []types.Type{types.Unknown}, Return: types.Unknown}, fnType.Substitute(state.Sub), nil)
	}
	if len(fn.Params) == 0 {
		return nil, nil, nil, diagnostic.NewArityMismatch(pos, "application", 0, 1)
	}
	param := fn.Params[0]
	state, err := inf.unify(pos, state, param, argType, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	argType = argType.Substitute(state.Sub)

	remaining := fn.Params[1:]
	if len(remaining) == 0 {
		retType, _, err := inf.tryResolveConstraints(pos, fn.Return.Substitute(state.Sub), fn.Constraints, []types.Type{argType})
		if err != nil {
			return nil, nil, nil, err
		}
		return retType, fn.Effects, state, nil
	}
	return &types.Function{Params: remaining, Return: fn.Return, Effects: fn.Effects, Constraints: fn.Constraints}, types.EffectSet{}, state, nil
}

// concreteFunction resolves fnType (applying the current substitution) to a
// *types.Function, unwrapping a Constrained wrapper if present.
func concreteFunction(t types.Type, state *types.TypeState) (*types.Function, bool) {
	t = t.Substitute(state.Sub)
	if c, ok := t.(*types.Constrained); ok {
		t = c.Base
	}
	fn, ok := t.(*types.Function)
	return fn, ok
}
