package infer

import (
	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/diagnostic"
	"github.com/jethrolarson/noolang-sub003/internal/types"
)

// inferMatch infers the scrutinee, checks each case's pattern against its
// type while collecting bindings, infers each body, and unifies all bodies
// into one result type (spec §4.4 "Match").
func (inf *Inferencer) inferMatch(ex *ast.MatchExpr, state *types.TypeState) (*TypeResult, error) {
	scrutinee, err := inf.Infer(ex.Scrutinee, state)
	if err != nil {
		return nil, err
	}
	state = scrutinee.State
	scrutType := scrutinee.Type.Substitute(state.Sub)
	effects := scrutinee.Effects

	var resultType types.Type
	for _, c := range ex.Cases {
		caseEnv, caseState, err := inf.inferPattern(c.Pattern, scrutType, state)
		if err != nil {
			return nil, err
		}
		bodyState := caseState.WithEnv(caseEnv)
		body, err := inf.Infer(c.Body, bodyState)
		if err != nil {
			return nil, err
		}
		state = body.State
		effects = effects.Union(body.Effects)
		if resultType == nil {
			resultType = body.Type
			continue
		}
		state, err = inf.unify(c.Body.Position(), state, resultType.Substitute(state.Sub), body.Type, nil)
		if err != nil {
			return nil, err
		}
		resultType = resultType.Substitute(state.Sub)
	}
	if resultType == nil {
		return &TypeResult{Type: types.Unit, Effects: effects, State: state}, nil
	}
	return &TypeResult{Type: resultType.Substitute(state.Sub), Effects: effects, State: state}, nil
}

// inferPattern unifies a single pattern against the scrutinee's type and
// returns the child environment carrying any bound variables, plus the
// (possibly advanced) state (spec §4.4, §4.6 "Pattern matching evaluation").
func (inf *Inferencer) inferPattern(p *ast.Pattern, scrutType types.Type, state *types.TypeState) (*types.TypeEnvironment, *types.TypeState, error) {
	switch p.Kind {
	case ast.PatWildcard:
		return state.Env, state, nil

	case ast.PatVariable:
		return state.Env.Extend(p.Name, types.Monotype(scrutType)), state, nil

	case ast.PatLiteral:
		var litType types.Type
		switch p.Lit.(type) {
		case *ast.StringLit:
			litType = types.String
		default:
			litType = types.Float
		}
		next, err := inf.unify(p.Pos, state, scrutType, litType, nil)
		if err != nil {
			return nil, nil, err
		}
		return next.Env, next, nil

	case ast.PatConstructor:
		return inf.inferConstructorPattern(p, scrutType, state)

	case ast.PatTuple:
		elemVars := make([]types.Type, len(p.Args))
		for i := range p.Args {
			elemVars[i] = state.FreshVar()
		}
		next, err := inf.unify(p.Pos, state, scrutType, &types.Tuple{Elements: elemVars}, nil)
		if err != nil {
			return nil, nil, err
		}
		env := next.Env
		for i, sub := range p.Args {
			var err error
			env, next, err = inf.inferPattern(sub, elemVars[i].Substitute(next.Sub), next.WithEnv(env))
			if err != nil {
				return nil, nil, err
			}
		}
		return env, next, nil

	case ast.PatRecord:
		row := types.NewRowStructure()
		fieldVars := make(map[string]types.Type, len(p.Fields))
		for name := range p.Fields {
			fv := state.FreshVar()
			fieldVars[name] = fv
			row.Fields[name] = types.RowElement{Type: fv}
		}
		if v, ok := scrutType.(*types.Variable); ok {
			v.Constraints = types.DedupeConstraints(append(v.Constraints, &types.HasStructure{TypeVar: v.Name, Structure: row}))
		} else if rec, ok := scrutType.(*types.Record); ok {
			for name := range fieldVars {
				actual, present := rec.Fields[name]
				if !present {
					return nil, nil, diagnostic.NewRowMissingField(p.Pos, rec, name)
				}
				fieldVars[name] = actual
			}
		}
		env := state.Env
		next := state
		for name, sub := range p.Fields {
			var err error
			env, next, err = inf.inferPattern(sub, fieldVars[name].Substitute(next.Sub), next.WithEnv(env))
			if err != nil {
				return nil, nil, err
			}
		}
		return env, next, nil
	}
	return state.Env, state, nil
}

// inferConstructorPattern types a `Ctor(args...)` pattern by consulting the
// ADT registry for the constructor's declared field types, instantiating
// its type parameters fresh, and unifying the scrutinee against the owning
// variant (spec §4.4: "constructors and literals are supported").
func (inf *Inferencer) inferConstructorPattern(p *ast.Pattern, scrutType types.Type, state *types.TypeState) (*types.TypeEnvironment, *types.TypeState, error) {
	adt, ok := state.ADTs.Ctors[p.Name]
	if !ok {
		// Unregistered constructor (e.g. stdlib Option/Result built outside a
		// user `type` declaration): fall back to binding sub-patterns against
		// fresh variables with no structural check.
		env := state.Env
		next := state
		for _, sub := range p.Args {
			var err error
			env, next, err = inf.inferPattern(sub, state.FreshVar(), next.WithEnv(env))
			if err != nil {
				return nil, nil, err
			}
		}
		return env, next, nil
	}
	ctor := adt.Ctors[p.Name]
	if len(ctor.Fields) != len(p.Args) {
		return nil, nil, diagnostic.NewArityMismatch(p.Pos, "pattern "+p.Name, len(ctor.Fields), len(p.Args))
	}

	fresh := make(types.Substitution, len(adt.TypeParams))
	for _, tp := range adt.TypeParams {
		fresh[tp] = state.FreshVar()
	}
	variantArgs := make([]types.Type, len(adt.TypeParams))
	for i, tp := range adt.TypeParams {
		variantArgs[i] = fresh[tp]
	}
	next, err := inf.unify(p.Pos, state, scrutType, &types.Variant{Name: adt.Name, Args: variantArgs}, nil)
	if err != nil {
		return nil, nil, err
	}

	env := next.Env
	for i, sub := range p.Args {
		fieldType := ctor.Fields[i].Substitute(fresh).Substitute(next.Sub)
		var err error
		env, next, err = inf.inferPattern(sub, fieldType, next.WithEnv(env))
		if err != nil {
			return nil, nil, err
		}
	}
	return env, next, nil
}
