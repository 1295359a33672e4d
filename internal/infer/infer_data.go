package infer

import (
	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/diagnostic"
	"github.com/jethrolarson/noolang-sub003/internal/traits"
	"github.com/jethrolarson/noolang-sub003/internal/types"
)

// inferIf types `if cond then a else b` (spec §4.4 "If"): the condition
// must unify with Bool; the two branches must unify with each other;
// effects are the union of all three.
func (inf *Inferencer) inferIf(ex *ast.IfExpr, state *types.TypeState) (*TypeResult, error) {
	cond, err := inf.Infer(ex.Cond, state)
	if err != nil {
		return nil, err
	}
	state, err = inf.unify(ex.Cond.Position(), cond.State, cond.Type, types.Bool, nil)
	if err != nil {
		return nil, err
	}
	thenR, err := inf.Infer(ex.Then, state)
	if err != nil {
		return nil, err
	}
	elseR, err := inf.Infer(ex.Else, thenR.State)
	if err != nil {
		return nil, err
	}
	state, err = inf.unify(ex.Pos, elseR.State, thenR.Type.Substitute(elseR.State.Sub), elseR.Type, nil)
	if err != nil {
		return nil, err
	}
	effects := cond.Effects.Union(thenR.Effects).Union(elseR.Effects)
	return &TypeResult{Type: thenR.Type.Substitute(state.Sub), Effects: effects, State: state}, nil
}

// inferDefine types `name = value` (spec §4.4 "Definition"): a fix-point
// binding (`name: freshVar` introduced before the body is inferred, so
// self/mutually-recursive references type-check) followed by value
// restriction — only syntactic values are generalized; `mut` bindings and
// applications stay monomorphic.
func (inf *Inferencer) inferDefine(ex *ast.DefineExpr, state *types.TypeState) (*TypeResult, error) {
	outerEnv := state.Env
	fresh := state.FreshVar()
	recEnv := state.Env.Extend(ex.Name, types.Monotype(fresh))
	bodyState := state.WithEnv(recEnv)

	result, err := inf.Infer(ex.Value, bodyState)
	if err != nil {
		return nil, err
	}
	state, err = inf.unify(ex.Pos, result.State, fresh, result.Type, nil)
	if err != nil {
		return nil, err
	}
	valueType := result.Type.Substitute(state.Sub)

	if ex.Annotation != nil {
		scope := newTypeVarScope()
		declared := inf.resolveTypeExpr(ex.Annotation.Type, scope)
		state, err = inf.unify(ex.Pos, state, valueType, declared, nil)
		if err != nil {
			return nil, err
		}
		valueType = declared.Substitute(state.Sub)
	}

	var scheme *types.TypeScheme
	if !ex.Mutable && isSyntacticValue(ex.Value) {
		// Generalize against the environment outside this definition: the
		// fix-point placeholder for ex.Name is bound to valueType itself and
		// would otherwise keep every variable of valueType from quantifying.
		scheme = types.Generalize(valueType, outerEnv, state.Sub)
	} else {
		scheme = types.Monotype(valueType)
	}
	scheme.Effects = result.Effects
	env := state.Env.Extend(ex.Name, scheme)
	return &TypeResult{Type: types.Unit, Effects: result.Effects, State: state.WithEnv(env)}, nil
}

// isSyntacticValue implements the value restriction's node-kind test (spec
// §4.3): literals, functions, constructors without application, and
// records of values generalize; everything else (applications in
// particular) stays monomorphic.
func isSyntacticValue(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.NumberLit, *ast.StringLit, *ast.BoolLit, *ast.FuncExpr, *ast.Identifier, *ast.Accessor:
		return true
	case *ast.ListLit:
		for _, el := range v.Elements {
			if !isSyntacticValue(el) {
				return false
			}
		}
		return true
	case *ast.TupleLit:
		for _, el := range v.Elements {
			if !isSyntacticValue(el) {
				return false
			}
		}
		return true
	case *ast.RecordLit:
		for _, f := range v.Fields {
			if !isSyntacticValue(f.Value) {
				return false
			}
		}
		return true
	case *ast.AnnotatedExpr:
		// `(fn x => x) : a -> a given ...` is still syntactically a function;
		// the annotation doesn't change whether the underlying expression
		// generalizes.
		return isSyntacticValue(v.Expr)
	}
	return false
}

// inferMutate types `mut! name = value` (spec §4.4 "Mutation"): the new
// value must unify with the binding's stored (monomorphic) type, and the
// expression carries the `state` effect.
func (inf *Inferencer) inferMutate(ex *ast.MutateExpr, state *types.TypeState) (*TypeResult, error) {
	scheme, ok := state.Env.Lookup(ex.Name)
	if !ok {
		return nil, diagnostic.NewUndefinedVariable(ex.Pos, ex.Name, state.Env.Names())
	}
	existing := types.Instantiate(scheme, state)
	result, err := inf.Infer(ex.Value, state)
	if err != nil {
		return nil, err
	}
	newState, err := inf.unify(ex.Pos, result.State, existing, result.Type, nil)
	if err != nil {
		return nil, err
	}
	effects := result.Effects.Union(types.NewEffectSet("state"))
	return &TypeResult{Type: types.Unit, Effects: effects, State: newState}, nil
}

// inferWhere types `body where (defs)` (SPEC_FULL.md §3: sugar over a
// child scope): each definition extends a fresh child environment in turn,
// then body is inferred against the accumulated scope. The outer state's
// environment is restored on return (spec §5 resource scoping).
func (inf *Inferencer) inferWhere(ex *ast.WhereExpr, state *types.TypeState) (*TypeResult, error) {
	outerEnv := state.Env
	scopeState := state
	effects := types.EffectSet{}
	for _, def := range ex.Defs {
		r, err := inf.Infer(def, scopeState)
		if err != nil {
			return nil, err
		}
		scopeState = r.State
		effects = effects.Union(r.Effects)
	}
	bodyResult, err := inf.Infer(ex.Body, scopeState)
	if err != nil {
		return nil, err
	}
	return &TypeResult{
		Type:    bodyResult.Type,
		Effects: effects.Union(bodyResult.Effects),
		State:   bodyResult.State.WithEnv(outerEnv),
	}, nil
}

// inferTypeDecl registers curried constructor functions in the environment
// and the ADT registry (spec §4.4 "Type / Variant definition").
func (inf *Inferencer) inferTypeDecl(ex *ast.TypeDeclExpr, state *types.TypeState) (*TypeResult, error) {
	scope := newTypeVarScope()
	params := make([]types.Type, len(ex.TypeParams))
	for i, p := range ex.TypeParams {
		params[i] = scope.varFor(p)
	}
	result := &types.Variant{Name: ex.Name, Args: params}

	def := &types.ADTDefinition{Name: ex.Name, TypeParams: ex.TypeParams, Ctors: map[string]*types.CtorInfo{}}
	env := state.Env
	for _, ctor := range ex.Ctors {
		fields := make([]types.Type, len(ctor.Fields))
		for i, f := range ctor.Fields {
			fields[i] = inf.resolveTypeExpr(f, scope)
		}
		def.Ctors[ctor.Name] = &types.CtorInfo{Name: ctor.Name, Fields: fields, Owner: ex.Name}

		var ctorType types.Type = result
		if len(fields) > 0 {
			ctorType = &types.Function{Params: fields, Return: result, Effects: types.EffectSet{}}
		}
		env = env.Extend(ctor.Name, types.Generalize(ctorType, env, state.Sub))
	}
	state.ADTs.Register(def)
	return &TypeResult{Type: types.Unit, Effects: types.EffectSet{}, State: state.WithEnv(env)}, nil
}

// inferConstraintDecl registers a trait definition (spec §4.4 "Constraint
// definition").
func (inf *Inferencer) inferConstraintDecl(ex *ast.ConstraintDeclExpr, state *types.TypeState) (*TypeResult, error) {
	scope := newTypeVarScope()
	scope.varFor(ex.TypeParam)
	functions := make(map[string]types.Type, len(ex.Functions))
	for _, sig := range ex.Functions {
		functions[sig.Name] = inf.resolveTypeExpr(sig.Sig, scope)
	}
	inf.Traits.AddTraitDefinition(&traits.TraitDefinition{Name: ex.Name, TypeParam: ex.TypeParam, Functions: functions})
	return &TypeResult{Type: types.Unit, Effects: types.EffectSet{}, State: state}, nil
}

// inferImplementDecl registers a trait implementation and type-checks each
// provided function body against the trait's signature with the type
// parameter substituted for the implementing type (spec §4.4 "Implement
// definition").
func (inf *Inferencer) inferImplementDecl(ex *ast.ImplementDeclExpr, state *types.TypeState) (*TypeResult, error) {
	def, ok := inf.Traits.Definitions[ex.TraitName]
	if !ok {
		return nil, diagnostic.NewRuntimeError(ex.Pos, "unknown trait "+ex.TraitName)
	}
	implType := implementingType(ex.TypeName)

	funcs := make(map[string]ast.Expr, len(ex.Functions))
	for _, f := range ex.Functions {
		funcs[f.Name] = f.Body
	}
	if _, err := inf.Traits.AddTraitImplementation(&traits.TraitImplementation{
		TraitName: ex.TraitName, TypeName: ex.TypeName, Functions: funcs, GivenConstraints: ex.Given,
	}); err != nil {
		return nil, err
	}

	scope := newTypeVarScope()
	given := inf.resolveGiven(ex.Given, scope)
	for _, f := range ex.Functions {
		sig, ok := def.Functions[f.Name]
		if !ok {
			continue
		}
		expected := sig.Substitute(types.Substitution{def.TypeParam: implType})
		result, err := inf.Infer(f.Body, state)
		if err != nil {
			return nil, err
		}
		state, err = inf.unify(ex.Pos, result.State, result.Type, expected, nil)
		if err != nil {
			return nil, err
		}
	}
	_ = given // given constraints are stored on the impl record only; neither the resolver nor runtime dispatch reads them
	return &TypeResult{Type: types.Unit, Effects: types.EffectSet{}, State: state}, nil
}

// implementingType maps a trait impl's TypeName to the concrete types.Type
// used to instantiate the trait's signature for type-checking (spec §4.2
// dispatch-type naming, inverted).
func implementingType(name string) types.Type {
	switch name {
	case "Float", "String", "Bool":
		return &types.Primitive{Name: name}
	case "Unit":
		return types.Unit
	}
	return &types.Variant{Name: name}
}

// inferAnnotated types `e : T` / `e : T given ...` (spec §6.1): the
// expression's inferred type must unify with the resolved annotation, and
// any `given` clauses attach as constraints.
func (inf *Inferencer) inferAnnotated(ex *ast.AnnotatedExpr, state *types.TypeState) (*TypeResult, error) {
	result, err := inf.Infer(ex.Expr, state)
	if err != nil {
		return nil, err
	}
	scope := newTypeVarScope()
	declared := inf.resolveTypeExpr(ex.Annotation.Type, scope)
	state, err = inf.unify(ex.Pos, result.State, result.Type, declared, nil)
	if err != nil {
		return nil, err
	}
	given := inf.resolveGiven(ex.Annotation.Given, scope)
	if len(given) == 0 {
		return &TypeResult{Type: declared.Substitute(state.Sub), Effects: result.Effects, State: state}, nil
	}
	return &TypeResult{
		Type:    &types.Constrained{Base: declared.Substitute(state.Sub), Constraints: groupByVar(given)},
		Effects: result.Effects,
		State:   state,
	}, nil
}
