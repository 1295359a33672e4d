package infer

import (
	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/diagnostic"
	"github.com/jethrolarson/noolang-sub003/internal/types"
)

// inferIdentifier looks up a scheme and instantiates it. If the name is
// unbound but is a trait function, its type is synthesized from the trait
// signature, freshening the trait's type parameter and attaching an
// `implements` constraint (spec §4.4 "Variable").
func (inf *Inferencer) inferIdentifier(ex *ast.Identifier, state *types.TypeState) (*TypeResult, error) {
	if scheme, ok := state.Env.Lookup(ex.Name); ok {
		t := types.Instantiate(scheme, state)
		return &TypeResult{Type: t, Effects: scheme.Effects, State: state}, nil
	}
	if traitName, sig, ok := inf.traitFunctionSignature(ex.Name); ok {
		fresh := state.FreshVar()
		def := inf.Traits.Definitions[traitName]
		sub := types.Substitution{def.TypeParam: fresh}
		instantiated := sig.Substitute(sub)
		fresh.Constraints = types.DedupeConstraints(append(fresh.Constraints, &types.Implements{TypeVar: fresh.Name, Interface: traitName}))
		return &TypeResult{Type: instantiated, Effects: types.EffectSet{}, State: state}, nil
	}
	return nil, diagnostic.NewUndefinedVariable(ex.Pos, ex.Name, state.Env.Names())
}

// traitFunctionSignature finds the first trait defining name and returns its
// declared signature type, used to synthesize an identifier's type when it
// has no environment binding of its own (trait functions are called by bare
// name, not bound in the environment).
func (inf *Inferencer) traitFunctionSignature(name string) (string, types.Type, bool) {
	for _, traitName := range inf.Traits.TraitsDefining(name) {
		def := inf.Traits.Definitions[traitName]
		if sig, ok := def.Functions[name]; ok {
			return traitName, sig, true
		}
	}
	return "", nil, false
}

// inferAccessor types `@field` as `forall a b. a has {@field: b} => a -> b`
// (spec §4.4); the optional form `@field?` wraps the result in `Option b`.
func (inf *Inferencer) inferAccessor(ex *ast.Accessor, state *types.TypeState) (*TypeResult, error) {
	input := state.FreshVar()
	field := state.FreshVar()
	row := types.NewRowStructure()
	row.Fields[ex.Field] = types.RowElement{Type: field}
	input.Constraints = types.DedupeConstraints(append(input.Constraints,
		&types.HasStructure{TypeVar: input.Name, Structure: row}))

	ret := types.Type(field)
	if ex.Optional {
		ret = &types.Variant{Name: "Option", Args: []types.Type{field}}
	}
	fn := &types.Function{Params: []types.Type{input}, Return: ret, Effects: types.EffectSet{}}
	return &TypeResult{Type: fn, Effects: types.EffectSet{}, State: state}, nil
}

func (inf *Inferencer) inferList(ex *ast.ListLit, state *types.TypeState) (*TypeResult, error) {
	elem := types.Type(state.FreshVar())
	effects := types.EffectSet{}
	for _, el := range ex.Elements {
		r, err := inf.Infer(el, state)
		if err != nil {
			return nil, err
		}
		state = r.State
		effects = effects.Union(r.Effects)
		next, err := inf.unify(el.Position(), state, elem, r.Type, nil)
		if err != nil {
			return nil, err
		}
		state = next
		elem = elem.Substitute(state.Sub)
	}
	return &TypeResult{Type: &types.List{Element: elem.Substitute(state.Sub)}, Effects: effects, State: state}, nil
}

func (inf *Inferencer) inferTuple(ex *ast.TupleLit, state *types.TypeState) (*TypeResult, error) {
	elems := make([]types.Type, len(ex.Elements))
	effects := types.EffectSet{}
	for i, el := range ex.Elements {
		r, err := inf.Infer(el, state)
		if err != nil {
			return nil, err
		}
		state = r.State
		effects = effects.Union(r.Effects)
		elems[i] = r.Type
	}
	for i := range elems {
		elems[i] = elems[i].Substitute(state.Sub)
	}
	return &TypeResult{Type: &types.Tuple{Elements: elems}, Effects: effects, State: state}, nil
}

func (inf *Inferencer) inferRecord(ex *ast.RecordLit, state *types.TypeState) (*TypeResult, error) {
	fields := make(map[string]types.Type, len(ex.Fields))
	effects := types.EffectSet{}
	for _, f := range ex.Fields {
		r, err := inf.Infer(f.Value, state)
		if err != nil {
			return nil, err
		}
		state = r.State
		effects = effects.Union(r.Effects)
		fields[f.Name] = r.Type
	}
	for k, v := range fields {
		fields[k] = v.Substitute(state.Sub)
	}
	return &TypeResult{Type: &types.Record{Fields: fields}, Effects: effects, State: state}, nil
}
