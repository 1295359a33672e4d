package infer

import (
	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/types"
)

// typeVarScope tracks the types.Variable assigned to each lowercase type
// name seen while resolving one TypeExpr tree, so repeated occurrences of
// the same surface variable (e.g. `a` in `a -> a`) resolve to the same
// types.Variable rather than two unrelated fresh ones.
type typeVarScope map[string]*types.Variable

func newTypeVarScope() typeVarScope { return typeVarScope{} }

func (s typeVarScope) varFor(name string) *types.Variable {
	if v, ok := s[name]; ok {
		return v
	}
	v := types.NewVar(name)
	s[name] = v
	return v
}

// resolveTypeExpr converts the surface syntax of a type annotation into an
// internal/types.Type (spec §6.1 surface grammar; not itself a spec §4
// component, but required to support annotations, constructor field types,
// and trait signatures).
func (inf *Inferencer) resolveTypeExpr(te ast.TypeExpr, scope typeVarScope) types.Type {
	switch t := te.(type) {
	case *ast.TypeName:
		switch t.Name {
		case "Float", "String", "Bool":
			return &types.Primitive{Name: t.Name}
		case "Unit":
			return types.Unit
		}
		if isLowerTypeVar(t.Name) {
			return scope.varFor(t.Name)
		}
		// A bare nominal type name with no args, e.g. `Option` used
		// partially applied in a higher-order position.
		return &types.Variant{Name: t.Name}
	case *ast.TypeApp:
		args := make([]types.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = inf.resolveTypeExpr(a, scope)
		}
		return &types.Variant{Name: t.Name, Args: args}
	case *ast.TypeFunc:
		params := make([]types.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = inf.resolveTypeExpr(p, scope)
		}
		ret := inf.resolveTypeExpr(t.Return, scope)
		effects := types.NewEffectSet(t.Effects...)
		return &types.Function{Params: params, Return: ret, Effects: effects}
	case *ast.TypeList:
		return &types.List{Element: inf.resolveTypeExpr(t.Element, scope)}
	case *ast.TypeTuple:
		elems := make([]types.Type, len(t.Elements))
		for i, e := range t.Elements {
			elems[i] = inf.resolveTypeExpr(e, scope)
		}
		return &types.Tuple{Elements: elems}
	case *ast.TypeRecord:
		fields := make(map[string]types.Type, len(t.Fields))
		for _, f := range t.Fields {
			fields[f.Name] = inf.resolveTypeExpr(f.Type, scope)
		}
		return &types.Record{Fields: fields}
	}
	return types.Unknown
}

func isLowerTypeVar(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return c >= 'a' && c <= 'z'
}

// resolveRowExpr converts `given a has {@f T, @g {nested}}` surface syntax
// into a types.RowStructure (spec §3.2).
func (inf *Inferencer) resolveRowExpr(re *ast.RowExpr, scope typeVarScope) *types.RowStructure {
	row := types.NewRowStructure()
	for _, f := range re.Fields {
		if f.Nested != nil {
			row.Fields[f.Name] = types.RowElement{Nested: inf.resolveRowExpr(f.Nested, scope)}
		} else {
			row.Fields[f.Name] = types.RowElement{Type: inf.resolveTypeExpr(f.Type, scope)}
		}
	}
	return row
}

// resolveGiven converts a `given ...` clause list attached to an annotation
// or implement block into Constraints anchored on the named type variables.
func (inf *Inferencer) resolveGiven(given []ast.GivenConstraint, scope typeVarScope) []types.Constraint {
	var out []types.Constraint
	for _, g := range given {
		if g.Structure != nil {
			out = append(out, &types.HasStructure{TypeVar: g.TypeVar, Structure: inf.resolveRowExpr(g.Structure, scope)})
			continue
		}
		out = append(out, &types.Implements{TypeVar: g.TypeVar, Interface: g.Trait})
	}
	return out
}
