package traits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/types"
)

func addTrait() *TraitDefinition {
	return &TraitDefinition{
		Name:      "Add",
		TypeParam: "a",
		Functions: map[string]types.Type{
			"add": &types.Function{Params: []types.Type{types.NewVar("a"), types.NewVar("a")}, Return: types.NewVar("a")},
		},
	}
}

func TestAddTraitImplementationRejectsUnknownTrait(t *testing.T) {
	r := NewRegistry()
	_, err := r.AddTraitImplementation(&TraitImplementation{TraitName: "Add", TypeName: "Float"})
	require.Error(t, err)
}

func TestAddTraitImplementationRejectsUndeclaredFunction(t *testing.T) {
	r := NewRegistry()
	r.AddTraitDefinition(addTrait())
	_, err := r.AddTraitImplementation(&TraitImplementation{
		TraitName: "Add",
		TypeName:  "Float",
		Functions: map[string]ast.Expr{
			"sub": &ast.FuncExpr{Params: []ast.FuncParam{{Name: "x"}, {Name: "y"}}},
		},
	})
	require.Error(t, err)
}

func TestAddTraitImplementationRejectsArityMismatch(t *testing.T) {
	r := NewRegistry()
	r.AddTraitDefinition(addTrait())
	_, err := r.AddTraitImplementation(&TraitImplementation{
		TraitName: "Add",
		TypeName:  "Float",
		Functions: map[string]ast.Expr{
			"add": &ast.FuncExpr{Params: []ast.FuncParam{{Name: "x"}}},
		},
	})
	require.Error(t, err)
}

func TestAddTraitImplementationAcceptsMatchingArity(t *testing.T) {
	r := NewRegistry()
	r.AddTraitDefinition(addTrait())
	ok, err := r.AddTraitImplementation(&TraitImplementation{
		TraitName: "Add",
		TypeName:  "Float",
		Functions: map[string]ast.Expr{
			"add": &ast.FuncExpr{Params: []ast.FuncParam{{Name: "x"}, {Name: "y"}}},
		},
	})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAddTraitImplementationAcceptsBareVariableReference(t *testing.T) {
	r := NewRegistry()
	r.AddTraitDefinition(addTrait())
	_, err := r.AddTraitImplementation(&TraitImplementation{
		TraitName: "Add",
		TypeName:  "Float",
		Functions: map[string]ast.Expr{
			"add": &ast.Identifier{Name: "someOtherAdd"},
		},
	})
	require.NoError(t, err, "bare variable references skip the arity check")
}

func TestIsTraitFunctionAndTraitsDefining(t *testing.T) {
	r := NewRegistry()
	r.AddTraitDefinition(addTrait())
	assert.True(t, r.IsTraitFunction("add"))
	assert.False(t, r.IsTraitFunction("sub"))
	assert.Equal(t, []string{"Add"}, r.TraitsDefining("add"))
}

func TestResolveTraitFunctionFindsRegisteredImpl(t *testing.T) {
	r := NewRegistry()
	r.AddTraitDefinition(addTrait())
	impl := &TraitImplementation{
		TraitName: "Add",
		TypeName:  "Float",
		Functions: map[string]ast.Expr{
			"add": &ast.FuncExpr{Params: []ast.FuncParam{{Name: "x"}, {Name: "y"}}},
		},
	}
	_, err := r.AddTraitImplementation(impl)
	require.NoError(t, err)

	result, err := r.ResolveTraitFunction("add", "Float")
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, "Add", result.TraitName)
}

func TestResolveTraitFunctionNotFoundIsNotAnError(t *testing.T) {
	r := NewRegistry()
	r.AddTraitDefinition(addTrait())
	result, err := r.ResolveTraitFunction("add", "String")
	require.NoError(t, err)
	assert.False(t, result.Found)
}

func TestResolveTraitFunctionAmbiguous(t *testing.T) {
	r := NewRegistry()
	r.AddTraitDefinition(addTrait())
	r.AddTraitDefinition(&TraitDefinition{
		Name:      "Concat",
		TypeParam: "a",
		Functions: map[string]types.Type{
			"add": &types.Function{Params: []types.Type{types.NewVar("a"), types.NewVar("a")}, Return: types.NewVar("a")},
		},
	})
	_, _ = r.AddTraitImplementation(&TraitImplementation{
		TraitName: "Add", TypeName: "String",
		Functions: map[string]ast.Expr{"add": &ast.Identifier{Name: "f"}},
	})
	_, _ = r.AddTraitImplementation(&TraitImplementation{
		TraitName: "Concat", TypeName: "String",
		Functions: map[string]ast.Expr{"add": &ast.Identifier{Name: "g"}},
	})

	_, err := r.ResolveTraitFunction("add", "String")
	require.Error(t, err)
	var ambiguous *AmbiguousImplementationError
	require.ErrorAs(t, err, &ambiguous)
	assert.ElementsMatch(t, []string{"Add", "Concat"}, ambiguous.Traits)
}

func TestAvailableTypesSortedAndEmptyForUnknownTrait(t *testing.T) {
	r := NewRegistry()
	r.AddTraitDefinition(addTrait())
	_, _ = r.AddTraitImplementation(&TraitImplementation{
		TraitName: "Add", TypeName: "String",
		Functions: map[string]ast.Expr{"add": &ast.Identifier{Name: "f"}},
	})
	_, _ = r.AddTraitImplementation(&TraitImplementation{
		TraitName: "Add", TypeName: "Float",
		Functions: map[string]ast.Expr{"add": &ast.Identifier{Name: "g"}},
	})

	assert.Equal(t, []string{"Float", "String"}, r.AvailableTypes("Add"))
	assert.Nil(t, r.AvailableTypes("Nope"))
}

func TestDispatchTypeName(t *testing.T) {
	cases := []struct {
		name string
		in   types.Type
		want string
	}{
		{"primitive", types.Float, "Float"},
		{"list", &types.List{Element: types.Float}, "List"},
		{"tuple", &types.Tuple{Elements: []types.Type{types.Float}}, "Tuple"},
		{"record", &types.Record{Fields: map[string]types.Type{}}, "Record"},
		{"variant", &types.Variant{Name: "Option", Args: []types.Type{types.Float}}, "Option"},
		{"unit", types.Unit, "Unit"},
		{"constrained unwraps", &types.Constrained{Base: types.Float}, "Float"},
		{"variable is unknown", types.NewVar("a"), "Unknown"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, DispatchTypeName(c.in))
		})
	}
}

func TestDispatchTypeFromArgsPrefersLastThenFirst(t *testing.T) {
	assert.Equal(t, "Unknown", DispatchTypeFromArgs(nil))
	assert.Equal(t, "Float", DispatchTypeFromArgs([]types.Type{types.String, types.Float}))
	assert.Equal(t, "String", DispatchTypeFromArgs([]types.Type{types.String, types.NewVar("a")}))
	assert.Equal(t, "Unknown", DispatchTypeFromArgs([]types.Type{types.NewVar("a"), types.NewVar("b")}))
}
