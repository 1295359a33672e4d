package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/traits"
	"github.com/jethrolarson/noolang-sub003/internal/types"
)

func registryWithAddOnString(t *testing.T) *traits.Registry {
	t.Helper()
	reg := traits.NewRegistry()
	reg.AddTraitDefinition(&traits.TraitDefinition{
		Name:      "Add",
		TypeParam: "a",
		Functions: map[string]types.Type{
			"add": &types.Function{Params: []types.Type{types.NewVar("a"), types.NewVar("a")}, Return: types.NewVar("a")},
		},
	})
	_, err := reg.AddTraitImplementation(&traits.TraitImplementation{
		TraitName: "Add",
		TypeName:  "String",
		Functions: map[string]ast.Expr{
			"add": &ast.FuncExpr{
				Params: []ast.FuncParam{{Name: "x"}, {Name: "y"}},
				Body:   &ast.BinaryExpr{Op: "+", Left: &ast.Identifier{Name: "x"}, Right: &ast.Identifier{Name: "y"}},
			},
		},
	})
	require.NoError(t, err)
	return reg
}

// Dispatch fires as soon as the dispatch type is resolvable, which can be
// from the very first argument if its runtime type is concrete (spec §4.7):
// the trait's declared arity only gates deferral when the dispatch type is
// still Unknown.
func TestApplyTraitFunctionDispatchesAsSoonAsTypeIsConcrete(t *testing.T) {
	reg := registryWithAddOnString(t)
	e := New(reg)

	tf := &TraitFunction{Name: "add"}
	partial, err := e.applyTraitFunction(tf, &String{Value: "foo"}, ast.Pos{})
	require.NoError(t, err)
	fn, ok := partial.(*Function)
	require.True(t, ok, "first argument's concrete type dispatches immediately, returning the curried impl awaiting its second argument")

	result, err := e.Apply(fn, &String{Value: "bar"}, ast.Pos{})
	require.NoError(t, err)
	assert.Equal(t, &String{Value: "foobar"}, result)
}

func TestApplyTraitFunctionNoImplementationErrors(t *testing.T) {
	reg := registryWithAddOnString(t)
	e := New(reg)
	tf := &TraitFunction{Name: "add"}
	_, err := e.applyTraitFunction(tf, &Number{Value: 1}, ast.Pos{})
	require.Error(t, err)
}

func TestApplyTraitFunctionAmbiguousErrors(t *testing.T) {
	reg := registryWithAddOnString(t)
	reg.AddTraitDefinition(&traits.TraitDefinition{
		Name:      "Concat",
		TypeParam: "a",
		Functions: map[string]types.Type{
			"add": &types.Function{Params: []types.Type{types.NewVar("a"), types.NewVar("a")}, Return: types.NewVar("a")},
		},
	})
	_, err := reg.AddTraitImplementation(&traits.TraitImplementation{
		TraitName: "Concat",
		TypeName:  "String",
		Functions: map[string]ast.Expr{
			"add": &ast.FuncExpr{
				Params: []ast.FuncParam{{Name: "x"}, {Name: "y"}},
				Body:   &ast.Identifier{Name: "x"},
			},
		},
	})
	require.NoError(t, err)

	e := New(reg)
	tf := &TraitFunction{Name: "add"}
	_, err = e.applyTraitFunction(tf, &String{Value: "a"}, ast.Pos{})
	require.Error(t, err)
}

func TestApplyTraitFunctionDefersWhenDispatchTypeUnknown(t *testing.T) {
	reg := registryWithAddOnString(t)
	e := New(reg)
	tf := &TraitFunction{Name: "add"}
	deferred, err := e.applyTraitFunction(tf, &TraitFunction{Name: "other"}, ast.Pos{})
	require.NoError(t, err)
	partial, ok := deferred.(*TraitFunction)
	require.True(t, ok, "an Unknown-typed argument with arity still unmet must defer rather than dispatch")
	assert.Len(t, partial.PartialArgs, 1)
}

func registryWithNumericOnString(t *testing.T) *traits.Registry {
	t.Helper()
	reg := traits.NewRegistry()
	reg.AddTraitDefinition(&traits.TraitDefinition{
		Name:      "Numeric",
		TypeParam: "a",
		Functions: map[string]types.Type{
			"sub": &types.Function{Params: []types.Type{types.NewVar("a"), types.NewVar("a")}, Return: types.NewVar("a")},
			"mul": &types.Function{Params: []types.Type{types.NewVar("a"), types.NewVar("a")}, Return: types.NewVar("a")},
			"div": &types.Function{Params: []types.Type{types.NewVar("a"), types.NewVar("a")}, Return: types.NewVar("a")},
		},
	})
	_, err := reg.AddTraitImplementation(&traits.TraitImplementation{
		TraitName: "Numeric",
		TypeName:  "String",
		Functions: map[string]ast.Expr{
			"sub": &ast.FuncExpr{
				Params: []ast.FuncParam{{Name: "x"}, {Name: "y"}},
				Body:   &ast.Identifier{Name: "x"},
			},
		},
	})
	require.NoError(t, err)
	return reg
}

// arithFuncName must name the Numeric functions stdlib/stdlib.noo actually
// declares (sub/mul/div), not the made-up subtract/multiply/divide/modulo
// names that nothing implements.
func TestArithFuncNameMatchesStdlibNumericConstraint(t *testing.T) {
	for op, want := range map[string]string{"+": "add", "-": "sub", "*": "mul", "/": "div"} {
		got, ok := arithFuncName(op)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := arithFuncName("%")
	assert.False(t, ok, "%% has no trait counterpart and must stay primitive-only")
}

func TestEvalArithDispatchesNonPrimitiveSubtractToNumericTrait(t *testing.T) {
	reg := registryWithNumericOnString(t)
	e := New(reg)
	env := NewEnvironment()
	env.Set("l", &String{Value: "left"})
	env.Set("r", &String{Value: "right"})

	ex := &ast.BinaryExpr{Op: "-", Left: &ast.Identifier{Name: "l"}, Right: &ast.Identifier{Name: "r"}}
	result, err := e.evalArith(ex, env)
	require.NoError(t, err)
	assert.Equal(t, &String{Value: "left"}, result)
}

func TestEvalArithModuloOnNonPrimitiveErrors(t *testing.T) {
	reg := registryWithNumericOnString(t)
	e := New(reg)
	env := NewEnvironment()
	env.Set("l", &String{Value: "left"})
	env.Set("r", &String{Value: "right"})

	ex := &ast.BinaryExpr{Op: "%", Left: &ast.Identifier{Name: "l"}, Right: &ast.Identifier{Name: "r"}}
	_, err := e.evalArith(ex, env)
	require.Error(t, err)
}

func TestDispatchTypeFromValuesPrefersLastThenFirst(t *testing.T) {
	assert.Equal(t, "Unknown", dispatchTypeFromValues(nil))
	assert.Equal(t, "Float", dispatchTypeFromValues([]Value{&String{Value: "x"}, &Number{Value: 1}}))
	assert.Equal(t, "String", dispatchTypeFromValues([]Value{&String{Value: "x"}, &TraitFunction{}}))
}
