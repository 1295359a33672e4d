package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/traits"
)

func newEvaluator() *Evaluator {
	return New(traits.NewRegistry())
}

func TestEvalProgramReturnsFinalStatementValue(t *testing.T) {
	e := newEvaluator()
	prog := &ast.Program{Statements: []ast.Expr{
		&ast.NumberLit{Value: 1},
		&ast.NumberLit{Value: 2},
	}}
	v, err := e.EvalProgram(prog, e.Global)
	require.NoError(t, err)
	assert.Equal(t, &Number{Value: 2}, v)
}

func TestEvalProgramEmptyIsUnit(t *testing.T) {
	e := newEvaluator()
	v, err := e.EvalProgram(&ast.Program{}, e.Global)
	require.NoError(t, err)
	assert.Same(t, TheUnit, v)
}

func TestEvalIdentifierUndefinedVariable(t *testing.T) {
	e := newEvaluator()
	_, err := e.Eval(&ast.Identifier{Name: "nope"}, e.Global)
	require.Error(t, err)
}

func TestEvalIfBranchesOnTruthiness(t *testing.T) {
	e := newEvaluator()
	ifExpr := &ast.IfExpr{
		Cond: &ast.BoolLit{Value: true},
		Then: &ast.NumberLit{Value: 1},
		Else: &ast.NumberLit{Value: 2},
	}
	v, err := e.Eval(ifExpr, e.Global)
	require.NoError(t, err)
	assert.Equal(t, &Number{Value: 1}, v)
}

func TestEvalDefineThenLookup(t *testing.T) {
	e := newEvaluator()
	env := e.Global
	_, err := e.Eval(&ast.DefineExpr{Name: "x", Value: &ast.NumberLit{Value: 42}}, env)
	require.NoError(t, err)

	v, err := e.Eval(&ast.Identifier{Name: "x"}, env)
	require.NoError(t, err)
	assert.Equal(t, &Number{Value: 42}, v)
}

func TestEvalMutateRequiresExistingCell(t *testing.T) {
	e := newEvaluator()
	_, err := e.Eval(&ast.MutateExpr{Name: "x", Value: &ast.NumberLit{Value: 1}}, e.Global)
	require.Error(t, err)
}

func TestEvalMutateUpdatesBoundCell(t *testing.T) {
	e := newEvaluator()
	env := e.Global
	_, err := e.Eval(&ast.DefineExpr{Name: "x", Mutable: true, Value: &ast.NumberLit{Value: 1}}, env)
	require.NoError(t, err)
	_, err = e.Eval(&ast.MutateExpr{Name: "x", Value: &ast.NumberLit{Value: 2}}, env)
	require.NoError(t, err)

	v, err := e.Eval(&ast.Identifier{Name: "x"}, env)
	require.NoError(t, err)
	assert.Equal(t, &Number{Value: 2}, v)
}

func TestEvalWhereDefsAreScopedToBody(t *testing.T) {
	e := newEvaluator()
	env := e.Global
	where := &ast.WhereExpr{
		Body: &ast.Identifier{Name: "x"},
		Defs: []ast.Expr{&ast.DefineExpr{Name: "x", Value: &ast.NumberLit{Value: 7}}},
	}
	v, err := e.Eval(where, env)
	require.NoError(t, err)
	assert.Equal(t, &Number{Value: 7}, v)

	_, err = e.Eval(&ast.Identifier{Name: "x"}, env)
	require.Error(t, err, "where-scoped defs must not leak into the enclosing environment")
}

func TestEvalFuncCurriesMultipleParams(t *testing.T) {
	e := newEvaluator()
	fn := &ast.FuncExpr{
		Params: []ast.FuncParam{{Name: "x"}, {Name: "y"}},
		Body:   &ast.BinaryExpr{Op: "+", Left: &ast.Identifier{Name: "x"}, Right: &ast.Identifier{Name: "y"}},
	}
	v := e.evalFunc(fn, e.Global)
	result, err := e.Apply(v, &Number{Value: 1}, ast.Pos{})
	require.NoError(t, err)
	result, err = e.Apply(result, &Number{Value: 2}, ast.Pos{})
	require.NoError(t, err)
	assert.Equal(t, &Number{Value: 3}, result)
}

func TestEvalAccessorReturnsFieldValue(t *testing.T) {
	e := newEvaluator()
	accessor := e.evalAccessor(&ast.Accessor{Field: "name"})
	rec := &Record{Fields: map[string]Value{"name": &String{Value: "ok"}}}
	v, err := e.Apply(accessor, rec, ast.Pos{})
	require.NoError(t, err)
	assert.Equal(t, &String{Value: "ok"}, v)
}

func TestEvalAccessorMissingFieldErrorsWhenNotOptional(t *testing.T) {
	e := newEvaluator()
	accessor := e.evalAccessor(&ast.Accessor{Field: "missing"})
	rec := &Record{Fields: map[string]Value{}}
	_, err := e.Apply(accessor, rec, ast.Pos{})
	require.Error(t, err)
}

func TestEvalAccessorOptionalReturnsNoneWhenMissing(t *testing.T) {
	e := newEvaluator()
	accessor := e.evalAccessor(&ast.Accessor{Field: "missing", Optional: true})
	rec := &Record{Fields: map[string]Value{}}
	v, err := e.Apply(accessor, rec, ast.Pos{})
	require.NoError(t, err)
	c, ok := v.(*Constructor)
	require.True(t, ok)
	assert.Equal(t, "None", c.Name)
}

func TestApplyConstructorAccumulatesArgs(t *testing.T) {
	e := newEvaluator()
	partial := &Constructor{TypeName_: "Pair", Name: "Pair", Args: []Value{&Number{Value: 1}}}
	v, err := e.Apply(partial, &Number{Value: 2}, ast.Pos{})
	require.NoError(t, err)
	c := v.(*Constructor)
	assert.Len(t, c.Args, 2)
}

func TestApplyNonFunctionIsRuntimeError(t *testing.T) {
	e := newEvaluator()
	_, err := e.Apply(&Number{Value: 1}, &Number{Value: 2}, ast.Pos{})
	require.Error(t, err)
}
