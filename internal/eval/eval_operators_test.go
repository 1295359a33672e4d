package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jethrolarson/noolang-sub003/internal/ast"
)

func binOp(op string, l, r ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{Op: op, Left: l, Right: r}
}

func num(v float64) *ast.NumberLit { return &ast.NumberLit{Value: v} }

func TestEvalArithAddition(t *testing.T) {
	e := newEvaluator()
	v, err := e.Eval(binOp("+", num(1), num(2)), e.Global)
	require.NoError(t, err)
	assert.Equal(t, &Number{Value: 3}, v)
}

func TestEvalArithStringConcatenation(t *testing.T) {
	e := newEvaluator()
	v, err := e.Eval(binOp("+", &ast.StringLit{Value: "foo"}, &ast.StringLit{Value: "bar"}), e.Global)
	require.NoError(t, err)
	assert.Equal(t, &String{Value: "foobar"}, v)
}

func TestEvalArithDivisionByZeroReturnsNone(t *testing.T) {
	e := newEvaluator()
	v, err := e.Eval(binOp("/", num(1), num(0)), e.Global)
	require.NoError(t, err)
	c, ok := v.(*Constructor)
	require.True(t, ok)
	assert.Equal(t, "None", c.Name)
}

func TestEvalArithDivisionWrapsInSome(t *testing.T) {
	e := newEvaluator()
	v, err := e.Eval(binOp("/", num(6), num(2)), e.Global)
	require.NoError(t, err)
	c, ok := v.(*Constructor)
	require.True(t, ok)
	assert.Equal(t, "Some", c.Name)
	assert.Equal(t, &Number{Value: 3}, c.Args[0])
}

func TestEvalArithModuloByZeroErrors(t *testing.T) {
	e := newEvaluator()
	_, err := e.Eval(binOp("%", num(5), num(0)), e.Global)
	require.Error(t, err)
}

func TestEvalEqualityStructural(t *testing.T) {
	e := newEvaluator()
	v, err := e.Eval(binOp("==", num(1), num(1)), e.Global)
	require.NoError(t, err)
	assert.True(t, IsTruthy(v))

	v, err = e.Eval(binOp("!=", num(1), num(2)), e.Global)
	require.NoError(t, err)
	assert.True(t, IsTruthy(v))
}

func TestEvalEqualityOnRecordsIsStructural(t *testing.T) {
	a := &ast.RecordLit{Fields: []ast.RecordField{{Name: "x", Value: num(1)}}}
	b := &ast.RecordLit{Fields: []ast.RecordField{{Name: "x", Value: num(1)}}}
	e := newEvaluator()
	v, err := e.Eval(binOp("==", a, b), e.Global)
	require.NoError(t, err)
	assert.True(t, IsTruthy(v))
}

func TestEvalCompareNumbers(t *testing.T) {
	e := newEvaluator()
	v, err := e.Eval(binOp("<", num(1), num(2)), e.Global)
	require.NoError(t, err)
	assert.True(t, IsTruthy(v))
}

func TestEvalCompareStrings(t *testing.T) {
	e := newEvaluator()
	v, err := e.Eval(binOp("<", &ast.StringLit{Value: "a"}, &ast.StringLit{Value: "b"}), e.Global)
	require.NoError(t, err)
	assert.True(t, IsTruthy(v))
}

func TestEvalCompareMismatchedTypesErrors(t *testing.T) {
	e := newEvaluator()
	_, err := e.Eval(binOp("<", num(1), &ast.StringLit{Value: "a"}), e.Global)
	require.Error(t, err)
}

func TestEvalSafeBindAppliesFunctionToSomePayload(t *testing.T) {
	e := newEvaluator()
	env := e.Global
	env.Set("opt", &Constructor{TypeName_: "Option", Name: "Some", Args: []Value{&Number{Value: 1}}})
	fn := &ast.FuncExpr{Params: []ast.FuncParam{{Name: "x"}}, Body: &ast.BinaryExpr{Op: "+", Left: &ast.Identifier{Name: "x"}, Right: num(1)}}

	bind := binOp("|?", &ast.Identifier{Name: "opt"}, fn)
	v, err := e.Eval(bind, env)
	require.NoError(t, err)
	c, ok := v.(*Constructor)
	require.True(t, ok)
	assert.Equal(t, "Some", c.Name)
	assert.Equal(t, &Number{Value: 2}, c.Args[0])
}

func TestEvalSafeBindShortCircuitsNone(t *testing.T) {
	e := newEvaluator()
	env := e.Global
	env.Set("opt", &Constructor{TypeName_: "Option", Name: "None"})
	fn := &ast.FuncExpr{Params: []ast.FuncParam{{Name: "x"}}, Body: &ast.Identifier{Name: "x"}}

	bind := binOp("|?", &ast.Identifier{Name: "opt"}, fn)
	v, err := e.Eval(bind, env)
	require.NoError(t, err)
	c, ok := v.(*Constructor)
	require.True(t, ok)
	assert.Equal(t, "None", c.Name)
}

func TestEvalThrushAppliesFunctionToValue(t *testing.T) {
	e := newEvaluator()
	fn := &ast.FuncExpr{Params: []ast.FuncParam{{Name: "x"}}, Body: &ast.BinaryExpr{Op: "+", Left: &ast.Identifier{Name: "x"}, Right: num(1)}}
	v, err := e.Eval(binOp("|", num(1), fn), e.Global)
	require.NoError(t, err)
	assert.Equal(t, &Number{Value: 2}, v)
}

func TestEvalSequenceReturnsSecondExpr(t *testing.T) {
	e := newEvaluator()
	v, err := e.Eval(binOp(";", num(1), num(2)), e.Global)
	require.NoError(t, err)
	assert.Equal(t, &Number{Value: 2}, v)
}
