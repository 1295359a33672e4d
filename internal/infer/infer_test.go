package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/traits"
	"github.com/jethrolarson/noolang-sub003/internal/types"
)

func newInferencer() (*Inferencer, *types.TypeState) {
	return New(traits.NewRegistry()), types.NewTypeState()
}

func TestInferLiteralTypes(t *testing.T) {
	inf, state := newInferencer()

	r, err := inf.Infer(&ast.NumberLit{Value: 1}, state)
	require.NoError(t, err)
	assert.True(t, types.Float.Equals(r.Type))

	r, err = inf.Infer(&ast.StringLit{Value: "x"}, state)
	require.NoError(t, err)
	assert.True(t, types.String.Equals(r.Type))

	r, err = inf.Infer(&ast.BoolLit{Value: true}, state)
	require.NoError(t, err)
	assert.True(t, types.Bool.Equals(r.Type))
}

func TestInferProgramReturnsFinalStatementResult(t *testing.T) {
	inf, state := newInferencer()
	prog := &ast.Program{Statements: []ast.Expr{
		&ast.NumberLit{Value: 1},
		&ast.StringLit{Value: "x"},
	}}
	r, err := inf.InferProgram(prog, state)
	require.NoError(t, err)
	assert.True(t, types.String.Equals(r.Type))
}

func TestInferProgramEmptyIsUnit(t *testing.T) {
	inf, state := newInferencer()
	r, err := inf.InferProgram(&ast.Program{}, state)
	require.NoError(t, err)
	assert.True(t, types.Unit.Equals(r.Type))
}

func TestInferDefineBindsTypeForSubsequentLookup(t *testing.T) {
	inf, state := newInferencer()
	prog := &ast.Program{Statements: []ast.Expr{
		&ast.DefineExpr{Name: "x", Value: &ast.NumberLit{Value: 1}},
		&ast.Identifier{Name: "x"},
	}}
	r, err := inf.InferProgram(prog, state)
	require.NoError(t, err)
	assert.True(t, types.Float.Equals(r.Type))
}

func TestInferIdentifierUndefinedErrors(t *testing.T) {
	inf, state := newInferencer()
	_, err := inf.Infer(&ast.Identifier{Name: "nope"}, state)
	require.Error(t, err)
}

func TestInferIfBranchesMustUnify(t *testing.T) {
	inf, state := newInferencer()
	ifExpr := &ast.IfExpr{
		Cond: &ast.BoolLit{Value: true},
		Then: &ast.NumberLit{Value: 1},
		Else: &ast.StringLit{Value: "x"},
	}
	_, err := inf.Infer(ifExpr, state)
	require.Error(t, err)
}

func TestInferIfMatchingBranchesSucceeds(t *testing.T) {
	inf, state := newInferencer()
	ifExpr := &ast.IfExpr{
		Cond: &ast.BoolLit{Value: true},
		Then: &ast.NumberLit{Value: 1},
		Else: &ast.NumberLit{Value: 2},
	}
	r, err := inf.Infer(ifExpr, state)
	require.NoError(t, err)
	assert.True(t, types.Float.Equals(r.Type))
}

func TestUnifyWrapsTypeMismatchAsDiagnostic(t *testing.T) {
	inf, state := newInferencer()
	_, err := inf.unify(ast.Pos{}, state, types.Float, types.String, []string{"f"})
	require.Error(t, err)
}
