package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/types"
)

func TestIsSyntacticValueRecognizesAnnotatedFunction(t *testing.T) {
	annotated := &ast.AnnotatedExpr{
		Expr: &ast.FuncExpr{Params: []ast.FuncParam{{Name: "y"}}, Body: &ast.Identifier{Name: "y"}},
		Annotation: ast.TypeAnnotation{
			Type: &ast.TypeFunc{Params: []ast.TypeExpr{&ast.TypeName{Name: "a"}}, Return: &ast.TypeName{Name: "a"}},
		},
	}
	assert.True(t, isSyntacticValue(annotated))

	applied := &ast.AnnotatedExpr{Expr: &ast.AppExpr{Func: &ast.Identifier{Name: "f"}, Args: []ast.Expr{&ast.NumberLit{Value: 1}}}}
	assert.False(t, isSyntacticValue(applied))
}

// TestAnnotatedGenericFunctionGeneralizesAcrossCallSites guards let
// polymorphism for annotated function definitions (spec §4.3): a
// `(fn y => y) : a -> a` binding must generalize and type-check at two
// different instantiations, not get pinned to whichever call came first.
func TestAnnotatedGenericFunctionGeneralizesAcrossCallSites(t *testing.T) {
	inf, state := newInferencer()
	id := &ast.DefineExpr{
		Name: "id",
		Value: &ast.AnnotatedExpr{
			Expr: &ast.FuncExpr{Params: []ast.FuncParam{{Name: "y"}}, Body: &ast.Identifier{Name: "y"}},
			Annotation: ast.TypeAnnotation{
				Type: &ast.TypeFunc{Params: []ast.TypeExpr{&ast.TypeName{Name: "a"}}, Return: &ast.TypeName{Name: "a"}},
			},
		},
	}
	prog := &ast.Program{Statements: []ast.Expr{
		id,
		&ast.AppExpr{Func: &ast.Identifier{Name: "id"}, Args: []ast.Expr{&ast.NumberLit{Value: 1}}},
		&ast.AppExpr{Func: &ast.Identifier{Name: "id"}, Args: []ast.Expr{&ast.StringLit{Value: "x"}}},
	}}
	r, err := inf.InferProgram(prog, state)
	require.NoError(t, err)
	assert.True(t, types.String.Equals(r.Type))
}
