package eval

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jethrolarson/noolang-sub003/internal/ast"
)

func TestEvalTypeDeclRegistersNullaryConstructor(t *testing.T) {
	e := newEvaluator()
	decl := &ast.TypeDeclExpr{Name: "Option", Ctors: []ast.VariantCtor{{Name: "None"}}}
	_, err := e.Eval(decl, e.Global)
	require.NoError(t, err)

	v, ok := e.Global.Get("None")
	require.True(t, ok)
	c, ok := v.(*Constructor)
	require.True(t, ok)
	assert.Equal(t, "Option", c.TypeName_)
	assert.Empty(t, c.Args)
}

func TestEvalTypeDeclRegistersCurriedConstructor(t *testing.T) {
	e := newEvaluator()
	decl := &ast.TypeDeclExpr{
		Name:  "Pair",
		Ctors: []ast.VariantCtor{{Name: "MkPair", Fields: []ast.TypeExpr{&ast.TypeName{Name: "Float"}, &ast.TypeName{Name: "Float"}}}},
	}
	_, err := e.Eval(decl, e.Global)
	require.NoError(t, err)

	ctor, ok := e.Global.Get("MkPair")
	require.True(t, ok)
	partial, err := e.Apply(ctor, &Number{Value: 1}, ast.Pos{})
	require.NoError(t, err)
	full, err := e.Apply(partial, &Number{Value: 2}, ast.Pos{})
	require.NoError(t, err)

	c, ok := full.(*Constructor)
	require.True(t, ok)
	assert.Equal(t, "MkPair", c.Name)
	assert.Equal(t, []Value{&Number{Value: 1}, &Number{Value: 2}}, c.Args)
}

type stubResolver struct {
	prog *ast.Program
	err  error
}

func (s *stubResolver) Resolve(fromFile, path string) (*ast.Program, error) {
	return s.prog, s.err
}

func TestEvalImportMemoizesResult(t *testing.T) {
	e := newEvaluator()
	e.Resolver = &stubResolver{prog: &ast.Program{Statements: []ast.Expr{num(1)}}}

	imp := &ast.ImportExpr{Path: "mod"}
	v1, err := e.Eval(imp, e.Global)
	require.NoError(t, err)
	assert.Equal(t, &Number{Value: 1}, v1)

	e.Resolver = &stubResolver{prog: &ast.Program{Statements: []ast.Expr{num(2)}}}
	v2, err := e.Eval(imp, e.Global)
	require.NoError(t, err)
	assert.Equal(t, &Number{Value: 1}, v2, "second import of the same path must reuse the memoized result")
}

func TestEvalImportWithoutResolverErrors(t *testing.T) {
	e := newEvaluator()
	_, err := e.Eval(&ast.ImportExpr{Path: "mod"}, e.Global)
	require.Error(t, err)
}

func TestEvalImportResolveFailurePropagates(t *testing.T) {
	e := newEvaluator()
	e.Resolver = &stubResolver{err: errors.New("not found")}
	_, err := e.Eval(&ast.ImportExpr{Path: "mod"}, e.Global)
	require.Error(t, err)
}
