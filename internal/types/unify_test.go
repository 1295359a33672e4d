package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifyPrimitiveMismatch(t *testing.T) {
	u := NewUnifier()
	_, err := u.Unify(Float, String, Substitution{})
	require.Error(t, err)
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestUnifyVariableBindsAndPathShortens(t *testing.T) {
	u := NewUnifier()
	a := NewVar("a")
	sub, err := u.Unify(a, Float, Substitution{})
	require.NoError(t, err)

	b := NewVar("b")
	sub, err = u.Unify(b, a, sub)
	require.NoError(t, err)

	assert.True(t, Float.Equals(b.Substitute(sub)), "path-shortening should resolve b through a to Float")
}

func TestUnifyOccursCheck(t *testing.T) {
	u := NewUnifier()
	a := NewVar("a")
	selfRef := &List{Element: a}
	_, err := u.Unify(a, selfRef, Substitution{})
	require.Error(t, err)
	var occ *OccursCheckError
	require.ErrorAs(t, err, &occ)
	assert.Equal(t, "a", occ.Var)
}

func TestUnifyRecordRequiresExactKeySet(t *testing.T) {
	u := NewUnifier()
	a := &Record{Fields: map[string]Type{"name": String}}
	b := &Record{Fields: map[string]Type{"name": String, "age": Float}}
	_, err := u.Unify(a, b, Substitution{})
	require.Error(t, err, "record unification has no width subtyping; only HasStructure constraints do")
}

func TestUnifyVariantRequiresMatchingArity(t *testing.T) {
	u := NewUnifier()
	a := &Variant{Name: "Option", Args: []Type{Float}}
	b := &Variant{Name: "Option", Args: []Type{Float, String}}
	_, err := u.Unify(a, b, Substitution{})
	require.Error(t, err)
}

func TestUnifyFunctionArity(t *testing.T) {
	u := NewUnifier()
	f1 := &Function{Params: []Type{Float}, Return: Float}
	f2 := &Function{Params: []Type{Float, Float}, Return: Float}
	_, err := u.Unify(f1, f2, Substitution{})
	require.Error(t, err)
}

func TestUnifyFunctionParamsAndReturn(t *testing.T) {
	u := NewUnifier()
	a := NewVar("a")
	f1 := &Function{Params: []Type{a}, Return: a}
	f2 := &Function{Params: []Type{Float}, Return: Float}
	sub, err := u.Unify(f1, f2, Substitution{})
	require.NoError(t, err)
	assert.True(t, Float.Equals(a.Substitute(sub)))
}

func TestUnifyCallCounterIncrements(t *testing.T) {
	u := NewUnifier()
	_, _ = u.Unify(Float, Float, Substitution{})
	_, _ = u.Unify(String, String, Substitution{})
	assert.Equal(t, 2, u.Calls)
}

func TestUnifyUnknownLoosely(t *testing.T) {
	u := NewUnifier()
	sub, err := u.Unify(Unknown, Float, Substitution{})
	require.NoError(t, err)
	assert.Empty(t, sub)
}

func TestComposeSubstitution(t *testing.T) {
	s1 := Substitution{"a": NewVar("b")}
	s2 := Substitution{"b": Float}
	composed := Compose(s1, s2)
	assert.True(t, Float.Equals(NewVar("a").Substitute(composed)))
}
