package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneralizeQuantifiesOnlyFreeNotInEnv(t *testing.T) {
	env := NewTypeEnvironment()
	bound := NewVar("bound")
	env = env.ExtendType("x", bound)

	free := NewVar("free")
	fn := &Function{Params: []Type{bound}, Return: free}

	scheme := Generalize(fn, env, Substitution{})
	assert.Equal(t, []string{"free"}, scheme.QuantifiedVars)
}

func TestInstantiateFreshensQuantifiedVars(t *testing.T) {
	a := NewVar("a")
	scheme := &TypeScheme{Type: &Function{Params: []Type{a}, Return: a}, QuantifiedVars: []string{"a"}}

	state := NewTypeState()
	t1 := Instantiate(scheme, state)
	t2 := Instantiate(scheme, state)

	f1, ok := t1.(*Function)
	assert.True(t, ok)
	f2, ok := t2.(*Function)
	assert.True(t, ok)
	assert.False(t, f1.Params[0].Equals(f2.Params[0]), "two instantiations must produce distinct fresh variables")
}

func TestInstantiateMonotypeIsIdentity(t *testing.T) {
	scheme := Monotype(Float)
	assert.True(t, Float.Equals(Instantiate(scheme, NewTypeState())))
}

func TestInstantiateTransfersConstraints(t *testing.T) {
	a := &Variable{Name: "a", Constraints: []Constraint{&Implements{TypeVar: "a", Interface: "Add"}}}
	scheme := &TypeScheme{Type: a, QuantifiedVars: []string{"a"}}

	result := Instantiate(scheme, NewTypeState())
	fv, ok := result.(*Variable)
	assert.True(t, ok)
	assert.Len(t, fv.Constraints, 1)
	assert.Equal(t, "Add", fv.Constraints[0].(*Implements).Interface)
}
