package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreshVarNeverRepeats(t *testing.T) {
	state := NewTypeState()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		name := state.FreshVar().Name
		require.False(t, seen[name], "fresh var %q repeated", name)
		seen[name] = true
	}
}

func TestWithEnvLeavesSubAndCounterShared(t *testing.T) {
	state := NewTypeState()
	state.FreshVar()
	child := state.WithEnv(state.Env.ExtendType("x", Float))

	assert.Same(t, state.Counter, child.Counter)
	assert.NotSame(t, state.Env, child.Env)
	_, ok := child.Env.Lookup("x")
	assert.True(t, ok)
	_, okInOriginal := state.Env.Lookup("x")
	assert.False(t, okInOriginal)
}

func TestStateUnifyThreadsSubstitution(t *testing.T) {
	state := NewTypeState()
	a := state.FreshVar()
	next, err := state.Unify(a, Float)
	require.NoError(t, err)
	assert.True(t, Float.Equals(a.Substitute(next.Sub)))
}

func TestADTRegistryRegisterIndexesByCtor(t *testing.T) {
	reg := NewADTRegistry()
	reg.Register(&ADTDefinition{
		Name:       "Option",
		TypeParams: []string{"a"},
		Ctors: map[string]*CtorInfo{
			"Some": {Name: "Some", Fields: []Type{NewVar("a")}, Owner: "Option"},
			"None": {Name: "None", Owner: "Option"},
		},
	})
	owner, ok := reg.Ctors["Some"]
	require.True(t, ok)
	assert.Equal(t, "Option", owner.Name)
}
