package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvironmentGetWalksParentChain(t *testing.T) {
	root := NewEnvironment()
	root.Set("x", &Number{Value: 1})
	child := root.Child()
	child.Set("y", &Number{Value: 2})

	v, ok := child.Get("x")
	assert.True(t, ok)
	assert.Equal(t, &Number{Value: 1}, v)

	_, ok = root.Get("y")
	assert.False(t, ok, "parent must not see child bindings")
}

func TestEnvironmentSetMutatesReceiverDirectly(t *testing.T) {
	env := NewEnvironment()
	env.Set("x", &Number{Value: 1})
	env.Set("x", &Number{Value: 2})

	v, _ := env.Get("x")
	assert.Equal(t, &Number{Value: 2}, v)
}

func TestEnvironmentExtendReturnsChildNotMutatingParent(t *testing.T) {
	root := NewEnvironment()
	root.Set("x", &Number{Value: 1})
	child := root.Extend("x", &Number{Value: 2})

	v, _ := child.Get("x")
	assert.Equal(t, &Number{Value: 2}, v)
	v, _ = root.Get("x")
	assert.Equal(t, &Number{Value: 1}, v)
}

func TestEnvironmentNamesDedupesAcrossChainInnermostFirst(t *testing.T) {
	root := NewEnvironment()
	root.Set("x", &Number{Value: 1})
	child := root.Extend("x", &Number{Value: 2}).Extend("y", &Number{Value: 3})

	names := child.Names()
	assert.Equal(t, []string{"y", "x"}, names)
}
