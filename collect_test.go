package coreschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectDefinitions(t *testing.T) {
	inner := Int(WithRef("A"))
	root := List(inner, WithRef("B"))

	defs, err := CollectDefinitions(root)
	require.NoError(t, err)

	require.Equal(t, 2, defs.Len())

	defB, ok := defs.Get("B")
	require.True(t, ok)
	assert.Same(t, root, defB, "entries alias the tree nodes")

	defA, ok := defs.Get("A")
	require.True(t, ok)
	assert.Same(t, inner, defA)
}

func TestCollectDefinitionsLastWins(t *testing.T) {
	root := Union(Int(WithRef("A")), Str(WithRef("A")))

	defs, err := CollectDefinitions(root)
	require.NoError(t, err)

	def, ok := defs.Get("A")
	require.True(t, ok)
	typ, err := def.Type()
	require.NoError(t, err)
	assert.Equal(t, "str", typ)
}

func TestCollectRefNames(t *testing.T) {
	root := Dict(
		Int(WithRef("A")),
		List(Str(WithRef("B")), WithRef("C")),
	)

	refs, err := CollectRefNames(root)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{
		"A": {},
		"B": {},
		"C": {},
	}, refs)
}

func TestCollectRefNamesEmpty(t *testing.T) {
	refs, err := CollectRefNames(Int())
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestCollectInvalidSchemas(t *testing.T) {
	first := Int(WithInvalid())
	second := Str(WithInvalid())
	root := Union(first, List(second), Bool())

	invalid, err := CollectInvalidSchemas(root)
	require.NoError(t, err)

	require.Len(t, invalid, 2)
	assert.Same(t, first, invalid[0])
	assert.Same(t, second, invalid[1])
}

func TestCollectTraversesSerialization(t *testing.T) {
	ser := Typed("wrap-ser")
	ser.Set(KeySchema, Int(WithRef("SerRef")))
	root := Str(WithSerialization(ser))

	refs, err := CollectRefNames(root)
	require.NoError(t, err)
	assert.Contains(t, refs, "SerRef")
}
