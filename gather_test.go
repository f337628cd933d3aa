package coreschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatherCollectsReferenceSites(t *testing.T) {
	defs := NewDefinitions()
	defs.Set("A", Int())

	root := Union(
		DefinitionRef("A"),
		DefinitionRef("A"),
		DefinitionRef("Missing"),
	)

	res, err := GatherSchemasForCleaning(root, defs)
	require.NoError(t, err)

	sitesA, ok := res.DefinitionRefs.Get("A")
	require.True(t, ok)
	assert.Len(t, sitesA, 2)

	// The missing target is tolerated: the site is recorded, nothing is
	// descended into.
	sitesMissing, ok := res.DefinitionRefs.Get("Missing")
	require.True(t, ok)
	assert.Len(t, sitesMissing, 1)

	assert.Empty(t, res.RecursiveRefs)
	assert.Empty(t, res.DeferredDiscriminators)
}

func TestGatherSitesAliasTreeNodes(t *testing.T) {
	defs := NewDefinitions()
	defs.Set("A", Int())

	site := DefinitionRef("A")
	root := List(site)

	res, err := GatherSchemasForCleaning(root, defs)
	require.NoError(t, err)

	sites, ok := res.DefinitionRefs.Get("A")
	require.True(t, ok)
	require.Len(t, sites, 1)
	assert.Same(t, site, sites[0])
}

func TestGatherSelfRecursion(t *testing.T) {
	defs := NewDefinitions()
	defs.Set("A", List(DefinitionRef("A")))

	res, err := GatherSchemasForCleaning(DefinitionRef("A"), defs)
	require.NoError(t, err)

	assert.Contains(t, res.RecursiveRefs, "A")
}

func TestGatherMutualRecursionMarksWholeCycle(t *testing.T) {
	defs := NewDefinitions()
	defs.Set("A", List(DefinitionRef("B")))
	defs.Set("B", List(DefinitionRef("A")))

	res, err := GatherSchemasForCleaning(DefinitionRef("A"), defs)
	require.NoError(t, err)

	assert.Contains(t, res.RecursiveRefs, "A")
	assert.Contains(t, res.RecursiveRefs, "B")
}

func TestGatherNonRecursiveSharedRef(t *testing.T) {
	defs := NewDefinitions()
	defs.Set("A", Int())

	root := Union(DefinitionRef("A"), List(DefinitionRef("A")))

	res, err := GatherSchemasForCleaning(root, defs)
	require.NoError(t, err)

	sites, ok := res.DefinitionRefs.Get("A")
	require.True(t, ok)
	assert.Len(t, sites, 2)
	assert.Empty(t, res.RecursiveRefs, "re-entering a ref after leaving it is not recursion")
}

func TestGatherDeferredDiscriminators(t *testing.T) {
	defs := NewDefinitions()

	annotated := Union(Int(), Str(), WithDiscriminator("kind"))
	root := List(annotated)

	res, err := GatherSchemasForCleaning(root, defs)
	require.NoError(t, err)

	require.Len(t, res.DeferredDiscriminators, 1)
	assert.Same(t, annotated, res.DeferredDiscriminators[0].Schema)
	assert.Equal(t, "kind", res.DeferredDiscriminators[0].Discriminator)
}

func TestGatherDiscriminatorInsideDefinition(t *testing.T) {
	annotated := Union(Int(), Str(), WithDiscriminator("kind"))
	defs := NewDefinitions()
	defs.Set("A", annotated)

	res, err := GatherSchemasForCleaning(DefinitionRef("A"), defs)
	require.NoError(t, err)

	require.Len(t, res.DeferredDiscriminators, 1)
	assert.Same(t, annotated, res.DeferredDiscriminators[0].Schema)
}

func TestGatherTraversesSerialization(t *testing.T) {
	ser := Typed("wrap-ser")
	ser.Set(KeySchema, DefinitionRef("A"))

	defs := NewDefinitions()
	defs.Set("A", Int())

	root := Str(WithSerialization(ser))

	res, err := GatherSchemasForCleaning(root, defs)
	require.NoError(t, err)

	sites, ok := res.DefinitionRefs.Get("A")
	require.True(t, ok)
	assert.Len(t, sites, 1)
}

func TestGatherUnwrapsUnionChoicePairs(t *testing.T) {
	defs := NewDefinitions()
	defs.Set("A", Int())

	root := Union(Tagged(DefinitionRef("A"), "a"), Str())

	res, err := GatherSchemasForCleaning(root, defs)
	require.NoError(t, err)
	assert.True(t, res.DefinitionRefs.Has("A"))
}

func TestGatherMissingSchemaRef(t *testing.T) {
	_, err := GatherSchemasForCleaning(Typed(TypeDefinitionRef), NewDefinitions())
	require.ErrorIs(t, err, ErrMissingSchemaRef)
}

func TestGatherMissingType(t *testing.T) {
	_, err := GatherSchemasForCleaning(New(), NewDefinitions())
	require.ErrorIs(t, err, ErrMissingType)
}

func TestGatherDeterministic(t *testing.T) {
	defs := NewDefinitions()
	defs.Set("A", List(DefinitionRef("B")))
	defs.Set("B", Int())

	build := func() *Schema {
		return Union(
			DefinitionRef("A"),
			DefinitionRef("B"),
			List(DefinitionRef("A"), WithDiscriminator("kind")),
		)
	}

	first, err := GatherSchemasForCleaning(build(), defs)
	require.NoError(t, err)
	second, err := GatherSchemasForCleaning(build(), defs)
	require.NoError(t, err)

	var firstRefs, secondRefs []string
	for ref := range first.DefinitionRefs.All() {
		firstRefs = append(firstRefs, ref)
	}
	for ref := range second.DefinitionRefs.All() {
		secondRefs = append(secondRefs, ref)
	}
	assert.Equal(t, firstRefs, secondRefs)
	assert.Equal(t, first.RecursiveRefs, second.RecursiveRefs)
	assert.Len(t, second.DeferredDiscriminators, len(first.DeferredDiscriminators))
}
