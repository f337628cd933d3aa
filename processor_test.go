package coreschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessorParseDefaultsToJSON(t *testing.T) {
	p := NewProcessor()

	s, err := p.Parse([]byte(`{"type":"int"}`), "")
	require.NoError(t, err)
	typ, err := s.Type()
	require.NoError(t, err)
	assert.Equal(t, "int", typ)
}

func TestProcessorParseYAML(t *testing.T) {
	p := NewProcessor()

	s, err := p.Parse([]byte("type: int\n"), MediaTypeYAML)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"int"}`, MustJSON(s))
}

func TestProcessorParseUnknownMediaType(t *testing.T) {
	p := NewProcessor()

	_, err := p.Parse([]byte(`{}`), "application/toml")
	require.ErrorIs(t, err, ErrUnknownMediaType)
}

func TestProcessorRegisterMediaType(t *testing.T) {
	p := NewProcessor()
	p.RegisterMediaType("application/x-fixed", func(_ []byte) (*Schema, error) {
		return Int(), nil
	})

	s, err := p.Parse(nil, "application/x-fixed")
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"int"}`, MustJSON(s))
}

func TestProcessorSimplifyHonoursInline(t *testing.T) {
	build := func() *Schema {
		return Definitions(DefinitionRef("A"), Int(WithRef("A")))
	}

	p := NewProcessor()
	res, err := p.Simplify(build())
	require.NoError(t, err)
	typ, err := res.Type()
	require.NoError(t, err)
	assert.Equal(t, TypeDefinitions, typ)

	p.SetInline(true)
	res, err = p.Simplify(build())
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"int"}`, MustJSON(res))
}

func TestProcessorGatherTolerantByDefault(t *testing.T) {
	p := NewProcessor()

	res, err := p.Gather(DefinitionRef("Missing"), NewDefinitions())
	require.NoError(t, err)
	assert.True(t, res.DefinitionRefs.Has("Missing"))
}

func TestProcessorGatherStrictRefs(t *testing.T) {
	p := NewProcessor().SetStrictRefs(true)

	_, err := p.Gather(DefinitionRef("Missing"), NewDefinitions())
	require.ErrorIs(t, err, ErrMissingDefinition)
	assert.ErrorContains(t, err, "Missing")
}

func TestProcessorApplyDiscriminatorsByName(t *testing.T) {
	p := NewProcessor()
	p.RegisterResolver("unions", func(s *Schema, discriminator string) (*Schema, error) {
		return TaggedUnion(ChoiceOf(discriminator, Int())), nil
	})

	root := Union(Int(), WithDiscriminator("kind"))
	require.NoError(t, p.ApplyDiscriminators(root, "unions"))

	typ, err := root.Type()
	require.NoError(t, err)
	assert.Equal(t, TypeTaggedUnion, typ)
}

func TestProcessorUnknownResolver(t *testing.T) {
	p := NewProcessor()

	err := p.ApplyDiscriminators(Int(), "nope")
	require.ErrorIs(t, err, ErrUnknownResolver)
}
