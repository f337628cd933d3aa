package coreschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONRoundTripPreservesOrder(t *testing.T) {
	input := `{"type":"list","items_schema":{"type":"int","zeta":1,"alpha":2},"ref":"A"}`

	s, err := ParseJSON([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, input, MustJSON(s))
}

func TestParseJSONValueKinds(t *testing.T) {
	input := `{"type":"x","flag":true,"none":null,"count":3,"name":"n","items":[1,"two",{"type":"int"}]}`

	s, err := ParseJSON([]byte(input))
	require.NoError(t, err)

	v, ok := s.Get("flag")
	require.True(t, ok)
	assert.Equal(t, true, v)

	v, ok = s.Get("none")
	require.True(t, ok)
	assert.Nil(t, v)

	items, ok := s.GetSlice("items")
	require.True(t, ok)
	require.Len(t, items, 3)
	_, ok = items[2].(*Schema)
	assert.True(t, ok, "nested objects decode to schema records")
}

func TestParseJSONNestedObjectsAreSchemas(t *testing.T) {
	s, err := ParseJSON([]byte(`{"type":"list","items_schema":{"type":"int"}}`))
	require.NoError(t, err)

	items, ok := s.GetSchema("items_schema")
	require.True(t, ok)
	typ, err := items.Type()
	require.NoError(t, err)
	assert.Equal(t, "int", typ)
}

func TestParseJSONErrors(t *testing.T) {
	_, err := ParseJSON([]byte(`[1,2]`))
	require.ErrorIs(t, err, ErrInvalidDocument)

	_, err = ParseJSON([]byte(`{"type":`))
	require.ErrorIs(t, err, ErrJSONDecode)
}

func TestParseYAML(t *testing.T) {
	input := []byte("type: list\nitems_schema:\n  type: int\nref: A\n")

	s, err := ParseYAML(input)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"list","items_schema":{"type":"int"},"ref":"A"}`, MustJSON(s))

	// mapping order survives the conversion
	var keys []string
	for k := range s.All() {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"type", "items_schema", "ref"}, keys)
}

func TestParseYAMLErrors(t *testing.T) {
	_, err := ParseYAML([]byte("- 1\n- 2\n"))
	require.ErrorIs(t, err, ErrInvalidDocument)

	_, err = ParseYAML([]byte("type: [unclosed\n"))
	require.ErrorIs(t, err, ErrYAMLDecode)
}

func TestParsedSchemaIsRewritable(t *testing.T) {
	s, err := ParseJSON([]byte(`{
		"type": "definitions",
		"schema": {"type": "definition-ref", "schema_ref": "A"},
		"definitions": [{"type": "int", "ref": "A"}]
	}`))
	require.NoError(t, err)

	res, err := SimplifySchemaReferences(s, true)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"int"}`, MustJSON(res))
}
