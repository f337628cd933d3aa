package coreschema

import (
	"github.com/speakeasy-api/openapi/sequencedmap"
)

// Schema is a core schema node: a tagged record with insertion-ordered keys.
// Sub-records (schemas, field wrappers, metadata, serialization) are stored
// as *Schema, lists of children as []any, and everything else as opaque
// payload. Iteration order always matches insertion order, which keeps every
// traversal deterministic.
type Schema struct {
	*sequencedmap.Map[string, any]
}

// New creates an empty schema record.
func New() *Schema {
	return &Schema{Map: sequencedmap.New[string, any]()}
}

// newWithCapacity creates an empty schema record sized for n entries.
func newWithCapacity(n int) *Schema {
	return &Schema{Map: sequencedmap.NewWithCapacity[string, any](n)}
}

// Type returns the node's type tag.
func (s *Schema) Type() (string, error) {
	v, ok := s.Get(KeyType)
	if !ok {
		return "", ErrMissingType
	}
	typ, ok := v.(string)
	if !ok {
		return "", ErrInvalidTypeValue
	}
	return typ, nil
}

// Ref returns the node's ref identifier, if it carries one.
func (s *Schema) Ref() (string, bool) {
	return s.GetString(KeyRef)
}

// GetString returns the string stored under key. It reports false when the
// key is absent or holds a non-string value.
func (s *Schema) GetString(key string) (string, bool) {
	v, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// GetSchema returns the sub-record stored under key. It reports false when
// the key is absent or holds a non-record value.
func (s *Schema) GetSchema(key string) (*Schema, bool) {
	v, ok := s.Get(key)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*Schema)
	return sub, ok
}

// GetSlice returns the list stored under key. It reports false when the key
// is absent or holds a non-list value.
func (s *Schema) GetSlice(key string) ([]any, bool) {
	v, ok := s.Get(key)
	if !ok {
		return nil, false
	}
	list, ok := v.([]any)
	return list, ok
}

// Metadata returns the node's metadata record, if present.
func (s *Schema) Metadata() (*Schema, bool) {
	return s.GetSchema(KeyMetadata)
}

// IsInvalid reports whether the node's metadata carries the invalid marker.
func (s *Schema) IsInvalid() bool {
	meta, ok := s.Metadata()
	if !ok {
		return false
	}
	return meta.Has(MetadataInvalidKey)
}

// Clone returns a shallow copy of the node: keys are copied, values are
// shared with the original. Rewriting walks clone before mutating so shared
// subtrees stay intact.
func (s *Schema) Clone() *Schema {
	res := newWithCapacity(s.Len())
	for k, v := range s.All() {
		res.Set(k, v)
	}
	return res
}

// ReplaceWith replaces the node's contents with the entries of other. The
// node keeps its identity, so any external holder of the pointer observes
// the new contents.
func (s *Schema) ReplaceWith(other *Schema) {
	s.Map = sequencedmap.NewWithCapacity[string, any](other.Len())
	for k, v := range other.All() {
		s.Set(k, v)
	}
}

// DefinitionTable is a flat, insertion-ordered table mapping ref strings to
// the schema node registered for each ref.
type DefinitionTable struct {
	*sequencedmap.Map[string, *Schema]
}

// NewDefinitions creates an empty definitions table.
func NewDefinitions() *DefinitionTable {
	return &DefinitionTable{Map: sequencedmap.New[string, *Schema]()}
}

// merge copies every entry of other into the table, overwriting entries with
// the same ref.
func (d *DefinitionTable) merge(other *DefinitionTable) {
	for ref, def := range other.All() {
		d.Set(ref, def)
	}
}
