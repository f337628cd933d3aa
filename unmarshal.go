package coreschema

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// ParseJSON decodes a JSON document into a schema record. Object keys keep
// their document order, so traversal over the parsed tree is deterministic.
func ParseJSON(data []byte) (*Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJSONDecode, err)
	}
	s, ok := v.(*Schema)
	if !ok {
		return nil, ErrInvalidDocument
	}
	return s, nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		s := New()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", keyTok)
			}
			v, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			s.Set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return s, nil
	case '[':
		items := []any{}
		for dec.More() {
			v, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}

// ParseYAML decodes a YAML document into a schema record, preserving mapping
// key order.
func ParseYAML(data []byte) (*Schema, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrYAMLDecode, err)
	}
	s, ok := fromYAMLValue(v).(*Schema)
	if !ok {
		return nil, ErrInvalidDocument
	}
	return s, nil
}

func fromYAMLValue(v any) any {
	switch t := v.(type) {
	case yaml.MapSlice:
		s := newWithCapacity(len(t))
		for _, item := range t {
			key, ok := item.Key.(string)
			if !ok {
				key = fmt.Sprint(item.Key)
			}
			s.Set(key, fromYAMLValue(item.Value))
		}
		return s
	case []any:
		items := make([]any, 0, len(t))
		for _, e := range t {
			items = append(items, fromYAMLValue(e))
		}
		return items
	default:
		return v
	}
}

// MustJSON marshals the schema to compact JSON, panicking on failure. It is
// a convenience for tests and examples.
func MustJSON(s *Schema) string {
	data, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	return string(data)
}
