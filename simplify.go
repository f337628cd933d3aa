package coreschema

import (
	"fmt"
	"slices"
)

// CollectRefs extracts every inline definition out of the tree. Nested
// definitions schemas are lifted recursively and replaced by their inner
// schema; any other node carrying a ref is registered in the table while
// staying in place. The rewritten tree is a clone of the input; the returned
// table merges invalid entries under valid entries with the same ref.
func CollectRefs(schema *Schema) (*Schema, *DefinitionTable, error) {
	validDefs := NewDefinitions()
	invalidDefs := NewDefinitions()

	w := &walker{rewrite: true}
	w.visit = func(s *Schema) (*Schema, error) {
		typ, err := s.Type()
		if err != nil {
			return nil, err
		}

		var res *Schema
		if typ == TypeDefinitions {
			defs, ok := s.GetSlice(KeyDefinitions)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrMissingRequiredChild, KeyDefinitions)
			}
			for _, v := range defs {
				def, ok := v.(*Schema)
				if !ok {
					return nil, fmt.Errorf("%w: %T", ErrInvalidDefinition, v)
				}
				ref, ok := def.Ref()
				if !ok {
					return nil, ErrDefinitionMissingRef
				}
				visited, err := w.visit(def)
				if err != nil {
					return nil, err
				}
				entry := visited.Clone()
				if entry.IsInvalid() {
					invalidDefs.Set(ref, entry)
				} else {
					validDefs.Set(ref, entry)
				}
			}
			inner, ok := s.GetSchema(KeySchema)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrMissingRequiredChild, KeySchema)
			}
			res = inner.Clone()
		} else {
			res = s.Clone()
			if ref, ok := res.Ref(); ok {
				if res.IsInvalid() {
					invalidDefs.Set(ref, res)
				} else {
					validDefs.Set(ref, res)
				}
			}
		}

		if err := w.recurse(res); err != nil {
			return nil, err
		}
		return res, nil
	}

	newSchema, err := w.visit(schema)
	if err != nil {
		return nil, nil, err
	}

	allDefs := NewDefinitions()
	allDefs.merge(invalidDefs)
	allDefs.merge(validDefs)
	return newSchema, allDefs, nil
}

// FlattenRefs rewrites the tree in place: after recursing into a node's
// children, a node whose ref is registered in allDefs is copied into the
// table (replacing the entry with the maximally rewritten version) and the
// in-tree node becomes a definition-ref pointing at it. Definitions schemas
// must already have been extracted by CollectRefs.
func FlattenRefs(schema *Schema, allDefs *DefinitionTable) (*Schema, error) {
	if err := flattenRefs(schema, allDefs); err != nil {
		return nil, err
	}
	return schema, nil
}

func flattenRefs(schema *Schema, allDefs *DefinitionTable) error {
	w := &walker{}
	w.visit = func(s *Schema) (*Schema, error) {
		typ, err := s.Type()
		if err != nil {
			return nil, err
		}
		if typ == TypeDefinitions {
			return nil, ErrUnexpectedDefinitions
		}

		if err := w.recurse(s); err != nil {
			return nil, err
		}

		if ref, ok := s.Ref(); ok && allDefs.Has(ref) {
			allDefs.Set(ref, s.Clone())
			s.ReplaceWith(DefinitionRef(ref))
		}
		return s, nil
	}
	_, err := w.visit(schema)
	return err
}

// refCount tracks the usage of one ref while deciding what can be inlined.
// depth is a scratch counter: non-zero while the counter is descending
// through the ref's own definition, which is how cycles are detected.
type refCount struct {
	uses        int
	inRecursion bool
	depth       int
}

func countRefs(schema *Schema, allDefs *DefinitionTable) (map[string]*refCount, error) {
	counts := make(map[string]*refCount)

	w := &walker{}
	w.visit = func(s *Schema) (*Schema, error) {
		typ, err := s.Type()
		if err != nil {
			return nil, err
		}
		if typ != TypeDefinitionRef {
			return s, w.recurse(s)
		}

		ref, ok := s.GetString(KeySchemaRef)
		if !ok {
			return nil, ErrMissingSchemaRef
		}
		rc := counts[ref]
		if rc == nil {
			rc = &refCount{}
			counts[ref] = rc
		}
		rc.uses++

		if rc.depth != 0 {
			rc.inRecursion = true
			return s, nil
		}

		rc.depth++
		target, ok := allDefs.Get(ref)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingDefinition, ref)
		}
		if _, err := w.visit(target); err != nil {
			return nil, err
		}
		rc.depth--
		return s, nil
	}
	if _, err := w.visit(schema); err != nil {
		return nil, err
	}

	for ref, rc := range counts {
		if rc.depth != 0 {
			return nil, fmt.Errorf("%w: %q", ErrInternalCounting, ref)
		}
	}
	return counts, nil
}

func inlineRefs(schema *Schema, allDefs *DefinitionTable, counts map[string]*refCount) error {
	w := &walker{}
	w.visit = func(s *Schema) (*Schema, error) {
		typ, err := s.Type()
		if err != nil {
			return nil, err
		}
		if typ == TypeDefinitionRef {
			ref, ok := s.GetString(KeySchemaRef)
			if !ok {
				return nil, ErrMissingSchemaRef
			}
			rc := counts[ref]
			if rc == nil {
				rc = &refCount{}
				counts[ref] = rc
			}
			if rc.uses <= 1 && !rc.inRecursion {
				def, ok := allDefs.Get(ref)
				if !ok {
					return nil, fmt.Errorf("%w: %q", ErrMissingDefinition, ref)
				}
				allDefs.Delete(ref)

				// The reference site's serialization wins over the inlinee's.
				ser, hasSer := s.Get(KeySerialization)

				s.ReplaceWith(def)
				s.Delete(KeyRef)
				if hasSer {
					s.Set(KeySerialization, ser)
				}
				rc.uses--
			}
		}
		return s, w.recurse(s)
	}
	_, err := w.visit(schema)
	return err
}

// SimplifySchemaReferences extracts inline definitions, flattens every
// remaining ref-bearing node into the definitions table, and, when inline is
// requested, inlines references used at most once outside any cycle. When
// definitions survive, the result is a fresh definitions schema wrapping the
// rewritten tree; otherwise the rewritten tree is returned directly.
func SimplifySchemaReferences(schema *Schema, inline bool) (*Schema, error) {
	newSchema, allDefs, err := CollectRefs(schema)
	if err != nil {
		return nil, err
	}

	if err := flattenRefs(newSchema, allDefs); err != nil {
		return nil, err
	}
	for _, ref := range slices.Collect(allDefs.Keys()) {
		def, ok := allDefs.Get(ref)
		if !ok {
			continue
		}
		if err := flattenRefs(def, allDefs); err != nil {
			return nil, err
		}
	}

	if !inline {
		resDefs := make([]any, 0, allDefs.Len())
		for _, def := range allDefs.All() {
			resDefs = append(resDefs, def)
		}
		return makeDefinitionsResult(newSchema, resDefs), nil
	}

	counts, err := countRefs(newSchema, allDefs)
	if err != nil {
		return nil, err
	}
	if err := inlineRefs(newSchema, allDefs, counts); err != nil {
		return nil, err
	}

	var resDefs []any
	for _, def := range allDefs.All() {
		ref, ok := def.Ref()
		if !ok {
			return nil, ErrDefinitionMissingRef
		}
		if rc := counts[ref]; rc != nil && rc.uses > 0 {
			resDefs = append(resDefs, def)
		}
	}
	return makeDefinitionsResult(newSchema, resDefs), nil
}

func makeDefinitionsResult(schema *Schema, defs []any) *Schema {
	if len(defs) == 0 {
		return schema
	}
	res := New()
	res.Set(KeyType, TypeDefinitions)
	res.Set(KeySchema, schema)
	res.Set(KeyDefinitions, defs)
	return res
}
