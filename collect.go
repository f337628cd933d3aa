package coreschema

// CollectDefinitions sweeps the tree for every node carrying a ref and
// returns them as a definitions table, keyed by ref. The returned entries
// alias the nodes in the tree; later ref-bearing nodes with the same ref win.
func CollectDefinitions(schema *Schema) (*DefinitionTable, error) {
	defs := NewDefinitions()

	w := &walker{}
	w.visit = func(s *Schema) (*Schema, error) {
		if ref, ok := s.Ref(); ok {
			defs.Set(ref, s)
		}
		return s, w.recurse(s)
	}
	if _, err := w.visit(schema); err != nil {
		return nil, err
	}
	return defs, nil
}

// CollectRefNames sweeps the tree and returns the set of ref identifiers
// carried by its nodes.
func CollectRefNames(schema *Schema) (map[string]struct{}, error) {
	refs := make(map[string]struct{})

	w := &walker{}
	w.visit = func(s *Schema) (*Schema, error) {
		if ref, ok := s.Ref(); ok {
			refs[ref] = struct{}{}
		}
		return s, w.recurse(s)
	}
	if _, err := w.visit(schema); err != nil {
		return nil, err
	}
	return refs, nil
}

// CollectInvalidSchemas sweeps the tree and returns every node whose
// metadata carries the invalid marker, in traversal order.
func CollectInvalidSchemas(schema *Schema) ([]*Schema, error) {
	var invalid []*Schema

	w := &walker{}
	w.visit = func(s *Schema) (*Schema, error) {
		if s.IsInvalid() {
			invalid = append(invalid, s)
		}
		return s, w.recurse(s)
	}
	if _, err := w.visit(schema); err != nil {
		return nil, err
	}
	return invalid, nil
}
