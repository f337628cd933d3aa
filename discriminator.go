package coreschema

// DiscriminatorResolver builds the replacement for a schema carrying a
// deferred discriminator annotation. The returned schema replaces the
// annotated node in place.
type DiscriminatorResolver func(schema *Schema, discriminator string) (*Schema, error)

// ApplyDiscriminators walks the tree bottom-up and, for every node whose
// metadata carries a deferred discriminator annotation, replaces the node in
// place with the resolver's result. Nodes already typed tagged-union are
// left untouched, so re-applying is a no-op. Resolver failures propagate
// unchanged; rewrites already applied to other nodes stay in place.
func ApplyDiscriminators(schema *Schema, resolver DiscriminatorResolver) error {
	w := &walker{}
	w.visit = func(s *Schema) (*Schema, error) {
		if err := w.recurse(s); err != nil {
			return nil, err
		}

		typ, err := s.Type()
		if err != nil {
			return nil, err
		}
		if typ == TypeTaggedUnion {
			return s, nil
		}

		meta, ok := s.Metadata()
		if !ok {
			return s, nil
		}
		discriminator, ok := meta.GetString(MetadataDiscriminatorKey)
		if !ok {
			return s, nil
		}

		newSchema, err := resolver(s, discriminator)
		if err != nil {
			return nil, err
		}
		s.ReplaceWith(newSchema)
		return s, nil
	}

	_, err := w.visit(schema)
	return err
}
