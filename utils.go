package coreschema

// metadataOf returns the node's metadata record, creating it if absent.
func metadataOf(s *Schema) *Schema {
	if meta, ok := s.Metadata(); ok {
		return meta
	}
	meta := New()
	s.Set(KeyMetadata, meta)
	return meta
}
