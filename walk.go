package coreschema

import "fmt"

// visitFunc is invoked for every entered schema node, before the walker
// descends. A visitor decides whether and when to descend by calling the
// walker's recurse itself; in rewriting mode the returned node is written
// back into the parent slot.
type visitFunc func(*Schema) (*Schema, error)

// walker traverses the structural child positions of a schema tree, as
// determined by each node's type tag. In rewriting mode visited children are
// written back into freshly built containers on the parent; in read-only
// mode the tree is left untouched.
type walker struct {
	rewrite bool
	visit   visitFunc
}

// recurse dispatches on the node's type tag and visits each structural
// child. Unknown tags fall through to the default `schema` position. After
// the tag-specific walk the serialization side-schema, if any, is walked
// through its `schema` and `return_schema` positions.
func (w *walker) recurse(s *Schema) error {
	typ, err := s.Type()
	if err != nil {
		return err
	}

	switch typ {
	case TypeDefinitions:
		err = w.walkDefinitions(s)
	case TypeList, TypeSet, TypeFrozenSet, TypeGenerator, TypeTupleVar:
		err = w.walkKey(s, "items_schema")
	case TypeTuple:
		err = w.walkList(s, "items_schema")
	case TypeTuplePos:
		if err = w.walkList(s, "items_schema"); err == nil {
			err = w.walkKey(s, "extra_schema")
		}
	case TypeDict:
		if err = w.walkKey(s, "keys_schema"); err == nil {
			err = w.walkKey(s, "values_schema")
		}
	case TypeFunction:
		err = w.walkKey(s, KeySchema)
	case TypeFunctionPlain, TypeComputedField:
		err = w.walkKey(s, KeyReturnSchema)
	case TypeFunctionWrap:
		if err = w.walkKey(s, KeySchema); err == nil {
			err = w.walkKey(s, KeyReturnSchema)
		}
	case TypeUnion:
		err = w.walkList(s, "choices")
	case TypeTaggedUnion:
		err = w.walkTaggedUnion(s)
	case TypeChain:
		err = w.walkList(s, "steps")
	case TypeLaxOrStrict:
		if err = w.walkKey(s, "lax_schema"); err == nil {
			err = w.walkKey(s, "strict_schema")
		}
	case TypeJSONOrPython:
		if err = w.walkKey(s, "json_schema"); err == nil {
			err = w.walkKey(s, "python_schema")
		}
	case TypeModelFields, TypeTypedDict:
		err = w.walkFieldsContainer(s)
	case TypeDataclassArgs:
		if err = w.walkFieldList(s, "computed_fields", KeyReturnSchema, false); err == nil {
			err = w.walkFieldList(s, "fields", KeySchema, true)
		}
	case TypeArguments:
		if err = w.walkFieldList(s, "arguments_schema", KeySchema, true); err == nil {
			if err = w.walkKey(s, "var_args_schema"); err == nil {
				err = w.walkKey(s, "var_kwargs_schema")
			}
		}
	case TypeCall:
		if err = w.walkKey(s, "arguments_schema"); err == nil {
			err = w.walkKey(s, KeyReturnSchema)
		}
	case TypeDefinitionRef:
		// no structural children; schema_ref is payload
	default:
		err = w.walkKey(s, KeySchema)
	}
	if err != nil {
		return err
	}

	return w.walkSerialization(s)
}

// walkKey visits the optional sub-record stored under key. Non-record values
// are opaque payload and are skipped.
func (w *walker) walkKey(s *Schema, key string) error {
	child, ok := s.GetSchema(key)
	if !ok {
		return nil
	}
	res, err := w.visit(child)
	if err != nil {
		return err
	}
	if w.rewrite {
		s.Set(key, res)
	}
	return nil
}

// walkList visits every entry of the required list stored under key. Entries
// may be schemas or (schema, tag) choice pairs; anything else is copied
// through unchanged.
func (w *walker) walkList(s *Schema, key string) error {
	items, ok := s.GetSlice(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingRequiredChild, key)
	}
	if w.rewrite {
		newItems := make([]any, 0, len(items))
		for _, item := range items {
			res, err := w.visitListEntry(item)
			if err != nil {
				return err
			}
			newItems = append(newItems, res)
		}
		s.Set(key, newItems)
		return nil
	}
	for _, item := range items {
		if _, err := w.visitListEntry(item); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) visitListEntry(item any) (any, error) {
	if sub, ok := item.(*Schema); ok {
		return w.visit(sub)
	}
	pair, ok := item.([]any)
	if !ok || len(pair) == 0 {
		return item, nil
	}
	sub, ok := pair[0].(*Schema)
	if !ok {
		return item, nil
	}
	res, err := w.visit(sub)
	if err != nil {
		return nil, err
	}
	if !w.rewrite {
		return item, nil
	}
	newPair := make([]any, len(pair))
	copy(newPair, pair)
	newPair[0] = res
	return newPair, nil
}

// walkField visits the required inner schema of a field wrapper record. The
// wrapper itself is not visited; it is cloned only when its inner schema was
// replaced.
func (w *walker) walkField(field *Schema, innerKey string) (*Schema, error) {
	inner, ok := field.GetSchema(innerKey)
	if !ok {
		return nil, fmt.Errorf("%w: %q in field", ErrMissingRequiredChild, innerKey)
	}
	res, err := w.visit(inner)
	if err != nil {
		return nil, err
	}
	if !w.rewrite || res == inner {
		return field, nil
	}
	newField := field.Clone()
	newField.Set(innerKey, res)
	return newField, nil
}

// walkFieldList walks a list of field wrapper records, descending into the
// innerKey position of each.
func (w *walker) walkFieldList(s *Schema, key, innerKey string, required bool) error {
	items, ok := s.GetSlice(key)
	if !ok {
		if required {
			return fmt.Errorf("%w: %q", ErrMissingRequiredChild, key)
		}
		return nil
	}
	if w.rewrite {
		newItems := make([]any, 0, len(items))
		for _, item := range items {
			field, ok := item.(*Schema)
			if !ok {
				newItems = append(newItems, item)
				continue
			}
			res, err := w.walkField(field, innerKey)
			if err != nil {
				return err
			}
			newItems = append(newItems, res)
		}
		s.Set(key, newItems)
		return nil
	}
	for _, item := range items {
		field, ok := item.(*Schema)
		if !ok {
			continue
		}
		if _, err := w.walkField(field, innerKey); err != nil {
			return err
		}
	}
	return nil
}

// walkFieldsContainer handles model-fields and typed-dict schemas: the
// optional extras positions, the computed fields list, and the required
// name-keyed fields mapping.
func (w *walker) walkFieldsContainer(s *Schema) error {
	if err := w.walkKey(s, "extras_schema"); err != nil {
		return err
	}
	if err := w.walkKey(s, "extra_validator"); err != nil {
		return err
	}
	if err := w.walkFieldList(s, "computed_fields", KeyReturnSchema, false); err != nil {
		return err
	}

	fields, ok := s.GetSchema("fields")
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingRequiredChild, "fields")
	}
	if w.rewrite {
		newFields := newWithCapacity(fields.Len())
		for name, v := range fields.All() {
			field, ok := v.(*Schema)
			if !ok {
				newFields.Set(name, v)
				continue
			}
			res, err := w.walkField(field, KeySchema)
			if err != nil {
				return err
			}
			newFields.Set(name, res)
		}
		s.Set("fields", newFields)
		return nil
	}
	for _, v := range fields.All() {
		field, ok := v.(*Schema)
		if !ok {
			continue
		}
		if _, err := w.walkField(field, KeySchema); err != nil {
			return err
		}
	}
	return nil
}

// walkTaggedUnion walks the required discriminator-keyed choices mapping.
// Choices whose value is not a record (a plain redirect tag) are copied
// through unchanged.
func (w *walker) walkTaggedUnion(s *Schema) error {
	choices, ok := s.GetSchema("choices")
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingRequiredChild, "choices")
	}
	if w.rewrite {
		newChoices := newWithCapacity(choices.Len())
		for tag, v := range choices.All() {
			choice, ok := v.(*Schema)
			if !ok {
				newChoices.Set(tag, v)
				continue
			}
			res, err := w.visit(choice)
			if err != nil {
				return err
			}
			newChoices.Set(tag, res)
		}
		s.Set("choices", newChoices)
		return nil
	}
	for _, v := range choices.All() {
		choice, ok := v.(*Schema)
		if !ok {
			continue
		}
		if _, err := w.visit(choice); err != nil {
			return err
		}
	}
	return nil
}

// walkDefinitions walks a definitions schema: every entry of the definitions
// list, then the inner schema. In rewriting mode entries that no longer
// carry a ref are dropped from the list; replacing a definition with a
// definition-ref must not leave the placeholder in the definitions list.
func (w *walker) walkDefinitions(s *Schema) error {
	defs, ok := s.GetSlice(KeyDefinitions)
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingRequiredChild, KeyDefinitions)
	}

	if w.rewrite {
		newDefs := make([]any, 0, len(defs))
		for _, v := range defs {
			def, ok := v.(*Schema)
			if !ok {
				return fmt.Errorf("%w: %T", ErrInvalidDefinition, v)
			}
			res, err := w.visit(def)
			if err != nil {
				return err
			}
			if res.Has(KeyRef) {
				newDefs = append(newDefs, res)
			}
		}
		inner, ok := s.GetSchema(KeySchema)
		if !ok {
			return fmt.Errorf("%w: %q", ErrMissingRequiredChild, KeySchema)
		}
		newInner, err := w.visit(inner)
		if err != nil {
			return err
		}
		s.Set(KeyDefinitions, newDefs)
		s.Set(KeySchema, newInner)
		return nil
	}

	for _, v := range defs {
		def, ok := v.(*Schema)
		if !ok {
			return fmt.Errorf("%w: %T", ErrInvalidDefinition, v)
		}
		res, err := w.visit(def)
		if err != nil {
			return err
		}
		if !res.Has(KeyRef) {
			typ, _ := res.Type()
			return fmt.Errorf("%w: %q schema", ErrDefinitionMissingRef, typ)
		}
	}
	inner, ok := s.GetSchema(KeySchema)
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingRequiredChild, KeySchema)
	}
	_, err := w.visit(inner)
	return err
}

func (w *walker) walkSerialization(s *Schema) error {
	ser, ok := s.GetSchema(KeySerialization)
	if !ok {
		return nil
	}
	if w.rewrite {
		newSer := ser.Clone()
		if err := w.walkKey(newSer, KeySchema); err != nil {
			return err
		}
		if err := w.walkKey(newSer, KeyReturnSchema); err != nil {
			return err
		}
		s.Set(KeySerialization, newSer)
		return nil
	}
	if err := w.walkKey(ser, KeySchema); err != nil {
		return err
	}
	return w.walkKey(ser, KeyReturnSchema)
}
