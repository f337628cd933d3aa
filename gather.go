package coreschema

import (
	"github.com/speakeasy-api/openapi/sequencedmap"
)

// DeferredDiscriminator is a discriminator annotation found during
// gathering, paired with the node carrying it. The annotation value is
// reported as found; only string values are later actionable by
// ApplyDiscriminators.
type DeferredDiscriminator struct {
	Schema        *Schema
	Discriminator any
}

// GatherResult is the report produced by GatherSchemasForCleaning.
type GatherResult struct {
	// DefinitionRefs maps each referenced ref to the definition-ref sites
	// pointing at it, in traversal order.
	DefinitionRefs *sequencedmap.Map[string, []*Schema]

	// RecursiveRefs holds every ref involved in at least one reference cycle.
	RecursiveRefs map[string]struct{}

	// DeferredDiscriminators lists discriminator annotations the host must
	// resolve, in traversal order.
	DeferredDiscriminators []DeferredDiscriminator
}

// gatherer is a read-only traversal keeping an explicit set of refs
// currently being descended into, so reference cycles terminate without
// relying on the call stack.
type gatherer struct {
	definitions *DefinitionTable
	res         *GatherResult
	seen        map[string]struct{}
}

// GatherSchemasForCleaning reports the definition-ref sites reachable from
// schema, the subset of refs involved in recursion, and the deferred
// discriminator annotations. Refs whose target is missing from definitions
// are recorded without descending; detecting them is left to the caller.
func GatherSchemasForCleaning(schema *Schema, definitions *DefinitionTable) (*GatherResult, error) {
	g := &gatherer{
		definitions: definitions,
		res: &GatherResult{
			DefinitionRefs: sequencedmap.New[string, []*Schema](),
			RecursiveRefs:  make(map[string]struct{}),
		},
		seen: make(map[string]struct{}),
	}
	if err := g.schema(schema); err != nil {
		return nil, err
	}
	return g.res, nil
}

func (g *gatherer) schema(s *Schema) error {
	typ, err := s.Type()
	if err != nil {
		return err
	}

	switch typ {
	case TypeDefinitionRef:
		return g.definitionRef(s)
	case TypeDefinitions:
		if err := g.key(s, KeySchema); err != nil {
			return err
		}
		if err := g.list(s, KeyDefinitions); err != nil {
			return err
		}
	case TypeList, TypeSet, TypeFrozenSet, TypeGenerator, TypeTupleVar:
		if err := g.key(s, "items_schema"); err != nil {
			return err
		}
	case TypeTuple:
		if err := g.list(s, "items_schema"); err != nil {
			return err
		}
	case TypeTuplePos:
		if err := g.list(s, "items_schema"); err != nil {
			return err
		}
		if err := g.key(s, "extra_schema"); err != nil {
			return err
		}
	case TypeDict:
		if err := g.key(s, "keys_schema"); err != nil {
			return err
		}
		if err := g.key(s, "values_schema"); err != nil {
			return err
		}
	case TypeUnion:
		if err := g.unionChoices(s); err != nil {
			return err
		}
	case TypeTaggedUnion:
		if err := g.mapping(s, "choices"); err != nil {
			return err
		}
	case TypeChain:
		if err := g.list(s, "steps"); err != nil {
			return err
		}
	case TypeLaxOrStrict:
		if err := g.key(s, "lax_schema"); err != nil {
			return err
		}
		if err := g.key(s, "strict_schema"); err != nil {
			return err
		}
	case TypeJSONOrPython:
		if err := g.key(s, "json_schema"); err != nil {
			return err
		}
		if err := g.key(s, "python_schema"); err != nil {
			return err
		}
	case TypeModelFields, TypeTypedDict:
		// Field wrapper records carry their own type tags (model-field,
		// typed-dict-field, computed-field) and are gathered as schemas.
		if err := g.key(s, "extras_schema"); err != nil {
			return err
		}
		if err := g.key(s, "extra_validator"); err != nil {
			return err
		}
		if err := g.list(s, "computed_fields"); err != nil {
			return err
		}
		if err := g.mapping(s, "fields"); err != nil {
			return err
		}
	case TypeDataclassArgs:
		if err := g.list(s, "computed_fields"); err != nil {
			return err
		}
		if err := g.list(s, "fields"); err != nil {
			return err
		}
	case TypeArguments:
		if err := g.argumentsList(s, "arguments_schema"); err != nil {
			return err
		}
		if err := g.key(s, "var_args_schema"); err != nil {
			return err
		}
		if err := g.key(s, "var_kwargs_schema"); err != nil {
			return err
		}
	case TypeCall:
		if err := g.key(s, "arguments_schema"); err != nil {
			return err
		}
		if err := g.key(s, KeyReturnSchema); err != nil {
			return err
		}
	case TypeComputedField, TypeFunctionPlain:
		if err := g.key(s, KeyReturnSchema); err != nil {
			return err
		}
	case TypeFunctionWrap:
		if err := g.key(s, KeyReturnSchema); err != nil {
			return err
		}
		if err := g.key(s, KeySchema); err != nil {
			return err
		}
	default:
		if err := g.key(s, KeySchema); err != nil {
			return err
		}
	}

	if err := g.key(s, KeySerialization); err != nil {
		return err
	}
	return g.meta(s)
}

// definitionRef handles a reference site. First encounters record the site
// and descend into the target definition; a ref already being descended into
// closes a cycle, so it and every currently descending ref join the
// recursion set instead.
func (g *gatherer) definitionRef(s *Schema) error {
	ref, ok := s.GetString(KeySchemaRef)
	if !ok {
		return ErrMissingSchemaRef
	}

	if _, descending := g.seen[ref]; descending {
		g.res.RecursiveRefs[ref] = struct{}{}
		for seenRef := range g.seen {
			g.res.RecursiveRefs[seenRef] = struct{}{}
		}
		return nil
	}

	sites, _ := g.res.DefinitionRefs.Get(ref)
	g.res.DefinitionRefs.Set(ref, append(sites, s))

	// A missing target is tolerated here; surfacing it is the caller's
	// concern (see Processor.Gather for the strict contract).
	definition, ok := g.definitions.Get(ref)
	if !ok {
		return nil
	}

	g.seen[ref] = struct{}{}
	if err := g.schema(definition); err != nil {
		return err
	}
	if err := g.key(s, KeySerialization); err != nil {
		return err
	}
	if err := g.meta(s); err != nil {
		return err
	}
	delete(g.seen, ref)
	return nil
}

func (g *gatherer) meta(s *Schema) error {
	meta, ok := s.Metadata()
	if !ok {
		return nil
	}
	if discriminator, ok := meta.Get(MetadataDiscriminatorKey); ok {
		g.res.DeferredDiscriminators = append(g.res.DeferredDiscriminators, DeferredDiscriminator{
			Schema:        s,
			Discriminator: discriminator,
		})
	}
	return nil
}

func (g *gatherer) key(s *Schema, key string) error {
	child, ok := s.GetSchema(key)
	if !ok {
		return nil
	}
	return g.schema(child)
}

func (g *gatherer) list(s *Schema, key string) error {
	items, ok := s.GetSlice(key)
	if !ok {
		return nil
	}
	for _, item := range items {
		if sub, ok := item.(*Schema); ok {
			if err := g.schema(sub); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *gatherer) mapping(s *Schema, key string) error {
	record, ok := s.GetSchema(key)
	if !ok {
		return nil
	}
	for _, v := range record.All() {
		if sub, ok := v.(*Schema); ok {
			if err := g.schema(sub); err != nil {
				return err
			}
		}
	}
	return nil
}

// unionChoices walks a union's choices, unwrapping (schema, tag) pairs to
// their schema child.
func (g *gatherer) unionChoices(s *Schema) error {
	items, ok := s.GetSlice("choices")
	if !ok {
		return nil
	}
	for _, item := range items {
		switch v := item.(type) {
		case *Schema:
			if err := g.schema(v); err != nil {
				return err
			}
		case []any:
			if len(v) > 0 {
				if sub, ok := v[0].(*Schema); ok {
					if err := g.schema(sub); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// argumentsList walks a list of argument parameter records. Parameters are
// bare {name, schema} records without a type tag, so only their schema child
// is gathered.
func (g *gatherer) argumentsList(s *Schema, key string) error {
	items, ok := s.GetSlice(key)
	if !ok {
		return nil
	}
	for _, item := range items {
		if param, ok := item.(*Schema); ok {
			if err := g.key(param, KeySchema); err != nil {
				return err
			}
		}
	}
	return nil
}
