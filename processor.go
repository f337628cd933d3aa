package coreschema

import (
	"fmt"
	"strings"
	"sync"
)

// Media types with built-in document parsers.
const (
	MediaTypeJSON = "application/json"
	MediaTypeYAML = "application/yaml"
)

// SchemaParser decodes a schema document from raw bytes.
type SchemaParser func(data []byte) (*Schema, error)

// Processor bundles the rewriting operations with host configuration:
// media-type parsers for schema documents, named discriminator resolvers,
// and behaviour options. A Processor is safe for concurrent use; each call
// still requires exclusive ownership of the schema tree it is given.
type Processor struct {
	mu         sync.RWMutex
	mediaTypes map[string]SchemaParser
	resolvers  map[string]DiscriminatorResolver
	inline     bool
	strictRefs bool
}

// NewProcessor creates a Processor with JSON and YAML document parsers
// registered.
func NewProcessor() *Processor {
	p := &Processor{
		mediaTypes: make(map[string]SchemaParser),
		resolvers:  make(map[string]DiscriminatorResolver),
	}
	p.mediaTypes[MediaTypeJSON] = ParseJSON
	p.mediaTypes[MediaTypeYAML] = ParseYAML
	return p
}

// SetInline enables inlining of single-use references during Simplify.
func (p *Processor) SetInline(inline bool) *Processor {
	p.mu.Lock()
	p.inline = inline
	p.mu.Unlock()
	return p
}

// SetStrictRefs makes Gather fail on schema_ref targets missing from the
// definitions table instead of tolerating them.
func (p *Processor) SetStrictRefs(strict bool) *Processor {
	p.mu.Lock()
	p.strictRefs = strict
	p.mu.Unlock()
	return p
}

// RegisterMediaType adds a document parser for a media type.
func (p *Processor) RegisterMediaType(mediaType string, parser SchemaParser) *Processor {
	p.mu.Lock()
	p.mediaTypes[mediaType] = parser
	p.mu.Unlock()
	return p
}

// RegisterResolver adds a named discriminator resolver.
func (p *Processor) RegisterResolver(name string, resolver DiscriminatorResolver) *Processor {
	p.mu.Lock()
	p.resolvers[name] = resolver
	p.mu.Unlock()
	return p
}

// Parse decodes a schema document. An empty media type defaults to JSON.
func (p *Processor) Parse(data []byte, mediaType string) (*Schema, error) {
	if mediaType == "" {
		mediaType = MediaTypeJSON
	}
	p.mu.RLock()
	parser, ok := p.mediaTypes[mediaType]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMediaType, mediaType)
	}
	return parser(data)
}

// Simplify runs reference simplification with the configured inline option.
func (p *Processor) Simplify(schema *Schema) (*Schema, error) {
	p.mu.RLock()
	inline := p.inline
	p.mu.RUnlock()
	return SimplifySchemaReferences(schema, inline)
}

// Gather reports reference sites, recursive refs and deferred discriminators
// for the tree. With strict refs enabled, referenced targets missing from
// definitions fail with ErrMissingDefinition.
func (p *Processor) Gather(schema *Schema, definitions *DefinitionTable) (*GatherResult, error) {
	res, err := GatherSchemasForCleaning(schema, definitions)
	if err != nil {
		return nil, err
	}

	p.mu.RLock()
	strict := p.strictRefs
	p.mu.RUnlock()
	if strict {
		var missing []string
		for ref := range res.DefinitionRefs.All() {
			if !definitions.Has(ref) {
				missing = append(missing, ref)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingDefinition, strings.Join(missing, ", "))
		}
	}
	return res, nil
}

// ApplyDiscriminators rewrites deferred discriminator annotations using the
// named registered resolver.
func (p *Processor) ApplyDiscriminators(schema *Schema, resolverName string) error {
	p.mu.RLock()
	resolver, ok := p.resolvers[resolverName]
	p.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownResolver, resolverName)
	}
	return ApplyDiscriminators(schema, resolver)
}
