package coreschema

// Schema type tags with dedicated traversal behaviour. Tags not listed here
// are walked through their default `schema` child, which keeps the walker
// forward-compatible with new node kinds.
const (
	TypeDefinitions   = "definitions"
	TypeDefinitionRef = "definition-ref"

	TypeList          = "list"
	TypeSet           = "set"
	TypeFrozenSet     = "frozenset"
	TypeGenerator     = "generator"
	TypeTuple         = "tuple"
	TypeTuplePos      = "tuple-positional"
	TypeTupleVar      = "tuple-variable"
	TypeDict          = "dict"
	TypeFunction      = "function"
	TypeFunctionPlain = "function-plain"
	TypeFunctionWrap  = "function-wrap"
	TypeComputedField = "computed-field"
	TypeUnion         = "union"
	TypeTaggedUnion   = "tagged-union"
	TypeChain         = "chain"
	TypeLaxOrStrict   = "lax-or-strict"
	TypeJSONOrPython  = "json-or-python"
	TypeModelFields   = "model-fields"
	TypeTypedDict     = "typed-dict"
	TypeDataclassArgs = "dataclass-args"
	TypeArguments     = "arguments"
	TypeCall          = "call"
)

// Reserved record keys. Every other key on a schema node is opaque payload
// and is preserved across rewrites.
const (
	KeyType          = "type"
	KeyRef           = "ref"
	KeySchemaRef     = "schema_ref"
	KeySchema        = "schema"
	KeyReturnSchema  = "return_schema"
	KeySerialization = "serialization"
	KeyMetadata      = "metadata"
	KeyDefinitions   = "definitions"
)

// Reserved metadata keys.
const (
	// MetadataDiscriminatorKey marks a union whose discriminator resolution
	// has been deferred to the host.
	MetadataDiscriminatorKey = "pydantic.internal.union_discriminator"

	// MetadataInvalidKey marks a schema as invalid. Invalid definitions lose
	// to valid definitions with the same ref when tables are merged.
	MetadataInvalidKey = "invalid"
)
