package coreschema

// Keyword applies an optional attribute to a schema under construction.
type Keyword func(*Schema)

// WithRef sets the node's stable ref identifier.
func WithRef(ref string) Keyword {
	return func(s *Schema) { s.Set(KeyRef, ref) }
}

// WithKey sets an arbitrary payload key.
func WithKey(key string, value any) Keyword {
	return func(s *Schema) { s.Set(key, value) }
}

// WithMetadata sets the node's metadata record.
func WithMetadata(meta *Schema) Keyword {
	return func(s *Schema) { s.Set(KeyMetadata, meta) }
}

// WithMetadataKey sets one key of the node's metadata record, creating the
// record if needed.
func WithMetadataKey(key string, value any) Keyword {
	return func(s *Schema) { metadataOf(s).Set(key, value) }
}

// WithInvalid marks the node invalid.
func WithInvalid() Keyword {
	return WithMetadataKey(MetadataInvalidKey, true)
}

// WithDiscriminator attaches a deferred discriminator annotation.
func WithDiscriminator(discriminator string) Keyword {
	return WithMetadataKey(MetadataDiscriminatorKey, discriminator)
}

// WithSerialization attaches a serialization side-schema.
func WithSerialization(ser *Schema) Keyword {
	return func(s *Schema) { s.Set(KeySerialization, ser) }
}

// Typed creates a schema with the given type tag and applies keywords.
func Typed(typ string, keywords ...Keyword) *Schema {
	s := New()
	s.Set(KeyType, typ)
	for _, kw := range keywords {
		kw(s)
	}
	return s
}

// Int creates an int schema.
func Int(keywords ...Keyword) *Schema { return Typed("int", keywords...) }

// Str creates a str schema.
func Str(keywords ...Keyword) *Schema { return Typed("str", keywords...) }

// Bool creates a bool schema.
func Bool(keywords ...Keyword) *Schema { return Typed("bool", keywords...) }

// Float creates a float schema.
func Float(keywords ...Keyword) *Schema { return Typed("float", keywords...) }

// Any creates an any schema.
func Any(keywords ...Keyword) *Schema { return Typed("any", keywords...) }

// List creates a list schema over the given item schema.
func List(items *Schema, keywords ...Keyword) *Schema {
	return Typed(TypeList, prepend(WithKey("items_schema", items), keywords)...)
}

// Set creates a set schema over the given item schema.
func Set(items *Schema, keywords ...Keyword) *Schema {
	return Typed(TypeSet, prepend(WithKey("items_schema", items), keywords)...)
}

// FrozenSet creates a frozenset schema over the given item schema.
func FrozenSet(items *Schema, keywords ...Keyword) *Schema {
	return Typed(TypeFrozenSet, prepend(WithKey("items_schema", items), keywords)...)
}

// Generator creates a generator schema over the given item schema.
func Generator(items *Schema, keywords ...Keyword) *Schema {
	return Typed(TypeGenerator, prepend(WithKey("items_schema", items), keywords)...)
}

// Tuple creates a tuple schema over the given positional item schemas.
func Tuple(items []*Schema, keywords ...Keyword) *Schema {
	return Typed(TypeTuple, prepend(WithKey("items_schema", toAnySlice(items)), keywords)...)
}

// TupleVariable creates a tuple-variable schema over the given item schema.
func TupleVariable(items *Schema, keywords ...Keyword) *Schema {
	return Typed(TypeTupleVar, prepend(WithKey("items_schema", items), keywords)...)
}

// Dict creates a dict schema over the given key and value schemas.
func Dict(keys, values *Schema, keywords ...Keyword) *Schema {
	kws := append([]Keyword{WithKey("keys_schema", keys), WithKey("values_schema", values)}, keywords...)
	return Typed(TypeDict, kws...)
}

// Tagged pairs a union choice with an explicit tag.
func Tagged(schema *Schema, tag any) []any {
	return []any{schema, tag}
}

// Union creates a union schema. Items may be choice schemas, Tagged pairs,
// or Keywords.
func Union(items ...any) *Schema {
	s := Typed(TypeUnion)
	choices := make([]any, 0, len(items))
	var kws []Keyword
	for _, item := range items {
		switch v := item.(type) {
		case Keyword:
			kws = append(kws, v)
		default:
			choices = append(choices, v)
		}
	}
	s.Set("choices", choices)
	applyKeywords(s, kws)
	return s
}

// Choice is one entry of a tagged union: a discriminator tag mapped to a
// choice schema or a redirect tag.
type Choice struct {
	Tag   string
	Value any
}

// ChoiceOf creates a tagged-union choice entry.
func ChoiceOf(tag string, value any) Choice {
	return Choice{Tag: tag, Value: value}
}

// TaggedUnion creates a tagged-union schema. Items may be Choice entries or
// Keywords.
func TaggedUnion(items ...any) *Schema {
	s := Typed(TypeTaggedUnion)
	choices := New()
	var kws []Keyword
	for _, item := range items {
		switch v := item.(type) {
		case Choice:
			choices.Set(v.Tag, v.Value)
		case Keyword:
			kws = append(kws, v)
		}
	}
	s.Set("choices", choices)
	applyKeywords(s, kws)
	return s
}

// Chain creates a chain schema. Items may be step schemas or Keywords.
func Chain(items ...any) *Schema {
	s := Typed(TypeChain)
	steps := make([]any, 0, len(items))
	var kws []Keyword
	for _, item := range items {
		switch v := item.(type) {
		case Keyword:
			kws = append(kws, v)
		default:
			steps = append(steps, v)
		}
	}
	s.Set("steps", steps)
	applyKeywords(s, kws)
	return s
}

// LaxOrStrict creates a lax-or-strict schema.
func LaxOrStrict(lax, strict *Schema, keywords ...Keyword) *Schema {
	kws := append([]Keyword{WithKey("lax_schema", lax), WithKey("strict_schema", strict)}, keywords...)
	return Typed(TypeLaxOrStrict, kws...)
}

// JSONOrPython creates a json-or-python schema.
func JSONOrPython(jsonSchema, pythonSchema *Schema, keywords ...Keyword) *Schema {
	kws := append([]Keyword{WithKey("json_schema", jsonSchema), WithKey("python_schema", pythonSchema)}, keywords...)
	return Typed(TypeJSONOrPython, kws...)
}

// Field is a named field of a model-fields, typed-dict or dataclass-args
// schema.
type Field struct {
	Name   string
	Schema *Schema
}

// FieldOf creates a field definition.
func FieldOf(name string, schema *Schema) Field {
	return Field{Name: name, Schema: schema}
}

// ComputedField is a computed field with a return schema.
type ComputedField struct {
	Name         string
	ReturnSchema *Schema
}

// ComputedFieldOf creates a computed field definition.
func ComputedFieldOf(name string, returnSchema *Schema) ComputedField {
	return ComputedField{Name: name, ReturnSchema: returnSchema}
}

// ModelFields creates a model-fields schema. Items may be Field entries,
// ComputedField entries, or Keywords.
func ModelFields(items ...any) *Schema {
	return fieldsContainer(TypeModelFields, "model-field", items)
}

// TypedDict creates a typed-dict schema. Items may be Field entries,
// ComputedField entries, or Keywords.
func TypedDict(items ...any) *Schema {
	return fieldsContainer(TypeTypedDict, "typed-dict-field", items)
}

func fieldsContainer(typ, fieldType string, items []any) *Schema {
	s := Typed(typ)
	fields := New()
	var computed []any
	var kws []Keyword
	for _, item := range items {
		switch v := item.(type) {
		case Field:
			wrapper := Typed(fieldType)
			wrapper.Set(KeySchema, v.Schema)
			fields.Set(v.Name, wrapper)
		case ComputedField:
			computed = append(computed, computedFieldWrapper(v))
		case Keyword:
			kws = append(kws, v)
		}
	}
	s.Set("fields", fields)
	if computed != nil {
		s.Set("computed_fields", computed)
	}
	applyKeywords(s, kws)
	return s
}

// DataclassArgs creates a dataclass-args schema. Items may be Field entries,
// ComputedField entries, or Keywords.
func DataclassArgs(items ...any) *Schema {
	s := Typed(TypeDataclassArgs)
	var fields []any
	var computed []any
	var kws []Keyword
	for _, item := range items {
		switch v := item.(type) {
		case Field:
			wrapper := Typed("dataclass-field")
			wrapper.Set("name", v.Name)
			wrapper.Set(KeySchema, v.Schema)
			fields = append(fields, wrapper)
		case ComputedField:
			computed = append(computed, computedFieldWrapper(v))
		case Keyword:
			kws = append(kws, v)
		}
	}
	if fields == nil {
		fields = []any{}
	}
	s.Set("fields", fields)
	if computed != nil {
		s.Set("computed_fields", computed)
	}
	applyKeywords(s, kws)
	return s
}

func computedFieldWrapper(cf ComputedField) *Schema {
	wrapper := Typed(TypeComputedField)
	wrapper.Set("property_name", cf.Name)
	wrapper.Set(KeyReturnSchema, cf.ReturnSchema)
	return wrapper
}

// Parameter is one positional or keyword parameter of an arguments schema.
type Parameter struct {
	Name   string
	Schema *Schema
}

// Param creates an arguments parameter.
func Param(name string, schema *Schema) Parameter {
	return Parameter{Name: name, Schema: schema}
}

// Arguments creates an arguments schema. Items may be Parameter entries or
// Keywords (use WithKey for var_args_schema and var_kwargs_schema).
func Arguments(items ...any) *Schema {
	s := Typed(TypeArguments)
	params := make([]any, 0, len(items))
	var kws []Keyword
	for _, item := range items {
		switch v := item.(type) {
		case Parameter:
			param := New()
			param.Set("name", v.Name)
			param.Set(KeySchema, v.Schema)
			params = append(params, param)
		case Keyword:
			kws = append(kws, v)
		}
	}
	s.Set("arguments_schema", params)
	applyKeywords(s, kws)
	return s
}

// Call creates a call schema.
func Call(argumentsSchema, returnSchema *Schema, keywords ...Keyword) *Schema {
	kws := append([]Keyword{WithKey("arguments_schema", argumentsSchema), WithKey(KeyReturnSchema, returnSchema)}, keywords...)
	return Typed(TypeCall, kws...)
}

// DefinitionRef creates a definition-ref schema pointing at ref.
func DefinitionRef(ref string, keywords ...Keyword) *Schema {
	return Typed(TypeDefinitionRef, prepend(WithKey(KeySchemaRef, ref), keywords)...)
}

// Definitions wraps a schema together with its inline definitions.
func Definitions(schema *Schema, definitions ...*Schema) *Schema {
	s := Typed(TypeDefinitions)
	s.Set(KeySchema, schema)
	s.Set(KeyDefinitions, toAnySlice(definitions))
	return s
}

func applyKeywords(s *Schema, keywords []Keyword) {
	for _, kw := range keywords {
		kw(s)
	}
}

func prepend(kw Keyword, keywords []Keyword) []Keyword {
	return append([]Keyword{kw}, keywords...)
}

func toAnySlice(schemas []*Schema) []any {
	res := make([]any, 0, len(schemas))
	for _, s := range schemas {
		res = append(res, s)
	}
	return res
}
