package coreschema

import "errors"

// === Structural Errors ===
var (
	// ErrMissingType is returned when a schema node has no `type` tag.
	ErrMissingType = errors.New("schema type missing")

	// ErrInvalidTypeValue is returned when a schema node's `type` tag is not a string.
	ErrInvalidTypeValue = errors.New("schema type is not a string")

	// ErrMissingRequiredChild is returned when a structural child position required by the node's type is absent.
	ErrMissingRequiredChild = errors.New("required child schema missing")

	// ErrInvalidDefinition is returned when an entry of a definitions list is not a schema record.
	ErrInvalidDefinition = errors.New("definitions entry is not a schema")

	// ErrDefinitionMissingRef is returned when a definitions entry carries no ref.
	ErrDefinitionMissingRef = errors.New("definition schema missing ref")

	// ErrMissingSchemaRef is returned when a definition-ref node has no schema_ref.
	ErrMissingSchemaRef = errors.New("definition-ref missing schema_ref")

	// ErrMissingDefinition is returned when a schema_ref points to no entry of the definitions table.
	ErrMissingDefinition = errors.New("definition not found for schema_ref")
)

// === Internal Invariant Violations ===
//
// These indicate a bug in the rewriter rather than a malformed schema; they
// are not recoverable by the caller.
var (
	// ErrUnexpectedDefinitions is returned when a definitions schema survives
	// into a flatten pass; extraction removes them all first.
	ErrUnexpectedDefinitions = errors.New("internal: definitions schema encountered after extraction")

	// ErrInternalCounting is returned when the reference counter finishes with
	// a non-zero descent depth.
	ErrInternalCounting = errors.New("internal: reference count depth tracking corrupted")
)

// === Document Parsing Errors ===
var (
	// ErrJSONDecode is returned when a JSON schema document cannot be decoded.
	ErrJSONDecode = errors.New("json decode failed")

	// ErrYAMLDecode is returned when a YAML schema document cannot be decoded.
	ErrYAMLDecode = errors.New("yaml decode failed")

	// ErrInvalidDocument is returned when a decoded document is not a record at the top level.
	ErrInvalidDocument = errors.New("schema document is not an object")
)

// === Processor Errors ===
var (
	// ErrUnknownMediaType is returned when no parser is registered for the requested media type.
	ErrUnknownMediaType = errors.New("no parser registered for media type")

	// ErrUnknownResolver is returned when no discriminator resolver is registered under the requested name.
	ErrUnknownResolver = errors.New("no discriminator resolver registered")
)
