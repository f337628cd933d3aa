// Package coreschema rewrites pydantic core schemas: self-describing trees of
// tagged records that describe validation and serialization shapes.
//
// The package offers four families of operation over a schema tree:
//
//   - Reference simplification: lift inline definitions into a flat table,
//     replace their sites with definition-ref nodes, and optionally inline
//     references used exactly once outside any cycle
//     (SimplifySchemaReferences, CollectRefs, FlattenRefs).
//   - Read-only collection: sweep a tree for definitions, ref names, or
//     invalid schemas (CollectDefinitions, CollectRefNames,
//     CollectInvalidSchemas).
//   - Gathering: report reference sites, refs involved in recursion, and
//     deferred discriminator annotations (GatherSchemasForCleaning).
//   - Discriminator application: rewrite annotated nodes in place with a
//     host-supplied resolver (ApplyDiscriminators).
//
// Schema nodes are dynamic tagged records with insertion-ordered keys, so
// traversal and output are deterministic and unknown payload keys survive
// rewrites untouched. Trees can be built programmatically (see the builder
// functions such as Int, List, Union and Definitions) or parsed from JSON or
// YAML documents (ParseJSON, ParseYAML, Processor).
package coreschema
