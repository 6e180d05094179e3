// Package schemaforge provides the normalization and reference-resolution core
// of a schema interchange toolkit:
//
// - A canonical type graph shared by every source and target dialect (typegraph)
// - A per-run type registry with namespace-aware lookup (registry)
// - Reference resolution with cycle tolerance and deterministic emission order (resolve)
// - Composition flattening for allOf/anyOf/oneOf constructs (compose)
// - Pattern-map detection for open-ended object shapes (patternmap)
// - Parsing Canonical Form and fingerprints for schema equivalence (canonical)
// - A stable error model via Issues (JSON Pointer, code, message)
//
// Design policy:
// - Keep only the shared error model and small public contracts in the root package.
// - Place each pipeline pass under its own package; orchestration under normalize/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	res, err := normalize.Normalize(ctx, doc, normalize.Options{})
//	form, err := canonical.Format(res.Root)
//	fp := canonical.Rabin64(form)
package schemaforge
