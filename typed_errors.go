package schemaforge

import "fmt"

// NameNormalizationError is returned when an identifier normalizes to the
// empty string (the input had no identifier characters at all). It is
// recoverable: the caller supplies a fallback name and retries.
type NameNormalizationError struct {
	Input string
}

func (e *NameNormalizationError) Error() string {
	return fmt.Sprintf("name %q normalizes to an empty identifier", e.Input)
}

// DuplicateTypeConflictError is fatal for the conversion run: two structurally
// different definitions claim the same fullname. Both definitions are attached
// for diagnostics.
type DuplicateTypeConflictError struct {
	Fullname string
	Existing any
	Incoming any
}

func (e *DuplicateTypeConflictError) Error() string {
	return fmt.Sprintf("duplicate type %q with conflicting structure", e.Fullname)
}

// UnresolvedReferenceError marks a reference that could not be resolved after
// all candidate namespaces were tried. Fatal for the branch holding the
// reference; sibling branches continue.
type UnresolvedReferenceError struct {
	Name       string
	Namespace  string // context namespace the lookup started from
	Candidates []string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved type reference %q (context namespace %q)", e.Name, e.Namespace)
}

// ExternalReferenceError wraps a failure to fetch or parse an external
// document. Recoverable at the branch level: the branch resolves to an
// unresolved placeholder node.
type ExternalReferenceError struct {
	Ref string
	Err error
}

func (e *ExternalReferenceError) Error() string {
	return fmt.Sprintf("external reference %q: %v", e.Ref, e.Err)
}

func (e *ExternalReferenceError) Unwrap() error { return e.Err }

// InvalidCompositionError is fatal: an all-of merge found genuinely
// incompatible types for the same field (primitive vs. object) that cannot be
// unioned safely.
type InvalidCompositionError struct {
	Field  string
	Reason string
}

func (e *InvalidCompositionError) Error() string {
	return fmt.Sprintf("invalid composition at field %q: %s", e.Field, e.Reason)
}
