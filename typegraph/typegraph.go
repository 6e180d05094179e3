// Package typegraph defines the canonical type graph shared by all schema
// dialects. Every source parser lowers into this model and every target
// emitter consumes it.
//
// TypeNode is a single tagged-variant node (switch on Kind) rather than a
// class hierarchy, so new kinds can be added without reshaping consumers.
// Named nodes are owned by the registry for one conversion run; all other
// holders keep references, never copies, which makes cyclic graphs naturally
// representable.
package typegraph

import "strings"

// Kind identifies a TypeNode variant.
type Kind int

const (
	KindPrimitive Kind = iota
	KindLogical
	KindRecord
	KindEnum
	KindFixed
	KindArray
	KindMap
	KindUnion
	KindChoice

	// Transient kinds. These exist only between parsing and the resolution
	// passes; a fully normalized graph contains none of them except
	// KindUnresolved, which marks branches whose external reference could
	// not be fetched.
	KindRef
	KindAllOf
	KindAnyOf
	KindOneOf
	KindUnresolved
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindLogical:
		return "logical"
	case KindRecord:
		return "record"
	case KindEnum:
		return "enum"
	case KindFixed:
		return "fixed"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindUnion:
		return "union"
	case KindChoice:
		return "choice"
	case KindRef:
		return "ref"
	case KindAllOf:
		return "allOf"
	case KindAnyOf:
		return "anyOf"
	case KindOneOf:
		return "oneOf"
	case KindUnresolved:
		return "unresolved"
	}
	return "unknown"
}

// AltJSON is the purpose key under which original (pre-normalization)
// identifiers are preserved for round-tripping.
const AltJSON = "json"

// FieldOrder mirrors the sort-order annotation on record fields.
type FieldOrder string

const (
	OrderAscending  FieldOrder = "ascending"
	OrderDescending FieldOrder = "descending"
	OrderIgnore     FieldOrder = "ignore"
)

// Variant is one branch of a union or choice. For choice kinds exactly one of
// DiscriminatorValue or RequiredFields is set, recording how a decoder picks
// this branch without external hints.
type Variant struct {
	Type *TypeNode
	// DiscriminatorValue is the constant value of the shared discriminator
	// field that selects this variant (tagged pattern).
	DiscriminatorValue string
	// RequiredFields is the sorted set of required field names unique to this
	// variant (simple pattern).
	RequiredFields []string
}

// KeyPattern restricts map keys (or, transiently, a patternProperties entry on
// a record before pattern-map detection runs).
type KeyPattern struct {
	Pattern string
	Value   *TypeNode
}

// TypeNode is the universal element of the canonical graph.
type TypeNode struct {
	Kind Kind

	// Named kinds (record, enum, fixed).
	Name      string
	Namespace string
	Aliases   []string          // alternate fullnames accepted as synonyms
	Altnames  map[string]string // purpose key -> alternate name (e.g. "json")
	Doc       string
	Docs      map[string]string // language tag -> documentation

	// Primitive / logical.
	Primitive   string // primitive token: "null","boolean","int","long","float","double","bytes","string"
	LogicalType string
	Precision   int
	Scale       int

	// Record.
	Fields []*FieldNode

	// Enum.
	Symbols    []string
	Altsymbols map[string]map[string]string // purpose key -> symbol -> alternate

	// Array / map.
	Items         *TypeNode
	Values        *TypeNode
	KeyConstraint string // regex restricting permitted map keys; empty means unrestricted

	// Union / choice / transient composition operands.
	Variants []Variant

	// Fixed.
	Size int

	// Ref / Unresolved: the reference expression as written, plus the
	// namespace context it must be resolved in.
	RefName      string
	RefNamespace string

	// Transient open-member shape captured from the source document and
	// consumed by the pattern-map detector.
	KeyPatterns []KeyPattern
	OpenValues  *TypeNode // additional-members value type; nil means closed
	Open        bool      // true when the catch-all is fully unconstrained

	// Extensions holds unrecognized source attributes, passed through opaquely.
	Extensions map[string]any
}

// FieldNode is a single record field.
type FieldNode struct {
	Name       string
	Type       *TypeNode
	Default    any
	HasDefault bool
	Order      FieldOrder
	Aliases    []string
	Altnames   map[string]string
	Doc        string
	Docs       map[string]string
	// Required is object-shape requiredness from open-shape dialects; Avro-style
	// records treat every field without a default as required.
	Required bool
}

// Fullname returns the namespace-qualified name of a named node, or "" for
// anonymous kinds.
func (n *TypeNode) Fullname() string {
	if !n.IsNamed() || n.Name == "" {
		return ""
	}
	if n.Namespace == "" {
		return n.Name
	}
	return n.Namespace + "." + n.Name
}

// IsNamed reports whether the node's kind carries a fullname.
func (n *TypeNode) IsNamed() bool {
	switch n.Kind {
	case KindRecord, KindEnum, KindFixed:
		return true
	}
	return false
}

// SetAltname records an alternate name under the given purpose key, creating
// the map on first use.
func (n *TypeNode) SetAltname(purpose, alt string) {
	if n.Altnames == nil {
		n.Altnames = map[string]string{}
	}
	n.Altnames[purpose] = alt
}

// SetAltname records an alternate field name under the given purpose key.
func (f *FieldNode) SetAltname(purpose, alt string) {
	if f.Altnames == nil {
		f.Altnames = map[string]string{}
	}
	f.Altnames[purpose] = alt
}

// AddAlias appends an alias fullname, skipping duplicates and the node's own
// fullname (an alias never names the node itself).
func (n *TypeNode) AddAlias(alias string) {
	if alias == "" || alias == n.Fullname() {
		return
	}
	for _, a := range n.Aliases {
		if a == alias {
			return
		}
	}
	n.Aliases = append(n.Aliases, alias)
}

// SetExtension stores an unrecognized source attribute.
func (n *TypeNode) SetExtension(key string, v any) {
	if n.Extensions == nil {
		n.Extensions = map[string]any{}
	}
	n.Extensions[key] = v
}

// NewPrimitive returns a primitive node for the given token.
func NewPrimitive(name string) *TypeNode {
	return &TypeNode{Kind: KindPrimitive, Primitive: name}
}

// NewRef returns an unbound reference node to be resolved against a registry.
func NewRef(name, contextNamespace string) *TypeNode {
	return &TypeNode{Kind: KindRef, RefName: name, RefNamespace: contextNamespace}
}

// PrimitiveNames lists the primitive tokens understood by the canonical model.
var PrimitiveNames = []string{"null", "boolean", "int", "long", "float", "double", "bytes", "string"}

// IsPrimitiveName reports whether s is a canonical primitive token.
func IsPrimitiveName(s string) bool {
	for _, p := range PrimitiveNames {
		if p == s {
			return true
		}
	}
	return false
}

// SplitFullname splits a dotted fullname into namespace and local name.
func SplitFullname(full string) (namespace, name string) {
	if i := strings.LastIndex(full, "."); i >= 0 {
		return full[:i], full[i+1:]
	}
	return "", full
}
