package typegraph

import "reflect"

// Equal reports structural equality of two subgraphs. Documentation, aliases,
// alternate names and extensions do not participate: two declarations that
// differ only in those collapse to one node at registration time.
//
// The walk is cycle-safe: a pointer pair already under comparison is assumed
// equal, which gives the correct fixed-point semantics for recursive types.
func Equal(a, b *TypeNode) bool {
	return equalNode(a, b, map[[2]*TypeNode]bool{})
}

func equalNode(a, b *TypeNode, seen map[[2]*TypeNode]bool) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	key := [2]*TypeNode{a, b}
	if seen[key] {
		return true
	}
	seen[key] = true

	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindPrimitive, KindLogical:
		return a.Primitive == b.Primitive &&
			a.LogicalType == b.LogicalType &&
			a.Precision == b.Precision &&
			a.Scale == b.Scale
	case KindRecord:
		if a.Fullname() != b.Fullname() || len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if !equalField(a.Fields[i], b.Fields[i], seen) {
				return false
			}
		}
		return equalOpenShape(a, b, seen)
	case KindEnum:
		if a.Fullname() != b.Fullname() || len(a.Symbols) != len(b.Symbols) {
			return false
		}
		for i := range a.Symbols {
			if a.Symbols[i] != b.Symbols[i] {
				return false
			}
		}
		return true
	case KindFixed:
		return a.Fullname() == b.Fullname() && a.Size == b.Size
	case KindArray:
		return equalNode(a.Items, b.Items, seen)
	case KindMap:
		return a.KeyConstraint == b.KeyConstraint && equalNode(a.Values, b.Values, seen)
	case KindUnion, KindChoice, KindAllOf, KindAnyOf, KindOneOf:
		if len(a.Variants) != len(b.Variants) {
			return false
		}
		for i := range a.Variants {
			if !equalVariant(a.Variants[i], b.Variants[i], seen) {
				return false
			}
		}
		return true
	case KindRef, KindUnresolved:
		return a.RefName == b.RefName && a.RefNamespace == b.RefNamespace
	}
	return false
}

func equalField(a, b *FieldNode, seen map[[2]*TypeNode]bool) bool {
	if a.Name != b.Name || a.Required != b.Required || a.Order != b.Order {
		return false
	}
	if a.HasDefault != b.HasDefault {
		return false
	}
	if a.HasDefault && !reflect.DeepEqual(a.Default, b.Default) {
		return false
	}
	return equalNode(a.Type, b.Type, seen)
}

func equalVariant(a, b Variant, seen map[[2]*TypeNode]bool) bool {
	if a.DiscriminatorValue != b.DiscriminatorValue {
		return false
	}
	if len(a.RequiredFields) != len(b.RequiredFields) {
		return false
	}
	for i := range a.RequiredFields {
		if a.RequiredFields[i] != b.RequiredFields[i] {
			return false
		}
	}
	return equalNode(a.Type, b.Type, seen)
}

func equalOpenShape(a, b *TypeNode, seen map[[2]*TypeNode]bool) bool {
	if a.Open != b.Open || len(a.KeyPatterns) != len(b.KeyPatterns) {
		return false
	}
	for i := range a.KeyPatterns {
		if a.KeyPatterns[i].Pattern != b.KeyPatterns[i].Pattern {
			return false
		}
		if !equalNode(a.KeyPatterns[i].Value, b.KeyPatterns[i].Value, seen) {
			return false
		}
	}
	if (a.OpenValues == nil) != (b.OpenValues == nil) {
		return false
	}
	if a.OpenValues != nil && !equalNode(a.OpenValues, b.OpenValues, seen) {
		return false
	}
	return true
}
