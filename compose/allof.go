package compose

import (
	"strconv"

	schemaforge "github.com/schemaforge/schemaforge"
	"github.com/schemaforge/schemaforge/typegraph"
)

// resolveAllOf merges the intersection of all operands into one node.
//
// Record operands merge field-by-field: the field sets union by name, a field
// required by any operand is required in the result, and a name defined with
// two different types becomes a union of both. A primitive-vs-record clash on
// one field name is fatal since overlapping key semantics would be ambiguous.
// Constraint attributes combine to the most restrictive value.
func (c *Resolver) resolveAllOf(n *typegraph.TypeNode, at schemaforge.PathRef) *typegraph.TypeNode {
	ops := operandTypes(n)
	if len(ops) == 0 {
		replaceInPlace(n, &typegraph.TypeNode{Kind: typegraph.KindRecord})
		return n
	}
	if len(ops) == 1 {
		return passthrough(n, ops[0])
	}

	if allRecords(ops) {
		merged := &typegraph.TypeNode{Kind: typegraph.KindRecord}
		index := map[string]*typegraph.FieldNode{}
		for _, op := range ops {
			for _, f := range op.Fields {
				existing, ok := index[f.Name]
				if !ok {
					cp := *f
					merged.Fields = append(merged.Fields, &cp)
					index[f.Name] = merged.Fields[len(merged.Fields)-1]
					continue
				}
				existing.Required = existing.Required || f.Required
				if typegraph.Equal(existing.Type, f.Type) {
					continue
				}
				if primitiveObjectClash(existing.Type, f.Type) {
					c.fatalf(at.Field(f.Name), &schemaforge.InvalidCompositionError{
						Field:  f.Name,
						Reason: "operands disagree between primitive and object for the same field",
					}, map[string]any{"field": f.Name})
					continue
				}
				existing.Type = &typegraph.TypeNode{
					Kind: typegraph.KindUnion,
					Variants: NormalizeVariants([]typegraph.Variant{
						{Type: existing.Type},
						{Type: f.Type},
					}),
				}
			}
			merged.Open = merged.Open || op.Open
			merged.KeyPatterns = append(merged.KeyPatterns, op.KeyPatterns...)
			if op.OpenValues != nil {
				if merged.OpenValues == nil {
					merged.OpenValues = op.OpenValues
				} else if !typegraph.Equal(merged.OpenValues, op.OpenValues) {
					merged.OpenValues = &typegraph.TypeNode{
						Kind: typegraph.KindUnion,
						Variants: NormalizeVariants([]typegraph.Variant{
							{Type: merged.OpenValues},
							{Type: op.OpenValues},
						}),
					}
				}
			}
			merged.Extensions = mergeConstraints(merged.Extensions, op.Extensions)
		}
		replaceInPlace(n, merged)
		return n
	}

	// Scalar intersection: identical primitives collapse; anything else has an
	// empty intersection.
	first := ops[0]
	for _, op := range ops[1:] {
		if !typegraph.Equal(first, op) {
			c.fatalf(at, &schemaforge.InvalidCompositionError{
				Reason: "all-of operands have an empty intersection",
			}, map[string]any{"kinds": kindList(ops)})
			return passthrough(n, first)
		}
	}
	return passthrough(n, first)
}

func operandTypes(n *typegraph.TypeNode) []*typegraph.TypeNode {
	ops := make([]*typegraph.TypeNode, 0, len(n.Variants))
	for _, v := range n.Variants {
		if v.Type != nil {
			ops = append(ops, v.Type)
		}
	}
	return ops
}

func allRecords(ops []*typegraph.TypeNode) bool {
	for _, op := range ops {
		if op.Kind != typegraph.KindRecord {
			return false
		}
	}
	return true
}

func primitiveObjectClash(a, b *typegraph.TypeNode) bool {
	scalar := func(k typegraph.Kind) bool {
		return k == typegraph.KindPrimitive || k == typegraph.KindLogical ||
			k == typegraph.KindEnum || k == typegraph.KindFixed
	}
	object := func(k typegraph.Kind) bool {
		return k == typegraph.KindRecord || k == typegraph.KindMap
	}
	return (scalar(a.Kind) && object(b.Kind)) || (object(a.Kind) && scalar(b.Kind))
}

func kindList(ops []*typegraph.TypeNode) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.Kind.String()
	}
	return out
}

// Constraint attribute keys carried through Extensions. Lower bounds take the
// highest value across operands, upper bounds the lowest.
var lowerBoundKeys = []string{"minimum", "exclusiveMinimum", "minLength", "minItems", "minProperties"}
var upperBoundKeys = []string{"maximum", "exclusiveMaximum", "maxLength", "maxItems", "maxProperties"}

func mergeConstraints(dst, src map[string]any) map[string]any {
	if src == nil {
		return dst
	}
	if dst == nil {
		dst = map[string]any{}
	}
	for _, k := range lowerBoundKeys {
		if sv, ok := src[k]; ok {
			if dv, ok := dst[k]; !ok || toFloat(sv) > toFloat(dv) {
				dst[k] = sv
			}
		}
	}
	for _, k := range upperBoundKeys {
		if sv, ok := src[k]; ok {
			if dv, ok := dst[k]; !ok || toFloat(sv) < toFloat(dv) {
				dst[k] = sv
			}
		}
	}
	for k, v := range src {
		if isBoundKey(k) {
			continue
		}
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
	return dst
}

func mergeExtensions(dst, src map[string]any) map[string]any {
	if src == nil {
		return dst
	}
	if dst == nil {
		return src
	}
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
	return dst
}

func isBoundKey(k string) bool {
	for _, b := range lowerBoundKeys {
		if b == k {
			return true
		}
	}
	for _, b := range upperBoundKeys {
		if b == k {
			return true
		}
	}
	return false
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case interface{ Float64() (float64, error) }: // json.Number
		f, _ := t.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	default:
		return 0
	}
}
