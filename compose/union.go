package compose

import "github.com/schemaforge/schemaforge/typegraph"

// NormalizeVariants enforces the union invariants:
//
//   - nested unions flatten into the parent
//   - no two variants are structurally indistinguishable
//   - at most one array variant and at most one map variant; extra ones merge
//     by unioning their item/value types, which carries the multiplicity
//
// Variant order otherwise follows first appearance, so normalization is
// deterministic and idempotent.
func NormalizeVariants(in []typegraph.Variant) []typegraph.Variant {
	flat := make([]typegraph.Variant, 0, len(in))
	for _, v := range in {
		if v.Type != nil && v.Type.Kind == typegraph.KindUnion {
			flat = append(flat, v.Type.Variants...)
			continue
		}
		flat = append(flat, v)
	}

	var out []typegraph.Variant
	var arrayAt, mapAt = -1, -1
	for _, v := range flat {
		if v.Type == nil {
			continue
		}
		switch v.Type.Kind {
		case typegraph.KindArray:
			if arrayAt < 0 {
				arrayAt = len(out)
				out = append(out, v)
				continue
			}
			prev := out[arrayAt].Type
			if !typegraph.Equal(prev.Items, v.Type.Items) {
				out[arrayAt].Type = &typegraph.TypeNode{
					Kind: typegraph.KindArray,
					Items: &typegraph.TypeNode{
						Kind: typegraph.KindUnion,
						Variants: NormalizeVariants([]typegraph.Variant{
							{Type: prev.Items},
							{Type: v.Type.Items},
						}),
					},
				}
			}
			continue
		case typegraph.KindMap:
			if mapAt < 0 {
				mapAt = len(out)
				out = append(out, v)
				continue
			}
			prev := out[mapAt].Type
			if !typegraph.Equal(prev.Values, v.Type.Values) {
				out[mapAt].Type = &typegraph.TypeNode{
					Kind: typegraph.KindMap,
					Values: &typegraph.TypeNode{
						Kind: typegraph.KindUnion,
						Variants: NormalizeVariants([]typegraph.Variant{
							{Type: prev.Values},
							{Type: v.Type.Values},
						}),
					},
				}
			}
			continue
		}
		dup := false
		for _, o := range out {
			if typegraph.Equal(o.Type, v.Type) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}
