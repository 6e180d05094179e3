package compose

import (
	schemaforge "github.com/schemaforge/schemaforge"
	"github.com/schemaforge/schemaforge/typegraph"
)

// resolveAnyOf consolidates an inclusive union into a minimal set of distinct
// variants. When every operand is object-shaped, their required-field sets are
// pairwise disjoint and no field name is declared with two different types,
// the operands flatten into one record whose fields are all optional.
// Otherwise the construct becomes a plain union of the distinct operand
// types.
func (c *Resolver) resolveAnyOf(n *typegraph.TypeNode, at schemaforge.PathRef) *typegraph.TypeNode {
	ops := operandTypes(n)
	if len(ops) == 0 {
		replaceInPlace(n, typegraph.NewPrimitive("null"))
		return n
	}
	if len(ops) == 1 {
		return passthrough(n, ops[0])
	}

	if allRecords(ops) && requiredSetsDisjoint(ops) && !hasFieldTypeConflict(ops) {
		merged := &typegraph.TypeNode{Kind: typegraph.KindRecord}
		index := map[string]bool{}
		for _, op := range ops {
			for _, f := range op.Fields {
				if index[f.Name] {
					continue
				}
				index[f.Name] = true
				cp := *f
				cp.Required = false // any single operand may omit the others' fields
				merged.Fields = append(merged.Fields, &cp)
			}
			merged.Open = merged.Open || op.Open
			merged.KeyPatterns = append(merged.KeyPatterns, op.KeyPatterns...)
			if merged.OpenValues == nil {
				merged.OpenValues = op.OpenValues
			}
		}
		replaceInPlace(n, merged)
		return n
	}

	variants := make([]typegraph.Variant, 0, len(ops))
	for _, op := range ops {
		variants = append(variants, typegraph.Variant{Type: op})
	}
	replaceInPlace(n, &typegraph.TypeNode{
		Kind:     typegraph.KindUnion,
		Variants: NormalizeVariants(variants),
	})
	return n
}

// requiredSetsDisjoint reports whether no required field name appears in two
// operands.
func requiredSetsDisjoint(ops []*typegraph.TypeNode) bool {
	seen := map[string]bool{}
	for _, op := range ops {
		for _, f := range op.Fields {
			if !f.Required {
				continue
			}
			if seen[f.Name] {
				return false
			}
			seen[f.Name] = true
		}
	}
	return true
}

// hasFieldTypeConflict reports whether two operands declare the same field
// name with structurally different types. Per the merge policy, such operand
// sets fall back to a plain union rather than guessing stricter semantics.
func hasFieldTypeConflict(ops []*typegraph.TypeNode) bool {
	types := map[string]*typegraph.TypeNode{}
	for _, op := range ops {
		for _, f := range op.Fields {
			if prev, ok := types[f.Name]; ok {
				if !typegraph.Equal(prev, f.Type) {
					return true
				}
				continue
			}
			types[f.Name] = f.Type
		}
	}
	return false
}
