// Package patternmap recognizes object shapes whose member set is open-ended
// (matched by a key-name pattern or an unconstrained catch-all) and rewrites
// them as typed map nodes with an optional key constraint.
//
// A shape mixing a fixed property set with an open remainder splits into a
// fixed record plus a sibling map, joined as a union of the two: an encoded
// value is either a fully-typed instance or an open bag, never both at once,
// matching discriminated-union semantics.
package patternmap

import (
	"strings"

	"github.com/schemaforge/schemaforge/compose"
	"github.com/schemaforge/schemaforge/typegraph"
)

// Rewrite walks the subgraph under n and converts open-ended records. The
// returned node replaces n at the caller's slot (it is n itself unless n was
// rewritten). The pass is idempotent: converted nodes carry no open-member
// data and pass through unchanged on a second run.
func Rewrite(n *typegraph.TypeNode) *typegraph.TypeNode {
	return rewrite(n, map[*typegraph.TypeNode]*typegraph.TypeNode{})
}

// RewriteAll applies Rewrite to several roots (typically the document root
// plus every registered named type) sharing one visited set, so shared nodes
// rewrite once.
func RewriteAll(nodes ...*typegraph.TypeNode) []*typegraph.TypeNode {
	done := map[*typegraph.TypeNode]*typegraph.TypeNode{}
	out := make([]*typegraph.TypeNode, len(nodes))
	for i, n := range nodes {
		out[i] = rewrite(n, done)
	}
	return out
}

func rewrite(n *typegraph.TypeNode, done map[*typegraph.TypeNode]*typegraph.TypeNode) *typegraph.TypeNode {
	if n == nil {
		return nil
	}
	if repl, ok := done[n]; ok {
		return repl
	}
	// Pre-mark with identity so recursive references through this node do not
	// loop; the final replacement lands below.
	done[n] = n

	for _, f := range n.Fields {
		f.Type = rewrite(f.Type, done)
	}
	if n.Items != nil {
		n.Items = rewrite(n.Items, done)
	}
	if n.Values != nil {
		n.Values = rewrite(n.Values, done)
	}
	if n.OpenValues != nil {
		n.OpenValues = rewrite(n.OpenValues, done)
	}
	for i := range n.KeyPatterns {
		n.KeyPatterns[i].Value = rewrite(n.KeyPatterns[i].Value, done)
	}
	for i := range n.Variants {
		n.Variants[i].Type = rewrite(n.Variants[i].Type, done)
	}

	if n.Kind != typegraph.KindRecord || !isOpen(n) {
		return n
	}

	side := sideMap(n)
	if len(n.Fields) == 0 {
		// Purely dynamic shape: the record is really a map. Rewrite in place so
		// registry entries and other holders observe the conversion.
		name, ns := n.Name, n.Namespace
		alt := n.Altnames
		*n = *side
		if name != "" {
			// A named open record loses record-ness; keep the original identity
			// as round-trip metadata.
			n.SetAltname(typegraph.AltJSON, qualify(ns, name))
			for k, v := range alt {
				n.SetAltname(k, v)
			}
		}
		done[n] = n
		return n
	}

	// Mixed shape: fixed record plus side map, joined as a union. The record
	// keeps its identity (and registry entry); only the caller's slot sees the
	// union wrapper.
	n.KeyPatterns = nil
	n.OpenValues = nil
	n.Open = false
	repl := &typegraph.TypeNode{
		Kind: typegraph.KindUnion,
		Variants: compose.NormalizeVariants([]typegraph.Variant{
			{Type: n},
			{Type: side},
		}),
	}
	done[n] = repl
	return repl
}

func isOpen(n *typegraph.TypeNode) bool {
	return n.Open || n.OpenValues != nil || len(n.KeyPatterns) > 0
}

// sideMap builds the map node covering a record's open-ended remainder. When
// the member value type varies across patterns the map's value type is the
// union of all of them rather than a failure.
func sideMap(n *typegraph.TypeNode) *typegraph.TypeNode {
	var variants []typegraph.Variant
	var patterns []string
	for _, kp := range n.KeyPatterns {
		if kp.Pattern != "" {
			patterns = append(patterns, kp.Pattern)
		}
		if kp.Value != nil {
			variants = append(variants, typegraph.Variant{Type: kp.Value})
		}
	}
	if n.OpenValues != nil {
		variants = append(variants, typegraph.Variant{Type: n.OpenValues})
	}
	variants = compose.NormalizeVariants(variants)

	var values *typegraph.TypeNode
	switch len(variants) {
	case 0:
		// Unconstrained catch-all with no declared value type: open bag of strings
		// is the weakest useful contract for text formats, but "anything" maps
		// cleanly onto a union of every primitive; keep it simple and generic.
		values = typegraph.NewPrimitive("string")
	case 1:
		values = variants[0].Type
	default:
		values = &typegraph.TypeNode{Kind: typegraph.KindUnion, Variants: variants}
	}

	m := &typegraph.TypeNode{Kind: typegraph.KindMap, Values: values}
	if n.Open {
		// An unconstrained catch-all admits any key; no constraint recorded.
		m.KeyConstraint = ""
	} else {
		m.KeyConstraint = joinPatterns(patterns)
	}
	return m
}

func joinPatterns(patterns []string) string {
	switch len(patterns) {
	case 0:
		return ""
	case 1:
		return patterns[0]
	default:
		var b strings.Builder
		for i, p := range patterns {
			if i > 0 {
				b.WriteByte('|')
			}
			b.WriteString("(?:")
			b.WriteString(p)
			b.WriteByte(')')
		}
		return b.String()
	}
}

func qualify(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "." + name
}
