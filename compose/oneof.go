package compose

import (
	"fmt"
	"sort"

	schemaforge "github.com/schemaforge/schemaforge"
	"github.com/schemaforge/schemaforge/i18n"
	"github.com/schemaforge/schemaforge/typegraph"
)

// resolveOneOf detects discriminated-union shapes in an exclusive union.
//
// The tagged pattern (one shared field whose constant value differs across
// all operands) takes precedence over the simple pattern (pairwise-disjoint
// required-field sets). When neither applies the construct degrades to a
// plain union and an ambiguous-union warning is reported; the conversion
// never fails here.
func (c *Resolver) resolveOneOf(n *typegraph.TypeNode, at schemaforge.PathRef) *typegraph.TypeNode {
	ops := operandTypes(n)
	if len(ops) == 0 {
		replaceInPlace(n, typegraph.NewPrimitive("null"))
		return n
	}
	if len(ops) == 1 {
		return passthrough(n, ops[0])
	}

	if allRecords(ops) {
		if field, values, ok := taggedDiscriminator(ops); ok {
			variants := make([]typegraph.Variant, len(ops))
			for i, op := range ops {
				variants[i] = typegraph.Variant{Type: op, DiscriminatorValue: values[i]}
			}
			replaceInPlace(n, &typegraph.TypeNode{Kind: typegraph.KindChoice, Variants: variants})
			n.SetExtension("discriminator", field)
			return n
		}
		if sets, ok := disjointRequiredSets(ops); ok {
			variants := make([]typegraph.Variant, len(ops))
			for i, op := range ops {
				variants[i] = typegraph.Variant{Type: op, RequiredFields: sets[i]}
			}
			replaceInPlace(n, &typegraph.TypeNode{Kind: typegraph.KindChoice, Variants: variants})
			return n
		}
	}

	c.warnAmbiguous(at, len(ops))
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

// taggedDiscriminator looks for a single field present in every operand whose
// value is pinned to a constant, with a distinct constant per operand. The
// per-operand constant values are returned in operand order.
func taggedDiscriminator(ops []*typegraph.TypeNode) (field string, values []string, ok bool) {
	if len(ops) == 0 {
		return "", nil, false
	}
	// candidates: const-valued fields of the first operand
	for _, f := range ops[0].Fields {
		v0, ok0 := constValue(f.Type)
		if !ok0 {
			continue
		}
		vals := []string{v0}
		distinct := map[string]bool{v0: true}
		good := true
		for _, op := range ops[1:] {
			fv, found := "", false
			for _, g := range op.Fields {
				if g.Name != f.Name {
					continue
				}
				if v, okc := constValue(g.Type); okc {
					fv, found = v, true
				}
				break
			}
			if !found || distinct[fv] {
				good = false
				break
			}
			distinct[fv] = true
			vals = append(vals, fv)
		}
		if good {
			return f.Name, vals, true
		}
	}
	return "", nil, false
}

// constValue extracts a constant-valued annotation from a type: a "const"
// extension attribute, or an enum with exactly one symbol.
func constValue(t *typegraph.TypeNode) (string, bool) {
	if t == nil {
		return "", false
	}
	if v, ok := t.Extensions["const"]; ok {
		return fmt.Sprint(v), true
	}
	if t.Kind == typegraph.KindEnum && len(t.Symbols) == 1 {
		return t.Symbols[0], true
	}
	return "", false
}

// disjointRequiredSets returns each operand's sorted required-field set when
// every set is non-empty and pairwise disjoint from every other.
func disjointRequiredSets(ops []*typegraph.TypeNode) ([][]string, bool) {
	sets := make([][]string, len(ops))
	seen := map[string]bool{}
	for i, op := range ops {
		var req []string
		for _, f := range op.Fields {
			if f.Required {
				req = append(req, f.Name)
			}
		}
		if len(req) == 0 {
			return nil, false // an empty set matches anything; no discrimination possible
		}
		sort.Strings(req)
		for _, name := range req {
			if seen[name] {
				return nil, false
			}
			seen[name] = true
		}
		sets[i] = req
	}
	return sets, true
}

func (c *Resolver) warnAmbiguous(at schemaforge.PathRef, operands int) {
	iss := schemaforge.Issue{
		Path:     at.Pointer(),
		Code:     schemaforge.CodeAmbiguousUnion,
		Message:  i18n.T(schemaforge.CodeAmbiguousUnion, nil),
		Severity: schemaforge.SeverityWarning,
		Params:   map[string]any{"operands": operands},
	}
	c.issues = schemaforge.AppendIssues(c.issues, iss)
	if c.warn != nil {
		c.warn(iss)
	}
}
