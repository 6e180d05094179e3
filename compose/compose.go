// Package compose eliminates composition constructs from a resolved type
// graph: all-of (intersection) merges into a single record, any-of (inclusive
// union) consolidates into a minimal variant set, and one-of (exclusive
// union) becomes a tagged choice when a discriminator pattern exists.
//
// After a successful pass the graph contains only the canonical record, union
// and choice kinds. The pass is idempotent: running it on an already-composed
// graph changes nothing.
package compose

import (
	schemaforge "github.com/schemaforge/schemaforge"
	"github.com/schemaforge/schemaforge/i18n"
	"github.com/schemaforge/schemaforge/typegraph"
)

// WarnFunc receives non-fatal composition diagnostics, notably the
// ambiguous-union warning emitted when a one-of degrades to a plain union.
type WarnFunc func(schemaforge.Issue)

// Resolver rewrites transient composition kinds. Multi-operand constructs are
// replaced in place so references held elsewhere observe the merge; a
// single-operand construct rebinds the holder's slot to the operand itself,
// which keeps registry-owned named nodes unduplicated.
type Resolver struct {
	warn   WarnFunc
	issues schemaforge.Issues
}

// New creates a composition resolver. warn may be nil.
func New(warn WarnFunc) *Resolver {
	return &Resolver{warn: warn}
}

// Issues returns collected diagnostics, fatal and warning class alike.
func (c *Resolver) Issues() schemaforge.Issues { return c.issues }

// Run rewrites every composition construct reachable from root and returns
// the node replacing root at the caller's slot (root itself unless root was a
// single-operand construct). The error is non-nil only when a fatal
// invalid-composition conflict was found.
func (c *Resolver) Run(root *typegraph.TypeNode) (*typegraph.TypeNode, error) {
	root = c.walk(root, schemaforge.Root(), map[*typegraph.TypeNode]*typegraph.TypeNode{})
	if c.issues.HasFatal() {
		return root, c.issues
	}
	return root, nil
}

// RunAll applies Run to several roots (typically the document root plus every
// registered named type) sharing one visited set, so shared nodes rewrite
// once. Replacements are returned positionally.
func (c *Resolver) RunAll(nodes ...*typegraph.TypeNode) ([]*typegraph.TypeNode, error) {
	done := map[*typegraph.TypeNode]*typegraph.TypeNode{}
	out := make([]*typegraph.TypeNode, len(nodes))
	for i, n := range nodes {
		out[i] = c.walk(n, schemaforge.At("/"+n.Fullname()), done)
	}
	if c.issues.HasFatal() {
		return out, c.issues
	}
	return out, nil
}

func (c *Resolver) walk(n *typegraph.TypeNode, at schemaforge.PathRef, done map[*typegraph.TypeNode]*typegraph.TypeNode) *typegraph.TypeNode {
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
		f.Type = c.walk(f.Type, at.Field("fields").Field(f.Name), done)
	}
	if n.Items != nil {
		n.Items = c.walk(n.Items, at.Field("items"), done)
	}
	if n.Values != nil {
		n.Values = c.walk(n.Values, at.Field("values"), done)
	}
	if n.OpenValues != nil {
		n.OpenValues = c.walk(n.OpenValues, at.Field("additionalMembers"), done)
	}
	for i := range n.KeyPatterns {
		n.KeyPatterns[i].Value = c.walk(n.KeyPatterns[i].Value, at.Field("patternMembers").Index(i), done)
	}
	for i := range n.Variants {
		n.Variants[i].Type = c.walk(n.Variants[i].Type, at.Field("variants").Index(i), done)
	}

	// Children are composition-free now; rewrite this node if needed.
	repl := n
	switch n.Kind {
	case typegraph.KindAllOf:
		repl = c.resolveAllOf(n, at)
	case typegraph.KindAnyOf:
		repl = c.resolveAnyOf(n, at)
	case typegraph.KindOneOf:
		repl = c.resolveOneOf(n, at)
	case typegraph.KindUnion:
		n.Variants = NormalizeVariants(n.Variants)
	}
	done[n] = repl
	return repl
}

// passthrough resolves a single-operand construct. An anonymous construct
// dissolves into its operand: the holder's slot rebinds to the operand node
// itself, so a registry-owned operand is never copied. A named construct is
// itself registry-owned and keeps its identity, taking the operand's content.
func passthrough(n, op *typegraph.TypeNode) *typegraph.TypeNode {
	if n.Fullname() == "" {
		return op
	}
	replaceInPlace(n, op)
	return n
}

func (c *Resolver) fatalf(at schemaforge.PathRef, cause error, params map[string]any) {
	c.issues = schemaforge.AppendIssues(c.issues, schemaforge.Issue{
		Path:     at.Pointer(),
		Code:     schemaforge.CodeInvalidComposition,
		Message:  i18n.T(schemaforge.CodeInvalidComposition, nil),
		Cause:    cause,
		Severity: schemaforge.SeverityFatal,
		Params:   params,
	})
}

// replaceInPlace swaps n's content for repl while keeping n's identity, name
// and round-trip metadata. Registry entries and parent references keep
// pointing at the same node.
func replaceInPlace(n, repl *typegraph.TypeNode) {
	name, ns := n.Name, n.Namespace
	aliases, altnames := n.Aliases, n.Altnames
	doc, docs := n.Doc, n.Docs
	ext := n.Extensions
	*n = *repl
	if name != "" {
		n.Name, n.Namespace = name, ns
	}
	if n.Aliases == nil {
		n.Aliases = aliases
	}
	if n.Altnames == nil {
		n.Altnames = altnames
	}
	if n.Doc == "" {
		n.Doc = doc
	}
	if n.Docs == nil {
		n.Docs = docs
	}
	n.Extensions = mergeExtensions(ext, n.Extensions)
}
