// Package resolve binds reference nodes in a type graph to their registry
// entries, fetches external references through a pluggable collaborator, and
// computes a deterministic emission order that tolerates cycles.
package resolve

import (
	"context"
	"strings"

	schemaforge "github.com/schemaforge/schemaforge"
	"github.com/schemaforge/schemaforge/i18n"
	"github.com/schemaforge/schemaforge/registry"
	"github.com/schemaforge/schemaforge/typegraph"
)

// ExternalResolver fetches the bytes of a document referenced from outside the
// current one. Implementations live in the I/O layer (file system, HTTP); the
// contract is fetch-and-return-bytes or fail. The context carries the caller's
// deadline.
type ExternalResolver interface {
	Resolve(ctx context.Context, location string) ([]byte, error)
}

// DocumentBuilder lowers fetched document bytes into the shared registry,
// registering the document's named types under the given namespace, and
// returns the document's root node. The orchestration layer supplies this so
// resolve stays independent of the raw-tree builder.
type DocumentBuilder func(ctx context.Context, data []byte, namespace string) (*typegraph.TypeNode, error)

// Resolver replaces every unresolved reference in a graph with a bound
// registry reference. Failures are collected per branch: a branch that cannot
// resolve becomes an unresolved placeholder and its siblings continue.
type Resolver struct {
	reg      *registry.Registry
	external ExternalResolver
	build    DocumentBuilder
	issues   schemaforge.Issues
	fetched  map[string]bool // external locations already merged (or failed)
}

// New creates a Resolver over the given registry. external and build may be
// nil when the document has no external references.
func New(reg *registry.Registry, external ExternalResolver, build DocumentBuilder) *Resolver {
	return &Resolver{reg: reg, external: external, build: build, fetched: map[string]bool{}}
}

// Issues returns the diagnostics collected so far (all unresolved references,
// not just the first).
func (r *Resolver) Issues() schemaforge.Issues { return r.issues }

// Resolve binds references reachable from root and from every registered
// named type. It returns the (possibly replaced) root node. The error is
// non-nil only when fatal-class issues were collected; the graph is still
// usable with placeholder nodes in the failed branches.
func (r *Resolver) Resolve(ctx context.Context, root *typegraph.TypeNode) (*typegraph.TypeNode, error) {
	seen := map[*typegraph.TypeNode]bool{}
	root = r.bind(ctx, root, schemaforge.Root(), seen)
	for _, n := range r.reg.All() {
		r.bindChildren(ctx, n, schemaforge.At("/"+n.Fullname()), seen)
	}
	if r.issues.HasFatal() {
		return root, r.issues
	}
	return root, nil
}

// bind resolves n itself if it is a reference, then descends.
func (r *Resolver) bind(ctx context.Context, n *typegraph.TypeNode, at schemaforge.PathRef, seen map[*typegraph.TypeNode]bool) *typegraph.TypeNode {
	if n == nil {
		return nil
	}
	if n.Kind == typegraph.KindRef {
		return r.resolveRef(ctx, n, at)
	}
	r.bindChildren(ctx, n, at, seen)
	return n
}

func (r *Resolver) bindChildren(ctx context.Context, n *typegraph.TypeNode, at schemaforge.PathRef, seen map[*typegraph.TypeNode]bool) {
	if n == nil || seen[n] {
		return
	}
	seen[n] = true
	for _, f := range n.Fields {
		f.Type = r.bind(ctx, f.Type, at.Field("fields").Field(f.Name), seen)
	}
	if n.Items != nil {
		n.Items = r.bind(ctx, n.Items, at.Field("items"), seen)
	}
	if n.Values != nil {
		n.Values = r.bind(ctx, n.Values, at.Field("values"), seen)
	}
	if n.OpenValues != nil {
		n.OpenValues = r.bind(ctx, n.OpenValues, at.Field("additionalMembers"), seen)
	}
	for i := range n.KeyPatterns {
		n.KeyPatterns[i].Value = r.bind(ctx, n.KeyPatterns[i].Value, at.Field("patternMembers").Index(i), seen)
	}
	for i := range n.Variants {
		n.Variants[i].Type = r.bind(ctx, n.Variants[i].Type, at.Field("variants").Index(i), seen)
	}
}

// resolveRef turns one reference node into a bound node or a placeholder.
func (r *Resolver) resolveRef(ctx context.Context, ref *typegraph.TypeNode, at schemaforge.PathRef) *typegraph.TypeNode {
	name := ref.RefName
	if typegraph.IsPrimitiveName(name) {
		return typegraph.NewPrimitive(name)
	}
	if loc, frag, ok := splitExternal(name); ok {
		if loc != "" {
			return r.resolveExternal(ctx, ref, loc, frag, at)
		}
		// Relative pointer into the current document: the tail segment is the
		// defining name ("#/definitions/Address" declares Address).
		name = lastSegment(frag)
	}
	n, err := r.reg.Lookup(name, ref.RefNamespace)
	if err != nil {
		r.issues = schemaforge.AppendIssues(r.issues, schemaforge.Issue{
			Path:     at.Pointer(),
			Code:     schemaforge.CodeUnresolvedReference,
			Message:  i18n.T(schemaforge.CodeUnresolvedReference, map[string]string{"name": name}),
			Hint:     "reference " + name,
			Cause:    err,
			Severity: schemaforge.SeverityFatal,
			Params:   map[string]any{"name": name, "namespace": ref.RefNamespace},
		})
		return placeholder(ref)
	}
	return n
}

// resolveExternal fetches and merges an external document, then looks up the
// fragment fullname. Fetch failures are branch-local: the branch resolves to
// an unresolved placeholder and a warning is recorded.
func (r *Resolver) resolveExternal(ctx context.Context, ref *typegraph.TypeNode, loc, frag string, at schemaforge.PathRef) *typegraph.TypeNode {
	warn := func(err error) *typegraph.TypeNode {
		r.issues = schemaforge.AppendIssues(r.issues, schemaforge.Issue{
			Path:     at.Pointer(),
			Code:     schemaforge.CodeExternalReference,
			Message:  i18n.T(schemaforge.CodeExternalReference, map[string]string{"ref": ref.RefName}),
			Hint:     "external reference " + ref.RefName,
			Cause:    &schemaforge.ExternalReferenceError{Ref: ref.RefName, Err: err},
			Severity: schemaforge.SeverityWarning,
			Params:   map[string]any{"location": loc, "fragment": frag},
		})
		return placeholder(ref)
	}
	if r.external == nil || r.build == nil {
		return warn(errNoExternalResolver)
	}
	if !r.fetched[loc] {
		r.fetched[loc] = true
		if err := ctx.Err(); err != nil {
			return warn(err)
		}
		data, err := r.external.Resolve(ctx, loc)
		if err != nil {
			return warn(err)
		}
		// Each external document gets its own namespace derived from its
		// location so its names cannot collide with local declarations.
		if _, err := r.build(ctx, data, namespaceFor(loc)); err != nil {
			return warn(err)
		}
	}
	if frag == "" {
		return warn(errNoFragment)
	}
	n, err := r.reg.Lookup(frag, namespaceFor(loc))
	if err != nil {
		return warn(err)
	}
	return n
}

func placeholder(ref *typegraph.TypeNode) *typegraph.TypeNode {
	return &typegraph.TypeNode{
		Kind:         typegraph.KindUnresolved,
		RefName:      ref.RefName,
		RefNamespace: ref.RefNamespace,
	}
}

func lastSegment(frag string) string {
	if i := strings.LastIndex(frag, "/"); i >= 0 {
		return frag[i+1:]
	}
	return frag
}

// splitExternal recognizes "<location>#<fullname>" reference expressions.
func splitExternal(name string) (loc, frag string, ok bool) {
	i := strings.Index(name, "#")
	if i < 0 {
		return "", "", false
	}
	return name[:i], strings.TrimPrefix(name[i+1:], "/"), true
}

// namespaceFor derives a stable namespace from an external location.
func namespaceFor(loc string) string {
	var b strings.Builder
	for _, c := range loc {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s == "" {
		return "external"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return s
}

type resolveErr string

func (e resolveErr) Error() string { return string(e) }

const (
	errNoExternalResolver resolveErr = "no external resolver configured"
	errNoFragment         resolveErr = "external reference has no type fragment"
)
