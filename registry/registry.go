// Package registry holds the single source of truth mapping fullname ->
// TypeNode for one conversion run. The registry owns every named node; other
// graph locations hold references into it, which keeps cyclic schemas
// representable without infinite structures.
//
// A Registry is scoped to one run and discarded afterward. It is not
// thread-safe: within a single document's resolution, registration must be
// serialized by the caller. Independent documents each get their own Registry
// and may run in parallel.
package registry

import (
	"fmt"
	"strconv"
	"strings"

	schemaforge "github.com/schemaforge/schemaforge"
	"github.com/schemaforge/schemaforge/typegraph"
)

// Registry maps fullnames to named TypeNodes and preserves registration order.
// Insertion order is significant: several target emitters require before-use
// declaration, and emission-order tie-breaking uses first registration.
type Registry struct {
	byFullname map[string]*typegraph.TypeNode
	order      []*typegraph.TypeNode
	aliases    map[string]string // alias fullname -> canonical fullname
	reserved   map[string]bool   // names handed out by StableName but not yet registered
}

// New creates an empty registry for one conversion run.
func New() *Registry {
	return &Registry{
		byFullname: map[string]*typegraph.TypeNode{},
		aliases:    map[string]string{},
		reserved:   map[string]bool{},
	}
}

// Register inserts a named node. Re-registering a structurally identical
// definition returns the already-registered node (idempotent re-declaration);
// a structurally different definition under the same fullname is a fatal
// conflict with both definitions attached.
func (r *Registry) Register(node *typegraph.TypeNode) (*typegraph.TypeNode, error) {
	if node == nil || !node.IsNamed() || node.Name == "" {
		return nil, fmt.Errorf("registry: node must be a named type with a non-empty name")
	}
	full := node.Fullname()
	if existing, ok := r.byFullname[full]; ok {
		if typegraph.Equal(existing, node) {
			return existing, nil
		}
		return nil, &schemaforge.DuplicateTypeConflictError{
			Fullname: full,
			Existing: existing,
			Incoming: node,
		}
	}
	r.byFullname[full] = node
	r.order = append(r.order, node)
	delete(r.reserved, full)
	for _, a := range node.Aliases {
		if _, taken := r.aliases[a]; !taken {
			r.aliases[a] = full
		}
	}
	return node, nil
}

// Lookup resolves a possibly-short name against the context namespace. A name
// containing a dot is absolute; otherwise the context namespace is tried
// first, then the default (empty) namespace. Aliases participate at each
// step. Primitive tokens are not registry entries and resolve to fresh
// primitive nodes at the call site, not here.
func (r *Registry) Lookup(name, contextNamespace string) (*typegraph.TypeNode, error) {
	if name == "" {
		return nil, &schemaforge.UnresolvedReferenceError{Name: name, Namespace: contextNamespace}
	}
	var candidates []string
	if strings.Contains(name, ".") {
		candidates = []string{name}
	} else {
		if contextNamespace != "" {
			candidates = append(candidates, contextNamespace+"."+name)
		}
		candidates = append(candidates, name)
	}
	for _, c := range candidates {
		if n, ok := r.byFullname[c]; ok {
			return n, nil
		}
		if full, ok := r.aliases[c]; ok {
			if n, ok := r.byFullname[full]; ok {
				return n, nil
			}
		}
	}
	return nil, &schemaforge.UnresolvedReferenceError{
		Name:       name,
		Namespace:  contextNamespace,
		Candidates: candidates,
	}
}

// Contains reports whether a fullname is registered.
func (r *Registry) Contains(fullname string) bool {
	_, ok := r.byFullname[fullname]
	return ok
}

// Get returns the node registered under the exact fullname.
func (r *Registry) Get(fullname string) (*typegraph.TypeNode, bool) {
	n, ok := r.byFullname[fullname]
	return n, ok
}

// All returns every registered named node in registration order.
func (r *Registry) All() []*typegraph.TypeNode {
	return append([]*typegraph.TypeNode(nil), r.order...)
}

// Len returns the number of registered named nodes.
func (r *Registry) Len() int { return len(r.order) }

// StableName assigns a deterministic name for an anonymous or inline type.
// The hint (typically the owning field name) is used as-is when free;
// collisions get a numeric suffix. Handed-out names are reserved so repeated
// calls never alias two distinct anonymous types.
func (r *Registry) StableName(hint, namespace string) string {
	base := hint
	if base == "" {
		base = "anonymous"
	}
	qualify := func(n string) string {
		if namespace == "" {
			return n
		}
		return namespace + "." + n
	}
	candidate := base
	for i := 2; ; i++ {
		full := qualify(candidate)
		if _, taken := r.byFullname[full]; !taken && !r.reserved[full] {
			r.reserved[full] = true
			return candidate
		}
		candidate = base + "_" + strconv.Itoa(i)
	}
}
