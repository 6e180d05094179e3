package resolve

import (
	"github.com/schemaforge/schemaforge/registry"
	"github.com/schemaforge/schemaforge/typegraph"
)

// DeferredEdge marks a dependency that closes a cycle. The emitter breaks it
// by forward-declaring To's name before defining it; cyclic references
// between named record types are legal in this domain (tree/graph schemas).
type DeferredEdge struct {
	From *typegraph.TypeNode
	To   *typegraph.TypeNode
}

// EmissionOrder returns every registered named type in an order safe for
// before-use emitters, with cycle-closing edges reported separately instead
// of failing. The order is deterministic for a given graph: dependencies are
// visited in encounter order within a definition, roots in first-registration
// order.
func EmissionOrder(reg *registry.Registry) ([]*typegraph.TypeNode, []DeferredEdge) {
	const (
		white = 0 // unvisited
		gray  = 1 // visiting; an edge back here closes a cycle
		black = 2 // done
	)
	mark := map[*typegraph.TypeNode]int{}
	var order []*typegraph.TypeNode
	var deferred []DeferredEdge

	var visit func(n *typegraph.TypeNode)
	visit = func(n *typegraph.TypeNode) {
		switch mark[n] {
		case black:
			return
		case gray:
			return // caller records the deferred edge
		}
		mark[n] = gray
		for _, dep := range namedDeps(n) {
			if mark[dep] == gray {
				deferred = append(deferred, DeferredEdge{From: n, To: dep})
				continue
			}
			visit(dep)
		}
		mark[n] = black
		order = append(order, n)
	}

	for _, n := range reg.All() {
		visit(n)
	}
	return order, deferred
}

// namedDeps lists the named types a definition references, traversing through
// anonymous structure only. Anonymous/inline nodes are emitted inline and
// never create ordering edges; a named node is its own emission unit, so the
// walk stops at it.
func namedDeps(n *typegraph.TypeNode) []*typegraph.TypeNode {
	var deps []*typegraph.TypeNode
	seen := map[*typegraph.TypeNode]bool{}
	var walk func(c *typegraph.TypeNode)
	walk = func(c *typegraph.TypeNode) {
		if c == nil || seen[c] {
			return
		}
		seen[c] = true
		if c.IsNamed() {
			// A named node is its own emission unit; a self-reference shows up
			// here as a dep on n itself and surfaces as a deferred edge.
			deps = append(deps, c)
			return
		}
		for _, f := range c.Fields {
			walk(f.Type)
		}
		walk(c.Items)
		walk(c.Values)
		walk(c.OpenValues)
		for i := range c.KeyPatterns {
			walk(c.KeyPatterns[i].Value)
		}
		for i := range c.Variants {
			walk(c.Variants[i].Type)
		}
	}
	// Walk the definition body, not the node identity itself.
	for _, f := range n.Fields {
		walk(f.Type)
	}
	walk(n.Items)
	walk(n.Values)
	walk(n.OpenValues)
	for i := range n.KeyPatterns {
		walk(n.KeyPatterns[i].Value)
	}
	for i := range n.Variants {
		walk(n.Variants[i].Type)
	}
	return deps
}
