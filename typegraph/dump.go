package typegraph

import "github.com/davecgh/go-spew/spew"

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	MaxDepth:                12, // recursive graphs would otherwise never terminate
	SortKeys:                true,
}

// Dump renders a human-readable view of a subgraph for debugging output.
func Dump(n *TypeNode) string {
	return dumper.Sdump(n)
}
