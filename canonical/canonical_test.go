package canonical

import (
	"bytes"
	"strings"
	"testing"

	"github.com/schemaforge/schemaforge/typegraph"
)

func mustFormat(t *testing.T, n *typegraph.TypeNode) []byte {
	t.Helper()
	out, err := Format(n)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	return out
}

func orderSchema() *typegraph.TypeNode {
	return &typegraph.TypeNode{
		Kind: typegraph.KindRecord, Name: "Order", Namespace: "shop",
		Fields: []*typegraph.FieldNode{
			{Name: "id", Type: typegraph.NewPrimitive("string"), Required: true},
			{Name: "total", Type: typegraph.NewPrimitive("double")},
		},
	}
}

func TestFormat_Record(t *testing.T) {
	got := string(mustFormat(t, orderSchema()))
	want := `{"name":"shop.Order","type":"record","fields":[{"name":"id","type":"string"},{"name":"total","type":"double"}]}`
	if got != want {
		t.Fatalf("canonical form:\n got %s\nwant %s", got, want)
	}
}

func TestFormat_IgnoresNonParseAttributes(t *testing.T) {
	plain := orderSchema()

	decorated := orderSchema()
	decorated.Doc = "an order"
	decorated.Aliases = []string{"shop.LegacyOrder"}
	decorated.SetAltname(typegraph.AltJSON, "order-v2")
	decorated.SetExtension("x-vendor", map[string]any{"k": "v"})
	decorated.Fields[0].Doc = "primary key"
	decorated.Fields[0].Order = typegraph.OrderAscending
	decorated.Fields[1].Default = float64(0)
	decorated.Fields[1].HasDefault = true

	a, b := mustFormat(t, plain), mustFormat(t, decorated)
	if !bytes.Equal(a, b) {
		t.Fatalf("docs, aliases, defaults and extensions must not affect canonical form:\n%s", Diff(a, b))
	}
}

func TestFormat_SensitiveToStructure(t *testing.T) {
	base := mustFormat(t, orderSchema())

	renamed := orderSchema()
	renamed.Name = "Order2"
	if bytes.Equal(base, mustFormat(t, renamed)) {
		t.Fatalf("name change must change canonical form")
	}

	retyped := orderSchema()
	retyped.Fields[1].Type = typegraph.NewPrimitive("float")
	if bytes.Equal(base, mustFormat(t, retyped)) {
		t.Fatalf("field type change must change canonical form")
	}

	reordered := orderSchema()
	reordered.Fields[0], reordered.Fields[1] = reordered.Fields[1], reordered.Fields[0]
	if bytes.Equal(base, mustFormat(t, reordered)) {
		t.Fatalf("field order is parse-relevant and must change canonical form")
	}
}

func TestFormat_LogicalReducesToBase(t *testing.T) {
	logical := &typegraph.TypeNode{
		Kind: typegraph.KindLogical, Primitive: "bytes",
		LogicalType: "decimal", Precision: 10, Scale: 2,
	}
	if got := string(mustFormat(t, logical)); got != `"bytes"` {
		t.Fatalf("logical type canonicalizes to its base primitive, got %s", got)
	}
}

func TestFormat_RecursiveDefinedOnce(t *testing.T) {
	n := &typegraph.TypeNode{Kind: typegraph.KindRecord, Name: "Node", Namespace: "tree"}
	n.Fields = []*typegraph.FieldNode{
		{Name: "next", Type: n},
	}
	got := string(mustFormat(t, n))
	want := `{"name":"tree.Node","type":"record","fields":[{"name":"next","type":"tree.Node"}]}`
	if got != want {
		t.Fatalf("recursive form:\n got %s\nwant %s", got, want)
	}
	if strings.Count(got, `"fields"`) != 1 {
		t.Fatalf("a named type defines once and references by fullname afterwards")
	}
}

func TestFormat_EnumFixedUnionMap(t *testing.T) {
	n := &typegraph.TypeNode{
		Kind: typegraph.KindRecord, Name: "Wrap",
		Fields: []*typegraph.FieldNode{
			{Name: "color", Type: &typegraph.TypeNode{
				Kind: typegraph.KindEnum, Name: "Color", Symbols: []string{"RED", "BLUE"},
			}},
			{Name: "hash", Type: &typegraph.TypeNode{
				Kind: typegraph.KindFixed, Name: "MD5", Size: 16,
			}},
			{Name: "tags", Type: &typegraph.TypeNode{
				Kind: typegraph.KindMap, Values: typegraph.NewPrimitive("string"),
				KeyConstraint: "^x-",
			}},
			{Name: "maybe", Type: &typegraph.TypeNode{
				Kind: typegraph.KindUnion,
				Variants: []typegraph.Variant{
					{Type: typegraph.NewPrimitive("null")},
					{Type: typegraph.NewPrimitive("long")},
				},
			}},
		},
	}
	got := string(mustFormat(t, n))
	want := `{"name":"Wrap","type":"record","fields":[` +
		`{"name":"color","type":{"name":"Color","type":"enum","symbols":["RED","BLUE"]}},` +
		`{"name":"hash","type":{"name":"MD5","type":"fixed","size":16}},` +
		`{"name":"tags","type":{"type":"map","values":"string"}},` +
		`{"name":"maybe","type":["null","long"]}]}`
	if got != want {
		t.Fatalf("canonical form:\n got %s\nwant %s", got, want)
	}
}

func TestFormat_ChoiceReadsAsUnion(t *testing.T) {
	choice := &typegraph.TypeNode{
		Kind: typegraph.KindChoice,
		Variants: []typegraph.Variant{
			{Type: typegraph.NewPrimitive("string"), DiscriminatorValue: "s"},
			{Type: typegraph.NewPrimitive("long"), DiscriminatorValue: "l"},
		},
	}
	union := &typegraph.TypeNode{
		Kind: typegraph.KindUnion,
		Variants: []typegraph.Variant{
			{Type: typegraph.NewPrimitive("string")},
			{Type: typegraph.NewPrimitive("long")},
		},
	}
	if !bytes.Equal(mustFormat(t, choice), mustFormat(t, union)) {
		t.Fatalf("a choice canonicalizes identically to the equivalent union")
	}
}

func TestFormat_AnonymousRecordOmitsName(t *testing.T) {
	// merged composition results can stay anonymous; they carry no name
	// attribute instead of an empty one
	anon := &typegraph.TypeNode{
		Kind: typegraph.KindRecord,
		Fields: []*typegraph.FieldNode{
			{Name: "id", Type: typegraph.NewPrimitive("string")},
		},
	}
	got := string(mustFormat(t, anon))
	want := `{"type":"record","fields":[{"name":"id","type":"string"}]}`
	if got != want {
		t.Fatalf("anonymous form:\n got %s\nwant %s", got, want)
	}

	// two separate anonymous records in one tree each print in full
	holder := &typegraph.TypeNode{
		Kind: typegraph.KindRecord, Name: "Holder",
		Fields: []*typegraph.FieldNode{
			{Name: "a", Type: &typegraph.TypeNode{Kind: typegraph.KindRecord}},
			{Name: "b", Type: &typegraph.TypeNode{Kind: typegraph.KindRecord}},
		},
	}
	got = string(mustFormat(t, holder))
	want = `{"name":"Holder","type":"record","fields":[` +
		`{"name":"a","type":{"type":"record","fields":[]}},` +
		`{"name":"b","type":{"type":"record","fields":[]}}]}`
	if got != want {
		t.Fatalf("holder form:\n got %s\nwant %s", got, want)
	}
}

func TestFormat_TransientKindsRejected(t *testing.T) {
	for _, kind := range []typegraph.Kind{typegraph.KindRef, typegraph.KindAllOf, typegraph.KindAnyOf, typegraph.KindOneOf} {
		if _, err := Format(&typegraph.TypeNode{Kind: kind}); err == nil {
			t.Fatalf("kind %s must be rejected", kind)
		}
	}
}

func TestFormat_NoWhitespace(t *testing.T) {
	out := mustFormat(t, orderSchema())
	for _, b := range out {
		if b == ' ' || b == '\n' || b == '\t' {
			t.Fatalf("canonical form must carry no whitespace outside string literals: %s", out)
		}
	}
}
