package normalize

import (
	"context"
	"testing"

	schemaforge "github.com/schemaforge/schemaforge"
	"github.com/schemaforge/schemaforge/typegraph"
)

func TestBuild_EnumSymbolsNormalizeWithAltsymbols(t *testing.T) {
	res := mustNormalizeJSON(t, `{
		"type": "enum", "name": "Status",
		"symbols": ["in-progress", "done"]
	}`, Options{})
	root := res.Root
	if root.Symbols[0] != "in_progress" || root.Symbols[1] != "done" {
		t.Fatalf("Symbols = %v", root.Symbols)
	}
	if got := root.Altsymbols[typegraph.AltJSON]["in_progress"]; got != "in-progress" {
		t.Fatalf("altsymbol = %q, want the original spelling", got)
	}
	if _, ok := root.Altsymbols[typegraph.AltJSON]["done"]; ok {
		t.Fatalf("unchanged symbols record no altsymbol")
	}
}

func TestBuild_AliasesInheritNamespace(t *testing.T) {
	res := mustNormalizeJSON(t, `{
		"type": "record", "name": "Order", "namespace": "shop",
		"aliases": ["LegacyOrder", "other.OldOrder"],
		"fields": []
	}`, Options{})
	want := []string{"shop.LegacyOrder", "other.OldOrder"}
	for i, a := range res.Root.Aliases {
		if a != want[i] {
			t.Fatalf("Aliases = %v, want %v", res.Root.Aliases, want)
		}
	}
}

func TestBuild_ObjectExtensionsKept(t *testing.T) {
	res := mustNormalizeJSON(t, `{
		"type": "object", "title": "R",
		"properties": {"x": {"type": "string"}},
		"x-vendor": "acme", "minProperties": 1
	}`, Options{})
	if got := res.Root.Extensions["x-vendor"]; got != "acme" {
		t.Fatalf("Extensions = %v", res.Root.Extensions)
	}
}

func TestBuild_DefaultMismatchWarns(t *testing.T) {
	res := mustNormalizeJSON(t, `{
		"type": "record", "name": "R",
		"fields": [{"name": "n", "type": "long", "default": "not a number"}]
	}`, Options{})
	warns := res.Issues.Warnings()
	if len(warns) != 1 || warns[0].Code != schemaforge.CodeInvalidSchema {
		t.Fatalf("Warnings = %+v", warns)
	}
	if res.Issues.HasFatal() {
		t.Fatalf("a default mismatch is a warning, not fatal")
	}
}

func TestBuild_DuplicateConflictIsFatal(t *testing.T) {
	_, err := NormalizeJSON(context.Background(), []byte(`{
		"type": "record", "name": "Wrap",
		"fields": [
			{"name": "a", "type": {"type": "record", "name": "T", "fields": [
				{"name": "x", "type": "string"}
			]}},
			{"name": "b", "type": {"type": "record", "name": "T", "fields": [
				{"name": "y", "type": "long"}
			]}}
		]
	}`), Options{})
	iss, ok := schemaforge.AsIssues(err)
	if !ok || !iss.HasFatal() {
		t.Fatalf("err = %v", err)
	}
	found := false
	for _, is := range iss {
		if is.Code == schemaforge.CodeDuplicateTypeConflict {
			found = true
		}
	}
	if !found {
		t.Fatalf("no duplicate_type_conflict issue in %v", iss)
	}
}

func TestBuild_DuplicateIdenticalCollapses(t *testing.T) {
	res := mustNormalizeJSON(t, `{
		"type": "record", "name": "Wrap",
		"fields": [
			{"name": "a", "type": {"type": "record", "name": "T", "fields": [
				{"name": "x", "type": "string"}
			]}},
			{"name": "b", "type": {"type": "record", "name": "T", "fields": [
				{"name": "x", "type": "string"}
			]}}
		]
	}`, Options{})
	if res.Root.Fields[0].Type != res.Root.Fields[1].Type {
		t.Fatalf("identical re-declarations must collapse to one node")
	}
}

func TestBuild_LogicalType(t *testing.T) {
	res := mustNormalizeJSON(t, `{
		"type": "record", "name": "R",
		"fields": [{"name": "price", "type": {"type": "bytes", "logicalType": "decimal", "precision": 10, "scale": 2}}]
	}`, Options{})
	lt := res.Root.Fields[0].Type
	if lt.Kind != typegraph.KindLogical || lt.LogicalType != "decimal" {
		t.Fatalf("type = %v %q", lt.Kind, lt.LogicalType)
	}
	if lt.Precision != 10 || lt.Scale != 2 {
		t.Fatalf("precision/scale = %d/%d", lt.Precision, lt.Scale)
	}
	if lt.Primitive != "bytes" {
		t.Fatalf("base primitive = %q", lt.Primitive)
	}
}

func TestBuild_AnonymousInlineObjectGetsStableName(t *testing.T) {
	res := mustNormalizeJSON(t, `{
		"type": "object", "title": "Outer",
		"properties": {
			"inner": {"type": "object", "properties": {"x": {"type": "string"}}}
		}
	}`, Options{})
	inner := res.Root.Fields[0].Type
	if inner.Name != "inner" {
		t.Fatalf("anonymous inline type name = %q, want the owning member name", inner.Name)
	}
	if _, ok := res.Registry.Get("inner"); !ok {
		t.Fatalf("stable-named inline types register like declared ones")
	}
}

func TestBuild_FixedSize(t *testing.T) {
	res := mustNormalizeJSON(t, `{"type": "fixed", "name": "MD5", "size": 16}`, Options{})
	if res.Root.Kind != typegraph.KindFixed || res.Root.Size != 16 {
		t.Fatalf("fixed = %v size %d", res.Root.Kind, res.Root.Size)
	}
}
