package normalize

import (
	"fmt"
	"sort"

	schemaforge "github.com/schemaforge/schemaforge"
	"github.com/schemaforge/schemaforge/i18n"
	"github.com/schemaforge/schemaforge/names"
	"github.com/schemaforge/schemaforge/rawtree"
	"github.com/schemaforge/schemaforge/registry"
	"github.com/schemaforge/schemaforge/typegraph"
)

// recognized attribute keys; everything else passes through Extensions opaquely.
var knownTypeAttrs = map[string]bool{
	"type": true, "name": true, "namespace": true, "doc": true, "docs": true,
	"aliases": true, "fields": true, "symbols": true, "items": true,
	"values": true, "size": true, "logicalType": true, "precision": true,
	"scale": true, "title": true, "properties": true, "required": true,
	"additionalProperties": true, "patternProperties": true,
	"allOf": true, "anyOf": true, "oneOf": true, "$ref": true,
	"definitions": true, "$defs": true,
}

// builder lowers a raw tree into graph nodes, normalizing identifiers and
// registering named types as they are discovered.
type builder struct {
	reg    *registry.Registry
	issues schemaforge.Issues
}

func (b *builder) errf(at schemaforge.PathRef, code string, sev schemaforge.Severity, cause error, params map[string]any) {
	b.issues = schemaforge.AppendIssues(b.issues, schemaforge.Issue{
		Path:     at.Pointer(),
		Code:     code,
		Message:  i18n.T(code, nil),
		Cause:    cause,
		Severity: sev,
		Params:   params,
	})
}

// build converts one raw node. ns is the namespace inherited from the nearest
// enclosing declaration; hint names anonymous types deterministically.
func (b *builder) build(v any, ns, hint string, at schemaforge.PathRef) *typegraph.TypeNode {
	switch t := v.(type) {
	case nil:
		return typegraph.NewPrimitive("null")
	case string:
		if name, ok := canonicalPrimitive(t); ok {
			return typegraph.NewPrimitive(name)
		}
		return typegraph.NewRef(t, ns)
	case rawtree.Ref:
		return typegraph.NewRef(t.Name, ns)
	case *rawtree.Ref:
		return typegraph.NewRef(t.Name, ns)
	case []any:
		un := &typegraph.TypeNode{Kind: typegraph.KindUnion}
		for i, item := range t {
			un.Variants = append(un.Variants, typegraph.Variant{
				Type: b.build(item, ns, fmt.Sprintf("%s_%d", hint, i), at.Index(i)),
			})
		}
		return un
	case map[string]any:
		return b.buildMap(t, ns, hint, at, true)
	default:
		b.errf(at, schemaforge.CodeInvalidSchema, schemaforge.SeverityFatal, fmt.Errorf("unsupported raw node %T", v), nil)
		return typegraph.NewPrimitive("null")
	}
}

// buildOperand lowers a composition operand. Operands merge away during
// composition, so an anonymous operand stays owned by its construct instead
// of entering the registry; explicitly named operands register as usual.
func (b *builder) buildOperand(v any, ns, hint string, at schemaforge.PathRef) *typegraph.TypeNode {
	if m, ok := v.(map[string]any); ok {
		return b.buildMap(m, ns, hint, at, false)
	}
	return b.build(v, ns, hint, at)
}

func (b *builder) buildMap(m map[string]any, ns, hint string, at schemaforge.PathRef, register bool) *typegraph.TypeNode {
	if ref, ok := m["$ref"].(string); ok && ref != "" {
		return typegraph.NewRef(ref, ns)
	}
	// declaration blocks lower (and register) before anything references them
	for _, key := range []string{"definitions", "$defs"} {
		defs, ok := m[key].(map[string]any)
		if !ok {
			continue
		}
		keys := make([]string, 0, len(defs))
		for name := range defs {
			keys = append(keys, name)
		}
		sort.Strings(keys)
		for _, name := range keys {
			b.build(defs[name], ns, name, at.Field(key).Field(name))
		}
	}
	if ops, ok := m["allOf"].([]any); ok {
		return b.buildComposition(typegraph.KindAllOf, ops, m, ns, hint, at.Field("allOf"))
	}
	if ops, ok := m["anyOf"].([]any); ok {
		return b.buildComposition(typegraph.KindAnyOf, ops, m, ns, hint, at.Field("anyOf"))
	}
	if ops, ok := m["oneOf"].([]any); ok {
		return b.buildComposition(typegraph.KindOneOf, ops, m, ns, hint, at.Field("oneOf"))
	}

	typ, _ := m["type"].(string)
	switch typ {
	case "record":
		return b.buildRecord(m, ns, hint, at, register)
	case "enum":
		return b.buildEnum(m, ns, hint, at, register)
	case "fixed":
		return b.buildFixed(m, ns, hint, at, register)
	case "array":
		n := &typegraph.TypeNode{Kind: typegraph.KindArray}
		n.Items = b.build(m["items"], ns, hint+"_item", at.Field("items"))
		b.stashExtensions(n, m)
		return n
	case "map":
		n := &typegraph.TypeNode{Kind: typegraph.KindMap}
		n.Values = b.build(m["values"], ns, hint+"_value", at.Field("values"))
		b.stashExtensions(n, m)
		return n
	case "object", "":
		// Object shapes without an Avro-style kind come from open-shape
		// dialects; they lower to records with transient open-member data.
		return b.buildObjectShape(m, ns, hint, at, register)
	default:
		if name, ok := canonicalPrimitive(typ); ok {
			return b.buildPrimitive(name, m)
		}
		// a named type used in type position
		return typegraph.NewRef(typ, ns)
	}
}

func (b *builder) buildComposition(kind typegraph.Kind, ops []any, m map[string]any, ns, hint string, at schemaforge.PathRef) *typegraph.TypeNode {
	n := &typegraph.TypeNode{Kind: kind}
	for i, op := range ops {
		n.Variants = append(n.Variants, typegraph.Variant{
			Type: b.buildOperand(op, ns, fmt.Sprintf("%s_%d", hint, i), at.Index(i)),
		})
	}
	// JSON-Schema-style base keywords beside an allOf act as one more operand.
	if kind == typegraph.KindAllOf {
		if _, ok := m["properties"]; ok {
			base := map[string]any{}
			for k, v := range m {
				if k != "allOf" {
					base[k] = v
				}
			}
			n.Variants = append(n.Variants, typegraph.Variant{
				Type: b.buildOperand(base, ns, hint+"_base", at),
			})
		}
	}
	return n
}

func (b *builder) buildPrimitive(name string, m map[string]any) *typegraph.TypeNode {
	n := typegraph.NewPrimitive(name)
	if lt, _ := m["logicalType"].(string); lt != "" {
		n.Kind = typegraph.KindLogical
		n.LogicalType = lt
		n.Precision = intAttr(m, "precision")
		n.Scale = intAttr(m, "scale")
	}
	b.stashExtensions(n, m)
	return n
}

func (b *builder) buildRecord(m map[string]any, ns, hint string, at schemaforge.PathRef, register bool) *typegraph.TypeNode {
	n := &typegraph.TypeNode{Kind: typegraph.KindRecord}
	declaredNS, hasNS := m["namespace"].(string)
	if hasNS {
		ns = declaredNS // nearest enclosing namespace for nested declarations
	}
	n.Namespace = ns
	b.applyName(n, m, at)
	b.applyDocs(n, m)
	b.applyAliases(n, m, at)

	fieldNS := n.Namespace
	if rawFields, ok := m["fields"].([]any); ok {
		for i, rf := range rawFields {
			fm, ok := rf.(map[string]any)
			if !ok {
				b.errf(at.Field("fields").Index(i), schemaforge.CodeInvalidSchema, schemaforge.SeverityFatal,
					fmt.Errorf("field %d is not an object", i), nil)
				continue
			}
			f := b.buildField(fm, fieldNS, i, at.Field("fields").Index(i))
			n.Fields = append(n.Fields, f)
		}
	}
	return b.finish(n, hint, at, register)
}

func (b *builder) buildField(fm map[string]any, ns string, idx int, at schemaforge.PathRef) *typegraph.FieldNode {
	rawName, _ := fm["name"].(string)
	name, changed, err := names.NormalizeWithFallback(rawName, fmt.Sprintf("field_%d", idx))
	if err != nil {
		b.errf(at, schemaforge.CodeNameNormalization, schemaforge.SeverityFatal, err, map[string]any{"name": rawName})
		name = fmt.Sprintf("field_%d", idx)
	}
	f := &typegraph.FieldNode{Name: name}
	if changed {
		f.SetAltname(typegraph.AltJSON, rawName)
	}
	f.Type = b.build(fm["type"], ns, name, at.Field("type"))
	if dv, ok := fm["default"]; ok {
		f.Default = dv
		f.HasDefault = true
		b.checkDefault(f, at)
	}
	// A field with no default must be present in every instance.
	f.Required = !f.HasDefault
	if o, _ := fm["order"].(string); o != "" {
		f.Order = typegraph.FieldOrder(o)
	}
	if doc, _ := fm["doc"].(string); doc != "" {
		f.Doc = doc
	}
	if al, ok := fm["aliases"].([]any); ok {
		for _, a := range al {
			if s, ok := a.(string); ok {
				f.Aliases = append(f.Aliases, s)
			}
		}
	}
	return f
}

func (b *builder) buildEnum(m map[string]any, ns, hint string, at schemaforge.PathRef, register bool) *typegraph.TypeNode {
	n := &typegraph.TypeNode{Kind: typegraph.KindEnum}
	if declaredNS, ok := m["namespace"].(string); ok {
		ns = declaredNS
	}
	n.Namespace = ns
	b.applyName(n, m, at)
	b.applyDocs(n, m)
	b.applyAliases(n, m, at)
	if raw, ok := m["symbols"].([]any); ok {
		for i, rs := range raw {
			s, _ := rs.(string)
			sym, changed, err := names.NormalizeWithFallback(s, fmt.Sprintf("symbol_%d", i))
			if err != nil {
				b.errf(at.Field("symbols").Index(i), schemaforge.CodeNameNormalization, schemaforge.SeverityFatal, err, map[string]any{"symbol": s})
				continue
			}
			n.Symbols = append(n.Symbols, sym)
			if changed {
				if n.Altsymbols == nil {
					n.Altsymbols = map[string]map[string]string{}
				}
				if n.Altsymbols[typegraph.AltJSON] == nil {
					n.Altsymbols[typegraph.AltJSON] = map[string]string{}
				}
				n.Altsymbols[typegraph.AltJSON][sym] = s
			}
		}
	}
	return b.finish(n, hint, at, register)
}

func (b *builder) buildFixed(m map[string]any, ns, hint string, at schemaforge.PathRef, register bool) *typegraph.TypeNode {
	n := &typegraph.TypeNode{Kind: typegraph.KindFixed}
	if declaredNS, ok := m["namespace"].(string); ok {
		ns = declaredNS
	}
	n.Namespace = ns
	b.applyName(n, m, at)
	b.applyDocs(n, m)
	b.applyAliases(n, m, at)
	n.Size = intAttr(m, "size")
	return b.finish(n, hint, at, register)
}

// buildObjectShape lowers a JSON-Schema-style object into a record carrying
// transient open-member data for the pattern-map detector.
func (b *builder) buildObjectShape(m map[string]any, ns, hint string, at schemaforge.PathRef, register bool) *typegraph.TypeNode {
	n := &typegraph.TypeNode{Kind: typegraph.KindRecord, Namespace: ns}
	b.applyName(n, m, at)
	b.applyDocs(n, m)

	required := map[string]bool{}
	if rawReq, ok := m["required"].([]any); ok {
		for _, r := range rawReq {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}

	if props, ok := m["properties"].(map[string]any); ok {
		// map iteration order is random; fix field order by property name so
		// the lowering is deterministic
		keys := make([]string, 0, len(props))
		for k := range props {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			name, changed, err := names.NormalizeWithFallback(k, fmt.Sprintf("member_%d", i))
			if err != nil {
				b.errf(at.Field("properties").Field(k), schemaforge.CodeNameNormalization, schemaforge.SeverityFatal, err, map[string]any{"name": k})
				continue
			}
			f := &typegraph.FieldNode{Name: name, Required: required[k]}
			if changed {
				f.SetAltname(typegraph.AltJSON, k)
			}
			f.Type = b.build(props[k], n.Namespace, name, at.Field("properties").Field(k))
			n.Fields = append(n.Fields, f)
		}
	}

	switch ap := m["additionalProperties"].(type) {
	case bool:
		if ap {
			n.Open = true
		}
	case map[string]any:
		n.OpenValues = b.build(ap, n.Namespace, hint+"_value", at.Field("additionalProperties"))
	case nil:
		// absent: closed shape
	}
	if pp, ok := m["patternProperties"].(map[string]any); ok {
		pats := make([]string, 0, len(pp))
		for p := range pp {
			pats = append(pats, p)
		}
		sort.Strings(pats)
		for _, p := range pats {
			n.KeyPatterns = append(n.KeyPatterns, typegraph.KeyPattern{
				Pattern: p,
				Value:   b.build(pp[p], n.Namespace, hint+"_value", at.Field("patternProperties").Field(p)),
			})
		}
	}
	b.stashExtensions(n, m)
	return b.finish(n, hint, at, register)
}

// finish decides a declaration's registry fate. Anonymous nodes lowered as
// composition operands stay unregistered (they dissolve into the merge and
// must not linger in the registry or the emission order); everything else
// takes a stable name when anonymous and registers.
func (b *builder) finish(n *typegraph.TypeNode, hint string, at schemaforge.PathRef, register bool) *typegraph.TypeNode {
	if !register && n.Name == "" {
		return n
	}
	return b.register(n, hint, at)
}

// register assigns a stable name when the declaration has none and inserts
// the node into the registry. Idempotent re-declarations collapse to the
// first node; conflicting ones abort the branch with both definitions
// attached.
func (b *builder) register(n *typegraph.TypeNode, hint string, at schemaforge.PathRef) *typegraph.TypeNode {
	if n.Name == "" {
		if hint == "" {
			hint = "anonymous"
		}
		n.Name = b.reg.StableName(hint, n.Namespace)
	}
	reg, err := b.reg.Register(n)
	if err != nil {
		b.errf(at, schemaforge.CodeDuplicateTypeConflict, schemaforge.SeverityFatal, err, map[string]any{"fullname": n.Fullname()})
		return n
	}
	return reg
}

func (b *builder) applyName(n *typegraph.TypeNode, m map[string]any, at schemaforge.PathRef) {
	raw, _ := m["name"].(string)
	if raw == "" {
		raw, _ = m["title"].(string)
	}
	if raw == "" {
		return // stays anonymous; finish assigns a stable name if it registers
	}
	name, changed, err := names.Normalize(raw)
	if err != nil {
		b.errf(at, schemaforge.CodeNameNormalization, schemaforge.SeverityFatal, err, map[string]any{"name": raw})
		return
	}
	n.Name = name
	if changed {
		n.SetAltname(typegraph.AltJSON, raw)
	}
}

func (b *builder) applyDocs(n *typegraph.TypeNode, m map[string]any) {
	if doc, _ := m["doc"].(string); doc != "" {
		n.Doc = doc
	}
	if docs, ok := m["docs"].(map[string]any); ok {
		n.Docs = map[string]string{}
		for lang, v := range docs {
			if s, ok := v.(string); ok {
				n.Docs[lang] = s
			}
		}
	}
}

func (b *builder) applyAliases(n *typegraph.TypeNode, m map[string]any, at schemaforge.PathRef) {
	al, ok := m["aliases"].([]any)
	if !ok {
		return
	}
	for _, a := range al {
		s, ok := a.(string)
		if !ok {
			continue
		}
		// short aliases inherit the node's namespace
		if n.Namespace != "" && !containsDot(s) {
			s = n.Namespace + "." + s
		}
		n.AddAlias(s)
	}
}

func (b *builder) stashExtensions(n *typegraph.TypeNode, m map[string]any) {
	for k, v := range m {
		if knownTypeAttrs[k] {
			continue
		}
		n.SetExtension(k, v)
	}
}

// checkDefault verifies a field default against the field's type where the
// type is already concrete. References and composites are checked after
// resolution by emitters; here only obvious primitive mismatches warn.
func (b *builder) checkDefault(f *typegraph.FieldNode, at schemaforge.PathRef) {
	t := f.Type
	if t == nil || (t.Kind != typegraph.KindPrimitive && t.Kind != typegraph.KindLogical) {
		return
	}
	ok := true
	switch t.Primitive {
	case "string", "bytes":
		_, ok = f.Default.(string)
	case "boolean":
		_, ok = f.Default.(bool)
	case "int", "long", "float", "double":
		ok = isNumeric(f.Default)
	case "null":
		ok = f.Default == nil
	}
	if !ok {
		b.errf(at.Field("default"), schemaforge.CodeInvalidSchema, schemaforge.SeverityWarning,
			fmt.Errorf("default %v does not match type %s", f.Default, t.Primitive),
			map[string]any{"field": f.Name})
	}
}

func isNumeric(v any) bool {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	case interface{ Float64() (float64, error) }: // json.Number
		return true
	default:
		return false
	}
}

// canonicalPrimitive maps dialect primitive names onto canonical tokens.
func canonicalPrimitive(s string) (string, bool) {
	switch s {
	case "null", "boolean", "int", "long", "float", "double", "bytes", "string":
		return s, true
	case "integer":
		return "long", true
	case "number":
		return "double", true
	case "bool":
		return "boolean", true
	default:
		return "", false
	}
}

func intAttr(m map[string]any, key string) int {
	switch t := m[key].(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case interface{ Int64() (int64, error) }: // json.Number
		i, err := t.Int64()
		if err == nil {
			return int(i)
		}
	}
	return 0
}

func containsDot(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return true
		}
	}
	return false
}
