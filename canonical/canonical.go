// Package canonical produces the Parsing Canonical Form of a resolved type
// graph and computes content fingerprints over it. Two schemas denote the
// same wire contract iff their canonical byte sequences are identical;
// fingerprints are a practical proxy for that comparison, not its definition.
package canonical

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/schemaforge/schemaforge/typegraph"
)

// Format returns the canonical UTF-8 byte sequence for a resolved subtree.
//
// The transform follows the fixed normalization steps: primitives reduce to
// their bare name token, short names are replaced by fullnames, attributes
// outside the parse-relevant set {type, name, fields, symbols, items, values,
// size} are stripped, object attributes are emitted in the fixed order
// name, type, fields, symbols, items, values, size, and no whitespace appears
// outside string literals. A named type is defined at its first occurrence
// and referenced by fullname afterwards, which keeps cyclic graphs finite.
func Format(n *typegraph.TypeNode) ([]byte, error) {
	if n == nil {
		return nil, errors.New("canonical: nil type")
	}
	var buf bytes.Buffer
	if err := write(&buf, n, map[string]bool{}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func write(buf *bytes.Buffer, n *typegraph.TypeNode, defined map[string]bool) error {
	switch n.Kind {
	case typegraph.KindPrimitive:
		writeString(buf, n.Primitive)
		return nil
	case typegraph.KindLogical:
		// Logical annotations are not parse-relevant; only the base primitive
		// survives canonicalization.
		writeString(buf, n.Primitive)
		return nil
	case typegraph.KindRecord:
		full := n.Fullname()
		if full != "" {
			if defined[full] {
				writeString(buf, full)
				return nil
			}
			defined[full] = true
		}
		buf.WriteByte('{')
		// An anonymous record (a dissolved composition result) has no name
		// attribute; nothing can refer back to it anyway.
		if full != "" {
			buf.WriteString(`"name":`)
			writeString(buf, full)
			buf.WriteByte(',')
		}
		buf.WriteString(`"type":"record","fields":[`)
		for i, f := range n.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(`{"name":`)
			writeString(buf, f.Name)
			buf.WriteString(`,"type":`)
			if err := write(buf, f.Type, defined); err != nil {
				return err
			}
			buf.WriteByte('}')
		}
		buf.WriteString("]}")
		return nil
	case typegraph.KindEnum:
		full := n.Fullname()
		if full != "" {
			if defined[full] {
				writeString(buf, full)
				return nil
			}
			defined[full] = true
		}
		buf.WriteByte('{')
		if full != "" {
			buf.WriteString(`"name":`)
			writeString(buf, full)
			buf.WriteByte(',')
		}
		buf.WriteString(`"type":"enum","symbols":[`)
		for i, s := range n.Symbols {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, s)
		}
		buf.WriteString("]}")
		return nil
	case typegraph.KindFixed:
		full := n.Fullname()
		if full != "" {
			if defined[full] {
				writeString(buf, full)
				return nil
			}
			defined[full] = true
		}
		buf.WriteByte('{')
		if full != "" {
			buf.WriteString(`"name":`)
			writeString(buf, full)
			buf.WriteByte(',')
		}
		buf.WriteString(`"type":"fixed","size":`)
		buf.WriteString(strconv.Itoa(n.Size))
		buf.WriteByte('}')
		return nil
	case typegraph.KindArray:
		buf.WriteString(`{"type":"array","items":`)
		if err := write(buf, n.Items, defined); err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil
	case typegraph.KindMap:
		// Key constraints are a decode-time concern, not parse-relevant.
		buf.WriteString(`{"type":"map","values":`)
		if err := write(buf, n.Values, defined); err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil
	case typegraph.KindUnion, typegraph.KindChoice:
		// A choice reads like a union on the wire; its discriminator metadata
		// does not change what a reader can parse.
		buf.WriteByte('[')
		for i := range n.Variants {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := write(buf, n.Variants[i].Type, defined); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case typegraph.KindUnresolved:
		// An unresolved placeholder canonicalizes as its reference expression so
		// two graphs failing on the same branch still compare equal.
		writeString(buf, n.RefName)
		return nil
	}
	return fmt.Errorf("canonical: kind %s must be resolved before canonicalization", n.Kind)
}

// writeString emits a JSON string literal in direct UTF-8 form: only quotes,
// backslashes and control characters are escaped, never multi-byte runes.
func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '\\':
			buf.WriteString(`\\`)
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\b':
			buf.WriteString(`\b`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\f':
			buf.WriteString(`\f`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r <= 0x1F:
			fmt.Fprintf(buf, `\u%04x`, r)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}
