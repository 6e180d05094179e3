// Package rawtree defines the input contract between format parsers and the
// normalization core: a tree of JSON-like values (map[string]any, []any,
// string, json.Number, bool, nil) plus an explicit marker for "this is a
// reference to name X". Dialect parsers lower their documents into this shape;
// the core never sees format-specific syntax.
package rawtree

import (
	"bytes"
	"errors"
	"io"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Ref is the explicit reference marker. Parsers that can distinguish a
// reference from an inline declaration (e.g. $ref, typeref attributes) emit a
// Ref instead of a bare string so the resolver does not have to guess.
type Ref struct {
	// Name is the reference expression: a short name, a dotted fullname, or an
	// external expression of the form "<location>#<fullname>".
	Name string
}

// DecodeJSON decodes a JSON document into raw-tree shape. Numbers decode as
// json.Number so integer literals survive canonicalization without float
// round-tripping.
func DecodeJSON(data []byte) (any, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		if err == nil {
			return nil, errors.New("rawtree: trailing data after JSON document")
		}
		return nil, err
	}
	return v, nil
}

// DecodeYAML decodes a YAML document into raw-tree shape, normalizing
// map[any]any containers into map[string]any recursively. Non-string keys are
// dropped.
func DecodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return normalizeValue(v), nil
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = normalizeValue(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
