package rawtree

import (
	"encoding/json"
	"testing"
)

func TestDecodeJSON_NumbersStayExact(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"size":16,"ratio":0.5}`))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("decoded %T, want map", v)
	}
	n, ok := m["size"].(json.Number)
	if !ok {
		t.Fatalf("size decoded as %T, want json.Number", m["size"])
	}
	if n.String() != "16" {
		t.Fatalf("size = %s", n)
	}
}

func TestDecodeJSON_TrailingData(t *testing.T) {
	if _, err := DecodeJSON([]byte(`{"a":1} {"b":2}`)); err == nil {
		t.Fatalf("trailing data must be rejected")
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	if _, err := DecodeJSON([]byte(`{`)); err == nil {
		t.Fatalf("want parse error")
	}
}

func TestDecodeYAML_NormalizesKeys(t *testing.T) {
	v, err := DecodeYAML([]byte("type: record\nfields:\n  - name: id\n    type: string\n"))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("decoded %T, want map[string]any", v)
	}
	fields, ok := m["fields"].([]any)
	if !ok || len(fields) != 1 {
		t.Fatalf("fields = %#v", m["fields"])
	}
	if _, ok := fields[0].(map[string]any); !ok {
		t.Fatalf("nested maps must normalize to map[string]any, got %T", fields[0])
	}
}
