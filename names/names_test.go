package names

import (
	"errors"
	"testing"

	schemaforge "github.com/schemaforge/schemaforge"
)

func TestNormalize_ValidPassesUnchanged(t *testing.T) {
	for _, in := range []string{"order", "Order", "_private", "a1", "snake_case", "type"} {
		got, changed, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", in, err)
		}
		if changed {
			t.Fatalf("Normalize(%q) reported a change", in)
		}
		if got != in {
			t.Fatalf("Normalize(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestNormalize_Rewrites(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"my-type", "my_type"},
		{"a.b", "a_b"},
		{"hello world", "hello_world"},
		{"2fast", "_2fast"},
		{"9", "_9"},
		{"x:y/z", "x_y_z"},
	}
	for _, c := range cases {
		got, changed, err := Normalize(c.in)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", c.in, err)
		}
		if !changed {
			t.Fatalf("Normalize(%q) did not report a change", c.in)
		}
		if got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalize_RewrittenReservedWordGetsSuffix(t *testing.T) {
	// "for!" strips to "for", a reserved word; the rewrite must dodge it.
	got, changed, err := Normalize("for!")
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if !changed || got != "for_" {
		t.Fatalf("Normalize(%q) = %q (changed=%v), want %q", "for!", got, changed, "for_")
	}
	// A reserved word that is already grammar-valid passes untouched.
	got, changed, err = Normalize("for")
	if err != nil || changed || got != "for" {
		t.Fatalf("Normalize(%q) = %q, %v, %v; want identity", "for", got, changed, err)
	}
}

func TestNormalize_Unnormalizable(t *testing.T) {
	for _, in := range []string{"", "---", "日本語", "!!!"} {
		_, _, err := Normalize(in)
		if err == nil {
			t.Fatalf("Normalize(%q): want error, got none", in)
		}
		var nerr *schemaforge.NameNormalizationError
		if !errors.As(err, &nerr) {
			t.Fatalf("Normalize(%q): error type %T, want NameNormalizationError", in, err)
		}
	}
}

func TestNormalizeWithFallback(t *testing.T) {
	got, changed, err := NormalizeWithFallback("---", "field_3")
	if err != nil {
		t.Fatalf("NormalizeWithFallback error: %v", err)
	}
	if got != "field_3" || !changed {
		t.Fatalf("got %q (changed=%v), want fallback field_3 with change reported", got, changed)
	}
}
