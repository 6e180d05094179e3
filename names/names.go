// Package names converts arbitrary source identifiers into identifiers valid
// under the canonical naming grammar [A-Za-z_][A-Za-z0-9_]*.
//
// Callers are responsible for recording the original string as an alternate
// name (purpose key "json") on the owning node whenever Normalize reports a
// change, so the identifier round-trips through export.
package names

import (
	schemaforge "github.com/schemaforge/schemaforge"
)

// Normalize returns a grammar-valid identifier for input and reports whether
// it differs from the input. An input with no identifier characters at all
// yields a NameNormalizationError; the caller supplies a fallback (for
// example a positional index) and retries.
func Normalize(input string) (string, bool, error) {
	if input == "" {
		return "", false, &schemaforge.NameNormalizationError{Input: input}
	}
	if isValid(input) {
		// Already grammar-valid names pass through untouched, reserved words
		// included; the reserved-word guard applies only to names we rewrite.
		return input, false, nil
	}
	out := make([]byte, 0, len(input)+2)
	for i := 0; i < len(input); i++ {
		c := input[i]
		if isWordByte(c) {
			out = append(out, c)
		} else {
			out = append(out, '_')
		}
	}
	// entirely non-ASCII input degrades to underscores only; that carries no
	// identity, so treat it as unnormalizable
	allUnderscore := true
	for _, c := range out {
		if c != '_' {
			allUnderscore = false
			break
		}
	}
	if allUnderscore && !isValid(input) {
		return "", false, &schemaforge.NameNormalizationError{Input: input}
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = append([]byte{'_'}, out...)
	}
	s := string(out)
	if isReserved(s) {
		s += "_"
	}
	return s, s != input, nil
}

// NormalizeWithFallback behaves like Normalize but substitutes fallback when
// the input cannot be normalized at all.
func NormalizeWithFallback(input, fallback string) (string, bool, error) {
	s, changed, err := Normalize(input)
	if err == nil {
		return s, changed, nil
	}
	s, _, err = Normalize(fallback)
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func isValid(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isWordByte(c) {
			return false
		}
		if i == 0 && c >= '0' && c <= '9' {
			return false
		}
	}
	return true
}
