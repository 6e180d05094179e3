package schemaforge

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIssuesError_Summarizes(t *testing.T) {
	iss := Issues{
		{Code: CodeUnresolvedReference, Path: "/fields/0/type"},
		{Code: CodeNameNormalization, Path: "/name"},
	}
	msg := iss.Error()
	if !strings.Contains(msg, "unresolved_reference at /fields/0/type") {
		t.Fatalf("Error() = %q", msg)
	}
}

func TestIssuesError_TruncatesLongLists(t *testing.T) {
	var iss Issues
	for i := 0; i < 5; i++ {
		iss = append(iss, Issue{Code: CodeInvalidSchema, Path: fmt.Sprintf("/%d", i)})
	}
	msg := iss.Error()
	if !strings.Contains(msg, "(total 5)") {
		t.Fatalf("Error() = %q", msg)
	}
}

func TestHasFatalAndWarnings(t *testing.T) {
	iss := Issues{
		{Code: CodeExternalReference, Severity: SeverityWarning},
		{Code: CodeUnresolvedReference, Severity: SeverityFatal},
	}
	if !iss.HasFatal() {
		t.Fatalf("want HasFatal")
	}
	if got := iss.Warnings(); len(got) != 1 || got[0].Code != CodeExternalReference {
		t.Fatalf("Warnings = %+v", got)
	}
}

func TestAsIssues(t *testing.T) {
	iss := Issues{{Code: CodeParseError}}
	wrapped := fmt.Errorf("normalize: %w", error(iss))
	got, ok := AsIssues(wrapped)
	if !ok || len(got) != 1 {
		t.Fatalf("AsIssues failed on wrapped error")
	}
	if _, ok := AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain errors are not Issues")
	}
	if _, ok := AsIssues(nil); ok {
		t.Fatalf("nil is not Issues")
	}
}

func TestExternalReferenceError_Unwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := &ExternalReferenceError{Ref: "a.json#T", Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("Unwrap must expose the fetch error")
	}
}

func TestPathRef(t *testing.T) {
	p := Root().Field("definitions").Field("a/b").Index(2).Field("x~y")
	if got := p.Pointer(); got != "/definitions/a~1b/2/x~0y" {
		t.Fatalf("Pointer = %q", got)
	}
}

func TestPathRef_Escaping(t *testing.T) {
	if got := Root().Field("a~b").Pointer(); got != "/a~0b" {
		t.Fatalf("Pointer = %q", got)
	}
	if got := Root().Field("a/b").Pointer(); got != "/a~1b" {
		t.Fatalf("Pointer = %q", got)
	}
	if got := Root().Pointer(); got != "/" {
		t.Fatalf("root Pointer = %q", got)
	}
}

func TestAt_RoundTrip(t *testing.T) {
	p := At("/fields/2/type")
	if got := p.Field("name").Pointer(); got != "/fields/2/type/name" {
		t.Fatalf("Pointer = %q", got)
	}
}
