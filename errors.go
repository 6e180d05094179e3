package schemaforge

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeNameNormalization     = "name_normalization"
	CodeDuplicateTypeConflict = "duplicate_type_conflict"
	CodeUnresolvedReference   = "unresolved_reference"
	CodeExternalReference     = "external_reference"
	CodeAmbiguousUnion        = "ambiguous_union"
	CodeInvalidComposition    = "invalid_composition"
	CodeInvalidSchema         = "invalid_schema"
	CodeParseError            = "parse_error"
)

// Severity classifies an Issue. Fatal issues make the conversion run fail;
// warnings are reported but do not stop processing.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityFatal
)

func (s Severity) String() string {
	if s == SeverityFatal {
		return "fatal"
	}
	return "warning"
}

// Issue represents a single diagnostic entry produced while normalizing a
// schema document.
type Issue struct {
	Path     string // JSON Pointer into the source document (for example: /definitions/Order).
	Code     string // One of the codes listed above.
	Message  string
	Hint     string   // Optional: remediation hints, candidate names, etc.
	Cause    error    // Optional: underlying error.
	Severity Severity // Fatal aborts the run result; Warning does not.
	// Params carries structured parameters (e.g., {"name":"my-type", "namespace":"com.example"})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of diagnostics that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. unresolved_reference at /fields/2/type
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// HasFatal reports whether any issue in the collection is fatal-class.
func (iss Issues) HasFatal() bool {
	for _, it := range iss {
		if it.Severity == SeverityFatal {
			return true
		}
	}
	return false
}

// Warnings returns only the warning-class issues.
func (iss Issues) Warnings() Issues {
	var out Issues
	for _, it := range iss {
		if it.Severity == SeverityWarning {
			out = append(out, it)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
