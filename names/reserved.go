package names

// reserved is the union of keyword sets across the target languages the
// toolkit emits code for. A normalized identifier colliding with any of these
// gets a trailing underscore so generated declarations stay valid everywhere.
var reserved = map[string]struct{}{}

func init() {
	for _, kw := range [][]string{goKeywords, javaKeywords, csharpKeywords, pythonKeywords, tsKeywords} {
		for _, w := range kw {
			reserved[w] = struct{}{}
		}
	}
}

func isReserved(s string) bool {
	_, ok := reserved[s]
	return ok
}

var goKeywords = []string{
	"break", "case", "chan", "const", "continue", "default", "defer", "else",
	"fallthrough", "for", "func", "go", "goto", "if", "import", "interface",
	"map", "package", "range", "return", "select", "struct", "switch", "type",
	"var",
}

var javaKeywords = []string{
	"abstract", "assert", "boolean", "byte", "catch", "char", "class", "do",
	"double", "enum", "extends", "final", "finally", "float", "implements",
	"instanceof", "int", "long", "native", "new", "private", "protected",
	"public", "short", "static", "strictfp", "super", "synchronized", "this",
	"throw", "throws", "transient", "try", "void", "volatile", "while",
}

var csharpKeywords = []string{
	"as", "base", "bool", "checked", "decimal", "delegate", "event", "explicit",
	"extern", "fixed", "foreach", "implicit", "in", "internal", "is", "lock",
	"namespace", "object", "operator", "out", "override", "params", "readonly",
	"ref", "sbyte", "sealed", "sizeof", "stackalloc", "string", "typeof",
	"uint", "ulong", "unchecked", "unsafe", "ushort", "using", "virtual",
}

var pythonKeywords = []string{
	"and", "async", "await", "del", "elif", "except", "from", "global", "lambda",
	"nonlocal", "not", "or", "pass", "raise", "with", "yield", "None", "True",
	"False",
}

var tsKeywords = []string{
	"any", "declare", "export", "extends", "function", "get", "instanceof",
	"let", "module", "never", "null", "number", "of", "set", "symbol",
	"typeof", "undefined", "unknown", "yield",
}
