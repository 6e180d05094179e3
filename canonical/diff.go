package canonical

import "github.com/sergi/go-diff/diffmatchpatch"

// Diff renders a human-readable delta between two canonical forms. Intended
// for diagnostics when two schemas that were expected to be equivalent are
// not; equivalence itself is byte equality, never a diff heuristic.
func Diff(a, b []byte) string {
	if string(a) == string(b) {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(a), string(b), false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.DiffPrettyText(diffs)
}
