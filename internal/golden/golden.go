// Package golden compares multi-line text output in tests and reports
// mismatches as a readable character diff.
package golden

import (
	"strings"
	"testing"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns a pretty-printed diff from want to got, or "" if they match.
func Diff(want, got string) string {
	if want == got {
		return ""
	}
	dmp := diffpatch.New()
	diffs := dmp.DiffMain(want, got, strings.Contains(want, "\n") || strings.Contains(got, "\n"))
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.DiffPrettyText(diffs)
}

// Equal fails t when got differs from want, printing both and their diff.
func Equal(t testing.TB, want, got string) {
	t.Helper()
	if d := Diff(want, got); d != "" {
		t.Errorf("output mismatch\nwant:\n%s\ngot:\n%s\ndiff:\n%s", want, got, d)
	}
}
